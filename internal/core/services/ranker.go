package services

import (
	"sort"
	"strings"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
	"github.com/RyanKhPark/sf-asgmt/internal/textmatch"
)

const (
	containmentBoost = 0.2
	lengthBoostCap   = 0.2
	lengthBoostScale = 12
)

// Ranker scores document sentences against an answer and returns the best
// candidates for highlighting.
type Ranker struct {
	topK     int
	minScore float64
}

func NewRanker(topK int, minScore float64) *Ranker {
	return &Ranker{topK: topK, minScore: minScore}
}

// Rank splits every page of the corpus into sentences, scores each sentence
// against the answer and returns at most topK candidates whose score exceeds
// minScore, best first. An empty result means nothing in the document
// substantiates the answer.
func (r *Ranker) Rank(answer string, corpus []domain.PageText) []domain.Candidate {
	answerNorm := textmatch.Normalize(answer)
	if answerNorm == "" {
		return nil
	}
	answerWords := textmatch.WordSet(answerNorm)

	var scored []domain.Candidate
	for _, page := range corpus {
		for _, sentence := range textmatch.Sentences(page.Text) {
			sNorm := textmatch.Normalize(sentence)
			if sNorm == "" {
				continue
			}
			sWords := textmatch.WordSet(sNorm)

			score := textmatch.Jaccard(answerWords, sWords)
			if strings.Contains(answerNorm, sNorm) {
				score += containmentBoost
			}
			if strings.Contains(sNorm, answerNorm) {
				score += containmentBoost
			}
			if score <= 0 {
				// The length regularizer must never promote a sentence
				// that shares nothing with the answer.
				continue
			}
			lengthBoost := float64(len(sWords)) / lengthBoostScale
			if lengthBoost > lengthBoostCap {
				lengthBoost = lengthBoostCap
			}
			score += lengthBoost
			scored = append(scored, domain.Candidate{
				Page:     page.Page,
				Sentence: strings.TrimSpace(sentence),
				Score:    score,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	var top []domain.Candidate
	for _, c := range scored {
		if c.Score <= r.minScore {
			break
		}
		top = append(top, c)
		if len(top) == r.topK {
			break
		}
	}
	return top
}
