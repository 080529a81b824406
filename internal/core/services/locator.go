package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driven"
	"github.com/RyanKhPark/sf-asgmt/internal/textmatch"
)

// MatchType records which strategy located a span.
type MatchType string

const (
	MatchExact  MatchType = "exact"
	MatchPhrase MatchType = "phrase"
	MatchFuzzy  MatchType = "fuzzy"
)

// SpanMatch is a located occurrence of a candidate sentence on a page,
// expressed as the text fragments that carry it.
type SpanMatch struct {
	Page      int
	Fragments []domain.TextFragment
	Type      MatchType
	Score     float64
}

// Locator finds where a candidate sentence lives on a rendered page. It
// degrades through three strategies: an exact normalized substring match,
// a phrase window over the page's word sequence, and finally a fuzzy
// word-overlap match that accepts the best span above fuzzyFloor.
type Locator struct {
	fuzzyFloor float64
	retries    int
	retryDelay time.Duration
}

func NewLocator(cfg GroundingConfig) *Locator {
	return &Locator{
		fuzzyFloor: cfg.FuzzyFloor,
		retries:    cfg.FragmentRetries,
		retryDelay: cfg.FragmentRetryDelay,
	}
}

// Locate waits for the page's text layer and then tries each strategy in
// order. It returns domain.ErrSpanNotFound when no strategy succeeds and
// domain.ErrTextLayerUnavailable when the text layer never appears within
// the retry budget.
func (l *Locator) Locate(ctx context.Context, r driven.Renderer, page int, candidate string) (*SpanMatch, error) {
	fragments, err := l.waitForFragments(ctx, r, page)
	if err != nil {
		return nil, err
	}

	candNorm := textmatch.Normalize(candidate)
	if candNorm == "" {
		return nil, domain.ErrSpanNotFound
	}

	lines := groupLines(fragments)

	if m := exactMatch(lines, page, candNorm); m != nil {
		return m, nil
	}
	if m := phraseMatch(fragments, page, candNorm); m != nil {
		return m, nil
	}
	if m := fuzzyMatch(lines, page, candNorm, l.fuzzyFloor); m != nil {
		return m, nil
	}
	return nil, domain.ErrSpanNotFound
}

// WaitForFragments exposes the bounded text layer wait for callers that
// need fragments without locating a span, such as caption lookup.
func (l *Locator) WaitForFragments(ctx context.Context, r driven.Renderer, page int) ([]domain.TextFragment, error) {
	return l.waitForFragments(ctx, r, page)
}

func (l *Locator) waitForFragments(ctx context.Context, r driven.Renderer, page int) ([]domain.TextFragment, error) {
	for attempt := 0; ; attempt++ {
		fragments, err := r.TextContent(page)
		if err == nil && len(fragments) > 0 {
			return fragments, nil
		}
		if err != nil && !errors.Is(err, domain.ErrTextLayerUnavailable) {
			return nil, err
		}
		if attempt >= l.retries {
			return nil, domain.ErrTextLayerUnavailable
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryDelay):
		}
	}
}

// textLine is a horizontal run of fragments sharing a baseline.
type textLine struct {
	fragments []domain.TextFragment
	text      string
}

// groupLines clusters fragments by vertical position, preserving extraction
// order within a line. Fragments whose baselines sit within half a font size
// of each other are treated as one line.
func groupLines(fragments []domain.TextFragment) []textLine {
	var lines []textLine
	var curY float64
	for _, f := range fragments {
		tol := f.FontSize / 2
		if tol < 2 {
			tol = 2
		}
		if len(lines) == 0 || abs(f.Y-curY) > tol {
			lines = append(lines, textLine{})
			curY = f.Y
		}
		line := &lines[len(lines)-1]
		line.fragments = append(line.fragments, f)
		if line.text != "" {
			line.text += " "
		}
		line.text += f.Content
	}
	return lines
}

// exactMatch succeeds when a single fragment, or a whole line, contains the
// candidate verbatim after normalization.
func exactMatch(lines []textLine, page int, candNorm string) *SpanMatch {
	for _, line := range lines {
		for _, f := range line.fragments {
			if strings.Contains(textmatch.Normalize(f.Content), candNorm) {
				return &SpanMatch{Page: page, Fragments: []domain.TextFragment{f}, Type: MatchExact, Score: 1}
			}
		}
	}
	for _, line := range lines {
		if strings.Contains(textmatch.Normalize(line.text), candNorm) {
			return &SpanMatch{Page: page, Fragments: line.fragments, Type: MatchExact, Score: 1}
		}
	}
	return nil
}

// phraseMatch slides the candidate's token sequence over the page's word
// sequence and, on a hit, returns the contiguous run of fragments that
// carry the window. This is what finds sentences broken across lines.
func phraseMatch(fragments []domain.TextFragment, page int, candNorm string) *SpanMatch {
	tokens := textmatch.Words(candNorm)
	if len(tokens) == 0 {
		return nil
	}

	// Flatten the page into words, remembering which fragment each word
	// came from.
	var words []string
	var owner []int
	for i, f := range fragments {
		for _, w := range textmatch.Words(textmatch.Normalize(f.Content)) {
			words = append(words, w)
			owner = append(owner, i)
		}
	}
	if len(words) < len(tokens) {
		return nil
	}

	for start := 0; start+len(tokens) <= len(words); start++ {
		hit := true
		for j, tok := range tokens {
			if words[start+j] != tok {
				hit = false
				break
			}
		}
		if !hit {
			continue
		}
		first, last := owner[start], owner[start+len(tokens)-1]
		run := make([]domain.TextFragment, 0, last-first+1)
		run = append(run, fragments[first:last+1]...)
		return &SpanMatch{Page: page, Fragments: run, Type: MatchPhrase, Score: 1}
	}
	return nil
}

// fuzzyMatch scores each line by the fraction of candidate words it contains
// and accepts the best line above the floor.
func fuzzyMatch(lines []textLine, page int, candNorm string, floor float64) *SpanMatch {
	candWords := textmatch.Words(candNorm)
	if len(candWords) == 0 {
		return nil
	}

	best := -1
	bestScore := 0.0
	for i, line := range lines {
		lineWords := textmatch.WordSet(textmatch.Normalize(line.text))
		if len(lineWords) == 0 {
			continue
		}
		found := 0
		for _, w := range candWords {
			if _, ok := lineWords[w]; ok {
				found++
			}
		}
		score := float64(found) / float64(len(candWords))
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 || bestScore <= floor {
		return nil
	}
	return &SpanMatch{Page: page, Fragments: lines[best].fragments, Type: MatchFuzzy, Score: bestScore}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
