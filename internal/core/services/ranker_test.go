package services

import (
	"testing"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
)

func corpusOf(pages ...string) []domain.PageText {
	var out []domain.PageText
	for i, text := range pages {
		out = append(out, domain.PageText{Page: i + 1, Text: text})
	}
	return out
}

func TestRankVerbatimSentenceWins(t *testing.T) {
	r := NewRanker(3, 0.15)
	answer := "The mitochondria is the powerhouse of the cell."
	corpus := corpusOf(
		"The weather report mentioned light rain over the coastal region today. " +
			"The mitochondria is the powerhouse of the cell. " +
			"Lunch service begins promptly at noon in the main hall.",
	)

	got := r.Rank(answer, corpus)
	if len(got) == 0 {
		t.Fatal("expected candidates")
	}
	if got[0].Sentence != "The mitochondria is the powerhouse of the cell." {
		t.Fatalf("top candidate = %q", got[0].Sentence)
	}
	if got[0].Page != 1 {
		t.Fatalf("page = %d", got[0].Page)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[0].Score {
			t.Fatalf("candidate %d outranks verbatim sentence", i)
		}
	}
}

func TestRankContainmentBoost(t *testing.T) {
	r := NewRanker(3, 0.15)
	// The first sentence is contained in the answer, the second merely
	// shares vocabulary. Containment must outrank overlap alone.
	answer := "Photosynthesis converts light into chemical energy and sustains plant growth."
	corpus := corpusOf(
		"Photosynthesis converts light into chemical energy. " +
			"Chemical energy and light feature in many growth experiments on plants and other things.",
	)

	got := r.Rank(answer, corpus)
	if len(got) < 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Sentence != "Photosynthesis converts light into chemical energy." {
		t.Fatalf("top candidate = %q", got[0].Sentence)
	}
}

func TestRankTopKAndFloor(t *testing.T) {
	r := NewRanker(2, 0.15)
	answer := "Glaciers shape valleys through slow persistent erosion over millennia."
	corpus := corpusOf(
		"Glaciers shape valleys through slow persistent erosion. "+
			"Erosion from glaciers carves valleys over millennia. "+
			"Persistent glacial movement shapes the landscape slowly.",
		"Completely unrelated recipe for tomato soup with fresh basil leaves.",
	)

	got := r.Rank(answer, corpus)
	if len(got) > 2 {
		t.Fatalf("topK not honoured, got %d", len(got))
	}
	for _, c := range got {
		if c.Score <= 0.15 {
			t.Fatalf("candidate below floor: %+v", c)
		}
		if c.Page != 1 {
			t.Fatalf("unrelated page ranked: %+v", c)
		}
	}
}

func TestRankNoOverlapReturnsNothingAboveFloor(t *testing.T) {
	r := NewRanker(3, 0.15)
	got := r.Rank("quantum entanglement violates locality",
		corpusOf("The cat sat."))
	if len(got) != 0 {
		t.Fatalf("expected no candidates, got %+v", got)
	}
}

func TestRankEmptyInputs(t *testing.T) {
	r := NewRanker(3, 0.15)
	if got := r.Rank("", corpusOf("Some page text here.")); got != nil {
		t.Fatalf("empty answer: %+v", got)
	}
	if got := r.Rank("an answer", nil); got != nil {
		t.Fatalf("empty corpus: %+v", got)
	}
	if got := r.Rank("an answer", corpusOf("   \n  ")); got != nil {
		t.Fatalf("blank page: %+v", got)
	}
}

func TestRankDeterministicOrder(t *testing.T) {
	r := NewRanker(3, 0.15)
	answer := "Rivers carry sediment downstream toward the delta."
	corpus := corpusOf(
		"Rivers carry sediment downstream toward the delta basin every year.",
		"Rivers carry sediment downstream toward the delta basin every year.",
	)
	first := r.Rank(answer, corpus)
	second := r.Rank(answer, corpus)
	if len(first) != len(second) {
		t.Fatal("non-deterministic length")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("order changed between runs at %d", i)
		}
	}
	// Stable sort keeps page 1 ahead of the identical page 2 sentence.
	if len(first) >= 2 && first[0].Page != 1 {
		t.Fatalf("tie broken against document order: %+v", first[0])
	}
}
