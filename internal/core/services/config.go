package services

import "time"

// GroundingConfig tunes candidate selection, span location and pacing.
type GroundingConfig struct {
	// TopK is the maximum number of ranked sentences highlighted per answer.
	TopK int
	// MinScore is the ranking score a sentence must exceed to be highlighted.
	MinScore float64
	// FuzzyFloor is the minimum fraction of candidate words a span must
	// contain for a fuzzy match to be accepted.
	FuzzyFloor float64
	// DedupTolerance is the geometry tolerance, in screen pixels, under
	// which two annotations on the same page with the same text are
	// considered duplicates.
	DedupTolerance float64
	// PrimarySettle is how long to wait after rendering the first
	// candidate's page before locating the span.
	PrimarySettle time.Duration
	// SecondarySettle is the settle delay for candidates after the first.
	SecondarySettle time.Duration
	// FragmentRetries bounds how many times the locator polls for the
	// text layer of a page before giving up.
	FragmentRetries int
	// FragmentRetryDelay is the pause between text layer polls.
	FragmentRetryDelay time.Duration
	// ImageAreaRatio is the fraction of the page area an image must cover
	// to be circled when the answer carries no figure keywords.
	ImageAreaRatio float64
}

// DefaultGroundingConfig returns the tuning used in production.
func DefaultGroundingConfig() GroundingConfig {
	return GroundingConfig{
		TopK:               3,
		MinScore:           0.15,
		FuzzyFloor:         0.4,
		DedupTolerance:     2,
		PrimarySettle:      600 * time.Millisecond,
		SecondarySettle:    200 * time.Millisecond,
		FragmentRetries:    20,
		FragmentRetryDelay: 500 * time.Millisecond,
		ImageAreaRatio:     0.12,
	}
}
