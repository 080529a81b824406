package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driven"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driving"
	"github.com/RyanKhPark/sf-asgmt/internal/textmatch"
)

// Verify interface compliance
var _ driving.GroundingService = (*GroundingSvc)(nil)

// noMatchMessage is surfaced when no sentence in the document clears the
// ranking floor for an answer.
const noMatchMessage = "I couldn't find relevant content for that answer in this PDF."

var (
	figureKeywordRe = regexp.MustCompile(`(?i)(fig(?:ure)?\.?|image|diagram|chart|graph|table|photo|picture)`)
	figureNumberRe  = regexp.MustCompile(`(?i)fig(?:ure)?\.?\s*(\d{1,3})`)
	captionLineRe   = regexp.MustCompile(`(?i)^\s*(fig(?:ure)?\.?|image|diagram|chart|graph|table)\s*\d*\s*[:).\-]?`)
)

// GroundingSvc turns batches of AI answer text into highlights anchored on
// the pages that substantiate them. Per-answer and per-candidate failures
// degrade to fallbacks; only a document that cannot be opened or rendered
// at all fails the batch.
type GroundingSvc struct {
	sessions    *SessionManager
	annotations driving.AnnotationService
	events      driven.EventSink
	ranker      *Ranker
	locator     *Locator
	projector   *Projector
	cfg         GroundingConfig
	logger      *slog.Logger
}

func NewGroundingService(
	sessions *SessionManager,
	annotations driving.AnnotationService,
	events driven.EventSink,
	cfg GroundingConfig,
	logger *slog.Logger,
) *GroundingSvc {
	return &GroundingSvc{
		sessions:    sessions,
		annotations: annotations,
		events:      events,
		ranker:      NewRanker(cfg.TopK, cfg.MinScore),
		locator:     NewLocator(cfg),
		projector:   NewProjector(),
		cfg:         cfg,
		logger:      logger,
	}
}

// GroundBatch implements driving.GroundingService.
func (g *GroundingSvc) GroundBatch(ctx context.Context, userID, documentID, messageID string, answers []string) error {
	if len(answers) == 0 {
		return nil
	}

	sess, created, err := g.openSession(ctx, userID, documentID)
	if err != nil {
		return err
	}
	if created {
		g.events.Publish(domain.Event{
			Type:       domain.EventDocumentLoaded,
			DocumentID: documentID,
			NumPages:   sess.Renderer().NumPages(),
		})
	}

	if sess.SeenSignature(strings.Join(answers, "||")) {
		g.logger.Debug("skipping repeated answer batch", "document_id", documentID, "message_id", messageID)
		return nil
	}
	sess.ResetCircled()

	for _, answer := range answers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.TrimSpace(answer) == "" {
			continue
		}
		g.groundAnswer(ctx, sess, userID, messageID, answer)
	}
	return nil
}

func (g *GroundingSvc) openSession(ctx context.Context, userID, documentID string) (*Session, bool, error) {
	sess, created, err := g.sessions.Get(ctx, userID, documentID)
	if err != nil {
		g.events.Publish(domain.Event{
			Type:       domain.EventRenderFailed,
			DocumentID: documentID,
			Message:    err.Error(),
		})
		return nil, false, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	return sess, created, nil
}

// groundAnswer ranks, locates and persists highlights for one answer.
func (g *GroundingSvc) groundAnswer(ctx context.Context, sess *Session, userID, messageID, answer string) {
	candidates := g.ranker.Rank(answer, sess.Corpus())
	if len(candidates) == 0 {
		g.events.Publish(domain.Event{
			Type:       domain.EventNoMatchFound,
			DocumentID: sess.DocumentID(),
			Message:    noMatchMessage,
		})
		return
	}

	for i, cand := range candidates {
		if ctx.Err() != nil {
			return
		}
		primary := i == 0

		if err := sess.Renderer().RenderPage(ctx, cand.Page); err != nil {
			g.logger.Warn("page render failed, attempting highlight anyway",
				"document_id", sess.DocumentID(), "page", cand.Page, "error", err)
		}
		if primary {
			g.events.Publish(domain.Event{
				Type:       domain.EventPageFocused,
				DocumentID: sess.DocumentID(),
				Page:       cand.Page,
			})
		}
		if err := g.settle(ctx, primary); err != nil {
			return
		}

		h := g.highlightCandidate(ctx, sess, cand)
		g.persistHighlight(ctx, sess, userID, messageID, h, domain.AnnotationAIHighlight)
		sess.Add(h)
		g.events.Publish(domain.Event{
			Type:       domain.EventHighlightAdded,
			DocumentID: sess.DocumentID(),
			Page:       h.PageNumber,
			Highlight:  h,
		})

		if primary {
			g.maybeCircleImage(ctx, sess, userID, messageID, answer, cand.Page)
		}
	}

	g.circleReferencedFigure(ctx, sess, userID, messageID, answer)
}

// settle pauses long enough for the freshly rendered page's text layer and
// viewport to stabilise before geometry is read.
func (g *GroundingSvc) settle(ctx context.Context, primary bool) error {
	d := g.cfg.SecondarySettle
	if primary {
		d = g.cfg.PrimarySettle
	}
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// highlightCandidate tries the precise path and falls back to placeholder
// geometry so the match is never silently dropped.
func (g *GroundingSvc) highlightCandidate(ctx context.Context, sess *Session, cand domain.Candidate) *domain.Highlight {
	match, err := g.locator.Locate(ctx, sess.Renderer(), cand.Page, cand.Sentence)
	if err != nil {
		g.logger.Debug("span not located, using fallback",
			"document_id", sess.DocumentID(), "page", cand.Page, "error", err)
		return domain.NewTextHighlight(domain.HighlightAI, cand.Page, cand.Sentence, nil)
	}

	vp, err := sess.Renderer().Viewport(cand.Page)
	if err != nil {
		g.logger.Debug("viewport unavailable, using fallback",
			"document_id", sess.DocumentID(), "page", cand.Page, "error", err)
		return domain.NewTextHighlight(domain.HighlightAI, cand.Page, cand.Sentence, nil)
	}

	rects := g.projector.Project(match, vp)
	return domain.NewTextHighlight(domain.HighlightAI, cand.Page, cand.Sentence, rects)
}

// persistHighlight saves the highlight through the annotation gateway and
// rebinds the highlight's ID to the stored record. Persistence failure is
// logged, not fatal; the on-screen highlight still stands.
func (g *GroundingSvc) persistHighlight(ctx context.Context, sess *Session, userID, messageID string, h *domain.Highlight, annType string) {
	rect := h.PrimaryRect()
	in := &domain.AnnotationInput{
		DocumentID:    sess.DocumentID(),
		Type:          annType,
		HighlightText: h.Text,
		PageNumber:    h.PageNumber,
		X:             rect.X,
		Y:             rect.Y,
		Width:         rect.Width,
		Height:        rect.Height,
		Color:         h.Color,
		CreatedBy:     domain.CreatedByAI,
		MessageID:     messageID,
	}
	if annType == domain.AnnotationImageHighlight {
		in.Color = domain.ColorImageStroke
	}

	res, err := g.annotations.Save(ctx, userID, in)
	if err != nil {
		g.logger.Warn("highlight persistence failed",
			"document_id", sess.DocumentID(), "page", h.PageNumber, "error", err)
		return
	}
	h.ID = "ann-" + res.Annotation.ID
}

// maybeCircleImage draws a circle around the dominant image on the primary
// candidate's page when the answer references a figure, or when an image
// dominates the page. At most one circle per page per batch.
func (g *GroundingSvc) maybeCircleImage(ctx context.Context, sess *Session, userID, messageID, answer string, page int) {
	images := sess.Renderer().ImageRects(page)
	if len(images) == 0 {
		return
	}

	vp, err := sess.Renderer().Viewport(page)
	if err != nil {
		return
	}

	hasKeyword := figureKeywordRe.MatchString(answer)
	largest := largestRect(images)

	allowBySize := vp.Width > 0 && vp.Height > 0 &&
		largest.Area() >= g.cfg.ImageAreaRatio*vp.Width*vp.Height
	if !hasKeyword && !allowBySize {
		return
	}
	if !sess.MarkCircled(page) {
		return
	}

	chosen := g.chooseByCaption(ctx, sess, answer, page, images, largest)
	g.circleImage(ctx, sess, userID, messageID, page, chosen, vp)
}

// circleReferencedFigure handles answers naming a figure number whose page
// was not among the text candidates: it finds the page whose text mentions
// that figure and circles its dominant image there.
func (g *GroundingSvc) circleReferencedFigure(ctx context.Context, sess *Session, userID, messageID, answer string) {
	m := figureNumberRe.FindStringSubmatch(answer)
	if m == nil {
		return
	}
	figure := m[1]

	target := 0
	for _, page := range sess.Corpus() {
		norm := textmatch.Normalize(page.Text)
		if strings.Contains(norm, "figure "+figure) || strings.Contains(norm, "fig "+figure) {
			target = page.Page
			break
		}
	}
	if target == 0 {
		return
	}

	if err := sess.Renderer().RenderPage(ctx, target); err != nil {
		g.logger.Warn("figure page render failed",
			"document_id", sess.DocumentID(), "page", target, "error", err)
		return
	}
	images := sess.Renderer().ImageRects(target)
	if len(images) == 0 {
		return
	}
	if !sess.MarkCircled(target) {
		return
	}

	vp, err := sess.Renderer().Viewport(target)
	if err != nil {
		return
	}
	chosen := g.chooseByCaption(ctx, sess, answer, target, images, largestRect(images))
	g.circleImage(ctx, sess, userID, messageID, target, chosen, vp)
}

// chooseByCaption prefers the image nearest a caption matching the figure
// number the answer names; without a usable caption the largest image wins.
func (g *GroundingSvc) chooseByCaption(ctx context.Context, sess *Session, answer string, page int, images []domain.Rect, fallback domain.Rect) domain.Rect {
	m := figureNumberRe.FindStringSubmatch(answer)
	if m == nil {
		return fallback
	}
	figure := m[1]

	captionCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	fragments, err := g.locator.WaitForFragments(captionCtx, sess.Renderer(), page)
	if err != nil {
		return fallback
	}

	captionY := -1.0
	for _, f := range fragments {
		if !captionLineRe.MatchString(f.Content) {
			continue
		}
		fm := figureNumberRe.FindStringSubmatch(f.Content)
		if fm != nil && fm[1] == figure {
			captionY = f.Y
			break
		}
		if captionY < 0 {
			captionY = f.Y
		}
	}
	if captionY < 0 {
		return fallback
	}

	best := fallback
	bestDist := -1.0
	for _, r := range images {
		dist := abs(r.CenterY() - captionY)
		if bestDist < 0 || dist < bestDist {
			best, bestDist = r, dist
		}
	}
	return best
}

func (g *GroundingSvc) circleImage(ctx context.Context, sess *Session, userID, messageID string, page int, content domain.Rect, vp domain.Viewport) {
	screen := g.projector.ProjectRect(content, vp)
	if screen.Degenerate() {
		return
	}

	h := domain.NewImageHighlight(page, screen)
	g.persistHighlight(ctx, sess, userID, messageID, h, domain.AnnotationImageHighlight)
	sess.Add(h)
	g.events.Publish(domain.Event{
		Type:       domain.EventHighlightAdded,
		DocumentID: sess.DocumentID(),
		Page:       page,
		Highlight:  h,
	})
}

func largestRect(rects []domain.Rect) domain.Rect {
	best := rects[0]
	for _, r := range rects[1:] {
		if r.Area() > best.Area() {
			best = r
		}
	}
	return best
}

// Highlights implements driving.GroundingService.
func (g *GroundingSvc) Highlights(ctx context.Context, userID, documentID string, page int) ([]*domain.Highlight, error) {
	sess, _, err := g.openSession(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	return sess.ByPage(page), nil
}

// RestoreHighlights implements driving.GroundingService.
func (g *GroundingSvc) RestoreHighlights(ctx context.Context, userID, documentID string) ([]*domain.Highlight, error) {
	sess, created, err := g.openSession(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	if created {
		g.events.Publish(domain.Event{
			Type:       domain.EventDocumentLoaded,
			DocumentID: documentID,
			NumPages:   sess.Renderer().NumPages(),
		})
	}

	restored, err := g.annotations.Restore(ctx, userID, documentID)
	if err != nil {
		return nil, fmt.Errorf("restoring annotations: %w", err)
	}
	sess.ReplaceAll(restored)
	return restored, nil
}

// CloseSession implements driving.GroundingService.
func (g *GroundingSvc) CloseSession(userID, documentID string) {
	g.sessions.Close(userID, documentID)
}
