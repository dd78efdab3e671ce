// Package lifecycle drives complaint records from intake through dispatch.
// Each operation validates, calls out to the analysis or mail clients as
// needed, and persists the result; the store's update-by-identifier is the
// only synchronization point between concurrent operations.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edakseva/grievance-server/internal/analysis"
	"github.com/edakseva/grievance-server/internal/mailsync"
	"github.com/edakseva/grievance-server/internal/model"
	"github.com/edakseva/grievance-server/internal/store"
)

// Stage marks progress through the staged processing sequence shown to the
// reviewing official.
type Stage int

const (
	StageCollection Stage = iota + 1
	StagePreprocessing
	StageNLP
	StageClassification
	StageSentiment
)

func (s Stage) String() string {
	switch s {
	case StageCollection:
		return "Collection"
	case StagePreprocessing:
		return "Preprocessing"
	case StageNLP:
		return "NLP"
	case StageClassification:
		return "Classification"
	case StageSentiment:
		return "Sentiment"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Stage gate delays, cosmetic only. Disabled under test.
var stageDelays = [...]time.Duration{
	StageCollection:     0,
	StagePreprocessing:  600 * time.Millisecond,
	StageNLP:            800 * time.Millisecond,
	StageClassification: 400 * time.Millisecond,
	StageSentiment:      400 * time.Millisecond,
}

const portalLocation = "Delhi Circle"

// DelayFunc gates a stage transition. Implementations must respect ctx.
type DelayFunc func(ctx context.Context, d time.Duration) error

// Controller orchestrates the complaint state machine.
type Controller struct {
	store    store.Store
	provider analysis.Provider
	mail     mailsync.Connector
	log      zerolog.Logger

	delay DelayFunc
	now   func() time.Time
	newID func() string
}

// Option configures a Controller.
type Option func(*Controller)

// WithoutDelays disables the cosmetic stage delays. Stage order is preserved.
func WithoutDelays() Option {
	return func(c *Controller) {
		c.delay = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDGenerator overrides record ID generation.
func WithIDGenerator(gen func() string) Option {
	return func(c *Controller) { c.newID = gen }
}

func NewController(s store.Store, provider analysis.Provider, mail mailsync.Connector, log zerolog.Logger, opts ...Option) *Controller {
	c := &Controller{
		store:    s,
		provider: provider,
		mail:     mail,
		log:      log,
		delay: func(ctx context.Context, d time.Duration) error {
			if d <= 0 {
				return ctx.Err()
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d):
				return nil
			}
		},
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitPortalComplaint files a new citizen grievance. Analysis runs inline;
// if it fails the record is stored unclassified and stays analyzable later,
// which is why analysis failure is not an error here.
func (c *Controller) SubmitPortalComplaint(ctx context.Context, sess *model.UserSession, text, subject string, kind model.Kind, orderID string) (*model.ComplaintRecord, error) {
	if sess == nil || sess.Role != model.RoleCitizen {
		return nil, fmt.Errorf("%w: complaint submission requires a citizen session", model.ErrForbidden)
	}
	if text == "" || subject == "" {
		return nil, fmt.Errorf("%w: complaint text and subject are required", model.ErrValidation)
	}
	if kind != model.KindComplaint && kind != model.KindFeedback {
		return nil, fmt.Errorf("%w: unknown submission type %q", model.ErrValidation, kind)
	}

	rec := &model.ComplaintRecord{
		ID:           c.newID(),
		OriginalText: text,
		Subject:      subject,
		CustomerID:   sess.CustomerID,
		OrderID:      orderID,
		Status:       model.StatusPending,
		Kind:         kind,
		Source:       model.SourcePortal,
		Location:     portalLocation,
		Timestamp:    c.now(),
	}

	res, draft, err := c.analyze(ctx, text)
	if err != nil {
		c.log.Warn().Err(err).Str("complaint_id", rec.ID).Msg("inline analysis failed, storing unclassified")
	} else {
		rec.Classification = res.Classification
		rec.AIResponse = draft
		rec.FormalEmailDraft = draft
	}

	if err := c.store.Complaints().Add(ctx, rec); err != nil {
		return nil, fmt.Errorf("store complaint: %w", err)
	}
	c.log.Info().
		Str("complaint_id", rec.ID).
		Str("category", string(rec.Category)).
		Bool("classified", rec.Classified()).
		Msg("portal complaint submitted")
	return rec, nil
}

// Select opens a record for review. Records already drafted or in a terminal
// state other than auto_resolved are a pure read. Otherwise the staged
// analysis sequence runs and the record is committed once, after both the
// classification and draft calls succeed.
func (c *Controller) Select(ctx context.Context, sess *model.UserSession, id string, onStage func(Stage)) (*model.ComplaintRecord, error) {
	if err := requireOfficial(sess); err != nil {
		return nil, err
	}
	rec, err := c.store.Complaints().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if (rec.Status != model.StatusPending && rec.Status != model.StatusAutoResolved) || rec.FormalEmailDraft != "" {
		return rec, nil
	}
	if onStage == nil {
		onStage = func(Stage) {}
	}

	mark := func(s Stage) error {
		if err := c.delay(ctx, stageDelays[s]); err != nil {
			return err
		}
		onStage(s)
		return nil
	}

	if err := mark(StageCollection); err != nil {
		return nil, err
	}
	if err := mark(StagePreprocessing); err != nil {
		return nil, err
	}
	if err := mark(StageNLP); err != nil {
		return nil, err
	}

	res, err := c.provider.Classify(ctx, rec.OriginalText)
	if err != nil {
		return nil, fmt.Errorf("workflow engine: %w", err)
	}

	if err := mark(StageClassification); err != nil {
		return nil, err
	}
	if err := mark(StageSentiment); err != nil {
		return nil, err
	}

	draft, err := c.draft(ctx, rec.OriginalText, res.Classification)
	// No partial commit: classification is dropped if drafting fails.
	if err != nil {
		return nil, fmt.Errorf("workflow engine: %w", err)
	}

	rec.Classification = res.Classification
	rec.AIResponse = draft
	rec.FormalEmailDraft = draft
	if res.RequiresReview {
		rec.Status = model.StatusDrafted
	}
	if err := c.store.Complaints().Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("store complaint: %w", err)
	}
	c.log.Info().
		Str("complaint_id", rec.ID).
		Str("category", string(rec.Category)).
		Str("status", string(rec.Status)).
		Msg("record analyzed")
	return rec, nil
}

// EditDraft replaces the formal draft text. Dispatched records are frozen.
func (c *Controller) EditDraft(ctx context.Context, sess *model.UserSession, id, newText string) (*model.ComplaintRecord, error) {
	if err := requireOfficial(sess); err != nil {
		return nil, err
	}
	if newText == "" {
		return nil, fmt.Errorf("%w: draft text is required", model.ErrValidation)
	}
	rec, err := c.store.Complaints().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status == model.StatusSent {
		return nil, fmt.Errorf("%w: record already dispatched", model.ErrConflict)
	}
	rec.FormalEmailDraft = newText
	if err := c.store.Complaints().Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("store complaint: %w", err)
	}
	return rec, nil
}

// Dispatch finalizes the draft. Mail-sourced records are transmitted through
// the mail connector first; a send failure leaves the record untouched.
func (c *Controller) Dispatch(ctx context.Context, sess *model.UserSession, id string) (*model.ComplaintRecord, error) {
	if err := requireOfficial(sess); err != nil {
		return nil, err
	}
	rec, err := c.store.Complaints().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.FormalEmailDraft == "" {
		return nil, fmt.Errorf("%w: no draft to dispatch", model.ErrValidation)
	}
	if rec.Status == model.StatusSent {
		return nil, fmt.Errorf("%w: record already dispatched", model.ErrConflict)
	}

	if rec.Source == model.SourceMail {
		if err := c.mail.Send(ctx, rec.CustomerID, rec.Subject, rec.FormalEmailDraft); err != nil {
			return nil, err
		}
	}

	rec.Status = model.StatusSent
	rec.AdminResponse = rec.FormalEmailDraft
	rec.Timestamp = c.now()
	if err := c.store.Complaints().Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("store complaint: %w", err)
	}
	c.log.Info().
		Str("complaint_id", rec.ID).
		Str("source", string(rec.Source)).
		Msg("response dispatched")
	return rec, nil
}

// Sync pulls the external mailbox and imports unseen items as pending
// records. Already-imported identifiers are skipped, so repeated syncs are
// idempotent.
func (c *Controller) Sync(ctx context.Context, sess *model.UserSession) ([]*model.ComplaintRecord, error) {
	if err := requireOfficial(sess); err != nil {
		return nil, err
	}
	batch, err := c.mail.FetchNew(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := c.store.Complaints().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		seen[r.ID] = struct{}{}
	}

	var imported []*model.ComplaintRecord
	for _, mail := range batch {
		if _, dup := seen[mail.ID]; dup {
			continue
		}
		rec := &model.ComplaintRecord{
			ID:           mail.ID,
			OriginalText: mail.OriginalText,
			Subject:      mail.Subject,
			CustomerID:   mail.CustomerEmail,
			Status:       model.StatusPending,
			Kind:         model.KindComplaint,
			Source:       model.SourceMail,
			Location:     mail.Location,
			Timestamp:    mail.Timestamp,
		}
		if err := c.store.Complaints().Add(ctx, rec); err != nil {
			if errors.Is(err, model.ErrConflict) {
				continue
			}
			return imported, fmt.Errorf("store complaint %s: %w", rec.ID, err)
		}
		imported = append(imported, rec)
	}
	c.log.Info().Int("fetched", len(batch)).Int("imported", len(imported)).Msg("external source synced")
	return imported, nil
}

// List returns records visible to the session: officials see everything,
// citizens only their own submissions.
// ListFilter narrows List output. Zero values match everything. Tab mirrors
// the review dashboard's split: "inbox" hides dispatched records, "sent"
// shows only them.
type ListFilter struct {
	Source model.Source
	Tab    string
}

func (f ListFilter) matches(r *model.ComplaintRecord) bool {
	if f.Source != "" && r.Source != f.Source {
		return false
	}
	switch f.Tab {
	case "inbox":
		return r.Status != model.StatusSent
	case "sent":
		return r.Status == model.StatusSent
	}
	return true
}

func (c *Controller) List(ctx context.Context, sess *model.UserSession, f ListFilter) ([]*model.ComplaintRecord, error) {
	if sess == nil {
		return nil, fmt.Errorf("%w: login required", model.ErrForbidden)
	}
	all, err := c.store.Complaints().List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.ComplaintRecord
	for _, r := range all {
		if sess.Role != model.RoleOfficial && r.CustomerID != sess.CustomerID {
			continue
		}
		if !f.matches(r) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Get returns a single record. Citizens may only read their own.
func (c *Controller) Get(ctx context.Context, sess *model.UserSession, id string) (*model.ComplaintRecord, error) {
	if sess == nil {
		return nil, fmt.Errorf("%w: login required", model.ErrForbidden)
	}
	rec, err := c.store.Complaints().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Role != model.RoleOfficial && rec.CustomerID != sess.CustomerID {
		return nil, model.ErrNotFound
	}
	return rec, nil
}

func (c *Controller) analyze(ctx context.Context, text string) (*analysis.Result, string, error) {
	res, err := c.provider.Classify(ctx, text)
	if err != nil {
		return nil, "", err
	}
	draft, err := c.draft(ctx, text, res.Classification)
	if err != nil {
		return nil, "", err
	}
	return res, draft, nil
}

func (c *Controller) draft(ctx context.Context, text string, cls model.Classification) (string, error) {
	lang := "en"
	if p, err := c.store.Prefs().Get(ctx); err == nil && p.Language != "" {
		lang = p.Language
	}
	return c.provider.DraftResponse(ctx, analysis.DraftRequest{
		ComplaintText: text,
		Category:      cls.Category,
		Sentiment:     cls.Sentiment,
		Priority:      cls.Priority,
		Language:      lang,
	})
}

func requireOfficial(sess *model.UserSession) error {
	if sess == nil || sess.Role != model.RoleOfficial {
		return fmt.Errorf("%w: operation requires an official session", model.ErrForbidden)
	}
	return nil
}
