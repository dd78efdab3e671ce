// Package analysis defines the language-model provider used to classify
// grievances, draft formal replies and answer assistant chat.
package analysis

import (
	"context"
	"fmt"

	"github.com/edakseva/grievance-server/internal/model"
)

// Result is the full classification output for one grievance text.
type Result struct {
	model.Classification
	// Summary is a one-line restatement of the grievance, or the fixed
	// invalid-content notice when Category is Invalid.
	Summary string
}

// DraftRequest carries everything the provider needs to write a formal reply.
type DraftRequest struct {
	ComplaintText string
	Category      model.Category
	Sentiment     model.Sentiment
	Priority      model.Priority
	Language      string // "en", "hi" or "te"
}

// Provider is the analysis engine contract. Implementations must be safe for
// concurrent use.
type Provider interface {
	// Classify analyzes grievance text and returns category, sentiment,
	// priority, review flag and confidence.
	Classify(ctx context.Context, text string) (*Result, error)

	// DraftResponse writes the officer-facing formal email draft. For the
	// Invalid category it returns a fixed notice without calling the engine.
	DraftResponse(ctx context.Context, req DraftRequest) (string, error)

	// Chat answers one assistant turn. The full prior history is resupplied
	// on every call; the provider holds no conversation state.
	Chat(ctx context.Context, message string, history []model.ChatTurn) (string, error)
}

// Error wraps a provider failure with the operation that produced it.
type Error struct {
	Op  string // "classify", "draft" or "chat"
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("analysis %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }
