// Package mailsync integrates the external mailbox channel. Complaints that
// arrive by mail are pulled in batches and dispatched replies are sent back
// to the originating address.
package mailsync

import (
	"context"
	"fmt"

	"github.com/go-openapi/strfmt"

	"github.com/edakseva/grievance-server/internal/model"
)

// Connector is the mailbox contract. FetchNew returns the current unread
// batch; callers deduplicate by mail ID, so returning the same batch twice
// is harmless.
type Connector interface {
	FetchNew(ctx context.Context) ([]model.InboundMail, error)
	Send(ctx context.Context, to, subject, body string) error
}

// SyncError indicates the inbound fetch failed.
type SyncError struct{ Err error }

func (e *SyncError) Error() string { return fmt.Sprintf("mail sync: %v", e.Err) }
func (e *SyncError) Unwrap() error { return e.Err }

// DispatchError indicates an outbound send failed.
type DispatchError struct {
	To  string
	Err error
}

func (e *DispatchError) Error() string { return fmt.Sprintf("mail dispatch to %s: %v", e.To, e.Err) }
func (e *DispatchError) Unwrap() error { return e.Err }

// ValidateAddress checks a recipient address before attempting a send.
func ValidateAddress(addr string) error {
	if !strfmt.IsEmail(addr) {
		return fmt.Errorf("invalid email address: %q", addr)
	}
	return nil
}
