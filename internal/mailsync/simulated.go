package mailsync

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/edakseva/grievance-server/internal/model"
)

// SimulatedConnector stands in for a real mailbox integration. It serves a
// fixed inbound batch and logs outbound sends instead of transmitting them.
type SimulatedConnector struct {
	log zerolog.Logger

	// fetchDelay and sendDelay imitate network latency. Zero in tests.
	fetchDelay time.Duration
	sendDelay  time.Duration

	now func() time.Time
}

// Option configures a SimulatedConnector.
type Option func(*SimulatedConnector)

// WithDelays sets artificial fetch and send latency.
func WithDelays(fetch, send time.Duration) Option {
	return func(c *SimulatedConnector) {
		c.fetchDelay = fetch
		c.sendDelay = send
	}
}

// WithClock overrides the time source used to stamp fixture mail.
func WithClock(now func() time.Time) Option {
	return func(c *SimulatedConnector) { c.now = now }
}

func NewSimulatedConnector(log zerolog.Logger, opts ...Option) *SimulatedConnector {
	c := &SimulatedConnector{
		log:        log,
		fetchDelay: 1500 * time.Millisecond,
		sendDelay:  2 * time.Second,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchNew returns the fixed inbound batch. IDs are stable across calls, so
// repeated syncs import nothing new.
func (c *SimulatedConnector) FetchNew(ctx context.Context) ([]model.InboundMail, error) {
	if err := c.sleep(ctx, c.fetchDelay); err != nil {
		return nil, &SyncError{Err: err}
	}
	now := c.now()
	return []model.InboundMail{
		{
			ID:            "msg-101",
			CustomerEmail: "amit.sharma82@gmail.com",
			Subject:       "Speed Post Delay - Order #IN99281",
			OriginalText:  "My Speed Post from Bangalore to Delhi has not moved for 4 days. It is very urgent. Please look into this immediately.",
			Timestamp:     now.Add(-2 * time.Hour),
			Location:      "Karnataka Circle",
		},
		{
			ID:            "msg-102",
			CustomerEmail: "priya_verma@gmail.com",
			Subject:       "Damaged parcel received",
			OriginalText:  "I received my parcel today but the box was completely torn and the item inside is broken. Very disappointed with the handling.",
			Timestamp:     now.Add(-5 * time.Hour),
			Location:      "Maharashtra Circle",
		},
		{
			ID:            "msg-103",
			CustomerEmail: "rajesh.post@gmail.com",
			Subject:       "Query regarding refund",
			OriginalText:  "I was promised a refund for my lost shipment last month. I still haven't received any update on the transaction status.",
			Timestamp:     now.Add(-24 * time.Hour),
			Location:      "Delhi Circle",
		},
		{
			ID:            "msg-104",
			CustomerEmail: "vicky.p@yahoo.com",
			Subject:       "Parcel lost in transit",
			OriginalText:  "My package hasn't arrived in 2 weeks. Tracking says it is stuck in Tamil Nadu. This is unacceptable.",
			Timestamp:     now.Add(-12 * time.Hour),
			Location:      "Tamil Nadu Circle",
		},
		{
			ID:            "msg-105",
			CustomerEmail: "sneha.r@outlook.com",
			Subject:       "Rude staff at counter",
			OriginalText:  "The staff at the local post office in Pune was extremely unhelpful and rude when I went to collect my registered letter.",
			Timestamp:     now.Add(-1 * time.Hour),
			Location:      "Maharashtra Circle",
		},
	}, nil
}

// Send logs the outbound reply after validating the recipient.
func (c *SimulatedConnector) Send(ctx context.Context, to, subject, body string) error {
	if err := ValidateAddress(to); err != nil {
		return &DispatchError{To: to, Err: err}
	}
	if err := c.sleep(ctx, c.sendDelay); err != nil {
		return &DispatchError{To: to, Err: err}
	}
	c.log.Info().
		Str("to", to).
		Str("subject", subject).
		Int("body_bytes", len(body)).
		Msg("transmitting mail reply")
	return nil
}

func (c *SimulatedConnector) sleep(ctx context.Context, d time.Duration) error {
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
