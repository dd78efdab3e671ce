package model

import "time"

// Category classifies the subject matter of a grievance.
type Category string

const (
	CategoryDelay   Category = "Delay"
	CategoryLost    Category = "Lost"
	CategoryDamage  Category = "Damage"
	CategoryInvalid Category = "Invalid"
	CategoryOthers  Category = "Others"
)

// Sentiment is the detected emotional tone of the submitted text.
type Sentiment string

const (
	SentimentAngry    Sentiment = "Angry"
	SentimentUnhappy  Sentiment = "Unhappy"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentPositive Sentiment = "Positive"
)

// Priority is the assigned handling urgency.
type Priority string

const (
	PriorityUrgent Priority = "Urgent"
	PriorityNormal Priority = "Normal"
	PriorityLow    Priority = "Low"
)

// Status tracks a record through the complaint lifecycle.
// Transitions are forward-only; sent, resolved and auto_resolved are terminal.
type Status string

const (
	StatusPending      Status = "pending"
	StatusDrafted      Status = "drafted"
	StatusSent         Status = "sent"
	StatusResolved     Status = "resolved"
	StatusAutoResolved Status = "auto_resolved"
)

// Terminal reports whether no further lifecycle transition is defined for s.
func (s Status) Terminal() bool {
	switch s {
	case StatusSent, StatusResolved, StatusAutoResolved:
		return true
	}
	return false
}

// Source identifies the channel a record arrived through.
type Source string

const (
	SourcePortal Source = "portal"
	SourceMail   Source = "mail"
)

// Kind distinguishes grievances from general feedback on the portal form.
type Kind string

const (
	KindComplaint Kind = "Complaint"
	KindFeedback  Kind = "Feedback"
)

// Role gates which operations a session may perform.
type Role string

const (
	RoleCitizen  Role = "citizen"
	RoleOfficial Role = "official"
)

// Classification holds the analysis output merged into a record once the
// analysis provider has seen its text. All fields are unset until then.
type Classification struct {
	Category        Category  `json:"category,omitempty"`
	Sentiment       Sentiment `json:"sentiment,omitempty"`
	Priority        Priority  `json:"priority,omitempty"`
	RequiresReview  bool      `json:"requiresReview,omitempty"`
	ConfidenceScore float64   `json:"confidenceScore,omitempty"`
}

// Classified reports whether analysis output has been merged into c.
func (c Classification) Classified() bool { return c.Category != "" }

// ComplaintRecord is one grievance and its full processing history.
// ID and OriginalText are immutable after creation.
type ComplaintRecord struct {
	ID           string `json:"id"`
	OriginalText string `json:"originalText"`
	Subject      string `json:"subject"`
	CustomerID   string `json:"customerId"`
	OrderID      string `json:"orderId,omitempty"`

	Classification

	Status    Status    `json:"status"`
	Kind      Kind      `json:"type,omitempty"`
	Source    Source    `json:"source"`
	Location  string    `json:"location,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// AIResponse is the instant generated reply shown to the citizen at
	// submission. FormalEmailDraft is the officer-editable draft; on dispatch
	// it is frozen into AdminResponse.
	AIResponse       string `json:"aiResponse,omitempty"`
	FormalEmailDraft string `json:"formalEmailDraft,omitempty"`
	AdminResponse    string `json:"adminResponse,omitempty"`
}

// DispatchReady reports whether the record carries a draft that an official
// may dispatch.
func (r *ComplaintRecord) DispatchReady() bool {
	return r.FormalEmailDraft != "" && r.Status != StatusSent
}

// UserSession is the active authenticated identity. At most one exists; it is
// persisted so a dashboard reload does not force a fresh login.
type UserSession struct {
	CustomerID string `json:"customerId"`
	Role       Role   `json:"role"`
	Name       string `json:"name"`
}

// InboundMail is one simulated externally-sourced complaint returned by the
// mail connector.
type InboundMail struct {
	ID            string    `json:"id"`
	CustomerEmail string    `json:"customerEmail"`
	Subject       string    `json:"subject"`
	OriginalText  string    `json:"originalText"`
	Timestamp     time.Time `json:"timestamp"`
	Location      string    `json:"location"`
}

// PostOrder is a tracking entry from the order directory.
type PostOrder struct {
	ID                string `json:"id"`
	TrackingID        string `json:"trackingId"`
	Origin            string `json:"origin"`
	Destination       string `json:"destination"`
	Status            string `json:"status"`
	EstimatedDelivery string `json:"estimatedDelivery"`
}

// ChatTurn is one prior exchange resupplied on every chat call; the assistant
// holds no server-side conversation state.
type ChatTurn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// Prefs are the persisted display preferences.
type Prefs struct {
	Language     string `json:"language"`
	DisplayScale int    `json:"displayScale"`
}

// Stats aggregates store contents for the dashboard header.
type Stats struct {
	Total          int            `json:"total"`
	Pending        int            `json:"pending"`
	Solved         int            `json:"solved"`
	Urgent         int            `json:"urgent"`
	ByLocation     map[string]int `json:"byLocation"`
	BusiestCircle  string         `json:"busiestCircle,omitempty"`
	QuietestCircle string         `json:"quietestCircle,omitempty"`
}
