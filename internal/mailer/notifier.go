package mailer

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/atelierlibre/paroisse-api/internal/logger"
)

// Policy decides what a fan-out does when a single send fails.
type Policy int

const (
	// AbortOnFirstFailure stops the batch at the first failed send; the
	// remaining recipients are never attempted.
	AbortOnFirstFailure Policy = iota
	// ContinueAndCollect attempts every recipient and collects per-recipient
	// outcomes.
	ContinueAndCollect
)

// Recipient is one addressee of a batch send.
type Recipient struct {
	ID    string
	Name  string
	Email string
}

// Result is the outcome for a single recipient. Err is nil on success.
type Result struct {
	Recipient Recipient
	Err       error
}

// Report summarizes a fan-out run. Aborted is true when the policy stopped
// the batch early; recipients after the failing one then have no Result.
type Report struct {
	Results []Result
	Failed  int
	Aborted bool
}

// AllSent reports whether every recipient was attempted and delivered.
func (r Report) AllSent() bool {
	return !r.Aborted && r.Failed == 0
}

// BuildFunc produces the message for one recipient.
type BuildFunc func(rcpt Recipient) Message

// Notifier runs sequential batch sends over a Sender with an explicit
// failure policy.
type Notifier struct {
	sender Sender
	log    *log.Logger
}

// NewNotifier creates a notifier on top of the given sender.
func NewNotifier(sender Sender) *Notifier {
	return &Notifier{
		sender: sender,
		log:    logger.Mailer(),
	}
}

// Fanout sends one message per recipient, in sequence, applying the policy
// on failure.
func (n *Notifier) Fanout(ctx context.Context, recipients []Recipient, policy Policy, build BuildFunc) Report {
	report := Report{Results: make([]Result, 0, len(recipients))}

	for _, rcpt := range recipients {
		err := n.sender.Send(ctx, build(rcpt))
		report.Results = append(report.Results, Result{Recipient: rcpt, Err: err})

		if err == nil {
			continue
		}

		report.Failed++
		n.log.Error("Fan-out send failed", "to", rcpt.Email, "error", err, "policy", policy)

		if policy == AbortOnFirstFailure {
			report.Aborted = true
			n.log.Warn("Fan-out aborted on first failure",
				"attempted", len(report.Results),
				"remaining", len(recipients)-len(report.Results))
			return report
		}
	}

	n.log.Info("Fan-out completed", "recipients", len(recipients), "failed", report.Failed)
	return report
}
