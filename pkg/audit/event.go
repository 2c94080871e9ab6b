// Package audit records naming decisions and configuration renders.
package audit

import (
	"fmt"
	"time"
)

// Operations recorded in the audit log
const (
	OpResolve = "netname.resolve"
	OpRender  = "frr.render"
)

// Event is one audited naming decision or render run
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user,omitempty"`
	Operation string    `json:"operation"`

	// Naming decisions
	Interface string `json:"interface,omitempty"`
	Address   string `json:"address,omitempty"`
	Name      string `json:"name,omitempty"`
	Rule      string `json:"rule,omitempty"`

	// Render runs
	Source     string `json:"source,omitempty"`
	Output     string `json:"output,omitempty"`
	Statements int    `json:"statements,omitempty"`

	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Filter defines criteria for querying audit events
type Filter struct {
	Operation   string
	Interface   string
	Name        string
	StartTime   time.Time
	EndTime     time.Time
	SuccessOnly bool
	FailureOnly bool
	Limit       int
	Offset      int
}

// NewEvent creates a new audit event
func NewEvent(user, operation string) *Event {
	return &Event{
		ID:        generateID(),
		Timestamp: time.Now(),
		User:      user,
		Operation: operation,
	}
}

// WithInterface sets the kernel interface name and its hardware address
func (e *Event) WithInterface(kernelName, address string) *Event {
	e.Interface = kernelName
	e.Address = address
	return e
}

// WithDecision records the resolved name (empty for no match) and the rule
// that decided it
func (e *Event) WithDecision(name, rule string) *Event {
	e.Name = name
	e.Rule = rule
	return e
}

// WithRender records the input document, output file and statement count
func (e *Event) WithRender(source, output string, statements int) *Event {
	e.Source = source
	e.Output = output
	e.Statements = statements
	return e
}

// WithSuccess marks the event as successful
func (e *Event) WithSuccess() *Event {
	e.Success = true
	return e
}

// WithError marks the event as failed
func (e *Event) WithError(err error) *Event {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithDuration sets the operation duration
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}

func generateID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
