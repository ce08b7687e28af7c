package events

import (
	"context"
	"time"
)

type Type string

const (
	MemberAccepted  Type = "member.accepted"
	MemberRejected  Type = "member.rejected"
	ListMemberAdded Type = "list.member_added"
	ListFetched     Type = "list.fetched"
	ListIncluded    Type = "list.included"
	ListExcluded    Type = "list.excluded"
	ListSkipped     Type = "list.skipped"
)

// Event is one step of a roster or list retrieval. Only the fields relevant
// to the Type are set.
type Event struct {
	Type     Type      `json:"type"`
	Time     time.Time `json:"time"`
	ListID   int       `json:"list_id,omitempty"`
	MemberNo int       `json:"member_no,omitempty"`
	Title    string    `json:"title,omitempty"`
	Count    int       `json:"count,omitempty"`
	Reason   string    `json:"reason,omitempty"`
	Err      error     `json:"-"`
}

// Observer receives retrieval events. Implementations must not block for
// long; Observe is called inline.
type Observer interface {
	Observe(ctx context.Context, e Event)
}

type ObserverFunc func(ctx context.Context, e Event)

func (f ObserverFunc) Observe(ctx context.Context, e Event) {
	f(ctx, e)
}

type nop struct{}

func (nop) Observe(context.Context, Event) {}

// Nop discards every event.
func Nop() Observer {
	return nop{}
}

type multi []Observer

func (m multi) Observe(ctx context.Context, e Event) {
	for _, o := range m {
		o.Observe(ctx, e)
	}
}

// Multi fans events out to every non-nil observer in order.
func Multi(observers ...Observer) Observer {
	out := make(multi, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	switch len(out) {
	case 0:
		return Nop()
	case 1:
		return out[0]
	}
	return out
}

// Recorder keeps every event it sees. It is safe for use from one goroutine.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Observe(_ context.Context, e Event) {
	r.Events = append(r.Events, e)
}

// OfType returns the recorded events of type t in arrival order.
func (r *Recorder) OfType(t Type) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
