package state

import (
	"errors"
	"sync"

	"github.com/five82/citadel/internal/rickmorty"
)

// DetailStatus is the resolution state of the detail view.
type DetailStatus int

const (
	DetailIdle DetailStatus = iota
	DetailLoading
	DetailLoaded
	DetailFailed
	DetailNotFound
)

func (s DetailStatus) String() string {
	switch s {
	case DetailLoading:
		return "loading"
	case DetailLoaded:
		return "loaded"
	case DetailFailed:
		return "failed"
	case DetailNotFound:
		return "not found"
	default:
		return "idle"
	}
}

// Detail is what the detail view renders.
type Detail struct {
	ID        string
	Status    DetailStatus
	Character rickmorty.Character
	Err       error
}

// Message returns the user-facing text for non-loaded states. Failures
// surface the error verbatim.
func (d Detail) Message() string {
	switch d.Status {
	case DetailLoading:
		return "Loading..."
	case DetailFailed:
		if d.Err == nil {
			return "Error"
		}
		return "Error: " + d.Err.Error()
	case DetailNotFound:
		return "Character not found."
	default:
		return ""
	}
}

// Ticket identifies one detail request.
type Ticket struct {
	ID  string
	seq uint64
}

// DetailTracker owns the detail state and drops responses for requests that
// were superseded by a newer navigation.
type DetailTracker struct {
	mu     sync.Mutex
	seq    uint64
	detail Detail
}

// Begin starts resolving id and invalidates earlier tickets.
func (t *DetailTracker) Begin(id string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.detail = Detail{ID: id, Status: DetailLoading}
	return Ticket{ID: id, seq: t.seq}
}

// Resolve commits a fetch result when ticket is still current and reports
// whether it did. A nil character with a nil error counts as not found.
func (t *DetailTracker) Resolve(ticket Ticket, c *rickmorty.Character, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ticket.seq != t.seq || ticket.ID != t.detail.ID {
		return false
	}
	switch {
	case errors.Is(err, rickmorty.ErrNotFound), err == nil && c == nil:
		t.detail = Detail{ID: ticket.ID, Status: DetailNotFound}
	case err != nil:
		t.detail = Detail{ID: ticket.ID, Status: DetailFailed, Err: err}
	default:
		t.detail = Detail{ID: ticket.ID, Status: DetailLoaded, Character: *c}
	}
	return true
}

// Current returns the detail state.
func (t *DetailTracker) Current() Detail {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.detail
}
