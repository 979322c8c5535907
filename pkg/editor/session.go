// Package editor hosts the stateful way-editor sessions: one draft per
// open session, mutated only through explicit operations, submitted
// through the way store and discarded afterwards.
package editor

import (
	"errors"
	"sync"
	"time"

	"github.com/busline-vn/backoffice/pkg/models"
	"github.com/busline-vn/backoffice/pkg/way"
)

var (
	// ErrSessionNotFound is returned for unknown session ids.
	ErrSessionNotFound = errors.New("editor: session not found")

	// ErrSessionClosed is returned for operations on a session that was
	// closed, submitted or expired. Late-arriving calls are dropped
	// rather than applied.
	ErrSessionClosed = errors.New("editor: session closed")

	// ErrTooManySessions is returned when the open-session cap is hit.
	ErrTooManySessions = errors.New("editor: too many open sessions")
)

// WayStore persists ways in their flat transport form.
type WayStore interface {
	CreateWay(t *way.Transport) (*models.Way, error)
	UpdateWay(t *way.Transport) (*models.Way, error)
	GetWayTransport(id uint) (*way.Transport, error)
}

// OfficeDirectory supplies the editor's office reference data.
type OfficeDirectory interface {
	ActiveOfficeRefs() ([]way.Office, error)
}

// Session owns one draft being edited. The office directory is loaded
// once when the session opens; every mutation goes through a method that
// locks the session and delegates to the draft's update functions.
type Session struct {
	ID         string
	EmployeeID uint

	mu         sync.Mutex
	draft      *way.Draft
	offices    []way.Office
	dirWarning string
	store      WayStore
	lastActive time.Time
	closed     bool
}

// SlotView pairs a point with the offices it may currently choose from.
type SlotView struct {
	Point      way.Point    `json:"point"`
	Selectable []way.Office `json:"selectable_offices"`
}

// View is a read-only snapshot of the session for rendering.
type View struct {
	SessionID        string     `json:"session_id"`
	Draft            *way.Draft `json:"draft"`
	Start            SlotView   `json:"start"`
	Middles          []SlotView `json:"middles"`
	End              SlotView   `json:"end"`
	DirectoryWarning string     `json:"directory_warning,omitempty"`
}

// guard locks the session and rejects closed sessions. The caller must
// invoke the returned unlock when done.
func (s *Session) guard() (func(), error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.lastActive = time.Now()
	return s.mu.Unlock, nil
}

// SetInfo sets the way-level name and description.
func (s *Session) SetInfo(name, description string) error {
	unlock, err := s.guard()
	if err != nil {
		return err
	}
	defer unlock()

	s.draft.SetInfo(name, description)
	return nil
}

// SelectOffice assigns an office to a slot, enforcing exclusivity.
func (s *Session) SelectOffice(slot way.Slot, officeID uint) error {
	unlock, err := s.guard()
	if err != nil {
		return err
	}
	defer unlock()

	return s.draft.SelectOffice(s.offices, slot, officeID)
}

// SetOffset sets the time offset of a middle or end point.
func (s *Session) SetOffset(slot way.Slot, minutes int) error {
	unlock, err := s.guard()
	if err != nil {
		return err
	}
	defer unlock()

	return s.draft.SetOffset(slot, minutes)
}

// SetPointDescription sets a point's free-text description.
func (s *Session) SetPointDescription(slot way.Slot, text string) error {
	unlock, err := s.guard()
	if err != nil {
		return err
	}
	defer unlock()

	return s.draft.SetPointDescription(slot, text)
}

// AddMiddlePoint appends a middle point, subject to the completeness
// guard, and returns the new point's index.
func (s *Session) AddMiddlePoint() (int, error) {
	unlock, err := s.guard()
	if err != nil {
		return 0, err
	}
	defer unlock()

	return s.draft.AddMiddlePoint()
}

// RemoveMiddlePoint deletes the middle point at the given index.
func (s *Session) RemoveMiddlePoint(index int) error {
	unlock, err := s.guard()
	if err != nil {
		return err
	}
	defer unlock()

	return s.draft.RemoveMiddlePoint(index)
}

// Snapshot returns a copy of the draft plus the per-slot selectable
// office lists.
func (s *Session) Snapshot() (*View, error) {
	unlock, err := s.guard()
	if err != nil {
		return nil, err
	}
	defer unlock()

	view := &View{
		SessionID:        s.ID,
		Draft:            s.draft.Clone(),
		DirectoryWarning: s.dirWarning,
	}

	slotView := func(slot way.Slot) SlotView {
		p, _ := s.draft.Point(slot)
		selectable, _ := s.draft.SelectableOffices(s.offices, slot)
		return SlotView{Point: *p, Selectable: selectable}
	}

	view.Start = slotView(way.StartSlot())
	view.End = slotView(way.EndSlot())
	view.Middles = make([]SlotView, len(s.draft.Middles))
	for i := range s.draft.Middles {
		view.Middles[i] = slotView(way.MiddleSlot(i))
	}
	return view, nil
}

// Submit runs the validation gate and persists the draft: create when
// the draft has no way id, update otherwise. On store failure the
// session stays open with the draft intact so no work is lost; on
// success the session is closed and the draft discarded.
func (s *Session) Submit() (*models.Way, error) {
	unlock, err := s.guard()
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.draft.Validate(); err != nil {
		return nil, err
	}

	t := s.draft.Encode()

	var saved *models.Way
	if t.WayID == nil {
		saved, err = s.store.CreateWay(t)
	} else {
		saved, err = s.store.UpdateWay(t)
	}
	if err != nil {
		return nil, err
	}

	s.closed = true
	s.draft = nil
	return saved, nil
}

// close marks the session closed. Idempotent.
func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.draft = nil
	s.mu.Unlock()
}

// idleSince reports the last activity time.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
