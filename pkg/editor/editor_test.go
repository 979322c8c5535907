package editor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/busline-vn/backoffice/pkg/config"
	"github.com/busline-vn/backoffice/pkg/log"
	"github.com/busline-vn/backoffice/pkg/models"
	"github.com/busline-vn/backoffice/pkg/way"
)

// fakeStore records repository calls so tests can assert that guarded
// operations never reach it.
type fakeStore struct {
	createCalls int
	updateCalls int
	failWith    error
	lastPayload *way.Transport
	transports  map[uint]*way.Transport
}

func (f *fakeStore) CreateWay(t *way.Transport) (*models.Way, error) {
	f.createCalls++
	f.lastPayload = t
	if f.failWith != nil {
		return nil, f.failWith
	}
	return &models.Way{ID: 1, Name: t.Name, Description: t.Description}, nil
}

func (f *fakeStore) UpdateWay(t *way.Transport) (*models.Way, error) {
	f.updateCalls++
	f.lastPayload = t
	if f.failWith != nil {
		return nil, f.failWith
	}
	return &models.Way{ID: *t.WayID, Name: t.Name, Description: t.Description}, nil
}

func (f *fakeStore) GetWayTransport(id uint) (*way.Transport, error) {
	t, ok := f.transports[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return t, nil
}

type fakeDirectory struct {
	offices []way.Office
	err     error
}

func (f *fakeDirectory) ActiveOfficeRefs() ([]way.Office, error) {
	return f.offices, f.err
}

func testOffices() []way.Office {
	return []way.Office{
		{ID: 1, Name: "Saigon Central"},
		{ID: 2, Name: "Bao Loc"},
		{ID: 3, Name: "Dalat Station"},
	}
}

func testLogger(t *testing.T) *log.Logger {
	t.Helper()
	logger, err := log.New(&config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"})
	require.NoError(t, err)
	return logger
}

func testManager(t *testing.T, store WayStore, dir OfficeDirectory) *Manager {
	t.Helper()
	cfg := &config.EditorConfig{
		SessionTTLMinutes:    30,
		SweepIntervalSeconds: 60,
		MaxOpenSessions:      4,
	}
	return NewManager(cfg, store, dir, testLogger(t))
}

// buildSaigonDalat drives a session through the happy-path scenario:
// start office 1 at 0, middle office 2 at 120, end office 3 at 300.
func buildSaigonDalat(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.SetInfo("Saigon–Dalat", "Daily express line"))
	require.NoError(t, s.SelectOffice(way.StartSlot(), 1))

	idx, err := s.AddMiddlePoint()
	require.NoError(t, err)
	require.NoError(t, s.SelectOffice(way.MiddleSlot(idx), 2))
	require.NoError(t, s.SetOffset(way.MiddleSlot(idx), 120))

	require.NoError(t, s.SelectOffice(way.EndSlot(), 3))
	require.NoError(t, s.SetOffset(way.EndSlot(), 300))
}

func TestSubmitCreatesWayWithOrderedPayload(t *testing.T) {
	store := &fakeStore{}
	m := testManager(t, store, &fakeDirectory{offices: testOffices()})

	s, err := m.Open(10, nil)
	require.NoError(t, err)
	buildSaigonDalat(t, s)

	saved, err := s.Submit()
	require.NoError(t, err)
	assert.Equal(t, "Saigon–Dalat", saved.Name)
	assert.Equal(t, 1, store.createCalls)
	assert.Zero(t, store.updateCalls)

	payload := store.lastPayload
	require.Len(t, payload.Points, 3)
	assert.Equal(t, way.TransportPoint{OfficeID: 1, Name: "Saigon Central", Time: 0, Kind: way.KindStart}, payload.Points[0])
	assert.Equal(t, way.TransportPoint{OfficeID: 2, Name: "Bao Loc", Time: 120, Kind: way.KindMiddle}, payload.Points[1])
	assert.Equal(t, way.TransportPoint{OfficeID: 3, Name: "Dalat Station", Time: 300, Kind: way.KindEnd}, payload.Points[2])

	// On success the session completes; further operations are dropped.
	_, err = s.Snapshot()
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSubmitValidationFailureNeverReachesStore(t *testing.T) {
	store := &fakeStore{}
	m := testManager(t, store, &fakeDirectory{offices: testOffices()})

	s, err := m.Open(10, nil)
	require.NoError(t, err)

	_, err = s.Submit()
	var verr *way.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, store.createCalls)
	assert.Zero(t, store.updateCalls)
}

func TestSubmitStoreFailureKeepsDraft(t *testing.T) {
	store := &fakeStore{failWith: errors.New("network timeout")}
	m := testManager(t, store, &fakeDirectory{offices: testOffices()})

	s, err := m.Open(10, nil)
	require.NoError(t, err)
	buildSaigonDalat(t, s)

	_, err = s.Submit()
	require.ErrorContains(t, err, "network timeout")

	// The session survives the failure with the operator's input intact.
	view, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "Saigon–Dalat", view.Draft.Name)
	assert.Equal(t, uint(2), view.Draft.Middles[0].OfficeID)
	assert.Equal(t, 300, *view.Draft.End.Offset)

	// A retry after the store recovers succeeds.
	store.failWith = nil
	_, err = s.Submit()
	assert.NoError(t, err)
}

func TestAddMiddleGuardDoesNotTouchStore(t *testing.T) {
	store := &fakeStore{}
	m := testManager(t, store, &fakeDirectory{offices: testOffices()})

	s, err := m.Open(10, nil)
	require.NoError(t, err)

	_, err = s.AddMiddlePoint()
	require.NoError(t, err)

	_, err = s.AddMiddlePoint()
	assert.ErrorIs(t, err, way.ErrIncompleteMiddle)

	view, err := s.Snapshot()
	require.NoError(t, err)
	assert.Len(t, view.Middles, 1)
	assert.Zero(t, store.createCalls)
	assert.Zero(t, store.updateCalls)
}

func TestOpenExistingWayDecodesAndUpdates(t *testing.T) {
	id := uint(7)
	store := &fakeStore{transports: map[uint]*way.Transport{
		7: {
			WayID:       &id,
			Name:        "Saigon–Dalat",
			Description: "Daily express line",
			Points: []way.TransportPoint{
				{OfficeID: 1, Name: "Saigon Central", Time: 30, Kind: way.KindStart},
				{OfficeID: 2, Name: "Bao Loc", Time: 120, Kind: way.KindMiddle},
				{OfficeID: 3, Name: "Dalat Station", Time: 300, Kind: way.KindEnd},
			},
		},
	}}
	m := testManager(t, store, &fakeDirectory{offices: testOffices()})

	s, err := m.Open(10, &id)
	require.NoError(t, err)

	view, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 0, *view.Draft.Start.Offset, "loaded start offset is forced to 0")

	_, err = s.Submit()
	require.NoError(t, err)
	assert.Equal(t, 1, store.updateCalls, "editing an existing way submits an update")
	assert.Zero(t, store.createCalls)
	require.NotNil(t, store.lastPayload.WayID)
	assert.Equal(t, id, *store.lastPayload.WayID)
}

func TestOpenUnknownWayFails(t *testing.T) {
	id := uint(99)
	m := testManager(t, &fakeStore{transports: map[uint]*way.Transport{}}, &fakeDirectory{offices: testOffices()})

	_, err := m.Open(10, &id)
	assert.Error(t, err)
}

func TestOpenSurvivesDirectoryFailure(t *testing.T) {
	m := testManager(t, &fakeStore{}, &fakeDirectory{err: errors.New("directory down")})

	s, err := m.Open(10, nil)
	require.NoError(t, err)

	view, err := s.Snapshot()
	require.NoError(t, err)
	assert.NotEmpty(t, view.DirectoryWarning)
	assert.Empty(t, view.Start.Selectable)

	// Editing still works; only office selection is empty.
	require.NoError(t, s.SetInfo("Draft", "desc"))
	assert.ErrorIs(t, s.SelectOffice(way.StartSlot(), 1), way.ErrUnknownOffice)
}

func TestSessionCap(t *testing.T) {
	m := testManager(t, &fakeStore{}, &fakeDirectory{offices: testOffices()})

	for i := 0; i < 4; i++ {
		_, err := m.Open(uint(i), nil)
		require.NoError(t, err)
	}
	_, err := m.Open(5, nil)
	assert.ErrorIs(t, err, ErrTooManySessions)
}

func TestCloseDropsLateOperations(t *testing.T) {
	m := testManager(t, &fakeStore{}, &fakeDirectory{offices: testOffices()})

	s, err := m.Open(10, nil)
	require.NoError(t, err)
	require.NoError(t, m.Close(s.ID))

	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// A handle kept from before the close cannot mutate anything.
	assert.ErrorIs(t, s.SetInfo("late", "late"), ErrSessionClosed)
	_, err = s.Submit()
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	m := testManager(t, &fakeStore{}, &fakeDirectory{offices: testOffices()})

	s, err := m.Open(10, nil)
	require.NoError(t, err)
	fresh, err := m.Open(11, nil)
	require.NoError(t, err)

	// Age the first session past the TTL; the second stays fresh.
	s.mu.Lock()
	s.lastActive = time.Now().Add(-time.Hour)
	s.mu.Unlock()

	removed := m.sweep(time.Now())
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, m.OpenCount())

	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(fresh.ID)
	assert.NoError(t, err)
}
