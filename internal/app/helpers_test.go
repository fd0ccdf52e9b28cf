package app

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"jeopardy/internal/domain"
)

type published struct {
	Kind     domain.EventType
	Payload  interface{}
	Audience Audience
}

// recordingBroadcaster keeps every published event in order
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []published
	conns  map[string]Connection
	closed []string
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{conns: make(map[string]Connection)}
}

func (r *recordingBroadcaster) Register(_ string, conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn.ID()] = conn
}

func (r *recordingBroadcaster) Unregister(_ string, conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, conn.ID())
}

func (r *recordingBroadcaster) Publish(_ string, kind domain.EventType, payload interface{}, audience Audience) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{Kind: kind, Payload: payload, Audience: audience})
}

func (r *recordingBroadcaster) CloseRoom(gameCode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = append(r.closed, gameCode)
}

func (r *recordingBroadcaster) ConnectionCount(string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// kinds returns the non-snapshot event kinds published so far
func (r *recordingBroadcaster) kinds() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]domain.EventType, 0, len(r.events))
	for _, e := range r.events {
		if e.Kind != domain.EventStateSnapshot {
			kinds = append(kinds, e.Kind)
		}
	}
	return kinds
}

// last returns the most recent event of a kind
func (r *recordingBroadcaster) last(kind domain.EventType) (published, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == kind {
			return r.events[i], true
		}
	}
	return published{}, false
}

func (r *recordingBroadcaster) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// manualScheduler records countdowns so tests fire ticks by hand
type manualScheduler struct {
	started []*manualCountdown
}

type manualCountdown struct {
	ticks      int
	onTick     func(int)
	onComplete func()
	cancelled  bool
}

func (c *manualCountdown) Cancel() { c.cancelled = true }

// run fires every tick and then completion, as the clock would
func (c *manualCountdown) run() {
	for remaining := c.ticks - 1; remaining >= 0; remaining-- {
		c.onTick(remaining)
	}
	c.onComplete()
}

func (m *manualScheduler) Start(ticks int, onTick func(int), onComplete func()) Countdown {
	cd := &manualCountdown{ticks: ticks, onTick: onTick, onComplete: onComplete}
	m.started = append(m.started, cd)
	return cd
}

func (m *manualScheduler) latest() *manualCountdown {
	if len(m.started) == 0 {
		return nil
	}
	return m.started[len(m.started)-1]
}

// fakeConn is a Connection that records what it was sent
type fakeConn struct {
	id   string
	role domain.ConnectionRole

	mu     sync.Mutex
	sent   [][]byte
	closed bool
	fail   bool
}

func (c *fakeConn) ID() string                  { return c.id }
func (c *fakeConn) Role() domain.ConnectionRole { return c.role }

func (c *fakeConn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return fmt.Errorf("buffer full")
	}
	c.sent = append(c.sent, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) messages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

// recordingResults captures published results
type recordingResults struct {
	ch chan *domain.GameResults
}

func newRecordingResults() *recordingResults {
	return &recordingResults{ch: make(chan *domain.GameResults, 4)}
}

func (r *recordingResults) PublishResults(_ context.Context, res *domain.GameResults) error {
	r.ch <- res
	return nil
}

// fakeProvider hands out fresh test boards
type fakeProvider struct {
	err   error
	calls int
}

func (p *fakeProvider) Generate(_ context.Context, _ domain.ContentSource) (*domain.Board, *domain.FinalClue, error) {
	p.calls++
	if p.err != nil {
		return nil, nil, p.err
	}
	board, err := domain.NewBoard(testCategories(), func(int) int { return 0 })
	if err != nil {
		return nil, nil, err
	}
	return board, &domain.FinalClue{Category: "Rivers", Clue: "Longest river in Africa", Response: "What is the Nile?"}, nil
}

// testCategories builds a 6x5 board with the daily double in the last cell
func testCategories() []*domain.Category {
	cats := make([]*domain.Category, domain.CategoryCount)
	for ci := range cats {
		clues := make([]*domain.Clue, domain.CluesPerCategory)
		for ri := range clues {
			clues[ri] = &domain.Clue{
				Prompt:      fmt.Sprintf("prompt %d-%d", ci, ri),
				Response:    fmt.Sprintf("response %d-%d", ci, ri),
				DailyDouble: ci == domain.CategoryCount-1 && ri == domain.CluesPerCategory-1,
			}
		}
		cats[ci] = &domain.Category{Name: fmt.Sprintf("Category %d", ci), Clues: clues}
	}
	return cats
}

type sessionFixture struct {
	session   *GameSession
	game      *domain.Game
	bc        *recordingBroadcaster
	scheduler *manualScheduler
	results   *recordingResults
	clock     *clockwork.FakeClock
}

var (
	host    = domain.HostRole()
	display = domain.DisplayRole()
)

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	board, final, err := (&fakeProvider{}).Generate(context.Background(), domain.ContentSource{})
	require.NoError(t, err)

	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC))
	f := &sessionFixture{
		game:      domain.NewGame("ABC123", board, *final),
		bc:        newRecordingBroadcaster(),
		scheduler: &manualScheduler{},
		results:   newRecordingResults(),
		clock:     clock,
	}
	f.session = NewGameSession(f.game, SessionDeps{
		Broadcaster: f.bc,
		Scheduler:   f.scheduler,
		Results:     f.results,
		Clock:       clock,
		Logger:      zerolog.Nop(),
	})
	return f
}

// join adds players in the lobby and returns their roles in join order
func (f *sessionFixture) join(t *testing.T, names ...string) []domain.ConnectionRole {
	t.Helper()
	roles := make([]domain.ConnectionRole, 0, len(names))
	for i, name := range names {
		p, _, err := f.session.JoinPlayer(fmt.Sprintf("conn-%d", i), name)
		require.NoError(t, err)
		roles = append(roles, domain.PlayerRole(p.ID))
	}
	return roles
}

// startedFixture returns a fixture with the named players and board play begun
func startedFixture(t *testing.T, names ...string) (*sessionFixture, []domain.ConnectionRole) {
	t.Helper()
	f := newSessionFixture(t)
	roles := f.join(t, names...)
	require.NoError(t, f.session.StartGame(host))
	f.bc.reset()
	return f, roles
}

func (f *sessionFixture) score(role domain.ConnectionRole) int {
	p, _ := f.game.GetPlayer(role.PlayerID)
	return p.Score
}
