package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beka-birhanu/maze-craze/game/maze"
	logger "github.com/beka-birhanu/maze-craze/log"
)

// Session-related errors.
var (
	ErrInvalidSize       = errors.New("invalid session maze size")
	ErrInvalidPlayerName = errors.New("invalid player name")
	ErrMazeRejected      = errors.New("generated maze rejected")
)

const (
	minSize = 1 // A session needs at least one cell to place players on.

	defaultQueueSize = 256
)

// State is the phase of the current round.
type State uint8

const (
	StateActive State = iota
	StateFinished
)

func (s State) String() string {
	if s == StateFinished {
		return "finished"
	}
	return "active"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "active":
		*s = StateActive
	case "finished":
		*s = StateFinished
	default:
		return fmt.Errorf("unknown session state %q", b)
	}
	return nil
}

// MoveResult is the outcome of a move request. A rejected move leaves Pos at the
// player's unchanged position.
type MoveResult struct {
	Moved bool
	Pos   maze.Position
	Won   bool
}

// Config is used to pass the required parameters to NewSession.
type Config struct {
	Size        int         // Side length of every maze of the session.
	MazeFactory MazeFactory // Builds the maze for each round, NewMaze when nil.
}

// Option configures optional session behaviour.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithFinishHandler registers a function called with the record of every finished round.
func WithFinishHandler(f func(Round)) Option {
	return func(s *Session) {
		s.onFinish = f
	}
}

// WithStateHandler registers a function called with a fresh snapshot after every change.
func WithStateHandler(f func(Snapshot)) Option {
	return func(s *Session) {
		s.onState = f
	}
}

// WithQueueSize sets the capacity of the event queue.
func WithQueueSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// Session is one maze shared by a roster of named players racing from start to end.
// Roster, maze pointer and round state are guarded by a single read-write lock.
type Session struct {
	size      int              // Side length of every maze.
	factory   MazeFactory      // Builds the maze for each round.
	maze      Maze             // Maze of the current round, replaced wholesale on restart.
	players   []*Player        // Roster in connection order.
	state     State            // Phase of the current round.
	round     Round            // Record of the current round.
	version   int64            // Bumped on every observable change.
	events    chan Event       // Queue drained by Start.
	queueSize int              // Capacity of the queue.
	stop      chan struct{}    // Closed by Stop.
	stopOnce  sync.Once        // Guards closing stop.
	logger    logger.Logger    // Session logger.
	onFinish  func(Round)      // Called after a round finishes.
	onState   func(Snapshot)   // Called after every change.
	now       func() time.Time // Clock used for round records.
	sync.RWMutex
}

// NewSession validates c, builds the first maze and returns an Active session.
func NewSession(c Config, opts ...Option) (*Session, error) {
	if c.Size < minSize || c.Size > maze.MaxSize {
		return nil, fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidSize, c.Size, minSize, maze.MaxSize)
	}

	s := &Session{
		size:      c.Size,
		factory:   c.MazeFactory,
		queueSize: defaultQueueSize,
		stop:      make(chan struct{}),
		logger:    logger.Discard(),
		now:       time.Now,
	}
	if s.factory == nil {
		s.factory = NewMaze
	}
	for _, opt := range opts {
		opt(s)
	}
	s.events = make(chan Event, s.queueSize)

	m, err := s.buildMaze()
	if err != nil {
		return nil, err
	}
	s.maze = m
	s.round = newRound(s.size, s.now())

	return s, nil
}

// buildMaze generates and verifies a maze for the next round. Start is the top
// left corner and end the bottom right one.
func (s *Session) buildMaze() (Maze, error) {
	start := maze.Position{X: 0, Y: 0}
	end := maze.Position{X: s.size - 1, Y: s.size - 1}

	m, err := s.factory(s.size, start, end)
	if err != nil {
		return nil, fmt.Errorf("creating maze: %w", err)
	}
	if err := m.Verify(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMazeRejected, err)
	}
	return m, nil
}

// Start processes queued events until ctx is done or Stop is called.
func (s *Session) Start(ctx context.Context) {
	s.logger.Info(fmt.Sprintf("session started with a %dx%d maze", s.size, s.size))
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return
		case <-s.stop:
			return
		case e := <-s.events:
			s.handleEvent(e)
		}
	}
}

// Stop ends the event loop. Further submissions are refused.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.logger.Info("session stopped")
	})
}

// Submit queues e for the event loop. It reports false once the session is stopped.
func (s *Session) Submit(e Event) bool {
	select {
	case <-s.stop:
		return false
	default:
	}

	select {
	case s.events <- e:
		return true
	case <-s.stop:
		return false
	}
}

// handleEvent dispatches one queued event.
func (s *Session) handleEvent(e Event) {
	switch e.Kind {
	case PlayerConnected:
		if _, err := s.Connect(e.Player); err != nil {
			s.logger.Warning(fmt.Sprintf("connect %q: %s", e.Player, err))
		}
	case PlayerDisconnected:
		s.Disconnect(e.Player)
	case PlayerMove:
		if _, err := s.Move(e.Player, e.Direction); err != nil {
			s.logger.Warning(fmt.Sprintf("move %q: %s", e.Player, err))
		}
	case RestartRequested:
		if err := s.Restart(); err != nil {
			s.logger.Error(fmt.Sprintf("restart: %s", err))
		}
	default:
		s.logger.Debug(fmt.Sprintf("ignoring event of kind %s", e.Kind))
	}
}

// Connect adds a player on the start cell. Connecting an existing name is a no-op
// and reports false. A player placed on the end cell of an Active round wins it.
func (s *Session) Connect(name string) (bool, error) {
	if name == "" {
		return false, ErrInvalidPlayerName
	}

	s.Lock()
	if s.playerLocked(name) != nil {
		s.Unlock()
		return false, nil
	}
	finished := s.addPlayerLocked(name)
	s.Unlock()

	s.logger.Info(fmt.Sprintf("player connected: %s", name))
	s.notify(finished)
	return true, nil
}

// addPlayerLocked appends a new player and applies the placement rule.
func (s *Session) addPlayerLocked(name string) *Round {
	p := newPlayer(name, s.maze.Start())
	s.players = append(s.players, p)
	s.version++
	return s.checkArrivalLocked(p)
}

// Disconnect removes the named player. It reports whether the player was present.
func (s *Session) Disconnect(name string) bool {
	s.Lock()
	idx := -1
	for i, p := range s.players {
		if p.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.Unlock()
		return false
	}
	s.players = append(s.players[:idx], s.players[idx+1:]...)
	s.version++
	s.Unlock()

	s.logger.Info(fmt.Sprintf("player disconnected: %s", name))
	s.notify(nil)
	return true
}

// Move steps the named player one cell towards dir when a passage allows it.
// Unknown names are connected first. Moves are rejected while the round is finished.
func (s *Session) Move(name string, dir maze.Direction) (MoveResult, error) {
	if name == "" {
		return MoveResult{}, ErrInvalidPlayerName
	}

	s.Lock()
	var finished *Round
	p := s.playerLocked(name)
	if p == nil {
		finished = s.addPlayerLocked(name)
		p = s.playerLocked(name)
		s.logger.Info(fmt.Sprintf("player connected by move: %s", name))
	}

	if s.state == StateFinished {
		pos := p.Pos
		s.Unlock()
		s.notify(finished)
		return MoveResult{Pos: pos}, nil
	}

	to, ok := s.maze.TryMove(p.Pos, dir)
	if !ok {
		pos := p.Pos
		s.Unlock()
		s.logger.Debug(fmt.Sprintf("move rejected: %s %s from %s", name, dir, pos))
		s.notify(finished)
		return MoveResult{Pos: pos}, nil
	}

	p.Pos = to
	s.round.Moves++
	s.version++
	finished = s.checkArrivalLocked(p)
	s.Unlock()

	s.logger.Debug(fmt.Sprintf("player moved: %s %s to %s", name, dir, to))
	s.notify(finished)
	return MoveResult{Moved: true, Pos: to, Won: finished != nil}, nil
}

// Restart replaces the maze with a freshly generated one, clears the winner and
// puts every player back on start. The new maze is built before the lock is taken,
// so readers see either the old round or the new one.
func (s *Session) Restart() error {
	m, err := s.buildMaze()
	if err != nil {
		return err
	}

	s.Lock()
	s.maze = m
	s.state = StateActive
	s.round = newRound(s.size, s.now())
	s.version++

	var finished *Round
	for _, p := range s.players {
		p.Pos = m.Start()
		if finished == nil {
			finished = s.checkArrivalLocked(p)
		}
	}
	s.Unlock()

	s.logger.Info("maze restarted")
	s.notify(finished)
	return nil
}

// checkArrivalLocked finishes an Active round when p stands on the end cell.
func (s *Session) checkArrivalLocked(p *Player) *Round {
	if s.state != StateActive || p.Pos != s.maze.End() {
		return nil
	}

	s.state = StateFinished
	s.round.Winner = p.Name
	s.round.FinishedAt = s.now()
	finished := s.round
	return &finished
}

// notify runs the registered handlers. It must be called without holding the lock.
func (s *Session) notify(finished *Round) {
	if finished != nil {
		s.logger.Info(fmt.Sprintf("player %s reached the end after %d moves", finished.Winner, finished.Moves))
		if s.onFinish != nil {
			s.onFinish(*finished)
		}
	}
	if s.onState != nil {
		s.onState(s.Snapshot())
	}
}

func (s *Session) playerLocked(name string) *Player {
	for _, p := range s.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// State returns the phase of the current round.
func (s *Session) State() State {
	s.RLock()
	defer s.RUnlock()
	return s.state
}

// Winner returns the name of the player who finished the current round.
func (s *Session) Winner() (string, bool) {
	s.RLock()
	defer s.RUnlock()
	if s.state != StateFinished {
		return "", false
	}
	return s.round.Winner, true
}

// Player returns a copy of the named player.
func (s *Session) Player(name string) (Player, bool) {
	s.RLock()
	defer s.RUnlock()
	p := s.playerLocked(name)
	if p == nil {
		return Player{}, false
	}
	return *p, true
}

// Players returns copies of all players in connection order.
func (s *Session) Players() []Player {
	s.RLock()
	defer s.RUnlock()
	players := make([]Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, *p)
	}
	return players
}

// Maze returns the maze of the current round. It is never mutated after being
// handed out, so callers may keep reading it after a restart.
func (s *Session) Maze() Maze {
	s.RLock()
	defer s.RUnlock()
	return s.maze
}

// Snapshot creates a snapshot of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.RLock()
	defer s.RUnlock()

	players := make([]PlayerView, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, PlayerView{
			ID:    p.ID,
			Name:  p.Name,
			Pos:   p.Pos,
			Color: hexColor(p.Color),
		})
	}

	snap := Snapshot{
		Version: s.version,
		Size:    s.maze.Size(),
		Start:   s.maze.Start(),
		End:     s.maze.End(),
		Cells:   snapshotCells(s.maze),
		Players: players,
		State:   s.state,
	}
	if s.state == StateFinished {
		snap.Winner = s.round.Winner
	}
	return snap
}
