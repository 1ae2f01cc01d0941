package game

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

var ErrRegistryClosed = errors.New("room registry closed")

// Registry owns the table of live rooms. Each room runs in its own goroutine
// and removes itself from the table when it is torn down.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	closed bool

	picker    *WordPicker
	victories VictoryRecorder
	logger    *slog.Logger
	opts      Options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRegistry(supplier WordSupplier, victories VictoryRecorder, logger *slog.Logger, opts Options) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		rooms:     make(map[string]*Room),
		picker:    NewWordPicker(supplier, logger),
		victories: victories,
		logger:    logger,
		opts:      opts.withDefaults(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// NormalizeCode turns a human-entered room code into its registry key.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Join hands the connection to the room named in req, creating the room on
// first use. The outcome of the join is reported to conn by the room itself.
func (g *Registry) Join(conn Conn, req JoinRoom) (*Room, error) {
	code := NormalizeCode(req.RoomCode)
	if code == "" {
		return nil, ErrMissingRoomCode
	}
	if strings.TrimSpace(req.PlayerName) == "" {
		return nil, ErrMissingName
	}

	for {
		room, err := g.getOrCreate(code, req.Category)
		if err != nil {
			return nil, err
		}
		if room.join(conn, req) {
			return room, nil
		}
		// the room closed between lookup and post
		g.remove(room)
	}
}

func (g *Registry) getOrCreate(code, category string) (*Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil, ErrRegistryClosed
	}
	if room, ok := g.rooms[code]; ok {
		return room, nil
	}

	room := newRoom(code, category, g.picker, g.victories, g.logger, g.opts, g.remove)
	g.rooms[code] = room
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		room.Run(g.ctx)
	}()
	g.logger.Debug("room created", "room", code, "category", category)
	return room, nil
}

// remove drops room from the table if it is still the entry for its code.
func (g *Registry) remove(room *Room) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rooms[room.code] == room {
		delete(g.rooms, room.code)
	}
}

func (g *Registry) Get(code string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[NormalizeCode(code)]
	return room, ok
}

func (g *Registry) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// Summaries lists every live room ordered by code.
func (g *Registry) Summaries() []RoomSummary {
	g.mu.RLock()
	rooms := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		rooms = append(rooms, r)
	}
	g.mu.RUnlock()

	out := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Shutdown stops accepting joins, stops every room and waits for them to exit.
func (g *Registry) Shutdown(ctx context.Context) error {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	g.cancel()

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
