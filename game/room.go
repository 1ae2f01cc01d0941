package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

type RoomState string

const (
	StateForming       RoomState = "forming"
	StateAwaitingReady RoomState = "awaiting_ready"
	StateActive        RoomState = "active"
	StateCompleted     RoomState = "completed"
)

const (
	ReasonLives    = "vidas"
	ReasonWalkover = "wo"
)

// Options tunes room timing.
type Options struct {
	GracePeriod       time.Duration
	TeardownDelay     time.Duration
	WordLookupTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		GracePeriod:       15 * time.Second,
		TeardownDelay:     5 * time.Second,
		WordLookupTimeout: 3 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.GracePeriod <= 0 {
		o.GracePeriod = d.GracePeriod
	}
	if o.TeardownDelay <= 0 {
		o.TeardownDelay = d.TeardownDelay
	}
	if o.WordLookupTimeout <= 0 {
		o.WordLookupTimeout = d.WordLookupTimeout
	}
	return o
}

type command interface {
	command()
}

type joinCmd struct {
	conn Conn
	req  JoinRoom
}

type inboundCmd struct {
	connID string
	msg    Inbound
}

type disconnectCmd struct {
	connID string
}

// graceExpiredCmd carries the identity of the connection that armed the
// timer so a stale expiry can be told apart from the current one.
type graceExpiredCmd struct {
	seat   Seat
	connID string
}

type teardownCmd struct{}

func (joinCmd) command()         {}
func (inboundCmd) command()      {}
func (disconnectCmd) command()   {}
func (graceExpiredCmd) command() {}
func (teardownCmd) command()     {}

const inboxSize = 64

// Room is a match between two seats. All of its state is owned by the
// goroutine running Run; other goroutines talk to it through the inbox.
type Room struct {
	code     string
	category string
	state    RoomState
	match    *Match
	players  []*Slot
	readySet map[string]bool
	bets     [2]int
	used     map[string]bool

	inbox     chan command
	done      chan struct{}
	closeOnce sync.Once
	onClose   func(*Room)
	teardown  *time.Timer
	bg        sync.WaitGroup

	picker    *WordPicker
	victories VictoryRecorder
	logger    *slog.Logger
	opts      Options
	rng       *rand.Rand
	now       func() time.Time

	mu      sync.Mutex
	summary RoomSummary
}

func newRoom(code, category string, picker *WordPicker, victories VictoryRecorder, logger *slog.Logger, opts Options, onClose func(*Room)) *Room {
	r := &Room{
		code:      code,
		category:  strings.TrimSpace(category),
		state:     StateForming,
		readySet:  make(map[string]bool),
		used:      make(map[string]bool),
		inbox:     make(chan command, inboxSize),
		done:      make(chan struct{}),
		onClose:   onClose,
		picker:    picker,
		victories: victories,
		logger:    logger.With("room", code),
		opts:      opts.withDefaults(),
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:       time.Now,
	}
	r.publishSummary()
	return r
}

func (r *Room) Code() string {
	return r.code
}

// Run stocks the first pair of words and then serves commands until the room
// is torn down or ctx is cancelled.
func (r *Room) Run(ctx context.Context) {
	defer r.bg.Wait()
	defer r.close()

	r.stock(ctx)
	r.publishSummary()
	r.logger.Info("room opened", "category", r.category)

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-r.inbox:
			if r.dispatch(ctx, cmd) {
				return
			}
		}
	}
}

func (r *Room) dispatch(ctx context.Context, cmd command) (stop bool) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("room command panicked", "command", fmt.Sprintf("%T", cmd), "panic", p)
		}
	}()
	stop = r.handle(ctx, cmd)
	r.publishSummary()
	return stop
}

// post queues cmd for the room goroutine. It reports false once the room is
// gone.
func (r *Room) post(cmd command) bool {
	select {
	case <-r.done:
		return false
	default:
	}
	select {
	case r.inbox <- cmd:
		return true
	case <-r.done:
		return false
	}
}

// Deliver routes an inbound message from connID to the room.
func (r *Room) Deliver(connID string, msg Inbound) bool {
	return r.post(inboundCmd{connID: connID, msg: msg})
}

// Disconnect tells the room that connID went away.
func (r *Room) Disconnect(connID string) bool {
	return r.post(disconnectCmd{connID: connID})
}

func (r *Room) join(conn Conn, req JoinRoom) bool {
	return r.post(joinCmd{conn: conn, req: req})
}

// Done is closed when the room has been torn down.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

func (r *Room) close() {
	r.closeOnce.Do(func() {
		close(r.done)
		for _, s := range r.players {
			s.stopRemoval()
		}
		if r.teardown != nil {
			r.teardown.Stop()
		}
		if r.onClose != nil {
			r.onClose(r)
		}
		r.logger.Info("room closed", "state", r.state)
	})
}

func (r *Room) stock(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.WordLookupTimeout)
	defer cancel()

	words := r.picker.PickPair(ctx, r.category, r.used, r.rng)
	r.markUsed(words)
	r.match = NewMatch(words, r.rng)
}

func (r *Room) markUsed(words [2]WordRecord) {
	for _, w := range words {
		r.used[strings.ToUpper(strings.TrimSpace(w.Word))] = true
	}
}

func (r *Room) slotBySeat(seat Seat) *Slot {
	for _, s := range r.players {
		if s.Seat == seat {
			return s
		}
	}
	return nil
}

func (r *Room) slotByConn(connID string) *Slot {
	for _, s := range r.players {
		if s.ConnID == connID {
			return s
		}
	}
	return nil
}

func (r *Room) slotByName(name string) *Slot {
	for _, s := range r.players {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func (r *Room) freeSeat() Seat {
	if r.slotBySeat(Seat1) == nil {
		return Seat1
	}
	return Seat2
}

func (r *Room) removeSlot(slot *Slot) {
	slot.stopRemoval()
	delete(r.readySet, slot.ConnID)
	kept := r.players[:0]
	for _, s := range r.players {
		if s != slot {
			kept = append(kept, s)
		}
	}
	r.players = kept
}

func (r *Room) connectedCount() int {
	n := 0
	for _, s := range r.players {
		if s.Connected {
			n++
		}
	}
	return n
}

func (r *Room) send(s *Slot, msg Outbound) {
	if s != nil && s.Connected {
		s.Conn.Send(msg)
	}
}

func (r *Room) broadcast(msg Outbound) {
	for _, s := range r.players {
		r.send(s, msg)
	}
}

// broadcastEach sends every seat its own rendering of a message.
func (r *Room) broadcastEach(build func(viewer Seat) Outbound) {
	for _, s := range r.players {
		r.send(s, build(s.Seat))
	}
}

// RoomSummary is a read-only snapshot of a room for the HTTP API.
type RoomSummary struct {
	Code     string          `json:"codigo"`
	Category string          `json:"categoria"`
	State    RoomState       `json:"estado"`
	Round    int             `json:"rodada"`
	Lives    [2]int          `json:"vidas"`
	Players  []PlayerSummary `json:"jogadores"`
}

type PlayerSummary struct {
	Seat      Seat   `json:"seat"`
	Name      string `json:"nome"`
	Connected bool   `json:"conectado"`
	Ready     bool   `json:"pronto"`
}

// Summary returns the snapshot published after the last command.
func (r *Room) Summary() RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

func (r *Room) publishSummary() {
	sum := RoomSummary{
		Code:     r.code,
		Category: r.category,
		State:    r.state,
		Players:  make([]PlayerSummary, 0, len(r.players)),
	}
	if r.match != nil {
		sum.Round = r.match.RoundNumber
		sum.Lives = r.match.Lives
	}
	for _, s := range r.players {
		sum.Players = append(sum.Players, PlayerSummary{
			Seat:      s.Seat,
			Name:      s.Name,
			Connected: s.Connected,
			Ready:     s.Ready,
		})
	}

	r.mu.Lock()
	r.summary = sum
	r.mu.Unlock()
}
