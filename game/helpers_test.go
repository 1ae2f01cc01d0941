package game

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	id string

	mu   sync.Mutex
	msgs []Outbound
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(msg Outbound) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func (c *fakeConn) all() []Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Outbound(nil), c.msgs...)
}

func (c *fakeConn) ofType(tipo string) []Outbound {
	var out []Outbound
	for _, m := range c.all() {
		if m.Tipo() == tipo {
			out = append(out, m)
		}
	}
	return out
}

func (c *fakeConn) last() Outbound {
	msgs := c.all()
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = nil
}

// fakeSupplier hands out its words in order, honouring the filters.
type fakeSupplier struct {
	mu    sync.Mutex
	words []WordRecord
	err   error
	calls int
}

func (s *fakeSupplier) GetWord(_ context.Context, category string, exclude []string, difficulty string) (WordRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return WordRecord{}, s.err
	}
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[strings.ToUpper(e)] = true
	}
	for _, w := range s.words {
		if category != "" && w.Category != category {
			continue
		}
		if difficulty != "" && w.Difficulty != difficulty {
			continue
		}
		if skip[strings.ToUpper(w.Word)] {
			continue
		}
		return w, nil
	}
	return WordRecord{}, ErrNoWordsAvailable
}

type fakeRecorder struct {
	mu   sync.Mutex
	wins []string
	err  error
}

func (f *fakeRecorder) RecordWin(_ context.Context, playerID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.wins = append(f.wins, playerID)
	return len(f.wins), nil
}

func (f *fakeRecorder) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.wins...)
}

func animals() *fakeSupplier {
	return &fakeSupplier{words: []WordRecord{
		{Word: "GATO", Category: "Animais", Difficulty: "facil", Hint: "Mia"},
		{Word: "CACHORRO", Category: "Animais", Difficulty: "facil", Hint: "Late"},
		{Word: "PATO", Category: "Animais", Difficulty: "facil"},
		{Word: "RATO", Category: "Animais", Difficulty: "facil"},
		{Word: "ELEFANTE", Category: "Animais", Difficulty: "medio"},
		{Word: "GIRAFA", Category: "Animais", Difficulty: "medio"},
		{Word: "TAMANDUA", Category: "Animais", Difficulty: "dificil"},
	}}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func testOptions() Options {
	return Options{GracePeriod: time.Hour, TeardownDelay: time.Hour, WordLookupTimeout: time.Second}
}

// newTestRoom builds a stocked room that is driven synchronously through
// handle instead of Run.
func newTestRoom(t *testing.T, supplier WordSupplier, recorder VictoryRecorder) *Room {
	t.Helper()
	logger := discardLogger()
	r := newRoom("ABCD", "Animais", NewWordPicker(supplier, logger), recorder, logger, testOptions(), nil)
	r.rng = testRNG()
	r.stock(context.Background())
	t.Cleanup(r.close)
	return r
}

func (r *Room) do(cmd command) bool {
	return r.handle(context.Background(), cmd)
}

func joinAs(r *Room, conn *fakeConn, name, playerID string) {
	r.do(joinCmd{conn: conn, req: JoinRoom{RoomCode: "ABCD", PlayerName: name, PlayerID: playerID, Category: "Animais"}})
}

func say(r *Room, conn *fakeConn, msg Inbound) {
	r.do(inboundCmd{connID: conn.ID(), msg: msg})
}

func powers(ids ...PowerID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// startedRoom returns an Active room with Ana in seat 1 and Bruno in seat 2,
// each holding the given loadout.
func startedRoom(t *testing.T, loadout ...PowerID) (*Room, *fakeConn, *fakeConn, *fakeRecorder) {
	t.Helper()
	rec := &fakeRecorder{}
	r := newTestRoom(t, animals(), rec)
	ana, bruno := newFakeConn("c1"), newFakeConn("c2")
	joinAs(r, ana, "Ana", "p1")
	joinAs(r, bruno, "Bruno", "p2")
	say(r, ana, Ready{Powers: powers(loadout...)})
	say(r, bruno, Ready{Powers: powers(loadout...)})
	require.Equal(t, StateActive, r.state)
	ana.reset()
	bruno.reset()
	return r, ana, bruno, rec
}

func lastError(t *testing.T, c *fakeConn) string {
	t.Helper()
	errs := c.ofType("erro")
	require.NotEmpty(t, errs, "expected an erro message")
	return errs[len(errs)-1].(ErrorMsg).Message
}
