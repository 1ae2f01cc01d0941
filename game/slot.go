package game

import (
	"sort"
	"time"
)

const MaxPowers = 3

// Slot is a seat in a room and the player currently holding it.
type Slot struct {
	Conn           Conn
	ConnID         string
	Name           string
	PlayerID       string
	Seat           Seat
	Ready          bool
	Connected      bool
	DisconnectedAt time.Time
	SelectedPowers []PowerID
	UsedPowers     map[PowerID]bool

	removal *time.Timer
}

func newSlot(conn Conn, name, playerID string, seat Seat) *Slot {
	return &Slot{
		Conn:       conn,
		ConnID:     conn.ID(),
		Name:       name,
		PlayerID:   playerID,
		Seat:       seat,
		Connected:  true,
		UsedPowers: make(map[PowerID]bool),
	}
}

// selectPowers keeps the first MaxPowers known, distinct ids.
func selectPowers(raw []string) []PowerID {
	seen := make(map[PowerID]bool)
	out := make([]PowerID, 0, MaxPowers)
	for _, r := range raw {
		id := PowerID(r)
		if !KnownPower(id) || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		if len(out) == MaxPowers {
			break
		}
	}
	return out
}

func (s *Slot) owns(id PowerID) bool {
	for _, p := range s.SelectedPowers {
		if p == id {
			return true
		}
	}
	return false
}

// checkPower enforces the per-match loadout.
func (s *Slot) checkPower(id PowerID) error {
	if !KnownPower(id) {
		return ErrUnknownPower
	}
	if !s.owns(id) {
		return ErrPowerNotOwned
	}
	if s.UsedPowers[id] {
		return ErrPowerUsed
	}
	return nil
}

func (s *Slot) stopRemoval() {
	if s.removal != nil {
		s.removal.Stop()
		s.removal = nil
	}
}

func (s *Slot) powerNames() []string {
	out := make([]string, len(s.SelectedPowers))
	for i, p := range s.SelectedPowers {
		out[i] = string(p)
	}
	return out
}

func (s *Slot) usedPowerNames() []string {
	out := make([]string, 0, len(s.UsedPowers))
	for p := range s.UsedPowers {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}
