package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/agnivade/levenshtein"
)

const (
	StartLives = 3
	MaxLives   = 4
)

// Seat is one of the two fixed player positions.
type Seat int

const (
	Seat1 Seat = 1
	Seat2 Seat = 2
)

func (s Seat) Other() Seat {
	if s == Seat1 {
		return Seat2
	}
	return Seat1
}

func (s Seat) Valid() bool {
	return s == Seat1 || s == Seat2
}

func (s Seat) idx() int {
	return int(s) - 1
}

// Outcome describes the life change caused by an action, if any.
type Outcome struct {
	LifeLost  bool `json:"vidaPerdida"`
	Loser     Seat `json:"perdedor,omitempty"`
	MatchOver bool `json:"fimDePartida"`
	Winner    Seat `json:"vencedor,omitempty"`
}

// Match holds the shared game state of a room once words are stocked: one
// round per seat, life counters, turn pointer and per-round flags.
type Match struct {
	Rounds       [2]*RoundState
	Lives        [2]int
	Turn         Seat
	RoundStarter Seat
	RoundNumber  int
	Deflect      [2]bool
	HintBlocked  [2]bool
	HintUsed     [2]bool

	rng *rand.Rand
}

func NewMatch(words [2]WordRecord, rng *rand.Rand) *Match {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Match{
		Rounds:       [2]*RoundState{NewRoundState(words[0]), NewRoundState(words[1])},
		Lives:        [2]int{StartLives, StartLives},
		Turn:         Seat1,
		RoundStarter: Seat1,
		RoundNumber:  1,
		rng:          rng,
	}
}

func (m *Match) Round(s Seat) *RoundState {
	return m.Rounds[s.idx()]
}

// Over reports whether a life counter reached zero.
func (m *Match) Over() bool {
	return m.Lives[0] == 0 || m.Lives[1] == 0
}

// Resettable reports whether both rounds are still in play.
func (m *Match) Resettable() bool {
	return m.Rounds[0].Status == StatusPlaying && m.Rounds[1].Status == StatusPlaying
}

func (m *Match) checkTurn(actor Seat) error {
	if !actor.Valid() {
		return ErrUnknownSeat
	}
	if m.Over() {
		return ErrMatchOver
	}
	if actor != m.Turn {
		return ErrNotYourTurn
	}
	if m.Round(actor).Status != StatusPlaying {
		return ErrRoundNotPlaying
	}
	return nil
}

// LetterResult is the outcome of a letter guess.
type LetterResult struct {
	Letter    string `json:"letra"`
	Hit       bool   `json:"acerto"`
	Deflected bool   `json:"defletido"`
	Target    Seat   `json:"alvo"`
	Outcome
}

// GuessLetter resolves a letter guess by actor.
func (m *Match) GuessLetter(actor Seat, raw string) (LetterResult, error) {
	if err := m.checkTurn(actor); err != nil {
		return LetterResult{}, err
	}
	letter, err := ParseLetter(raw)
	if err != nil {
		return LetterResult{}, err
	}
	own := m.Round(actor)
	if own.Guessed[letter] {
		return LetterResult{}, ErrRepeatedLetter
	}

	opp := actor.Other()
	res := LetterResult{Letter: string(letter), Target: actor}

	if m.Deflect[opp.idx()] && !m.Round(opp).Guessed[letter] {
		m.Deflect[opp.idx()] = false
		target := m.Round(opp)
		res.Deflected = true
		res.Target = opp
		res.Hit = target.Apply(letter, false)
		if target.Status == StatusWon {
			res.Outcome = m.loseLife(actor)
		}
		return res, nil
	}

	res.Hit = own.Apply(letter, true)
	switch own.Status {
	case StatusWon:
		res.Outcome = m.loseLife(opp)
	case StatusLost:
		res.Outcome = m.loseLife(actor)
	default:
		m.passTurn()
	}
	return res, nil
}

// WordResult is the outcome of a full-word guess.
type WordResult struct {
	Guess    string `json:"palavra"`
	Correct  bool   `json:"correto"`
	NearMiss bool   `json:"quase"`
	Outcome
}

// GuessWord resolves a full-word guess. Every word guess ends the round.
func (m *Match) GuessWord(actor Seat, raw string) (WordResult, error) {
	if err := m.checkTurn(actor); err != nil {
		return WordResult{}, err
	}
	guess := NormalizeWord(raw)
	if guess == "" {
		return WordResult{}, ErrEmptyWordGuess
	}

	own := m.Round(actor)
	secret := NormalizeWord(own.Word)
	res := WordResult{Guess: guess}
	if guess == secret {
		own.RevealAll()
		own.Status = StatusWon
		res.Correct = true
		res.Outcome = m.loseLife(actor.Other())
		return res, nil
	}

	res.NearMiss = levenshtein.ComputeDistance(guess, secret) <= 2
	own.Errors = MaxErrors
	own.Status = StatusLost
	res.Outcome = m.loseLife(actor)
	return res, nil
}

// Timeout passes the turn when the turn holder ran out of time. It reports
// false when the signal does not apply.
func (m *Match) Timeout(actor Seat) bool {
	if m.checkTurn(actor) != nil {
		return false
	}
	m.passTurn()
	return true
}

func (m *Match) passTurn() {
	from := m.Turn
	m.Turn = from.Other()
	// cosmetic hiding only lasts for the owner's turn
	clear(m.Round(from).Hidden)
}

func (m *Match) loseLife(s Seat) Outcome {
	i := s.idx()
	if m.Lives[i] > 0 {
		m.Lives[i]--
	}
	out := Outcome{LifeLost: true, Loser: s}
	if m.Lives[i] == 0 {
		out.MatchOver = true
		out.Winner = s.Other()
	}
	return out
}

// NewRound replaces both rounds and hands the first turn to the seat that
// did not start the previous round.
func (m *Match) NewRound(words [2]WordRecord) {
	m.Rounds = [2]*RoundState{NewRoundState(words[0]), NewRoundState(words[1])}
	m.RoundStarter = m.RoundStarter.Other()
	m.Turn = m.RoundStarter
	m.Deflect = [2]bool{}
	m.HintUsed = [2]bool{}
	m.RoundNumber++
}

// RequestHint consumes the seat's hint for this round. A pending block set
// by the opponent swallows the request instead.
func (m *Match) RequestHint(s Seat) (hint string, blocked bool, err error) {
	if !s.Valid() {
		return "", false, ErrUnknownSeat
	}
	if m.Over() {
		return "", false, ErrMatchOver
	}
	i := s.idx()
	if m.HintUsed[i] {
		return "", false, ErrHintUsed
	}
	m.HintUsed[i] = true
	if m.HintBlocked[i] {
		m.HintBlocked[i] = false
		return "", true, nil
	}
	r := m.Round(s)
	if r.Hint != "" {
		return r.Hint, false, nil
	}
	return fmt.Sprintf("Categoria %s, %d letras", r.Category, r.LetterCount()), false, nil
}

// MatchView is the state snapshot sent to one seat.
type MatchView struct {
	Turn         Seat         `json:"turno"`
	RoundStarter Seat         `json:"iniciante"`
	Round        int          `json:"rodada"`
	Lives        [2]int       `json:"vidas"`
	Rounds       [2]RoundView `json:"rodadas"`
}

func (m *Match) View(viewer Seat) MatchView {
	return MatchView{
		Turn:         m.Turn,
		RoundStarter: m.RoundStarter,
		Round:        m.RoundNumber,
		Lives:        m.Lives,
		Rounds: [2]RoundView{
			m.Rounds[0].View(viewer == Seat1),
			m.Rounds[1].View(viewer == Seat2),
		},
	}
}
