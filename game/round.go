package game

import (
	"sort"
	"strings"
)

const MaxErrors = 6

type RoundStatus string

const (
	StatusPlaying RoundStatus = "playing"
	StatusWon     RoundStatus = "won"
	StatusLost    RoundStatus = "lost"
)

// RoundState is one seat's secret word and guess progress for a single round.
type RoundState struct {
	Word       string
	Category   string
	Difficulty string
	Hint       string
	Guessed    map[rune]bool
	Hidden     map[rune]bool
	Errors     int
	Status     RoundStatus
}

func NewRoundState(w WordRecord) *RoundState {
	return &RoundState{
		Word:       strings.ToUpper(strings.TrimSpace(w.Word)),
		Category:   w.Category,
		Difficulty: w.Difficulty,
		Hint:       w.Hint,
		Guessed:    make(map[rune]bool),
		Hidden:     make(map[rune]bool),
		Status:     StatusPlaying,
	}
}

// Contains reports whether the folded letter appears in the word.
func (r *RoundState) Contains(letter rune) bool {
	for _, c := range r.Word {
		if c != ' ' && foldLetter(c) == letter {
			return true
		}
	}
	return false
}

// Apply records a letter and updates errors and status. Misses only count as
// errors when penalize is set.
func (r *RoundState) Apply(letter rune, penalize bool) bool {
	r.Guessed[letter] = true
	hit := r.Contains(letter)
	switch {
	case hit && r.Complete():
		r.Status = StatusWon
	case !hit && penalize:
		r.AddError()
	}
	return hit
}

// AddError bumps the error counter, losing the round on the last one.
func (r *RoundState) AddError() {
	if r.Errors < MaxErrors {
		r.Errors++
	}
	if r.Errors >= MaxErrors {
		r.Status = StatusLost
	}
}

// RevealAll marks every letter of the word as guessed.
func (r *RoundState) RevealAll() {
	for _, c := range r.Word {
		if c != ' ' {
			r.Guessed[foldLetter(c)] = true
		}
	}
	r.Hidden = make(map[rune]bool)
}

func (r *RoundState) Complete() bool {
	for _, c := range r.Word {
		if c != ' ' && !r.Guessed[foldLetter(c)] {
			return false
		}
	}
	return true
}

// Masked renders the word with unrevealed letters as underscores. When owner
// is set, letters hidden by a power are masked as well.
func (r *RoundState) Masked(owner bool) string {
	var b strings.Builder
	for _, c := range r.Word {
		l := foldLetter(c)
		switch {
		case c == ' ':
			b.WriteRune(' ')
		case r.Guessed[l] && !(owner && r.Hidden[l]):
			b.WriteRune(c)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// LetterCount is the number of non-space characters in the word.
func (r *RoundState) LetterCount() int {
	n := 0
	for _, c := range r.Word {
		if c != ' ' {
			n++
		}
	}
	return n
}

// HiddenLetters returns the folded letters of the word not yet guessed, with
// their number of occurrences.
func (r *RoundState) HiddenLetters() map[rune]int {
	counts := make(map[rune]int)
	for _, c := range r.Word {
		if c == ' ' {
			continue
		}
		if l := foldLetter(c); !r.Guessed[l] {
			counts[l]++
		}
	}
	return counts
}

// RevealedLetters returns guessed letters that are present in the word and
// not currently hidden, sorted.
func (r *RoundState) RevealedLetters() []rune {
	var out []rune
	for l := range r.Guessed {
		if !r.Hidden[l] && r.Contains(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *RoundState) guessedList() []string {
	out := make([]string, 0, len(r.Guessed))
	for l := range r.Guessed {
		out = append(out, string(l))
	}
	sort.Strings(out)
	return out
}

// View is the wire snapshot of a round as seen by one seat.
type RoundView struct {
	MaskedWord string      `json:"palavraMascarada"`
	Errors     int         `json:"erros"`
	Guessed    []string    `json:"letrasChutadas"`
	Status     RoundStatus `json:"status"`
	Length     int         `json:"tamanho"`
}

func (r *RoundState) View(owner bool) RoundView {
	return RoundView{
		MaskedWord: r.Masked(owner),
		Errors:     r.Errors,
		Guessed:    r.guessedList(),
		Status:     r.Status,
		Length:     len([]rune(r.Word)),
	}
}
