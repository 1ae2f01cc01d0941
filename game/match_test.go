package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pair(a, b string) [2]WordRecord {
	return [2]WordRecord{
		{Word: a, Category: "Animais", Difficulty: "facil"},
		{Word: b, Category: "Animais", Difficulty: "facil"},
	}
}

func newTestMatch(a, b string) *Match {
	return NewMatch(pair(a, b), testRNG())
}

func TestNewMatch(t *testing.T) {
	m := newTestMatch("gato", "cachorro")

	assert.Equal(t, [2]int{3, 3}, m.Lives)
	assert.Equal(t, Seat1, m.Turn)
	assert.Equal(t, Seat1, m.RoundStarter)
	assert.Equal(t, 1, m.RoundNumber)
	assert.Equal(t, "GATO", m.Round(Seat1).Word)
	assert.Equal(t, "CACHORRO", m.Round(Seat2).Word)
	assert.True(t, m.Resettable())
}

func TestGuessLetterAlternatesTurns(t *testing.T) {
	m := newTestMatch("GATO", "CACHORRO")

	res, err := m.GuessLetter(Seat1, "a")
	require.NoError(t, err)
	assert.True(t, res.Hit)
	assert.False(t, res.LifeLost)
	assert.Equal(t, "_A__", m.Round(Seat1).Masked(true))
	assert.Equal(t, 0, m.Round(Seat1).Errors)
	assert.Equal(t, Seat2, m.Turn)

	res, err = m.GuessLetter(Seat2, "Z")
	require.NoError(t, err)
	assert.False(t, res.Hit)
	assert.Equal(t, 1, m.Round(Seat2).Errors)
	assert.Equal(t, Seat1, m.Turn)
}

func TestGuessLetterValidation(t *testing.T) {
	m := newTestMatch("GATO", "CACHORRO")

	_, err := m.GuessLetter(Seat2, "A")
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = m.GuessLetter(Seat(3), "A")
	assert.ErrorIs(t, err, ErrUnknownSeat)

	for _, raw := range []string{"", "1", "AB", "?", " "} {
		_, err = m.GuessLetter(Seat1, raw)
		assert.ErrorIs(t, err, ErrInvalidLetter, "input %q", raw)
	}

	assert.Empty(t, m.Round(Seat1).Guessed)
	assert.Equal(t, Seat1, m.Turn)
}

func TestRepeatedLetterIsRejectedWithoutPenalty(t *testing.T) {
	m := newTestMatch("GATO", "CACHORRO")

	_, err := m.GuessLetter(Seat1, "Z")
	require.NoError(t, err)
	_, err = m.GuessLetter(Seat2, "Q")
	require.NoError(t, err)

	_, err = m.GuessLetter(Seat1, "z")
	assert.ErrorIs(t, err, ErrRepeatedLetter)
	assert.Equal(t, 1, m.Round(Seat1).Errors)
	assert.Equal(t, Seat1, m.Turn)
}

func TestSixthMissLosesTheRound(t *testing.T) {
	m := newTestMatch("GATO", "CACHORRO")

	seat1 := []string{"B", "C", "D", "E", "F", "H"}
	seat2 := []string{"B", "D", "E", "F", "G"}
	var last LetterResult
	for i, l := range seat1 {
		var err error
		last, err = m.GuessLetter(Seat1, l)
		require.NoError(t, err)
		if i < len(seat2) {
			_, err = m.GuessLetter(Seat2, seat2[i])
			require.NoError(t, err)
		}
	}

	assert.Equal(t, StatusLost, m.Round(Seat1).Status)
	assert.Equal(t, MaxErrors, m.Round(Seat1).Errors)
	assert.Equal(t, Outcome{LifeLost: true, Loser: Seat1}, last.Outcome)
	assert.Equal(t, [2]int{2, 3}, m.Lives)
	assert.False(t, m.Resettable())

	m.NewRound(pair("PATO", "RATO"))
	assert.Equal(t, Seat2, m.RoundStarter)
	assert.Equal(t, Seat2, m.Turn)
	assert.Equal(t, 2, m.RoundNumber)
	for _, s := range []Seat{Seat1, Seat2} {
		r := m.Round(s)
		assert.Zero(t, r.Errors)
		assert.Empty(t, r.Guessed)
		assert.Equal(t, StatusPlaying, r.Status)
	}
}

func TestCompletingWordCostsOpponentALife(t *testing.T) {
	m := newTestMatch("OI", "CACHORRO")

	_, err := m.GuessLetter(Seat1, "O")
	require.NoError(t, err)
	_, err = m.GuessLetter(Seat2, "Z")
	require.NoError(t, err)

	res, err := m.GuessLetter(Seat1, "I")
	require.NoError(t, err)
	assert.Equal(t, StatusWon, m.Round(Seat1).Status)
	assert.Equal(t, Outcome{LifeLost: true, Loser: Seat2}, res.Outcome)
	assert.Equal(t, [2]int{3, 2}, m.Lives)
	assert.Equal(t, Seat1, m.Turn, "turn does not pass when a life is lost")
}

func TestRoundStarterAlternates(t *testing.T) {
	m := newTestMatch("GATO", "CACHORRO")
	want := []Seat{Seat2, Seat1, Seat2, Seat1}
	for i, seat := range want {
		m.Deflect = [2]bool{true, true}
		m.HintUsed = [2]bool{true, true}
		m.NewRound(pair("PATO", "RATO"))
		assert.Equal(t, seat, m.RoundStarter, "round %d", i+2)
		assert.Equal(t, seat, m.Turn)
		assert.Equal(t, [2]bool{}, m.Deflect)
		assert.Equal(t, [2]bool{}, m.HintUsed)
	}
}

func TestAccentedLettersFold(t *testing.T) {
	m := newTestMatch("AÇAÍ", "CACHORRO")
	r := m.Round(Seat1)

	r.Apply('A', true)
	r.Apply('I', true)
	assert.Equal(t, "A_AÍ", r.Masked(true))
	assert.False(t, r.Contains('C'))

	r.Apply('C', true)
	assert.Equal(t, 1, r.Errors)
	r.Apply('Ç', true)
	assert.Equal(t, "AÇAÍ", r.Masked(true))
	assert.Equal(t, StatusWon, r.Status)
}

func TestGuessWordIgnoresAccentsAndCase(t *testing.T) {
	m := newTestMatch("AÇAÍ", "CACHORRO")

	res, err := m.GuessWord(Seat1, "  acai ")
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, StatusWon, m.Round(Seat1).Status)
	assert.Equal(t, "AÇAÍ", m.Round(Seat1).Masked(true))
	assert.Equal(t, Outcome{LifeLost: true, Loser: Seat2}, res.Outcome)
}

func TestGuessWordCompoundWords(t *testing.T) {
	m := newTestMatch("SÃO  PAULO", "CACHORRO")

	res, err := m.GuessWord(Seat1, "sao paulo")
	require.NoError(t, err)
	assert.True(t, res.Correct)
}

func TestWrongWordGuessLosesTheRound(t *testing.T) {
	m := newTestMatch("GATO", "CACHORRO")

	res, err := m.GuessWord(Seat1, "gata")
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.True(t, res.NearMiss)
	assert.Equal(t, MaxErrors, m.Round(Seat1).Errors)
	assert.Equal(t, StatusLost, m.Round(Seat1).Status)
	assert.Equal(t, Outcome{LifeLost: true, Loser: Seat1}, res.Outcome)

	m = newTestMatch("GATO", "CACHORRO")
	res, err = m.GuessWord(Seat1, "hipopotamo")
	require.NoError(t, err)
	assert.False(t, res.NearMiss)
}

func TestEmptyWordGuess(t *testing.T) {
	m := newTestMatch("GATO", "CACHORRO")

	_, err := m.GuessWord(Seat1, "   ")
	assert.ErrorIs(t, err, ErrEmptyWordGuess)
	assert.Equal(t, StatusPlaying, m.Round(Seat1).Status)
}

func TestDeflectRedirectsLetterAndKeepsTurn(t *testing.T) {
	m := newTestMatch("GATO", "CACHORRO")

	_, err := m.GuessLetter(Seat1, "Z")
	require.NoError(t, err)
	_, err = m.ApplyPower(Seat2, PowerDeflect)
	require.NoError(t, err)
	_, err = m.GuessLetter(Seat2, "B")
	require.NoError(t, err)
	require.Equal(t, Seat1, m.Turn)

	res, err := m.GuessLetter(Seat1, "R")
	require.NoError(t, err)
	assert.True(t, res.Deflected)
	assert.True(t, res.Hit)
	assert.Equal(t, Seat2, res.Target)
	assert.False(t, res.LifeLost)

	assert.True(t, m.Round(Seat2).Guessed['R'])
	assert.False(t, m.Round(Seat1).Guessed['R'])
	assert.Equal(t, 1, m.Round(Seat1).Errors)
	assert.Equal(t, 1, m.Round(Seat2).Errors)
	assert.False(t, m.Deflect[Seat2.idx()])
	assert.Equal(t, Seat1, m.Turn)

	res, err = m.GuessLetter(Seat1, "T")
	require.NoError(t, err)
	assert.False(t, res.Deflected, "deflect is one-shot")
	assert.Equal(t, Seat2, m.Turn)
}

func TestDeflectSkipsLettersTheHolderAlreadyGuessed(t *testing.T) {
	m := newTestMatch("GATO", "CACHORRO")
	m.Round(Seat2).Guessed['C'] = true
	m.Deflect[Seat2.idx()] = true

	res, err := m.GuessLetter(Seat1, "C")
	require.NoError(t, err)
	assert.False(t, res.Deflected)
	assert.True(t, m.Deflect[Seat2.idx()])
	assert.Equal(t, 1, m.Round(Seat1).Errors)
}

func TestDeflectCompletingHolderWordCostsActorALife(t *testing.T) {
	m := newTestMatch("GATO", "OI")
	m.Round(Seat2).Guessed['O'] = true
	m.Deflect[Seat2.idx()] = true

	res, err := m.GuessLetter(Seat1, "I")
	require.NoError(t, err)
	assert.True(t, res.Deflected)
	assert.Equal(t, StatusWon, m.Round(Seat2).Status)
	assert.Equal(t, Outcome{LifeLost: true, Loser: Seat1}, res.Outcome)
}

func TestTimeout(t *testing.T) {
	m := newTestMatch("GATO", "CACHORRO")

	assert.False(t, m.Timeout(Seat2))
	assert.Equal(t, Seat1, m.Turn)

	assert.True(t, m.Timeout(Seat1))
	assert.Equal(t, Seat2, m.Turn)
	assert.Equal(t, [2]int{3, 3}, m.Lives)
}

func TestHiddenLettersClearWhenTurnPasses(t *testing.T) {
	m := newTestMatch("GATO", "CACHORRO")
	_, err := m.GuessLetter(Seat1, "A")
	require.NoError(t, err)

	m.Turn = Seat2
	_, err = m.ApplyPower(Seat2, PowerHideLetter)
	require.NoError(t, err)
	assert.Equal(t, "____", m.Round(Seat1).Masked(true))
	assert.Equal(t, "_A__", m.Round(Seat1).Masked(false))

	require.True(t, m.Timeout(Seat2))
	require.True(t, m.Timeout(Seat1))
	assert.Equal(t, "_A__", m.Round(Seat1).Masked(true))
}

func TestLosingLastLifeEndsMatch(t *testing.T) {
	m := newTestMatch("GATO", "CACHORRO")
	m.Lives = [2]int{1, 3}

	res, err := m.GuessWord(Seat1, "PATO")
	require.NoError(t, err)
	assert.Equal(t, Outcome{LifeLost: true, Loser: Seat1, MatchOver: true, Winner: Seat2}, res.Outcome)
	assert.True(t, m.Over())

	_, err = m.GuessLetter(Seat1, "A")
	assert.ErrorIs(t, err, ErrMatchOver)
}

func TestRequestHint(t *testing.T) {
	words := pair("GATO", "CACHORRO")
	words[0].Hint = "Mia"
	m := NewMatch(words, testRNG())

	hint, blocked, err := m.RequestHint(Seat1)
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.Equal(t, "Mia", hint)

	_, _, err = m.RequestHint(Seat1)
	assert.ErrorIs(t, err, ErrHintUsed)

	hint, _, err = m.RequestHint(Seat2)
	require.NoError(t, err)
	assert.Equal(t, "Categoria Animais, 8 letras", hint)
}

func TestRequestHintConsumesBlock(t *testing.T) {
	m := newTestMatch("GATO", "CACHORRO")
	_, err := m.ApplyPower(Seat1, PowerHideHint)
	require.NoError(t, err)

	hint, blocked, err := m.RequestHint(Seat2)
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Empty(t, hint)
	assert.False(t, m.HintBlocked[Seat2.idx()])

	m.NewRound(pair("PATO", "RATO"))
	_, blocked, err = m.RequestHint(Seat2)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestViewMasksPerViewer(t *testing.T) {
	m := newTestMatch("GATO", "CACHORRO")
	_, err := m.GuessLetter(Seat1, "A")
	require.NoError(t, err)
	m.Round(Seat1).Hidden['A'] = true

	own := m.View(Seat1)
	other := m.View(Seat2)
	assert.Equal(t, "____", own.Rounds[0].MaskedWord)
	assert.Equal(t, "_A__", other.Rounds[0].MaskedWord)
	assert.Equal(t, []string{"A"}, own.Rounds[0].Guessed)
	assert.Equal(t, 8, own.Rounds[1].Length)
	assert.NotContains(t, other.Rounds[0].MaskedWord, "G")
}
