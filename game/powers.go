package game

import "sort"

type PowerID string

const (
	PowerExtraLife    PowerID = "extra_life"
	PowerDamage       PowerID = "tirar_vida"
	PowerRevealLetter PowerID = "liberar_letra"
	PowerHideLetter   PowerID = "ocultar_letra"
	PowerHideHint     PowerID = "ocultar_dica"
	PowerDeflect      PowerID = "palpite"
)

type EffectKind string

const (
	EffectExtraLife    EffectKind = "extra-life"
	EffectDamage       EffectKind = "damage-opponent"
	EffectRevealLetter EffectKind = "reveal-letter"
	EffectHideLetter   EffectKind = "hide-letter"
	EffectHideHint     EffectKind = "hide-hint"
	EffectDeflect      EffectKind = "deflect"
)

// PowerResult carries the full effect detail, which only the actor gets to see.
type PowerResult struct {
	Power  PowerID    `json:"poderId"`
	Effect EffectKind `json:"efeito"`
	Letter string     `json:"letra,omitempty"`
	Lives  int        `json:"vidas,omitempty"`
	Errors int        `json:"errosOponente,omitempty"`
	Outcome
}

// EffectFn applies a power on behalf of actor.
type EffectFn func(m *Match, actor Seat) (PowerResult, error)

type power struct {
	kind  EffectKind
	apply EffectFn
}

var powerCatalog = map[PowerID]power{
	PowerExtraLife:    {EffectExtraLife, extraLife},
	PowerDamage:       {EffectDamage, damageOpponent},
	PowerRevealLetter: {EffectRevealLetter, revealLetter},
	PowerHideLetter:   {EffectHideLetter, hideLetter},
	PowerHideHint:     {EffectHideHint, hideHint},
	PowerDeflect:      {EffectDeflect, deflect},
}

// KnownPower reports whether id is in the catalog.
func KnownPower(id PowerID) bool {
	_, ok := powerCatalog[id]
	return ok
}

// ApplyPower runs the effect of id for actor. It checks the turn but not the
// actor's loadout, which is the slot's business. The turn is never passed.
func (m *Match) ApplyPower(actor Seat, id PowerID) (PowerResult, error) {
	p, ok := powerCatalog[id]
	if !ok {
		return PowerResult{}, ErrUnknownPower
	}
	if err := m.checkTurn(actor); err != nil {
		return PowerResult{}, err
	}
	res, err := p.apply(m, actor)
	if err != nil {
		return PowerResult{}, err
	}
	res.Power = id
	res.Effect = p.kind
	return res, nil
}

func extraLife(m *Match, actor Seat) (PowerResult, error) {
	i := actor.idx()
	if m.Lives[i] < MaxLives {
		m.Lives[i]++
	}
	return PowerResult{Lives: m.Lives[i]}, nil
}

func damageOpponent(m *Match, actor Seat) (PowerResult, error) {
	opp := actor.Other()
	r := m.Round(opp)
	if r.Status != StatusPlaying {
		return PowerResult{}, ErrRoundNotPlaying
	}
	r.AddError()
	res := PowerResult{Errors: r.Errors}
	if r.Status == StatusLost {
		res.Outcome = m.loseLife(opp)
	}
	return res, nil
}

func revealLetter(m *Match, actor Seat) (PowerResult, error) {
	r := m.Round(actor)
	counts := r.HiddenLetters()
	if len(counts) == 0 {
		return PowerResult{}, ErrNothingToReveal
	}

	best := 0
	var candidates []rune
	for l, n := range counts {
		switch {
		case n > best:
			best = n
			candidates = []rune{l}
		case n == best:
			candidates = append(candidates, l)
		}
	}
	// sorted so only the rng picks among ties
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
	letter := candidates[m.rng.IntN(len(candidates))]

	r.Apply(letter, false)
	res := PowerResult{Letter: string(letter)}
	if r.Status == StatusWon {
		res.Outcome = m.loseLife(actor.Other())
	}
	return res, nil
}

func hideLetter(m *Match, actor Seat) (PowerResult, error) {
	r := m.Round(actor.Other())
	revealed := r.RevealedLetters()
	if len(revealed) == 0 {
		return PowerResult{}, ErrNothingToHide
	}
	letter := revealed[m.rng.IntN(len(revealed))]
	r.Hidden[letter] = true
	return PowerResult{Letter: string(letter)}, nil
}

func hideHint(m *Match, actor Seat) (PowerResult, error) {
	m.HintBlocked[actor.Other().idx()] = true
	return PowerResult{}, nil
}

func deflect(m *Match, actor Seat) (PowerResult, error) {
	m.Deflect[actor.idx()] = true
	return PowerResult{}, nil
}
