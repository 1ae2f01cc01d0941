package game

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
)

// WordRecord is one entry handed out by a WordSupplier.
type WordRecord struct {
	Word       string `json:"palavra"`
	Category   string `json:"categoria"`
	Difficulty string `json:"dificuldade"`
	Hint       string `json:"dica,omitempty"`
}

// WordSupplier returns a random word for a category, skipping the excluded
// words. An empty difficulty means any difficulty. It fails with
// ErrNoWordsAvailable when nothing is left.
type WordSupplier interface {
	GetWord(ctx context.Context, category string, exclude []string, difficulty string) (WordRecord, error)
}

// VictoryRecorder increments the persisted win counter of a player and
// returns the new count. Unknown players fail with ErrPlayerNotFound.
type VictoryRecorder interface {
	RecordWin(ctx context.Context, playerID string) (int, error)
}

var fallbackPairs = [][2]WordRecord{
	{{Word: "GATO", Category: "Animais", Difficulty: "facil"}, {Word: "CACHORRO", Category: "Animais", Difficulty: "facil"}},
	{{Word: "BANANA", Category: "Frutas", Difficulty: "facil"}, {Word: "MORANGO", Category: "Frutas", Difficulty: "facil"}},
	{{Word: "CADEIRA", Category: "Objetos", Difficulty: "facil"}, {Word: "JANELA", Category: "Objetos", Difficulty: "facil"}},
	{{Word: "BRASIL", Category: "Paises", Difficulty: "medio"}, {Word: "PORTUGAL", Category: "Paises", Difficulty: "medio"}},
	{{Word: "ELEFANTE", Category: "Animais", Difficulty: "medio"}, {Word: "GIRAFA", Category: "Animais", Difficulty: "medio"}},
	{{Word: "ABACAXI", Category: "Frutas", Difficulty: "medio"}, {Word: "MELANCIA", Category: "Frutas", Difficulty: "medio"}},
}

// WordPicker draws the pair of secret words for a round.
type WordPicker struct {
	supplier WordSupplier
	logger   *slog.Logger
}

func NewWordPicker(supplier WordSupplier, logger *slog.Logger) *WordPicker {
	return &WordPicker{supplier: supplier, logger: logger}
}

// PickPair returns two distinct words of the same difficulty that are not in
// used. It falls back to any difficulty for the second word, then to the
// built-in pairs when the supplier cannot serve the room. rng breaks ties
// among the built-in pairs.
func (p *WordPicker) PickPair(ctx context.Context, category string, used map[string]bool, rng *rand.Rand) [2]WordRecord {
	if p.supplier != nil {
		pair, err := p.fromSupplier(ctx, category, used)
		if err == nil {
			return pair
		}
		p.logger.Warn("word supplier exhausted, using built-in words", "category", category, "error", err)
	}
	return fallbackPair(category, used, rng)
}

func (p *WordPicker) fromSupplier(ctx context.Context, category string, used map[string]bool) ([2]WordRecord, error) {
	exclude := usedList(used)

	first, err := p.supplier.GetWord(ctx, category, exclude, "")
	if err != nil {
		return [2]WordRecord{}, err
	}
	exclude = append(exclude, strings.ToUpper(first.Word))

	second, err := p.supplier.GetWord(ctx, category, exclude, first.Difficulty)
	if err != nil {
		if !errors.Is(err, ErrNoWordsAvailable) {
			return [2]WordRecord{}, err
		}
		p.logger.Debug("no second word with same difficulty", "category", category, "difficulty", first.Difficulty)
		second, err = p.supplier.GetWord(ctx, category, exclude, "")
		if err != nil {
			return [2]WordRecord{}, err
		}
	}
	if strings.EqualFold(first.Word, second.Word) {
		return [2]WordRecord{}, ErrNoWordsAvailable
	}
	return [2]WordRecord{first, second}, nil
}

// fallbackPair prefers unused pairs of the room's category, then pairs of the
// category already played, then unused pairs of any category.
func fallbackPair(category string, used map[string]bool, rng *rand.Rand) [2]WordRecord {
	var same, fresh [][2]WordRecord
	for _, pair := range fallbackPairs {
		inCategory := strings.EqualFold(pair[0].Category, category)
		unused := !used[pair[0].Word] && !used[pair[1].Word]
		switch {
		case inCategory && unused:
			fresh = append(fresh, pair)
		case inCategory:
			same = append(same, pair)
		}
	}

	candidates := fresh
	if len(candidates) == 0 {
		candidates = same
	}
	if len(candidates) == 0 {
		for _, pair := range fallbackPairs {
			if !used[pair[0].Word] && !used[pair[1].Word] {
				candidates = append(candidates, pair)
			}
		}
	}
	if len(candidates) == 0 {
		candidates = fallbackPairs
	}
	if rng == nil {
		return candidates[rand.IntN(len(candidates))]
	}
	return candidates[rng.IntN(len(candidates))]
}

func usedList(used map[string]bool) []string {
	out := make([]string, 0, len(used))
	for w := range used {
		out = append(out, w)
	}
	return out
}
