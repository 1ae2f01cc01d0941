package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"forca/game"
	"forca/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WordService serves secret words from the words table.
type WordService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewWordService(db *gorm.DB, logger *slog.Logger) *WordService {
	return &WordService{db: db, logger: logger}
}

type CategoryCount struct {
	Category string `json:"category"`
	Words    int64  `json:"words"`
}

// GetWord returns a random word of the category that is not in exclude. An
// empty category or difficulty matches any.
func (s *WordService) GetWord(ctx context.Context, category string, exclude []string, difficulty string) (game.WordRecord, error) {
	q := s.db.WithContext(ctx).Model(&models.Word{})
	if category != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(category))
	}
	if difficulty != "" {
		q = q.Where("difficulty = ?", difficulty)
	}
	if ex := upperAll(exclude); len(ex) > 0 {
		q = q.Where("UPPER(text) NOT IN ?", ex)
	}

	var word models.Word
	err := q.Order("RANDOM()").Take(&word).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return game.WordRecord{}, game.ErrNoWordsAvailable
	}
	if err != nil {
		return game.WordRecord{}, fmt.Errorf("query word: %w", err)
	}

	return game.WordRecord{
		Word:       strings.ToUpper(word.Text),
		Category:   word.Category,
		Difficulty: word.Difficulty,
		Hint:       word.Hint,
	}, nil
}

// Categories lists the categories with their word counts.
func (s *WordService) Categories(ctx context.Context) ([]CategoryCount, error) {
	var out []CategoryCount
	err := s.db.WithContext(ctx).Model(&models.Word{}).
		Select("category, COUNT(*) AS words").
		Group("category").
		Order("category").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// SeedDefaults inserts the built-in word list, skipping words that already
// exist in their category.
func (s *WordService) SeedDefaults(ctx context.Context) error {
	words := defaultWords()
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(words, 100)
	if res.Error != nil {
		return fmt.Errorf("seed words: %w", res.Error)
	}
	s.logger.Info("word list seeded", "inserted", res.RowsAffected, "total", len(words))
	return nil
}

func upperAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, w := range in {
		if w = strings.ToUpper(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}

type seed struct {
	text, difficulty, hint string
}

var seedWords = map[string][]seed{
	"Animais": {
		{"GATO", "facil", "Mia e caça ratos"},
		{"CACHORRO", "facil", "Melhor amigo do homem"},
		{"PATO", "facil", "Faz quá quá"},
		{"VACA", "facil", "Dá leite"},
		{"ELEFANTE", "medio", "Tem tromba"},
		{"GIRAFA", "medio", "Pescoço comprido"},
		{"TARTARUGA", "medio", "Carrega a casa nas costas"},
		{"TAMANDUÁ", "dificil", "Come formigas"},
		{"ORNITORRINCO", "dificil", "Mamífero que bota ovos"},
		{"BEIJA-FLOR", "dificil", "Ave que paira no ar"},
	},
	"Frutas": {
		{"BANANA", "facil", "Amarela e comprida"},
		{"UVA", "facil", "Vem em cachos"},
		{"MAÇÃ", "facil", "Caiu na cabeça de Newton"},
		{"MORANGO", "facil", "Vermelho com sementes por fora"},
		{"ABACAXI", "medio", "Tem coroa"},
		{"MELANCIA", "medio", "Verde por fora, vermelha por dentro"},
		{"JABUTICABA", "dificil", "Nasce no tronco"},
		{"AÇAÍ", "dificil", "Fruto roxo da Amazônia"},
		{"CUPUAÇU", "dificil", "Parente do cacau"},
	},
	"Paises": {
		{"BRASIL", "facil", "País do futebol"},
		{"CHILE", "facil", "Comprido e estreito"},
		{"PORTUGAL", "medio", "Terra de Camões"},
		{"ARGENTINA", "medio", "Vizinho do sul"},
		{"JAPÃO", "medio", "Terra do sol nascente"},
		{"ÁFRICA DO SUL", "dificil", "Sediou a Copa de 2010"},
		{"NOVA ZELÂNDIA", "dificil", "Terra dos kiwis"},
	},
	"Objetos": {
		{"CADEIRA", "facil", "Serve para sentar"},
		{"JANELA", "facil", "Deixa a luz entrar"},
		{"MESA", "facil", "Onde se come"},
		{"GUARDA-CHUVA", "medio", "Protege da chuva"},
		{"TESOURA", "medio", "Corta papel"},
		{"LIQUIDIFICADOR", "dificil", "Faz vitaminas"},
	},
}

func defaultWords() []models.Word {
	var out []models.Word
	for category, list := range seedWords {
		for _, w := range list {
			out = append(out, models.Word{
				Text:       w.text,
				Category:   category,
				Difficulty: w.difficulty,
				Hint:       w.hint,
			})
		}
	}
	return out
}
