package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"forca/game"
	"forca/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	rankingKey      = "ranking:vitorias"
	rankingNamesKey = "ranking:nomes"

	DefaultRankingLimit = 10
	MaxRankingLimit     = 100
)

// VictoryService persists victory counters in the players table and mirrors
// them into a redis sorted set used for the ranking.
type VictoryService struct {
	db     *gorm.DB
	redis  *redis.Client
	logger *slog.Logger
}

func NewVictoryService(db *gorm.DB, redis *redis.Client, logger *slog.Logger) *VictoryService {
	return &VictoryService{db: db, redis: redis, logger: logger}
}

type RankingEntry struct {
	Position  int    `json:"position"`
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	Victories int    `json:"victories"`
}

// RecordWin increments the player's victory counter and returns the new value.
func (s *VictoryService) RecordWin(ctx context.Context, playerID string) (int, error) {
	res := s.db.WithContext(ctx).Model(&models.Player{}).
		Where("id = ?", playerID).
		Update("victories", gorm.Expr("victories + ?", 1))
	if res.Error != nil {
		return 0, fmt.Errorf("record win: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, game.ErrPlayerNotFound
	}

	var player models.Player
	if err := s.db.WithContext(ctx).First(&player, "id = ?", playerID).Error; err != nil {
		return 0, fmt.Errorf("reload player: %w", err)
	}
	s.mirror(ctx, player)
	return player.Victories, nil
}

func (s *VictoryService) mirror(ctx context.Context, players ...models.Player) {
	if s.redis == nil || len(players) == 0 {
		return
	}
	pipe := s.redis.TxPipeline()
	for _, p := range players {
		pipe.ZAdd(ctx, rankingKey, redis.Z{Score: float64(p.Victories), Member: p.ID})
		pipe.HSet(ctx, rankingNamesKey, p.ID, p.Name)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("failed to mirror ranking", "players", len(players), "error", err)
	}
}

// TopPlayers returns the best players by victories, reading the redis mirror
// and falling back to the database when the mirror is empty or unavailable.
func (s *VictoryService) TopPlayers(ctx context.Context, limit int) ([]RankingEntry, error) {
	limit = clampLimit(limit)

	if s.redis != nil {
		entries, err := s.topFromCache(ctx, limit)
		switch {
		case err != nil:
			s.logger.Warn("ranking cache unavailable", "error", err)
		case len(entries) > 0:
			return entries, nil
		}
	}
	return s.topFromDB(ctx, limit)
}

func (s *VictoryService) topFromCache(ctx context.Context, limit int) ([]RankingEntry, error) {
	scores, err := s.redis.ZRevRangeWithScores(ctx, rankingKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, nil
	}

	ids := make([]string, len(scores))
	for i, z := range scores {
		ids[i] = z.Member
	}
	names, err := s.redis.HMGet(ctx, rankingNamesKey, ids...).Result()
	if err != nil {
		return nil, err
	}
	return rankingFromScores(scores, names), nil
}

func (s *VictoryService) topFromDB(ctx context.Context, limit int) ([]RankingEntry, error) {
	var players []models.Player
	err := s.db.WithContext(ctx).
		Where("victories > 0").
		Order("victories DESC, name").
		Limit(limit).
		Find(&players).Error
	if err != nil {
		return nil, fmt.Errorf("query ranking: %w", err)
	}
	s.mirror(ctx, players...)

	out := make([]RankingEntry, len(players))
	for i, p := range players {
		out[i] = RankingEntry{Position: i + 1, PlayerID: p.ID, Name: p.Name, Victories: p.Victories}
	}
	return out, nil
}

// Standing returns the ranking entry of one player.
func (s *VictoryService) Standing(ctx context.Context, playerID string) (RankingEntry, error) {
	var player models.Player
	err := s.db.WithContext(ctx).First(&player, "id = ?", playerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RankingEntry{}, game.ErrPlayerNotFound
	}
	if err != nil {
		return RankingEntry{}, fmt.Errorf("query player: %w", err)
	}

	entry := RankingEntry{PlayerID: player.ID, Name: player.Name, Victories: player.Victories}
	if s.redis != nil {
		rank, err := s.redis.ZRevRank(ctx, rankingKey, player.ID).Result()
		if err == nil {
			entry.Position = int(rank) + 1
			return entry, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("ranking cache unavailable", "error", err)
		}
	}

	var ahead int64
	if err := s.db.WithContext(ctx).Model(&models.Player{}).
		Where("victories > ?", player.Victories).
		Count(&ahead).Error; err != nil {
		return RankingEntry{}, fmt.Errorf("count ranking: %w", err)
	}
	entry.Position = int(ahead) + 1
	return entry, nil
}

func rankingFromScores(scores []redis.Z, names []interface{}) []RankingEntry {
	out := make([]RankingEntry, len(scores))
	for i, z := range scores {
		id := z.Member
		var name string
		if i < len(names) {
			name, _ = names[i].(string)
		}
		out[i] = RankingEntry{Position: i + 1, PlayerID: id, Name: name, Victories: int(z.Score)}
	}
	return out
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultRankingLimit
	case limit > MaxRankingLimit:
		return MaxRankingLimit
	}
	return limit
}
