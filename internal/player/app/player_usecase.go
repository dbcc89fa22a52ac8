package app

import (
	"math"

	"health_chat_service/internal/player/domain"
	"health_chat_service/internal/player/repository"
	"health_chat_service/pkg/logger"

	"go.uber.org/zap"
)

// nextLevelCost fuel points needed to advance from the given level.
// 20 at level 1, growing ~41% per level.
func nextLevelCost(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Round(20 * math.Pow(1.41, float64(level-1))))
}

// PlayerUseCase progression logic over the player store
type PlayerUseCase struct {
	repo repository.PlayerRepo
}

// NewPlayerUseCase create a PlayerUseCase
func NewPlayerUseCase(repo repository.PlayerRepo) *PlayerUseCase {
	return &PlayerUseCase{repo: repo}
}

// GetStats current progression snapshot for one player
func (uc *PlayerUseCase) GetStats(userID string) (*domain.PlayerStats, error) {
	user, err := uc.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return &domain.PlayerStats{
		UserID:        user.ID,
		Name:          user.Name,
		Level:         user.Level,
		FuelPoints:    user.FuelPoints,
		BurnStreak:    user.BurnStreak,
		NextLevelCost: nextLevelCost(user.Level),
	}, nil
}

// AddFuelPoints credit earned points and apply any level-ups. Each level-up
// spends the current level's cost; a big award can clear several levels.
func (uc *PlayerUseCase) AddFuelPoints(userID string, points int) (*domain.PlayerStats, error) {
	user, err := uc.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	user.FuelPoints += points
	gained := 0
	for user.FuelPoints >= nextLevelCost(user.Level) {
		user.FuelPoints -= nextLevelCost(user.Level)
		user.Level++
		gained++
	}

	if err := uc.repo.Save(user); err != nil {
		return nil, err
	}
	if gained > 0 {
		logger.Log.Info("player leveled up",
			zap.String("user_id", userID),
			zap.Int("level", user.Level),
			zap.Int("levels_gained", gained),
		)
	}

	return &domain.PlayerStats{
		UserID:        user.ID,
		Name:          user.Name,
		Level:         user.Level,
		FuelPoints:    user.FuelPoints,
		BurnStreak:    user.BurnStreak,
		NextLevelCost: nextLevelCost(user.Level),
		LeveledUp:     gained > 0,
		LevelsGained:  gained,
	}, nil
}

// RecordBurnDay extend or reset the daily burn streak
func (uc *PlayerUseCase) RecordBurnDay(userID string, continued bool) (*domain.PlayerStats, error) {
	user, err := uc.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if continued {
		user.BurnStreak++
	} else {
		user.BurnStreak = 1
	}
	if err := uc.repo.Save(user); err != nil {
		return nil, err
	}
	return uc.GetStats(userID)
}
