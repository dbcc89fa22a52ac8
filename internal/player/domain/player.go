package domain

import "time"

// User player account row shared with the chat roster
type User struct {
	ID         string `gorm:"primaryKey"`
	Name       string
	AvatarURL  string
	Level      int `gorm:"default:1"`
	FuelPoints int `gorm:"default:0"`
	BurnStreak int `gorm:"default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PlayerStats usecase view of one player's progression
type PlayerStats struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	Level          int    `json:"level"`
	FuelPoints     int    `json:"fuel_points"`
	BurnStreak     int    `json:"burn_streak"`
	NextLevelCost  int    `json:"next_level_cost"`
	LeveledUp      bool   `json:"leveled_up"`
	LevelsGained   int    `json:"levels_gained"`
}
