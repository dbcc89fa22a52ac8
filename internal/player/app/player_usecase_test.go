package app

import (
	"testing"

	"health_chat_service/internal/player/domain"
	"health_chat_service/internal/player/repository"
	"health_chat_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func init() {
	logger.SetNewNop()
}

// MockPlayerRepo Mock PlayerRepo
type MockPlayerRepo struct {
	mock.Mock
}

// AutoMigrate mock migrate
func (m *MockPlayerRepo) AutoMigrate() error {
	args := m.Called()
	return args.Error(0)
}

// GetByID mock find player
func (m *MockPlayerRepo) GetByID(id string) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// Save mock save player
func (m *MockPlayerRepo) Save(user *domain.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func TestPlayerUseCase_GetStats(t *testing.T) {
	repo := new(MockPlayerRepo)
	repo.On("GetByID", "u1").Return(&domain.User{
		ID: "u1", Name: "Alex", Level: 3, FuelPoints: 12, BurnStreak: 5,
	}, nil)

	uc := NewPlayerUseCase(repo)
	stats, err := uc.GetStats("u1")

	assert.NoError(t, err)
	assert.Equal(t, 3, stats.Level)
	assert.Equal(t, 12, stats.FuelPoints)
	assert.Equal(t, nextLevelCost(3), stats.NextLevelCost)
}

func TestPlayerUseCase_GetStats_Missing(t *testing.T) {
	repo := new(MockPlayerRepo)
	repo.On("GetByID", "ghost").Return(nil, repository.ErrPlayerNotFound)

	uc := NewPlayerUseCase(repo)
	_, err := uc.GetStats("ghost")

	assert.ErrorIs(t, err, repository.ErrPlayerNotFound)
}

func TestPlayerUseCase_AddFuelPoints_LevelUp(t *testing.T) {
	repo := new(MockPlayerRepo)
	repo.On("GetByID", "u1").Return(&domain.User{ID: "u1", Level: 1, FuelPoints: 15}, nil)
	repo.On("Save", mock.Anything).Return(nil)

	uc := NewPlayerUseCase(repo)
	// level 1 costs 20; 15 + 10 crosses it once
	stats, err := uc.AddFuelPoints("u1", 10)

	assert.NoError(t, err)
	assert.True(t, stats.LeveledUp)
	assert.Equal(t, 1, stats.LevelsGained)
	assert.Equal(t, 2, stats.Level)
	assert.Equal(t, 5, stats.FuelPoints)
}

func TestPlayerUseCase_AddFuelPoints_MultiLevel(t *testing.T) {
	repo := new(MockPlayerRepo)
	repo.On("GetByID", "u1").Return(&domain.User{ID: "u1", Level: 1, FuelPoints: 0}, nil)
	repo.On("Save", mock.Anything).Return(nil)

	uc := NewPlayerUseCase(repo)
	// 20 + 28 clear levels 1 and 2 with 2 left over
	stats, err := uc.AddFuelPoints("u1", 50)

	assert.NoError(t, err)
	assert.Equal(t, 2, stats.LevelsGained)
	assert.Equal(t, 3, stats.Level)
	assert.Equal(t, 2, stats.FuelPoints)
}

func TestPlayerUseCase_AddFuelPoints_NoLevelUp(t *testing.T) {
	repo := new(MockPlayerRepo)
	repo.On("GetByID", "u1").Return(&domain.User{ID: "u1", Level: 2, FuelPoints: 0}, nil)
	repo.On("Save", mock.Anything).Return(nil)

	uc := NewPlayerUseCase(repo)
	stats, err := uc.AddFuelPoints("u1", 5)

	assert.NoError(t, err)
	assert.False(t, stats.LeveledUp)
	assert.Equal(t, 2, stats.Level)
	assert.Equal(t, 5, stats.FuelPoints)
}

func TestNextLevelCost(t *testing.T) {
	assert.Equal(t, 20, nextLevelCost(1))
	assert.Equal(t, 28, nextLevelCost(2))
	// the curve never shrinks
	for level := 1; level < 30; level++ {
		assert.Less(t, nextLevelCost(level), nextLevelCost(level+1))
	}
}
