package store

import (
	"context"
	"errors"

	"github.com/mroblesdev/scratch-win-server/game"
)

// ErrNotFound is returned when a prize id does not exist.
var ErrNotFound = errors.New("not found")

// NewPrize carries the mutable prize fields for create and full update.
type NewPrize struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Value       string `json:"value"`
	Icon        string `json:"icon"`
	Stock       *int   `json:"stock"` // nil = unlimited
	IsActive    bool   `json:"isActive"`
	Probability int    `json:"probability"`
}

// Store is the persistence contract: the engine-facing operations plus the
// admin CRUD surface. Implemented by FileStore and PostgresStore.
type Store interface {
	game.PrizeStore
	game.SettingsStore
	game.StatsStore

	ListPrizes(ctx context.Context) ([]game.Prize, error)
	GetPrize(ctx context.Context, id int) (*game.Prize, error)
	CreatePrize(ctx context.Context, p NewPrize) (*game.Prize, error)
	UpdatePrize(ctx context.Context, id int, p NewPrize) (*game.Prize, error)
	DeletePrize(ctx context.Context, id int) error

	Settings(ctx context.Context) (*game.GameSettings, error)
	UpdateSettings(ctx context.Context, s game.GameSettings) (*game.GameSettings, error)

	Stats(ctx context.Context) (*game.GameStats, error)

	Close() error
}

func intp(v int) *int { return &v }

// DefaultPrizes is the seed catalog for a fresh deployment.
func DefaultPrizes() []game.Prize {
	return []game.Prize{
		{Name: "$100", Description: "Gift Card", Type: game.TypePhysical, Value: "$100.00", Icon: "gift", Stock: intp(10), IsActive: true, Probability: 5},
		{Name: "Free", Description: "Subscription", Type: game.TypeDigital, Value: "$49.99", Icon: "star", Stock: nil, IsActive: true, Probability: 15},
		{Name: "50% Off", Description: "Next Purchase", Type: game.TypeDiscount, Value: "Variable", Icon: "percent", Stock: intp(50), IsActive: true, Probability: 80},
		{Name: "Smart", Description: "Watch", Type: game.TypePhysical, Value: "$199.99", Icon: "clock", Stock: intp(5), IsActive: true, Probability: 3},
		{Name: "Mystery", Description: "Box", Type: game.TypePhysical, Value: "Variable", Icon: "box", Stock: intp(20), IsActive: true, Probability: 7},
		{Name: "Free", Description: "Game", Type: game.TypeDigital, Value: "$59.99", Icon: "gamepad", Stock: nil, IsActive: true, Probability: 12},
	}
}

// DefaultSettings is the seed configuration for a fresh deployment.
func DefaultSettings() game.GameSettings {
	return game.GameSettings{
		ID:                      1,
		Title:                   "Scratch & Win",
		InstructionText:         "Scratch the card below to reveal your prize",
		CardBackground:          "default.png",
		PrimaryColor:            "#1a365d",
		SecondaryColor:          "#ffc107",
		EnableGame:              true,
		ShowPrizeGallery:        true,
		EnableWinAnimations:     true,
		RequireUserRegistration: false,
		EnableSocialSharing:     false,
		PlaysPerUser:            "3 per day",
		CountdownTimer:          24,
		TimerType:               "Until next play",
		GameDuration:            "1 month",
		GlobalWinRate:           25,
		AdminNotifications: game.AdminNotifications{
			EmailOnHighValuePrize: true,
			DailySummaryReport:    true,
			LowStockAlerts:        false,
		},
		UserNotifications: game.UserNotifications{
			PrizeWinConfirmation:    true,
			ReminderToPlay:          true,
			MarketingCommunications: false,
		},
	}
}

// DefaultStats is the seed counters row.
func DefaultStats() game.GameStats {
	return game.GameStats{ID: 1, TotalPlayers: 0, PrizesWon: 0, GamesPlayed: 0, WeeklyGrowth: 0}
}
