package game

// Prize type labels accepted by the catalog.
const (
	TypePhysical = "Physical"
	TypeDigital  = "Digital"
	TypeDiscount = "Discount"
)

// ValidType reports whether t is one of the accepted prize types.
func ValidType(t string) bool {
	return t == TypePhysical || t == TypeDigital || t == TypeDiscount
}

// Prize is one awardable catalog entry. Stock nil means unlimited; a finite
// stock counts down to 0 and never goes below.
type Prize struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"` // Physical, Digital, Discount
	Value       string `json:"value"`
	Icon        string `json:"icon"`
	Stock       *int   `json:"stock"` // nil = unlimited
	IsActive    bool   `json:"isActive"`
	Probability int    `json:"probability"` // weight, 0-100 by convention
}

// Eligible reports whether the prize can be awarded right now:
// active and either unlimited or with remaining stock.
func (p *Prize) Eligible() bool {
	return p.IsActive && (p.Stock == nil || *p.Stock > 0)
}

// AdminNotifications are the admin-facing notification toggles (stored as JSON).
type AdminNotifications struct {
	EmailOnHighValuePrize bool `json:"emailOnHighValuePrize"`
	DailySummaryReport    bool `json:"dailySummaryReport"`
	LowStockAlerts        bool `json:"lowStockAlerts"`
}

// UserNotifications are the player-facing notification toggles (stored as JSON).
type UserNotifications struct {
	PrizeWinConfirmation    bool `json:"prizeWinConfirmation"`
	ReminderToPlay          bool `json:"reminderToPlay"`
	MarketingCommunications bool `json:"marketingCommunications"`
}

// GameSettings is the singleton configuration row. The draw engine only reads
// GlobalWinRate; the rest drives the admin dashboard and the public game page.
type GameSettings struct {
	ID                      int                `json:"id"`
	Title                   string             `json:"title"`
	InstructionText         string             `json:"instructionText"`
	CardBackground          string             `json:"cardBackground"`
	PrimaryColor            string             `json:"primaryColor"`
	SecondaryColor          string             `json:"secondaryColor"`
	EnableGame              bool               `json:"enableGame"`
	ShowPrizeGallery        bool               `json:"showPrizeGallery"`
	EnableWinAnimations     bool               `json:"enableWinAnimations"`
	RequireUserRegistration bool               `json:"requireUserRegistration"`
	EnableSocialSharing     bool               `json:"enableSocialSharing"`
	PlaysPerUser            string             `json:"playsPerUser"`
	CountdownTimer          int                `json:"countdownTimer"`
	TimerType               string             `json:"timerType"`
	GameDuration            string             `json:"gameDuration"`
	GlobalWinRate           int                `json:"globalWinRate"` // 0-100
	AdminNotifications      AdminNotifications `json:"adminNotifications"`
	UserNotifications       UserNotifications  `json:"userNotifications"`
}

// GameStats are aggregate counters. GamesPlayed and PrizesWon are mutated by
// the draw engine; the rest are display-only dashboard metrics.
type GameStats struct {
	ID           int `json:"id"`
	TotalPlayers int `json:"totalPlayers"`
	PrizesWon    int `json:"prizesWon"`
	GamesPlayed  int `json:"gamesPlayed"`
	WeeklyGrowth int `json:"weeklyGrowth"` // percentage
}

// Outcome is the result of one resolved play.
type Outcome struct {
	Won   bool   `json:"won"`
	Prize *Prize `json:"prize,omitempty"`
}
