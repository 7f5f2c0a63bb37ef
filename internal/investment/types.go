package investment

import "github.com/osse101/CommunityEconomy_Go/internal/domain"

// Outcome is the result of a single-property action.
// Amount is the coins debited or credited; Balance is the account after.
type Outcome struct {
	Action          string             `json:"action"`
	Property        string             `json:"property"`
	Amount          int                `json:"amount"`
	Balance         float64            `json:"balance"`
	MaintenanceGain float64            `json:"maintenance_gain,omitempty"`
	Investment      *domain.Investment `json:"investment,omitempty"`
}

// CollectAllResult is the aggregate of a collect-all
type CollectAllResult struct {
	Total      int      `json:"total"`
	Properties []string `json:"properties"`
	HourlyRate int      `json:"hourly_rate"`
	Balance    float64  `json:"balance"`
}

// MaintainAllResult is the aggregate of a maintain-all
type MaintainAllResult struct {
	Maintained []string `json:"maintained"`
	TotalCost  int      `json:"total_cost"`
	Balance    float64  `json:"balance"`
}

// TickSummary reports one sweep over every investment
type TickSummary struct {
	PropertiesProcessed int     `json:"properties_processed"`
	UsersWithIncome     int     `json:"users_with_income"`
	IncomeAdded         float64 `json:"income_added"`
	RiskEvents          int     `json:"risk_events"`
	Failures            int     `json:"failures"`
	// Skipped is set when another replica held the tick lock
	Skipped bool `json:"skipped"`
}

// PortfolioItem is the dashboard projection of one owned property
type PortfolioItem struct {
	Name              string  `json:"name"`
	Emoji             string  `json:"emoji"`
	Maintenance       float64 `json:"maintenance"`
	AccumulatedIncome float64 `json:"accumulated_income"`
	PurchaseTime      int64   `json:"purchase_time"`
	RiskEvent         bool    `json:"risk_event"`
	RiskEventType     string  `json:"risk_event_type,omitempty"`
	RepairCost        int     `json:"repair_cost"`
	MaintenanceCost   int     `json:"maintenance_cost"`
	HourlyIncome      int     `json:"hourly_income"`
	MaxAccumulation   int     `json:"max_accumulation"`
	SellPrice         int     `json:"sell_price"`
	Status            string  `json:"status"`
	CollectCooldown   int64   `json:"collect_cooldown"`
	CollectStatus     string  `json:"collect_status"`
}

// Portfolio is every property a user owns plus totals
type Portfolio struct {
	UserID           string          `json:"user_id"`
	Items            []PortfolioItem `json:"items"`
	HourlyRate       int             `json:"hourly_rate"`
	TotalAccumulated float64         `json:"total_accumulated"`
}

// Attention lists one user's properties that need action
type Attention struct {
	UserID         string   `json:"user_id"`
	LowMaintenance []string `json:"low_maintenance"`
	RiskEvents     []string `json:"risk_events"`
}

// ResetSummary reports an admin income reset
type ResetSummary struct {
	Users      int `json:"users"`
	Properties int `json:"properties"`
}
