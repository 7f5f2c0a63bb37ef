package domain

import "sort"

// Investment tuning shared by the engine and the dashboard projection
const (
	InitialMaintenance       = 100.0
	MaxMaintenance           = 100.0
	RepairedMaintenance      = 50.0
	IncomeMaintenanceFloor   = 25.0 // accrual stops below this
	RiskMaintenanceThreshold = 30.0 // risk rolls only below this
	MaintainAllThreshold     = 90.0
	MaintenanceBoostMin      = 25.0
	MaintenanceBoostMax      = 40.0
	SellRefundPercent        = 70
	RepairCostMultiplier     = 2
	CollectCooldownSeconds   = 3600
	SecondsPerHour           = 3600.0
	RiskWindowHours          = 24.0
	DefaultRiskEventLabel    = "Maintenance issue"
)

// Investment is one owned property. Timestamps are epoch seconds.
type Investment struct {
	UserID            string  `json:"user_id"`
	PropertyName      string  `json:"property_name"`
	PurchaseTime      int64   `json:"purchase_time"`
	Maintenance       float64 `json:"maintenance"`
	AccumulatedIncome float64 `json:"accumulated_income"`
	LastUpdate        int64   `json:"last_update"`
	LastCollect       int64   `json:"last_collect"`
	RiskEvent         bool    `json:"risk_event"`
	RiskEventType     string  `json:"risk_event_type,omitempty"`
}

// NewInvestment returns a freshly purchased property at full maintenance
func NewInvestment(userID, propertyName string, now int64) *Investment {
	return &Investment{
		UserID:       userID,
		PropertyName: propertyName,
		PurchaseTime: now,
		Maintenance:  InitialMaintenance,
		LastUpdate:   now,
		LastCollect:  now,
	}
}

// Clone returns a copy safe to mutate
func (i *Investment) Clone() *Investment {
	c := *i
	return &c
}

// IsAccruing reports whether the property currently generates income
func (i *Investment) IsAccruing() bool {
	return !i.RiskEvent && i.Maintenance >= IncomeMaintenanceFloor
}

// CollectCooldownRemaining returns the seconds left before the next collect is allowed
func (i *Investment) CollectCooldownRemaining(now int64) int64 {
	if i.LastCollect == 0 {
		return 0
	}
	elapsed := now - i.LastCollect
	if elapsed >= CollectCooldownSeconds {
		return 0
	}
	return CollectCooldownSeconds - elapsed
}

// PropertyCatalogEntry is the static definition of a purchasable property
type PropertyCatalogEntry struct {
	Name             string   `json:"name" validate:"required,max=64"`
	Price            int      `json:"price" validate:"gt=0"`
	HourlyIncome     int      `json:"hourly_income" validate:"gt=0"`
	MaxAccumulation  int      `json:"max_accumulation" validate:"gtefield=HourlyIncome"`
	MaintenanceCost  int      `json:"maintenance_cost" validate:"gt=0"`
	MaintenanceDecay float64  `json:"maintenance_decay" validate:"gte=0,lte=100"`
	RiskFactor       float64  `json:"risk_factor" validate:"gte=0,lte=1"`
	Description      string   `json:"description"`
	Emoji            string   `json:"emoji"`
	Color            int      `json:"color"`
	RiskEvents       []string `json:"risk_events"`
}

// RepairCost is the price of clearing a risk event
func (p PropertyCatalogEntry) RepairCost() int {
	return p.MaintenanceCost * RepairCostMultiplier
}

// SellPrice is the refund for selling the property, floored to whole coins
func (p PropertyCatalogEntry) SellPrice() int {
	return p.Price * SellRefundPercent / 100
}

// PropertyCatalog is a read-only lookup of catalog entries by name
type PropertyCatalog map[string]PropertyCatalogEntry

// Lookup returns the entry for name
func (c PropertyCatalog) Lookup(name string) (PropertyCatalogEntry, bool) {
	entry, ok := c[name]
	return entry, ok
}

// Entries returns the catalog ordered by price
func (c PropertyCatalog) Entries() []PropertyCatalogEntry {
	entries := make([]PropertyCatalogEntry, 0, len(c))
	for _, e := range c {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Price == entries[j].Price {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Price < entries[j].Price
	})
	return entries
}

// DefaultPropertyCatalog returns the built-in business properties
func DefaultPropertyCatalog() PropertyCatalog {
	entries := []PropertyCatalogEntry{
		{
			Name: "Grocery Store", Price: 1000, HourlyIncome: 10, MaxAccumulation: 120,
			MaintenanceCost: 50, MaintenanceDecay: 5.0, RiskFactor: 0.2,
			Description: "A local grocery store serving the community with fresh produce and essentials.",
			Emoji:       "🛒", Color: 0x2ECC71,
			RiskEvents: []string{"Refrigeration failure", "Inventory spoilage", "Supply chain issues", "Pest infestation"},
		},
		{
			Name: "Shop", Price: 1500, HourlyIncome: 20, MaxAccumulation: 240,
			MaintenanceCost: 100, MaintenanceDecay: 8.0, RiskFactor: 0.3,
			Description: "A trendy retail shop in a popular shopping district.",
			Emoji:       "🏪", Color: 0x3498DB,
			RiskEvents: []string{"Shoplifting incident", "Display damage", "Heating/cooling failure", "Water leak"},
		},
		{
			Name: "Restaurant", Price: 2300, HourlyIncome: 35, MaxAccumulation: 240,
			MaintenanceCost: 150, MaintenanceDecay: 10.0, RiskFactor: 0.4,
			Description: "A popular restaurant known for its excellent cuisine and atmosphere.",
			Emoji:       "🍽️", Color: 0xE74C3C,
			RiskEvents: []string{"Kitchen fire", "Food safety violation", "Staff walkout", "Bad review crisis"},
		},
		{
			Name: "Company", Price: 3800, HourlyIncome: 60, MaxAccumulation: 600,
			MaintenanceCost: 150, MaintenanceDecay: 15.0, RiskFactor: 0.4,
			Description: "A successful company with steady growth and reliable returns.",
			Emoji:       "🏢", Color: 0x9B59B6,
			RiskEvents: []string{"Legal dispute", "Key employee departure", "IT system failure", "Product recall"},
		},
		{
			Name: "Real Estate", Price: 5000, HourlyIncome: 50, MaxAccumulation: 300,
			MaintenanceCost: 80, MaintenanceDecay: 2.5, RiskFactor: 0.2,
			Description: "A portfolio of residential and commercial properties generating steady rental income.",
			Emoji:       "🏘️", Color: 0xF1C40F,
			RiskEvents: []string{"Property damage", "Tenant issues", "Tax reassessment", "Market downturn"},
		},
		{
			Name: "Target", Price: 4500, HourlyIncome: 45, MaxAccumulation: 400,
			MaintenanceCost: 120, MaintenanceDecay: 7.5, RiskFactor: 0.3,
			Description: "A large retail chain with steady foot traffic and strong brand recognition.",
			Emoji:       "🎯", Color: 0xE74C3C,
			RiskEvents: []string{"Inventory shortages", "Security breach", "Compliance violation", "Customer complaint surge"},
		},
	}

	catalog := make(PropertyCatalog, len(entries))
	for _, e := range entries {
		catalog[e.Name] = e
	}
	return catalog
}
