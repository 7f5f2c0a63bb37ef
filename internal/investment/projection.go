package investment

import (
	"fmt"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
)

// NextIncomeText describes when the property will be full
func NextIncomeText(inv *domain.Investment, entry domain.PropertyCatalogEntry) string {
	max := float64(entry.MaxAccumulation)
	if inv.AccumulatedIncome >= max {
		return TextAtCapacity
	}
	if !inv.IsAccruing() || entry.HourlyIncome <= 0 {
		return TextNeedsAttention
	}

	hoursUntilFull := (max - inv.AccumulatedIncome) / float64(entry.HourlyIncome)
	if hoursUntilFull <= 1 {
		return fmt.Sprintf(TextFullInMinutes, int(hoursUntilFull*60))
	}
	return fmt.Sprintf(TextFullInHours, int(hoursUntilFull))
}

// CollectStatusText describes the collect cooldown
func CollectStatusText(remaining int64) string {
	if remaining <= 0 {
		return TextReadyToCollect
	}
	return fmt.Sprintf(TextCooldown, remaining/60, remaining%60)
}

// HourlyRate sums the income of properties that are currently accruing
func HourlyRate(invs []*domain.Investment, catalog domain.PropertyCatalog) int {
	total := 0
	for _, inv := range invs {
		entry, ok := catalog.Lookup(inv.PropertyName)
		if ok && inv.IsAccruing() {
			total += entry.HourlyIncome
		}
	}
	return total
}

func projectItem(inv *domain.Investment, entry domain.PropertyCatalogEntry, now int64) PortfolioItem {
	cooldown := inv.CollectCooldownRemaining(now)
	return PortfolioItem{
		Name:              inv.PropertyName,
		Emoji:             entry.Emoji,
		Maintenance:       inv.Maintenance,
		AccumulatedIncome: inv.AccumulatedIncome,
		PurchaseTime:      inv.PurchaseTime,
		RiskEvent:         inv.RiskEvent,
		RiskEventType:     inv.RiskEventType,
		RepairCost:        entry.RepairCost(),
		MaintenanceCost:   entry.MaintenanceCost,
		HourlyIncome:      entry.HourlyIncome,
		MaxAccumulation:   entry.MaxAccumulation,
		SellPrice:         entry.SellPrice(),
		Status:            NextIncomeText(inv, entry),
		CollectCooldown:   cooldown,
		CollectStatus:     CollectStatusText(cooldown),
	}
}
