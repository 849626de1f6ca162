package plan

import (
	"github.com/shopspring/decimal"

	"github.com/flowrise/billing-service/internal/config"
)

// Names of the offered plans. The monthly amounts are fixed; the Stripe
// price each plan bills against comes from configuration.
const (
	Starter    = "Starter"
	Growth     = "Growth"
	Scaling    = "Scaling"
	Enterprise = "Enterprise"
)

var monthlyAmounts = map[string]decimal.Decimal{
	Starter:    decimal.NewFromInt(299),
	Growth:     decimal.NewFromInt(449),
	Scaling:    decimal.NewFromInt(649),
	Enterprise: decimal.NewFromInt(899),
}

// Catalog is the single source of truth for plan pricing.
type Catalog struct {
	priceIDs map[string]string
}

// NewCatalog builds the catalog. Plans without a configured Stripe price ID
// accept whatever price reference the caller supplies.
func NewCatalog(plans []config.PlanConfig) *Catalog {
	priceIDs := make(map[string]string, len(plans))
	for _, p := range plans {
		if p.Name != "" && p.StripePriceID != "" {
			priceIDs[p.Name] = p.StripePriceID
		}
	}
	return &Catalog{priceIDs: priceIDs}
}

// Amount returns the monthly amount for the plan. Unknown plan names
// resolve to zero; the HTTP layer rejects them before they reach billing.
func (c *Catalog) Amount(name string) decimal.Decimal {
	if amount, ok := monthlyAmounts[name]; ok {
		return amount
	}
	return decimal.Zero
}

// Known reports whether the plan name is one of the offered plans.
func (c *Catalog) Known(name string) bool {
	_, ok := monthlyAmounts[name]
	return ok
}

// ValidPriceID reports whether the supplied Stripe price ID may be used for
// the plan. True when no price is configured for the plan.
func (c *Catalog) ValidPriceID(name, priceID string) bool {
	configured, ok := c.priceIDs[name]
	if !ok {
		return true
	}
	return configured == priceID
}
