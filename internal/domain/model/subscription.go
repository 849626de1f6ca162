package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription mirrors a Stripe subscription for one user. Status is stored
// verbatim as reported by Stripe (incomplete, active, past_due, canceled,
// ...); Amount comes from the plan catalog, never from the Stripe response.
// Rows are append-only in the subscribe flow; the webhook sync updates
// status and period in place. A user's current subscription is the most
// recently created row.
type Subscription struct {
	ID                   int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID               int64           `gorm:"not null;index" json:"user_id"`
	StripeSubscriptionID string          `gorm:"not null;unique;size:100" json:"stripe_subscription_id"`
	StripePriceID        string          `gorm:"not null;size:100" json:"stripe_price_id"`
	PlanName             string          `gorm:"not null;size:50" json:"plan_name"`
	Amount               decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status               string          `gorm:"not null;size:50" json:"status"`
	CurrentPeriodStart   *time.Time      `json:"current_period_start,omitempty"`
	CurrentPeriodEnd     *time.Time      `json:"current_period_end,omitempty"`
	CreatedAt            time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"default:now()" json:"updated_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}
