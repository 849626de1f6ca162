package model

import (
	"time"
)

// User is a billing customer record. StripeCustomerID stays nil until the
// user saves a payment method for the first time and is never cleared
// afterwards.
type User struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string    `gorm:"not null;size:255" json:"name"`
	Email            string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Phone            string    `gorm:"not null;size:20" json:"phone"`
	PasswordHash     string    `gorm:"not null;size:100" json:"-"`
	StripeCustomerID *string   `gorm:"size:100;index" json:"stripe_customer_id,omitempty"`
	CreatedAt        time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"default:now()" json:"updated_at"`
}

// HasPaymentMethod reports whether a Stripe customer with a stored payment
// method exists for this user.
func (u *User) HasPaymentMethod() bool {
	return u.StripeCustomerID != nil && *u.StripeCustomerID != ""
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
