package config

type ServiceConfig struct {
	Name                string       `yaml:"name"`
	Environment         string       `yaml:"environment"`
	Version             string       `yaml:"version"`
	ClientURL           string       `yaml:"client_url"`
	StripeSecretKey     string       `yaml:"stripe_secret_key"`
	StripeWebhookSecret string       `yaml:"stripe_webhook_secret"`
	Plans               []PlanConfig `yaml:"plans"`
}

// PlanConfig binds a plan name to the Stripe price it bills against.
// When a price ID is configured, subscribe requests carrying a different
// price for that plan are rejected.
type PlanConfig struct {
	Name          string `yaml:"name"`
	StripePriceID string `yaml:"stripe_price_id"`
}
