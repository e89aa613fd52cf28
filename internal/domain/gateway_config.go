package domain

// DefaultModel is the completion model used until an identity configures
// another one.
const DefaultModel = "claude-3-opus-20240229"

// GatewayConfig is the per-identity completion gateway configuration.
type GatewayConfig struct {
	APIKey string `json:"apiKey"`
	Model  string `json:"model"`
}

// DefaultGatewayConfig returns the configuration an identity starts with.
func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{Model: DefaultModel}
}

// Configured reports whether a credential is present. A gateway call without
// one must fail before any network attempt.
func (c GatewayConfig) Configured() bool {
	return c.APIKey != ""
}
