package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bhouston/chat-app/internal/domain"
	"github.com/bhouston/chat-app/internal/ports"
)

// ConfigKeyPrefix scopes the persisted gateway configuration per identity.
const ConfigKeyPrefix = "chat_app_api_config"

// SettingsService loads and updates the per-identity completion gateway
// configuration (API key and model). A changed API key is validated through
// the gateway before it is persisted.
type SettingsService struct {
	blobs   ports.BlobStore
	gateway ports.CompletionGateway
	logger  *slog.Logger
}

func NewSettingsService(blobs ports.BlobStore, gateway ports.CompletionGateway, logger *slog.Logger) *SettingsService {
	if logger == nil {
		logger = slog.Default()
	}

	return &SettingsService{
		blobs:   blobs,
		gateway: gateway,
		logger:  logger,
	}
}

// Load returns the stored configuration for the identity. A missing or
// unreadable blob degrades to the default configuration.
func (s *SettingsService) Load(ctx context.Context, identity domain.Identity) domain.GatewayConfig {
	key := configKey(identity.ID)

	raw, err := s.blobs.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrBlobNotFound) {
			s.logger.Warn("load gateway config failed, using defaults", "key", key, "error", err)
		}
		return domain.DefaultGatewayConfig()
	}

	var cfg domain.GatewayConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		s.logger.Warn("decode gateway config failed, using defaults", "key", key, "error", err)
		return domain.DefaultGatewayConfig()
	}
	if cfg.Model == "" {
		cfg.Model = domain.DefaultModel
	}

	return cfg
}

// SetAPIKey validates the key through the gateway and persists it for the
// identity. An invalid key is reported and nothing is stored.
func (s *SettingsService) SetAPIKey(ctx context.Context, identity domain.Identity, apiKey string) error {
	if err := s.gateway.ValidateKey(ctx, apiKey); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidAPIKey, err)
	}

	cfg := s.Load(ctx, identity)
	cfg.APIKey = apiKey
	return s.save(ctx, identity, cfg)
}

// SetModel persists the selected model for the identity.
func (s *SettingsService) SetModel(ctx context.Context, identity domain.Identity, model string) error {
	cfg := s.Load(ctx, identity)
	cfg.Model = model
	return s.save(ctx, identity, cfg)
}

func (s *SettingsService) save(ctx context.Context, identity domain.Identity, cfg domain.GatewayConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode gateway config: %w", err)
	}

	if err := s.blobs.Put(ctx, configKey(identity.ID), string(data)); err != nil {
		return fmt.Errorf("store gateway config: %w", err)
	}

	return nil
}

func configKey(id domain.IdentityID) string {
	return ConfigKeyPrefix + ":" + string(id)
}
