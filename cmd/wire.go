package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	filestore "github.com/bhouston/chat-app/internal/adapters/blob/file"
	"github.com/bhouston/chat-app/internal/adapters/gateway/anthropic"
	"github.com/bhouston/chat-app/internal/adapters/identity/local"
	"github.com/bhouston/chat-app/internal/application"
	"github.com/bhouston/chat-app/internal/domain"
	"github.com/bhouston/chat-app/internal/ports"
)

type app struct {
	identities    ports.IdentityStore
	blobs         ports.BlobStore
	conversations *application.ConversationStore
	settings      *application.SettingsService
	newGateway    func(domain.GatewayConfig) ports.CompletionGateway
	clock         ports.Clock
	logger        *slog.Logger
}

func wireApp() (*app, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	identities, err := wireIdentityStore()
	if err != nil {
		return nil, fmt.Errorf("wire identity store: %w", err)
	}

	dataDir, err := appDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}

	blobs := filestore.NewStore(filepath.Join(dataDir, "data"))
	clock := ports.SystemClock{}
	conversations := application.NewConversationStore(blobs, clock, logger)

	gatewayURL := envOrDefault("CHAT_APP_GATEWAY_URL", anthropic.DefaultBaseURL)
	validator := anthropic.NewClient("", "").WithBaseURL(gatewayURL)
	settings := application.NewSettingsService(blobs, validator, logger)

	newGateway := func(cfg domain.GatewayConfig) ports.CompletionGateway {
		return anthropic.NewClient(cfg.APIKey, cfg.Model).WithBaseURL(gatewayURL)
	}

	// Every identity transition rescopes the working set exactly once.
	identities.Subscribe(func(identity *domain.Identity) {
		conversations.LoadForIdentity(context.Background(), identity)
	})

	return &app{
		identities:    identities,
		blobs:         blobs,
		conversations: conversations,
		settings:      settings,
		newGateway:    newGateway,
		clock:         clock,
		logger:        logger,
	}, nil
}

func wireIdentityStore() (ports.IdentityStore, error) {
	if home := os.Getenv("CHAT_APP_HOME"); home != "" {
		return local.NewStoreAt(filepath.Join(home, "profile.toml")), nil
	}
	return local.NewStore(viper.New())
}

func appDataDir() (string, error) {
	if home := os.Getenv("CHAT_APP_HOME"); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(homeDir, ".chat-app"), nil
}

// requireIdentity returns the signed-in identity or a sign-in hint.
func (a *app) requireIdentity(ctx context.Context) (domain.Identity, error) {
	identity, err := a.identities.Current(ctx)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("load identity: %w", err)
	}
	if identity == nil {
		return domain.Identity{}, fmt.Errorf("%w: run `chat login` first", domain.ErrNotSignedIn)
	}

	return *identity, nil
}

// loadConversations scopes the conversation store to the signed-in identity.
func (a *app) loadConversations(ctx context.Context) (domain.Identity, error) {
	identity, err := a.requireIdentity(ctx)
	if err != nil {
		return domain.Identity{}, err
	}

	a.conversations.LoadForIdentity(ctx, &identity)
	return identity, nil
}

var errNoAPIKey = errors.New("no API key configured: run `chat config set-key`")

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
