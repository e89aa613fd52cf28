package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhouston/chat-app/internal/domain"
)

type stubGateway struct {
	validateErr error
	validated   []string
}

func (g *stubGateway) Complete(_ context.Context, _ []domain.Message) (string, error) {
	return "", errors.New("not used")
}

func (g *stubGateway) ValidateKey(_ context.Context, apiKey string) error {
	g.validated = append(g.validated, apiKey)
	return g.validateErr
}

func TestSettingsLoadDefaultsWhenNothingStored(t *testing.T) {
	t.Parallel()

	settings := NewSettingsService(newMemoryBlobStore(), &stubGateway{}, nil)

	cfg := settings.Load(context.Background(), *identityA())

	assert.Equal(t, domain.DefaultModel, cfg.Model)
	assert.False(t, cfg.Configured())
}

func TestSettingsSetAPIKeyValidatesBeforeStoring(t *testing.T) {
	t.Parallel()

	blobs := newMemoryBlobStore()
	gateway := &stubGateway{}
	settings := NewSettingsService(blobs, gateway, nil)

	require.NoError(t, settings.SetAPIKey(context.Background(), *identityA(), "sk-ant-valid"))
	assert.Equal(t, []string{"sk-ant-valid"}, gateway.validated)

	cfg := settings.Load(context.Background(), *identityA())
	assert.Equal(t, "sk-ant-valid", cfg.APIKey)
	assert.True(t, cfg.Configured())
}

func TestSettingsSetAPIKeyRejectedKeyIsNotStored(t *testing.T) {
	t.Parallel()

	blobs := newMemoryBlobStore()
	gateway := &stubGateway{validateErr: errors.New("authentication_error")}
	settings := NewSettingsService(blobs, gateway, nil)

	err := settings.SetAPIKey(context.Background(), *identityA(), "sk-ant-bogus")
	require.ErrorIs(t, err, domain.ErrInvalidAPIKey)

	cfg := settings.Load(context.Background(), *identityA())
	assert.False(t, cfg.Configured())
	assert.Zero(t, blobs.puts)
}

func TestSettingsSetModelKeepsExistingKey(t *testing.T) {
	t.Parallel()

	settings := NewSettingsService(newMemoryBlobStore(), &stubGateway{}, nil)

	require.NoError(t, settings.SetAPIKey(context.Background(), *identityA(), "sk-ant-valid"))
	require.NoError(t, settings.SetModel(context.Background(), *identityA(), "claude-3-haiku-20240307"))

	cfg := settings.Load(context.Background(), *identityA())
	assert.Equal(t, "claude-3-haiku-20240307", cfg.Model)
	assert.Equal(t, "sk-ant-valid", cfg.APIKey)
}

func TestSettingsConfigIsScopedPerIdentity(t *testing.T) {
	t.Parallel()

	settings := NewSettingsService(newMemoryBlobStore(), &stubGateway{}, nil)

	require.NoError(t, settings.SetAPIKey(context.Background(), *identityA(), "sk-ant-for-a"))

	cfgB := settings.Load(context.Background(), *identityB())
	assert.False(t, cfgB.Configured())
}

func TestSettingsUnparseableBlobDegradesToDefaults(t *testing.T) {
	t.Parallel()

	blobs := newMemoryBlobStore()
	blobs.blobs["chat_app_api_config:user-a"] = "{broken"
	settings := NewSettingsService(blobs, &stubGateway{}, nil)

	cfg := settings.Load(context.Background(), *identityA())
	assert.Equal(t, domain.DefaultGatewayConfig(), cfg)
}
