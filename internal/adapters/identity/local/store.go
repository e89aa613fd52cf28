// Package local provides a file-backed identity store. The signed-in
// profile lives in a TOML file under the app directory; sign-in and sign-out
// rewrite it and notify subscribers.
package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/bhouston/chat-app/internal/domain"
	"github.com/bhouston/chat-app/internal/ports"
)

const (
	configName      = "config"
	configType      = "toml"
	profilePathKey  = "identity.path"
	appDirName      = ".chat-app"
	profileFileName = "profile.toml"
	profileFileMode = 0o600
	profileDirMode  = 0o700
	tempFilePattern = ".profile-*.toml.tmp"
)

const currentSchemaVersion = 1

type profileSchema struct {
	Version  int            `toml:"version"`
	Identity identitySchema `toml:"identity"`
}

type identitySchema struct {
	ID          string `toml:"id"`
	Email       string `toml:"email,omitempty"`
	DisplayName string `toml:"display_name,omitempty"`
}

func (s profileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported profile schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type Store struct {
	profilePath string

	mu          sync.Mutex
	subscribers []func(*domain.Identity)
}

var _ ports.IdentityStore = (*Store)(nil)

// NewStore resolves the profile path through viper so a config file or
// caller can relocate it, defaulting to ~/.chat-app/profile.toml.
func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, appDirName, profileFileName)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, appDirName))
	cfg.SetDefault(profilePathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	profilePath := cfg.GetString(profilePathKey)
	if profilePath == "" {
		return nil, errors.New("identity profile path is empty")
	}
	profilePath, err = filepath.Abs(profilePath)
	if err != nil {
		return nil, fmt.Errorf("resolve identity profile path: %w", err)
	}

	return &Store{profilePath: filepath.Clean(profilePath)}, nil
}

// NewStoreAt returns a store reading and writing the given profile path
// directly, bypassing config resolution.
func NewStoreAt(path string) *Store {
	return &Store{profilePath: filepath.Clean(path)}
}

func (s *Store) Current(ctx context.Context) (*domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readProfile()
}

func (s *Store) SignIn(ctx context.Context, identity domain.Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if identity.ID == "" {
		return errors.New("identity id is empty")
	}

	s.mu.Lock()
	if err := s.writeProfile(identity); err != nil {
		s.mu.Unlock()
		return err
	}
	subscribers := append([]func(*domain.Identity){}, s.subscribers...)
	s.mu.Unlock()

	notify(subscribers, &identity)
	return nil
}

func (s *Store) SignOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	err := os.Remove(s.profilePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.mu.Unlock()
		return fmt.Errorf("remove identity profile: %w", err)
	}
	subscribers := append([]func(*domain.Identity){}, s.subscribers...)
	s.mu.Unlock()

	notify(subscribers, nil)
	return nil
}

// Subscribe registers fn to run on every identity transition. Subscribers
// are called synchronously in registration order.
func (s *Store) Subscribe(fn func(*domain.Identity)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func notify(subscribers []func(*domain.Identity), identity *domain.Identity) {
	for _, fn := range subscribers {
		fn(identity)
	}
}

func (s *Store) readProfile() (*domain.Identity, error) {
	data, err := os.ReadFile(s.profilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read identity profile: %w", err)
	}

	var profile profileSchema
	if err := toml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode identity profile: %w", err)
	}
	if err := profile.validateVersion(); err != nil {
		return nil, err
	}
	if profile.Identity.ID == "" {
		return nil, nil
	}

	return &domain.Identity{
		ID:          domain.IdentityID(profile.Identity.ID),
		Email:       profile.Identity.Email,
		DisplayName: profile.Identity.DisplayName,
	}, nil
}

func (s *Store) writeProfile(identity domain.Identity) error {
	profile := profileSchema{
		Version: currentSchemaVersion,
		Identity: identitySchema{
			ID:          string(identity.ID),
			Email:       identity.Email,
			DisplayName: identity.DisplayName,
		},
	}

	data, err := toml.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode identity profile: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.profilePath), profileDirMode); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.profilePath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp profile file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp profile file: %w", err)
	}

	if err := tempFile.Chmod(profileFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp profile file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp profile file: %w", err)
	}

	if err := os.Rename(tempName, s.profilePath); err != nil {
		return fmt.Errorf("replace profile file: %w", err)
	}

	cleanup = false

	return nil
}
