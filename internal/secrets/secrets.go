// Package secrets resolves configuration values stored in Google Secret
// Manager. A value written as sm://projects/<p>/secrets/<name> (optionally
// followed by /versions/<v>) is replaced by the secret's payload.
package secrets

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/rs/zerolog"

	"boardinghouse/internal/config"
)

// Prefix marks a value that names a secret.
const Prefix = "sm://"

// Accessor reads the payload of a secret version.
type Accessor interface {
	Access(ctx context.Context, name string) ([]byte, error)
}

// SecretManager reads secrets from Google Secret Manager.
type SecretManager struct {
	client *secretmanager.Client
}

func NewSecretManager(ctx context.Context) (*SecretManager, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	return &SecretManager{client: client}, nil
}

func (m *SecretManager) Access(ctx context.Context, name string) ([]byte, error) {
	resp, err := m.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return nil, fmt.Errorf("failed to access secret version: %w", err)
	}
	return resp.GetPayload().GetData(), nil
}

func (m *SecretManager) Close() error {
	return m.client.Close()
}

// versionName turns a reference into a full secret version resource name.
func versionName(ref string) (string, error) {
	name := strings.TrimPrefix(ref, Prefix)
	parts := strings.Split(name, "/")
	switch {
	case len(parts) == 4 && parts[0] == "projects" && parts[2] == "secrets":
		return name + "/versions/latest", nil
	case len(parts) == 6 && parts[0] == "projects" && parts[2] == "secrets" && parts[4] == "versions":
		return name, nil
	}
	return "", fmt.Errorf("invalid secret reference %q", ref)
}

// sensitiveFields are the config values that may be stored as secrets.
func sensitiveFields(cfg *config.Config) map[string]*string {
	return map[string]*string{
		"DB_CONNECTION_STRING": &cfg.DBConnectionString,
		"JWT_SECRET":           &cfg.JWTSecret,
		"S3_ACCESS_KEY":        &cfg.S3AccessKey,
		"S3_SECRET_KEY":        &cfg.S3SecretKey,
	}
}

// Referenced reports whether any config value names a secret.
func Referenced(cfg *config.Config) bool {
	for _, v := range sensitiveFields(cfg) {
		if strings.HasPrefix(*v, Prefix) {
			return true
		}
	}
	return false
}

// Resolve replaces every secret reference in cfg with its payload.
func Resolve(ctx context.Context, cfg *config.Config, a Accessor) error {
	for env, v := range sensitiveFields(cfg) {
		if !strings.HasPrefix(*v, Prefix) {
			continue
		}
		name, err := versionName(*v)
		if err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
		data, err := a.Access(ctx, name)
		if err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
		*v = strings.TrimSpace(string(data))
	}
	return nil
}

// Load resolves secret references in cfg through Secret Manager. No client
// is created when nothing is referenced.
func Load(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	if !Referenced(cfg) {
		return nil
	}
	sm, err := NewSecretManager(ctx)
	if err != nil {
		return err
	}
	defer sm.Close()
	if err := Resolve(ctx, cfg, sm); err != nil {
		return err
	}
	logger.Info().Msg("Configuration secrets resolved from Secret Manager")
	return nil
}
