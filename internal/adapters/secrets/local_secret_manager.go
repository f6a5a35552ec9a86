// Package secrets provides read-only secret backends. The service only ever
// reads credentials (provider access token, webhook signature key, JWT key);
// writing and rotation happen out of band.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/domain/ports"
)

// localSecretManager reads secrets from environment variables, falling back
// to files under a base path.
// WARNING: This is for development only. Use AWS Secrets Manager or Vault in production.
type localSecretManager struct {
	basePath string
	logger   *zap.Logger
}

// NewLocalSecretManager creates a local env/filesystem secret manager.
func NewLocalSecretManager(basePath string, logger *zap.Logger) ports.SecretManager {
	return &localSecretManager{
		basePath: basePath,
		logger:   logger,
	}
}

// GetSecret resolves a secret name to a value. An environment variable named
// after the secret (upper-cased, separators mapped to underscores) wins;
// otherwise the file <basePath>/<name> is read, supporting both plain text
// and a {"value": ...} JSON wrapper.
func (m *localSecretManager) GetSecret(ctx context.Context, name string) (string, error) {
	envKey := strings.ToUpper(strings.NewReplacer("/", "_", "-", "_", ".", "_").Replace(name))
	if value := os.Getenv(envKey); value != "" {
		return value, nil
	}

	filePath := filepath.Join(m.basePath, name)

	m.logger.Debug("reading secret from filesystem",
		zap.String("name", name),
	)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("secret not found: %s", name)
		}
		return "", fmt.Errorf("read secret: %w", err)
	}

	var wrapper struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Value != "" {
		return wrapper.Value, nil
	}

	return strings.TrimSpace(string(data)), nil
}
