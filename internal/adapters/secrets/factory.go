package secrets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/domain/ports"
)

// Backend selects which secret store implementation to use.
type Backend string

const (
	BackendLocal Backend = "local"
	BackendAWS   Backend = "aws"
	BackendVault Backend = "vault"
)

// FactoryConfig bundles the settings for every backend; only the fields of
// the selected backend are consulted.
type FactoryConfig struct {
	Backend Backend

	// Local backend
	LocalBasePath string

	// AWS backend
	AWSRegion   string
	AWSProfile  string
	AWSEndpoint string

	// Vault backend
	VaultAddress   string
	VaultToken     string
	VaultMountPath string
}

// New builds the secret manager named by the config.
func New(ctx context.Context, cfg FactoryConfig, logger *zap.Logger) (ports.SecretManager, error) {
	switch cfg.Backend {
	case BackendLocal, "":
		return NewLocalSecretManager(cfg.LocalBasePath, logger), nil

	case BackendAWS:
		awsCfg := DefaultAWSSecretsManagerConfig(cfg.AWSRegion)
		awsCfg.Profile = cfg.AWSProfile
		awsCfg.Endpoint = cfg.AWSEndpoint
		return NewAWSSecretsManagerAdapter(ctx, awsCfg, logger)

	case BackendVault:
		vaultCfg := DefaultVaultConfig(cfg.VaultAddress)
		vaultCfg.Token = cfg.VaultToken
		if cfg.VaultMountPath != "" {
			vaultCfg.MountPath = cfg.VaultMountPath
		}
		return NewVaultAdapter(ctx, vaultCfg, logger)

	default:
		return nil, fmt.Errorf("unknown secrets backend: %q", cfg.Backend)
	}
}
