package directory

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/vault/api"
	"github.com/joho/godotenv"
)

// SecretsConfig holds the directory's runtime secrets, bootstrapped the
// same two-tier way the teacher's internal/config/config.go bootstraps
// its JWT secret: try Vault first, fall back to a .env-loaded environment
// variable. A directory has far fewer secrets than the full chat backend
// (no SMS provider keys, no media bucket credentials), so this is a
// trimmed VaultClient, not the teacher's full secret catalogue.
type SecretsConfig struct {
	PostgresDSN string
	RedisAddr   string
	JWTSecret   string
}

// vaultSecrets is the trimmed analogue of the teacher's VaultClient
// (internal/config/config.go), scoped to the one KV path a directory
// deployment needs.
type vaultSecrets struct {
	client     *api.Client
	mountPath  string
	secretPath string
}

func newVaultSecrets(addr, token, mountPath, secretPath string) (*vaultSecrets, error) {
	client, err := api.NewClient(&api.Config{Address: addr})
	if err != nil {
		return nil, fmt.Errorf("directory: create vault client: %w", err)
	}
	client.SetToken(token)

	if _, err := client.Sys().Health(); err != nil {
		return nil, fmt.Errorf("directory: connect to vault: %w", err)
	}

	return &vaultSecrets{client: client, mountPath: mountPath, secretPath: secretPath}, nil
}

func (v *vaultSecrets) get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	secret, err := v.client.KVv2(v.mountPath).Get(ctx, v.secretPath)
	if err != nil {
		return "", fmt.Errorf("directory: read vault secret: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("directory: secret not found at %s/%s", v.mountPath, v.secretPath)
	}
	value, ok := secret.Data[key].(string)
	if !ok {
		return "", fmt.Errorf("directory: secret key %q missing or not a string", key)
	}
	return value, nil
}

// LoadSecretsConfig loads .env (if present, same as the teacher's
// cmd/chatserver bootstrap) and then resolves each secret from Vault when
// VAULT_ADDR is set, falling back to the corresponding environment
// variable otherwise.
func LoadSecretsConfig() (SecretsConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return SecretsConfig{}, fmt.Errorf("directory: load .env: %w", err)
	}

	var vault *vaultSecrets
	if addr := os.Getenv("VAULT_ADDR"); addr != "" {
		v, err := newVaultSecrets(addr, os.Getenv("VAULT_TOKEN"), envOrDefault("VAULT_MOUNT", "secret"), envOrDefault("VAULT_PATH", "styx-directory"))
		if err != nil {
			return SecretsConfig{}, err
		}
		vault = v
	}

	resolve := func(vaultKey, envKey, fallback string) (string, error) {
		if vault != nil {
			if v, err := vault.get(vaultKey); err == nil && v != "" {
				return v, nil
			}
		}
		if v := os.Getenv(envKey); v != "" {
			return v, nil
		}
		return fallback, nil
	}

	postgresDSN, err := resolve("postgres_dsn", "POSTGRES_DSN", "postgres://localhost:5432/styx_directory?sslmode=disable")
	if err != nil {
		return SecretsConfig{}, err
	}
	redisAddr, err := resolve("redis_addr", "REDIS_ADDR", "localhost:6379")
	if err != nil {
		return SecretsConfig{}, err
	}
	jwtSecret, err := resolve("jwt_secret", "JWT_SECRET", "")
	if err != nil {
		return SecretsConfig{}, err
	}
	if jwtSecret == "" {
		return SecretsConfig{}, ErrJWTSecretEmpty
	}

	return SecretsConfig{PostgresDSN: postgresDSN, RedisAddr: redisAddr, JWTSecret: jwtSecret}, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
