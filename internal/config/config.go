package config

import (
	"fmt"
	"os"

	pkgconfig "github.com/Skotchmaster/shop_admin/pkg/config"
)

const (
	HashingBcrypt   = "bcrypt"
	HashingDisabled = "disabled"
)

type ServiceConfig struct {
	pkgconfig.Config

	PasswordHashing string
	BcryptCost      int

	AdminDefaultEmail    string
	AdminDefaultPassword string

	UploadDir      string
	MaxUploadBytes int64
	BodyLimit      string
}

func Load() ServiceConfig {
	return ServiceConfig{
		Config: pkgconfig.Load(),

		PasswordHashing: pkgconfig.EnvDefault("PASSWORD_HASHING", HashingBcrypt),
		BcryptCost:      pkgconfig.EnvIntDefault("BCRYPT_COST", 10),

		AdminDefaultEmail:    pkgconfig.EnvDefault("ADMIN_DEFAULT_EMAIL", "admin@azharstore.com"),
		AdminDefaultPassword: pkgconfig.EnvDefault("ADMIN_DEFAULT_PASSWORD", "azhar2311"),

		UploadDir:      pkgconfig.EnvDefault("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: pkgconfig.EnvInt64Default("MAX_UPLOAD_BYTES", 5<<20),
		BodyLimit:      pkgconfig.EnvDefault("BODY_LIMIT", "12M"),
	}
}

// Validate rejects configurations the service must not start with.
func (c ServiceConfig) Validate() error {
	if err := pkgconfig.RequireOneOf(c.PasswordHashing, "PASSWORD_HASHING", HashingBcrypt, HashingDisabled); err != nil {
		return err
	}
	if c.IsProduction() {
		if c.PasswordHashing == HashingDisabled {
			return fmt.Errorf("PASSWORD_HASHING=disabled is not allowed with APP_ENV=production")
		}
		if len(c.JWTAccessSecret) == 0 {
			return fmt.Errorf("JWT_SECRET is required with APP_ENV=production")
		}
	}
	return nil
}

// EnsureJWTSecret fills in a per-process secret outside production so the
// admin routes work without configuration. Tokens do not survive a restart.
func (c *ServiceConfig) EnsureJWTSecret(generate func() string) bool {
	if len(c.JWTAccessSecret) > 0 || c.IsProduction() {
		return false
	}
	c.JWTAccessSecret = []byte(generate())
	return true
}

// EnvFile is the dotenv file loaded at startup.
func EnvFile() string {
	if f := os.Getenv("ENV_FILE"); f != "" {
		return f
	}
	return ".env"
}
