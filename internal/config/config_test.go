package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PASSWORD_HASHING", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("UPLOAD_DIR", "")

	cfg := Load()
	assert.Equal(t, HashingBcrypt, cfg.PasswordHashing)
	assert.Equal(t, "admin@azharstore.com", cfg.AdminDefaultEmail)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.EqualValues(t, 5<<20, cfg.MaxUploadBytes)
	assert.Equal(t, "development", cfg.Env)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		hashing string
		secret  string
		wantErr bool
	}{
		{name: "dev plain ok", env: "development", hashing: HashingDisabled},
		{name: "prod bcrypt ok", env: "production", hashing: HashingBcrypt, secret: "s"},
		{name: "prod plain refused", env: "production", hashing: HashingDisabled, secret: "s", wantErr: true},
		{name: "prod without secret", env: "production", hashing: HashingBcrypt, wantErr: true},
		{name: "unknown mode", env: "development", hashing: "argon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", tt.env)
			t.Setenv("PASSWORD_HASHING", tt.hashing)
			t.Setenv("JWT_SECRET", tt.secret)

			err := Load().Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnsureJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	t.Setenv("APP_ENV", "development")
	cfg := Load()
	assert.True(t, cfg.EnsureJWTSecret(func() string { return "generated" }))
	assert.Equal(t, []byte("generated"), cfg.JWTAccessSecret)

	t.Setenv("APP_ENV", "production")
	cfg = Load()
	assert.False(t, cfg.EnsureJWTSecret(func() string { return "generated" }))
	assert.Empty(t, cfg.JWTAccessSecret)
}
