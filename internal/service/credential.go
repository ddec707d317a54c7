package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/repo"
	"github.com/Skotchmaster/shop_admin/pkg/hash"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/metrics"
)

const (
	DefaultAdminEmail    = "admin@azharstore.com"
	DefaultAdminPassword = "azhar2311"
)

type Tier string

const (
	TierPrimary  Tier = "primary"
	TierFallback Tier = "fallback"
)

// CredentialService owns the single administrator record. Writes go to the
// primary store until it faults once; from then on the record lives in
// process memory until restart.
type CredentialService struct {
	primary  repo.AdminStore
	fallback *repo.MemoryAdminStore
	hasher   hash.Hasher
	metrics  *metrics.Registry

	defaultEmail    string
	defaultPassword string

	// OnTransition, when set, is called once when the store moves to the
	// fallback tier.
	OnTransition func(from, to Tier, cause error)

	now func() time.Time

	mu   sync.Mutex
	tier Tier
}

type CredentialOptions struct {
	DefaultEmail    string
	DefaultPassword string
	Metrics         *metrics.Registry
	OnTransition    func(from, to Tier, cause error)
}

// NewCredentialService builds the store. A nil primary starts on the
// fallback tier.
func NewCredentialService(primary repo.AdminStore, h hash.Hasher, opts CredentialOptions) *CredentialService {
	if h == nil {
		h = hash.Unavailable{}
	}
	if opts.DefaultEmail == "" {
		opts.DefaultEmail = DefaultAdminEmail
	}
	if opts.DefaultPassword == "" {
		opts.DefaultPassword = DefaultAdminPassword
	}
	s := &CredentialService{
		primary:         primary,
		fallback:        repo.NewMemoryAdminStore(),
		hasher:          h,
		metrics:         opts.Metrics,
		defaultEmail:    opts.DefaultEmail,
		defaultPassword: opts.DefaultPassword,
		OnTransition:    opts.OnTransition,
		now:             func() time.Time { return time.Now().UTC() },
		tier:            TierPrimary,
	}
	if primary == nil {
		s.tier = TierFallback
	}
	return s
}

func (s *CredentialService) Tier() Tier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tier
}

func (s *CredentialService) HasherKind() hash.Kind { return s.hasher.Kind() }

func (s *CredentialService) toFallback(ctx context.Context, op string, cause error) {
	s.mu.Lock()
	if s.tier == TierFallback {
		s.mu.Unlock()
		return
	}
	s.tier = TierFallback
	s.mu.Unlock()

	logging.FromContext(ctx).Warn("credential_store_fallback",
		"op", op, "from", TierPrimary, "to", TierFallback, "error", cause)
	if s.metrics != nil {
		s.metrics.CredentialFallbacks.Inc()
	}
	if s.OnTransition != nil {
		s.OnTransition(TierPrimary, TierFallback, cause)
	}
}

// current returns the stored record or nil. A primary read fault is logged
// and answered from the fallback tier without moving to it.
func (s *CredentialService) current(ctx context.Context) (*models.AdminUser, error) {
	if s.Tier() == TierFallback {
		a, err := s.fallback.GetAdmin(ctx)
		if errors.Is(err, repo.ErrNoAdmin) {
			return nil, nil
		}
		return a, err
	}

	a, err := s.primary.GetAdmin(ctx)
	switch {
	case err == nil:
		return a, nil
	case errors.Is(err, repo.ErrNoAdmin):
		return nil, nil
	}

	logging.FromContext(ctx).Warn("credential_read_failed", "tier", TierPrimary, "error", err)
	fb, fbErr := s.fallback.GetAdmin(ctx)
	if fbErr != nil {
		return nil, err
	}
	return fb, nil
}

// save writes a to the active tier. A primary fault moves the store to the
// fallback tier and keeps a there.
func (s *CredentialService) save(ctx context.Context, op string, a *models.AdminUser, create bool) bool {
	if s.Tier() == TierPrimary {
		var err error
		if create {
			err = s.primary.CreateAdmin(ctx, a)
		} else {
			err = s.primary.UpdateAdmin(ctx, a)
		}
		if err == nil {
			return true
		}
		if errors.Is(err, repo.ErrNoAdmin) {
			logging.FromContext(ctx).Warn("credential_save_failed", "op", op, "reason", "record vanished")
			return false
		}
		s.toFallback(ctx, op, err)
	}

	if err := s.fallback.CreateAdmin(ctx, a); err != nil {
		logging.FromContext(ctx).Error("credential_save_failed", "op", op, "tier", TierFallback, "error", err)
		return false
	}
	return true
}

func (s *CredentialService) digest(ctx context.Context, password string) (string, error) {
	if s.hasher.Kind() == hash.KindUnavailable {
		logging.FromContext(ctx).Warn("password_hashing_unavailable",
			"reason", "storing plain-text digest, never run like this in production")
		return hash.PlainPrefix + password, nil
	}
	return s.hasher.Hash(password)
}

// EnsureInitialized creates the default administrator when none exists.
func (s *CredentialService) EnsureInitialized(ctx context.Context) error {
	l := logging.FromContext(ctx).With("svc", "credential.ensure_initialized")

	existing, err := s.current(ctx)
	if err != nil {
		// unreadable primary: bootstrap straight into memory
		s.toFallback(ctx, "ensure_initialized", err)
	} else if existing != nil {
		return nil
	}

	digest, err := s.digest(ctx, s.defaultPassword)
	if err != nil {
		l.Error("admin_bootstrap_failed", "reason", "cannot hash default password", "error", err)
		return err
	}

	now := s.now()
	admin := &models.AdminUser{
		Email:        s.defaultEmail,
		PasswordHash: digest,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !s.save(ctx, "ensure_initialized", admin, true) {
		return persistence("create admin", errors.New("no tier accepted the record"))
	}

	l.Info("admin_bootstrap_success", "email", admin.Email, "tier", s.Tier(), "hasher", s.hasher.Kind().String())
	return nil
}

// Verify reports whether password matches the stored credential. Faults are
// logged and count as a mismatch.
func (s *CredentialService) Verify(ctx context.Context, password string) bool {
	l := logging.FromContext(ctx).With("svc", "credential.verify")

	admin, err := s.current(ctx)
	if err != nil {
		l.Error("verify_failed", "reason", "cannot read credential", "error", err)
		return false
	}
	if admin == nil {
		l.Warn("verify_failed", "reason", "no credential")
		return false
	}

	if plain, ok := strings.CutPrefix(admin.PasswordHash, hash.PlainPrefix); ok {
		l.Warn("plain_text_verification")
		return subtle.ConstantTimeCompare([]byte(plain), []byte(password)) == 1
	}

	if s.hasher.Kind() == hash.KindUnavailable {
		l.Error("verify_failed", "reason", "no verification method for hashed digest")
		return false
	}
	return s.hasher.Compare(admin.PasswordHash, password)
}

// UpdatePassword re-hashes and stores newPassword. It refuses to run without
// a hashing primitive so a hashed credential is never replaced by plain text.
func (s *CredentialService) UpdatePassword(ctx context.Context, newPassword string) bool {
	l := logging.FromContext(ctx).With("svc", "credential.update_password")

	if s.hasher.Kind() == hash.KindUnavailable {
		l.Error("update_password_failed", "reason", "hashing unavailable", "error", ErrCapabilityUnavailable)
		return false
	}

	admin, err := s.current(ctx)
	if err != nil || admin == nil {
		l.Warn("update_password_failed", "reason", "no credential", "error", err)
		return false
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		l.Error("update_password_failed", "reason", "cannot hash password", "error", err)
		return false
	}

	admin.PasswordHash = digest
	admin.UpdatedAt = s.now()
	if !s.save(ctx, "update_password", admin, false) {
		return false
	}
	l.Info("update_password_success", "tier", s.Tier())
	return true
}

func (s *CredentialService) UpdateEmail(ctx context.Context, newEmail string) bool {
	l := logging.FromContext(ctx).With("svc", "credential.update_email")

	admin, err := s.current(ctx)
	if err != nil || admin == nil {
		l.Warn("update_email_failed", "reason", "no credential", "error", err)
		return false
	}

	admin.Email = newEmail
	admin.UpdatedAt = s.now()
	if !s.save(ctx, "update_email", admin, false) {
		return false
	}
	l.Info("update_email_success", "tier", s.Tier())
	return true
}

// Current returns the stored credential, or ErrNotFound when there is none.
func (s *CredentialService) Current(ctx context.Context) (*models.AdminUser, error) {
	admin, err := s.current(ctx)
	if err != nil {
		return nil, persistence("get admin", err)
	}
	if admin == nil {
		return nil, ErrNotFound
	}
	return admin, nil
}
