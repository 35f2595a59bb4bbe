package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rbt-academy/trainer/internal/dependencies/clock"
	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/services/registry"
	"github.com/rbt-academy/trainer/internal/storage"
)

// Identity is the signed-in user on this device
type Identity struct {
	Profile model.UserProfile `json:"profile"`
	Avatar  string            `json:"avatar"`
	IsAdmin bool              `json:"isAdmin"`
}

// LoginRequest holds the sign-in form
type LoginRequest struct {
	Name     string
	Store    string
	Avatar   string
	Password string
}

// Config holds configuration for the account service
type Config struct {
	// AdminSecret is the administrative password in plain text
	AdminSecret string
	// AdminSecretHash is a bcrypt hash of the administrative password and
	// takes precedence over AdminSecret when set
	AdminSecretHash string
}

// DefaultConfig returns default account configuration
func DefaultConfig() Config {
	return Config{
		AdminSecret: "4545",
	}
}

// Service manages the device's current user. The administrative identity
// lives in memory only and is never written to storage or the registry.
type Service struct {
	storage  storage.Storage
	registry *registry.Store
	clock    clock.Clock
	logger   *slog.Logger

	secretHash []byte

	// switchMu is held while the signed-in user changes and while their
	// profile is rewritten, so an update never lands on the wrong user
	switchMu sync.Mutex

	mu    sync.RWMutex
	admin *Identity
}

// New creates a new account Service
func New(storage storage.Storage, registry *registry.Store, clock clock.Clock, cfg Config, logger *slog.Logger) (*Service, error) {
	hash := []byte(cfg.AdminSecretHash)
	if len(hash) == 0 {
		if cfg.AdminSecret == "" {
			cfg.AdminSecret = DefaultConfig().AdminSecret
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.AdminSecret), bcrypt.MinCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin secret: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("admin secret hash: %w", err)
	}

	return &Service{
		storage:    storage,
		registry:   registry,
		clock:      clock,
		logger:     logger.With(slog.String("component", "account")),
		secretHash: hash,
	}, nil
}

// Login signs a user in. Names equal to ADMIN in any case take the
// administrative path and must present the admin secret.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Identity, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Password == "" {
		return nil, model.ErrMissingCredentials
	}

	s.switchMu.Lock()
	defer s.switchMu.Unlock()

	if model.IsAdminName(name) {
		return s.loginAdmin(ctx, req.Password)
	}

	profile := model.NewProfile()
	profile.ID = "RBT-" + strings.ToUpper(uuid.NewString()[:8])
	profile.Name = name
	if req.Store != "" {
		profile.Store = req.Store
	}

	if entry, ok := s.registry.Get(ctx, name); ok {
		if entry.Store != "" {
			profile.Store = entry.Store
		}
		profile.XP = max(0, entry.XP)
		if lvl, ok := model.ParseLevel(entry.Level); ok && lvl != model.LevelForXP(profile.XP) {
			s.logger.Warn("registry level disagrees with xp, using xp",
				slog.String("name", name),
				slog.String("label", entry.Level),
				slog.Int("xp", profile.XP))
		}
		profile.Level = model.LevelForXP(profile.XP)
	}

	avatar := req.Avatar
	if avatar == "" {
		avatar = model.DefaultAvatar
	}

	s.mu.Lock()
	s.admin = nil
	s.mu.Unlock()

	if err := storage.WriteJSON(ctx, s.storage, storage.KeyAvatar, avatar); err != nil {
		s.logger.Warn("failed to save avatar", slog.Any("error", err))
	}
	if err := s.persist(ctx, profile, avatar); err != nil {
		return nil, err
	}

	s.logger.Info("user signed in",
		slog.String("name", profile.Name),
		slog.String("store", profile.Store),
		slog.Int("xp", profile.XP))

	return &Identity{Profile: profile, Avatar: avatar}, nil
}

func (s *Service) loginAdmin(ctx context.Context, password string) (*Identity, error) {
	if err := bcrypt.CompareHashAndPassword(s.secretHash, []byte(password)); err != nil {
		s.logger.Warn("admin sign-in rejected")
		return nil, model.ErrInvalidCredentials
	}

	// Drop any stored user so a restart does not resurrect them under admin
	s.clearStored(ctx)

	identity := &Identity{
		Profile: model.NewAdminProfile(),
		Avatar:  model.AdminAvatar,
		IsAdmin: true,
	}
	s.mu.Lock()
	s.admin = identity
	s.mu.Unlock()

	s.logger.Info("admin signed in")
	return cloneIdentity(identity), nil
}

// Logout signs the current user out. Without confirmation nothing changes.
func (s *Service) Logout(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return model.ErrConfirmationRequired
	}

	s.switchMu.Lock()
	defer s.switchMu.Unlock()

	s.mu.Lock()
	s.admin = nil
	s.mu.Unlock()

	s.clearStored(ctx)
	s.logger.Info("user signed out")
	return nil
}

// Current returns the signed-in identity
func (s *Service) Current(ctx context.Context) (*Identity, error) {
	s.mu.RLock()
	admin := s.admin
	s.mu.RUnlock()
	if admin != nil {
		return cloneIdentity(admin), nil
	}

	var profile model.UserProfile
	err := storage.ReadJSON(ctx, s.storage, storage.KeyCurrentUser, &profile)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("current user unreadable", slog.Any("error", err))
		}
		return nil, model.ErrNotAuthenticated
	}
	if profile.Name == "" || profile.Name == model.AdminName {
		return nil, model.ErrNotAuthenticated
	}
	profile.XP = max(0, profile.XP)
	profile.Level = model.LevelForXP(profile.XP)
	profile = profile.Clone()

	return &Identity{Profile: profile, Avatar: s.avatar(ctx)}, nil
}

// CurrentProfile returns the signed-in user's profile
func (s *Service) CurrentProfile(ctx context.Context) (model.UserProfile, error) {
	id, err := s.Current(ctx)
	if err != nil {
		return model.UserProfile{}, err
	}
	return id.Profile, nil
}

// SaveProfile stores an updated profile for the signed-in user and syncs
// the registry. The admin profile is only updated in memory.
func (s *Service) SaveProfile(ctx context.Context, profile model.UserProfile) error {
	s.switchMu.Lock()
	defer s.switchMu.Unlock()
	return s.save(ctx, profile)
}

// UpdateProfile applies fn to the signed-in user's profile and saves the
// result without letting a sign-in or sign-out interleave. Without a
// signed-in user it returns ErrNotAuthenticated and fn is not called. A
// failed save returns the updated profile together with the error.
func (s *Service) UpdateProfile(ctx context.Context, fn func(model.UserProfile) model.UserProfile) (model.UserProfile, error) {
	s.switchMu.Lock()
	defer s.switchMu.Unlock()

	current, err := s.CurrentProfile(ctx)
	if err != nil {
		return model.UserProfile{}, err
	}
	next := fn(current)
	return next, s.save(ctx, next)
}

func (s *Service) save(ctx context.Context, profile model.UserProfile) error {
	s.mu.Lock()
	if s.admin != nil {
		s.admin.Profile = profile.Clone()
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.persist(ctx, profile, s.avatar(ctx))
}

// SetAvatar changes the signed-in user's avatar
func (s *Service) SetAvatar(ctx context.Context, avatar string) (*Identity, error) {
	id, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if id.IsAdmin {
		return id, nil
	}
	if err := storage.WriteJSON(ctx, s.storage, storage.KeyAvatar, avatar); err != nil {
		return nil, fmt.Errorf("save avatar: %w", err)
	}
	s.sync(ctx, id.Profile, avatar)
	id.Avatar = avatar
	return id, nil
}

// persist writes the current-user record and mirrors it into the registry
func (s *Service) persist(ctx context.Context, profile model.UserProfile, avatar string) error {
	if err := storage.WriteJSON(ctx, s.storage, storage.KeyCurrentUser, profile); err != nil {
		s.logger.Error("failed to save current user",
			slog.String("name", profile.Name),
			slog.Any("error", err))
		return fmt.Errorf("save current user: %w", err)
	}
	s.sync(ctx, profile, avatar)
	return nil
}

func (s *Service) sync(ctx context.Context, profile model.UserProfile, avatar string) {
	xp := profile.XP
	label := profile.Level.Label()
	now := s.clock.Now()
	s.registry.Upsert(ctx, profile.Name, model.RegistryPatch{
		XP:         &xp,
		Level:      &label,
		Store:      &profile.Store,
		Avatar:     &avatar,
		LastActive: &now,
	})
}

func (s *Service) avatar(ctx context.Context) string {
	var avatar string
	if err := storage.ReadJSON(ctx, s.storage, storage.KeyAvatar, &avatar); err != nil || avatar == "" {
		return model.DefaultAvatar
	}
	return avatar
}

func (s *Service) clearStored(ctx context.Context) {
	for _, key := range []string{storage.KeyCurrentUser, storage.KeyAvatar} {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to clear stored user", slog.String("key", key), slog.Any("error", err))
		}
	}
}

func cloneIdentity(id *Identity) *Identity {
	c := *id
	c.Profile = id.Profile.Clone()
	return &c
}
