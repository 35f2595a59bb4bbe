package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/rbt-academy/trainer/internal/dependencies/mocks"
	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/services/registry"
	"github.com/rbt-academy/trainer/internal/storage"
	"github.com/rbt-academy/trainer/internal/storage/memory"
	"github.com/rbt-academy/trainer/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	registry *registry.Store
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.registry = registry.New(s.storage, s.clock, nil, testutil.NopLogger())

	svc, err := New(s.storage, s.registry, s.clock, DefaultConfig(), testutil.NopLogger())
	s.Require().NoError(err)
	s.service = svc
	s.ctx = context.Background()
}

func (s *ServiceSuite) login(name string) *Identity {
	id, err := s.service.Login(s.ctx, LoginRequest{Name: name, Store: "Shumikha", Avatar: "Grid", Password: "x"})
	s.Require().NoError(err)
	return id
}

// Login tests

func (s *ServiceSuite) TestLoginNewUser() {
	id := s.login("Anna")

	s.False(id.IsAdmin)
	s.Equal("Anna", id.Profile.Name)
	s.Equal("Shumikha", id.Profile.Store)
	s.Equal(model.LevelJunior, id.Profile.Level)
	s.Equal(0, id.Profile.XP)
	s.Equal("Grid", id.Avatar)
	s.NotEqual(model.TemplateID, id.Profile.ID)
}

func (s *ServiceSuite) TestLoginCreatesRegistryEntry() {
	s.login("Anna")

	entry, ok := s.registry.Get(s.ctx, "Anna")
	s.Require().True(ok)
	s.Equal("Shumikha", entry.Store)
	s.Equal("Grid", entry.Avatar)
	s.Equal(model.LevelJunior.Label(), entry.Level)
	s.Equal(s.clock.Now(), entry.LastActive)
}

func (s *ServiceSuite) TestLoginRestoresFromRegistry() {
	xp := 2300
	store := "Kurtamysh"
	s.registry.Upsert(s.ctx, "Boris", model.RegistryPatch{XP: &xp, Store: &store})

	id := s.login("Boris")

	s.Equal(2300, id.Profile.XP)
	s.Equal(model.LevelSenior, id.Profile.Level)
	s.Equal("Kurtamysh", id.Profile.Store)
}

func (s *ServiceSuite) TestLoginRequiresNameAndPassword() {
	_, err := s.service.Login(s.ctx, LoginRequest{Name: "Anna"})
	s.ErrorIs(err, model.ErrMissingCredentials)

	_, err = s.service.Login(s.ctx, LoginRequest{Password: "x"})
	s.ErrorIs(err, model.ErrMissingCredentials)
}

func (s *ServiceSuite) TestAdminLogin() {
	id, err := s.service.Login(s.ctx, LoginRequest{Name: "admin", Password: "4545"})
	s.Require().NoError(err)

	s.True(id.IsAdmin)
	s.Equal(model.AdminName, id.Profile.Name)
	s.Equal(model.LevelExpert, id.Profile.Level)
	s.Equal(model.HeadOffice, id.Profile.Store)
	s.Equal(model.AdminAvatar, id.Avatar)

	// Never persisted
	_, err = s.storage.Get(s.ctx, storage.KeyCurrentUser)
	s.ErrorIs(err, model.ErrNotFound)
	s.Empty(s.registry.Load(s.ctx))
}

func (s *ServiceSuite) TestAdminLoginWrongSecretMutatesNothing() {
	s.login("Anna")

	_, err := s.service.Login(s.ctx, LoginRequest{Name: "ADMIN", Password: "1234"})
	s.ErrorIs(err, model.ErrInvalidCredentials)

	current, err := s.service.Current(s.ctx)
	s.Require().NoError(err)
	s.Equal("Anna", current.Profile.Name)
}

func (s *ServiceSuite) TestAdminSecretHash() {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	s.Require().NoError(err)

	svc, err := New(s.storage, s.registry, s.clock, Config{AdminSecretHash: string(hash)}, testutil.NopLogger())
	s.Require().NoError(err)

	_, err = svc.Login(s.ctx, LoginRequest{Name: "Admin", Password: "4545"})
	s.ErrorIs(err, model.ErrInvalidCredentials)

	id, err := svc.Login(s.ctx, LoginRequest{Name: "Admin", Password: "s3cret"})
	s.Require().NoError(err)
	s.True(id.IsAdmin)
}

func (s *ServiceSuite) TestInvalidSecretHashRejected() {
	_, err := New(s.storage, s.registry, s.clock, Config{AdminSecretHash: "not-a-hash"}, testutil.NopLogger())
	s.Error(err)
}

func (s *ServiceSuite) TestAdminProfileIsFreshEachLogin() {
	_, err := s.service.Login(s.ctx, LoginRequest{Name: "ADMIN", Password: "4545"})
	s.Require().NoError(err)

	p, err := s.service.CurrentProfile(s.ctx)
	s.Require().NoError(err)
	p.XP = 999
	s.Require().NoError(s.service.SaveProfile(s.ctx, p))

	id, err := s.service.Login(s.ctx, LoginRequest{Name: "ADMIN", Password: "4545"})
	s.Require().NoError(err)
	s.Equal(0, id.Profile.XP)
	s.Empty(s.registry.Load(s.ctx))
}

// Current / Logout tests

func (s *ServiceSuite) TestCurrentNotAuthenticated() {
	_, err := s.service.Current(s.ctx)
	s.ErrorIs(err, model.ErrNotAuthenticated)
}

func (s *ServiceSuite) TestCurrentCorruptRecord() {
	s.Require().NoError(s.storage.Set(s.ctx, storage.KeyCurrentUser, []byte("{")))
	_, err := s.service.Current(s.ctx)
	s.ErrorIs(err, model.ErrNotAuthenticated)
}

func (s *ServiceSuite) TestCurrentRecomputesLevel() {
	bad := model.NewProfile()
	bad.Name = "Vera"
	bad.XP = 1500
	bad.Level = model.LevelJunior
	s.Require().NoError(storage.WriteJSON(s.ctx, s.storage, storage.KeyCurrentUser, bad))

	p, err := s.service.CurrentProfile(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.LevelMiddle, p.Level)
}

func (s *ServiceSuite) TestLogoutRequiresConfirmation() {
	s.login("Anna")

	s.ErrorIs(s.service.Logout(s.ctx, false), model.ErrConfirmationRequired)
	_, err := s.service.Current(s.ctx)
	s.NoError(err)

	s.Require().NoError(s.service.Logout(s.ctx, true))
	_, err = s.service.Current(s.ctx)
	s.ErrorIs(err, model.ErrNotAuthenticated)
	_, err = s.storage.Get(s.ctx, storage.KeyAvatar)
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *ServiceSuite) TestSaveProfileSyncsRegistry() {
	s.login("Anna")
	p, _ := s.service.CurrentProfile(s.ctx)
	p.XP = 1200
	p.Level = model.LevelMiddle

	s.clock.Advance(time.Hour)
	s.Require().NoError(s.service.SaveProfile(s.ctx, p))

	entry, _ := s.registry.Get(s.ctx, "Anna")
	s.Equal(1200, entry.XP)
	s.Equal(model.LevelMiddle.Label(), entry.Level)
	s.Equal(s.clock.Now(), entry.LastActive)
}

func (s *ServiceSuite) TestSetAvatar() {
	s.login("Anna")

	id, err := s.service.SetAvatar(s.ctx, "Nexus")
	s.Require().NoError(err)
	s.Equal("Nexus", id.Avatar)

	entry, _ := s.registry.Get(s.ctx, "Anna")
	s.Equal("Nexus", entry.Avatar)
}
