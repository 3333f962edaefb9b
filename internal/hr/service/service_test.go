package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rh-insights/rh-insights-backend/internal/hr/auth"
	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
	"github.com/rh-insights/rh-insights-backend/internal/hr/store"
	"github.com/rh-insights/rh-insights-backend/pkg/config"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

// nullPersister discards saves; service tests only exercise the
// in-memory state.
type nullPersister struct{}

func (nullPersister) Load(context.Context) (domain.Snapshot, bool, error) {
	return domain.Empty(), false, nil
}

func (nullPersister) Save(context.Context, domain.Snapshot) error { return nil }

func newStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(nullPersister{}, time.Hour, logger.Nop())
}

func newJWTManager() *auth.Manager {
	return auth.NewManager(&config.JWTConfig{
		Secret:       "test-secret",
		AccessExpiry: time.Hour,
		Issuer:       "test",
	})
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(hash)
}

func seedUser(t *testing.T, st *store.Store, u domain.User) {
	t.Helper()
	if err := st.Update(func(snap *domain.Snapshot) error {
		snap.Users = append(snap.Users, u)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
}

func seedEmployee(t *testing.T, st *store.Store, e domain.Employee) {
	t.Helper()
	if err := st.Update(func(snap *domain.Snapshot) error {
		snap.Employees = append(snap.Employees, e)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
}

func superadminActor() domain.User {
	return domain.User{Name: "Root", Email: "root@example.com", Role: domain.RoleSuperadmin}
}

func adminActor() domain.User {
	return domain.User{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin}
}
