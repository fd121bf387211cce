package adminauth

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/neevdiamonds/storefront-backend/pkg/auth/adminsession"
	"github.com/neevdiamonds/storefront-backend/pkg/config"
	"github.com/neevdiamonds/storefront-backend/pkg/db/models"
	pkgerrors "github.com/neevdiamonds/storefront-backend/pkg/errors"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
	redislib "github.com/neevdiamonds/storefront-backend/pkg/redis"
)

// memStore is an in-memory stand-in for the Redis attempt store.
type memStore struct {
	values map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.values[key] = fmt.Sprint(value)
	return nil
}

func (m *memStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	n, _ := strconv.ParseInt(m.values[key], 10, 64)
	n++
	m.values[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *memStore) LockoutKey(scope string) string { return "lockout:" + scope }
func (m *memStore) CounterKey(scope string) string { return "counter:" + scope }

var testDBSeq int

func newTestService(t *testing.T) (Service, *memStore) {
	t.Helper()

	testDBSeq++
	dsn := fmt.Sprintf("file:adminauth_test_%d?mode=memory&cache=shared", testDBSeq)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Setting{}))

	sessions, err := adminsession.NewManager(config.SessionConfig{Secret: "test-secret", AdminTTL: time.Hour})
	require.NoError(t, err)

	store := newMemStore()
	logg := logger.New(logger.Options{ServiceName: "adminauth-test", Level: logger.ParseLevel("error")})
	svc, err := NewService(NewRepository(conn), store, sessions, logg, config.AdminConfig{
		Password:        "2468",
		MaxAttempts:     3,
		AttemptWindow:   15 * time.Minute,
		LockoutDuration: 15 * time.Minute,
	})
	require.NoError(t, err)

	require.NoError(t, svc.EnsureSeed(context.Background()))
	return svc, store
}

func TestLoginWithSeededPassword(t *testing.T) {
	svc, _ := newTestService(t)

	token, status, err := svc.Login(context.Background(), "2468")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, status.Locked)
	require.Equal(t, 3, status.AttemptsLeft)
}

func TestEnsureSeedKeepsExistingPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.ChangePassword(ctx, "2468", "new-pass"))

	// a restart must not reset the changed password
	require.NoError(t, svc.EnsureSeed(ctx))

	_, _, err := svc.Login(ctx, "2468")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	_, _, err = svc.Login(ctx, "new-pass")
	require.NoError(t, err)
}

func TestFailedAttemptsCountDown(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	token, status, err := svc.Login(ctx, "wrong")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	require.Empty(t, token)
	require.NotNil(t, status)
	require.Equal(t, 2, status.AttemptsLeft)

	_, status, err = svc.Login(ctx, "wrong")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	require.Equal(t, 1, status.AttemptsLeft)

	viewed, err := svc.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, viewed.AttemptsLeft)
	require.False(t, viewed.Locked)
}

func TestLockoutAfterMaxAttempts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _, err := svc.Login(ctx, "wrong")
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	}

	_, status, err := svc.Login(ctx, "wrong")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeRateLimit))
	require.True(t, status.Locked)
	require.NotNil(t, status.LockedUntil)

	// even the right password is refused while locked
	_, status, err = svc.Login(ctx, "2468")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeRateLimit))
	require.True(t, status.Locked)
}

func TestLockoutExpires(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		svc.Login(ctx, "wrong")
	}

	// simulate the lockout window passing
	store.values[store.LockoutKey("admin_login")] = time.Now().Add(-time.Minute).Format(time.RFC3339)

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	require.False(t, status.Locked)
}

func TestSuccessResetsCounters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "wrong")
	require.Error(t, err)

	_, _, err = svc.Login(ctx, "2468")
	require.NoError(t, err)

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, status.AttemptsLeft)
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, "wrong", "new-pass")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	err = svc.ChangePassword(ctx, "2468", "abc")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
