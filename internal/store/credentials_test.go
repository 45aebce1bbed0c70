package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MollahHamza/TRASHCANPRO/internal/model"
	"github.com/MollahHamza/TRASHCANPRO/internal/repository"
	"github.com/MollahHamza/TRASHCANPRO/internal/utils"
)

func newCredentials(t *testing.T) (*CredentialStore, *repository.JSONUserRepo) {
	t.Helper()
	repo := repository.NewJSONUserRepo(filepath.Join(t.TempDir(), "users.json"))
	s, err := NewCredentialStore(context.Background(), repo)
	require.NoError(t, err)
	return s, repo
}

func TestCredentialStore_SeedsAccounts(t *testing.T) {
	s, repo := newCredentials(t)

	users, err := repo.Load(context.Background())
	require.NoError(t, err, "seed accounts are persisted")
	require.Len(t, users, 2)
	assert.Equal(t, utils.Digest("1234"), users["admin"].PasswordDigest)
	assert.Equal(t, model.RoleAdmin, users["admin"].Role)
	assert.Equal(t, model.RoleStandard, users["user"].Role)
	assert.Equal(t, 0, s.PointsOf("admin"))
	assert.Equal(t, 0, s.PointsOf("user"))
}

func TestCredentialStore_Exists(t *testing.T) {
	s, _ := newCredentials(t)
	assert.True(t, s.Exists("admin"))
	assert.False(t, s.Exists("ghost"))
}

func TestCredentialStore_Verify(t *testing.T) {
	s, _ := newCredentials(t)

	sess, ok := s.Verify("admin", "1234")
	require.True(t, ok)
	assert.Equal(t, model.Session{Username: "admin", Role: model.RoleAdmin}, sess)

	sess, ok = s.Verify("user", "user")
	require.True(t, ok)
	assert.Equal(t, model.RoleStandard, sess.Role)

	_, ok = s.Verify("admin", "wrong")
	assert.False(t, ok)
	_, ok = s.Verify("ghost", "anything")
	assert.False(t, ok)
	_, ok = s.Verify("", "")
	assert.False(t, ok)
}

func TestCredentialStore_VerifyDefaultsRole(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewJSONUserRepo(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, repo.Save(ctx, map[string]model.User{
		"legacy": {PasswordDigest: utils.Digest("pw")},
	}))
	s, err := NewCredentialStore(ctx, repo)
	require.NoError(t, err)

	sess, ok := s.Verify("legacy", "pw")
	require.True(t, ok)
	assert.Equal(t, model.RoleStandard, sess.Role)
}

func TestCredentialStore_PointsPersist(t *testing.T) {
	ctx := context.Background()
	s, repo := newCredentials(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.AwardPoints(ctx, "user", 50))
	}
	assert.Equal(t, 150, s.PointsOf("user"))

	reloaded, err := NewCredentialStore(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 150, reloaded.PointsOf("user"))
}

func TestCredentialStore_DeductClampsAtZero(t *testing.T) {
	ctx := context.Background()
	s, _ := newCredentials(t)

	require.NoError(t, s.AwardPoints(ctx, "user", 30))
	require.NoError(t, s.DeductPoints(ctx, "user", 100))
	assert.Equal(t, 0, s.PointsOf("user"))

	require.NoError(t, s.AwardPoints(ctx, "user", 300))
	require.NoError(t, s.DeductPoints(ctx, "user", 250))
	assert.Equal(t, 50, s.PointsOf("user"))
}

func TestCredentialStore_UnknownUserIsNoop(t *testing.T) {
	ctx := context.Background()
	s, _ := newCredentials(t)

	assert.NoError(t, s.AwardPoints(ctx, "ghost", 50))
	assert.NoError(t, s.DeductPoints(ctx, "ghost", 50))
	assert.Equal(t, 0, s.PointsOf("ghost"))
	_, ok := s.Verify("ghost", "")
	assert.False(t, ok, "award must not create users")
}

type failingUserRepo struct {
	users map[string]model.User
}

func (r *failingUserRepo) Load(context.Context) (map[string]model.User, error) { return r.users, nil }
func (r *failingUserRepo) Save(context.Context, map[string]model.User) error {
	return errors.New("disk full")
}

func TestCredentialStore_SaveFailurePropagates(t *testing.T) {
	repo := &failingUserRepo{users: map[string]model.User{"user": {Username: "user", Role: model.RoleStandard}}}
	s, err := NewCredentialStore(context.Background(), repo)
	require.NoError(t, err)

	err = s.AwardPoints(context.Background(), "user", 50)
	assert.ErrorContains(t, err, "disk full")
}

func TestCredentialStore_Provision(t *testing.T) {
	ctx := context.Background()
	s, _ := newCredentials(t)

	require.NoError(t, s.Provision(ctx, "alice", "pw", model.RoleStandard))
	sess, ok := s.Verify("alice", "pw")
	require.True(t, ok)
	assert.Equal(t, "alice", sess.Username)

	assert.ErrorIs(t, s.Provision(ctx, "alice", "pw", model.RoleStandard), ErrUserExists)
	assert.ErrorIs(t, s.Provision(ctx, " ", "pw", model.RoleStandard), ErrInvalidUsername)
	assert.ErrorIs(t, s.Provision(ctx, "../x", "pw", model.RoleStandard), ErrInvalidUsername)
	assert.ErrorIs(t, s.Provision(ctx, "bob", "pw", "root"), ErrInvalidRole)

	names := []string{}
	for _, u := range s.Users() {
		names = append(names, u.Username)
	}
	assert.Equal(t, []string{"admin", "alice", "user"}, names)
}

func TestCredentialStore_ProvisionBcrypt(t *testing.T) {
	ctx := context.Background()
	s, _ := newCredentials(t)
	s.BcryptCost = bcrypt.MinCost

	require.NoError(t, s.Provision(ctx, "carol", "pw", model.RoleAdmin))
	sess, ok := s.Verify("carol", "pw")
	require.True(t, ok)
	assert.True(t, sess.IsAdmin())
}

func TestCredentialStore_TotalPoints(t *testing.T) {
	ctx := context.Background()
	s, _ := newCredentials(t)
	require.NoError(t, s.AwardPoints(ctx, "admin", 20))
	require.NoError(t, s.AwardPoints(ctx, "user", 50))
	assert.Equal(t, 70, s.TotalPoints())
}

func TestCredentialStore_NullUsersFileReseeds(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o644))

	s, err := NewCredentialStore(ctx, repository.NewJSONUserRepo(path))
	require.NoError(t, err)
	_, ok := s.Verify("admin", "1234")
	assert.True(t, ok)

	require.NoError(t, s.Provision(ctx, "bob", "pw", model.RoleStandard))
	assert.Len(t, s.Users(), 3)
}

type nilUserRepo struct{}

func (nilUserRepo) Load(context.Context) (map[string]model.User, error) { return nil, nil }
func (nilUserRepo) Save(context.Context, map[string]model.User) error   { return nil }

func TestCredentialStore_NilMappingIsUsable(t *testing.T) {
	s, err := NewCredentialStore(context.Background(), nilUserRepo{})
	require.NoError(t, err)
	assert.Empty(t, s.Users())
	assert.NoError(t, s.Provision(context.Background(), "bob", "pw", model.RoleStandard))
	assert.Equal(t, 0, s.PointsOf("bob"))
}
