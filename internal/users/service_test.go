package users

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryRepo struct {
	mu    sync.Mutex
	users map[string]User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: map[string]User{}}
}

func (r *memoryRepo) InsertUser(ctx context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memoryRepo) ListUsers(ctx context.Context) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []User{}
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *memoryRepo) GetUser(ctx context.Context, id string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (r *memoryRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func TestCreateHashesPassword(t *testing.T) {
	svc := NewService(newMemoryRepo())

	user, err := svc.Create(context.Background(), User{
		Username: "storekeeper", Email: "store@example.com", FullName: "Store Keeper",
	}, "correct-horse-battery")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "Store User", user.Role)
	require.True(t, user.IsActive)
	require.NotEqual(t, "correct-horse-battery", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse-battery")))
}

func TestDuplicateUsernameRejected(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, User{Username: "storekeeper", Email: "a@example.com", FullName: "A"}, "password-one")
	require.NoError(t, err)
	_, err = svc.Create(ctx, User{Username: "storekeeper", Email: "b@example.com", FullName: "B"}, "password-two")
	require.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	user, err := svc.Create(ctx, User{Username: "qa", Email: "qa@example.com", FullName: "QA"}, "inspection-pass")
	require.NoError(t, err)

	require.NoError(t, svc.Authenticate(ctx, user, "inspection-pass"))
	require.Error(t, svc.Authenticate(ctx, user, "wrong"))
}

func TestPasswordHashNeverSerialized(t *testing.T) {
	svc := NewService(newMemoryRepo())

	user, err := svc.Create(context.Background(), User{Username: "admin", Email: "admin@example.com", FullName: "Admin", Role: "Admin"}, "admin-password")
	require.NoError(t, err)

	body, err := json.Marshal(user)
	require.NoError(t, err)
	require.NotContains(t, string(body), "password")
	require.NotContains(t, string(body), user.PasswordHash)
}
