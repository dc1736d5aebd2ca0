package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend-refactor/pkg/database"
	"portfolio-backend-refactor/pkg/models"
)

// stubUserStore implements only the user lookup methods the credential
// store touches. Everything else panics through the embedded nil interface.
type stubUserStore struct {
	database.Store

	createdUser *models.User
	createErr   error
	users       map[string]*models.User
	getErr      error
}

func (s *stubUserStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user.ID = 1
	s.createdUser = user
	return user, nil
}

func (s *stubUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	user, ok := s.users[email]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// stubHasher marks hashes deterministically so tests stay fast.
type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (stubHasher) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	store := &stubUserStore{}
	creds := NewCredentialStore(store, stubHasher{})

	user, err := creds.Register(context.Background(), &models.SignupRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "  Ada@Example.COM ",
		Password:  "correct-horse",
	})

	require.NoError(t, err)
	assert.Equal(t, "hashed:correct-horse", store.createdUser.Password)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, models.DefaultRole, user.Role)
}

func TestRegisterKeepsExplicitRole(t *testing.T) {
	store := &stubUserStore{}
	creds := NewCredentialStore(store, stubHasher{})

	user, err := creds.Register(context.Background(), &models.SignupRequest{
		FirstName: "Grace",
		Email:     "grace@example.com",
		Password:  "password123",
		Role:      "Data Analyst",
	})

	require.NoError(t, err)
	assert.Equal(t, "Data Analyst", user.Role)
}

func TestRegisterPropagatesDuplicateEmail(t *testing.T) {
	store := &stubUserStore{createErr: database.ErrDuplicateEmail}
	creds := NewCredentialStore(store, stubHasher{})

	_, err := creds.Register(context.Background(), &models.SignupRequest{
		FirstName: "Ada",
		Email:     "ada@example.com",
		Password:  "correct-horse",
	})

	assert.ErrorIs(t, err, database.ErrDuplicateEmail)
}

func TestVerifySuccessClearsPassword(t *testing.T) {
	store := &stubUserStore{users: map[string]*models.User{
		"ada@example.com": {ID: 5, Email: "ada@example.com", Password: "hashed:correct-horse"},
	}}
	creds := NewCredentialStore(store, stubHasher{})

	user, err := creds.Verify(context.Background(), "Ada@Example.com", "correct-horse")

	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
	assert.Empty(t, user.Password)
}

func TestVerifyUnknownEmail(t *testing.T) {
	store := &stubUserStore{users: map[string]*models.User{}}
	creds := NewCredentialStore(store, stubHasher{})

	_, err := creds.Verify(context.Background(), "nobody@example.com", "whatever")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyWrongPassword(t *testing.T) {
	store := &stubUserStore{users: map[string]*models.User{
		"ada@example.com": {Email: "ada@example.com", Password: "hashed:correct-horse"},
	}}
	creds := NewCredentialStore(store, stubHasher{})

	_, err := creds.Verify(context.Background(), "ada@example.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyStoreFailureIsNotInvalidCredentials(t *testing.T) {
	store := &stubUserStore{getErr: errors.New("connection reset")}
	creds := NewCredentialStore(store, stubHasher{})

	_, err := creds.Verify(context.Background(), "ada@example.com", "correct-horse")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestBcryptHasherRoundTrip(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hashed, err := hasher.Hash("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hashed)

	assert.NoError(t, hasher.Compare(hashed, "s3cret-password"))
	assert.Error(t, hasher.Compare(hashed, "not-the-password"))
}
