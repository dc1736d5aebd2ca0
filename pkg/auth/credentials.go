package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portfolio-backend-refactor/pkg/database"
	"portfolio-backend-refactor/pkg/models"
)

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords. Callers must not reveal which case occurred.
var ErrInvalidCredentials = errors.New("invalid email or password")

// CredentialStore registers accounts and verifies login credentials.
type CredentialStore struct {
	store  database.Store
	hasher PasswordHasher
}

// NewCredentialStore wires a credential store over the database.
func NewCredentialStore(store database.Store, hasher PasswordHasher) *CredentialStore {
	return &CredentialStore{store: store, hasher: hasher}
}

// Register creates a new account with a hashed password. The plaintext
// password is never stored. A duplicate email surfaces as
// database.ErrDuplicateEmail.
func (c *CredentialStore) Register(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	hashed, err := c.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = models.DefaultRole
	}

	user := &models.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  hashed,
		Role:      role,
	}

	return c.store.CreateUser(ctx, user)
}

// Verify checks an email/password pair. Unknown email and wrong password
// both return ErrInvalidCredentials; any other store failure is passed
// through so it is not misreported as a bad login.
func (c *CredentialStore) Verify(ctx context.Context, email, password string) (*models.User, error) {
	user, err := c.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := c.hasher.Compare(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	user.Password = ""
	return user, nil
}
