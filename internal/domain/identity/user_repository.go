package identity

import (
	"context"

	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user. A duplicate email yields shared.ErrAlreadyExists.
	Create(ctx context.Context, user *User) error

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// Delete deletes a user and everything the user owns
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindAll returns users matching the filter.
	// Supported filter keys: role, status.
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*User], error)

	// Count returns the number of users, optionally restricted to a status
	Count(ctx context.Context, status *UserStatus) (int64, error)
}
