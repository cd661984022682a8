package identity

import (
	"context"
	"errors"

	"github.com/courseplatform/backend/internal/domain/identity"
	"github.com/courseplatform/backend/internal/domain/learning"
	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/courseplatform/backend/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles profile self-service and admin user management
type UserService struct {
	userRepo       identity.UserRepository
	enrollmentRepo learning.EnrollmentRepository
	orderRepo      trade.OrderRepository
	logger         *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo identity.UserRepository,
	enrollmentRepo learning.EnrollmentRepository,
	orderRepo trade.OrderRepository,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:       userRepo,
		enrollmentRepo: enrollmentRepo,
		orderRepo:      orderRepo,
		logger:         logger,
	}
}

// GetByID returns a user's public profile
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// UpdateProfile lets users edit their own name, phone and address
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*UserInfo, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	user.UpdateProfile(identity.ProfileUpdate{
		FullName: input.FullName,
		Phone:    input.Phone,
		Address:  input.Address,
	})
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	info := ToUserInfo(user)
	return &info, nil
}

// DeleteAccount removes the caller's own account. Admins cannot self-delete.
func (s *UserService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return shared.NewConflictError("Cannot delete admin account")
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("User deleted own account", zap.String("user_id", id.String()))
	return nil
}

// Stats summarizes a user's learning and purchase history
func (s *UserService) Stats(ctx context.Context, id uuid.UUID) (*UserStats, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}

	countEnrollments := func(status learning.EnrollmentStatus) (int64, error) {
		return s.enrollmentRepo.Count(ctx, learning.EnrollmentFilter{UserID: &id, Status: string(status)})
	}

	var (
		stats UserStats
		err   error
	)
	if stats.TotalEnrollments, err = countEnrollments(""); err != nil {
		return nil, err
	}
	if stats.ActiveEnrollments, err = countEnrollments(learning.EnrollmentStatusActive); err != nil {
		return nil, err
	}
	if stats.CompletedEnrollments, err = countEnrollments(learning.EnrollmentStatusCompleted); err != nil {
		return nil, err
	}
	if stats.TotalOrders, err = s.orderRepo.Count(ctx, trade.OrderFilter{UserID: &id}); err != nil {
		return nil, err
	}
	paid := trade.OrderFilter{UserID: &id, Status: string(trade.OrderStatusPaid)}
	if stats.PaidOrders, err = s.orderRepo.Count(ctx, paid); err != nil {
		return nil, err
	}
	if stats.TotalSpent, err = s.orderRepo.SumTotal(ctx, paid); err != nil {
		return nil, err
	}
	return &stats, nil
}

// List returns a page of users for the admin console
func (s *UserService) List(ctx context.Context, filter UserListFilter) (shared.Paginated[UserInfo], error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PerPage,
		Search:   filter.Search,
		Filters:  map[string]interface{}{},
	}
	if filter.Role != "" {
		f.Filters["role"] = filter.Role
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}

	page, err := s.userRepo.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[UserInfo]{}, err
	}
	return shared.MapPaginated(page, ToUserInfo), nil
}

// Update applies an admin edit. Role or status changes revoke the user's sessions.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, input AdminUpdateUserInput) (*UserInfo, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	user.UpdateProfile(identity.ProfileUpdate{
		FullName: input.FullName,
		Phone:    input.Phone,
		Address:  input.Address,
	})
	if input.Role != nil {
		if err := user.SetRole(identity.Role(*input.Role)); err != nil {
			return nil, err
		}
	}
	if input.Status != nil {
		if err := user.SetStatus(identity.UserStatus(*input.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User updated by admin",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.String("status", string(user.Status)))

	info := ToUserInfo(user)
	return &info, nil
}

// Delete removes a non-admin user together with everything they own
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return shared.NewConflictError("Cannot delete admin user")
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("User deleted by admin", zap.String("user_id", id.String()))
	return nil
}

func (s *UserService) find(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("User not found")
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account unless a user with the
// email already exists. It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password, fullName string) (bool, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	user, err := identity.NewUser(email, password, fullName)
	if err != nil {
		return false, err
	}
	if err := user.SetRole(identity.RoleAdmin); err != nil {
		return false, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return false, err
	}
	s.logger.Info("Admin account seeded", zap.String("email", user.Email))
	return true, nil
}
