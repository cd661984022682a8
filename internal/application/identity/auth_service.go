package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/courseplatform/backend/internal/domain/identity"
	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/courseplatform/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// TokenTypeBearer is the token type returned with every access token
const TokenTypeBearer = "Bearer"

// AuthService handles registration, login and session verification
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Register creates a student account and logs it in.
// Any role supplied by the client is ignored.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	for _, field := range []struct{ name, value string }{
		{"email", input.Email},
		{"password", input.Password},
		{"full_name", input.FullName},
	} {
		if strings.TrimSpace(field.value) == "" {
			return nil, shared.NewValidationError(field.name + " is required")
		}
	}

	email := identity.NormalizeEmail(input.Email)
	if err := identity.ValidateEmail(email); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errEmailTaken()
	}

	user, err := identity.NewUser(email, input.Password, input.FullName)
	if err != nil {
		return nil, err
	}
	phone, address := input.Phone, input.Address
	user.UpdateProfile(identity.ProfileUpdate{Phone: &phone, Address: &address})

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, errEmailTaken()
		}
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return &AuthResult{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		User:        ToUserInfo(user),
	}, nil
}

// Login checks credentials and returns an access token.
// Unknown emails and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, shared.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			identity.CompareDecoyPassword(input.Password)
			s.logger.Warn("Login attempt for unknown email",
				zap.String("email", identity.NormalizeEmail(input.Email)),
				zap.String("ip", input.IP))
			return nil, errInvalidCredentials()
		}
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt",
			zap.String("user_id", user.ID.String()),
			zap.String("ip", input.IP))
		return nil, errInvalidCredentials()
	}

	if !user.IsActive() {
		s.logger.Warn("Login attempt for inactive account",
			zap.String("user_id", user.ID.String()),
			zap.String("status", string(user.Status)))
		return nil, errAccountInactive()
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("ip", input.IP))

	return &AuthResult{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		User:        ToUserInfo(user),
	}, nil
}

// Logout revokes the presented token until it would have expired anyway
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return shared.ErrUnauthorized
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("Failed to blacklist token", zap.String("user_id", claims.UserID), zap.Error(err))
		return err
	}
	s.logger.Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

// Authenticate verifies a bearer token and checks it against the user row:
// the user must still exist, be active and carry the token's version.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "Token has expired")
		}
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Invalid token")
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, errTokenRevoked()
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Invalid token")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "User not found")
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, errAccountInactive()
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, errTokenRevoked()
	}

	return &Session{
		UserID: user.ID,
		Role:   user.Role,
		Claims: claims,
	}, nil
}

// ChangePassword replaces the password, which revokes every token issued so
// far, and hands back a fresh token for the caller
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) (*TokenResult, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("User not found")
		}
		return nil, err
	}

	if err := user.ChangePassword(input.CurrentPassword, input.NewPassword); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User password changed", zap.String("user_id", user.ID.String()))

	return s.issueToken(user)
}

func (s *AuthService) issueToken(user *identity.User) (*TokenResult, error) {
	token, err := s.jwtService.GenerateAccessToken(auth.TokenSubject{
		UserID:       user.ID,
		Role:         string(user.Role),
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, err
	}
	return &TokenResult{
		AccessToken: token.Token,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   TokenTypeBearer,
	}, nil
}

func errEmailTaken() error {
	return shared.NewConflictError("Email already registered")
}

func errInvalidCredentials() error {
	return shared.NewDomainError(shared.CodeInvalidCredentials, "Invalid email or password")
}

func errAccountInactive() error {
	return shared.NewDomainError(shared.CodeAccountInactive, "Account is not active")
}

func errTokenRevoked() error {
	return shared.NewDomainError(shared.CodeUnauthorized, "Token has been revoked")
}
