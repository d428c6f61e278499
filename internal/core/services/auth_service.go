package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"admitdesk/internal/adapters/persistence/models"
	"admitdesk/internal/adapters/persistence/repositories"
	"admitdesk/internal/config"
	"admitdesk/internal/core/domain"
	"admitdesk/internal/pkg/jwt"
	"admitdesk/internal/pkg/pagination"
	"admitdesk/internal/pkg/password"

	"github.com/google/uuid"
)

// Auth errors
var (
	ErrUserNotFound       = fmt.Errorf("%w: user", domain.ErrNotFound)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	ErrEmailAlreadyUsed   = fmt.Errorf("%w: email already registered", domain.ErrConflict)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	ErrTokenExpired       = fmt.Errorf("%w: token expired", domain.ErrUnauthorized)
	ErrTokenRevoked       = fmt.Errorf("%w: token revoked", domain.ErrUnauthorized)
	ErrUserInactive       = fmt.Errorf("%w: user account is inactive", domain.ErrForbidden)
	ErrInvalidRole        = fmt.Errorf("%w: unknown role", domain.ErrInvalidArgument)
)

// AuthService handles authentication and user management
type AuthService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	programRepo      repositories.ProgramRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	programRepo repositories.ProgramRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		programRepo:      programRepo,
		cfg:              cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	FullName string `json:"full_name" validate:"required,min=2,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Register registers a new student account. Staff accounts are created
// by an admin through CreateUser.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	if err := password.Validate(input.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyUsed
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName: input.FullName,
		Email:    input.Email,
		Password: hashedPassword,
		Role:     string(domain.RoleStudent),
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s", user.Email)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Email)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshToken rotates a refresh token and issues a fresh pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	tokenHash := password.HashToken(refreshToken)

	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// Token rotation: the old token dies with the exchange
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash); err != nil {
		return nil, err
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ Token refreshed for user: %s", user.Email)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes one refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash); err != nil {
		return err
	}
	log.Printf("✅ User logged out")
	return nil
}

// LogoutAll revokes every refresh token of a user
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		return err
	}
	log.Printf("✅ All sessions revoked for user ID: %d", userID)
	return nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// GetUserByID gets a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ============================================================================
// USER MANAGEMENT (admin)
// ============================================================================

// ListUsers lists users with pagination
func (s *AuthService) ListUsers(ctx context.Context, actor domain.Actor, page, limit int) ([]*models.User, *pagination.Meta, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, nil, ErrAdminOnly
	}

	params := pagination.Normalize(page, limit)
	users, total, err := s.userRepo.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, nil, err
	}
	return users, pagination.GetMeta(params, total), nil
}

// CreateUserInput represents admin user-creation input
type CreateUserInput struct {
	FullName  string `json:"full_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required"`
	ProgramID *uint  `json:"program_id"`
}

// CreateUser creates a user with an explicit role. Program admins must
// carry the program they manage.
func (s *AuthService) CreateUser(ctx context.Context, actor domain.Actor, input *CreateUserInput) (*models.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrAdminOnly
	}

	role := domain.Role(input.Role)
	if role != domain.RoleStudent && role != domain.RoleProgramAdmin && role != domain.RoleAdmin {
		return nil, ErrInvalidRole
	}
	if role == domain.RoleProgramAdmin {
		if input.ProgramID == nil {
			return nil, fmt.Errorf("%w: program_admin requires a program_id", domain.ErrInvalidArgument)
		}
		if _, err := s.programRepo.GetByID(ctx, *input.ProgramID); err != nil {
			return nil, ErrProgramNotFound
		}
	}
	if err := password.Validate(input.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyUsed
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName: input.FullName,
		Email:    input.Email,
		Password: hashedPassword,
		Role:     string(role),
		IsActive: true,
	}
	if role == domain.RoleProgramAdmin {
		user.ProgramID = input.ProgramID
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User created by admin: %s (%s)", user.Email, user.Role)
	return user, nil
}

// UpdateUserInput represents admin user-update input
type UpdateUserInput struct {
	FullName  *string `json:"full_name"`
	Role      *string `json:"role"`
	ProgramID *uint   `json:"program_id"`
	IsActive  *bool   `json:"is_active"`
}

// UpdateUser edits a user's role, program binding, or active flag
func (s *AuthService) UpdateUser(ctx context.Context, actor domain.Actor, userID uint, input *UpdateUserInput) (*models.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrAdminOnly
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Role != nil {
		role := domain.Role(*input.Role)
		if role != domain.RoleStudent && role != domain.RoleProgramAdmin && role != domain.RoleAdmin {
			return nil, ErrInvalidRole
		}
		if role == domain.RoleProgramAdmin && input.ProgramID == nil && user.ProgramID == nil {
			return nil, fmt.Errorf("%w: program_admin requires a program_id", domain.ErrInvalidArgument)
		}
		user.Role = string(role)
		if role != domain.RoleProgramAdmin {
			user.ProgramID = nil
		}
	}
	if input.ProgramID != nil {
		if _, err := s.programRepo.GetByID(ctx, *input.ProgramID); err != nil {
			return nil, ErrProgramNotFound
		}
		user.ProgramID = input.ProgramID
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
		if !user.IsActive {
			// Deactivating kills every open session
			if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
				log.Printf("⚠️ Failed to revoke sessions for user %d: %v", user.ID, err)
			}
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(user *models.User) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Email,
		user.Role,
		user.ProgramID,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.New().String()

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		tokenID,
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token hash in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, userID uint, refreshToken string) error {
	token := &models.RefreshToken{
		UserID:    userID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	return s.refreshTokenRepo.Create(ctx, token)
}
