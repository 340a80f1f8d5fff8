package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/CampiteliRafael/cartEcommerce/internal/auth"
	"github.com/CampiteliRafael/cartEcommerce/internal/domain"
	"github.com/CampiteliRafael/cartEcommerce/internal/repository"
	"github.com/CampiteliRafael/cartEcommerce/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

type UserService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	log    *logger.Logger
}

func NewUserService(users repository.UserRepository, tokens *auth.TokenManager, opts ...Option) *UserService {
	o := buildOptions(opts)
	return &UserService{
		users:  users,
		tokens: tokens,
		log:    o.log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register stores a new user with a bcrypt hash of the password. Shape checks
// (name length, password strength) belong to the caller.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, validationError("name, email and password are required")
	}

	hash, err := auth.HashPassword(in.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, validationError(err.Error())
	}
	if err != nil {
		return nil, internalError("failed to hash password", err)
	}

	user := &domain.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, internalError("failed to create user", err)
	}

	s.log.WithContext(ctx).WithField("user_id", user.ID.Hex()).Info("user registered")
	return user, nil
}

// Login never tells the caller whether the email or the password was wrong.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, internalError("failed to look up user", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Sign(user)
	if err != nil {
		return nil, internalError("failed to sign token", err)
	}

	return &Session{Token: token, ExpiresAt: exp, User: user}, nil
}

// Me returns the user behind an authenticated request. A token whose user no
// longer exists is treated as unauthorized.
func (s *UserService) Me(ctx context.Context, userID string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.users.GetByID(ctx, oid)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, internalError("failed to get user", err)
	}
	return user, nil
}
