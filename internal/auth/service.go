package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"classbook/internal/shared/config"
	"classbook/internal/users"
	"classbook/pkg/logger"
)

var (
	ErrMissingCredentials   = errors.New("email and password are required")
	ErrInvalidCredentials   = errors.New("Invalid login credentials")
	ErrEmailNotConfirmed    = errors.New("Email not confirmed")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("User already registered")
	ErrInvalidToken         = errors.New("invalid token")
	ErrInvalidConfirmation  = errors.New("confirmation link is invalid or has expired")
	ErrConfirmationDelivery = errors.New("could not send confirmation email")
)

// PendingSignupMessage is returned when the account awaits email confirmation
const PendingSignupMessage = "Signup initiated. Check your email to confirm."

// ConfirmationSender delivers the sign-up confirmation link
type ConfirmationSender interface {
	SendSignupConfirmation(ctx context.Context, userID uuid.UUID, email, link string) error
}

type Service interface {
	SignUp(ctx context.Context, req *CredentialsRequest) (*SignUpResult, error)
	SignIn(ctx context.Context, req *CredentialsRequest) (*SignInResponse, error)
	Confirm(ctx context.Context, token string) error
	Me(ctx context.Context, userID string) (*MeResponse, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
}

type service struct {
	repo   Repository
	config *config.Config
	sender ConfirmationSender
	now    func() time.Time
	logger *logger.Logger
}

// NewService builds the auth service. sender may be nil when email
// confirmation is disabled.
func NewService(repo Repository, cfg *config.Config, sender ConfirmationSender) Service {
	return &service{
		repo:   repo,
		config: cfg,
		sender: sender,
		now:    time.Now,
		logger: logger.GetDefault(),
	}
}

func (s *service) SignUp(ctx context.Context, req *CredentialsRequest) (*SignUpResult, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := users.RoleUser
	if s.config.IsAdminEmail(req.Email) {
		role = users.RoleAdmin
	}

	user := &users.User{
		Email:     req.Email,
		Password:  string(hashedPassword),
		Role:      role,
		Confirmed: !s.config.Auth.RequireEmailConfirmation,
	}

	var confirmToken string
	if !user.Confirmed {
		confirmToken = uuid.NewString()
		expires := s.now().Add(s.config.Auth.ConfirmationTTL)
		user.ConfirmationToken = &confirmToken
		user.ConfirmationExpiresAt = &expires
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if user.Confirmed {
		return &SignUpResult{User: &SignUpUser{ID: user.ID.String(), Email: user.Email}}, nil
	}

	if s.sender != nil {
		link := s.confirmationLink(confirmToken)
		if err := s.sender.SendSignupConfirmation(ctx, user.ID, user.Email, link); err != nil {
			s.logger.ErrorWithContext(ctx, "failed to queue signup confirmation", err, map[string]interface{}{
				"user_id": user.ID.String(),
			})
			return nil, fmt.Errorf("%w: %v", ErrConfirmationDelivery, err)
		}
	}
	return &SignUpResult{Pending: true}, nil
}

func (s *service) confirmationLink(token string) string {
	base := strings.TrimRight(s.config.Auth.PublicBaseURL, "/")
	return base + s.config.GetAPIBasePath() + "/users/confirm?token=" + token
}

func (s *service) SignIn(ctx context.Context, req *CredentialsRequest) (*SignInResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Confirmed {
		return nil, ErrEmailNotConfirmed
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.LogAuthSuccess(ctx, user.ID.String(), "password")
	return &SignInResponse{AccessToken: token}, nil
}

func (s *service) Confirm(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidConfirmation
	}

	user, err := s.repo.GetUserByConfirmationToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidConfirmation
		}
		return err
	}
	if user.ConfirmationExpiresAt != nil && s.now().After(*user.ConfirmationExpiresAt) {
		return ErrInvalidConfirmation
	}

	return s.repo.MarkConfirmed(ctx, user.ID.String())
}

func (s *service) Me(ctx context.Context, userID string) (*MeResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MeResponse{ID: user.ID.String(), Email: user.Email, Role: string(user.Role)}, nil
}

func (s *service) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.JWT.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid && claims.Type == tokenTypeAccess && users.IsValidRole(claims.Role) {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

func (s *service) generateAccessToken(user *users.User) (string, error) {
	now := s.now()
	userID := user.ID.String()

	claims := JWTClaims{
		UserID: userID,
		Email:  user.Email,
		Role:   string(user.Role),
		Type:   tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.JWT.ExpiresIn)),
			Issuer:    "classbook",
			Subject:   userID,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWT.Secret))
}
