package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/idtoken"

	"boardinghouse/internal/apperr"
	"boardinghouse/internal/model"
	"boardinghouse/internal/repository"
	"boardinghouse/internal/util"
)

// TokenValidator checks a Google ID token for an audience.
type TokenValidator interface {
	Validate(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

type googleTokenValidator struct{}

func (googleTokenValidator) Validate(ctx context.Context, idToken, audience string) (*idtoken.Payload, error) {
	return idtoken.Validate(ctx, idToken, audience)
}

// GoogleTokenValidator validates tokens against Google's public keys.
func GoogleTokenValidator() TokenValidator {
	return googleTokenValidator{}
}

// Session is a signed-in user and their bearer token.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

type AuthService interface {
	// SignInWithGoogle exchanges a Google ID token for a session. Only
	// existing, active accounts may sign in.
	SignInWithGoogle(ctx context.Context, idToken string) (*Session, error)
}

// AuthConfig holds the sign-in settings.
type AuthConfig struct {
	GoogleClientID string
	JWTSecret      string
	SessionTTL     time.Duration
}

type authService struct {
	users     repository.UserRepository
	validator TokenValidator
	cfg       AuthConfig
	clock     Clock
	logger    zerolog.Logger
}

func NewAuthService(users repository.UserRepository, validator TokenValidator, cfg AuthConfig, clock Clock, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		validator: validator,
		cfg:       cfg,
		clock:     clock,
		logger:    logger.With().Str("service", "AuthService").Logger(),
	}
}

func (s *authService) SignInWithGoogle(ctx context.Context, idToken string) (*Session, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, apperr.Validation("id token is required")
	}
	payload, err := s.validator.Validate(ctx, idToken, s.cfg.GoogleClientID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Google ID token rejected")
		return nil, apperr.Unauthorized("invalid Google ID token")
	}
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, apperr.Unauthorized("Google account has no email")
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, apperr.Unauthorized("Google email is not verified")
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		s.logger.Info().Str("email", email).Msg("Sign-in attempt by unknown email")
		return nil, apperr.Forbidden("email is not whitelisted")
	}
	if !u.IsActive {
		return nil, apperr.Forbidden("account inactive")
	}
	switch {
	case u.GoogleID == nil:
		if err := s.users.SetGoogleID(ctx, u.ID, payload.Subject); err != nil {
			return nil, err
		}
		u.GoogleID = &payload.Subject
	case *u.GoogleID != payload.Subject:
		return nil, apperr.Forbidden("email is linked to a different Google account")
	}

	now := s.clock.now()
	token, err := util.IssueSessionToken(u.Principal(), s.cfg.JWTSecret, s.cfg.SessionTTL, now)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", u.ID).Str("role", u.Role.String()).Msg("User signed in")
	return &Session{Token: token, ExpiresAt: now.Add(s.cfg.SessionTTL), User: u}, nil
}
