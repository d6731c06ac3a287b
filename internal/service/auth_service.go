package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nerdnum/accounts-api/internal/audit"
	"github.com/nerdnum/accounts-api/internal/models"
	"github.com/nerdnum/accounts-api/internal/repository"
	"github.com/nerdnum/accounts-api/internal/utils"
	"github.com/nerdnum/accounts-api/pkg/logger"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo      *repository.UserRepository
	trail         *audit.Trail
	jwtSecret     string
	signingMethod jwt.SigningMethod
	tokenTTL      time.Duration
}

// NewAuthService wires the login and token-validation flow. The algorithm
// name comes from configuration; anything outside the HMAC family is
// rejected here, at startup.
func NewAuthService(userRepo *repository.UserRepository, trail *audit.Trail, jwtSecret, algorithm string, tokenTTL time.Duration) (*AuthService, error) {
	method, err := utils.SigningMethod(algorithm)
	if err != nil {
		return nil, err
	}

	return &AuthService{
		userRepo:      userRepo,
		trail:         trail,
		jwtSecret:     jwtSecret,
		signingMethod: method,
		tokenTTL:      tokenTTL,
	}, nil
}

// Authenticate checks the credentials and issues a bearer token bound to the
// username. Unknown usernames and wrong passwords collapse into the same
// error so the login endpoint cannot be used to enumerate accounts; only a
// correct password on a disabled account reveals the "Inactive user" state.
func (s *AuthService) Authenticate(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to look up user for login",
			zap.String("username", username),
			zap.Error(err),
		)
		return "", err
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found",
			zap.String("username", username),
		)
		s.record(audit.EventLoginFailed, username, "unknown user")
		return "", ErrInvalidCredentials
	}

	// An account whose password was never set cannot authenticate; the hash
	// decode error is deliberately folded into the credentials failure.
	valid, err := utils.VerifyPassword(password, user.Password)
	if err != nil || !valid {
		logger.Log.Warn("Login failed: password mismatch",
			zap.String("username", username),
			zap.Uint("user_id", user.ID),
		)
		s.record(audit.EventLoginFailed, username, "wrong password")
		return "", ErrInvalidCredentials
	}

	// Checked after credential verification, matching the token endpoint's
	// documented behavior.
	if user.Disabled {
		logger.Log.Warn("Login failed: inactive account",
			zap.String("username", username),
			zap.Uint("user_id", user.ID),
		)
		s.record(audit.EventLoginFailed, username, "inactive account")
		return "", ErrInactiveUser
	}

	token, err := utils.GenerateToken(user.Username, s.jwtSecret, s.signingMethod, s.tokenTTL)
	if err != nil {
		logger.Log.Error("Failed to generate token",
			zap.String("username", username),
			zap.Error(err),
		)
		return "", err
	}

	s.record(audit.EventLoginSucceeded, username, "")

	logger.Log.Info("User logged in",
		zap.String("username", username),
		zap.Uint("user_id", user.ID),
	)

	return token, nil
}

// CurrentUser validates a bearer token and resolves its subject to a live
// user record. Every validation failure collapses into
// ErrInvalidAuthCredentials; no revocation list exists, so tokens stay valid
// until natural expiry.
func (s *AuthService) CurrentUser(token string) (*models.User, error) {
	claims, err := utils.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, ErrInvalidAuthCredentials
	}

	user, err := s.userRepo.GetByUsername(claims.Subject)
	if err != nil {
		logger.Log.Error("Failed to resolve token subject",
			zap.String("subject", claims.Subject),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidAuthCredentials
	}

	return user, nil
}

func (s *AuthService) record(event, username, detail string) {
	if s.trail == nil {
		return
	}
	if err := s.trail.Record(audit.Entry{Event: event, Username: username, Detail: detail}); err != nil {
		logger.Log.Warn("Failed to record audit entry",
			zap.String("event", event),
			zap.Error(err),
		)
	}
}
