package service_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nerdnum/accounts-api/internal/audit"
	"github.com/nerdnum/accounts-api/internal/repository"
	"github.com/nerdnum/accounts-api/internal/service"
	"github.com/nerdnum/accounts-api/internal/testutil"
	"github.com/nerdnum/accounts-api/internal/utils"
	"github.com/nerdnum/accounts-api/pkg/logger"
	"github.com/stretchr/testify/suite"
)

const (
	authTestSecret   = "auth-service-test-secret"
	authTestPassword = "Correct123!"
)

type AuthServiceTestSuite struct {
	suite.Suite
	testDB      *testutil.TestDatabase
	trail       *audit.Trail
	authService *service.AuthService
	userService *service.UserService
}

func (s *AuthServiceTestSuite) SetupSuite() {
	logger.Init(false)

	s.testDB = testutil.SetupTestDatabase(s.T())

	trail, err := audit.Open(filepath.Join(s.T().TempDir(), "audit.log"))
	s.Require().NoError(err)
	s.trail = trail

	userRepo := repository.NewUserRepository(s.testDB.DB)
	roleRepo := repository.NewRoleRepository(s.testDB.DB)

	s.authService, err = service.NewAuthService(userRepo, trail, authTestSecret, "HS256", 1*time.Hour)
	s.Require().NoError(err)
	s.userService = service.NewUserService(userRepo, roleRepo, trail)
}

func (s *AuthServiceTestSuite) TearDownSuite() {
	s.trail.Close()
	s.testDB.Teardown(s.T())
}

func (s *AuthServiceTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

// createAccount persists a fixture user holding the suite's password hash.
func (s *AuthServiceTestSuite) createAccount(username string, active bool) uint {
	user, err := testutil.NewTestUser(username, "Test User", username+"@example.com", authTestPassword, active)
	s.Require().NoError(err)
	s.Require().NoError(s.testDB.DB.Create(user).Error)
	return user.ID
}

func (s *AuthServiceTestSuite) TestAuthenticate_Success() {
	s.createAccount("alice", true)

	token, err := s.authService.Authenticate("alice", authTestPassword)
	s.Require().NoError(err)
	s.NotEmpty(token)

	claims, err := utils.ValidateToken(token, authTestSecret)
	s.Require().NoError(err)
	s.Equal("alice", claims.Subject, "Token subject should be the username")
}

func (s *AuthServiceTestSuite) TestAuthenticate_DefaultFixture() {
	user, err := testutil.DefaultTestUser()
	s.Require().NoError(err)
	s.Require().NoError(s.testDB.DB.Create(user).Error)

	token, err := s.authService.Authenticate(user.Username, testutil.DefaultTestPassword)
	s.Require().NoError(err)
	s.NotEmpty(token)
}

func (s *AuthServiceTestSuite) TestAuthenticate_UnknownUsername() {
	_, err := s.authService.Authenticate("nobody", authTestPassword)
	s.ErrorIs(err, service.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestAuthenticate_WrongPassword() {
	s.createAccount("alice", true)

	_, err := s.authService.Authenticate("alice", "Wrong123!")
	s.ErrorIs(err, service.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestAuthenticate_PasswordNeverSet() {
	user, err := s.userService.Create("alice", "Alice A", "alice@example.com")
	s.Require().NoError(err)
	_, err = s.userService.Activate(user.ID)
	s.Require().NoError(err)

	_, err = s.authService.Authenticate("alice", authTestPassword)
	s.ErrorIs(err, service.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestAuthenticate_InactiveAccount() {
	s.createAccount("alice", false)

	// Correct password on a disabled account reveals the inactive state
	_, err := s.authService.Authenticate("alice", authTestPassword)
	s.ErrorIs(err, service.ErrInactiveUser)

	// Wrong password on a disabled account stays a credentials failure
	_, err = s.authService.Authenticate("alice", "Wrong123!")
	s.ErrorIs(err, service.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestAuthenticate_Lifecycle() {
	id := s.createAccount("alice", false)

	// Disabled account cannot log in even with the correct password
	_, err := s.authService.Authenticate("alice", authTestPassword)
	s.ErrorIs(err, service.ErrInactiveUser)

	// Activation unlocks login
	_, err = s.userService.Activate(id)
	s.Require().NoError(err)
	token, err := s.authService.Authenticate("alice", authTestPassword)
	s.Require().NoError(err)
	claims, err := utils.ValidateToken(token, authTestSecret)
	s.Require().NoError(err)
	s.Equal("alice", claims.Subject)

	// Deactivation locks it again for the same credentials
	_, err = s.userService.Deactivate(id)
	s.Require().NoError(err)
	_, err = s.authService.Authenticate("alice", authTestPassword)
	s.ErrorIs(err, service.ErrInactiveUser)
}

func (s *AuthServiceTestSuite) TestCurrentUser_Success() {
	id := s.createAccount("alice", true)

	token, err := s.authService.Authenticate("alice", authTestPassword)
	s.Require().NoError(err)

	user, err := s.authService.CurrentUser(token)
	s.Require().NoError(err)
	s.Equal(id, user.ID)
	s.Equal("alice", user.Username)
}

func (s *AuthServiceTestSuite) TestCurrentUser_InvalidToken() {
	_, err := s.authService.CurrentUser("not-a-token")
	s.ErrorIs(err, service.ErrInvalidAuthCredentials)
}

func (s *AuthServiceTestSuite) TestCurrentUser_DeletedSubject() {
	id := s.createAccount("alice", true)

	token, err := s.authService.Authenticate("alice", authTestPassword)
	s.Require().NoError(err)

	s.Require().NoError(s.userService.Delete(id))

	// The token is still cryptographically valid but its subject is gone
	_, err = s.authService.CurrentUser(token)
	s.ErrorIs(err, service.ErrInvalidAuthCredentials)
}

func (s *AuthServiceTestSuite) TestCurrentUser_ExpiredToken() {
	s.createAccount("alice", true)

	// A well-signed token whose expiry already passed
	claims := &utils.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(authTestSecret))
	s.Require().NoError(err)

	_, err = s.authService.CurrentUser(token)
	s.ErrorIs(err, service.ErrInvalidAuthCredentials)
}

func (s *AuthServiceTestSuite) TestNewAuthService_RejectsUnknownAlgorithm() {
	userRepo := repository.NewUserRepository(s.testDB.DB)
	_, err := service.NewAuthService(userRepo, nil, authTestSecret, "RS256", time.Hour)
	s.ErrorIs(err, utils.ErrUnknownSigningMethod)
}

func (s *AuthServiceTestSuite) TestAuthenticate_RecordsAuditEvents() {
	s.createAccount("audituser", true)

	_, err := s.authService.Authenticate("audituser", "Wrong123!")
	s.Require().Error(err)
	_, err = s.authService.Authenticate("audituser", authTestPassword)
	s.Require().NoError(err)

	entries, err := s.trail.Entries()
	s.Require().NoError(err)

	var failed, succeeded bool
	for _, entry := range entries {
		if entry.Username != "audituser" {
			continue
		}
		switch entry.Event {
		case audit.EventLoginFailed:
			failed = true
		case audit.EventLoginSucceeded:
			succeeded = true
		}
	}
	s.True(failed, "Failed login should be recorded")
	s.True(succeeded, "Successful login should be recorded")
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
