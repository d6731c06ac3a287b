package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/nerdnum/accounts-api/internal/audit"
	"github.com/nerdnum/accounts-api/internal/models"
	"github.com/nerdnum/accounts-api/internal/repository"
	"github.com/nerdnum/accounts-api/internal/utils"
	"github.com/nerdnum/accounts-api/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo *repository.UserRepository
	roleRepo *repository.RoleRepository
	trail    *audit.Trail
}

func NewUserService(userRepo *repository.UserRepository, roleRepo *repository.RoleRepository, trail *audit.Trail) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		trail:    trail,
	}
}

// UserUpdate carries the optional fields of a partial update. A nil field is
// left untouched; a non-nil field is written even when it is empty.
type UserUpdate struct {
	Username *string
	FullName *string
	Email    *string
}

// Create registers a new account. The user starts disabled with no password;
// activation and password setup are separate steps.
func (s *UserService) Create(username, fullName, email string) (*models.User, error) {
	user := &models.User{
		UUID:     uuid.New().String(),
		Username: username,
		FullName: fullName,
		Email:    email,
		Disabled: true,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Log.Warn("User creation rejected: duplicate email",
				zap.String("email", email),
			)
			return nil, ErrEmailExists
		}
		logger.Log.Error("Failed to create user",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("User created",
		zap.Uint("user_id", user.ID),
		zap.String("username", username),
		zap.String("uuid", user.UUID),
	)

	return user, nil
}

func (s *UserService) List() ([]*models.User, error) {
	return s.userRepo.GetAll()
}

func (s *UserService) Get(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) GetByUUID(uuid string) (*models.User, error) {
	user, err := s.userRepo.GetByUUID(uuid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) GetByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetWithRoles returns the user with its role memberships loaded.
func (s *UserService) GetWithRoles(id uint) (*models.User, error) {
	user, err := s.userRepo.GetWithRoles(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update applies a partial update. Only fields provided in upd are written;
// the uuid is immutable and never part of an update.
func (s *UserService) Update(id uint, upd UserUpdate) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if upd.Username != nil {
		updates["username"] = *upd.Username
	}
	if upd.FullName != nil {
		updates["full_name"] = *upd.FullName
	}
	if upd.Email != nil {
		updates["email"] = *upd.Email
	}

	if err := s.userRepo.Update(user, updates); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Log.Warn("User update rejected: duplicate email",
				zap.Uint("user_id", id),
			)
			return nil, ErrEmailExists
		}
		logger.Log.Error("Failed to update user",
			zap.Uint("user_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	return user, nil
}

// SetPassword hashes and stores a new password for the user.
func (s *UserService) SetPassword(id uint, password string) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password",
			zap.Uint("user_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.userRepo.SetPassword(user, hashedPassword); err != nil {
		logger.Log.Error("Failed to store password",
			zap.Uint("user_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	s.record(audit.EventPasswordSet, user.Username, "")

	logger.Log.Info("Password set",
		zap.Uint("user_id", id),
		zap.String("username", user.Username),
	)

	return user, nil
}

// Activate clears the disabled flag so the account can authenticate.
func (s *UserService) Activate(id uint) (*models.User, error) {
	return s.setDisabled(id, false, audit.EventUserActivated)
}

// Deactivate sets the disabled flag, blocking authentication regardless of
// credential validity.
func (s *UserService) Deactivate(id uint) (*models.User, error) {
	return s.setDisabled(id, true, audit.EventUserDeactivated)
}

func (s *UserService) setDisabled(id uint, disabled bool, event string) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetDisabled(user, disabled); err != nil {
		logger.Log.Error("Failed to change account state",
			zap.Uint("user_id", id),
			zap.Bool("disabled", disabled),
			zap.Error(err),
		)
		return nil, err
	}

	s.record(event, user.Username, "")

	logger.Log.Info("Account state changed",
		zap.Uint("user_id", id),
		zap.String("username", user.Username),
		zap.Bool("disabled", disabled),
	)

	return user, nil
}

func (s *UserService) Delete(id uint) error {
	user, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		logger.Log.Error("Failed to delete user",
			zap.Uint("user_id", id),
			zap.Error(err),
		)
		return err
	}

	s.record(audit.EventUserDeleted, user.Username, "")

	logger.Log.Info("User deleted",
		zap.Uint("user_id", id),
		zap.String("username", user.Username),
	)

	return nil
}

// AddRole grants a role to a user and returns the user with its memberships.
func (s *UserService) AddRole(userID, roleID uint) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	role, err := s.roleRepo.GetByID(roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}

	if err := s.userRepo.AddRole(userID, roleID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Log.Warn("Role grant rejected: association exists",
				zap.Uint("user_id", userID),
				zap.Uint("role_id", roleID),
			)
			return nil, ErrAssociationExists
		}
		logger.Log.Error("Failed to grant role",
			zap.Uint("user_id", userID),
			zap.Uint("role_id", roleID),
			zap.Error(err),
		)
		return nil, err
	}

	s.record(audit.EventRoleGranted, user.Username, role.Name)

	logger.Log.Info("Role granted",
		zap.Uint("user_id", userID),
		zap.String("username", user.Username),
		zap.String("role", role.Name),
	)

	return s.GetWithRoles(userID)
}

// RemoveRole revokes a role from a user.
func (s *UserService) RemoveRole(userID, roleID uint) error {
	user, err := s.Get(userID)
	if err != nil {
		return err
	}

	role, err := s.roleRepo.GetByID(roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return ErrRoleNotFound
	}

	if err := s.userRepo.RemoveRole(userID, roleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssociationNotFound
		}
		logger.Log.Error("Failed to revoke role",
			zap.Uint("user_id", userID),
			zap.Uint("role_id", roleID),
			zap.Error(err),
		)
		return err
	}

	s.record(audit.EventRoleRevoked, user.Username, role.Name)

	logger.Log.Info("Role revoked",
		zap.Uint("user_id", userID),
		zap.String("username", user.Username),
		zap.String("role", role.Name),
	)

	return nil
}

// record writes an audit entry. The trail is best-effort: failures are
// logged, never surfaced to the caller.
func (s *UserService) record(event, username, detail string) {
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
