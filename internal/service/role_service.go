package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/nerdnum/accounts-api/internal/models"
	"github.com/nerdnum/accounts-api/internal/repository"
	"github.com/nerdnum/accounts-api/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RoleService struct {
	roleRepo *repository.RoleRepository
}

func NewRoleService(roleRepo *repository.RoleRepository) *RoleService {
	return &RoleService{roleRepo: roleRepo}
}

// RoleUpdate carries the optional fields of a partial update.
type RoleUpdate struct {
	Name        *string
	Description *string
}

func (s *RoleService) Create(name string, description *string) (*models.Role, error) {
	role := &models.Role{
		UUID:        uuid.New().String(),
		Name:        name,
		Description: description,
		Disabled:    true,
	}

	if err := s.roleRepo.Create(role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Log.Warn("Role creation rejected: duplicate name",
				zap.String("name", name),
			)
			return nil, ErrRoleNameExists
		}
		logger.Log.Error("Failed to create role",
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Role created",
		zap.Uint("role_id", role.ID),
		zap.String("name", name),
	)

	return role, nil
}

func (s *RoleService) List() ([]*models.Role, error) {
	return s.roleRepo.GetAll()
}

func (s *RoleService) Get(id uint) (*models.Role, error) {
	role, err := s.roleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}
	return role, nil
}

func (s *RoleService) GetByUUID(uuid string) (*models.Role, error) {
	role, err := s.roleRepo.GetByUUID(uuid)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}
	return role, nil
}

// GetWithUsers returns the role with its member users loaded.
func (s *RoleService) GetWithUsers(id uint) (*models.Role, error) {
	role, err := s.roleRepo.GetWithUsers(id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}
	return role, nil
}

// Update applies a partial update; only non-nil fields are written.
func (s *RoleService) Update(id uint, upd RoleUpdate) (*models.Role, error) {
	role, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}

	if err := s.roleRepo.Update(role, updates); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Log.Warn("Role update rejected: duplicate name",
				zap.Uint("role_id", id),
			)
			return nil, ErrRoleNameExists
		}
		logger.Log.Error("Failed to update role",
			zap.Uint("role_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	return role, nil
}

func (s *RoleService) Delete(id uint) error {
	role, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := s.roleRepo.Delete(id); err != nil {
		logger.Log.Error("Failed to delete role",
			zap.Uint("role_id", id),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Role deleted",
		zap.Uint("role_id", id),
		zap.String("name", role.Name),
	)

	return nil
}
