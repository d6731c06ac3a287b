package repository

import (
	"errors"

	"github.com/nerdnum/accounts-api/internal/models"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(role *models.Role) error {
	return r.db.Create(role).Error
}

func (r *RoleRepository) GetAll() ([]*models.Role, error) {
	var roles []*models.Role
	err := r.db.Order("id").Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *RoleRepository) GetByID(id uint) (*models.Role, error) {
	var role models.Role
	err := r.db.First(&role, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &role, nil
}

func (r *RoleRepository) GetByUUID(uuid string) (*models.Role, error) {
	var role models.Role
	err := r.db.Where("uuid = ?", uuid).First(&role).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &role, nil
}

// GetWithUsers loads a role together with its member users.
func (r *RoleRepository) GetWithUsers(id uint) (*models.Role, error) {
	var role models.Role
	err := r.db.Preload("Users").First(&role, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &role, nil
}

// Update applies the given column values in a single statement, so a
// constraint violation leaves the record untouched.
func (r *RoleRepository) Update(role *models.Role, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(role).Updates(updates).Error
}

// Delete removes the role and any user associations in one transaction.
func (r *RoleRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&models.UserRoleAssociation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Role{}, id).Error
	})
}
