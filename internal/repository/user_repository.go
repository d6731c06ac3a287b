package repository

import (
	"errors"

	"github.com/nerdnum/accounts-api/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetAll() ([]*models.User, error) {
	var users []*models.User
	err := r.db.Order("id").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetByUUID(uuid string) (*models.User, error) {
	var user models.User
	// First() takes the lowest id should the unique index ever be violated.
	err := r.db.Where("uuid = ?", uuid).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// GetWithRoles loads a user together with its role memberships.
func (r *UserRepository) GetWithRoles(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Roles").First(&user, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// Update applies the given column values to the user row in a single
// statement, so a constraint violation leaves the record untouched.
// The fields of user are refreshed on success.
func (r *UserRepository) Update(user *models.User, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(user).Updates(updates).Error
}

func (r *UserRepository) SetPassword(user *models.User, hashedPassword string) error {
	return r.db.Model(user).Update("password", hashedPassword).Error
}

func (r *UserRepository) SetDisabled(user *models.User, disabled bool) error {
	return r.db.Model(user).Update("disabled", disabled).Error
}

// Delete removes the user and any role associations in one transaction.
func (r *UserRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.UserRoleAssociation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}

// AddRole creates a (user, role) association. The pre-check keeps the common
// duplicate case cheap; the unique index is the backstop for concurrent
// grants, so both paths report gorm.ErrDuplicatedKey.
func (r *UserRepository) AddRole(userID, roleID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.UserRoleAssociation{}).
			Where("user_id = ? AND role_id = ?", userID, roleID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrDuplicatedKey
		}

		return tx.Create(&models.UserRoleAssociation{UserID: userID, RoleID: roleID}).Error
	})
}

// RemoveRole deletes a (user, role) association. Reports
// gorm.ErrRecordNotFound when the pair does not exist.
func (r *UserRepository) RemoveRole(userID, roleID uint) error {
	result := r.db.Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&models.UserRoleAssociation{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
