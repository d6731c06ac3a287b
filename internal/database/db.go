package database

import (
	"log"

	"github.com/nerdnum/accounts-api/internal/config"
	"github.com/nerdnum/accounts-api/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	var err error

	// TranslateError lets unique-constraint violations surface as
	// gorm.ErrDuplicatedKey instead of driver-specific errors.
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})

	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}

	log.Println("Database connected successfully")
}

func Migrate() {
	// The join table is a real entity with its own id and timestamps, so it
	// must be registered before AutoMigrate sees the many2many relations.
	if err := DB.SetupJoinTable(&models.User{}, "Roles", &models.UserRoleAssociation{}); err != nil {
		log.Fatal("Join table setup failed:", err)
	}
	if err := DB.SetupJoinTable(&models.Role{}, "Users", &models.UserRoleAssociation{}); err != nil {
		log.Fatal("Join table setup failed:", err)
	}

	err := DB.AutoMigrate(&models.User{}, &models.Role{}, &models.UserRoleAssociation{})

	if err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Database migration completed")
}
