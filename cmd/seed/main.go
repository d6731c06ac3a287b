package main

import (
	"log"
	"os"

	"github.com/nerdnum/accounts-api/internal/audit"
	"github.com/nerdnum/accounts-api/internal/config"
	"github.com/nerdnum/accounts-api/internal/database"
	"github.com/nerdnum/accounts-api/internal/repository"
	"github.com/nerdnum/accounts-api/internal/service"
	"github.com/nerdnum/accounts-api/pkg/logger"
)

// Seeds an activated admin account holding the admin role, for bootstrapping
// a fresh database.
func main() {
	cfg := config.Load()

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminFullName := os.Getenv("ADMIN_FULL_NAME")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminUsername == "" || adminEmail == "" || adminPassword == "" {
		log.Fatal("Missing environment variables: ADMIN_USERNAME, ADMIN_EMAIL, ADMIN_PASSWORD")
	}
	if adminFullName == "" {
		adminFullName = adminUsername
	}

	trail, err := audit.Open(cfg.AuditLogPath)
	if err != nil {
		log.Fatalf("Failed to open audit trail: %v", err)
	}
	defer trail.Close()

	userRepo := repository.NewUserRepository(database.DB)
	roleRepo := repository.NewRoleRepository(database.DB)
	userService := service.NewUserService(userRepo, roleRepo, trail)
	roleService := service.NewRoleService(roleRepo)

	user, err := userService.Create(adminUsername, adminFullName, adminEmail)
	if err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	if _, err := userService.SetPassword(user.ID, adminPassword); err != nil {
		log.Fatalf("Failed to set admin password: %v", err)
	}

	if _, err := userService.Activate(user.ID); err != nil {
		log.Fatalf("Failed to activate admin user: %v", err)
	}

	description := "Administrators"
	role, err := roleService.Create("admin", &description)
	if err != nil {
		log.Fatalf("Failed to create admin role: %v", err)
	}

	if _, err := userService.AddRole(user.ID, role.ID); err != nil {
		log.Fatalf("Failed to grant admin role: %v", err)
	}

	log.Printf("Admin user %q created and activated (id=%d)", adminUsername, user.ID)
}
