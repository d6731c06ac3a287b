package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nerdnum/accounts-api/internal/audit"
	"github.com/nerdnum/accounts-api/internal/config"
	"github.com/nerdnum/accounts-api/internal/database"
	"github.com/nerdnum/accounts-api/internal/handler"
	"github.com/nerdnum/accounts-api/internal/middleware"
	"github.com/nerdnum/accounts-api/internal/repository"
	"github.com/nerdnum/accounts-api/internal/service"
	"github.com/nerdnum/accounts-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	log.Println("Config loaded successfully")

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	// Audit trail of account and authentication events
	trail, err := audit.Open(cfg.AuditLogPath)
	if err != nil {
		log.Fatalf("Failed to open audit trail: %v", err)
	}
	defer trail.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.DB)
	roleRepo := repository.NewRoleRepository(database.DB)

	// Initialize services
	authService, err := service.NewAuthService(userRepo, trail, cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}
	userService := service.NewUserService(userRepo, roleRepo, trail)
	roleService := service.NewRoleService(roleRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService, cfg.Environment)
	roleHandler := handler.NewRoleHandler(roleService, userService)

	// Setup Gin router
	router := gin.Default()
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(cfg.IsProduction()))
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		router.Use(cors.New(corsConfig))
	} else {
		router.Use(cors.Default())
	}

	// Login throttling: no Redis configured means no limiter, which is fine
	// for local development.
	loginMiddleware := []gin.HandlerFunc{}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		limiter := middleware.NewLoginRateLimiter(redis.NewClient(opts), middleware.LoginRateConfig{
			MaxAttempts: cfg.LoginRateMaxAttempts,
			Window:      cfg.LoginRateWindow,
		})
		loginMiddleware = append(loginMiddleware, limiter.Middleware())
	} else {
		log.Println("No REDIS_URL set, login rate limiting disabled")
	}

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/token", append(loginMiddleware, authHandler.Login)...)
	auth.GET("/me", middleware.RequireUser(authService), middleware.RequireActiveUser(), authHandler.Me)
	auth.POST("/users/:id/set_auth", authHandler.SetPassword)

	users := api.Group("/users")
	users.GET("/", userHandler.List)
	users.POST("/", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)
	users.GET("/username/:username", userHandler.GetByUsername)
	users.GET("/uuid/:uuid", userHandler.GetByUUID)
	users.POST("/:id/role/:role_id", userHandler.AddRole)
	users.GET("/:id/roles", userHandler.GetRoles)
	users.DELETE("/:id/role/:role_id", userHandler.RemoveRole)
	users.PUT("/activate/:id", userHandler.Activate)
	users.PUT("/deactivate/:id", userHandler.Deactivate)

	roles := api.Group("/roles")
	roles.GET("/", roleHandler.List)
	roles.POST("/", roleHandler.Create)
	roles.GET("/:id", roleHandler.Get)
	roles.PUT("/:id", roleHandler.Update)
	roles.DELETE("/:id", roleHandler.Delete)
	roles.GET("/uuid/:uuid", roleHandler.GetByUUID)
	roles.POST("/:id/user/:user_id", roleHandler.AddUser)
	roles.GET("/:id/users", roleHandler.GetUsers)
	roles.DELETE("/:id/user/:user_id", roleHandler.RemoveUser)

	// Start server
	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
