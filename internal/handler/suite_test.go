package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nerdnum/accounts-api/internal/handler"
	"github.com/nerdnum/accounts-api/internal/middleware"
	"github.com/nerdnum/accounts-api/internal/repository"
	"github.com/nerdnum/accounts-api/internal/service"
	"github.com/nerdnum/accounts-api/internal/testutil"
	"github.com/nerdnum/accounts-api/pkg/logger"
)

const handlerTestSecret = "handler-integration-test-secret"

// testEnv wires the full HTTP stack against an in-memory database, mirroring
// the route table of cmd/server.
type testEnv struct {
	testDB      *testutil.TestDatabase
	router      *gin.Engine
	userService *service.UserService
	roleService *service.RoleService
	authService *service.AuthService
}

func setupTestEnv(t *testing.T, environment string) *testEnv {
	gin.SetMode(gin.TestMode)
	logger.Init(false)

	testDB := testutil.SetupTestDatabase(t)

	userRepo := repository.NewUserRepository(testDB.DB)
	roleRepo := repository.NewRoleRepository(testDB.DB)

	authService, err := service.NewAuthService(userRepo, nil, handlerTestSecret, "HS256", 1*time.Hour)
	if err != nil {
		t.Fatalf("Failed to build auth service: %v", err)
	}
	userService := service.NewUserService(userRepo, roleRepo, nil)
	roleService := service.NewRoleService(roleRepo)

	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService, environment)
	roleHandler := handler.NewRoleHandler(roleService, userService)

	router := gin.New()
	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/token", authHandler.Login)
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

	return &testEnv{
		testDB:      testDB,
		router:      router,
		userService: userService,
		roleService: roleService,
		authService: authService,
	}
}

// doJSON performs a request with an optional JSON body and optional bearer
// token, returning the recorded response.
func (e *testEnv) doJSON(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// doLogin posts form-encoded credentials to the token endpoint.
func (e *testEnv) doLogin(t *testing.T, username, password string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, _ := http.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body %q: %v", w.Body.String(), err)
	}
	return body
}

// decodeList unmarshals a JSON array response body.
func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	var body []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body %q: %v", w.Body.String(), err)
	}
	return body
}
