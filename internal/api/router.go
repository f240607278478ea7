package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/zabilal/sims-api/docs"
	"github.com/zabilal/sims-api/internal/api/handler"
	"github.com/zabilal/sims-api/internal/api/middleware"
	"github.com/zabilal/sims-api/internal/core/domain"
	"github.com/zabilal/sims-api/internal/core/ports"
	"github.com/zabilal/sims-api/internal/core/service"
	mongodb "github.com/zabilal/sims-api/internal/infrastructure/db/mongo"
	redisdb "github.com/zabilal/sims-api/internal/infrastructure/db/redis"
	"github.com/zabilal/sims-api/internal/infrastructure/http/handlers"
)

// AuthSettings carries the token-signing parameters the router wires into the
// token service.
type AuthSettings struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, auth AuthSettings, mailer ports.Mailer, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("sims"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	tokenRepo := mongodb.NewTokenRepository(db)
	schoolRepo := mongodb.NewSchoolRepository(db)
	studentRepo := mongodb.NewStudentRepository(db)

	// --- Services ---
	roles := domain.DefaultRolePermissions()
	tokenService := service.NewTokenService(tokenRepo, auth.JWTSecret, auth.AccessTTL, auth.RefreshTTL, auth.ResetTTL, log)
	authService := service.NewAuthService(userRepo, tokenRepo, tokenService, mailer, redisdb.NewResetLimiter(rdb), log)
	userService := service.NewUserService(userRepo, roles, log)
	schoolService := service.NewSchoolService(schoolRepo, userService, mailer, log)
	studentService := service.NewStudentService(studentRepo, schoolRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	schoolHandler := handler.NewSchoolHandler(schoolService)
	studentHandler := handler.NewStudentHandler(studentService)

	authorize := middleware.NewAuthorizer(tokenService, userRepo, roles)

	// --- Auth routes ---
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.POST("/refresh-tokens", authHandler.RefreshTokens)
	authGroup.POST("/forgot-password", authHandler.ForgotPassword)
	authGroup.POST("/reset-password", authHandler.ResetPassword)

	// --- User routes ---
	users := e.Group("/v1/users")
	users.POST("", userHandler.Create, authorize.Require(domain.PermManageUsers))
	users.GET("", userHandler.List, authorize.Require(domain.PermGetUsers))
	users.GET("/:userId", userHandler.Get, authorize.Require(domain.PermGetUsers))
	users.PATCH("/:userId", userHandler.Update, authorize.Require(domain.PermManageUsers))
	users.DELETE("/:userId", userHandler.Delete, authorize.Require(domain.PermManageUsers))

	// --- School routes ---
	// Registration is open: it is how a new tenant and its admin come to exist.
	schools := e.Group("/v1/schools")
	schools.POST("", schoolHandler.Register)
	schools.GET("", schoolHandler.List, authorize.Require(domain.PermGetSchools))
	schools.GET("/tenant/:tenantId", schoolHandler.GetByTenant, authorize.Require(domain.PermGetSchools))
	schools.GET("/:schoolId", schoolHandler.Get, authorize.Require(domain.PermGetSchools))
	schools.PATCH("/:schoolId", schoolHandler.Update, authorize.Require(domain.PermManageSchools))
	schools.DELETE("/:schoolId", schoolHandler.Delete, authorize.Require(domain.PermManageSchools))

	// --- Student routes ---
	students := e.Group("/v1/students")
	students.POST("", studentHandler.Create, authorize.Require(domain.PermManageStudents))
	students.GET("", studentHandler.List, authorize.Require(domain.PermGetStudents))
	students.GET("/:studentId", studentHandler.Get, authorize.Require(domain.PermGetStudents))
	students.PATCH("/:studentId", studentHandler.Update, authorize.Require(domain.PermManageStudents))
	students.DELETE("/:studentId", studentHandler.Delete, authorize.Require(domain.PermManageStudents))

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
