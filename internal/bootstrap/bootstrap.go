package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/schoolms/internal/app/auth"
	appControllers "github.com/yigit/schoolms/internal/app/controllers"
	appMigrations "github.com/yigit/schoolms/internal/app/migrations"
	appRepos "github.com/yigit/schoolms/internal/app/repositories"
	appRoutes "github.com/yigit/schoolms/internal/app/routes"
	appServices "github.com/yigit/schoolms/internal/app/services"
	"github.com/yigit/schoolms/internal/config"
	"github.com/yigit/schoolms/internal/db"
	appMiddleware "github.com/yigit/schoolms/internal/middleware"
	pkgAuth "github.com/yigit/schoolms/internal/pkg/auth"
	"github.com/yigit/schoolms/internal/pkg/logger"
	"github.com/yigit/schoolms/internal/pkg/validation"
	"github.com/yigit/schoolms/internal/seed"
)

// DefaultConfigPath is used when no -config flag is given.
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	DB     *db.PostgresDB
	Repos  *appRepos.Repositories
	Logger zerolog.Logger

	JWTService   *pkgAuth.JWTService
	AuthzService *appAuth.AuthorizationService

	AuthService       *appServices.AuthService
	DepartmentService *appServices.DepartmentService
	SubjectService    *appServices.SubjectService
	StudentService    *appServices.StudentService
	ReportService     *appServices.ReportService
	DashboardService  *appServices.DashboardService
	RecordsService    *appServices.RecordsService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to PostgreSQL and, when runMigrations is set, applies pending migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger, runMigrations bool) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	if !runMigrations {
		return database, nil
	}
	if err := Migrate(ctx, cfg, database, lgr); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// Migrate applies every pending migration from the configured directory.
func Migrate(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	migrationsDir := cfg.Server.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{DB: database, Logger: lgr}
	repos := appRepos.NewRepositories(database.Pool)
	deps.Repos = repos

	deps.AuthzService = appAuth.NewAuthorizationService(repos.ProfileRepository, repos.StudentRepository)
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Session.Secret,
		SessionTTL:  cfg.SessionLifetime(),
		TokenIssuer: cfg.Session.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		repos.UserRepository,
		repos.SessionRepository,
		deps.AuthzService,
		deps.JWTService,
		lgr,
	)
	deps.DepartmentService = appServices.NewDepartmentService(repos.DepartmentRepository, lgr)
	deps.SubjectService = appServices.NewSubjectService(repos.SubjectRepository, lgr)
	deps.ReportService = appServices.NewReportService(repos.ReportRepository, repos.SubjectRepository, lgr)
	deps.StudentService = appServices.NewStudentService(
		repos.StudentRepository,
		repos.MarksRepository,
		repos.AttendanceRepository,
		repos.FeeRepository,
		repos.ReportRepository,
		lgr,
	)
	deps.DashboardService = appServices.NewDashboardService(
		deps.StudentService,
		deps.ReportService,
		repos.StudentRepository,
		repos.DepartmentRepository,
		repos.SubjectRepository,
		repos.MarksRepository,
		repos.AttendanceRepository,
		repos.FeeRepository,
		lgr,
	)
	deps.RecordsService = appServices.NewRecordsService(
		repos.UserRepository,
		repos.ProfileRepository,
		repos.DepartmentRepository,
		repos.SubjectRepository,
		repos.StudentRepository,
		repos.MarksRepository,
		repos.AttendanceRepository,
		repos.FeeRepository,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService, lgr)

	deps.Controllers = appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.AuthService, lgr),
		Student:    appControllers.NewStudentController(deps.StudentService),
		Report:     appControllers.NewReportController(deps.ReportService),
		Dashboard:  appControllers.NewDashboardController(deps.DashboardService),
		Department: appControllers.NewDepartmentController(deps.DepartmentService, deps.SubjectService),
		Records:    appControllers.NewRecordsController(deps.RecordsService),
		Health:     appControllers.NewHealthController(database, lgr),
	}
	return deps
}

// NewSeeder wires the seeder to the repositories. A zero randomSeed picks a random seed.
func NewSeeder(deps *Dependencies, randomSeed int64) *seed.Seeder {
	return seed.NewSeeder(seed.Stores{
		Departments: deps.Repos.DepartmentRepository,
		Subjects:    deps.Repos.SubjectRepository,
		Students:    deps.Repos.StudentRepository,
		Marks:       deps.Repos.MarksRepository,
		Attendance:  deps.Repos.AttendanceRepository,
		Fees:        deps.Repos.FeeRepository,
	}, seed.NewFaker(randomSeed), deps.Logger)
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterBindingValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.Sessions(appMiddleware.NewSessionStore(appMiddleware.SessionConfig{
		Secret: cfg.Server.CookieSecret,
		Secure: cfg.Server.SecureCookies,
		MaxAge: int(cfg.SessionLifetime().Seconds()),
	})))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)
	return router, nil
}
