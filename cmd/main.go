package main

import (
	"context"
	"net/http"
	"time"

	"lingoquiz-backend/config"
	"lingoquiz-backend/database"
	_ "lingoquiz-backend/docs" // Swagger docs - auto-generated
	adminctrl "lingoquiz-backend/internal/controller/admin"
	userctrl "lingoquiz-backend/internal/controller/user"
	"lingoquiz-backend/internal/logger"
	"lingoquiz-backend/internal/model"
	"lingoquiz-backend/internal/repository"
	"lingoquiz-backend/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const testCacheTTL = 5 * time.Minute

// @title LingoQuiz API
// @version 1.0
// @description Test submission and progression API: scoring, progress, streaks, levels and achievements.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		// Repositories layer
		fx.Provide(
			repository.NewTestRepository,
			repository.NewCategoryRepository,
			repository.NewProgressRepository,
			repository.NewUserRepository,
			repository.NewAchievementRepository,
			func(testRepo repository.TestRepository) *repository.TestDefinitionCache {
				return repository.NewTestDefinitionCache(testRepo, testCacheTTL)
			},
		),

		// Services layer
		fx.Provide(
			service.NewScoringService,
			service.NewAchievementService,
			service.NewTestService,
			service.NewUserService,
			service.NewAdminTestService,
			// ProgressService needs *gorm.DB directly for the submission transaction
			func(
				tests *repository.TestDefinitionCache,
				testRepo repository.TestRepository,
				progressRepo repository.ProgressRepository,
				categoryRepo repository.CategoryRepository,
				scoring service.ScoringService,
				achievements service.AchievementService,
				db *gorm.DB,
			) service.ProgressService {
				return service.NewProgressService(tests, testRepo, progressRepo, categoryRepo, scoring, achievements, db)
			},
		),

		// API controllers layer
		fx.Provide(
			userctrl.NewTestController,
			userctrl.NewProfileController,
			adminctrl.NewAdminTestController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(SeedAchievements),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	testCtrl *userctrl.TestController,
	profileCtrl *userctrl.ProfileController,
	adminTestCtrl *adminctrl.AdminTestController,
) {
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		adminAPIGroup.POST("/tests", adminTestCtrl.CreateTest)
		adminAPIGroup.GET("/tests", adminTestCtrl.ListTests)
		adminAPIGroup.GET("/tests/:test_id", adminTestCtrl.GetTest)
		adminAPIGroup.PUT("/tests/:test_id", adminTestCtrl.UpdateTest)
		adminAPIGroup.DELETE("/tests/:test_id", adminTestCtrl.DeleteTest)
		adminAPIGroup.POST("/categories", adminTestCtrl.CreateCategory)
	}

	userAPIGroup := router.Group("/api/v1")
	{
		userAPIGroup.GET("/categories", testCtrl.GetCategories)
		userAPIGroup.GET("/tests", testCtrl.GetTests)
		userAPIGroup.GET("/tests/:test_id", testCtrl.GetTestDetails)
		userAPIGroup.POST("/tests/:test_id/submissions", testCtrl.SubmitTest)

		userAPIGroup.GET("/users/:user_id/profile", profileCtrl.GetProfile)
		userAPIGroup.GET("/users/:user_id/progress", profileCtrl.GetUserProgress)
		userAPIGroup.GET("/users/:user_id/progress/summary", profileCtrl.GetProgressSummary)
		userAPIGroup.GET("/achievements", profileCtrl.GetAchievements)
		userAPIGroup.GET("/leaderboard", profileCtrl.GetLeaderboard)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("LingoQuiz API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Category{},
		&model.Test{},
		&model.Question{},
		&model.Answer{},
		&model.User{},
		&model.Progress{},
		&model.Achievement{},
		&model.UserAchievement{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

// SeedAchievements inserts the achievement catalog if rows are missing.
// Existing rows are left untouched so admins can tune rewards in place.
func SeedAchievements(achievementRepo repository.AchievementRepository) error {
	if err := achievementRepo.EnsureCatalog(service.DefaultAchievementCatalog()); err != nil {
		log.Error().Err(err).Msg("Achievement catalog seeding failed")
		return err
	}
	log.Info().Msg("Achievement catalog seeded.")
	return nil
}
