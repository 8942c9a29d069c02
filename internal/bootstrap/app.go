package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/config"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/database"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/handlers"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/logger"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/middleware"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/repository"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Mongo  *mongo.Client

	cfg *config.Config
}

func NewApp(cfg *config.Config) *App {
	return &App{
		Engine: gin.New(),
		cfg:    cfg,
	}
}

// routeHandlers groups everything RegisterRoutes needs.
type routeHandlers struct {
	tokens      *services.TokenService
	authService *services.AuthService
	taskService *services.TaskService
	auth        *handlers.AuthHandler
	tasks       *handlers.TaskHandler
	accounts    *handlers.AccountHandler
}

// Initialize opens the configured store, seeds the admin account and
// registers middlewares and routes.
func (a *App) Initialize(ctx context.Context) error {
	accountRepo, taskRepo, err := a.openStores(ctx)
	if err != nil {
		return err
	}

	tokens := services.NewTokenService(a.cfg.JWTSecret)
	authService := services.NewAuthService(accountRepo, tokens)

	var generator services.TaskGenerator
	if a.cfg.OpenAIAPIKey != "" {
		generator = services.NewAIService(a.cfg.OpenAIAPIKey)
	}
	taskService := services.NewTaskService(taskRepo, generator, a.cfg.EnforceTaskOwnership)
	accountService := services.NewAccountService(accountRepo)
	exportService := services.NewExportService(taskRepo)

	if a.cfg.AdminEmail != "" && a.cfg.AdminPassword != "" {
		written, err := authService.EnsureAdmin(ctx, a.cfg.AdminEmail, a.cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("failed to bootstrap admin: %w", err)
		}
		if written {
			log.Info().Str("email", a.cfg.AdminEmail).Msg("Admin account ensured")
		}
	}

	a.RegisterMiddlewares()
	a.RegisterRoutes(routeHandlers{
		tokens:      tokens,
		authService: authService,
		taskService: taskService,
		auth:        handlers.NewAuthHandler(authService),
		tasks:       handlers.NewTaskHandler(taskService, exportService),
		accounts:    handlers.NewAccountHandler(accountService),
	})

	return nil
}

func (a *App) openStores(ctx context.Context) (repository.AccountRepository, repository.TaskRepository, error) {
	if a.cfg.StoreDriver == "mongo" {
		client, db, err := database.ConnectMongo(ctx, a.cfg.MongoURI, a.cfg.MongoDatabase)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize mongo: %w", err)
		}
		a.Mongo = client

		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			return nil, nil, err
		}
		return repository.NewMongoAccountRepository(db), repository.NewMongoTaskRepository(db), nil
	}

	db, err := database.Connect(a.cfg)
	if err != nil {
		return nil, nil, err
	}
	a.DB = db

	if err := database.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return repository.NewAccountRepository(db), repository.NewTaskRepository(db), nil
}

func (a *App) RegisterMiddlewares() {
	a.Engine.Use(logger.RequestLogger())
	a.Engine.Use(gin.Recovery())
	a.Engine.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Total-Count", "X-Request-ID", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	a.Engine.Use(middleware.RequestTimeout(a.cfg.RequestTimeout))
}

func (a *App) RegisterRoutes(h routeHandlers) {
	a.Engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Todo API is running",
		})
	})

	api := a.Engine.Group("/api")
	{
		// Public
		api.POST("/register", h.auth.Register)
		api.POST("/login", h.auth.Login)
	}

	authed := api.Group("", middleware.RequireAuth(h.tokens, h.authService))
	authed.GET("/me", h.auth.Me)

	todos := authed.Group("/todos")
	{
		todos.POST("", h.tasks.CreateTask)
		todos.POST("/generate", h.tasks.GenerateTasks)
		todos.GET("", middleware.RequireAdmin(), h.tasks.ListAllTasks)
		todos.GET("/export", middleware.RequireAdmin(), h.tasks.ExportTasks)
		todos.PUT("/updateEmail", middleware.RequireAdmin(), h.accounts.RenameEmail)
		todos.GET("/:userEmail", middleware.RequireSelfOrAdmin("userEmail"), h.tasks.ListOwnerTasks)
		todos.PUT("/:id", middleware.RequireTaskAccess(h.taskService), h.tasks.UpdateTask)
		todos.DELETE("/:id", middleware.RequireTaskAccess(h.taskService), h.tasks.DeleteTask)
	}

	admin := authed.Group("", middleware.RequireAdmin())
	{
		admin.GET("/users", h.accounts.ListAccounts)
		admin.GET("/getUser", h.accounts.GetAccountByEmail)
		admin.PUT("/users/:id", h.accounts.UpdateAccount)
		admin.DELETE("/users/:id", h.accounts.DeleteAccount)
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Close releases the store connections.
func (a *App) Close() {
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if a.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Mongo.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect mongo")
		}
	}
}
