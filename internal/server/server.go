package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"pmboard/internal/ai"
	"pmboard/internal/config"
	"pmboard/internal/handler"
	"pmboard/internal/middleware"
	"pmboard/internal/repository"
	"pmboard/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Server struct {
	Engine   *gin.Engine
	DB       *gorm.DB
	Sessions *session.Store
	Config   *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	log.Println("Connected to database")

	if err := repository.Migrate(db); err != nil {
		return nil, err
	}

	// Setup Gin
	r := gin.Default()

	// Process-lifetime session store: a restart logs everyone out.
	sessions := session.NewStore()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)

	// Initialize handlers
	aiClient := ai.NewClient(cfg)
	authHandler := handler.NewAuthHandler(userRepo, boardRepo, sessions)
	boardHandler := handler.NewBoardHandler(boardRepo)
	aiHandler := handler.NewAIHandler(aiClient, boardRepo)

	api := r.Group("/api")

	// Public routes
	api.GET("/health", handler.Health)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	// Protected routes - require a live session
	authorized := api.Group("/")
	authorized.Use(middleware.SessionAuth(sessions))
	{
		authorized.GET("/auth/me", authHandler.Me)
		authorized.PUT("/auth/me", authHandler.UpdateProfile)
		authorized.PUT("/auth/password", authHandler.ChangePassword)

		// Legacy single-board alias
		authorized.GET("/board", boardHandler.GetLegacy)
		authorized.PUT("/board", boardHandler.PutLegacy)

		// Board routes
		authorized.GET("/boards", boardHandler.List)
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards/:id", boardHandler.Get)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.PATCH("/boards/:id", boardHandler.Rename)
		authorized.DELETE("/boards/:id", boardHandler.Delete)

		// AI routes
		authorized.POST("/ai/connectivity", aiHandler.Connectivity)
		authorized.POST("/ai/board-action", aiHandler.BoardAction)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return &Server{
		Engine:   r,
		DB:       db,
		Sessions: sessions,
		Config:   cfg,
	}, nil
}

// corsOptions always allows credentials, and browsers refuse a credentialed
// response carrying a literal "*" origin. A configured "*" therefore goes
// through AllowOriginFunc, which makes rs/cors echo the request origin back.
func corsOptions(origin string) cors.Options {
	opts := cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}
	if origin == "*" {
		opts.AllowOriginFunc = func(string) bool { return true }
	} else {
		opts.AllowedOrigins = []string{origin}
	}
	return opts
}

func (s *Server) Run() {
	c := cors.New(corsOptions(s.Config.CORSOrigin))

	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: c.Handler(s.Engine),
	}

	go func() {
		log.Printf("Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %s", err)
	}

	log.Println("Server exited properly")
}
