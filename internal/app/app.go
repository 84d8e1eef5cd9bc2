package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	_ "axiestudio/docs"
	"axiestudio/internal/config"
	"axiestudio/internal/handlers"
	"axiestudio/internal/middleware"
	"axiestudio/internal/repositories"
	"axiestudio/internal/routes"
	"axiestudio/internal/services"
)

func Run() {
	cfg := config.LoadConfig()
	middleware.SetJWTKey(cfg.Auth.JWTSecret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()
	if err := db.Ping(); err != nil {
		log.Fatal("failed to ping database: ", err)
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	favoriteRepo := repositories.NewFavoriteRepository(db)

	// === Services ===
	authService := services.NewAuthService(userRepo)
	emailService := services.NewEmailService(cfg.Email)
	userService := services.NewUserService(userRepo, emailService, authService)
	verifyService := services.NewEmailVerificationService(userRepo, emailService, authService)
	resetService := services.NewPasswordResetService(userRepo, emailService, authService)
	favoriteService := services.NewFavoriteService(favoriteRepo)
	ollamaService := services.NewOllamaService(cfg.Ollama)

	if cfg.Ollama.AutoPull {
		go func() {
			if err := ollamaService.EnsureDefaultModel(context.Background()); err != nil {
				log.Printf("[ollama] default model bootstrap failed: %v", err)
			}
		}()
	}

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	emailHandler := handlers.NewEmailHandler(verifyService, resetService, userService)
	favoritesHandler := handlers.NewFavoritesHandler(favoriteService)
	ollamaHandler := handlers.NewOllamaHandler(ollamaService)

	r := gin.Default()
	routes.SetupRoutes(r, authHandler, userHandler, emailHandler, favoritesHandler, ollamaHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[app] listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("server stopped: ", err)
	}
}
