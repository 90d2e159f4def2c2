package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/config"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/db"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/logger"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/middleware"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/routes"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/sessions"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	defer log.Sync()

	cfg := config.Load()

	database := db.NewDB(cfg)

	store := sessions.New(cfg.RedisAddr)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		log.Fatalw("redis unreachable", "addr", cfg.RedisAddr, "error", err)
	}

	if err := seedAdmin(database, cfg); err != nil {
		log.Fatalw("admin seed failed", "error", err)
	}

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, database, cfg, store, log)

	log.Infow("server starting", "port", cfg.ServerPort)
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}

// seedAdmin guarantees at least one admin login exists so a fresh
// deployment can be entered. Does nothing when the email is taken or
// no ADMIN_PASSWORD was configured.
func seedAdmin(database *gorm.DB, cfg *config.Config) error {
	if cfg.AdminPassword == "" {
		return nil
	}

	var count int64
	if err := database.Model(&models.User{}).
		Where("email = ?", cfg.AdminEmail).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return database.Create(&models.User{
		Name:         "Administrator",
		Email:        cfg.AdminEmail,
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Status:       models.UserStatusActive,
	}).Error
}
