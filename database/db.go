package database

import (
	"context"
	"time"

	"github.com/ilucaslima/clubidulivro/internal/config"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB opens the postgres connection and migrates the schema.
func InitDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	logMode := gormlogger.Warn
	if cfg.IsDevelopment() {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.CompletedBook{},
		&models.DailyProgress{},
		&models.RefreshToken{},
	); err != nil {
		return nil, err
	}

	log.Info("database connection established")
	return db, nil
}

// ConnectRedis returns a redis client after verifying the connection.
func ConnectRedis(cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Info("redis connection established", zap.String("addr", cfg.RedisAddr))
	return client, nil
}
