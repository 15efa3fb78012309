package main

import (
	"context"
	"database/sql"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"

	"github.com/muhammadolammi/resumematcher/internal/config"
	"github.com/muhammadolammi/resumematcher/internal/database"
	"github.com/muhammadolammi/resumematcher/internal/logger"
)

const providerMock = "mock"

// AppConfig holds the long-lived connections shared by every service.
type AppConfig struct {
	Config     *config.Config
	Log        logger.Logger
	DB         *sql.DB
	Queries    *database.Queries
	Redis      *redis.Client
	RabbitConn *amqp.Connection
}

// Ready pings the database and Redis.
func (app *AppConfig) Ready(ctx context.Context) error {
	if err := app.DB.PingContext(ctx); err != nil {
		return err
	}
	return app.Redis.Ping(ctx).Err()
}

func (app *AppConfig) Close() error {
	var errs []error
	if app.RabbitConn != nil {
		errs = append(errs, app.RabbitConn.Close())
	}
	if app.Redis != nil {
		errs = append(errs, app.Redis.Close())
	}
	if app.DB != nil {
		errs = append(errs, app.DB.Close())
	}
	return errors.Join(errs...)
}
