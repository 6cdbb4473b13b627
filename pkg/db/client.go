package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/marcosalvarado/buildledger-backend/pkg/config"
)

// Client owns the gorm handle and transaction helpers.
type Client struct {
	gorm *gorm.DB
}

func NewClient(cfg config.DBConfig) (*Client, error) {
	dsn := cfg.DSN
	if dsn == "" {
		return nil, fmt.Errorf("db: dsn is required")
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("db: unwrap: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &Client{gorm: gormDB}, nil
}

// NewClientFromGorm wraps an existing handle, used by tests with sqlite.
func NewClientFromGorm(gormDB *gorm.DB) *Client {
	return &Client{gorm: gormDB}
}

func (c *Client) Gorm() *gorm.DB {
	return c.gorm
}

func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.gorm.DB()
	if err != nil {
		return fmt.Errorf("db: unwrap: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (c *Client) Close() error {
	sqlDB, err := c.gorm.DB()
	if err != nil {
		return fmt.Errorf("db: unwrap: %w", err)
	}
	return sqlDB.Close()
}

// WithTx runs fn inside a transaction, rolling back on error or panic.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.gorm.WithContext(ctx).Transaction(fn)
}
