package db

import (
	"context"
	stdErrors "errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/marcosalvarado/buildledger-backend/pkg/errors"
)

type txRecord struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gormDB.AutoMigrate(&txRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewClientFromGorm(gormDB)
}

func TestWithTxCommits(t *testing.T) {
	client := newTestClient(t)

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&txRecord{Name: "kept"}).Error
	})
	if err != nil {
		t.Fatalf("tx failed: %v", err)
	}

	var count int64
	if err := client.Gorm().Model(&txRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row, got %d", count)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := newTestClient(t)
	boom := stdErrors.New("boom")

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&txRecord{Name: "discarded"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !stdErrors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int64
	if err := client.Gorm().Model(&txRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback, got %d rows", count)
	}
}

func TestTranslateNotFound(t *testing.T) {
	err := Translate(gorm.ErrRecordNotFound, "estimate")
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTranslateNilPassesThrough(t *testing.T) {
	if err := Translate(nil, "estimate"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
