// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/salon-booking/internal/db"
	"github.com/BruksfildServices01/salon-booking/internal/models"
)

// NewDB opens a migrated sqlite database in the test's temp dir. A single
// connection serialises writers the way a real database serialises
// conflicting inserts on the slot index.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "salon.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func SeedUser(t *testing.T, db *gorm.DB, email string, role models.Role) models.User {
	t.Helper()

	u := models.User{Name: email, Email: email, PasswordHash: "x", Role: role}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedStylist(t *testing.T, db *gorm.DB, name string, userID *uint) models.Stylist {
	t.Helper()

	s := models.Stylist{Name: name, UserID: userID, Active: true}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("seed stylist: %v", err)
	}
	return s
}

func SeedService(t *testing.T, db *gorm.DB, name string, minutes int) models.Service {
	t.Helper()

	s := models.Service{Name: name, DurationMin: minutes, Price: 50, Active: true}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return s
}
