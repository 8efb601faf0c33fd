// Package mock provides in-memory test doubles for the integration suite.
package mock

import (
	"database/sql"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/driverlog/backend/internal/integration/persistence/model"
)

var dbOnce sync.Once
var db *Db

// Db wraps a shared in-memory SQLite connection carrying the full schema.
type Db struct {
	DbConn *gorm.DB
}

// NewDb returns the singleton in-memory database, creating it on first use.
func NewDb() *Db {
	dbOnce.Do(func() {
		db = open()
	})
	return db
}

func open() *Db {
	dbSQL, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(err)
	}
	// A single connection keeps the shared-cache database alive for the
	// whole suite.
	dbSQL.SetMaxOpenConns(1)

	conn, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect to database: " + err.Error())
	}

	if err := conn.AutoMigrate(allModels()...); err != nil {
		panic("failed to migrate schema: " + err.Error())
	}

	return &Db{DbConn: conn}
}

// Reset wipes every table so scenarios start from a clean slate.
func (d *Db) Reset() error {
	for _, m := range allModels() {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func allModels() []any {
	return []any{
		&model.GoalModel{},
		&model.ProgressEventModel{},
		&model.JourneyModel{},
		&model.FuelingModel{},
		&model.ExpenseModel{},
		&model.VehicleModel{},
	}
}
