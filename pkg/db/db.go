package db

import (
	"fmt"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kalaiprof897-eng/management/pkg/common"
	"github.com/kalaiprof897-eng/management/pkg/models"
)

type DB struct {
	Conn *gorm.DB
}

// Table names as provisioned on the hosted backend.
const (
	TableMachines          = "machines"
	TableTools             = "tools"
	TableProductionRecords = "production_records"
	TableCncTimeLogs       = "cnc_time_logs"
)

// AllTables is the full provisioned schema.
var AllTables = []string{TableMachines, TableTools, TableProductionRecords, TableCncTimeLogs}

var tableModels = map[string]any{
	TableMachines:          &models.Machine{},
	TableTools:             &models.Tool{},
	TableProductionRecords: &models.ProductionRecord{},
	TableCncTimeLogs:       &models.CncTimeLog{},
}

var (
	instance *DB
	once     sync.Once
)

// GetInstance opens the process wide database once and provisions every table.
func GetInstance(dialector gorm.Dialector) *DB {
	once.Do(func() {
		var err error
		instance, err = Open(dialector, AllTables...)
		if err != nil {
			log.Fatal("Failed to open database:", err)
		}
	})
	return instance
}

// Open connects without touching the singleton and migrates only the given
// tables, so a partially provisioned backend can be reproduced.
func Open(dialector gorm.Dialector, tables ...string) (*DB, error) {
	logger := common.GetLoggerWith(common.LoggerNameGateway)

	conn, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger()})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

	d := &DB{Conn: conn}
	if err := d.Provision(tables...); err != nil {
		return nil, err
	}

	if err := conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		return nil, fmt.Errorf("failed to set sqlite journal mode: %w", err)
	}

	return d, nil
}

// Provision creates the named tables, the same effect as running the setup
// script for those tables on the hosted backend.
func (d *DB) Provision(tables ...string) error {
	for _, table := range tables {
		model, ok := tableModels[table]
		if !ok {
			return fmt.Errorf("unknown table %q", table)
		}
		if err := d.Conn.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", table, err)
		}
	}

	common.GetLoggerWith(common.LoggerNameGateway).
		Info("Database migration completed", zap.Strings("tables", tables))
	return nil
}

// Drop removes a table, used to reproduce a backend where it was never created.
func (d *DB) Drop(table string) error {
	return d.Conn.Migrator().DropTable(table)
}

func (d *DB) Close() error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormLogger() gormlogger.Interface {
	if common.IsDevelopment() {
		return gormlogger.Default.LogMode(gormlogger.Info)
	}
	return gormlogger.Default.LogMode(gormlogger.Silent)
}

func UseSqliteDialector() gorm.Dialector {
	var dbPath string
	var found bool
	if dbPath, found = os.LookupEnv(common.EnvKeyDbPath); !found {
		dbPath = "dashboard.db"
	}
	return sqlite.Open(dbPath)
}

func UseSqliteDialectorAt(path string) gorm.Dialector {
	return sqlite.Open(path)
}

func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open("file::memory:?cache=shared")
}

// UseNamedMemorySqliteDialector gives each name its own in-memory database.
func UseNamedMemorySqliteDialector(name string) gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
}
