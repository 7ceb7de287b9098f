package sqlite

import (
	"fmt"
	"log/slog"

	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/phrazzld/taskflow-api/internal/domain/taskquery"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Open opens the database file at path and creates the tasks and users
// tables when they are missing.
func Open(path string, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlitedriver.Open(path), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	if path == MemoryPath {
		// every pooled connection would otherwise see its own empty database
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&taskModel{}, &userModel{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}
	filled, err := backfillEntryLower(db)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to backfill entry_lower: %w", err)
	}
	if filled > 0 {
		log.Info("backfilled folded task entries", slog.Int("tasks", filled))
	}

	log.Info("sqlite database ready", slog.String("path", path))
	return db, nil
}

// backfillEntryLower folds entries on rows written before entry_lower existed.
func backfillEntryLower(db *gorm.DB) (int, error) {
	var stale []taskModel
	if err := db.Select("id", "entry").Where("entry_lower = '' AND entry <> ''").Find(&stale).Error; err != nil {
		return 0, err
	}
	for _, m := range stale {
		err := db.Model(&taskModel{}).Where("id = ?", m.ID).
			Update("entry_lower", taskquery.Fold(m.Entry)).Error
		if err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
