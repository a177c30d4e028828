package draftstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
)

var _ repository.DraftRepository = (*Store)(nil)

type draftRecord struct {
	UserID  string    `gorm:"primaryKey;size:64;column:user_id"`
	Key     string    `gorm:"primaryKey;size:128;column:draft_key"`
	Version int       `gorm:"column:version"`
	Payload []byte    `gorm:"column:payload"`
	SavedAt time.Time `gorm:"column:saved_at"`
}

func (draftRecord) TableName() string { return "drafts" }

// Open abre (o crea) la base SQLite de borradores y migra el esquema.
// path ":memory:" sirve para tests.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// cada conexión a :memory: es una base distinta
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&draftRecord{}); err != nil {
		return nil, fmt.Errorf("migrate drafts: %w", err)
	}
	return db, nil
}

// Store implementación de DraftRepository sobre gorm.
type Store struct {
	db *gorm.DB
}

// NewStore construye el almacén.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get obtiene un borrador. nil, nil si no existe.
func (s *Store) Get(ctx context.Context, userID, key string) (*entity.Draft, error) {
	var rec draftRecord
	err := s.db.WithContext(ctx).Where("user_id = ? AND draft_key = ?", userID, key).Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return &entity.Draft{
		UserID:  rec.UserID,
		Key:     rec.Key,
		Version: rec.Version,
		Payload: rec.Payload,
		SavedAt: rec.SavedAt,
	}, nil
}

// Save crea o reemplaza el borrador.
func (s *Store) Save(ctx context.Context, d *entity.Draft) error {
	rec := draftRecord{
		UserID:  d.UserID,
		Key:     d.Key,
		Version: d.Version,
		Payload: d.Payload,
		SavedAt: d.SavedAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "draft_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "payload", "saved_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Delete elimina el borrador; no falla si no existía.
func (s *Store) Delete(ctx context.Context, userID, key string) error {
	err := s.db.WithContext(ctx).Where("user_id = ? AND draft_key = ?", userID, key).Delete(&draftRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
