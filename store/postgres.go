// store/postgres.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// collectionRow holds one whole collection as a jsonb blob. The store
// contract is read-all/replace-all, so a document column fits better than a
// row per record.
type collectionRow struct {
	Name      string `gorm:"primaryKey;size:64"`
	Docs      []byte `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (collectionRow) TableName() string { return "equiptrack_collections" }

type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&collectionRow{}); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) ReadAll(ctx context.Context, collection string, out any) error {
	var row collectionRow
	err := s.db.WithContext(ctx).First(&row, "name = ?", collection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return json.Unmarshal([]byte("[]"), out)
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(row.Docs, out)
}

func (s *PostgresStore) WriteAll(ctx context.Context, collection string, list any) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"docs", "updated_at"}),
		}).
		Create(&collectionRow{Name: collection, Docs: b, UpdatedAt: time.Now().UTC()}).Error
}

func (s *PostgresStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
