package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"socialweb/db"
	"socialweb/models"
)

// SQL - хранилище в таблице client_storage через gorm
type SQL struct {
	orm *gorm.DB
}

func NewSQL(orm *gorm.DB) *SQL {
	return &SQL{orm: orm}
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	var row models.KeyValue
	err := db.GetReadOnlyDB(ctx, s.orm).Where("storage_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	row := models.KeyValue{Key: key, Value: value, UpdatedAt: time.Now()}
	return db.GetWriteDB(ctx, s.orm).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

// Remove удаляет ключи в одной транзакции
func (s *SQL) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return db.GetWriteDB(ctx, s.orm).Transaction(func(tx *gorm.DB) error {
		return tx.Where("storage_key IN ?", keys).Delete(&models.KeyValue{}).Error
	})
}

func (s *SQL) Close() error {
	sqlDB, err := s.orm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
