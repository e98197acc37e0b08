package models

import "time"

// KeyValue - строка постоянного хранилища сессии
type KeyValue struct {
	Key       string    `gorm:"primaryKey;size:191;column:storage_key" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (KeyValue) TableName() string {
	return "client_storage"
}
