package db

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"

	"socialweb/config"
)

func dsnFromConfig(dbConf config.DBConfig) string {
	port := dbConf.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, port, dbConf.User, dbConf.Password, dbConf.DBName,
	)
}

// Connect открывает базу для постоянного хранилища клиента.
// sqlite - локальный файл, postgres - мастер и опциональные реплики на чтение
func Connect(conf config.StorageConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch conf.Driver {
	case "sqlite":
		path := conf.Path
		if path == "" {
			path = "socialweb.db"
		}
		dialector = sqlite.Open(path)
	case "postgres":
		if conf.Master.Host == "" {
			return nil, fmt.Errorf("master database configuration is missing")
		}
		dialector = postgres.Open(dsnFromConfig(conf.Master))
	default:
		return nil, fmt.Errorf("unsupported sql storage driver %q", conf.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if conf.Driver == "postgres" && len(conf.Replicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(conf.Replicas))
		for _, r := range conf.Replicas {
			replicas = append(replicas, postgres.Open(dsnFromConfig(r)))
		}
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("failed to register replicas: %w", err)
		}
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// GetReadOnlyDB возвращает подключение для чтения (реплики, если есть)
func GetReadOnlyDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).Clauses(dbresolver.Read)
}

// GetWriteDB возвращает подключение для записи (мастер)
func GetWriteDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).Clauses(dbresolver.Write)
}
