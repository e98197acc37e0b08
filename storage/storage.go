package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"socialweb/config"
	"socialweb/db"
	"socialweb/logger"
)

// Storage - постоянное key-value хранилище клиента (аналог localStorage)
type Storage interface {
	// Get возвращает значение и признак его наличия
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove удаляет все ключи одной атомарной операцией
	Remove(ctx context.Context, keys ...string) error
	Close() error
}

// Open собирает хранилище по конфигурации. При заданной passphrase значения шифруются
func Open(ctx context.Context, conf config.StorageConfig, log *zap.Logger) (Storage, error) {
	log = logger.OrNop(log)

	var (
		st  Storage
		err error
	)
	switch conf.Driver {
	case "", "memory":
		st = NewMemory()
	case "redis":
		st, err = NewRedis(ctx, conf.Redis)
	case "sqlite", "postgres":
		gdb, dbErr := db.Connect(conf)
		if dbErr != nil {
			return nil, fmt.Errorf("failed to open %s storage: %w", conf.Driver, dbErr)
		}
		st = NewSQL(gdb)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", conf.Driver)
	}
	if err != nil {
		return nil, err
	}

	if conf.Passphrase != "" {
		sealed, sealErr := NewSealed(ctx, st, conf.Passphrase)
		if sealErr != nil {
			_ = st.Close()
			return nil, sealErr
		}
		st = sealed
	}
	log.Info("client storage opened", zap.String("driver", conf.Driver), zap.Bool("sealed", conf.Passphrase != ""))
	return st, nil
}
