package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger = zap.NewNop()

// New собирает production-логгер с заданным уровнем, неизвестный уровень = info
func New(level string) (*zap.Logger, error) {
	conf := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	conf.Level.SetLevel(lvl)
	return conf.Build()
}

// Init создает глобальный Logger
func Init(level string) error {
	l, err := New(level)
	if err != nil {
		return err
	}
	Logger = l
	return nil
}

// OrNop - компоненты принимают логгер снаружи, nil превращается в Nop
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
