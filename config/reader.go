package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// DevAPIBaseURL - адрес бэкенда для всех окружений, кроме production
	DevAPIBaseURL = "http://localhost:8000"

	DefaultTimeout       = 30 * time.Second
	DefaultUploadTimeout = 60 * time.Second
)

type APIConfig struct {
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
	UploadTimeout time.Duration `yaml:"upload_timeout"`
}

type AppShellConfig struct {
	Listen   string `yaml:"listen" validate:"required"`
	BasePath string `yaml:"base_path"`
}

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type StorageConfig struct {
	Driver     string      `yaml:"driver" validate:"oneof=memory sqlite postgres redis"`
	Path       string      `yaml:"path"`
	Passphrase string      `yaml:"passphrase"`
	Master     DBConfig    `yaml:"master"`
	Replicas   []DBConfig  `yaml:"replicas"`
	Redis      RedisConfig `yaml:"redis"`
}

type EventsConfig struct {
	AMQPURL  string `yaml:"amqp_url"`
	Exchange string `yaml:"exchange"`
}

type ConfigSchema struct {
	Env     string         `yaml:"env" validate:"oneof=development test production"`
	API     APIConfig      `yaml:"api"`
	App     AppShellConfig `yaml:"app"`
	Storage StorageConfig  `yaml:"storage"`
	Events  EventsConfig   `yaml:"events"`
	Logs    struct {
		Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	} `yaml:"logs"`
}

var AppConfig *ConfigSchema

var validate = validator.New()

// Default возвращает конфигурацию для локального запуска без файла
func Default() *ConfigSchema {
	conf := &ConfigSchema{Env: EnvDevelopment}
	conf.API.Timeout = DefaultTimeout
	conf.API.UploadTimeout = DefaultUploadTimeout
	conf.App.Listen = ":8081"
	conf.App.BasePath = "/"
	conf.Storage.Driver = "sqlite"
	conf.Storage.Path = "socialweb.db"
	conf.Events.Exchange = "socialweb_state"
	conf.Logs.Level = "info"
	return conf
}

// LoadConfig читает yaml, подтягивает .env и переменные окружения
func LoadConfig(filePath string) error {
	conf, err := Read(filePath)
	if err != nil {
		return err
	}
	AppConfig = conf
	return nil
}

// Read - то же, что LoadConfig, но без записи в AppConfig
func Read(filePath string) (*ConfigSchema, error) {
	// .env не обязателен
	_ = godotenv.Load()

	conf := Default()
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		if err = yaml.Unmarshal(data, conf); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", filePath, err)
		}
	}
	conf.applyEnv()

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *ConfigSchema) applyEnv() {
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logs.Level = v
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("STORAGE_PASSPHRASE"); v != "" {
		c.Storage.Passphrase = v
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = DefaultTimeout
	}
	if c.API.UploadTimeout <= 0 {
		c.API.UploadTimeout = DefaultUploadTimeout
	}
}

func (c *ConfigSchema) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.API.ResolveBaseURL(c.Env); err != nil {
		return err
	}
	if c.Storage.Driver == "postgres" && c.Storage.Master.Host == "" {
		return errors.New("invalid config: storage.master.host is required for postgres")
	}
	return nil
}

// ResolveBaseURL - в production адрес берется из конфигурации, иначе фиксированный
func (a APIConfig) ResolveBaseURL(env string) (string, error) {
	if env != EnvProduction {
		return DevAPIBaseURL, nil
	}
	base := strings.TrimRight(a.BaseURL, "/")
	if base == "" {
		return "", errors.New("invalid config: API_BASE_URL is required in production")
	}
	if err := validate.Var(base, "url"); err != nil {
		return "", fmt.Errorf("invalid config: API_BASE_URL %q: %w", base, err)
	}
	return base, nil
}
