package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

type Config struct {
	App struct {
		Name    string `yaml:"name"`
		BaseURL string `yaml:"base_url"` // Используется в ссылках подтверждения
	} `yaml:"app"`

	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		Driver       string `yaml:"driver"` // postgres, mysql, sqlite
		DSN          string `yaml:"url"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
	} `yaml:"database"`

	Email struct {
		Provider     string `yaml:"provider"` // log, smtp, resend
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		ResendAPIKey string `yaml:"resend_api_key"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	Auth struct {
		RequireConfirmation bool `yaml:"require_confirmation"`

		// Первый администратор создается при старте, если задан логин и пароль
		FirstAdminUsername string `yaml:"first_admin_username"`
		FirstAdminPassword string `yaml:"first_admin_password"`
		FirstAdminEmail    string `yaml:"first_admin_email"`
	} `yaml:"auth"`

	Storage struct {
		Type      string `yaml:"type"`      // local, minio, s3
		BasePath  string `yaml:"base_path"` // For local storage
		BaseURL   string `yaml:"base_url"`  // Public URL base
		Bucket    string `yaml:"bucket"`
		Region    string `yaml:"region"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Endpoint  string `yaml:"endpoint"`
		UseSSL    bool   `yaml:"use_ssl"`
	} `yaml:"storage"`

	Upload struct {
		MaxSize  int64 `yaml:"max_size"`  // Max file size in bytes
		MaxFiles int   `yaml:"max_files"` // Max files per request
	} `yaml:"upload"`

	Sentry struct {
		DSN string `yaml:"dsn"`
	} `yaml:"sentry"`
}

const defaultConfigPath = "config/config.yaml"

// Default возвращает конфигурацию со значениями по умолчанию.
// JWT секрет не имеет значения по умолчанию.
func Default() *Config {
	var cfg Config

	cfg.App.Name = "skyjobs"
	cfg.App.BaseURL = "http://localhost:8000"

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8000
	cfg.Server.Env = "development"

	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "data/skyjobs.db?_foreign_keys=on"
	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 5

	cfg.Email.Provider = "log"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "no-reply@skyjobs.local"
	cfg.Email.FromName = "SkyJobs"

	cfg.JWT.TTL = 60

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/uploads"
	cfg.Storage.Region = "us-east-1"

	cfg.Upload.MaxSize = 20 << 20 // 20MB
	cfg.Upload.MaxFiles = 20

	return &cfg
}

// Load читает YAML (если файл есть), накладывает переменные окружения и валидирует результат.
// path == "" означает CONFIG_PATH или config/config.yaml.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	explicit := path != ""
	if path == "" {
		path = defaultConfigPath
	}

	if err := cfg.loadFile(path); err != nil {
		// Отсутствующий файл по умолчанию - не ошибка, остальное берется из окружения
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file at %s: %w", path, err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.App.BaseURL, "APP_BASE_URL")

	setString(&c.Server.Host, "SERVER_HOST")
	setInt(&c.Server.Port, "SERVER_PORT")
	setString(&c.Server.Env, "SERVER_ENV")

	setString(&c.Database.Driver, "DATABASE_DRIVER")
	setString(&c.Database.DSN, "DATABASE_URL")

	setString(&c.Email.Provider, "EMAIL_PROVIDER")
	setString(&c.Email.SMTPHost, "SMTP_HOST")
	setInt(&c.Email.SMTPPort, "SMTP_PORT")
	setString(&c.Email.SMTPUsername, "SMTP_USER")
	setString(&c.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&c.Email.ResendAPIKey, "RESEND_API_KEY")
	setString(&c.Email.FromEmail, "EMAIL_FROM")

	setString(&c.JWT.Secret, "JWT_SECRET")
	setInt(&c.JWT.TTL, "JWT_TTL")

	setBool(&c.Auth.RequireConfirmation, "AUTH_REQUIRE_CONFIRMATION")
	setString(&c.Auth.FirstAdminUsername, "FIRST_ADMIN_USERNAME")
	setString(&c.Auth.FirstAdminPassword, "FIRST_ADMIN_PASSWORD")
	setString(&c.Auth.FirstAdminEmail, "FIRST_ADMIN_EMAIL")

	setString(&c.Storage.Type, "STORAGE_TYPE")
	setString(&c.Storage.BasePath, "STORAGE_BASE_PATH")
	setString(&c.Storage.BaseURL, "STORAGE_BASE_URL")
	setString(&c.Storage.Bucket, "STORAGE_BUCKET")
	setString(&c.Storage.Region, "STORAGE_REGION")
	setString(&c.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&c.Storage.SecretKey, "STORAGE_SECRET_KEY")
	setString(&c.Storage.Endpoint, "STORAGE_ENDPOINT")
	setBool(&c.Storage.UseSSL, "STORAGE_USE_SSL")

	setString(&c.Sentry.DSN, "SENTRY_DSN")
}

// Validate проверяет обязательные поля и допустимые значения
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("jwt secret is required (set jwt.secret or JWT_SECRET)")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("invalid jwt ttl: %d", c.JWT.TTL)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database url is required")
	}

	switch c.Storage.Type {
	case "local", "minio", "s3":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	switch c.Email.Provider {
	case "log", "smtp", "resend":
	default:
		return fmt.Errorf("unsupported email provider: %s", c.Email.Provider)
	}

	if c.Upload.MaxSize <= 0 {
		return fmt.Errorf("invalid upload max size: %d", c.Upload.MaxSize)
	}
	if c.Upload.MaxFiles <= 0 {
		return fmt.Errorf("invalid upload max files: %d", c.Upload.MaxFiles)
	}
	return nil
}

// IsDevelopment сообщает, запущено ли приложение в режиме разработки
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
