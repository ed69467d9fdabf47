package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Драйверы хранилища состояния
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Источники банка вопросов
const (
	QuestionSourceJSON     = "json"
	QuestionSourcePostgres = "postgres"
)

// Config хранит все настройки приложения
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Questions QuestionsConfig `mapstructure:"questions"`
	Exam      ExamConfig      `mapstructure:"exam"`
	Practice  PracticeConfig  `mapstructure:"practice"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port            string `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // секунды
	WriteTimeout    int    `mapstructure:"write_timeout"`    // секунды
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // секунды
}

// CORSConfig содержит список разрешенных origin
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorageConfig выбирает хранилище состояния сессий и прогресса
type StorageConfig struct {
	Driver     string `mapstructure:"driver"` // memory | redis | sqlite
	KeyPrefix  string `mapstructure:"key_prefix"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`

	MaxOpenConns   int    `mapstructure:"max_open_conns"`
	MaxIdleConns   int    `mapstructure:"max_idle_conns"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт).
	// Для 'single', если не пуст, используется первый адрес из списка.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Адрес для режима 'single', используется если Addrs пустой.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	// MaxRetries: Максимальное количество попыток переподключения (-1 - бесконечно).
	MaxRetries int `mapstructure:"max_retries"`

	// MinRetryBackoff, MaxRetryBackoff: интервалы между попытками в миллисекундах.
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// QuestionsConfig описывает источник банка вопросов
type QuestionsConfig struct {
	Source string `mapstructure:"source"` // json | postgres
	Path   string `mapstructure:"path"`   // путь к JSON файлу
}

// ExamConfig содержит настройки пробного экзамена
type ExamConfig struct {
	QuestionCount   int `mapstructure:"question_count"`
	DurationMinutes int `mapstructure:"duration_minutes"`
	TickIntervalMs  int `mapstructure:"tick_interval_ms"`
	HistoryLimit    int `mapstructure:"history_limit"`
}

// Duration возвращает длительность экзамена
func (e ExamConfig) Duration() time.Duration {
	return time.Duration(e.DurationMinutes) * time.Minute
}

// TickInterval возвращает период тика таймера
func (e ExamConfig) TickInterval() time.Duration {
	return time.Duration(e.TickIntervalMs) * time.Millisecond
}

// PracticeConfig содержит настройки практики
type PracticeConfig struct {
	DefaultSize int   `mapstructure:"default_size"`
	Sizes       []int `mapstructure:"sizes"`
}

// WebSocketConfig содержит настройки WebSocket-подсистемы
type WebSocketConfig struct {
	MaxClients           int   `mapstructure:"max_clients"`
	ClientSendBuffer     int   `mapstructure:"client_send_buffer"`
	MaxMessageSize       int64 `mapstructure:"max_message_size"`
	PingIntervalSec      int   `mapstructure:"ping_interval"`
	PongWaitSec          int   `mapstructure:"pong_wait"`
	WriteWaitSec         int   `mapstructure:"write_wait"`
	CleanupIntervalSec   int   `mapstructure:"cleanup_interval"`
	InactivityTimeoutSec int   `mapstructure:"inactivity_timeout"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// PostgresURL формирует URL подключения (для golang-migrate и lib/pq)
func (d *DatabaseConfig) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.read_timeout", 15)
	vip.SetDefault("server.write_timeout", 15)
	vip.SetDefault("server.shutdown_timeout", 10)

	vip.SetDefault("cors.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	vip.SetDefault("storage.driver", StorageMemory)
	vip.SetDefault("storage.key_prefix", "exam-prep")
	vip.SetDefault("storage.sqlite_path", "data/state.db")

	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("redis.addr", "localhost:6379")

	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("database.max_open_conns", 5)
	vip.SetDefault("database.max_idle_conns", 2)
	vip.SetDefault("database.migrations_path", "migrations")

	vip.SetDefault("questions.source", QuestionSourceJSON)
	vip.SetDefault("questions.path", "data/questions.json")

	vip.SetDefault("exam.question_count", 50)
	vip.SetDefault("exam.duration_minutes", 50)
	vip.SetDefault("exam.tick_interval_ms", 500)
	vip.SetDefault("exam.history_limit", 20)

	vip.SetDefault("practice.default_size", 10)
	vip.SetDefault("practice.sizes", []int{10, 20, 30, 50})

	vip.SetDefault("websocket.max_clients", 1000)
	vip.SetDefault("websocket.client_send_buffer", 128)
	vip.SetDefault("websocket.max_message_size", 512)
	vip.SetDefault("websocket.ping_interval", 27)
	vip.SetDefault("websocket.pong_wait", 30)
	vip.SetDefault("websocket.write_wait", 10)
	vip.SetDefault("websocket.cleanup_interval", 60)
	vip.SetDefault("websocket.inactivity_timeout", 300)
}

func bindEnv(vip *viper.Viper) {
	vip.BindEnv("server.port", "SERVER_PORT")

	vip.BindEnv("storage.driver", "STORAGE_DRIVER")
	vip.BindEnv("storage.key_prefix", "STORAGE_KEY_PREFIX")
	vip.BindEnv("storage.sqlite_path", "STORAGE_SQLITE_PATH")

	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("questions.source", "QUESTIONS_SOURCE")
	vip.BindEnv("questions.path", "QUESTIONS_PATH")

	vip.BindEnv("exam.question_count", "EXAM_QUESTION_COUNT")
	vip.BindEnv("exam.duration_minutes", "EXAM_DURATION_MINUTES")
}

// Load загружает конфигурацию: значения по умолчанию, затем файл, затем переменные окружения.
// Файл .env в рабочем каталоге подхватывается, если он есть.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Предупреждение: не удалось прочитать .env: %v", err)
	}

	vip := viper.New()
	setDefaults(vip)
	bindEnv(vip)

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	cfg.Questions.Source = strings.ToLower(strings.TrimSpace(cfg.Questions.Source))

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Storage Driver: %s", cfg.Storage.Driver)
		log.Printf("Questions Source: %s (%s)", cfg.Questions.Source, cfg.Questions.Path)
		log.Printf("Exam: %d вопросов, %d мин", cfg.Exam.QuestionCount, cfg.Exam.DurationMinutes)
		log.Printf("Practice Sizes: %v (default %d)", cfg.Practice.Sizes, cfg.Practice.DefaultSize)
		log.Printf("-----------------------------------------")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет конфигурацию и возвращает все найденные ошибки сразу
func (c *Config) Validate() error {
	var result *multierror.Error

	switch c.Storage.Driver {
	case StorageMemory:
	case StorageRedis:
		if len(c.Redis.Addrs) == 0 && c.Redis.Addr == "" {
			result = multierror.Append(result, fmt.Errorf("redis storage requires redis.addr or redis.addrs"))
		}
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			result = multierror.Append(result, fmt.Errorf("sqlite storage requires storage.sqlite_path"))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}

	switch c.Questions.Source {
	case QuestionSourceJSON:
		if c.Questions.Path == "" {
			result = multierror.Append(result, fmt.Errorf("questions.path is required for the json source"))
		}
	case QuestionSourcePostgres:
		if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
			result = multierror.Append(result, fmt.Errorf("database configuration (host, dbname, user) is incomplete (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)"))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("unknown questions source %q", c.Questions.Source))
	}

	if c.Exam.QuestionCount <= 0 {
		result = multierror.Append(result, fmt.Errorf("exam.question_count must be positive, got %d", c.Exam.QuestionCount))
	}
	if c.Exam.DurationMinutes <= 0 {
		result = multierror.Append(result, fmt.Errorf("exam.duration_minutes must be positive, got %d", c.Exam.DurationMinutes))
	}
	if c.Exam.TickIntervalMs <= 0 {
		result = multierror.Append(result, fmt.Errorf("exam.tick_interval_ms must be positive, got %d", c.Exam.TickIntervalMs))
	}
	if c.Exam.HistoryLimit <= 0 {
		result = multierror.Append(result, fmt.Errorf("exam.history_limit must be positive, got %d", c.Exam.HistoryLimit))
	}

	if len(c.Practice.Sizes) == 0 {
		result = multierror.Append(result, fmt.Errorf("practice.sizes must not be empty"))
	}
	defaultAllowed := false
	for _, size := range c.Practice.Sizes {
		if size <= 0 {
			result = multierror.Append(result, fmt.Errorf("practice size must be positive, got %d", size))
		}
		if size == c.Practice.DefaultSize {
			defaultAllowed = true
		}
	}
	if len(c.Practice.Sizes) > 0 && !defaultAllowed {
		result = multierror.Append(result, fmt.Errorf("practice.default_size %d is not among practice.sizes %v", c.Practice.DefaultSize, c.Practice.Sizes))
	}

	return result.ErrorOrNil()
}
