package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	// Act
	cfg, err := Load("")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, QuestionSourceJSON, cfg.Questions.Source)
	assert.Equal(t, 50, cfg.Exam.QuestionCount)
	assert.Equal(t, 50*time.Minute, cfg.Exam.Duration())
	assert.Equal(t, 500*time.Millisecond, cfg.Exam.TickInterval())
	assert.Equal(t, 20, cfg.Exam.HistoryLimit)
	assert.Equal(t, []int{10, 20, 30, 50}, cfg.Practice.Sizes)
	assert.Equal(t, 10, cfg.Practice.DefaultSize)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
storage:
  driver: SQLite
  sqlite_path: /tmp/state.db
questions:
  path: bank/questions.json
exam:
  question_count: 40
  duration_minutes: 45
practice:
  default_size: 20
  sizes: [20, 40]
`)
	t.Setenv("EXAM_QUESTION_COUNT", "30")
	t.Setenv("SERVER_PORT", "9090")

	// Act
	cfg, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/state.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "bank/questions.json", cfg.Questions.Path)
	assert.Equal(t, 30, cfg.Exam.QuestionCount, "переменная окружения важнее файла")
	assert.Equal(t, 45*time.Minute, cfg.Exam.Duration())
	assert.Equal(t, []int{20, 40}, cfg.Practice.Sizes)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	// Arrange
	cfg := &Config{
		Storage:   StorageConfig{Driver: "etcd"},
		Questions: QuestionsConfig{Source: QuestionSourcePostgres},
		Exam:      ExamConfig{QuestionCount: 0, DurationMinutes: 50, TickIntervalMs: 500, HistoryLimit: 20},
		Practice:  PracticeConfig{DefaultSize: 15, Sizes: []int{10, 20}},
	}

	// Act
	err := cfg.Validate()

	// Assert
	require.Error(t, err)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 4)
	assert.Contains(t, err.Error(), "unknown storage driver")
	assert.Contains(t, err.Error(), "database configuration")
	assert.Contains(t, err.Error(), "exam.question_count")
	assert.Contains(t, err.Error(), "practice.default_size")
}

func TestValidate_RedisNeedsAddress(t *testing.T) {
	cfg := &Config{
		Storage:   StorageConfig{Driver: StorageRedis},
		Questions: QuestionsConfig{Source: QuestionSourceJSON, Path: "q.json"},
		Exam:      ExamConfig{QuestionCount: 50, DurationMinutes: 50, TickIntervalMs: 500, HistoryLimit: 20},
		Practice:  PracticeConfig{DefaultSize: 10, Sizes: []int{10}},
	}
	assert.Error(t, cfg.Validate())

	cfg.Redis.Addrs = []string{"localhost:6379"}
	assert.NoError(t, cfg.Validate())
}

func TestDatabaseConfig_URLs(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "exam", Password: "secret", DBName: "bank", SSLMode: "disable"}

	assert.Equal(t, "postgres://exam:secret@db:5432/bank?sslmode=disable", d.PostgresURL())
	assert.Equal(t, "host=db port=5432 user=exam password=secret dbname=bank sslmode=disable", d.PostgresConnectionString())
}
