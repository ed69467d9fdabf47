package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/exam-prep-api/internal/config"
)

func TestRedisOptions_Single(t *testing.T) {
	// Arrange
	cfg := config.RedisConfig{Addrs: []string{"r1:6379", "r2:6379"}, DB: 2, MinRetryBackoff: 8, MaxRetryBackoff: 512}

	// Act
	options, err := redisOptions(cfg)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"r1:6379"}, options.Addrs, "в режиме single используется первый адрес")
	assert.Equal(t, 2, options.DB)
	assert.Equal(t, 8*time.Millisecond, options.MinRetryBackoff)
	assert.Equal(t, 512*time.Millisecond, options.MaxRetryBackoff)
}

func TestRedisOptions_FallbackToAddr(t *testing.T) {
	options, err := redisOptions(config.RedisConfig{Mode: "single", Addr: "localhost:6379"})

	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:6379"}, options.Addrs)
}

func TestRedisOptions_Sentinel(t *testing.T) {
	_, err := redisOptions(config.RedisConfig{Mode: "sentinel", Addrs: []string{"s1:26379"}})
	assert.Error(t, err)

	options, err := redisOptions(config.RedisConfig{Mode: "sentinel", Addrs: []string{"s1:26379"}, MasterName: "mymaster"})
	require.NoError(t, err)
	assert.Equal(t, "mymaster", options.MasterName)
}

func TestRedisOptions_Invalid(t *testing.T) {
	cases := map[string]config.RedisConfig{
		"no address":     {},
		"cluster of one": {Mode: "cluster", Addrs: []string{"c1:7000"}},
		"unknown mode":   {Mode: "ring", Addr: "localhost:6379"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := redisOptions(cfg)
			assert.Error(t, err)
		})
	}
}

func TestNewSQLiteDB_InMemory(t *testing.T) {
	// Arrange & Act
	db, err := NewSQLiteDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	// Assert: одно соединение сохраняет таблицы между запросами
	_, err = db.Exec(`CREATE TABLE t (v INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO t (v) VALUES (1)`)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&count))
	assert.Equal(t, 1, count)
}
