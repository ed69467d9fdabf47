package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/exam-prep-api/internal/pkg/errors"
	"github.com/yourusername/exam-prep-api/pkg/database"
)

func newTestRepo(t *testing.T) *StateRepo {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := NewStateRepo(db)
	require.NoError(t, err)
	return repo
}

func TestStateRepo_Upsert(t *testing.T) {
	// Arrange
	repo := newTestRepo(t)

	// Act
	require.NoError(t, repo.Set("exam_state", "v1"))
	require.NoError(t, repo.Set("exam_state", "v2"))

	// Assert
	val, err := repo.Get("exam_state")
	require.NoError(t, err)
	assert.Equal(t, "v2", val)
}

func TestStateRepo_MissingAndDelete(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get("nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, repo.SetJSON("progress", map[string]int{"practiceDone": 3}))
	var got map[string]int
	require.NoError(t, repo.GetJSON("progress", &got))
	assert.Equal(t, 3, got["practiceDone"])

	require.NoError(t, repo.Delete("progress"))
	exists, err := repo.Exists("progress")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNewStateRepo_NilDB(t *testing.T) {
	_, err := NewStateRepo(nil)
	assert.Error(t, err)
}
