package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/exam-prep-api/internal/domain/entity"
)

func twoQuestionPool() []entity.Question {
	return []entity.Question{
		{ID: "q1", Options: entity.OptionList{{ID: "a"}, {ID: "x"}}, CorrectOption: "a"},
		{ID: "q2", Options: entity.OptionList{{ID: "b"}, {ID: "x"}}, CorrectOption: "b"},
	}
}

func TestScore_ManualSubmitScenario(t *testing.T) {
	// Arrange
	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	// Act
	result := Score(twoQuestionPool(), map[string]string{"q1": "a", "q2": "x"}, false, at)

	// Assert
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.Total)
	assert.False(t, result.AutoSubmitted)
	assert.Equal(t, at, result.SubmittedAt)
	assert.InDelta(t, 50.0, result.Percent(), 0.001)
}

func TestScore_TotalAlwaysEqualsPoolLength(t *testing.T) {
	pool := makeQuestions(5, "Merkit")
	answerSets := []map[string]string{
		nil,
		{},
		{"Merkit-1": "a"},
		{"Merkit-1": "a", "Merkit-2": "a", "Merkit-3": "b", "unknown": "a"},
	}

	for _, answers := range answerSets {
		result := Score(pool, answers, true, time.Time{})
		assert.Equal(t, len(pool), result.Total)
		assert.True(t, result.AutoSubmitted)
	}

	assert.Equal(t, 0, Score(nil, nil, false, time.Time{}).Total)
}

func TestScore_UngradedNeverCounts(t *testing.T) {
	// Arrange
	pool := []entity.Question{
		{ID: "u1", Options: entity.OptionList{{ID: "a"}, {ID: "b"}}},
		{ID: "g1", Options: entity.OptionList{{ID: "a"}, {ID: "b"}}, CorrectOption: "a"},
	}

	for _, opt := range []string{"a", "b", ""} {
		// Act
		result := Score(pool, map[string]string{"u1": opt, "g1": "a"}, false, time.Time{})

		// Assert
		assert.Equal(t, 1, result.Score)
		assert.Equal(t, 2, result.Total)
		assert.Equal(t, 1, result.Ungraded)
	}
}

func TestReview_Statuses(t *testing.T) {
	// Arrange
	pool := []entity.Question{
		{ID: "q1", Options: entity.OptionList{{ID: "a"}, {ID: "b"}}, CorrectOption: "a", Explanation: "Koska."},
		{ID: "q2", Options: entity.OptionList{{ID: "a"}, {ID: "b"}}, CorrectOption: "a"},
		{ID: "q3", Options: entity.OptionList{{ID: "a"}, {ID: "b"}}, CorrectOption: "b"},
		{ID: "q4", Options: entity.OptionList{{ID: "a"}, {ID: "b"}}},
	}
	answers := map[string]string{"q1": "a", "q2": "b", "q4": "a"}
	flags := map[string]bool{"q3": true}

	// Act
	items := Review(pool, answers, flags)

	// Assert
	require.Len(t, items, 4)
	assert.Equal(t, entity.ReviewCorrect, items[0].Status)
	assert.Equal(t, "Koska.", items[0].Explanation)
	assert.Equal(t, entity.ReviewWrong, items[1].Status)
	assert.Equal(t, "b", items[1].Selected)
	assert.Equal(t, entity.ReviewUnanswered, items[2].Status)
	assert.True(t, items[2].Flagged)
	assert.Equal(t, entity.ReviewUngraded, items[3].Status)
	assert.Equal(t, 3, items[3].Index)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "50:00", FormatClock(50*time.Minute))
	assert.Equal(t, "01:05", FormatClock(65*time.Second+400*time.Millisecond))
	assert.Equal(t, "00:00", FormatClock(-3*time.Second))
	assert.Equal(t, "120:00", FormatClock(2*time.Hour))
}
