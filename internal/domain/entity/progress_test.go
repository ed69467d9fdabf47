package entity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressRecord_MistakesAreIdempotent(t *testing.T) {
	// Arrange
	p := NewProgressRecord()

	// Act
	assert.True(t, p.AddMistake("q1"))
	assert.False(t, p.AddMistake("q1"))
	assert.True(t, p.AddMistake("q2"))

	// Assert
	assert.Equal(t, []string{"q1", "q2"}, p.Mistakes)
	assert.True(t, p.RemoveMistake("q1"))
	assert.False(t, p.RemoveMistake("q1"))
	assert.Equal(t, []string{"q2"}, p.Mistakes)
}

func TestProgressRecord_ToggleMistake(t *testing.T) {
	p := NewProgressRecord()

	assert.True(t, p.ToggleMistake("q7"))
	assert.True(t, p.HasMistake("q7"))
	assert.False(t, p.ToggleMistake("q7"))
	assert.False(t, p.HasMistake("q7"))

	p.AddMistake("a")
	p.AddMistake("b")
	p.ClearMistakes()
	assert.Empty(t, p.Mistakes)
}

func TestProgressRecord_ToggleBookmark(t *testing.T) {
	p := NewProgressRecord()

	assert.True(t, p.ToggleBookmark("ch-1"))
	assert.True(t, p.ToggleBookmark("ch-2"))
	assert.False(t, p.ToggleBookmark("ch-1"))
	assert.Equal(t, []string{"ch-2"}, p.Bookmarks.Chapters)
}

func TestProgressRecord_PrependHistoryCapped(t *testing.T) {
	// Arrange
	p := NewProgressRecord()
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	// Act
	for i := 0; i < 25; i++ {
		p.PrependHistory(HistoryEntry{Date: base.Add(time.Duration(i) * time.Hour), Score: i, Total: 50}, 20)
	}

	// Assert
	require.Len(t, p.MockHistory, 20)
	assert.Equal(t, 24, p.MockHistory[0].Score, "самая свежая запись должна быть первой")
	assert.Equal(t, 5, p.MockHistory[19].Score)
	assert.Equal(t, 24, p.LastMock().Score)
}

func TestProgressRecord_Normalize(t *testing.T) {
	p := &ProgressRecord{PracticeDone: -3, Mistakes: []string{"a", "b", "a"}}

	p.Normalize()

	assert.Equal(t, 0, p.PracticeDone)
	assert.Equal(t, []string{"a", "b"}, p.Mistakes)
	assert.NotNil(t, p.Bookmarks.Chapters)
	assert.NotNil(t, p.MockHistory)
	assert.Nil(t, p.LastMock())
}

func TestExamState_ValidateAndTiming(t *testing.T) {
	// Arrange
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	state := &ExamState{
		ID:          "e1",
		Status:      ExamStatusRunning,
		Pool:        []Question{*sampleQuestion()},
		Answers:     map[string]string{"q1": "a"},
		Flags:       map[string]bool{"q1": true},
		StartedAt:   start,
		DeadlineAt:  start.Add(50 * time.Minute),
		DurationSec: 3000,
	}

	// Act & Assert
	require.NoError(t, state.Validate())
	assert.Equal(t, 20*time.Minute, state.Remaining(start.Add(30*time.Minute)))
	assert.Equal(t, time.Duration(0), state.Remaining(start.Add(2*time.Hour)))
	assert.Equal(t, 50*time.Minute, state.Elapsed(start.Add(2*time.Hour)))
	assert.Equal(t, []string{"q1"}, state.FlaggedIDs())

	cases := []func(s *ExamState){
		func(s *ExamState) { s.Status = "paused" },
		func(s *ExamState) { s.CurrentIndex = 1 },
		func(s *ExamState) { s.Answers = map[string]string{"q1": "zz"} },
		func(s *ExamState) { s.Answers = map[string]string{"nope": "a"} },
		func(s *ExamState) { s.Flags = map[string]bool{"nope": true} },
		func(s *ExamState) { s.DeadlineAt = s.StartedAt },
		func(s *ExamState) { s.Status = ExamStatusSubmitted },
	}
	for i, mutate := range cases {
		t.Run(fmt.Sprintf("corrupt_%d", i), func(t *testing.T) {
			broken := *state
			mutate(&broken)
			assert.Error(t, broken.Validate())
		})
	}
}

func TestPracticeState_Status(t *testing.T) {
	s := &PracticeState{}
	assert.Equal(t, PracticeStatusIdle, s.Status())

	s.Configured = true
	s.Size = 10
	assert.Equal(t, PracticeStatusEmpty, s.Status())
	assert.Nil(t, s.Current())

	s.Pool = []Question{*sampleQuestion()}
	assert.Equal(t, PracticeStatusInProgress, s.Status())
	s.Submitted = true
	assert.Equal(t, PracticeStatusAnswered, s.Status())
	s.Completed = true
	assert.Equal(t, PracticeStatusCompleted, s.Status())
	assert.True(t, s.IsLast())
}
