package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExamHandler_StartWithEmptyBank(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/exam/start", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExamHandler_NotStartedState(t *testing.T) {
	env := newTestEnv(t, testQuestions(3, "Merkit")...)

	w := env.do(http.MethodGet, "/api/exam", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, "not_started", resp["status"])
	assert.Equal(t, []interface{}{}, resp["navigator"])

	// Действия недоступны до старта
	assert.Equal(t, http.StatusConflict, env.do(http.MethodPost, "/api/exam/next", nil).Code)
	assert.Equal(t, http.StatusConflict, env.do(http.MethodPost, "/api/exam/submit", nil).Code)
	assert.Equal(t, http.StatusConflict, env.do(http.MethodGet, "/api/exam/review", nil).Code)
}

func TestExamHandler_FullFlow(t *testing.T) {
	// Arrange
	env := newTestEnv(t, testQuestions(3, "Merkit")...)

	// Act: старт
	w := env.do(http.MethodPost, "/api/exam/start", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	started := parseJSONResponse(t, w)
	assert.Equal(t, "running", started["status"])
	assert.Equal(t, 3.0, started["total"])
	assert.Equal(t, "50:00", started["remaining_clock"])
	assert.NotContains(t, started["question"].(map[string]interface{}), "correct_option")

	// Повторный старт во время экзамена
	assert.Equal(t, http.StatusConflict, env.do(http.MethodPost, "/api/exam/start", nil).Code)

	// Ответ на первый вопрос текущего пула
	questionID := started["question"].(map[string]interface{})["id"].(string)
	w = env.do(http.MethodPost, "/api/exam/answer", map[string]string{"question_id": questionID, "option_id": "a"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, parseJSONResponse(t, w)["answered"])

	// Неизвестный вариант
	w = env.do(http.MethodPost, "/api/exam/answer", map[string]string{"question_id": questionID, "option_id": "z"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Отметка
	w = env.do(http.MethodPost, "/api/exam/flag/"+questionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, parseJSONResponse(t, w)["flagged"])

	// Навигация
	w = env.do(http.MethodPost, "/api/exam/position/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2.0, parseJSONResponse(t, w)["current_index"])

	w = env.do(http.MethodPost, "/api/exam/position/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/exam/prev", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, parseJSONResponse(t, w)["current_index"])

	// Сдача
	w = env.do(http.MethodPost, "/api/exam/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	submitted := parseJSONResponse(t, w)
	assert.Equal(t, "submitted", submitted["status"])
	result := submitted["result"].(map[string]interface{})
	assert.Equal(t, 1.0, result["score"])
	assert.Equal(t, 3.0, result["total"])
	assert.Equal(t, false, result["auto_submitted"])

	// Повторная сдача
	assert.Equal(t, http.StatusConflict, env.do(http.MethodPost, "/api/exam/submit", nil).Code)

	// Разбор
	w = env.do(http.MethodGet, "/api/exam/review", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := parseJSONResponse(t, w)["items"].([]interface{})
	require.Len(t, items, 3)
	assert.Equal(t, "correct", items[0].(map[string]interface{})["status"])
	assert.Equal(t, "unanswered", items[1].(map[string]interface{})["status"])

	// История пополнена
	history := env.progress.History()
	require.Len(t, history, 1)
	assert.Equal(t, 1, history[0].Score)

	// Сброс
	w = env.do(http.MethodPost, "/api/exam/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "not_started", parseJSONResponse(t, w)["status"])
}
