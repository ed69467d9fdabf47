package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPracticeHandler_Topics(t *testing.T) {
	env := newTestEnv(t, append(testQuestions(3, "Merkit"), testQuestions(2, "Ensiapu")...)...)

	w := env.do(http.MethodGet, "/api/topics", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, []interface{}{"ALL", "Merkit", "Ensiapu"}, resp["topics"])
	assert.Equal(t, []interface{}{10.0, 20.0, 30.0, 50.0}, resp["sizes"])
}

func TestPracticeHandler_ConfigureHidesAnswer(t *testing.T) {
	// Arrange
	env := newTestEnv(t, testQuestions(12, "Merkit")...)

	// Act
	w := env.do(http.MethodPost, "/api/practice/config", map[string]interface{}{"topic": "Merkit", "size": 10})

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, "in_progress", resp["status"])
	assert.Equal(t, 10.0, resp["total"])

	question := resp["question"].(map[string]interface{})
	assert.NotContains(t, question, "correct_option", "ответ не раскрывается до отправки")
	assert.NotContains(t, question, "explanation")
}

func TestPracticeHandler_EmptyTopicIsNotAnError(t *testing.T) {
	env := newTestEnv(t, testQuestions(3, "Merkit")...)

	w := env.do(http.MethodPost, "/api/practice/config", map[string]interface{}{"topic": "Tuntematon", "size": 10})

	require.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, "empty", resp["status"])
	assert.Equal(t, 0.0, resp["total"])
}

func TestPracticeHandler_InvalidSize(t *testing.T) {
	env := newTestEnv(t, testQuestions(3, "Merkit")...)

	w := env.do(http.MethodPost, "/api/practice/config", map[string]interface{}{"topic": "ALL", "size": 7})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPracticeHandler_SubmitFlow(t *testing.T) {
	// Arrange
	env := newTestEnv(t, testQuestions(1, "Merkit")...)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/practice/config", map[string]interface{}{"topic": "ALL"}).Code)

	// Act & Assert: отправка без выбора
	w := env.do(http.MethodPost, "/api/practice/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Переход без отправки
	w = env.do(http.MethodPost, "/api/practice/next", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Выбор и отправка неправильного ответа
	w = env.do(http.MethodPost, "/api/practice/select", map[string]string{"option_id": "b"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/api/practice/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, "incorrect", resp["outcome"])
	assert.Equal(t, "a", resp["correct_option"])
	assert.Equal(t, "Selitys", resp["explanation"])

	state := resp["state"].(map[string]interface{})
	assert.Equal(t, "answered", state["status"])
	question := state["question"].(map[string]interface{})
	assert.Equal(t, "a", question["correct_option"], "после отправки ответ раскрыт")

	// Повторная отправка
	w = env.do(http.MethodPost, "/api/practice/submit", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Прогресс обновлён
	progress := env.progress.GetProgress()
	assert.Equal(t, 1, progress.PracticeDone)
	assert.Equal(t, []string{"Merkit-1"}, progress.Mistakes)

	// Последний вопрос завершает набор
	w = env.do(http.MethodPost, "/api/practice/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", parseJSONResponse(t, w)["status"])
}

func TestPracticeHandler_SelectValidation(t *testing.T) {
	env := newTestEnv(t, testQuestions(2, "Merkit")...)

	// Без пула
	w := env.do(http.MethodPost, "/api/practice/select", map[string]string{"option_id": "a"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/practice/config", map[string]interface{}{}).Code)

	w = env.do(http.MethodPost, "/api/practice/select", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/practice/select", map[string]string{"option_id": "z"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
