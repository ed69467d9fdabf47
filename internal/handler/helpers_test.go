package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/exam-prep-api/internal/domain/entity"
	"github.com/yourusername/exam-prep-api/internal/repository/memory"
	"github.com/yourusername/exam-prep-api/internal/service"
	"github.com/yourusername/exam-prep-api/internal/service/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testEnv собирает обработчики поверх in-memory хранилищ
type testEnv struct {
	router   *gin.Engine
	progress *service.ProgressService
	exam     *session.Exam
}

func testQuestions(n int, topic string) []entity.Question {
	questions := make([]entity.Question, n)
	for i := range questions {
		questions[i] = entity.Question{
			ID:            fmt.Sprintf("%s-%d", topic, i+1),
			Topic:         topic,
			Text:          fmt.Sprintf("Kysymys %d", i+1),
			Options:       entity.OptionList{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}},
			CorrectOption: "a",
			Explanation:   "Selitys",
		}
	}
	return questions
}

func newTestEnv(t *testing.T, questions ...entity.Question) *testEnv {
	t.Helper()

	questionRepo := memory.NewQuestionRepo(&entity.QuestionBank{Questions: questions})
	store := session.NewStore(memory.NewStateRepo())
	cfg := session.DefaultConfig()
	cfg.TickInterval = time.Hour

	progressService := service.NewProgressService(store, questionRepo, cfg.HistoryLimit)
	deps := session.Dependencies{Store: store, Progress: progressService}

	ctx, cancel := context.WithCancel(context.Background())
	exam := session.NewExam(ctx, cfg, deps)
	t.Cleanup(func() {
		exam.Close()
		cancel()
	})

	practice := session.NewPractice(cfg, deps)

	router := gin.New()
	RegisterRoutes(
		router.Group("/api"),
		NewPracticeHandler(service.NewPracticeService(practice, questionRepo, cfg)),
		NewExamHandler(service.NewExamService(exam, questionRepo, nil)),
		NewProgressHandler(progressService),
	)

	return &testEnv{router: router, progress: progressService, exam: exam}
}

// do выполняет запрос к тестовому роутеру
func (e *testEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}
