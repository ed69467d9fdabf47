package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-prep-api/internal/handler/dto"
	apperrors "github.com/yourusername/exam-prep-api/internal/pkg/errors"
	"github.com/yourusername/exam-prep-api/internal/service"
	"github.com/yourusername/exam-prep-api/internal/service/session"
)

// PracticeHandler обрабатывает запросы практического режима
type PracticeHandler struct {
	practiceService *service.PracticeService
}

// NewPracticeHandler создает новый обработчик практики
func NewPracticeHandler(practiceService *service.PracticeService) *PracticeHandler {
	return &PracticeHandler{practiceService: practiceService}
}

// GetTopics возвращает список тем и допустимые размеры набора
func (h *PracticeHandler) GetTopics(c *gin.Context) {
	topics, err := h.practiceService.Topics()
	if err != nil {
		handleError(c, "PracticeHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"topics": topics,
		"sizes":  h.practiceService.Sizes(),
	})
}

// GetState возвращает текущее состояние практики
func (h *PracticeHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewPracticeResponse(h.practiceService.Snapshot()))
}

// Configure выбирает тему и размер и собирает новый набор
func (h *PracticeHandler) Configure(c *gin.Context) {
	var req dto.PracticeConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.practiceService.Configure(req.Topic, req.Size)
	h.respondPoolChange(c, snap, err)
}

// NewSet собирает новый набор с текущими настройками
func (h *PracticeHandler) NewSet(c *gin.Context) {
	snap, err := h.practiceService.NewSet()
	h.respondPoolChange(c, snap, err)
}

// SelectOption запоминает выбранный вариант
func (h *PracticeHandler) SelectOption(c *gin.Context) {
	var req dto.SelectOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.practiceService.Select(req.OptionID)
	if err != nil {
		handleError(c, "PracticeHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPracticeResponse(snap))
}

// Submit отправляет выбранный ответ и возвращает результат с объяснением
func (h *PracticeHandler) Submit(c *gin.Context) {
	outcome, snap, err := h.practiceService.Submit()
	if err != nil {
		handleError(c, "PracticeHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPracticeSubmitResponse(outcome, snap))
}

// Advance переходит к следующему вопросу
func (h *PracticeHandler) Advance(c *gin.Context) {
	snap, err := h.practiceService.Advance()
	if err != nil {
		handleError(c, "PracticeHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPracticeResponse(snap))
}

// respondPoolChange отвечает на пересборку пула. Пустой пул - обычное состояние, а не ошибка.
func (h *PracticeHandler) respondPoolChange(c *gin.Context, snap session.PracticeSnapshot, err error) {
	if err != nil && !errors.Is(err, apperrors.ErrEmptyPool) {
		handleError(c, "PracticeHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPracticeResponse(snap))
}
