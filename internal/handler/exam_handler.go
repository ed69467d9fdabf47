package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-prep-api/internal/handler/dto"
	"github.com/yourusername/exam-prep-api/internal/service"
)

// ExamHandler обрабатывает запросы пробного экзамена
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler создает новый обработчик экзамена
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// GetState возвращает текущее состояние экзамена с оставшимся временем
func (h *ExamHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewExamResponse(h.examService.Snapshot()))
}

// Start начинает новый экзамен
func (h *ExamHandler) Start(c *gin.Context) {
	snap, err := h.examService.Start()
	if err != nil {
		handleError(c, "ExamHandler", err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewExamResponse(snap))
}

// Answer записывает ответ на вопрос
func (h *ExamHandler) Answer(c *gin.Context) {
	var req dto.ExamAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.examService.Answer(req.QuestionID, req.OptionID)
	if err != nil {
		handleError(c, "ExamHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewExamResponse(snap))
}

// ToggleFlag переключает отметку вопроса
func (h *ExamHandler) ToggleFlag(c *gin.Context) {
	questionID := c.Param("questionId")

	flagged, err := h.examService.ToggleFlag(questionID)
	if err != nil {
		handleError(c, "ExamHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question_id": questionID, "flagged": flagged})
}

// JumpTo переходит к вопросу по индексу
func (h *ExamHandler) JumpTo(c *gin.Context) {
	index := c.MustGet("position").(int) // Получаем из контекста

	snap, err := h.examService.JumpTo(index)
	if err != nil {
		handleError(c, "ExamHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewExamResponse(snap))
}

// Next переходит к следующему вопросу
func (h *ExamHandler) Next(c *gin.Context) {
	snap, err := h.examService.Next()
	if err != nil {
		handleError(c, "ExamHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewExamResponse(snap))
}

// Prev переходит к предыдущему вопросу
func (h *ExamHandler) Prev(c *gin.Context) {
	snap, err := h.examService.Prev()
	if err != nil {
		handleError(c, "ExamHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewExamResponse(snap))
}

// Submit сдает экзамен
func (h *ExamHandler) Submit(c *gin.Context) {
	snap, err := h.examService.Submit()
	if err != nil {
		handleError(c, "ExamHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewExamResponse(snap))
}

// Review возвращает разбор сданного экзамена
func (h *ExamHandler) Review(c *gin.Context) {
	items, err := h.examService.Review()
	if err != nil {
		handleError(c, "ExamHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": dto.NewReviewResponse(items)})
}

// Reset сбрасывает экзамен в состояние not_started
func (h *ExamHandler) Reset(c *gin.Context) {
	if err := h.examService.Reset(); err != nil {
		handleError(c, "ExamHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewExamResponse(h.examService.Snapshot()))
}
