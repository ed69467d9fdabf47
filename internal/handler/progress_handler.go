package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/exam-prep-api/internal/domain/entity"
	"github.com/yourusername/exam-prep-api/internal/handler/dto"
	"github.com/yourusername/exam-prep-api/internal/handler/helper"
	"github.com/yourusername/exam-prep-api/internal/service"
)

// ProgressHandler обрабатывает запросы прогресса учащегося
type ProgressHandler struct {
	progressService *service.ProgressService
}

// NewProgressHandler создает новый обработчик прогресса
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// ToggleBookmarkRequest - запрос на переключение закладки главы
type ToggleBookmarkRequest struct {
	ChapterID string `json:"chapter_id" binding:"required"`
}

// GetProgress возвращает сводку прогресса
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewProgressResponse(h.progressService.GetProgress()))
}

// GetMistakes возвращает вопросы из списка ошибок с ответами
func (h *ProgressHandler) GetMistakes(c *gin.Context) {
	questions, err := h.progressService.MistakeQuestions()
	if err != nil {
		handleError(c, "ProgressHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": dto.NewQuestionListResponse(questions)})
}

// ToggleMistake добавляет вопрос в список ошибок или убирает его
func (h *ProgressHandler) ToggleMistake(c *gin.Context) {
	questionID := c.Param("questionId")

	inList, err := h.progressService.ToggleMistake(questionID)
	if err != nil {
		handleError(c, "ProgressHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question_id": questionID, "in_mistakes": inList})
}

// ClearMistakes очищает список ошибок
func (h *ProgressHandler) ClearMistakes(c *gin.Context) {
	if err := h.progressService.ClearMistakes(); err != nil {
		handleError(c, "ProgressHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Mistakes cleared"})
}

// ToggleBookmark переключает закладку главы
func (h *ProgressHandler) ToggleBookmark(c *gin.Context) {
	var req ToggleBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bookmarked, err := h.progressService.ToggleBookmark(req.ChapterID)
	if err != nil {
		handleError(c, "ProgressHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chapter_id": req.ChapterID, "bookmarked": bookmarked})
}

// ExportHistory выгружает историю пробных экзаменов в CSV или XLSX
func (h *ProgressHandler) ExportHistory(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	history := h.progressService.History()
	filename := fmt.Sprintf("mock_history_%s", time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, history, filename)
	default:
		h.exportCSV(c, history, filename)
	}
}

var historyHeaders = []string{"Дата", "Баллы", "Всего вопросов", "Процент", "Время (сек)", "Автосдача"}

func historyPercent(e entity.HistoryEntry) float64 {
	if e.Total == 0 {
		return 0
	}
	return float64(e.Score) * 100 / float64(e.Total)
}

// exportCSV экспортирует историю в CSV с правильным экранированием спецсимволов
func (h *ProgressHandler) exportCSV(c *gin.Context, history []entity.HistoryEntry, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(historyHeaders)
	for _, e := range history {
		writer.Write([]string{
			helper.SanitizeForExcel(e.Date.Format(time.RFC3339)),
			strconv.Itoa(e.Score),
			strconv.Itoa(e.Total),
			strconv.FormatFloat(historyPercent(e), 'f', 1, 64),
			strconv.Itoa(e.TimeSec),
			helper.YesNo(e.AutoSubmitted),
		})
	}
}

// exportXLSX экспортирует историю в Excel с использованием StreamWriter
func (h *ProgressHandler) exportXLSX(c *gin.Context, history []entity.HistoryEntry, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "История"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ProgressHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, len(historyHeaders))
	for i, hdr := range historyHeaders {
		headers[i] = hdr
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ProgressHandler] Ошибка записи заголовков: %v", err)
	}

	for i, e := range history {
		rowNum := i + 2
		cell := fmt.Sprintf("A%d", rowNum)
		row := []interface{}{
			e.Date.Format("2006-01-02 15:04"),
			e.Score,
			e.Total,
			historyPercent(e),
			e.TimeSec,
			helper.YesNo(e.AutoSubmitted),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ProgressHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ProgressHandler] Ошибка при Flush: %v", err)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ProgressHandler] Ошибка записи Excel в response: %v", err)
	}
}
