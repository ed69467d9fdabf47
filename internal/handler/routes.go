package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-prep-api/internal/middleware"
)

// RegisterRoutes подключает REST маршруты практики, экзамена и прогресса к группе api.
// poolLimits применяются к маршрутам, которые пересобирают пул вопросов.
func RegisterRoutes(api *gin.RouterGroup, practice *PracticeHandler, exam *ExamHandler, progress *ProgressHandler, poolLimits ...gin.HandlerFunc) {
	withLimits := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, poolLimits...), h)
	}

	api.GET("/topics", practice.GetTopics)

	practiceGroup := api.Group("/practice")
	{
		practiceGroup.GET("", practice.GetState)
		practiceGroup.POST("/config", withLimits(practice.Configure)...)
		practiceGroup.POST("/new-set", withLimits(practice.NewSet)...)
		practiceGroup.POST("/select", practice.SelectOption)
		practiceGroup.POST("/submit", practice.Submit)
		practiceGroup.POST("/next", practice.Advance)
	}

	examGroup := api.Group("/exam")
	{
		examGroup.GET("", exam.GetState)
		examGroup.POST("/start", withLimits(exam.Start)...)
		examGroup.POST("/answer", exam.Answer)
		examGroup.POST("/flag/:questionId", exam.ToggleFlag)
		examGroup.POST("/position/:index", middleware.ExtractIntParam("index", "position"), exam.JumpTo)
		examGroup.POST("/next", exam.Next)
		examGroup.POST("/prev", exam.Prev)
		examGroup.POST("/submit", exam.Submit)
		examGroup.GET("/review", exam.Review)
		examGroup.POST("/reset", exam.Reset)
	}

	progressGroup := api.Group("/progress")
	{
		progressGroup.GET("", progress.GetProgress)
		progressGroup.GET("/mistakes", progress.GetMistakes)
		progressGroup.POST("/mistakes/:questionId/toggle", progress.ToggleMistake)
		progressGroup.DELETE("/mistakes", progress.ClearMistakes)
		progressGroup.POST("/bookmarks", progress.ToggleBookmark)
		progressGroup.GET("/history/export", progress.ExportHistory)
	}
}
