package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ExtractIntParam создает middleware для извлечения и валидации неотрицательного числового параметра URL.
// paramName - имя параметра в URL (например, "index").
// contextKey - ключ, под которым значение будет сохранено в контексте Gin.
func ExtractIntParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", paramName)})
			c.Abort()
			return
		}
		c.Set(contextKey, value)
		c.Next()
	}
}
