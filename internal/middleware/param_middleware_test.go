package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestExtractIntParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/items/:index", ExtractIntParam("index", "idx"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"idx": c.GetInt("idx")})
	})

	cases := []struct {
		path string
		code int
	}{
		{"/items/0", http.StatusOK},
		{"/items/12", http.StatusOK},
		{"/items/-1", http.StatusBadRequest},
		{"/items/abc", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)

			router.ServeHTTP(w, req)

			assert.Equal(t, tc.code, w.Code)
		})
	}
}
