package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/yourusername/exam-prep-api/internal/handler/dto"
	"github.com/yourusername/exam-prep-api/internal/service"
	"github.com/yourusername/exam-prep-api/internal/websocket"
)

// WSHandler обрабатывает WebSocket соединения
type WSHandler struct {
	wsHub        *websocket.Hub
	wsManager    *websocket.Manager
	examService  *service.ExamService
	clientConfig websocket.ClientConfig
	upgrader     gorillaws.Upgrader
}

// NewWSHandler создает новый обработчик WebSocket.
// allowedOrigins синхронизирован с настройками CORS.
func NewWSHandler(
	wsHub *websocket.Hub,
	wsManager *websocket.Manager,
	examService *service.ExamService,
	clientConfig websocket.ClientConfig,
	allowedOrigins []string,
) *WSHandler {
	handler := &WSHandler{
		wsHub:        wsHub,
		wsManager:    wsManager,
		examService:  examService,
		clientConfig: clientConfig,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:    1024,
			WriteBufferSize:   1024,
			CheckOrigin:       originChecker(allowedOrigins),
			EnableCompression: true,
		},
	}

	// Регистрируем обработчики сообщений один раз при создании обработчика
	handler.registerMessageHandlers()

	return handler
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// Не браузерный клиент (curl, тесты)
		if origin == "" {
			return true
		}
		if _, ok := allowed[origin]; ok {
			return true
		}
		log.Printf("WebSocket: rejected unauthorized origin: %s", origin)
		return false
	}
}

// HandleConnection обрабатывает входящее WebSocket соединение
func (h *WSHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже записал ответ с ошибкой
		log.Printf("[WSHandler] Ошибка upgrade соединения: %v", err)
		return
	}

	client := websocket.NewClientWithConfig(h.wsHub, conn, h.clientConfig)
	client.SubscribeToExam()
	log.Printf("[WSHandler] Новое соединение %s", client.ConnectionID)

	client.StartPumps(h.wsManager.HandleMessage)
}

// registerMessageHandlers регистрирует обработчики для различных типов сообщений
func (h *WSHandler) registerMessageHandlers() {
	// Запрос актуального состояния экзамена после переподключения
	h.wsManager.RegisterHandler(websocket.EXAM_SYNC, func(_ json.RawMessage, client *websocket.Client) error {
		state := dto.NewExamResponse(h.examService.Snapshot())
		if err := h.wsManager.SendEventToClient(client.ConnectionID, websocket.EXAM_STATE, state); err != nil {
			log.Printf("[WSHandler] WARNING: Ошибка отправки %s клиенту %s: %v", websocket.EXAM_STATE, client.ConnectionID, err)
		}
		return nil // Никогда не закрываем соединение из-за sync
	})
}
