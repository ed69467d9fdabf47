package websocket

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"
)

// HubConfig содержит настройки хаба
type HubConfig struct {
	MaxClients        int           // 0 - без ограничения
	CleanupInterval   time.Duration // Период проверки неактивных клиентов
	InactivityTimeout time.Duration // Клиент без активности дольше этого времени отключается
}

// DefaultHubConfig возвращает настройки хаба по умолчанию
func DefaultHubConfig() HubConfig {
	return HubConfig{
		MaxClients:        1000,
		CleanupInterval:   time.Minute,
		InactivityTimeout: 5 * time.Minute,
	}
}

// hubMetrics - счетчики хаба
type hubMetrics struct {
	mu                sync.Mutex
	activeConnections int64
	totalConnections  int64
	messagesSent      int64
	droppedClients    int64
	startTime         time.Time
}

// Hub хранит подключенных клиентов и рассылает им сообщения.
// Регистрация, отключение и рассылка выполняются в одной горутине Run.
type Hub struct {
	config HubConfig

	clients sync.Map // *Client -> bool
	byID    sync.Map // ConnectionID -> *Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once

	metrics hubMetrics
}

// NewHub создает новый хаб. Run нужно запустить отдельно.
func NewHub(config HubConfig) *Hub {
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultHubConfig().CleanupInterval
	}
	if config.InactivityTimeout <= 0 {
		config.InactivityTimeout = DefaultHubConfig().InactivityTimeout
	}
	return &Hub{
		config:     config,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		metrics:    hubMetrics{startTime: time.Now()},
	}
}

// Run запускает цикл обработки сообщений хаба
func (h *Hub) Run() {
	cleanup := time.NewTicker(h.config.CleanupInterval)
	defer cleanup.Stop()

	log.Printf("[WebSocketHub] Хаб запущен (max_clients=%d)", h.config.MaxClients)
	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)
		case client := <-h.unregister:
			h.handleUnregister(client)
		case message := <-h.broadcast:
			h.handleBroadcast(message)
		case <-cleanup.C:
			h.cleanupInactiveClients(h.config.InactivityTimeout)
		case <-h.done:
			log.Println("[WebSocketHub] Получен сигнал завершения работы, останавливаемся")
			h.cleanupAllClients()
			return
		}
	}
}

// Close останавливает хаб и отключает всех клиентов
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// RegisterSync регистрирует клиента и ждёт подтверждения
func (h *Hub) RegisterSync(client *Client, timeout time.Duration) bool {
	select {
	case h.register <- client:
	case <-h.done:
		return false
	case <-time.After(timeout):
		return false
	}

	select {
	case ok := <-client.registrationComplete:
		return ok
	case <-time.After(timeout):
		return false
	}
}

// UnregisterClient отключает клиента
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) handleRegister(client *Client) {
	if h.config.MaxClients > 0 && h.ClientCount() >= h.config.MaxClients {
		log.Printf("[WebSocketHub] Достигнут лимит клиентов (%d), соединение %s отклонено", h.config.MaxClients, client.ConnectionID)
		if client.conn != nil {
			client.conn.Close()
		}
		client.CloseSend()
		client.registrationComplete <- false
		return
	}

	h.clients.Store(client, true)
	h.byID.Store(client.ConnectionID, client)
	client.touch()

	h.metrics.mu.Lock()
	h.metrics.activeConnections++
	h.metrics.totalConnections++
	h.metrics.mu.Unlock()

	log.Printf("[WebSocketHub] Клиент %s зарегистрирован", client.ConnectionID)

	select {
	case client.registrationComplete <- true:
	default:
	}
}

func (h *Hub) handleUnregister(client *Client) {
	if _, ok := h.clients.LoadAndDelete(client); !ok {
		return
	}
	h.byID.CompareAndDelete(client.ConnectionID, client)

	if client.conn != nil {
		client.conn.Close()
	}
	client.CloseSend()

	h.metrics.mu.Lock()
	h.metrics.activeConnections--
	h.metrics.mu.Unlock()

	log.Printf("[WebSocketHub] Клиент %s отключён", client.ConnectionID)
}

// handleBroadcast рассылает сообщение клиентам, подписанным на его тип.
// Клиент, буфер которого переполнен maxBufferWarnings раз подряд, отключается.
func (h *Hub) handleBroadcast(message []byte) {
	messageType := messageTypeFromBytes(message)
	isSystemMessage := messageType == SYSTEM

	var clientCount int64
	h.clients.Range(func(key, _ interface{}) bool {
		client := key.(*Client)
		if !isSystemMessage && !client.IsSubscribed(messageType) {
			return true
		}

		if client.trySend(message) {
			clientCount++
			client.resetBufferWarningCount()
		} else if !client.IsSendClosed() {
			if n := client.incrementBufferWarningCount(); n >= maxBufferWarnings {
				log.Printf("[WebSocketHub] Клиент %s превысил лимит предупреждений буфера (%d), отключаем", client.ConnectionID, maxBufferWarnings)
				h.handleUnregister(client)
				h.metrics.mu.Lock()
				h.metrics.droppedClients++
				h.metrics.mu.Unlock()
			} else {
				h.sendBufferWarning(client, n)
			}
		}
		return true
	})

	if clientCount > 0 {
		h.metrics.mu.Lock()
		h.metrics.messagesSent += clientCount
		h.metrics.mu.Unlock()
	}
	if debugLogging {
		log.Printf("[WebSocketHub] Сообщение %s отправлено %d клиентам", messageType, clientCount)
	}
}

func (h *Hub) sendBufferWarning(client *Client, count int32) {
	warning, _ := json.Marshal(Event{
		Type: SERVER_BUFFER_WARNING,
		Data: map[string]interface{}{
			"warning_count": count,
			"max_warnings":  maxBufferWarnings,
		},
	})
	client.trySend(warning)
}

func (h *Hub) cleanupInactiveClients(timeout time.Duration) {
	threshold := time.Now().Add(-timeout)
	h.clients.Range(func(key, _ interface{}) bool {
		client := key.(*Client)
		if client.LastActivity().Before(threshold) {
			log.Printf("[WebSocketHub] Клиент %s неактивен с %s, отключаем", client.ConnectionID, client.LastActivity().Format(time.RFC3339))
			h.handleUnregister(client)
		}
		return true
	})
}

func (h *Hub) cleanupAllClients() {
	h.clients.Range(func(key, _ interface{}) bool {
		h.handleUnregister(key.(*Client))
		return true
	})
}

// BroadcastBytes ставит сообщение в очередь рассылки
func (h *Hub) BroadcastBytes(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	default:
		log.Printf("[WebSocketHub] Очередь рассылки переполнена, сообщение %s отброшено", messageTypeFromBytes(message))
	}
}

// BroadcastJSON сериализует v и рассылает его
func (h *Hub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast message: %w", err)
	}
	h.BroadcastBytes(data)
	return nil
}

// SendJSONToClient отправляет сообщение одному соединению
func (h *Hub) SendJSONToClient(connectionID string, v interface{}) error {
	value, ok := h.byID.Load(connectionID)
	if !ok {
		return fmt.Errorf("client %s is not connected", connectionID)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if !value.(*Client).trySend(data) {
		return fmt.Errorf("client %s send buffer is full or closed", connectionID)
	}
	return nil
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	count := 0
	h.clients.Range(func(_, _ interface{}) bool {
		count++
		return true
	})
	return count
}

// GetMetrics возвращает метрики хаба
func (h *Hub) GetMetrics() map[string]interface{} {
	h.metrics.mu.Lock()
	defer h.metrics.mu.Unlock()
	return map[string]interface{}{
		"active_connections": h.metrics.activeConnections,
		"total_connections":  h.metrics.totalConnections,
		"messages_sent":      h.metrics.messagesSent,
		"dropped_clients":    h.metrics.droppedClients,
		"uptime_seconds":     int64(time.Since(h.metrics.startTime).Seconds()),
	}
}
