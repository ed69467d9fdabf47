package websocket

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Event представляет структуру WebSocket-сообщения
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// inboundEvent - входящее сообщение; data разбирает конкретный обработчик
type inboundEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MessageHandler обрабатывает входящее сообщение определенного типа
type MessageHandler func(data json.RawMessage, client *Client) error

// Manager обрабатывает WebSocket сообщения
type Manager struct {
	hub HubInterface

	mu             sync.RWMutex
	messageHandler map[string]MessageHandler
}

// NewManager создает новый менеджер WebSocket
func NewManager(hub HubInterface) *Manager {
	m := &Manager{
		hub:            hub,
		messageHandler: make(map[string]MessageHandler),
	}
	m.RegisterHandler(CLIENT_SUBSCRIBE, m.handleSubscribe(true))
	m.RegisterHandler(CLIENT_UNSUBSCRIBE, m.handleSubscribe(false))
	return m
}

// RegisterHandler регистрирует обработчик для определенного типа сообщений
func (m *Manager) RegisterHandler(eventType string, handler MessageHandler) {
	m.mu.Lock()
	m.messageHandler[eventType] = handler
	m.mu.Unlock()
	log.Printf("[WebSocketManager] Зарегистрирован обработчик для сообщений типа: %s", eventType)
}

// HandleMessage обрабатывает входящее сообщение от клиента.
// Возвращает error, если обработка не удалась и соединение нужно закрыть.
func (m *Manager) HandleMessage(message []byte, client *Client) error {
	var event inboundEvent
	if err := json.Unmarshal(message, &event); err != nil {
		log.Printf("[WebSocketManager] Некорректное сообщение от %s: %v", client.ConnectionID, err)
		m.SendErrorToClient(client, "invalid_message_format", "Invalid JSON format")
		return err
	}

	m.mu.RLock()
	handler, ok := m.messageHandler[event.Type]
	m.mu.RUnlock()
	if !ok {
		m.SendErrorToClient(client, "unknown_message_type", fmt.Sprintf("Unknown message type: %s", event.Type))
		return nil
	}

	if err := handler(event.Data, client); err != nil {
		log.Printf("[WebSocketManager] Обработчик '%s' вернул ошибку для %s: %v", event.Type, client.ConnectionID, err)
		return err
	}
	return nil
}

// SendErrorToClient отправляет клиенту сообщение об ошибке. Соединение не закрывается.
func (m *Manager) SendErrorToClient(client *Client, code string, message string) {
	errorEvent := Event{
		Type: SERVER_ERROR,
		Data: map[string]string{
			"code":    code,
			"message": message,
		},
	}
	if err := m.hub.SendJSONToClient(client.ConnectionID, errorEvent); err != nil {
		log.Printf("[WebSocketManager] Ошибка отправки ошибки клиенту %s: %v", client.ConnectionID, err)
	}
}

// BroadcastEvent отправляет событие всем подписанным клиентам
func (m *Manager) BroadcastEvent(eventType string, data interface{}) error {
	return m.hub.BroadcastJSON(Event{Type: eventType, Data: data})
}

// SendEventToClient отправляет событие одному соединению
func (m *Manager) SendEventToClient(connectionID string, eventType string, data interface{}) error {
	return m.hub.SendJSONToClient(connectionID, Event{Type: eventType, Data: data})
}

// GetMetrics возвращает текущие метрики WebSocket-системы
func (m *Manager) GetMetrics() map[string]interface{} {
	metrics := m.hub.GetMetrics()
	metrics["client_count"] = m.hub.ClientCount()
	return metrics
}

// handleSubscribe меняет подписки клиента: {"types": ["exam:tick", ...]}
func (m *Manager) handleSubscribe(subscribe bool) MessageHandler {
	return func(data json.RawMessage, client *Client) error {
		var req struct {
			Types []string `json:"types"`
		}
		if err := json.Unmarshal(data, &req); err != nil {
			m.SendErrorToClient(client, "invalid_format", "Expected {\"types\": [...]}")
			return nil
		}
		for _, t := range req.Types {
			if subscribe {
				client.Subscribe(t)
			} else {
				client.Unsubscribe(t)
			}
		}
		return nil
	}
}
