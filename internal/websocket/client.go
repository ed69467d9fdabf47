package websocket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Время, которое разрешено писать сообщение клиенту.
	writeWait = 10 * time.Second

	// Время, которое разрешено клиенту читать следующее сообщение.
	pongWait = 30 * time.Second

	// Периодичность отправки ping-сообщений клиенту.
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер входящего сообщения
	maxMessageSize = 512

	// Размер буфера по умолчанию для канала отправки сообщений клиенту
	defaultClientBufferSize = 128

	// Максимальное количество предупреждений о переполнении буфера до отключения
	maxBufferWarnings = 3

	// Время ожидания регистрации клиента в хабе
	registrationTimeout = 5 * time.Second
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}

	// debugLogging включает подробное логирование для отладки
	debugLogging = false
)

// ClientConfig содержит настройки для клиента
type ClientConfig struct {
	// BufferSize определяет размер буфера канала отправки сообщений
	BufferSize int

	// PingInterval определяет интервал между ping-сообщениями
	PingInterval time.Duration

	// PongWait определяет время ожидания pong-ответа
	PongWait time.Duration

	// WriteWait определяет тайм-аут для записи сообщений
	WriteWait time.Duration

	// MaxMessageSize определяет максимальный размер сообщения
	MaxMessageSize int64
}

// DefaultClientConfig возвращает конфигурацию клиента по умолчанию
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BufferSize:     defaultClientBufferSize,
		PingInterval:   pingPeriod,
		PongWait:       pongWait,
		WriteWait:      writeWait,
		MaxMessageSize: maxMessageSize,
	}
}

// Client является посредником между WebSocket соединением и hub.
type Client struct {
	// Уникальный ID соединения
	ConnectionID string

	hub    *Hub
	conn   *websocket.Conn
	config ClientConfig

	// Буферизованный канал для исходящих сообщений
	send       chan []byte
	sendMu     sync.Mutex
	sendClosed bool

	activityMu   sync.RWMutex
	lastActivity time.Time

	// Канал для ожидания завершения регистрации
	registrationComplete chan bool

	// Подписки на типы сообщений
	subscriptions sync.Map

	// Счетчик предупреждений о переполнении буфера
	bufferWarningCount int32
	bufferWarningMutex sync.Mutex
}

// NewClient создает нового клиента с настройками по умолчанию
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return NewClientWithConfig(hub, conn, DefaultClientConfig())
}

// NewClientWithConfig создает нового клиента с указанной конфигурацией
func NewClientWithConfig(hub *Hub, conn *websocket.Conn, config ClientConfig) *Client {
	defaults := DefaultClientConfig()
	if config.BufferSize <= 0 {
		config.BufferSize = defaults.BufferSize
	}
	if config.PingInterval <= 0 {
		config.PingInterval = defaults.PingInterval
	}
	if config.PongWait <= 0 {
		config.PongWait = defaults.PongWait
	}
	if config.WriteWait <= 0 {
		config.WriteWait = defaults.WriteWait
	}
	if config.MaxMessageSize <= 0 {
		config.MaxMessageSize = defaults.MaxMessageSize
	}

	return &Client{
		ConnectionID:         uuid.New().String(),
		hub:                  hub,
		conn:                 conn,
		config:               config,
		send:                 make(chan []byte, config.BufferSize),
		lastActivity:         time.Now(),
		registrationComplete: make(chan bool, 1),
	}
}

// readPump читает сообщения от клиента и передает их обработчику
func (c *Client) readPump(messageHandler func(message []byte, client *Client) error) {
	defer func() {
		log.Printf("[WebSocketClient] Read pump остановлен для %s", c.ConnectionID)
		c.hub.UnregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		c.touch()
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("[WebSocketClient] Ошибка чтения (%s): %v", c.ConnectionID, err)
			}
			break
		}
		c.touch()

		if handlerErr := safeHandleMessage(message, c, messageHandler); handlerErr != nil {
			log.Printf("[WebSocketClient] Ошибка обработчика (%s): %v. Соединение закрывается.", c.ConnectionID, handlerErr)
			break
		}
		c.resetBufferWarningCount()
	}
}

// safeHandleMessage вызывает обработчик с recover
func safeHandleMessage(message []byte, client *Client, messageHandler func(message []byte, client *Client) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC recovered in message handler for ConnID: %s. Panic: %v\nStack trace:\n%s",
				client.ConnectionID, r, string(debug.Stack()))
			err = fmt.Errorf("panic recovered: %v", r)
		}
	}()
	message = bytes.TrimSpace(bytes.Replace(message, newline, space, -1))
	if messageHandler != nil {
		err = messageHandler(message, client)
	}
	return err
}

// writePump отправляет сообщения клиенту из канала send
func (c *Client) writePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		log.Printf("[WebSocketClient] Write pump остановлен для %s", c.ConnectionID)
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait)); err != nil {
				return
			}
			if !ok {
				// Хаб закрыл канал
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if debugLogging {
				log.Printf("[WebSocketClient] %s <- %s", c.ConnectionID, messageTypeFromBytes(message))
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WebSocketClient] Ошибка записи (%s): %v", c.ConnectionID, err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// StartPumps регистрирует клиента в хабе и запускает горутины чтения и записи
func (c *Client) StartPumps(messageHandler func(message []byte, client *Client) error) {
	if c.hub == nil {
		log.Printf("[WebSocketClient] Хаб не задан для %s, соединение закрывается", c.ConnectionID)
		c.conn.Close()
		return
	}

	if !c.hub.RegisterSync(c, registrationTimeout) {
		log.Printf("[WebSocketClient] Клиент %s не зарегистрирован, соединение закрывается", c.ConnectionID)
		c.conn.Close()
		return
	}

	go c.writePump()
	go c.readPump(messageHandler)
}

// IsSubscribed проверяет, подписан ли клиент на указанный тип сообщений
func (c *Client) IsSubscribed(messageType string) bool {
	if messageType == "" {
		return true
	}
	_, ok := c.subscriptions.Load(messageType)
	return ok
}

// Subscribe подписывает клиента на указанный тип сообщений
func (c *Client) Subscribe(messageType string) {
	if messageType == "" {
		return
	}
	c.subscriptions.Store(messageType, true)
}

// Unsubscribe отменяет подписку клиента на указанный тип сообщений
func (c *Client) Unsubscribe(messageType string) {
	c.subscriptions.Delete(messageType)
}

// GetSubscriptions возвращает список типов сообщений, на которые подписан клиент
func (c *Client) GetSubscriptions() []string {
	var subscriptions []string
	c.subscriptions.Range(func(key, _ interface{}) bool {
		subscriptions = append(subscriptions, key.(string))
		return true
	})
	return subscriptions
}

// SubscribeToExam подписывает клиента на все события экзамена
func (c *Client) SubscribeToExam() {
	for _, t := range ExamEventTypes {
		c.Subscribe(t)
	}
}

// LastActivity возвращает время последней активности клиента
func (c *Client) LastActivity() time.Time {
	c.activityMu.RLock()
	defer c.activityMu.RUnlock()
	return c.lastActivity
}

func (c *Client) touch() {
	c.activityMu.Lock()
	c.lastActivity = time.Now()
	c.activityMu.Unlock()
}

// trySend кладёт сообщение в буфер без блокировки.
// Возвращает false, если буфер полон или канал уже закрыт.
func (c *Client) trySend(message []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendClosed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// CloseSend закрывает канал send ровно один раз.
// Возвращает true, если канал был закрыт этим вызовом.
func (c *Client) CloseSend() bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendClosed {
		return false
	}
	c.sendClosed = true
	close(c.send)
	return true
}

// IsSendClosed проверяет, закрыт ли канал send
func (c *Client) IsSendClosed() bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return c.sendClosed
}

func (c *Client) incrementBufferWarningCount() int32 {
	c.bufferWarningMutex.Lock()
	defer c.bufferWarningMutex.Unlock()
	c.bufferWarningCount++
	return c.bufferWarningCount
}

func (c *Client) resetBufferWarningCount() {
	c.bufferWarningMutex.Lock()
	defer c.bufferWarningMutex.Unlock()
	c.bufferWarningCount = 0
}

// messageTypeFromBytes извлекает поле type из JSON сообщения
func messageTypeFromBytes(message []byte) string {
	var event struct {
		Type string `json:"type"`
	}
	if json.Unmarshal(message, &event) == nil {
		return event.Type
	}
	return ""
}
