package websocket

// MetricsProvider определяет метод для получения метрик хаба.
type MetricsProvider interface {
	GetMetrics() map[string]interface{}
	ClientCount() int
}

// HubInterface объединяет возможности хаба, которые использует Manager.
type HubInterface interface {
	MetricsProvider

	// BroadcastJSON отправляет структуру JSON всем подписанным клиентам
	BroadcastJSON(v interface{}) error

	// SendJSONToClient отправляет структуру JSON конкретному соединению
	SendJSONToClient(connectionID string, v interface{}) error
}
