package websocket

// Типы сообщений экзамена (сервер -> клиент)
const (
	// EXAM_STARTED сообщает о начале экзамена
	EXAM_STARTED = "exam:started"

	// EXAM_TICK сообщает оставшееся время экзамена
	EXAM_TICK = "exam:tick"

	// EXAM_SUBMITTED сообщает о сдаче экзамена (вручную или по таймеру)
	EXAM_SUBMITTED = "exam:submitted"

	// EXAM_STATE - ответ на exam:sync с текущим состоянием экзамена
	EXAM_STATE = "exam:state"
)

// Служебные сообщения
const (
	// SERVER_ERROR - ошибка обработки сообщения клиента
	SERVER_ERROR = "server:error"

	// SERVER_BUFFER_WARNING - буфер клиента переполнен
	SERVER_BUFFER_WARNING = "server:buffer_warning"

	// SYSTEM - сообщения, которые получают все клиенты независимо от подписок
	SYSTEM = "system"
)

// Типы сообщений клиент -> сервер
const (
	// CLIENT_SUBSCRIBE подписывает клиента на перечисленные типы сообщений
	CLIENT_SUBSCRIBE = "client:subscribe"

	// CLIENT_UNSUBSCRIBE отписывает клиента
	CLIENT_UNSUBSCRIBE = "client:unsubscribe"

	// EXAM_SYNC запрашивает текущее состояние экзамена
	EXAM_SYNC = "exam:sync"
)

// ExamEventTypes - типы сообщений, на которые клиент подписан при подключении
var ExamEventTypes = []string{EXAM_STARTED, EXAM_TICK, EXAM_SUBMITTED, EXAM_STATE}
