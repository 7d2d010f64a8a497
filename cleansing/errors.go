package cleansing

import (
	"errors"
	"fmt"
)

// Kind категория ошибки клиента
type Kind int

const (
	KindConfig Kind = iota + 1
	KindTransport
	KindProtocol
	KindService
	KindQualityCheckFailed
	KindUnknownGender
	KindEmptySurname
	KindEmptyName
	KindDebugModeDisabled
)

// String возвращает имя категории (используется в логах и ответах API)
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config_error"
	case KindTransport:
		return "transport_error"
	case KindProtocol:
		return "protocol_error"
	case KindService:
		return "service_error"
	case KindQualityCheckFailed:
		return "quality_check_failed"
	case KindUnknownGender:
		return "unknown_gender"
	case KindEmptySurname:
		return "empty_surname"
	case KindEmptyName:
		return "empty_name"
	case KindDebugModeDisabled:
		return "debug_mode_disabled"
	default:
		return "unknown_error"
	}
}

// Retryable сообщает, имеет ли смысл повторить вызов позже
func (k Kind) Retryable() bool {
	return k == KindTransport
}

// IsAcceptance сообщает, что ошибка вызвана строгим режимом, а не сбоем
func (k Kind) IsAcceptance() bool {
	switch k {
	case KindQualityCheckFailed, KindUnknownGender, KindEmptySurname, KindEmptyName:
		return true
	}
	return false
}

// Коды транспортных ошибок
const (
	CodeTimeout           = "timeout"
	CodeDNS               = "dns"
	CodeConnectionRefused = "connection_refused"
	CodeTLS               = "tls"
	CodeCanceled          = "canceled"
	CodeNetwork           = "network"
	CodeCircuitOpen       = "circuit_open"
	CodeRateLimited       = "rate_limited"
)

// Error ошибка клиента с категорией и контекстом
type Error struct {
	Kind    Kind   // Категория ошибки
	Message string // Сообщение для вызывающего кода
	Code    string // Низкоуровневый код (для транспортных ошибок)
	Err     error  // Исходная ошибка
}

// Error реализует интерфейс error
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s (code: %s)", msg, e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap возвращает вложенную ошибку для errors.Is и errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает ошибки по категории, что позволяет писать errors.Is(err, ErrTransport)
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Ошибки-образцы для errors.Is
var (
	ErrConfig             = &Error{Kind: KindConfig}
	ErrTransport          = &Error{Kind: KindTransport}
	ErrProtocol           = &Error{Kind: KindProtocol}
	ErrService            = &Error{Kind: KindService}
	ErrQualityCheckFailed = &Error{Kind: KindQualityCheckFailed}
	ErrUnknownGender      = &Error{Kind: KindUnknownGender}
	ErrEmptySurname       = &Error{Kind: KindEmptySurname}
	ErrEmptyName          = &Error{Kind: KindEmptyName}
	ErrDebugModeDisabled  = &Error{Kind: KindDebugModeDisabled}
)

// KindOf возвращает категорию ошибки или 0, если ошибка не из этого пакета
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// NewConfigError создает ошибку конфигурации
func NewConfigError(message string) *Error {
	return &Error{Kind: KindConfig, Message: message}
}

// NewTransportError создает ошибку сетевого уровня
func NewTransportError(code string, err error) *Error {
	return &Error{
		Kind:    KindTransport,
		Message: "request failed",
		Code:    code,
		Err:     err,
	}
}

// NewProtocolError создает ошибку разбора ответа
func NewProtocolError(message string, err error) *Error {
	return &Error{Kind: KindProtocol, Message: message, Err: err}
}

// NewServiceError создает ошибку, о которой сообщил сам сервис
func NewServiceError(message, code string) *Error {
	return &Error{Kind: KindService, Message: message, Code: code}
}

func newAcceptanceError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}
