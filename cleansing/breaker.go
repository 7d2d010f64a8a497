package cleansing

import (
	"sync"
	"time"
)

// BreakerState состояние Circuit Breaker
type BreakerState int

const (
	BreakerClosed   BreakerState = iota // Нормальная работа
	BreakerOpen                         // Запросы блокируются
	BreakerHalfOpen                     // Пробуем восстановить соединение
)

// String возвращает название состояния (для логирования)
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker защита от каскадных сбоев сервиса стандартизации.
// Один экземпляр можно разделять между несколькими клиентами.
type CircuitBreaker struct {
	mu               sync.Mutex
	state            BreakerState
	failureCount     int
	successCount     int
	failureThreshold int           // Порог ошибок для открытия
	successThreshold int           // Порог успехов в half-open для закрытия
	timeout          time.Duration // Пауза перед переходом в half-open
	lastFailureTime  time.Time
	now              func() time.Time
}

// NewCircuitBreaker создает breaker с порогами по умолчанию: 5 ошибок, 2 успеха, 30 секунд
func NewCircuitBreaker() *CircuitBreaker {
	return NewCircuitBreakerWithThresholds(5, 2, 30*time.Second)
}

// NewCircuitBreakerWithThresholds создает breaker с заданными порогами
func NewCircuitBreakerWithThresholds(failureThreshold, successThreshold int, timeout time.Duration) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if successThreshold <= 0 {
		successThreshold = 2
	}
	return &CircuitBreaker{
		state:            BreakerClosed,
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
		now:              time.Now,
	}
}

// Allow проверяет, можно ли выполнить запрос
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case BreakerClosed, BreakerHalfOpen:
		return true
	case BreakerOpen:
		if cb.now().Sub(cb.lastFailureTime) > cb.timeout {
			cb.state = BreakerHalfOpen
			cb.successCount = 0
			return true
		}
		return false
	default:
		return false
	}
}

// RecordSuccess записывает успешный запрос
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case BreakerClosed:
		cb.failureCount = 0
	case BreakerHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.successThreshold {
			cb.state = BreakerClosed
			cb.failureCount = 0
			cb.successCount = 0
		}
	}
}

// RecordFailure записывает неудачный запрос
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailureTime = cb.now()

	switch cb.state {
	case BreakerClosed:
		cb.failureCount++
		if cb.failureCount >= cb.failureThreshold {
			cb.state = BreakerOpen
		}
	case BreakerHalfOpen:
		// Ошибка в half-open - сразу обратно в open
		cb.state = BreakerOpen
		cb.failureCount = cb.failureThreshold
		cb.successCount = 0
	}
}

// State возвращает текущее состояние
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
