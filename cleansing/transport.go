package cleansing

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/http"
	"syscall"
	"time"
)

const (
	// DefaultTimeout общий таймаут запроса и таймаут установки соединения
	DefaultTimeout = 5 * time.Second
)

// Doer выполняет HTTP-запрос. Реализуется *http.Client и подменяется в тестах.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc адаптер функции к интерфейсу Doer
type DoerFunc func(req *http.Request) (*http.Response, error)

// Do реализует Doer
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// NewHTTPClient создает HTTP-клиент с отдельными таймаутами на соединение и на весь запрос.
// Один такой клиент можно разделять между несколькими Client через WithHTTPClient.
func NewHTTPClient(connectTimeout, timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}

	// Connection pooling как у остальных клиентов внешних сервисов
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: connectTimeout,
		MaxIdleConns:        10,
		MaxConnsPerHost:     5,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// classifyTransportError сводит сетевую ошибку к короткому коду
func classifyTransportError(err error) string {
	if errors.Is(err, context.Canceled) {
		return CodeCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CodeDNS
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CodeTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return CodeConnectionRefused
	}

	var (
		recordErr    tls.RecordHeaderError
		verifyErr    *tls.CertificateVerificationError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	switch {
	case errors.As(err, &recordErr),
		errors.As(err, &verifyErr),
		errors.As(err, &authorityErr),
		errors.As(err, &hostnameErr),
		errors.As(err, &invalidErr):
		return CodeTLS
	}

	return CodeNetwork
}
