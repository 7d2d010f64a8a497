package cleansing

import (
	"bytes"
	"net/http"
	"time"
)

// RawRequest полный набор параметров исходящего запроса
type RawRequest struct {
	Method         string
	URL            string
	Header         http.Header // Включая Authorization, в логи не выводится
	Body           []byte
	UserAgent      string
	ConnectTimeout time.Duration
	Timeout        time.Duration
}

// RequestMetadata сведения транспортного уровня о последнем запросе
type RequestMetadata struct {
	RequestID      string
	URL            string
	StatusCode     int
	Proto          string
	ContentType    string
	ResponseHeader http.Header
	RequestSize    int
	ResponseSize   int
	StartedAt      time.Time
	TotalTime      time.Duration
	ErrorCode      string // Код транспортной ошибки, если запрос не дошел
	Error          string
}

// Diagnostics снимок одного вызова
type Diagnostics struct {
	RawRequest     RawRequest
	Metadata       RequestMetadata
	CallParameters CleansingRequest
	// RawResponseBody заполняется только при включенном захвате ответа
	RawResponseBody []byte
}

func (d *Diagnostics) copy() *Diagnostics {
	if d == nil {
		return nil
	}
	out := *d
	out.RawRequest.Header = d.RawRequest.Header.Clone()
	out.Metadata.ResponseHeader = d.Metadata.ResponseHeader.Clone()
	out.CallParameters = d.CallParameters.clone()
	out.RawResponseBody = bytes.Clone(d.RawResponseBody)
	return &out
}

// LastRawRequest возвращает параметры последнего исходящего запроса.
// false означает, что вызовов еще не было.
func (c *Client) LastRawRequest() (RawRequest, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return RawRequest{}, false
	}
	req := c.last.RawRequest
	req.Header = req.Header.Clone()
	return req, true
}

// LastRequestMetadata возвращает транспортные сведения о последнем запросе
func (c *Client) LastRequestMetadata() (RequestMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return RequestMetadata{}, false
	}
	meta := c.last.Metadata
	meta.ResponseHeader = meta.ResponseHeader.Clone()
	return meta, true
}

// LastCallParameters возвращает данные, переданные в последний Call
func (c *Client) LastCallParameters() (CleansingRequest, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return CleansingRequest{}, false
	}
	return c.last.CallParameters.clone(), true
}

// LastRawResponseBody возвращает тело последнего ответа до разбора.
// Доступно только при включенном захвате ответа.
func (c *Client) LastRawResponseBody() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.debugCapture {
		return nil, &Error{
			Kind:    KindDebugModeDisabled,
			Message: "raw response is not captured, enable debug capture first",
		}
	}
	if c.last == nil || c.last.RawResponseBody == nil {
		return nil, nil
	}
	return bytes.Clone(c.last.RawResponseBody), nil
}

func (c *Client) storeDiagnostics(d *Diagnostics) {
	c.mu.Lock()
	c.last = d
	c.mu.Unlock()
}
