package cleansing

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// parseResponse разбирает тело ответа сервиса.
// Ключ error означает ошибку сервиса независимо от HTTP-статуса.
func parseResponse(statusCode int, body []byte) (*Response, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, NewProtocolError("malformed response", err)
	}
	if top == nil {
		return nil, NewProtocolError("malformed response: body is not a JSON object", nil)
	}

	if rawErr, ok := top["error"]; ok {
		return nil, serviceError(rawErr, top["error_description"])
	}

	if statusCode < 200 || statusCode >= 300 {
		message := http.StatusText(statusCode)
		if detail := jsonText(top["detail"]); detail != "" {
			message = detail
		}
		if message == "" {
			message = "unexpected status " + strconv.Itoa(statusCode)
		}
		return nil, NewServiceError(message, strconv.Itoa(statusCode))
	}

	resp := &Response{raw: top}
	if rawData, ok := top["data"]; ok && !isJSONNull(rawData) {
		if err := json.Unmarshal(rawData, &resp.Data); err != nil {
			return nil, NewProtocolError("malformed response: unexpected data shape", err)
		}
	}
	return resp, nil
}

// serviceError формирует сообщение: описание, если оно есть, иначе код ошибки
func serviceError(rawErr, rawDescription json.RawMessage) *Error {
	code := jsonText(rawErr)
	message := jsonText(rawDescription)
	if message == "" {
		message = code
	}
	if message == "" {
		message = "service returned an error"
	}
	return NewServiceError(message, code)
}

// jsonText возвращает строковое значение или исходный JSON для нестроковых значений
func jsonText(raw json.RawMessage) string {
	if len(raw) == 0 || isJSONNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func isJSONNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
