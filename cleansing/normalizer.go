package cleansing

import (
	"context"
	"fmt"
)

// Caller выполняет запрос на стандартизацию. Реализуется *Client.
type Caller interface {
	Call(ctx context.Context, req CleansingRequest) (*Response, error)
}

// Rule одно правило строгого режима
type Rule struct {
	Kind    Kind
	Message string
	Check   func(f *CleansedField) bool // true - правило выполнено
}

// acceptanceRules проверяются по порядку, срабатывает первое нарушенное
var acceptanceRules = []Rule{
	{
		Kind:    KindQualityCheckFailed,
		Message: "dadata internal quality control failed",
		Check:   func(f *CleansedField) bool { return f.QC.Passed() },
	},
	{
		Kind:    KindUnknownGender,
		Message: "unknown gender",
		Check:   func(f *CleansedField) bool { return f.Gender != GenderUnknown },
	},
	{
		Kind:    KindEmptySurname,
		Message: "empty surname",
		Check:   func(f *CleansedField) bool { return f.Surname != "" },
	},
	{
		Kind:    KindEmptyName,
		Message: "empty name",
		Check:   func(f *CleansedField) bool { return f.Name != "" },
	},
}

// AcceptanceRules возвращает правила строгого режима в порядке проверки
func AcceptanceRules() []Rule {
	return append([]Rule(nil), acceptanceRules...)
}

// Accept проверяет поле по правилам строгого режима
func Accept(f *CleansedField) error {
	for _, rule := range acceptanceRules {
		if !rule.Check(f) {
			return newAcceptanceError(rule.Kind, rule.Message)
		}
	}
	return nil
}

// Normalizer нормализует ФИО через сервис стандартизации
type Normalizer struct {
	caller Caller
}

// NewNormalizer создает нормализатор поверх клиента
func NewNormalizer(caller Caller) *Normalizer {
	return &Normalizer{caller: caller}
}

// NormalizeFullName отправляет ФИО на стандартизацию.
// В нестрогом режиме результат возвращается как есть, решение о его
// пригодности остается за вызывающим кодом. В строгом режиме
// результат проходит Accept.
func (n *Normalizer) NormalizeFullName(ctx context.Context, fullName string, strict bool) (*CleansedField, error) {
	resp, err := n.caller.Call(ctx, NewNameRequest(fullName))
	if err != nil {
		return nil, err
	}

	field, err := singleField(resp)
	if err != nil {
		return nil, err
	}

	if !strict {
		return field, nil
	}
	if err := Accept(field); err != nil {
		return nil, err
	}
	return field, nil
}

// singleField извлекает единственное поле единственной записи
func singleField(resp *Response) (*CleansedField, error) {
	if resp == nil {
		return nil, NewProtocolError("unexpected response shape: empty response", nil)
	}
	if len(resp.Data) != 1 {
		return nil, NewProtocolError(fmt.Sprintf("unexpected response shape: expected 1 record, got %d", len(resp.Data)), nil)
	}
	if len(resp.Data[0]) != 1 {
		return nil, NewProtocolError(fmt.Sprintf("unexpected response shape: expected 1 field, got %d", len(resp.Data[0])), nil)
	}
	field := resp.Data[0][0]
	return &field, nil
}
