package cleansing

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldKind тип поля в структуре запроса на стандартизацию
type FieldKind string

const (
	FieldName      FieldKind = "NAME"
	FieldAddress   FieldKind = "ADDRESS"
	FieldPhone     FieldKind = "PHONE"
	FieldPassport  FieldKind = "PASSPORT"
	FieldEmail     FieldKind = "EMAIL"
	FieldBirthdate FieldKind = "BIRTHDATE"
	FieldVehicle   FieldKind = "VEHICLE"
	FieldAsIs      FieldKind = "AS_IS"
)

// QC код контроля качества, который выставляет сервис
type QC int

const (
	QCPassed QC = 0 // Сервис уверен в результате
	QCFailed QC = 1 // Результат требует ручной проверки

	// qcMissing выставляется, если сервис не прислал qc
	qcMissing QC = -1
)

// Passed сообщает, прошла ли запись контроль качества
func (q QC) Passed() bool {
	return q == QCPassed
}

// Gender пол, определенный сервисом
type Gender string

const (
	GenderMale    Gender = "М"
	GenderFemale  Gender = "Ж"
	GenderUnknown Gender = "НД"
)

// CleansingRequest запрос на стандартизацию.
// Каждая запись в Data выровнена по позициям с Structure.
type CleansingRequest struct {
	Structure []FieldKind `json:"structure"`
	Data      [][]string  `json:"data"`
}

// NewNameRequest создает запрос на стандартизацию одного ФИО
func NewNameRequest(fullName string) CleansingRequest {
	return CleansingRequest{
		Structure: []FieldKind{FieldName},
		Data:      [][]string{{fullName}},
	}
}

// Validate проверяет, что каждая запись совпадает по длине со структурой
func (r CleansingRequest) Validate() error {
	if len(r.Structure) == 0 {
		return fmt.Errorf("structure is empty")
	}
	for i, record := range r.Data {
		if len(record) != len(r.Structure) {
			return fmt.Errorf("record %d has %d fields, structure has %d", i, len(record), len(r.Structure))
		}
	}
	return nil
}

// clone возвращает копию запроса, чтобы диагностика не зависела от вызывающего кода
func (r CleansingRequest) clone() CleansingRequest {
	out := CleansingRequest{
		Structure: append([]FieldKind(nil), r.Structure...),
		Data:      make([][]string, len(r.Data)),
	}
	for i, record := range r.Data {
		out.Data[i] = append([]string(nil), record...)
	}
	return out
}

// CleansedField результат стандартизации одного поля.
// Известные атрибуты разобраны в поля структуры, исходный JSON-объект
// хранится целиком и возвращается без изменений.
type CleansedField struct {
	QC         QC
	Gender     Gender
	Surname    string
	Name       string
	Patronymic string

	raw json.RawMessage
}

type cleansedFieldWire struct {
	QC         *QC    `json:"qc"`
	Gender     string `json:"gender"`
	Surname    string `json:"surname"`
	Name       string `json:"name"`
	Patronymic string `json:"patronymic"`
}

// UnmarshalJSON разбирает объект поля, сохраняя исходные байты
func (f *CleansedField) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("cleansed field must be a JSON object")
	}

	var wire cleansedFieldWire
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return err
	}

	f.QC = qcMissing
	if wire.QC != nil {
		f.QC = *wire.QC
	}
	f.Gender = Gender(wire.Gender)
	f.Surname = wire.Surname
	f.Name = wire.Name
	f.Patronymic = wire.Patronymic
	f.raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

// MarshalJSON отдает исходный объект, если он есть
func (f CleansedField) MarshalJSON() ([]byte, error) {
	if len(f.raw) > 0 {
		return f.raw, nil
	}
	qc := f.QC
	return json.Marshal(cleansedFieldWire{
		QC:         &qc,
		Gender:     string(f.Gender),
		Surname:    f.Surname,
		Name:       f.Name,
		Patronymic: f.Patronymic,
	})
}

// Raw возвращает исходный JSON-объект поля в том виде, в каком его прислал сервис
func (f *CleansedField) Raw() json.RawMessage {
	return f.raw
}

// Attributes возвращает все атрибуты поля, включая те, что не разобраны в структуру
func (f *CleansedField) Attributes() (map[string]json.RawMessage, error) {
	attrs := make(map[string]json.RawMessage)
	if len(f.raw) == 0 {
		return attrs, nil
	}
	if err := json.Unmarshal(f.raw, &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

// Response разобранный успешный ответ сервиса
type Response struct {
	// Data индексируется как [запись][поле]
	Data [][]CleansedField

	raw map[string]json.RawMessage
}

// Field возвращает поле по индексам записи и поля
func (r *Response) Field(record, field int) (*CleansedField, bool) {
	if record < 0 || record >= len(r.Data) {
		return nil, false
	}
	if field < 0 || field >= len(r.Data[record]) {
		return nil, false
	}
	return &r.Data[record][field], true
}

// Get возвращает произвольный ключ верхнего уровня ответа без разбора
func (r *Response) Get(key string) (json.RawMessage, bool) {
	v, ok := r.raw[key]
	return v, ok
}

// MarshalJSON отдает ответ так, как он был получен
func (r Response) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return json.Marshal(r.raw)
	}
	return json.Marshal(map[string]any{"data": r.Data})
}
