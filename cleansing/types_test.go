package cleansing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleansingRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CleansingRequest
		wantErr bool
	}{
		{name: "name request", req: NewNameRequest("Иванов Иван"), wantErr: false},
		{name: "empty structure", req: CleansingRequest{Data: [][]string{{"x"}}}, wantErr: true},
		{
			name: "misaligned record",
			req: CleansingRequest{
				Structure: []FieldKind{FieldName, FieldPhone},
				Data:      [][]string{{"Иванов", "8495"}, {"Петров"}},
			},
			wantErr: true,
		},
		{
			name:    "no records",
			req:     CleansingRequest{Structure: []FieldKind{FieldAddress}},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCleansedField_KeepsUnknownAttributes(t *testing.T) {
	raw := `{"source":"иванов иван","result":"Иванов Иван","result_genitive":"Иванова Ивана","qc":0,"gender":"М","surname":"Иванов","name":"Иван","patronymic":null}`

	var f CleansedField
	require.NoError(t, json.Unmarshal([]byte(raw), &f))

	assert.Equal(t, QCPassed, f.QC)
	assert.Equal(t, "", f.Patronymic)
	assert.Equal(t, raw, string(f.Raw()))

	attrs, err := f.Attributes()
	require.NoError(t, err)
	assert.JSONEq(t, `"Иванова Ивана"`, string(attrs["result_genitive"]))

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestCleansedField_MarshalWithoutRaw(t *testing.T) {
	f := CleansedField{QC: QCFailed, Gender: GenderUnknown, Surname: "X"}

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"qc":1,"gender":"НД","surname":"X","name":"","patronymic":""}`, string(out))
}

func TestCleansedField_RejectsNonObject(t *testing.T) {
	for _, raw := range []string{`"Иванов"`, `null`, `[1]`, `42`} {
		var f CleansedField
		assert.Error(t, json.Unmarshal([]byte(raw), &f), raw)
	}
}
