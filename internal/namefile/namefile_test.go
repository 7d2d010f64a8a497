package namefile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func encode1251(t *testing.T, s string) []byte {
	t.Helper()
	out, _, err := transform.Bytes(charmap.Windows1251.NewEncoder(), []byte(s))
	require.NoError(t, err)
	return out
}

func TestRead_UTF8(t *testing.T) {
	input := "\xEF\xBB\xBFИванов Иван Иванович\r\n\n   Петрова Анна  \n\t\n"

	names, err := Read(strings.NewReader(input), EncodingUTF8)

	require.NoError(t, err)
	assert.Equal(t, []string{"Иванов Иван Иванович", "Петрова Анна"}, names)
}

func TestRead_Windows1251(t *testing.T) {
	data := encode1251(t, "Сидоров Петр\nКузнецова Мария Ивановна\n")

	names, err := Read(bytes.NewReader(data), EncodingWindows1251)
	require.NoError(t, err)
	assert.Equal(t, []string{"Сидоров Петр", "Кузнецова Мария Ивановна"}, names)

	_, err = Read(bytes.NewReader(data), EncodingUTF8)
	assert.Error(t, err)
}

func TestRead_Auto(t *testing.T) {
	names, err := Read(bytes.NewReader(encode1251(t, "Смирнов Олег")), EncodingAuto)
	require.NoError(t, err)
	assert.Equal(t, []string{"Смирнов Олег"}, names)

	names, err = Read(strings.NewReader("Смирнов Олег"), EncodingAuto)
	require.NoError(t, err)
	assert.Equal(t, []string{"Смирнов Олег"}, names)
}

func TestRead_UnsupportedEncoding(t *testing.T) {
	_, err := Read(strings.NewReader("x"), "koi8-r")
	assert.Error(t, err)
}

func TestRead_Empty(t *testing.T) {
	names, err := Read(strings.NewReader("\n \n"), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}
