// Package namefile чтение списка ФИО из текстового файла (одно ФИО на строку)
package namefile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Поддерживаемые кодировки входного файла
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1251 = "windows-1251"
	EncodingAuto        = "auto"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read читает строки из r в указанной кодировке.
// Пробелы по краям обрезаются, пустые строки пропускаются.
// В режиме auto файл считается UTF-8, если он валиден, иначе Windows-1251.
func Read(r io.Reader, encoding string) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	text, err := decode(data, encoding)
	if err != nil {
		return nil, err
	}

	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan input: %w", err)
	}

	return names, nil
}

func decode(data []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingUTF8, "utf8":
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("input is not valid UTF-8, try -encoding %s", EncodingWindows1251)
		}
		return data, nil
	case EncodingWindows1251, "cp1251":
		return decode1251(data)
	case EncodingAuto:
		if trimmed := bytes.TrimPrefix(data, utf8BOM); utf8.Valid(trimmed) {
			return trimmed, nil
		}
		return decode1251(data)
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}

func decode1251(data []byte) ([]byte, error) {
	decoded, _, err := transform.Bytes(charmap.Windows1251.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode windows-1251: %w", err)
	}
	return decoded, nil
}
