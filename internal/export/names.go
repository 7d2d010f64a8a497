// Package export выгрузка результатов нормализации ФИО в Excel
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"dadataclean/cleansing"
)

// SheetName имя листа с результатами
const SheetName = "Names"

// NameResult результат нормализации одной строки входного файла
type NameResult struct {
	Input string
	Field *cleansing.CleansedField // nil, если сервис не вернул поле
	Err   error
}

// Status "ok" или вид ошибки
func (r NameResult) Status() string {
	if r.Err != nil {
		return cleansing.KindOf(r.Err).String()
	}
	return "ok"
}

var nameHeaders = []string{
	"Input", "Status", "Surname", "Name", "Patronymic", "Gender", "QC", "Error",
}

// WriteNameResults сохраняет результаты в xlsx-файл filename
func WriteNameResults(filename string, results []NameResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range nameHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(SheetName, cell, header)
		f.SetCellStyle(SheetName, cell, cell, headerStyle)
	}

	for i, res := range results {
		row := i + 2
		values := []any{res.Input, res.Status(), "", "", "", "", "", ""}
		if res.Field != nil {
			values[2] = res.Field.Surname
			values[3] = res.Field.Name
			values[4] = res.Field.Patronymic
			values[5] = string(res.Field.Gender)
			values[6] = int(res.Field.QC)
		}
		if res.Err != nil {
			values[7] = res.Err.Error()
		}

		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	for i := range nameHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(SheetName, col, col, 20)
	}

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}
