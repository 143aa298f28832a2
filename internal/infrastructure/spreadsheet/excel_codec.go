// Package spreadsheet lectura y escritura de archivos Excel con excelize.
package spreadsheet

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/marko-code-lab/noiddea/internal/application/ports"
)

var _ ports.SpreadsheetCodec = (*ExcelCodec)(nil)

const defaultSheet = "Sheet1"

// ExcelCodec implementa ports.SpreadsheetCodec sobre .xlsx/.xlsm.
type ExcelCodec struct{}

// NewExcelCodec construye el codec.
func NewExcelCodec() *ExcelCodec { return &ExcelCodec{} }

// Parse devuelve las filas de la primera hoja como texto. Las celdas vacías al final de cada fila se omiten.
func (c *ExcelCodec) Parse(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("abrir excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("el archivo no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}
	return rows, nil
}

// Serialize escribe las filas en una hoja nueva. La primera fila se trata como encabezado (negrita).
func (c *ExcelCodec) Serialize(sheetName string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheetName == "" {
		sheetName = defaultSheet
	}
	if sheetName != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
			return nil, fmt.Errorf("renombrar hoja: %w", err)
		}
	}

	widest := 0
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		values := make([]any, len(r))
		for j, v := range r {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("escribir fila %d: %w", i+1, err)
		}
		if len(r) > widest {
			widest = len(r)
		}
	}

	if len(rows) > 0 && widest > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, fmt.Errorf("estilo de encabezado: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(widest, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
			return nil, fmt.Errorf("aplicar estilo: %w", err)
		}
		lastCol, err := excelize.ColumnNumberToName(widest)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, "A", lastCol, 18); err != nil {
			return nil, fmt.Errorf("ancho de columnas: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializar excel: %w", err)
	}
	return buf.Bytes(), nil
}
