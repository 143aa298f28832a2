package ports

// SpreadsheetCodec lectura y escritura de hojas de cálculo (primera hoja, celdas como texto).
type SpreadsheetCodec interface {
	Parse(content []byte) ([][]string, error)
	Serialize(sheetName string, rows [][]string) ([]byte, error)
}
