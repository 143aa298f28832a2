package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

// Columnas canónicas de la plantilla de productos.
const (
	ColName          = "nombre"
	ColDescription   = "descripcion"
	ColBrand         = "marca"
	ColBarcode       = "codigo_barras"
	ColSKU           = "sku"
	ColCost          = "costo"
	ColPrice         = "precio"
	ColStock         = "stock"
	ColBonification  = "bonificacion"
	ColExpiration    = "fecha_vencimiento"
	ColPresentations = "presentaciones"
)

// TemplateHeaders orden de columnas de la plantilla y del reporte exportado.
var TemplateHeaders = []string{
	ColName, ColDescription, ColBrand, ColBarcode, ColSKU, ColCost,
	ColPrice, ColStock, ColBonification, ColExpiration, ColPresentations,
}

var headerAliases = map[string]string{
	"nombre":            ColName,
	"name":              ColName,
	"producto":          ColName,
	"product":           ColName,
	"descripcion":       ColDescription,
	"description":       ColDescription,
	"desc":              ColDescription,
	"marca":             ColBrand,
	"brand":             ColBrand,
	"codigo_barras":     ColBarcode,
	"barcode":           ColBarcode,
	"codigo":            ColBarcode,
	"sku":               ColSKU,
	"costo":             ColCost,
	"cost":              ColCost,
	"precio":            ColPrice,
	"price":             ColPrice,
	"stock":             ColStock,
	"inventario":        ColStock,
	"inventory":         ColStock,
	"bonificacion":      ColBonification,
	"bonification":      ColBonification,
	"fecha_vencimiento": ColExpiration,
	"expiration":        ColExpiration,
	"exp":               ColExpiration,
	"vencimiento":       ColExpiration,
	"presentaciones":    ColPresentations,
	"presentations":     ColPresentations,
	"variantes":         ColPresentations,
	"variants":          ColPresentations,
}

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// NormalizeHeader pasa a minúsculas, recorta y quita tildes ("Descripción" -> "descripcion").
func NormalizeHeader(h string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, h)
	if err != nil {
		folded = h
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// ColumnIndex posición de cada columna canónica en la hoja.
type ColumnIndex map[string]int

// IndexHeaders mapea la fila de encabezados a columnas canónicas y valida las requeridas.
func IndexHeaders(headers []string) (ColumnIndex, error) {
	idx := make(ColumnIndex)
	for i, h := range headers {
		if col, ok := headerAliases[NormalizeHeader(h)]; ok {
			idx[col] = i
		}
	}
	if _, ok := idx[ColName]; !ok {
		return nil, fmt.Errorf("%w: el archivo debe tener una columna \"nombre\" o \"name\"", domain.ErrInvalidInput)
	}
	_, hasCost := idx[ColCost]
	_, hasPrice := idx[ColPrice]
	if !hasCost && !hasPrice {
		return nil, fmt.Errorf("%w: el archivo debe tener columnas \"costo\" y \"precio\" (o \"cost\" y \"price\")", domain.ErrInvalidInput)
	}
	return idx, nil
}

func (ci ColumnIndex) value(row []string, col string) string {
	i, ok := ci[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// RowInput datos de producto extraídos de una fila.
type RowInput struct {
	Name          string
	Description   string
	Brand         string
	Barcode       string
	SKU           string
	Cost          decimal.Decimal
	Price         decimal.Decimal
	Stock         int64
	Bonification  decimal.Decimal
	Expiration    *time.Time
	Presentations []PresentationInput
}

// RowError fallo de validación de una fila. Name puede venir vacío.
type RowError struct {
	Name string
	Msg  string
}

func (e *RowError) Error() string { return e.Msg }

// RowMessage formatea el error de una fila para el reporte: "Fila 3 (Coca-Cola): ...".
func RowMessage(rowNumber int, name, msg string) string {
	if name == "" {
		return fmt.Sprintf("Fila %d: %s", rowNumber, msg)
	}
	return fmt.Sprintf("Fila %d (%s): %s", rowNumber, name, msg)
}

// IsEmptyRow indica si todas las celdas están vacías.
func IsEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ParseRow extrae un producto de la fila. Costo y precio se completan uno con el otro si falta alguno.
func ParseRow(ci ColumnIndex, row []string) (RowInput, error) {
	name := ci.value(row, ColName)
	if name == "" {
		return RowInput{}, &RowError{Msg: "Nombre es requerido"}
	}

	costStr := firstNonEmpty(ci.value(row, ColCost), ci.value(row, ColPrice))
	priceStr := firstNonEmpty(ci.value(row, ColPrice), ci.value(row, ColCost))
	cost := ParseNumber(costStr)
	price := ParseNumber(priceStr)
	if cost.IsNegative() || price.IsNegative() {
		return RowInput{}, &RowError{Name: name, Msg: "Costo y precio deben ser números positivos"}
	}

	return RowInput{
		Name:          name,
		Description:   ci.value(row, ColDescription),
		Brand:         ci.value(row, ColBrand),
		Barcode:       ci.value(row, ColBarcode),
		SKU:           ci.value(row, ColSKU),
		Cost:          cost,
		Price:         price,
		Stock:         ParseNumber(ci.value(row, ColStock)).IntPart(),
		Bonification:  ParseNumber(ci.value(row, ColBonification)),
		Expiration:    ParseExpiration(ci.value(row, ColExpiration)),
		Presentations: ParsePresentationsCell(ci.value(row, ColPresentations)),
	}, nil
}

// ParseNumber quita todo lo que no sea dígito, punto o signo ("$ 1,500" -> 1500). Vacío o inválido -> 0.
func ParseNumber(s string) decimal.Decimal {
	clean := nonNumeric.ReplaceAllString(s, "")
	if clean == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var expirationLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"01-02-06",
}

// ParseExpiration intenta los formatos de fecha habituales; nil si ninguno aplica.
func ParseExpiration(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range expirationLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ParsePresentationsCell lee "variante:unidades:precio|variante2:unidades2". El precio es opcional;
// unidades inválidas valen 1 y las no positivas se descartan.
func ParsePresentationsCell(s string) []PresentationInput {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []PresentationInput
	for _, item := range strings.Split(s, "|") {
		parts := strings.Split(item, ":")
		if len(parts) < 2 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		variant := parts[0]
		units, err := strconv.Atoi(parts[1])
		if err != nil {
			units = 1
		}
		if variant == "" || units <= 0 || strings.EqualFold(variant, entity.UnitVariant) {
			continue
		}
		in := PresentationInput{Variant: variant, Units: units}
		if len(parts) > 2 && parts[2] != "" {
			price := ParseNumber(parts[2])
			if price.IsPositive() {
				in.Price = &price
			}
		}
		out = append(out, in)
	}
	return out
}

// FormatPresentationsCell inverso de ParsePresentationsCell para la exportación.
// Omite "unidad" e inactivas.
func FormatPresentationsCell(list []*entity.ProductPresentation) string {
	var parts []string
	for _, p := range list {
		if p == nil || !p.IsActive || p.IsUnit() {
			continue
		}
		item := fmt.Sprintf("%s:%d", p.Variant, p.Units)
		if p.Price.Valid {
			item += ":" + p.Price.Decimal.String()
		}
		parts = append(parts, item)
	}
	return strings.Join(parts, "|")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
