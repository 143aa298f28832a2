// Package pdf genera el reporte de inventario de una sucursal con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Negocio + tax_id    │  Sucursal + Fecha            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Código | Stock | Costo | Precio | Valor   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: productos / unidades / valor a costo y a precio    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/marko-code-lab/noiddea/internal/application/ports"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

var _ ports.InventoryReportRenderer = (*InventoryReport)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarn    = &props.Color{Red: 180, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// InventoryReport implementa ports.InventoryReportRenderer.
type InventoryReport struct {
	now func() time.Time
}

// NewInventoryReport construye el generador.
func NewInventoryReport() *InventoryReport { return &InventoryReport{now: time.Now} }

// Totals resumen del reporte.
type Totals struct {
	Products   int
	Units      int64
	CostValue  decimal.Decimal
	PriceValue decimal.Decimal
	OutOfStock int
}

// ComputeTotals suma unidades y valoriza el stock a costo y a precio de venta.
func ComputeTotals(products []*entity.Product) Totals {
	t := Totals{CostValue: decimal.Zero, PriceValue: decimal.Zero}
	for _, p := range products {
		t.Products++
		t.Units += p.Stock
		qty := decimal.NewFromInt(p.Stock)
		t.CostValue = t.CostValue.Add(p.Cost.Mul(qty))
		t.PriceValue = t.PriceValue.Add(p.Price.Mul(qty))
		if p.Stock == 0 {
			t.OutOfStock++
		}
	}
	return t
}

// RenderInventory genera el PDF y devuelve sus bytes.
func (g *InventoryReport) RenderInventory(business *entity.Business, branch *entity.Branch, products []*entity.Product) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Inventario "+branch.Name, true).
		WithAuthor(business.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(business, branch, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(products) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("La sucursal no tiene productos activos.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	m.AddRows(tableDetailRows(products)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(ComputeTotals(products)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(business *entity.Business, branch *entity.Branch, at time.Time) core.Row {
	taxID := business.TaxID
	if taxID == "" || taxID == entity.TaxIDPending {
		taxID = "—"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(business.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Identificación tributaria: "+taxID, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(branch.Name, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Código", 2, align.Left),
		h("Stock", 1, align.Center),
		h("Costo", 1, align.Right),
		h("Precio", 2, align.Right),
		h("Valor", 2, align.Right),
	)
}

// tableDetailRows una fila por producto; stock en cero se resalta.
func tableDetailRows(products []*entity.Product) []core.Row {
	result := make([]core.Row, 0, len(products))
	for _, p := range products {
		stockProps := props.Text{Size: 8, Align: align.Center, Top: 1}
		if p.Stock == 0 {
			stockProps.Color = colorWarn
			stockProps.Style = fontstyle.Bold
		}
		code := p.Barcode
		if code == "" {
			code = p.SKU
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(p.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(code, "—"), props.Text{Size: 7, Top: 1, Left: 1, Color: colorGray})),
			col.New(1).Add(text.New(strconv.FormatInt(p.Stock, 10), stockProps)),
			col.New(1).Add(text.New(formatMoney(p.Cost), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(p.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(
				formatMoney(p.Cost.Mul(decimal.NewFromInt(p.Stock))),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func totalsRow(t Totals) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(26).Add(
		col.New(4),
		col.New(4).Add(
			label("Productos:"),
			label("Unidades en stock:"),
			label("Sin stock:"),
			label("Valor a costo:"),
			label("Valor a precio de venta:"),
		),
		col.New(4).Add(
			value(strconv.Itoa(t.Products)),
			value(strconv.FormatInt(t.Units, 10)),
			value(strconv.Itoa(t.OutOfStock)),
			value(formatMoney(t.CostValue)),
			value(formatMoney(t.PriceValue)),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney "$" + miles con punto y dos decimales con coma. Ej: 1234.5 → "$1.234,50".
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + "$" + string(buf) + "," + frac
}
