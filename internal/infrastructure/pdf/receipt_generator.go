// Package pdf genera el comprobante imprimible de un pickup cerrado en el kiosco.
//
// Layout de la página (A5):
//
//	┌───────────────────────────────────────────────┐
//	│  HEADER: Máquina + Fecha  │  N° Pickup         │
//	│  ───────────────────────────────────────────  │
//	│  TABLA: Producto | Req. | Entreg. | Subtotal   │
//	│  ───────────────────────────────────────────  │
//	│  TOTAL                                        │
//	│  FOOTER: QR con el código del pickup          │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/smart-locker-kiosk/internal/application/checkout"
)

var _ checkout.ReceiptRenderer = (*ReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa checkout.ReceiptRenderer usando Maroto v2.
type ReceiptGenerator struct {
	title string
}

// NewReceiptGenerator construye el generador. title encabeza el documento (ej. nombre de la app).
func NewReceiptGenerator(title string) *ReceiptGenerator {
	return &ReceiptGenerator{title: title}
}

// RenderReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) RenderReceipt(r checkout.Receipt) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Pickup "+r.PickupDocumentID, true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(r.Lines)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(r))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, r checkout.Receipt) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("Máquina: "+nonEmpty(r.MachineName, r.MachineID), props.Text{
				Size: 8, Top: 8, Color: colorGray,
			}),
			text.New("Fecha: "+r.FinishedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE RETIRO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(r.PickupDocumentID, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Producto", 5, align.Left),
		h("Req.", 2, align.Center),
		h("Entreg.", 2, align.Center),
		h("Subtotal", 3, align.Right),
	)
}

func tableRows(lines []checkout.ReceiptLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, row.New(7).Add(
			col.New(5).Add(text.New(nonEmpty(l.Name, l.ProductID), props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(strconv.Itoa(l.Required), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(strconv.Itoa(l.Shipped), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(l.Subtotal().StringFixed(2)+" "+l.Currency, props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return rows
}

func totalRow(r checkout.Receipt) core.Row {
	currency := ""
	if len(r.Lines) > 0 {
		currency = r.Lines[0].Currency
	}
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
		col.New(3).Add(text.New(r.Total().StringFixed(2)+" "+currency, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
	)
}

func footerRow(r checkout.Receipt) core.Row {
	return row.New(40).Add(
		col.New(5).Add(code.NewQr(r.PickupDocumentID, props.Rect{Percent: 95, Center: true})),
		col.New(7).Add(
			text.New("Presente este código si necesita\nreportar un problema con su retiro.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
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
