// Package pdf implementa billing.Renderer con Maroto v2: un PDF A4 con una
// página por payload, en el orden recibido.
//
// Layout de cada página:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  EMISOR: Nombre (Tel / Fax / Dirección)  │  TÍTULO (請款單)   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: nombre, contacto, tel, 統編    │  N°, fechas, tipo │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: No | 品項 | 數量 | 單價 | 金額                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: 小計 / 營業稅 / 總計                                 │
//	│  備註 + advertencias                                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/Cotizaciones-api/internal/application/billing"
	"github.com/jhoicas/Cotizaciones-api/internal/application/dto"
)

var _ appbilling.Renderer = (*MarotoRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite    = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorHeaderBg = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorZebra    = &props.Color{Red: 240, Green: 244, Blue: 248}
)

// cjkFamily nombre con el que se registra la fuente TrueType configurada.
const cjkFamily = "cjk"

// ── Renderer ──────────────────────────────────────────────────────────────────

// Options rutas de fuentes TrueType con glifos CJK. Sin fuente se usa
// helvetica y las etiquetas se imprimen en inglés (helvetica no tiene glifos chinos).
type Options struct {
	FontPath     string
	BoldFontPath string // vacío = se usa FontPath también para negrita
}

// MarotoRenderer implementa billing.Renderer.
type MarotoRenderer struct {
	fonts  []*entity.CustomFont
	family string
	labels labelSet
}

// NewMarotoRenderer carga las fuentes (si hay) y construye el renderizador.
func NewMarotoRenderer(opts Options) (*MarotoRenderer, error) {
	r := &MarotoRenderer{family: "helvetica", labels: englishLabels}
	if opts.FontPath == "" {
		return r, nil
	}
	bold := opts.BoldFontPath
	if bold == "" {
		bold = opts.FontPath
	}
	fonts, err := repository.New().
		AddUTF8Font(cjkFamily, fontstyle.Normal, opts.FontPath).
		AddUTF8Font(cjkFamily, fontstyle.Bold, bold).
		Load()
	if err != nil {
		return nil, fmt.Errorf("pdf: cargar fuente %s: %w", opts.FontPath, err)
	}
	r.fonts = fonts
	r.family = cjkFamily
	r.labels = chineseLabels
	return r, nil
}

// Render genera un PDF con una página por payload.
func (g *MarotoRenderer) Render(ctx context.Context, payloads []dto.DocumentPayload, template string) ([]byte, error) {
	tpl, ok := g.labels.templates[template]
	if !ok {
		return nil, fmt.Errorf("pdf: plantilla %q desconocida", template)
	}
	if len(payloads) == 0 {
		return nil, fmt.Errorf("pdf: no hay documentos para generar")
	}

	author := payloads[0].Company.Name
	if author == "" {
		author = tpl.title
	}
	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: g.family, Size: 9}).
		WithTitle(tpl.title, true).
		WithAuthor(author, true).
		WithPageNumber(props.PageNumber{
			Pattern: g.labels.pagePattern,
			Place:   props.RightBottom,
			Family:  g.family,
			Size:    7,
			Color:   colorGray,
		})
	if len(g.fonts) > 0 {
		b = b.WithCustomFonts(g.fonts)
	}
	m := maroto.New(b.Build())

	for _, p := range payloads {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.AddPages(g.buildPage(p, tpl))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoRenderer) buildPage(p dto.DocumentPayload, tpl templateLabels) core.Page {
	l := g.labels
	rows := []core.Row{
		g.headerRow(p, tpl),
		line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.6}),
		g.partiesRow(p, tpl),
		line.NewRow(2),
		g.tableHeaderRow(),
	}
	rows = append(rows, g.itemRows(p)...)
	if len(p.Items) == 0 {
		rows = append(rows, row.New(7).Add(col.New(12).Add(
			text.New(l.noItems, props.Text{Size: 8, Align: align.Center, Top: 1.5, Color: colorGray}),
		)))
	}
	rows = append(rows,
		line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}),
		g.totalsRow(p),
	)
	rows = append(rows, g.notesRows(p, tpl)...)
	return page.New().Add(rows...)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor (izq) y título del documento (der).
func (g *MarotoRenderer) headerRow(p dto.DocumentPayload, tpl templateLabels) core.Row {
	contact := joinNonEmpty("   |   ",
		prefixed(g.labels.phone, p.Company.Phone),
		prefixed(g.labels.fax, p.Company.Fax),
		prefixed(g.labels.taxID, p.Company.TaxID),
	)
	return row.New(22).Add(
		col.New(8).Add(
			text.New(nonEmpty(p.Company.Name, "—"), props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(contact, props.Text{Size: 8, Top: 10, Color: colorGray}),
			text.New(p.Company.Address, props.Text{Size: 8, Top: 15, Color: colorGray}),
		),
		col.New(4).Add(
			text.New(tpl.title, props.Text{
				Style: fontstyle.Bold, Size: 18, Align: align.Right, Color: colorPrimary, Top: 2,
			}),
		),
	)
}

// partiesRow: datos del cliente (izq) y del documento (der).
func (g *MarotoRenderer) partiesRow(p dto.DocumentPayload, tpl templateLabels) core.Row {
	l := g.labels
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Top: top, Color: colorPrimary})
	}
	value := func(s string, top float64) core.Component {
		return text.New(nonEmpty(s, "—"), props.Text{Size: 8, Top: top, Left: 22})
	}
	rightLabel := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Top: top, Color: colorPrimary, Left: 2})
	}
	rightValue := func(s string, top float64) core.Component {
		return text.New(nonEmpty(s, "—"), props.Text{Size: 8, Top: top, Align: align.Right})
	}
	return row.New(32).Add(
		col.New(7).Add(
			label(l.customer, 1), value(p.CustomerName, 1),
			label(l.contact, 7), value(p.Contact, 7),
			label(l.phone, 13), value(p.Phone, 13),
			label(l.taxID, 19), value(p.TaxID, 19),
			label(l.invoiceTitle, 25), value(p.InvoiceTitle, 25),
		),
		col.New(5).Add(
			rightLabel(l.invoiceNumber, 1), rightValue(p.InvoiceNumber, 1),
			rightLabel(tpl.dateLabel, 7), rightValue(p.BillingDate, 7),
			rightLabel(l.issueDate, 13), rightValue(p.IssueDate, 13),
			rightLabel(l.invoiceType, 19), rightValue(p.InvoiceTypeLabel, 19),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de ítems con fondo de color.
func (g *MarotoRenderer) tableHeaderRow() core.Row {
	l := g.labels
	headerCell := props.Cell{BackgroundColor: colorHeaderBg}
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})).WithStyle(&headerCell)
	}
	return row.New(8).Add(
		h(l.colNo, 1, align.Center),
		h(l.colItem, 5, align.Left),
		h(l.colQuantity, 2, align.Center),
		h(l.colUnitPrice, 2, align.Right),
		h(l.colAmount, 2, align.Right),
	)
}

// itemRows: una fila por ítem, con fondo alternado.
func (g *MarotoRenderer) itemRows(p dto.DocumentPayload) []core.Row {
	result := make([]core.Row, 0, len(p.Items))
	for i, it := range p.Items {
		r := row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(it.No), props.Text{Size: 8, Align: align.Center, Top: 1.5})),
			col.New(5).Add(text.New(it.Description, props.Text{Size: 8, Top: 1.5, Left: 1})),
			col.New(2).Add(text.New(it.QuantityText, props.Text{Size: 8, Align: align.Center, Top: 1.5})),
			col.New(2).Add(text.New(formatMoney(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1.5, Right: 1})),
			col.New(2).Add(text.New(formatMoney(it.Amount), props.Text{Size: 8, Align: align.Right, Top: 1.5, Right: 1})),
		)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorZebra})
		}
		result = append(result, r)
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func (g *MarotoRenderer) totalsRow(p dto.DocumentPayload) core.Row {
	l := g.labels
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: top,
		})
	}
	taxLabel := fmt.Sprintf("%s (%s%%)", l.tax, p.TaxRate.Mul(decimal.NewFromInt(100)).String())
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label(l.subtotal, 1),
			label(taxLabel, 7),
			label(l.total, 13),
		),
		col.New(3).Add(
			value(formatMoney(p.Subtotal), 1),
			value(formatMoney(p.TaxAmount), 7),
			grand(formatMoney(p.Total), 13),
		),
	)
}

// notesRows: observaciones, advertencias y firma (solo cotización).
func (g *MarotoRenderer) notesRows(p dto.DocumentPayload, tpl templateLabels) []core.Row {
	l := g.labels
	rows := []core.Row{
		row.New(12).Add(col.New(12).Add(
			text.New(l.remarks, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
			text.New(nonEmpty(p.Remarks, "—"), props.Text{Size: 8, Top: 7}),
		)),
	}
	if len(p.Warnings) > 0 {
		rows = append(rows, row.New(5+4*float64(len(p.Warnings))).Add(col.New(12).Add(
			text.New("* "+strings.Join(p.Warnings, "\n* "), props.Text{Size: 6.5, Top: 2, Color: colorGray}),
		)))
	}
	if tpl.signature != "" {
		rows = append(rows,
			row.New(18),
			row.New(8).Add(
				col.New(7),
				col.New(5).Add(text.New(tpl.signature, props.Text{Size: 8, Align: align.Center, Top: 1})),
			),
		)
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func prefixed(label, value string) string {
	if value == "" {
		return ""
	}
	return label + " " + value
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

// formatMoney imprime el monto con separador de miles; los decimales solo
// aparecen cuando el monto no es entero. Ej: 25000 → "25,000", 1234.5 → "1,234.50".
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if d.Equal(d.Truncate(0)) {
		s = d.StringFixed(0)
	}
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	n := len(intPart)
	if n <= 3 {
		return sign + intPart + frac
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + frac
}
