package statement

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"ledger/pkg/models"
)

// gridSize is the number of grid units across a page.
const gridSize = 100

// columnSizes are the table column widths in grid units.
var columnSizes = []int{5, 8, 8, 8, 10, 10, 8, 11, 9, 23}

// numericColumns are right-aligned.
var numericColumns = map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true}

var (
	colorDark     = &props.Color{Red: 17, Green: 24, Blue: 39}
	colorMuted    = &props.Color{Red: 107, Green: 114, Blue: 128}
	colorLine     = &props.Color{Red: 229, Green: 231, Blue: 235}
	colorAccent   = &props.Color{Red: 45, Green: 75, Blue: 255}
	colorGreen    = &props.Color{Red: 6, Green: 95, Blue: 70}
	colorOrange   = &props.Color{Red: 249, Green: 115, Blue: 22}
	colorSale     = &props.Color{Red: 16, Green: 185, Blue: 129}
	colorPurchase = &props.Color{Red: 59, Green: 130, Blue: 246}
	colorStripe   = &props.Color{Red: 246, Green: 248, Blue: 251}
	colorWhite    = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// RenderPDF draws the statement on landscape A4 pages and returns the PDF bytes.
func RenderPDF(s *Statement) ([]byte, error) {
	const op = "RenderPDF"

	if s == nil || len(s.Rows) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNothingToExport)
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithBottomMargin(12).
		WithMaxGridSize(gridSize).
		WithTitle(s.Title, true).
		WithCreationDate(s.GeneratedAt).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} / {total}",
			Place:   props.RightBottom,
			Size:    8,
			Style:   fontstyle.Bold,
			Color:   colorMuted,
		}).
		Build()

	m := maroto.New(cfg)

	if err := m.RegisterFooter(footerRows(s)...); err != nil {
		return nil, fmt.Errorf("%s: failed to register footer: %w", op, err)
	}

	m.AddRows(headerRows(s)...)
	m.AddRows(badgeRow(s), row.New(4))
	m.AddRows(tableHeaderRow(s.Columns))
	for i, r := range s.Rows {
		m.AddRows(tableRow(i, r))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to generate PDF: %w", op, err)
	}
	return doc.GetBytes(), nil
}

func headerRows(s *Statement) []core.Row {
	half := gridSize / 2

	return []core.Row{
		row.New(10).Add(
			text.NewCol(half, s.Title, props.Text{Size: 16, Style: fontstyle.Bold, Color: colorDark}),
			text.NewCol(half, fmt.Sprintf("Records: %d", s.Records), props.Text{Top: 3, Size: 10, Style: fontstyle.Bold, Align: align.Right, Color: colorAccent}),
		),
		row.New(6).Add(
			text.NewCol(half, "Date Range: "+s.RangeLabel, props.Text{Size: 9, Color: colorMuted}),
			text.NewCol(half, "Type: "+s.TypeLabel, props.Text{Size: 9, Align: align.Right, Color: colorMuted}),
		),
		row.New(6).Add(
			text.NewCol(gridSize, "Search: "+s.SearchLabel, props.Text{Size: 9, Color: colorMuted}),
		),
		row.New(3).Add(line.NewCol(gridSize, props.Line{Color: colorLine, Thickness: 0.4})),
	}
}

func badgeRow(s *Statement) core.Row {
	valueColors := []*props.Color{colorDark, colorPurchase, colorSale, colorGreen}

	size := gridSize / len(s.Badges)
	cols := make([]core.Col, 0, len(s.Badges))
	for i, b := range s.Badges {
		valueColor := valueColors[i%len(valueColors)]
		if b.Label == "Total Profit" && s.Summary.TotalProfit.IsNegative() {
			valueColor = colorOrange
		}

		cols = append(cols, col.New(size).
			Add(
				text.New(b.Label, props.Text{Top: 2, Left: 3, Size: 8, Color: colorMuted}),
				text.New(b.Value, props.Text{Top: 7, Left: 3, Size: 12, Style: fontstyle.Bold, Color: valueColor}),
			).
			WithStyle(&props.Cell{BorderType: border.Full, BorderColor: colorLine, BorderThickness: 0.3}))
	}

	return row.New(16).Add(cols...)
}

func tableHeaderRow(columns []string) core.Row {
	cols := make([]core.Col, 0, len(columns))
	for i, name := range columns {
		cols = append(cols, text.NewCol(columnSizes[i], name, props.Text{
			Top:   2,
			Left:  1,
			Right: 1,
			Size:  8,
			Style: fontstyle.Bold,
			Align: cellAlign(i),
			Color: colorWhite,
		}))
	}

	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorAccent})
}

func tableRow(index int, r Row) core.Row {
	cols := make([]core.Col, 0, len(r.Cells))
	for i, value := range r.Cells {
		p := props.Text{
			Top:    1.5,
			Bottom: 1.5,
			Left:   1,
			Right:  1,
			Size:   8,
			Align:  cellAlign(i),
			Color:  colorDark,
		}
		if i == 1 {
			p.Style = fontstyle.Bold
			p.Color = typeColor(r.SaleType)
		}
		cols = append(cols, text.NewCol(columnSizes[i], value, p))
	}

	style := &props.Cell{BorderType: border.Bottom, BorderColor: colorLine, BorderThickness: 0.2}
	if index%2 == 1 {
		style.BackgroundColor = colorStripe
	}
	return row.New().Add(cols...).WithStyle(style)
}

func footerRows(s *Statement) []core.Row {
	half := gridSize / 2

	return []core.Row{
		row.New(2).Add(line.NewCol(gridSize, props.Line{Color: colorLine, Thickness: 0.3})),
		row.New(5).Add(
			text.NewCol(half, s.FooterLeft(), props.Text{Size: 8, Color: colorMuted}),
			text.NewCol(half, s.FooterRight(), props.Text{Size: 8, Align: align.Center, Color: colorMuted}),
		),
	}
}

func cellAlign(column int) align.Type {
	if numericColumns[column] {
		return align.Right
	}
	return align.Left
}

func typeColor(t models.SaleType) *props.Color {
	switch t {
	case models.SaleTypeSale:
		return colorSale
	case models.SaleTypePurchase:
		return colorPurchase
	default:
		return colorMuted
	}
}
