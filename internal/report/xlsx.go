package report

import (
	"io"

	"github.com/tealeg/xlsx"

	"github.com/rachmadip/tokokita/internal/orders"
	"github.com/rachmadip/tokokita/internal/wa"
)

// WriteXLSX renders the summary as a two-sheet workbook for download.
func WriteXLSX(w io.Writer, s Summary) error {
	file := xlsx.NewFile()

	bold := xlsx.NewStyle()
	bold.Font.Bold = true
	bold.ApplyFont = true

	sheet, err := file.AddSheet("Summary")
	if err != nil {
		return err
	}
	addHeader(sheet, bold, "Metric", "Value")
	addRow(sheet, "Orders", s.Orders)
	addRow(sheet, "Items sold", s.ItemsSold)
	addRow(sheet, "Revenue (paid)", wa.FormatCents(s.RevenueCents))
	addRow(sheet, "Pending value", wa.FormatCents(s.PendingCents))

	addHeader(sheet, bold, "", "")
	addHeader(sheet, bold, "Status", "Orders", "Share %", "Revenue")
	for _, st := range []orders.Status{orders.StatusPending, orders.StatusPaid, orders.StatusCancelled} {
		b, ok := s.ByStatus[st]
		if !ok {
			continue
		}
		addRow(sheet, string(st), b.Count, b.Share, wa.FormatCents(b.RevenueCents))
	}

	products, err := file.AddSheet("Products")
	if err != nil {
		return err
	}
	addHeader(products, bold, "ID", "Name", "Qty", "Revenue")
	for _, p := range s.Products {
		addRow(products, p.ProductID, p.Name, p.Qty, wa.FormatCents(p.RevenueCents))
	}

	return file.Write(w)
}

func addHeader(sheet *xlsx.Sheet, style *xlsx.Style, cells ...any) {
	row := sheet.AddRow()
	for _, v := range cells {
		c := row.AddCell()
		c.SetValue(v)
		c.SetStyle(style)
	}
}

func addRow(sheet *xlsx.Sheet, cells ...any) {
	row := sheet.AddRow()
	for _, v := range cells {
		row.AddCell().SetValue(v)
	}
}
