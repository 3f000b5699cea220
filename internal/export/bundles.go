// Package export renders admin spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/kreslo/kreslo-backend/internal/app/service"
	"github.com/xuri/excelize/v2"
)

const (
	BundleSheet = "Bundles"
	ItemSheet   = "Items"

	// ContentType of WriteBundleSheet output.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	numFmtTwoDecimals = 2
)

var (
	bundleHeader = []interface{}{"Slug", "Name", "Discount %", "Active", "Products", "Original subtotal", "Bundle price", "Savings"}
	itemHeader   = []interface{}{"Bundle", "Product", "SKU", "Unit price"}
)

// WriteBundleSheet writes a workbook with one row per bundle and one row per
// bundle product, prices as numeric cells.
func WriteBundleSheet(w io.Writer, bundles []service.BundleView) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", BundleSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(ItemSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDecimals})
	if err != nil {
		return err
	}

	if err := writeHeader(f, BundleSheet, bundleHeader, headerStyle); err != nil {
		return err
	}
	if err := writeHeader(f, ItemSheet, itemHeader, headerStyle); err != nil {
		return err
	}

	itemRow := 2
	for i, b := range bundles {
		row := i + 2
		values := []interface{}{
			b.Slug,
			b.Name,
			b.DiscountPercentage,
			b.IsActive,
			len(b.Products),
			b.Quote.OriginalSubtotal.InexactFloat64(),
			b.Quote.BundlePrice.InexactFloat64(),
			b.Quote.Savings.InexactFloat64(),
		}
		if err := setRow(f, BundleSheet, row, values); err != nil {
			return err
		}
		if err := styleRange(f, BundleSheet, 6, 8, row, moneyStyle); err != nil {
			return err
		}

		for _, p := range b.Products {
			unit := p.Price
			if p.DiscountPrice != nil {
				unit = *p.DiscountPrice
			}
			if err := setRow(f, ItemSheet, itemRow, []interface{}{b.Slug, p.Name, p.SKU, unit.InexactFloat64()}); err != nil {
				return err
			}
			if err := styleRange(f, ItemSheet, 4, 4, itemRow, moneyStyle); err != nil {
				return err
			}
			itemRow++
		}
	}

	if err := f.SetColWidth(BundleSheet, "A", "B", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(ItemSheet, "A", "B", 28); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, header []interface{}, style int) error {
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	return styleRange(f, sheet, 1, len(header), 1, style)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func styleRange(f *excelize.File, sheet string, fromCol, toCol, row, style int) error {
	from, err := excelize.CoordinatesToCellName(fromCol, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}
