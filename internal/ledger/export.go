package ledger

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Ledger"

var exportHeaders = []string{"Party", "Date", "Type", "Vch No", "Invoice", "Narration", "Debit", "Credit", "Balance"}

// WriteXLSX writes parties as a single-sheet workbook: for each party an
// opening row, its lines, then a closing row.
func WriteXLSX(w io.Writer, parties []Party) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	row := 1
	if err := setRow(f, row, stringsToCells(exportHeaders)); err != nil {
		return err
	}

	for _, p := range parties {
		row++
		if err := setRow(f, row, []any{p.PartyName, "", "", "", "", "Opening balance", "", "", amount(p.Opening)}); err != nil {
			return err
		}
		for _, l := range p.Lines {
			row++
			if err := setRow(f, row, []any{
				p.PartyName,
				l.Date.Format("2006-01-02"),
				l.TransactionType,
				l.VchNo,
				l.InvoiceNumber,
				l.Narration,
				amount(l.Debit),
				amount(l.Credit),
				amount(l.Balance),
			}); err != nil {
				return err
			}
		}
		row++
		if err := setRow(f, row, []any{p.PartyName, "", "", "", "", "Closing balance", amount(p.Debit), amount(p.Credit), amount(p.Closing)}); err != nil {
			return err
		}
	}

	f.SetColWidth(sheetName, "A", "A", 28) //nolint:errcheck
	f.SetColWidth(sheetName, "B", "E", 14) //nolint:errcheck
	f.SetColWidth(sheetName, "F", "F", 32) //nolint:errcheck
	f.SetColWidth(sheetName, "G", "I", 14) //nolint:errcheck

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func stringsToCells(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
