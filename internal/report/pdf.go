// Package report renders the repayment summary as a PDF document:
// headline totals, a progress bar, and the full payment history.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"

	"debttrack/internal/core"
)

const (
	marginX      = 14.0
	contentWidth = 182.0

	colDate   = 35.0
	colAmount = 35.0
	colNote   = 112.0
)

// FileName returns the suggested download name for a report generated now.
func FileName(now time.Time) string {
	return fmt.Sprintf("repayments-%s.pdf", now.Format("2006-01-02"))
}

// Build renders the report. Payments are shown oldest first regardless
// of input order; the input slice is not modified.
func Build(debt core.Debt, payments []core.Payment, totals core.DebtTotals, now time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(33, 33, 33)
	pdf.SetXY(marginX, 14)
	pdf.CellFormat(contentWidth, 10, "Debt Repayment Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetX(marginX)
	pdf.CellFormat(contentWidth, 6, "Generated on "+now.Format("2006-01-02"), "", 1, "L", false, 0, "")

	if debt.Description != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetX(marginX)
		pdf.MultiCell(contentWidth, 5, tr(debt.Description), "", "L", false)
	}
	pdf.Ln(4)

	writeTotalsBox(pdf, tr, debt, totals)
	writeProgressBar(pdf, totals)
	writePaymentTable(pdf, tr, payments)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTotalsBox(pdf *fpdf.Fpdf, tr func(string) string, debt core.Debt, totals core.DebtTotals) {
	top := pdf.GetY()
	boxHeight := 26.0

	pdf.SetFillColor(240, 240, 240)
	pdf.RoundedRect(marginX, top, contentWidth, boxHeight, 2, "1234", "F")

	rows := []struct {
		label string
		value string
		green bool
	}{
		{"Total debt", debt.TotalAmount.FormatEUR(), false},
		{"Total paid", totals.TotalPaid.FormatEUR(), true},
		{"Remaining", totals.Remaining.FormatEUR(), false},
	}

	y := top + 3
	for _, row := range rows {
		pdf.SetXY(marginX+4, y)
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(66, 66, 66)
		pdf.CellFormat(40, 7, row.label, "", 0, "L", false, 0, "")

		pdf.SetFont("Helvetica", "B", 10)
		if row.green {
			pdf.SetTextColor(46, 125, 50)
		} else {
			pdf.SetTextColor(33, 33, 33)
		}
		pdf.CellFormat(60, 7, tr(row.value), "", 0, "L", false, 0, "")
		y += 7
	}

	pdf.SetY(top + boxHeight + 6)
}

func writeProgressBar(pdf *fpdf.Fpdf, totals core.DebtTotals) {
	pct := totals.ProgressPct
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(33, 33, 33)
	pdf.SetX(marginX)
	pdf.CellFormat(contentWidth, 6, "Progress", "", 1, "L", false, 0, "")

	top := pdf.GetY() + 1
	barHeight := 8.0

	pdf.SetFillColor(224, 224, 224)
	pdf.RoundedRect(marginX, top, contentWidth, barHeight, 2, "1234", "F")

	if pct > 0 {
		pdf.SetFillColor(46, 125, 50)
		pdf.RoundedRect(marginX, top, contentWidth*pct/100, barHeight, 2, "1234", "F")
	}

	pdf.SetFont("Helvetica", "B", 8)
	if pct >= 50 {
		pdf.SetTextColor(255, 255, 255)
	} else {
		pdf.SetTextColor(66, 66, 66)
	}
	pdf.SetXY(marginX, top)
	pdf.CellFormat(contentWidth, barHeight, fmt.Sprintf("%.1f%%", pct), "", 1, "C", false, 0, "")

	pdf.SetY(top + barHeight + 8)
}

func writePaymentTable(pdf *fpdf.Fpdf, tr func(string) string, payments []core.Payment) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(33, 33, 33)
	pdf.SetX(marginX)
	pdf.CellFormat(contentWidth, 8, "Payment history", "", 1, "L", false, 0, "")

	if len(payments) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.SetX(marginX)
		pdf.CellFormat(contentWidth, 6, "No payments recorded yet.", "", 1, "L", false, 0, "")
		return
	}

	sorted := make([]core.Payment, len(payments))
	copy(sorted, payments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PaymentDate < sorted[j].PaymentDate
	})

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(46, 125, 50)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetX(marginX)
		pdf.CellFormat(colDate, 8, "Date", "", 0, "L", true, 0, "")
		pdf.CellFormat(colAmount, 8, "Amount", "", 0, "R", true, 0, "")
		pdf.CellFormat(colNote, 8, "Note", "", 1, "L", true, 0, "")
	}
	header()

	pdf.SetFont("Helvetica", "", 10)
	for i, p := range sorted {
		// Repeat the header after an automatic page break.
		if pdf.GetY() > 270 {
			pdf.AddPage()
			header()
			pdf.SetFont("Helvetica", "", 10)
		}

		fill := i%2 == 1
		pdf.SetFillColor(248, 248, 248)
		pdf.SetTextColor(33, 33, 33)
		pdf.SetX(marginX)
		pdf.CellFormat(colDate, 7, p.PaymentDate, "", 0, "L", fill, 0, "")
		pdf.CellFormat(colAmount, 7, tr(p.Amount.FormatEUR()), "", 0, "R", fill, 0, "")
		pdf.CellFormat(colNote, 7, tr(truncate(p.Note, 70)), "", 1, "L", fill, 0, "")
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
