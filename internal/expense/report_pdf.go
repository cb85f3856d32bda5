package expense

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/phpdave11/gofpdf"

	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/auth"
)

// MonthlyReport renders the caller's expenses for one month as a PDF
// statement. Defaults to the current month.
func (h *Handler) MonthlyReport(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	month := c.Query("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	from, to, err := monthRange(month)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "month must be YYYY-MM")
	}

	ctx := c.UserContext()
	items, err := h.Store.List(ctx, userID, ListFilter{From: &from, To: &to})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build report")
	}
	summary, err := h.Store.Summary(ctx, userID, &from, &to)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build report")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "FinFlow Monthly Statement", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, from.Format("January 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(26, 8, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(78, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Category", "1", 0, "L", true, 0, "")
	pdf.CellFormat(38, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, e := range items {
		desc := e.Description
		if len(desc) > 42 {
			desc = desc[:39] + "..."
		}
		amount := fmt.Sprintf("%.2f", e.Amount)
		if e.Type == "income" {
			amount = "+" + amount
		}
		pdf.CellFormat(26, 7, e.Date.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(78, 7, desc, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, e.Category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(38, 7, amount, "1", 1, "R", false, 0, "")
	}
	if len(items) == 0 {
		pdf.CellFormat(182, 7, "No expenses recorded this month", "1", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, "By category", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	var total float64
	for _, ct := range summary.CategoryStats {
		pdf.CellFormat(100, 6, ct.Category, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", ct.Total), "", 1, "R", false, 0, "")
		total += ct.Total
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(100, 8, "Total spent", "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", total), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render report")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="expenses-%s.pdf"`, month))
	return c.Send(buf.Bytes())
}
