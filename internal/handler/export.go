package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"gambling-ledger/internal/ledger"
	"gambling-ledger/internal/models"
	"gambling-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler streams the user's gambling entries as CSV or XLSX.
type ExportHandler struct {
	Ledger *ledger.GamblingLedger
}

func NewExportHandler(l *ledger.GamblingLedger) *ExportHandler {
	return &ExportHandler{Ledger: l}
}

var exportHeaders = []string{
	"ID", "Date", "Website", "Machine", "Win", "Free Win",
	"Free Win Machine", "Note", "Start Amount", "End Amount", "Profit",
}

func exportRecord(e models.GamblingEntry) []string {
	start := ""
	if e.StartAmount != nil {
		start = e.StartAmount.String()
	}
	end := ""
	if e.EndAmount != nil {
		end = e.EndAmount.String()
	}
	return []string{
		fmt.Sprintf("%d", e.ID),
		util.FormatDateForDisplay(e.Date),
		e.Website,
		e.Machine,
		e.Win.String(),
		e.FreeWin.String(),
		e.FreeWinM,
		e.Note,
		start,
		end,
		e.Profit.String(),
	}
}

// ExportCSV exports the user's entries as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	entries := h.Ledger.List(user)

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"gambles_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, e := range entries {
		writer.Write(exportRecord(e))
	}
}

// ExportXLSX exports the user's entries as XLSX.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	entries := h.Ledger.List(user)

	f := excelize.NewFile()
	sheetName := "Gambles"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create sheet failed")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx, e := range entries {
		for i, value := range exportRecord(e) {
			cell, _ := excelize.CoordinatesToCellName(i+1, idx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "D", 18)
	f.SetColWidth(sheetName, "H", "H", 30)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"gambles_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
