package handler

import (
	"fmt"
	"net/http"
	"time"

	"fabrictrack/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// StockXLSX streams the stock report workbook as a download.
func (h *ReportsHandler) StockXLSX(c *gin.Context) {
	fileName := fmt.Sprintf("stock-report-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Status(http.StatusOK)

	if err := h.svc.WriteStockReport(c.Request.Context(), c.Writer); err != nil {
		_ = c.Error(err)
	}
}
