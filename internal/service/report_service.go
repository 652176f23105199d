package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"fabrictrack/internal/dto"

	"github.com/xuri/excelize/v2"
)

// ReportService renders exports of the catalog with derived stock.
type ReportService interface {
	// WriteStockReport streams an XLSX workbook with one row per fabric:
	// code, name, type, stock, unit, cost price and stock value.
	WriteStockReport(ctx context.Context, w io.Writer) error
}

type reportService struct {
	catalog CatalogService
}

func NewReportService(catalog CatalogService) ReportService {
	return &reportService{catalog: catalog}
}

var stockReportHeader = []string{
	"Product Code", "Name", "Type", "Color", "Supplier",
	"Opening Qty", "Current Stock", "Unit", "Cost Price", "Stock Value",
}

func (s *reportService) WriteStockReport(ctx context.Context, w io.Writer) error {
	fabrics, err := s.catalog.List(ctx, dto.FabricFilter{})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Stock Report"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for col, title := range stockReportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, fab := range fabrics {
		row := i + 2
		value := fab.CurrentStock.Mul(fab.CostPrice)
		cells := []interface{}{
			fab.ProductCode,
			fab.Name,
			fab.Type,
			fab.Color,
			fab.Supplier,
			fab.OpeningQty.InexactFloat64(),
			fab.CurrentStock.InexactFloat64(),
			fab.Unit,
			fab.CostPrice.InexactFloat64(),
			value.InexactFloat64(),
		}
		for col, v := range cells {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", len(fabrics)+3),
		"Generated "+time.Now().Format("2006-01-02 15:04"))

	return f.Write(w)
}
