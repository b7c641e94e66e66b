package services

import (
	"context"
	"fmt"

	"stockbooks/internal/repositories"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ExportService renders tenant data as XLSX workbooks for download.
type ExportService interface {
	ExportInvoices(ctx context.Context, tenantID, userID uuid.UUID) ([]byte, error)
	ExportOrders(ctx context.Context, tenantID, userID uuid.UUID) ([]byte, error)
}

type exportService struct {
	invoiceRepo repositories.InvoiceRepository
	orderRepo   repositories.OrderRepository
	rbacSvc     RBACService
}

func NewExportService(invoiceRepo repositories.InvoiceRepository, orderRepo repositories.OrderRepository, rbacSvc RBACService) ExportService {
	return &exportService{
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		rbacSvc:     rbacSvc,
	}
}

const exportPageSize = 10000

func (s *exportService) ExportInvoices(ctx context.Context, tenantID, userID uuid.UUID) ([]byte, error) {
	scope, err := s.rbacSvc.CustomerScope(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.List(ctx, tenantID, scope, exportPageSize, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Invoices"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Invoice Number", "Customer ID", "Issued Date", "Due Date", "Payment Status", "GST Type", "Subtotal", "CGST", "SGST", "IGST", "Grand Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, inv := range invoices {
		values := []interface{}{
			inv.InvoiceNumber,
			inv.CustomerID.String(),
			inv.IssuedDate.Format("2006-01-02"),
			inv.DueDate.Format("2006-01-02"),
			inv.PaymentStatus,
			inv.GSTType,
			inv.Subtotal,
			inv.CGST,
			inv.SGST,
			inv.IGST,
			inv.GrandTotal,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *exportService) ExportOrders(ctx context.Context, tenantID, userID uuid.UUID) ([]byte, error) {
	scope, err := s.rbacSvc.CustomerScope(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.List(ctx, tenantID, scope, exportPageSize, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Orders"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Order Number", "Customer ID", "Order Date", "Approval Status", "Subtotal", "Tax", "Grand Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, order := range orders {
		values := []interface{}{
			order.OrderNumber,
			order.CustomerID.String(),
			order.OrderDate.Format("2006-01-02"),
			order.ApprovalStatus,
			order.Subtotal,
			order.TaxAmount,
			order.GrandTotal,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
