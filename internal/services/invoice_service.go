package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"stockbooks/internal/gst"
	"stockbooks/internal/models"
	"stockbooks/internal/repositories"
	"stockbooks/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jung-kurt/gofpdf"
)

type CreateInvoiceInput struct {
	CustomerID uuid.UUID
	DueDate    *time.Time
	// GSTType is cgst_sgst or igst. When empty it is derived by comparing
	// the customer's GSTIN state code against the organization's.
	GSTType string
	// GSTRate is a header rate applied to every line. When nil each line
	// is taxed at its item's gst_rate.
	GSTRate *float64
	Lines   []OrderLineInput
}

type InvoiceService interface {
	// CreateInvoice issues an invoice directly, without an order. Stock for
	// every line is reduced in the same transaction that writes the invoice.
	CreateInvoice(ctx context.Context, tenantID uuid.UUID, input *CreateInvoiceInput) (*models.Invoice, error)
	GetInvoice(ctx context.Context, tenantID, userID, invoiceID uuid.UUID) (*models.Invoice, error)
	ListInvoices(ctx context.Context, tenantID, userID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	MarkPaid(ctx context.Context, tenantID, invoiceID, userID uuid.UUID) error
	MarkOverdueInvoices(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (int64, error)
	// InvoicePDFURL renders the invoice PDF, stores it and returns a
	// presigned download URL. Renders are cached under the stored object key.
	InvoicePDFURL(ctx context.Context, tenantID, userID, invoiceID uuid.UUID) (string, error)
	UnpaidTotal(ctx context.Context, tenantID uuid.UUID) (float64, error)
}

type invoiceService struct {
	db            database.Beginner
	invoiceRepo   repositories.InvoiceRepository
	ledgerRepo    repositories.LedgerRepository
	itemRepo      repositories.ItemRepository
	customerRepo  repositories.CustomerRepository
	warehouseRepo repositories.WarehouseRepository
	orgRepo       repositories.OrganizationRepository
	sequenceRepo  repositories.SequenceRepository
	userRepo      repositories.UserRepository
	rbacSvc       RBACService
	minioSvc      MinioService
	bucket        string
}

func NewInvoiceService(
	db database.Beginner,
	invoiceRepo repositories.InvoiceRepository,
	ledgerRepo repositories.LedgerRepository,
	itemRepo repositories.ItemRepository,
	customerRepo repositories.CustomerRepository,
	warehouseRepo repositories.WarehouseRepository,
	orgRepo repositories.OrganizationRepository,
	sequenceRepo repositories.SequenceRepository,
	userRepo repositories.UserRepository,
	rbacSvc RBACService,
	minioSvc MinioService,
	bucket string,
) InvoiceService {
	return &invoiceService{
		db:            db,
		invoiceRepo:   invoiceRepo,
		ledgerRepo:    ledgerRepo,
		itemRepo:      itemRepo,
		customerRepo:  customerRepo,
		warehouseRepo: warehouseRepo,
		orgRepo:       orgRepo,
		sequenceRepo:  sequenceRepo,
		userRepo:      userRepo,
		rbacSvc:       rbacSvc,
		minioSvc:      minioSvc,
		bucket:        bucket,
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, tenantID uuid.UUID, input *CreateInvoiceInput) (*models.Invoice, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("invoice must have at least one line")
	}
	switch input.GSTType {
	case "", models.GSTTypeIntraState, models.GSTTypeInterState:
	default:
		return nil, fmt.Errorf("invalid gst_type %q", input.GSTType)
	}
	if input.GSTRate != nil && (*input.GSTRate < 0 || *input.GSTRate > 100) {
		return nil, fmt.Errorf("gst_rate must be between 0 and 100")
	}

	customer, err := s.customerRepo.GetByID(ctx, tenantID, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("customer not found")
	}

	org, err := s.orgRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, fmt.Errorf("organization not found")
	}

	warehouse, err := s.warehouseRepo.First(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, fmt.Errorf("organization has no warehouse")
	}

	var (
		lines    []models.InvoiceLine
		subtotal float64
		totalTax float64
	)
	for _, li := range input.Lines {
		if li.Quantity <= 0 {
			return nil, fmt.Errorf("line quantity must be positive")
		}
		item, err := s.itemRepo.GetByID(ctx, tenantID, li.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("item %s not found", li.ItemID)
		}

		rate := item.Price
		if li.Rate != nil {
			if *li.Rate < 0 {
				return nil, fmt.Errorf("line rate cannot be negative")
			}
			rate = *li.Rate
		}
		gstRate := item.GSTRate
		if input.GSTRate != nil {
			gstRate = *input.GSTRate
		}

		amount := gst.LineAmount(li.Quantity, rate)
		tax := gst.LineTax(amount, gstRate)
		subtotal = gst.Round2(subtotal + amount)
		totalTax = gst.Round2(totalTax + tax)

		lines = append(lines, models.InvoiceLine{
			ID:        uuid.New(),
			ItemID:    item.ID,
			ItemName:  item.Name,
			Quantity:  li.Quantity,
			Unit:      item.Unit,
			Rate:      rate,
			Amount:    amount,
			TaxAmount: tax,
		})
	}

	gstType := input.GSTType
	if gstType == "" {
		gstType = gstTypeFor(org, customer)
	}
	cgst, sgst, igst := gst.Split(totalTax, gstType == models.GSTTypeIntraState)

	now := time.Now()
	dueDate := now.AddDate(0, 0, 30)
	if input.DueDate != nil {
		dueDate = *input.DueDate
	}

	invoice := &models.Invoice{
		ID:            uuid.New(),
		TenantID:      tenantID,
		InvoiceNumber: "", // assigned inside the transaction
		CustomerID:    input.CustomerID,
		IssuedDate:    now,
		DueDate:       dueDate,
		Status:        "issued",
		PaymentStatus: models.PaymentPending,
		GSTType:       gstType,
		Subtotal:      subtotal,
		CGST:          cgst,
		SGST:          sgst,
		IGST:          igst,
		GrandTotal:    gst.Round2(subtotal + cgst + sgst + igst),
		Lines:         lines,
	}

	err = database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		seq, err := s.sequenceRepo.NextTx(ctx, tx, tenantID, "invoice")
		if err != nil {
			return fmt.Errorf("allocate invoice number: %w", err)
		}
		invoice.InvoiceNumber = fmt.Sprintf("INV-%05d", seq)

		if err := s.invoiceRepo.CreateTx(ctx, tx, invoice); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		refType := "invoice"
		for _, line := range invoice.Lines {
			entry := &models.LedgerEntry{
				ID:           uuid.New(),
				TenantID:     tenantID,
				WarehouseID:  warehouse.ID,
				ItemID:       line.ItemID,
				Quantity:     line.Quantity,
				MovementType: models.MovementOut,
				RefType:      &refType,
				RefID:        &invoice.ID,
			}
			if err := s.ledgerRepo.ReduceStockTx(ctx, tx, entry); err != nil {
				if errors.Is(err, repositories.ErrInsufficientStock) {
					return fmt.Errorf("%w for %s", repositories.ErrInsufficientStock, line.ItemName)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, tenantID, userID, invoiceID uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, tenantID, invoiceID)
	if err != nil || invoice == nil {
		return invoice, err
	}

	scope, err := s.rbacSvc.CustomerScope(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if scope != nil && !containsID(scope, invoice.CustomerID) {
		return nil, nil
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, tenantID, userID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	scope, err := s.rbacSvc.CustomerScope(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	return s.invoiceRepo.List(ctx, tenantID, scope, limit, offset)
}

// MarkPaid stamps who recorded the payment and when. Only pending
// invoices can be marked.
func (s *invoiceService) MarkPaid(ctx context.Context, tenantID, invoiceID, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}
	return s.invoiceRepo.MarkPaid(ctx, tenantID, invoiceID, userID, user.Name)
}

func (s *invoiceService) MarkOverdueInvoices(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (int64, error) {
	return s.invoiceRepo.MarkOverdue(ctx, tenantID, asOf)
}

func (s *invoiceService) UnpaidTotal(ctx context.Context, tenantID uuid.UUID) (float64, error) {
	return s.invoiceRepo.UnpaidTotal(ctx, tenantID)
}

func (s *invoiceService) InvoicePDFURL(ctx context.Context, tenantID, userID, invoiceID uuid.UUID) (string, error) {
	invoice, err := s.GetInvoice(ctx, tenantID, userID, invoiceID)
	if err != nil {
		return "", err
	}
	if invoice == nil {
		return "", fmt.Errorf("invoice not found")
	}

	if invoice.PDFObjectKey == nil {
		org, err := s.orgRepo.GetByID(ctx, tenantID)
		if err != nil {
			return "", err
		}
		customer, err := s.customerRepo.GetByID(ctx, tenantID, invoice.CustomerID)
		if err != nil {
			return "", err
		}

		pdfBytes, err := renderInvoicePDF(invoice, org, customer)
		if err != nil {
			return "", fmt.Errorf("render invoice pdf: %w", err)
		}

		objectKey := fmt.Sprintf("invoices/%s/%s.pdf", tenantID, invoice.InvoiceNumber)
		if err := s.minioSvc.UploadObject(ctx, s.bucket, objectKey, bytes.NewReader(pdfBytes), int64(len(pdfBytes)), "application/pdf"); err != nil {
			return "", fmt.Errorf("upload invoice pdf: %w", err)
		}
		if err := s.invoiceRepo.SetPDFObjectKey(ctx, tenantID, invoiceID, objectKey); err != nil {
			log.Printf("WARN: failed to store pdf object key: %v", err)
		}
		invoice.PDFObjectKey = &objectKey
	}

	return s.minioSvc.GetPresignedURL(s.bucket, *invoice.PDFObjectKey, 15*time.Minute)
}

func renderInvoicePDF(invoice *models.Invoice, org *models.Organization, customer *models.Customer) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)

	title := "TAX INVOICE"
	if org != nil {
		title = fmt.Sprintf("%s - TAX INVOICE", org.Name)
	}
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, title)
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Invoice Number: %s", invoice.InvoiceNumber))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Invoice Date: %s", invoice.IssuedDate.Format("02-Jan-2006")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Due Date: %s", invoice.DueDate.Format("02-Jan-2006")))
	pdf.Ln(8)
	if org != nil && org.GSTIN != nil && *org.GSTIN != "" {
		pdf.Cell(0, 8, fmt.Sprintf("GSTIN: %s", *org.GSTIN))
		pdf.Ln(8)
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "BILL TO:")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	if customer != nil {
		pdf.Cell(0, 6, customer.Name)
		pdf.Ln(6)
		if customer.GSTIN != nil && *customer.GSTIN != "" {
			pdf.Cell(0, 6, fmt.Sprintf("GSTIN: %s", *customer.GSTIN))
			pdf.Ln(6)
		}
		if customer.Address != nil && *customer.Address != "" {
			pdf.Cell(0, 6, *customer.Address)
			pdf.Ln(6)
		}
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)

	headers := []string{"Description", "Qty", "Rate", "Amount", "Tax"}
	colWidths := []float64{70, 20, 27, 27, 26}
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(255, 255, 255)
	for _, line := range invoice.Lines {
		pdf.CellFormat(colWidths[0], 8, line.ItemName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, fmt.Sprintf("%d %s", line.Quantity, line.Unit), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, fmt.Sprintf("%.2f", line.Rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, fmt.Sprintf("%.2f", line.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], 8, fmt.Sprintf("%.2f", line.TaxAmount), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Subtotal: %.2f", invoice.Subtotal))
	pdf.Ln(6)
	if invoice.GSTType == models.GSTTypeIntraState {
		pdf.Cell(0, 6, fmt.Sprintf("CGST: %.2f", invoice.CGST))
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("SGST: %.2f", invoice.SGST))
		pdf.Ln(6)
	} else {
		pdf.Cell(0, 6, fmt.Sprintf("IGST: %.2f", invoice.IGST))
		pdf.Ln(6)
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Grand Total: %.2f", invoice.GrandTotal))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
