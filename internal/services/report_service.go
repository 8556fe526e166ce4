package services

import (
	"bytes"
	"context"
	"embed"
	"encoding/csv"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/dsrealty/estate-api/internal/models"
	"github.com/dsrealty/estate-api/internal/repository"
	"github.com/dsrealty/estate-api/internal/storage"
	"github.com/dsrealty/estate-api/pkg/logger"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

//go:embed templates/reports/*.html
var reportTemplateFS embed.FS

type ReportService struct {
	bookingRepo  repository.BookingRepository
	paymentRepo  repository.PaymentRepository
	customerRepo repository.CustomerRepository
	projectRepo  repository.ProjectRepository
	brokerRepo   repository.BrokerRepository
	archive      *storage.LocalStorage
}

func NewReportService(
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
	customerRepo repository.CustomerRepository,
	projectRepo repository.ProjectRepository,
	brokerRepo repository.BrokerRepository,
	archive *storage.LocalStorage,
) *ReportService {
	return &ReportService{
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		projectRepo:  projectRepo,
		brokerRepo:   brokerRepo,
		archive:      archive,
	}
}

// GenerateBookingsXLSX builds a workbook of bookings matching the query, one
// row per booking with the derived valuation and balance columns.
func (s *ReportService) GenerateBookingsXLSX(ctx context.Context, query *repository.BookingQuery) ([]byte, string, error) {
	// Dump everything the filters match, not one page of it.
	query.PerPage = 0

	bookings, _, err := s.bookingRepo.List(ctx, query)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Bookings"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{
		"Booking No", "Date", "Customer", "Project", "Plot",
		"Area", "Rate", "Discount", "PLC", "Total Amount",
		"Paid", "Balance", "Broker", "Commission", "Status",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", lastHeader, headerStyle)

	for i, b := range bookings {
		row := i + 2
		brokerName := ""
		if b.Broker != nil && b.Broker.ID != 0 {
			brokerName = b.Broker.FullName
		}
		values := []interface{}{
			b.BookingNumber,
			b.BookingDate.Format("2006-01-02"),
			b.Customer.FullName,
			b.Project.Name,
			b.PlotNumber,
			b.Area,
			b.Rate,
			b.Discount,
			b.PLC,
			b.TotalAmount(),
			b.TotalPaid(),
			b.RemainingAmount(),
			brokerName,
			b.BrokerCommission(),
			b.Status,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// GenerateCollectionsCSV dumps the payment ledger for the date range as CSV.
// Dates are YYYY-MM-DD strings; empty strings mean no bound.
func (s *ReportService) GenerateCollectionsCSV(ctx context.Context, startDate, endDate string) (*bytes.Buffer, error) {
	listQuery := repository.NewListQuery()
	listQuery.PerPage = 0
	if startDate != "" {
		listQuery.Filters["start_date"] = startDate
	}
	if endDate != "" {
		listQuery.Filters["end_date"] = endDate
	}

	payments, _, err := s.paymentRepo.List(ctx, &repository.PaymentQuery{ListQuery: listQuery})
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"Receipt No", "Date", "Booking No", "Customer", "Project", "Type", "Mode", "Amount"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, p := range payments {
		customerName := ""
		projectName := ""
		bookingNumber := ""
		if p.Booking.ID != 0 {
			bookingNumber = p.Booking.BookingNumber
			if p.Booking.Customer.ID != 0 {
				customerName = p.Booking.Customer.FullName
			}
			if p.Booking.Project.ID != 0 {
				projectName = p.Booking.Project.Name
			}
		}

		record := []string{
			p.ReceiptNumber,
			p.PaymentDate.Format("2006-01-02"),
			bookingNumber,
			customerName,
			projectName,
			p.PaymentType,
			p.PaymentMode,
			fmt.Sprintf("%.2f", p.Amount),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return b, nil
}

// GenerateCommissionsCSV reports the commission position of every broker:
// one row per broker-attributed active booking, then a per-broker summary of
// accrued versus disbursed.
func (s *ReportService) GenerateCommissionsCSV(ctx context.Context) (*bytes.Buffer, error) {
	brokerQuery := repository.NewListQuery()
	brokerQuery.PerPage = 0

	brokers, _, err := s.brokerRepo.List(ctx, brokerQuery)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"Broker No", "Broker", "Booking No", "Project", "Plot", "Area", "Rate", "Associate Rate", "Commission"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, broker := range brokers {
		bookings, err := s.bookingRepo.FindByBroker(ctx, broker.ID)
		if err != nil {
			return nil, err
		}

		var accrued float64
		for _, bk := range bookings {
			if !bk.IsActive() {
				continue
			}
			commission := bk.BrokerCommission()
			accrued += commission

			associateRate := 0.0
			if bk.AssociateRate != nil {
				associateRate = *bk.AssociateRate
			}

			record := []string{
				broker.BrokerNumber,
				broker.FullName,
				bk.BookingNumber,
				bk.Project.Name,
				bk.PlotNumber,
				fmt.Sprintf("%.2f", bk.Area),
				fmt.Sprintf("%.2f", bk.Rate),
				fmt.Sprintf("%.2f", associateRate),
				fmt.Sprintf("%.2f", commission),
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}

		disbursed, err := s.brokerRepo.FindByIDWithLedger(ctx, broker.ID)
		if err != nil {
			return nil, err
		}
		summary := []string{
			broker.BrokerNumber,
			broker.FullName,
			"TOTAL", "", "", "", "",
			fmt.Sprintf("disbursed %.2f", disbursed.DisbursedAmount()),
			fmt.Sprintf("%.2f", accrued),
		}
		if err := w.Write(summary); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return b, nil
}

// generatePDF renders an embedded HTML template and converts it with
// wkhtmltopdf.
func (s *ReportService) generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	tmpl, err := template.ParseFS(reportTemplateFS, "templates/reports/"+templateName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}

// GenerateCustomerStatementPDF produces a statement of account across all of
// a customer's bookings.
func (s *ReportService) GenerateCustomerStatementPDF(ctx context.Context, customerID uint) (*bytes.Buffer, error) {
	customer, err := s.customerRepo.FindByIDWithBookings(ctx, customerID)
	if err != nil {
		return nil, err
	}

	type paymentRow struct {
		ReceiptNumber string
		Date          string
		Mode          string
		Amount        string
	}

	type bookingSection struct {
		BookingNumber string
		ProjectName   string
		PlotNumber    string
		Status        string
		TotalAmount   string
		TotalPaid     string
		Balance       string
		Payments      []paymentRow
	}

	var sections []bookingSection
	for _, b := range customer.Bookings {
		if b.IsDeleted {
			continue
		}
		section := bookingSection{
			BookingNumber: b.BookingNumber,
			ProjectName:   b.Project.Name,
			PlotNumber:    b.PlotNumber,
			Status:        b.Status,
			TotalAmount:   fmt.Sprintf("%.2f", b.TotalAmount()),
			TotalPaid:     fmt.Sprintf("%.2f", b.TotalPaid()),
			Balance:       fmt.Sprintf("%.2f", b.RemainingAmount()),
		}
		for _, p := range b.Payments {
			if p.IsDeleted {
				continue
			}
			section.Payments = append(section.Payments, paymentRow{
				ReceiptNumber: p.ReceiptNumber,
				Date:          p.PaymentDate.Format("02/01/2006"),
				Mode:          p.PaymentMode,
				Amount:        fmt.Sprintf("%.2f", p.Amount),
			})
		}
		sections = append(sections, section)
	}

	data := map[string]interface{}{
		"CustomerNumber": customer.CustomerNumber,
		"CustomerName":   customer.FullName,
		"Phone":          customer.Phone,
		"Address":        customer.Address,
		"Date":           time.Now().Format("02/01/2006"),
		"Bookings":       sections,
	}

	return s.generatePDF("customer_statement.html", data)
}

// GenerateReceiptPDF renders a printable receipt for a single payment,
// including the amount in words and the balance after this payment.
func (s *ReportService) GenerateReceiptPDF(ctx context.Context, paymentID uint) ([]byte, string, error) {
	payment, err := s.paymentRepo.FindByIDWithDetails(ctx, paymentID)
	if err != nil {
		return nil, "", err
	}
	if payment.IsDeleted {
		return nil, "", ErrNotFound
	}

	totalPaid, err := s.paymentRepo.SumForBooking(ctx, payment.BookingID)
	if err != nil {
		return nil, "", err
	}
	balance := payment.Booking.TotalAmount() - totalPaid

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(120, 10, "DS Realty")
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(60, 10, "PAYMENT RECEIPT")
	pdf.Ln(14)

	line := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(50, 8, label)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(120, 8, value)
		pdf.Ln(7)
	}

	line("Receipt No:", payment.ReceiptNumber)
	line("Date:", payment.PaymentDate.Format("02/01/2006"))
	line("Received From:", payment.Booking.Customer.FullName)
	line("Booking No:", payment.Booking.BookingNumber)
	line("Project / Plot:", fmt.Sprintf("%s / %s", payment.Booking.Project.Name, payment.Booking.PlotNumber))
	line("Payment Mode:", payment.PaymentMode)
	if payment.Reference != nil && *payment.Reference != "" {
		line("Reference:", *payment.Reference)
	}
	pdf.Ln(3)

	line("Amount:", fmt.Sprintf("Rs. %.2f", payment.Amount))
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(170, 6, AmountToWords(payment.Amount), "", "L", false)
	pdf.Ln(3)

	line("Total Paid:", fmt.Sprintf("Rs. %.2f", totalPaid))
	line("Balance Due:", fmt.Sprintf("Rs. %.2f", balance))

	pdf.Ln(15)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(170, 6, "This is a computer generated receipt and does not require a signature.")

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	// Receipt numbers contain slashes, which do not survive as filenames.
	safe := strings.ReplaceAll(payment.ReceiptNumber, "/", "-")
	filename := fmt.Sprintf("receipt_%s.pdf", safe)

	// Keep a copy on disk so reissued receipts can be matched against what
	// was handed to the customer. Archive failures never block the download.
	if s.archive != nil {
		if _, err := s.archive.UploadFromBytes(buf.Bytes(), filename, "receipts"); err != nil {
			logger.Warn("failed to archive receipt", "receipt", payment.ReceiptNumber, "error", err)
		}
	}
	return buf.Bytes(), filename, nil
}

// ProjectStat is one project's plot occupancy in the dashboard summary.
type ProjectStat struct {
	ProjectID      uint    `json:"project_id"`
	Name           string  `json:"name"`
	TotalPlots     int     `json:"total_plots"`
	BookedPlots    int64   `json:"booked_plots"`
	AvailablePlots int64   `json:"available_plots"`
	Collected      float64 `json:"collected"`
}

// DashboardSummary aggregates the numbers shown on the back office landing
// page.
type DashboardSummary struct {
	ActiveBookings   int64         `json:"active_bookings"`
	MonthCollections float64       `json:"month_collections"`
	TotalOutstanding float64       `json:"total_outstanding"`
	PendingRegistry  int           `json:"pending_registry"`
	Projects         []ProjectStat `json:"projects"`
}

// Dashboard computes the summary from the live ledger. Nothing here is
// cached or stored.
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)

	monthCollections, err := s.paymentRepo.CollectedBetween(ctx,
		monthStart.Format("2006-01-02"), monthEnd.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	summary.MonthCollections = monthCollections

	listQuery := repository.NewListQuery()
	listQuery.PerPage = 0
	bookings, total, err := s.bookingRepo.List(ctx, &repository.BookingQuery{
		ListQuery: listQuery,
		Status:    models.BookingStatusActive,
	})
	if err != nil {
		return nil, err
	}
	summary.ActiveBookings = total

	collectedByProject := make(map[uint]float64)
	for _, b := range bookings {
		summary.TotalOutstanding += b.RemainingAmount()
		collectedByProject[b.ProjectID] += b.TotalPaid()
	}

	pending, err := s.bookingRepo.FindPendingRegistry(ctx)
	if err != nil {
		return nil, err
	}
	summary.PendingRegistry = len(pending)

	projects, err := s.projectRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		booked, err := s.bookingRepo.CountActiveByProject(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		summary.Projects = append(summary.Projects, ProjectStat{
			ProjectID:      p.ID,
			Name:           p.Name,
			TotalPlots:     p.TotalPlots,
			BookedPlots:    booked,
			AvailablePlots: int64(p.TotalPlots) - booked,
			Collected:      collectedByProject[p.ID],
		})
	}

	return summary, nil
}
