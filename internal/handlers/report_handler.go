package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dsrealty/estate-api/internal/repository"
	"github.com/dsrealty/estate-api/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// @Summary Bookings Report (XLSX)
// @Description Exports the booking register as a spreadsheet. Accepts the same filters as the booking list.
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param project_id query int false "Filter by project"
// @Param broker_id query int false "Filter by broker"
// @Param status query string false "Filter by status"
// @Success 200 {file} binary
// @Router /reports/bookings [get]
// @Security BearerAuth
func (h *ReportHandler) BookingsXLSX(c *gin.Context) {
	query := &repository.BookingQuery{ListQuery: repository.NewListQuery()}
	if v, err := strconv.ParseUint(c.Query("project_id"), 10, 32); err == nil {
		query.ProjectID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("broker_id"), 10, 32); err == nil {
		query.BrokerID = uint(v)
	}
	query.Status = c.Query("status")

	data, filename, err := h.reportService.GenerateBookingsXLSX(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary Collections Report (CSV)
// @Description Exports payments received in a date range
// @Tags Reports
// @Produce text/csv
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Router /reports/collections [get]
// @Security BearerAuth
func (h *ReportHandler) CollectionsCSV(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate == "" {
		startDate = time.Now().AddDate(0, -1, 0).Format(dateLayout)
	}
	if endDate == "" {
		endDate = time.Now().Format(dateLayout)
	}

	buf, err := h.reportService.GenerateCollectionsCSV(c.Request.Context(), startDate, endDate)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("collections_%s_%s.csv", startDate, endDate)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// @Summary Commissions Report (CSV)
// @Description Exports the per-broker commission ledger with accrued and disbursed totals
// @Tags Reports
// @Produce text/csv
// @Success 200 {file} binary
// @Router /reports/commissions [get]
// @Security BearerAuth
func (h *ReportHandler) CommissionsCSV(c *gin.Context) {
	buf, err := h.reportService.GenerateCommissionsCSV(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("commissions_%s.csv", time.Now().Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// @Summary Customer Statement (PDF)
// @Description Generates a statement of account covering all of a customer's bookings and payments
// @Tags Reports
// @Produce application/pdf
// @Param id path int true "Customer ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /reports/customers/{id}/statement [get]
// @Security BearerAuth
func (h *ReportHandler) CustomerStatementPDF(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	buf, err := h.reportService.GenerateCustomerStatementPDF(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("statement_customer_%d.pdf", id)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary Payment Receipt (PDF)
// @Description Generates the printable receipt for a payment, amount in words included
// @Tags Reports
// @Produce application/pdf
// @Param id path int true "Payment ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /reports/payments/{id}/receipt [get]
// @Security BearerAuth
func (h *ReportHandler) ReceiptPDF(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	data, filename, err := h.reportService.GenerateReceiptPDF(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// @Summary Dashboard
// @Description Returns live operational metrics: active bookings, month collections, outstanding balance, pending registries and per-project stats
// @Tags Reports
// @Produce json
// @Success 200 {object} services.DashboardSummary
// @Router /reports/dashboard [get]
// @Security BearerAuth
func (h *ReportHandler) Dashboard(c *gin.Context) {
	summary, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
