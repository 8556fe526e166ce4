package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dsrealty/estate-api/internal/middleware"
	"github.com/dsrealty/estate-api/internal/models"
	"github.com/dsrealty/estate-api/internal/repository"
	"github.com/dsrealty/estate-api/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// @Summary List Payments
// @Description Lists ledger entries with pagination and filters
// @Tags Payments
// @Produce json
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Param search_term query string false "Search by receipt number or reference"
// @Param booking_id query int false "Filter by booking"
// @Param project_id query int false "Filter by project"
// @Param payment_mode query string false "Filter by payment mode"
// @Param payment_type query string false "Filter by payment type"
// @Param start_date query string false "Payments on or after this date (YYYY-MM-DD)"
// @Param end_date query string false "Payments on or before this date (YYYY-MM-DD)"
// @Param include_deleted query bool false "Include soft-deleted payments"
// @Success 200 {object} map[string]interface{}
// @Router /payments [get]
// @Security BearerAuth
func (h *PaymentHandler) Index(c *gin.Context) {
	query := &repository.PaymentQuery{ListQuery: parseListQuery(c)}

	if v, err := strconv.ParseUint(c.Query("booking_id"), 10, 32); err == nil {
		query.BookingID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("project_id"), 10, 32); err == nil {
		query.ProjectID = uint(v)
	}
	query.PaymentMode = c.Query("payment_mode")
	if v := c.Query("payment_type"); v != "" {
		query.Filters["payment_type"] = v
	}
	if v := c.Query("start_date"); v != "" {
		query.Filters["start_date"] = v
	}
	if v := c.Query("end_date"); v != "" {
		query.Filters["end_date"] = v
	}
	query.IncludeDeleted = c.Query("include_deleted") == "true" && middleware.IsAdmin(c)

	payments, total, err := h.paymentService.List(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]models.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}

	c.JSON(http.StatusOK, paginated("payments", responses, total, query.ListQuery))
}

// @Summary Get Payment
// @Description Gets a payment with its booking, customer and project
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} models.PaymentResponse
// @Failure 404 {object} map[string]string
// @Router /payments/{id} [get]
// @Security BearerAuth
func (h *PaymentHandler) Show(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.FindByIDWithDetails(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

type RecordPaymentRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentDate   string  `json:"payment_date"`
	PaymentMode   string  `json:"payment_mode" binding:"required"`
	PaymentType   string  `json:"payment_type"`
	InstallmentNo *int    `json:"installment_no"`
	Reference     *string `json:"reference"`
	Remarks       *string `json:"remarks"`
}

// @Summary Record Payment
// @Description Records a payment against a booking. Rejected if it would push the ledger past the booking total.
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param request body RecordPaymentRequest true "Payment data"
// @Success 201 {object} models.PaymentResponse
// @Failure 422 {object} map[string]interface{}
// @Router /bookings/{id}/payments [post]
// @Security BearerAuth
func (h *PaymentHandler) Record(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := BindNestedOrFlat(c, "payment", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than zero"})
		return
	}
	if !models.ValidPaymentMode(req.PaymentMode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment mode: " + req.PaymentMode})
		return
	}
	if req.PaymentType != "" && !models.ValidPaymentType(req.PaymentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment type: " + req.PaymentType})
		return
	}

	paymentDate := time.Now()
	if req.PaymentDate != "" {
		parsed, err := time.Parse(dateLayout, req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment_date, expected YYYY-MM-DD"})
			return
		}
		paymentDate = parsed
	}

	input := &services.RecordPaymentInput{
		Amount:        req.Amount,
		PaymentDate:   paymentDate,
		PaymentMode:   req.PaymentMode,
		PaymentType:   req.PaymentType,
		InstallmentNo: req.InstallmentNo,
		Reference:     req.Reference,
		Remarks:       req.Remarks,
	}

	payment, err := h.paymentService.Record(c.Request.Context(), bookingID, input, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment.ToResponse()})
}

type EditPaymentRequest struct {
	Amount        *float64 `json:"amount"`
	PaymentDate   *string  `json:"payment_date"`
	PaymentMode   *string  `json:"payment_mode"`
	PaymentType   *string  `json:"payment_type"`
	InstallmentNo *int     `json:"installment_no"`
	Reference     *string  `json:"reference"`
	Remarks       *string  `json:"remarks"`
}

// @Summary Edit Payment
// @Description Edits a payment. The receipt number never changes and the new amount is re-validated against the ledger.
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path int true "Payment ID"
// @Param request body EditPaymentRequest true "Fields to update"
// @Success 200 {object} models.PaymentResponse
// @Failure 422 {object} map[string]interface{}
// @Router /payments/{id} [put]
// @Security BearerAuth
func (h *PaymentHandler) Edit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req EditPaymentRequest
	if err := BindNestedOrFlat(c, "payment", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.Amount != nil && *req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than zero"})
		return
	}
	if req.PaymentMode != nil && !models.ValidPaymentMode(*req.PaymentMode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment mode: " + *req.PaymentMode})
		return
	}
	if req.PaymentType != nil && !models.ValidPaymentType(*req.PaymentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment type: " + *req.PaymentType})
		return
	}

	input := &services.EditPaymentInput{
		Amount:        req.Amount,
		PaymentMode:   req.PaymentMode,
		PaymentType:   req.PaymentType,
		InstallmentNo: req.InstallmentNo,
		Reference:     req.Reference,
		Remarks:       req.Remarks,
	}
	if req.PaymentDate != nil {
		parsed, err := time.Parse(dateLayout, *req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment_date, expected YYYY-MM-DD"})
			return
		}
		input.PaymentDate = &parsed
	}

	payment, err := h.paymentService.Edit(c.Request.Context(), id, input, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

// @Summary Delete Payment
// @Description Soft-deletes a payment and frees its amount from the ledger
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} map[string]string
// @Router /payments/{id} [delete]
// @Security BearerAuth
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.paymentService.SoftDelete(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted successfully"})
}

// @Summary Restore Payment
// @Description Restores a soft-deleted payment if the amount still fits under the booking total
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /payments/{id}/restore [post]
// @Security BearerAuth
func (h *PaymentHandler) Restore(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.paymentService.Restore(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment restored successfully"})
}
