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

const dateLayout = "2006-01-02"

type BookingHandler struct {
	bookingService *services.BookingService
	paymentService *services.PaymentService
}

func NewBookingHandler(bookingService *services.BookingService, paymentService *services.PaymentService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService, paymentService: paymentService}
}

// @Summary List Bookings
// @Description Lists bookings with pagination, search and filters
// @Tags Bookings
// @Produce json
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Param search_term query string false "Search by booking number, plot or customer"
// @Param project_id query int false "Filter by project"
// @Param customer_id query int false "Filter by customer"
// @Param broker_id query int false "Filter by broker"
// @Param status query string false "Filter by status (active, cancelled)"
// @Param include_deleted query bool false "Include soft-deleted bookings"
// @Success 200 {object} map[string]interface{}
// @Router /bookings [get]
// @Security BearerAuth
func (h *BookingHandler) Index(c *gin.Context) {
	query := &repository.BookingQuery{ListQuery: parseListQuery(c)}

	if v, err := strconv.ParseUint(c.Query("project_id"), 10, 32); err == nil {
		query.ProjectID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("customer_id"), 10, 32); err == nil {
		query.CustomerID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("broker_id"), 10, 32); err == nil {
		query.BrokerID = uint(v)
	}
	query.Status = c.Query("status")
	query.IncludeDeleted = c.Query("include_deleted") == "true" && middleware.IsAdmin(c)

	bookings, total, err := h.bookingService.List(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]models.BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, bookings[i].ToResponse())
	}

	c.JSON(http.StatusOK, paginated("bookings", responses, total, query.ListQuery))
}

// @Summary Get Booking
// @Description Gets a booking with its customer, project, broker and payments
// @Tags Bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} models.BookingResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
// @Security BearerAuth
func (h *BookingHandler) Show(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookingService.FindByIDWithDetails(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking.ToResponse()})
}

type NewCustomerRequest struct {
	FullName      string  `json:"full_name" binding:"required"`
	GuardianName  string  `json:"guardian_name"`
	Phone         string  `json:"phone" binding:"required"`
	Email         *string `json:"email"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	PANNumber     *string `json:"pan_number"`
	AadhaarNumber *string `json:"aadhaar_number"`
}

type InitialPaymentRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	PaymentDate string  `json:"payment_date"`
	PaymentMode string  `json:"payment_mode" binding:"required"`
	Reference   *string `json:"reference"`
	Remarks     *string `json:"remarks"`
}

type CreateBookingRequest struct {
	ProjectID      uint                   `json:"project_id" binding:"required"`
	CustomerID     uint                   `json:"customer_id"`
	NewCustomer    *NewCustomerRequest    `json:"new_customer"`
	BrokerID       *uint                  `json:"broker_id"`
	BookingDate    string                 `json:"booking_date"`
	PlotNumber     string                 `json:"plot_number" binding:"required"`
	Area           float64                `json:"area" binding:"required,gt=0"`
	Rate           float64                `json:"rate" binding:"required,gt=0"`
	Discount       float64                `json:"discount"`
	PLC            float64                `json:"plc"`
	AssociateRate  *float64               `json:"associate_rate"`
	Remarks        *string                `json:"remarks"`
	InitialPayment *InitialPaymentRequest `json:"initial_payment"`
}

// @Summary Create Booking
// @Description Books a plot. An inline customer and an initial payment can be created in the same transaction.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body CreateBookingRequest true "Booking data"
// @Success 201 {object} models.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings [post]
// @Security BearerAuth
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := BindNestedOrFlat(c, "booking", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.ProjectID == 0 || req.PlotNumber == "" || req.Area <= 0 || req.Rate <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project, plot number, area and rate are required"})
		return
	}
	if req.CustomerID == 0 && req.NewCustomer == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either customer_id or new_customer is required"})
		return
	}
	if req.CustomerID != 0 && req.NewCustomer != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_id and new_customer are mutually exclusive"})
		return
	}

	bookingDate := time.Now()
	if req.BookingDate != "" {
		parsed, err := time.Parse(dateLayout, req.BookingDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking_date, expected YYYY-MM-DD"})
			return
		}
		bookingDate = parsed
	}

	input := &services.CreateBookingInput{
		ProjectID:     req.ProjectID,
		CustomerID:    req.CustomerID,
		BrokerID:      req.BrokerID,
		BookingDate:   bookingDate,
		PlotNumber:    req.PlotNumber,
		Area:          req.Area,
		Rate:          req.Rate,
		Discount:      req.Discount,
		PLC:           req.PLC,
		AssociateRate: req.AssociateRate,
		Remarks:       req.Remarks,
	}

	if req.NewCustomer != nil {
		if req.NewCustomer.FullName == "" || req.NewCustomer.Phone == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "New customer requires full name and phone"})
			return
		}
		input.NewCustomer = &models.Customer{
			FullName:      req.NewCustomer.FullName,
			GuardianName:  req.NewCustomer.GuardianName,
			Phone:         req.NewCustomer.Phone,
			Email:         req.NewCustomer.Email,
			Address:       req.NewCustomer.Address,
			City:          req.NewCustomer.City,
			State:         req.NewCustomer.State,
			PANNumber:     req.NewCustomer.PANNumber,
			AadhaarNumber: req.NewCustomer.AadhaarNumber,
		}
	}

	if req.InitialPayment != nil {
		if !models.ValidPaymentMode(req.InitialPayment.PaymentMode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment mode: " + req.InitialPayment.PaymentMode})
			return
		}
		paymentDate := bookingDate
		if req.InitialPayment.PaymentDate != "" {
			parsed, err := time.Parse(dateLayout, req.InitialPayment.PaymentDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment_date, expected YYYY-MM-DD"})
				return
			}
			paymentDate = parsed
		}
		input.InitialPayment = &services.InitialPaymentInput{
			Amount:      req.InitialPayment.Amount,
			PaymentDate: paymentDate,
			PaymentMode: req.InitialPayment.PaymentMode,
			Reference:   req.InitialPayment.Reference,
			Remarks:     req.InitialPayment.Remarks,
		}
	}

	booking, err := h.bookingService.Create(c.Request.Context(), input, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking.ToResponse()})
}

type UpdateBookingRequest struct {
	PlotNumber    *string  `json:"plot_number"`
	Area          *float64 `json:"area"`
	Rate          *float64 `json:"rate"`
	Discount      *float64 `json:"discount"`
	PLC           *float64 `json:"plc"`
	AssociateRate *float64 `json:"associate_rate"`
	BrokerID      *uint    `json:"broker_id"`
	ClearBroker   bool     `json:"clear_broker"`
	Remarks       *string  `json:"remarks"`
}

// @Summary Update Booking
// @Description Revalues a booking. The recorded payments must still fit under the new total.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param request body UpdateBookingRequest true "Fields to update"
// @Success 200 {object} models.BookingResponse
// @Failure 422 {object} map[string]string
// @Router /bookings/{id} [put]
// @Security BearerAuth
func (h *BookingHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := BindNestedOrFlat(c, "booking", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	input := &services.UpdateBookingInput{
		PlotNumber:    req.PlotNumber,
		Area:          req.Area,
		Rate:          req.Rate,
		Discount:      req.Discount,
		PLC:           req.PLC,
		AssociateRate: req.AssociateRate,
		BrokerID:      req.BrokerID,
		ClearBroker:   req.ClearBroker,
		Remarks:       req.Remarks,
	}

	booking, err := h.bookingService.Update(c.Request.Context(), id, input, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking.ToResponse()})
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// @Summary Cancel Booking
// @Description Cancels an active booking and frees its plot
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param request body CancelBookingRequest false "Cancellation reason"
// @Success 200 {object} models.BookingResponse
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/cancel [post]
// @Security BearerAuth
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CancelBookingRequest
	c.ShouldBindJSON(&req)

	booking, err := h.bookingService.Cancel(c.Request.Context(), id, req.Reason, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking.ToResponse()})
}

// @Summary Reinstate Booking
// @Description Reactivates a cancelled booking if the plot is still free
// @Tags Bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} models.BookingResponse
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/reinstate [post]
// @Security BearerAuth
func (h *BookingHandler) Reinstate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookingService.Reinstate(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking.ToResponse()})
}

type CompleteRegistryRequest struct {
	RegistryDate string `json:"registry_date" binding:"required"`
}

// @Summary Complete Registry
// @Description Marks the plot registry as completed on the given date
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param request body CompleteRegistryRequest true "Registry date"
// @Success 200 {object} models.BookingResponse
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/registry [post]
// @Security BearerAuth
func (h *BookingHandler) CompleteRegistry(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CompleteRegistryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "registry_date is required"})
		return
	}

	registryDate, err := time.Parse(dateLayout, req.RegistryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registry_date, expected YYYY-MM-DD"})
		return
	}

	booking, err := h.bookingService.CompleteRegistry(c.Request.Context(), id, registryDate, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking.ToResponse()})
}

// @Summary Delete Booking
// @Description Soft-deletes a booking and cascades to its payments (admin only)
// @Tags Bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} map[string]string
// @Router /bookings/{id} [delete]
// @Security BearerAuth
func (h *BookingHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.bookingService.SoftDelete(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
}

// @Summary Restore Booking
// @Description Restores a soft-deleted booking. Its payments stay deleted.
// @Tags Bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/restore [post]
// @Security BearerAuth
func (h *BookingHandler) Restore(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.bookingService.Restore(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking restored successfully"})
}

// @Summary Booking Balance
// @Description Returns the computed total, paid and remaining amounts
// @Tags Bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} models.BookingBalance
// @Router /bookings/{id}/balance [get]
// @Security BearerAuth
func (h *BookingHandler) Balance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	balance, err := h.bookingService.Balance(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// @Summary Booking Payments
// @Description Lists the non-deleted payments of a booking
// @Tags Bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} map[string]interface{}
// @Router /bookings/{id}/payments [get]
// @Security BearerAuth
func (h *BookingHandler) Payments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	payments, err := h.paymentService.FindByBooking(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]models.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"payments": responses, "total": len(responses)})
}
