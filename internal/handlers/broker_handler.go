package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dsrealty/estate-api/internal/middleware"
	"github.com/dsrealty/estate-api/internal/models"
	"github.com/dsrealty/estate-api/internal/services"
)

type BrokerHandler struct {
	brokerService *services.BrokerService
}

func NewBrokerHandler(brokerService *services.BrokerService) *BrokerHandler {
	return &BrokerHandler{brokerService: brokerService}
}

// @Summary List Brokers
// @Description Lists brokers with pagination and search
// @Tags Brokers
// @Produce json
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Param search_term query string false "Search by name, firm or phone"
// @Param include_deleted query bool false "Include soft-deleted brokers"
// @Success 200 {object} map[string]interface{}
// @Router /brokers [get]
// @Security BearerAuth
func (h *BrokerHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	if c.Query("include_deleted") == "true" && middleware.IsAdmin(c) {
		query.Filters["include_deleted"] = "true"
	}

	brokers, total, err := h.brokerService.List(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]models.BrokerResponse, 0, len(brokers))
	for i := range brokers {
		responses = append(responses, brokers[i].ToResponse())
	}

	c.JSON(http.StatusOK, paginated("brokers", responses, total, query))
}

// @Summary Get Broker
// @Description Gets a broker with bookings and payout ledger
// @Tags Brokers
// @Produce json
// @Param id path int true "Broker ID"
// @Success 200 {object} models.BrokerResponse
// @Failure 404 {object} map[string]string
// @Router /brokers/{id} [get]
// @Security BearerAuth
func (h *BrokerHandler) Show(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	broker, err := h.brokerService.FindByIDWithLedger(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"broker": broker.ToResponse()})
}

type BrokerRequest struct {
	FullName  string  `json:"full_name" binding:"required"`
	FirmName  string  `json:"firm_name"`
	Phone     string  `json:"phone" binding:"required"`
	Email     *string `json:"email"`
	Address   string  `json:"address"`
	PANNumber *string `json:"pan_number"`
}

// @Summary Create Broker
// @Description Registers a broker and assigns a broker number
// @Tags Brokers
// @Accept json
// @Produce json
// @Param request body BrokerRequest true "Broker data"
// @Success 201 {object} models.BrokerResponse
// @Failure 400 {object} map[string]string
// @Router /brokers [post]
// @Security BearerAuth
func (h *BrokerHandler) Create(c *gin.Context) {
	var req BrokerRequest
	if err := BindNestedOrFlat(c, "broker", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.FullName == "" || req.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Full name and phone are required"})
		return
	}

	broker := &models.Broker{
		FullName:  req.FullName,
		FirmName:  req.FirmName,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		PANNumber: req.PANNumber,
	}

	if err := h.brokerService.Create(c.Request.Context(), broker, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"broker": broker.ToResponse()})
}

// @Summary Update Broker
// @Description Updates a broker's details
// @Tags Brokers
// @Accept json
// @Produce json
// @Param id path int true "Broker ID"
// @Param request body BrokerRequest true "Broker data"
// @Success 200 {object} models.BrokerResponse
// @Router /brokers/{id} [put]
// @Security BearerAuth
func (h *BrokerHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req BrokerRequest
	if err := BindNestedOrFlat(c, "broker", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	broker, err := h.brokerService.FindByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if req.FullName != "" {
		broker.FullName = req.FullName
	}
	broker.FirmName = req.FirmName
	if req.Phone != "" {
		broker.Phone = req.Phone
	}
	if req.Email != nil {
		broker.Email = req.Email
	}
	broker.Address = req.Address
	if req.PANNumber != nil {
		broker.PANNumber = req.PANNumber
	}

	if err := h.brokerService.Update(c.Request.Context(), broker, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"broker": broker.ToResponse()})
}

// @Summary Delete Broker
// @Description Soft-deletes a broker. Bookings and payouts are untouched.
// @Tags Brokers
// @Produce json
// @Param id path int true "Broker ID"
// @Success 200 {object} map[string]string
// @Router /brokers/{id} [delete]
// @Security BearerAuth
func (h *BrokerHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.brokerService.SoftDelete(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Broker deleted successfully"})
}

// @Summary Restore Broker
// @Description Restores a soft-deleted broker
// @Tags Brokers
// @Produce json
// @Param id path int true "Broker ID"
// @Success 200 {object} map[string]string
// @Router /brokers/{id}/restore [post]
// @Security BearerAuth
func (h *BrokerHandler) Restore(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.brokerService.Restore(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Broker restored successfully"})
}

// @Summary Broker Balance
// @Description Returns accrued commission, disbursed amount and pending commission
// @Tags Brokers
// @Produce json
// @Param id path int true "Broker ID"
// @Success 200 {object} services.BrokerBalance
// @Router /brokers/{id}/balance [get]
// @Security BearerAuth
func (h *BrokerHandler) Balance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	balance, err := h.brokerService.Balance(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

type RecordPayoutRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	PaymentDate string  `json:"payment_date"`
	PaymentMode string  `json:"payment_mode" binding:"required"`
	Reference   *string `json:"reference"`
	Remarks     *string `json:"remarks"`
}

// @Summary Record Payout
// @Description Disburses commission to a broker. Rejected if it would exceed the accrued commission.
// @Tags Brokers
// @Accept json
// @Produce json
// @Param id path int true "Broker ID"
// @Param request body RecordPayoutRequest true "Payout data"
// @Success 201 {object} models.BrokerPaymentResponse
// @Failure 422 {object} map[string]interface{}
// @Router /brokers/{id}/payouts [post]
// @Security BearerAuth
func (h *BrokerHandler) RecordPayout(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RecordPayoutRequest
	if err := BindNestedOrFlat(c, "payout", &req); err != nil {
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

	paymentDate := time.Now()
	if req.PaymentDate != "" {
		parsed, err := time.Parse(dateLayout, req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment_date, expected YYYY-MM-DD"})
			return
		}
		paymentDate = parsed
	}

	input := &services.RecordPayoutInput{
		Amount:      req.Amount,
		PaymentDate: paymentDate,
		PaymentMode: req.PaymentMode,
		Reference:   req.Reference,
		Remarks:     req.Remarks,
	}

	payout, err := h.brokerService.RecordPayout(c.Request.Context(), id, input, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payout": payout.ToResponse()})
}

// @Summary List Payouts
// @Description Lists commission payouts of a broker
// @Tags Brokers
// @Produce json
// @Param id path int true "Broker ID"
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Param start_date query string false "Payouts on or after this date (YYYY-MM-DD)"
// @Param end_date query string false "Payouts on or before this date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Router /brokers/{id}/payouts [get]
// @Security BearerAuth
func (h *BrokerHandler) ListPayouts(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	query := parseListQuery(c)
	query.Filters["broker_id"] = strconv.FormatUint(uint64(id), 10)
	if v := c.Query("start_date"); v != "" {
		query.Filters["start_date"] = v
	}
	if v := c.Query("end_date"); v != "" {
		query.Filters["end_date"] = v
	}

	payouts, total, err := h.brokerService.ListPayouts(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]models.BrokerPaymentResponse, 0, len(payouts))
	for i := range payouts {
		responses = append(responses, payouts[i].ToResponse())
	}

	c.JSON(http.StatusOK, paginated("payouts", responses, total, query))
}

// @Summary Delete Payout
// @Description Removes a commission payout and returns its amount to the pending balance (admin only)
// @Tags Brokers
// @Produce json
// @Param id path int true "Payout ID"
// @Success 200 {object} map[string]string
// @Router /broker-payouts/{id} [delete]
// @Security BearerAuth
func (h *BrokerHandler) DeletePayout(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.brokerService.DeletePayout(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payout deleted successfully"})
}
