package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dsrealty/estate-api/internal/middleware"
	"github.com/dsrealty/estate-api/internal/models"
	"github.com/dsrealty/estate-api/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// @Summary List Projects
// @Description Lists projects with pagination and search
// @Tags Projects
// @Produce json
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Param search_term query string false "Search by name or city"
// @Param project_type query string false "Filter by project type"
// @Success 200 {object} map[string]interface{}
// @Router /projects [get]
// @Security BearerAuth
func (h *ProjectHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	if v := c.Query("project_type"); v != "" {
		query.Filters["project_type"] = v
	}

	projects, total, err := h.projectService.List(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]models.ProjectResponse, 0, len(projects))
	for i := range projects {
		responses = append(responses, projects[i].ToResponse())
	}

	c.JSON(http.StatusOK, paginated("projects", responses, total, query))
}

// @Summary Get Project
// @Description Gets a project with computed plot inventory
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} models.ProjectResponse
// @Failure 404 {object} map[string]string
// @Router /projects/{id} [get]
// @Security BearerAuth
func (h *ProjectHandler) Show(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.FindByIDWithBookings(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project.ToResponse()})
}

type ProjectRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	ProjectType     string  `json:"project_type"`
	Address         string  `json:"address"`
	City            string  `json:"city"`
	State           string  `json:"state"`
	TotalPlots      int     `json:"total_plots"`
	TotalArea       float64 `json:"total_area"`
	BaseRate        float64 `json:"base_rate"`
	MeasurementUnit string  `json:"measurement_unit"`
	LegalText       string  `json:"legal_text"`
	LaunchDate      *string `json:"launch_date"`
	IsActive        *bool   `json:"is_active"`
}

// @Summary Create Project
// @Description Creates a project (admin or manager)
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body ProjectRequest true "Project data"
// @Success 201 {object} models.ProjectResponse
// @Failure 400 {object} map[string]string
// @Router /projects [post]
// @Security BearerAuth
func (h *ProjectHandler) Create(c *gin.Context) {
	var req ProjectRequest
	if err := BindNestedOrFlat(c, "project", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.Name == "" || req.Address == "" || req.TotalPlots <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, address and a positive total_plots are required"})
		return
	}

	project := &models.Project{
		Name:            req.Name,
		Description:     req.Description,
		ProjectType:     req.ProjectType,
		Address:         req.Address,
		City:            req.City,
		State:           req.State,
		TotalPlots:      req.TotalPlots,
		TotalArea:       req.TotalArea,
		BaseRate:        req.BaseRate,
		MeasurementUnit: req.MeasurementUnit,
		LegalText:       req.LegalText,
		LaunchDate:      req.LaunchDate,
		IsActive:        true,
	}

	if err := h.projectService.Create(c.Request.Context(), project, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project.ToResponse()})
}

// @Summary Update Project
// @Description Updates a project. Shrinking total_plots below the booked count is rejected.
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body ProjectRequest true "Fields to update"
// @Success 200 {object} models.ProjectResponse
// @Failure 422 {object} map[string]string
// @Router /projects/{id} [put]
// @Security BearerAuth
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ProjectRequest
	if err := BindNestedOrFlat(c, "project", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	project, err := h.projectService.FindByIDWithBookings(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if req.Name != "" {
		project.Name = req.Name
	}
	if req.Description != "" {
		project.Description = req.Description
	}
	if req.ProjectType != "" {
		project.ProjectType = req.ProjectType
	}
	if req.Address != "" {
		project.Address = req.Address
	}
	if req.City != "" {
		project.City = req.City
	}
	if req.State != "" {
		project.State = req.State
	}
	if req.TotalPlots > 0 {
		if req.TotalPlots < project.BookedPlots() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "total_plots cannot be lower than the number of active bookings",
			})
			return
		}
		project.TotalPlots = req.TotalPlots
	}
	if req.TotalArea > 0 {
		project.TotalArea = req.TotalArea
	}
	if req.BaseRate > 0 {
		project.BaseRate = req.BaseRate
	}
	if req.MeasurementUnit != "" {
		project.MeasurementUnit = req.MeasurementUnit
	}
	if req.LegalText != "" {
		project.LegalText = req.LegalText
	}
	if req.LaunchDate != nil {
		project.LaunchDate = req.LaunchDate
	}
	if req.IsActive != nil {
		project.IsActive = *req.IsActive
	}

	if err := h.projectService.Update(c.Request.Context(), project, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project.ToResponse()})
}

// @Summary Delete Project
// @Description Soft-deletes a project and cascades to its bookings and their payments (admin only)
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} map[string]string
// @Router /projects/{id} [delete]
// @Security BearerAuth
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.SoftDelete(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// @Summary Restore Project
// @Description Restores a soft-deleted project. Its bookings stay deleted.
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} map[string]string
// @Router /projects/{id}/restore [post]
// @Security BearerAuth
func (h *ProjectHandler) Restore(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.Restore(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project restored successfully"})
}

type CustomerHandler struct {
	customerService *services.CustomerService
}

func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// @Summary List Customers
// @Description Lists customers with pagination and search
// @Tags Customers
// @Produce json
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Param search_term query string false "Search by name, phone or customer number"
// @Param city query string false "Filter by city"
// @Param include_deleted query bool false "Include soft-deleted customers"
// @Success 200 {object} map[string]interface{}
// @Router /customers [get]
// @Security BearerAuth
func (h *CustomerHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	if v := c.Query("city"); v != "" {
		query.Filters["city"] = v
	}
	if c.Query("include_deleted") == "true" && middleware.IsAdmin(c) {
		query.Filters["include_deleted"] = "true"
	}

	customers, total, err := h.customerService.List(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]models.CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, customers[i].ToResponse())
	}

	c.JSON(http.StatusOK, paginated("customers", responses, total, query))
}

// @Summary Get Customer
// @Description Gets a customer with their bookings
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} models.CustomerResponse
// @Failure 404 {object} map[string]string
// @Router /customers/{id} [get]
// @Security BearerAuth
func (h *CustomerHandler) Show(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.FindByIDWithBookings(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	bookings := make([]models.BookingResponse, 0, len(customer.Bookings))
	for i := range customer.Bookings {
		if !customer.Bookings[i].IsDeleted {
			bookings = append(bookings, customer.Bookings[i].ToResponse())
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"customer": customer.ToResponse(),
		"bookings": bookings,
	})
}

type CustomerRequest struct {
	FullName      string  `json:"full_name"`
	GuardianName  string  `json:"guardian_name"`
	Phone         string  `json:"phone"`
	Email         *string `json:"email"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	PANNumber     *string `json:"pan_number"`
	AadhaarNumber *string `json:"aadhaar_number"`
}

// @Summary Create Customer
// @Description Registers a customer and assigns a customer number
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body CustomerRequest true "Customer data"
// @Success 201 {object} models.CustomerResponse
// @Failure 400 {object} map[string]string
// @Router /customers [post]
// @Security BearerAuth
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CustomerRequest
	if err := BindNestedOrFlat(c, "customer", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.FullName == "" || req.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Full name and phone are required"})
		return
	}

	customer := &models.Customer{
		FullName:      req.FullName,
		GuardianName:  req.GuardianName,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		PANNumber:     req.PANNumber,
		AadhaarNumber: req.AadhaarNumber,
	}

	if err := h.customerService.Create(c.Request.Context(), customer, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer": customer.ToResponse()})
}

// @Summary Update Customer
// @Description Updates a customer's details. The customer number never changes.
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Param request body CustomerRequest true "Fields to update"
// @Success 200 {object} models.CustomerResponse
// @Router /customers/{id} [put]
// @Security BearerAuth
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CustomerRequest
	if err := BindNestedOrFlat(c, "customer", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	customer, err := h.customerService.FindByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if req.FullName != "" {
		customer.FullName = req.FullName
	}
	if req.GuardianName != "" {
		customer.GuardianName = req.GuardianName
	}
	if req.Phone != "" {
		customer.Phone = req.Phone
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.Address != "" {
		customer.Address = req.Address
	}
	if req.City != "" {
		customer.City = req.City
	}
	if req.State != "" {
		customer.State = req.State
	}
	if req.PANNumber != nil {
		customer.PANNumber = req.PANNumber
	}
	if req.AadhaarNumber != nil {
		customer.AadhaarNumber = req.AadhaarNumber
	}

	if err := h.customerService.Update(c.Request.Context(), customer, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer.ToResponse()})
}

// @Summary Delete Customer
// @Description Soft-deletes a customer. Rejected while the customer has active bookings. (admin only)
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /customers/{id} [delete]
// @Security BearerAuth
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.SoftDelete(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

// @Summary Restore Customer
// @Description Restores a soft-deleted customer (admin only)
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} map[string]string
// @Router /customers/{id}/restore [post]
// @Security BearerAuth
func (h *CustomerHandler) Restore(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.Restore(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer restored successfully"})
}

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// @Summary List Notifications
// @Description Lists the current user's notifications
// @Tags Notifications
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Success 200 {object} map[string]interface{}
// @Router /notifications [get]
// @Security BearerAuth
func (h *NotificationHandler) Index(c *gin.Context) {
	userID := middleware.GetUserID(c)
	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.notificationService.FindByUser(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	unread, err := h.notificationService.CountUnread(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]models.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, notifications[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": responses,
		"unread_count":  unread,
	})
}

// @Summary Mark Notification Read
// @Description Marks one notification as read
// @Tags Notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} map[string]string
// @Router /notifications/{id}/read [post]
// @Security BearerAuth
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	notification, err := h.notificationService.FindByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if notification.UserID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this section"})
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// @Summary Mark All Notifications Read
// @Description Marks all of the current user's notifications as read
// @Tags Notifications
// @Produce json
// @Success 200 {object} map[string]string
// @Router /notifications/read-all [post]
// @Security BearerAuth
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	if err := h.notificationService.MarkAllAsRead(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Logs
// @Description Lists audit log entries, newest first (admin only)
// @Tags Audits
// @Produce json
// @Param limit query int false "Max entries" default(50)
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Router /audits [get]
// @Security BearerAuth
func (h *AuditHandler) Index(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	logs, total, err := h.auditService.List(c.Request.Context(), limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"audits": logs,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
