package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dsrealty/estate-api/internal/middleware"
	"github.com/dsrealty/estate-api/internal/models"
	"github.com/dsrealty/estate-api/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// @Summary List Users
// @Description Lists users with pagination, search and filters
// @Tags Users
// @Produce json
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Param search_term query string false "Search by name, email or phone"
// @Param role query string false "Filter by role"
// @Param status query string false "Filter by status, 'all' disables the filter"
// @Success 200 {object} map[string]interface{}
// @Router /users [get]
// @Security BearerAuth
func (h *UserHandler) Index(c *gin.Context) {
	query := parseListQuery(c)

	if role := c.Query("role"); role != "" {
		query.Filters["role"] = role
	}
	status := c.DefaultQuery("status", models.StatusActive)
	if status != "all" {
		query.Filters["status"] = status
	}

	users, total, err := h.userService.List(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}

	c.JSON(http.StatusOK, paginated("users", responses, total, query))
}

// @Summary Get User
// @Description Gets a user by ID
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} map[string]string
// @Router /users/{id} [get]
// @Security BearerAuth
func (h *UserHandler) Show(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.FindByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse()})
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// @Summary Create User
// @Description Creates a new user (admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User data"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} map[string]string
// @Router /users [post]
// @Security BearerAuth
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := BindNestedOrFlat(c, "user", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email, password and full name are required"})
		return
	}
	if len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters"})
		return
	}
	if req.Role != "" && !models.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role: " + req.Role})
		return
	}

	user := &models.User{
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     req.Role,
	}

	if err := h.userService.Create(c.Request.Context(), user, req.Password, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user.ToResponse()})
}

// @Summary Update User
// @Description Updates a user. Role, status and email can only be changed by admins.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body map[string]interface{} true "Fields to update"
// @Success 200 {object} models.UserResponse
// @Router /users/{id} [put]
// @Security BearerAuth
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req map[string]interface{}
	if err := BindNestedOrFlat(c, "user", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.userService.FindByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if v, ok := req["full_name"].(string); ok && v != "" {
		user.FullName = v
	}
	if v, ok := req["phone"].(string); ok {
		user.Phone = v
	}

	if middleware.IsAdmin(c) {
		if v, ok := req["email"].(string); ok && v != "" {
			user.Email = v
		}
		if v, ok := req["role"].(string); ok && v != "" {
			if !models.ValidRole(v) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role: " + v})
				return
			}
			user.Role = v
		}
		if v, ok := req["status"].(string); ok && v != "" {
			user.Status = v
		}
	}

	if err := h.userService.Update(c.Request.Context(), user, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse()})
}

// @Summary Delete User
// @Description Soft-deletes a user (admin only)
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Router /users/{id} [delete]
// @Security BearerAuth
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if id == middleware.GetUserID(c) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "You cannot delete your own account"})
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// @Summary Restore User
// @Description Restores a soft-deleted user (admin only)
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Router /users/{id}/restore [post]
// @Security BearerAuth
func (h *UserHandler) Restore(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Restore(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User restored successfully"})
}

// @Summary Toggle User Status
// @Description Switches a user between active and suspended (admin only)
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserResponse
// @Router /users/{id}/toggle-status [patch]
// @Security BearerAuth
func (h *UserHandler) ToggleStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.ToggleStatus(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse()})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// @Summary Change Password
// @Description Changes a user's password. Admins can reset any password without the current one.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 200 {object} map[string]string
// @Router /users/{id}/change-password [post]
// @Security BearerAuth
func (h *UserHandler) ChangePassword(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New password must be at least 8 characters"})
		return
	}

	actorID := middleware.GetUserID(c)

	if middleware.IsAdmin(c) && id != actorID {
		if err := h.userService.ForceChangePassword(c.Request.Context(), id, req.NewPassword, actorID); err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
		return
	}

	if id != actorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this section"})
		return
	}
	if req.CurrentPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is required"})
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), id, req.CurrentPassword, req.NewPassword, actorID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

type SendRecoveryCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// @Summary Send Recovery Code
// @Description Emails a password reset code to the given address
// @Tags Users
// @Accept json
// @Produce json
// @Param request body SendRecoveryCodeRequest true "Email"
// @Success 200 {object} map[string]string
// @Router /users/send_recovery_code [post]
func (h *UserHandler) SendRecoveryCode(c *gin.Context) {
	var req SendRecoveryCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}

	if err := h.userService.SendRecoveryCode(c.Request.Context(), req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not send recovery code"})
		return
	}

	// Same response whether or not the email has an account.
	c.JSON(http.StatusOK, gin.H{"message": "If the email is registered, a recovery code has been sent"})
}

type VerifyRecoveryCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// @Summary Verify Recovery Code
// @Description Checks whether a password reset code is valid
// @Tags Users
// @Accept json
// @Produce json
// @Param request body VerifyRecoveryCodeRequest true "Verification data"
// @Success 200 {object} map[string]bool
// @Router /users/verify_recovery_code [post]
func (h *UserHandler) VerifyRecoveryCode(c *gin.Context) {
	var req VerifyRecoveryCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and a 6-digit code are required"})
		return
	}

	valid, err := h.userService.VerifyRecoveryCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not verify recovery code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

type UpdatePasswordWithCodeRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// @Summary Reset Password
// @Description Sets a new password using a valid reset code
// @Tags Users
// @Accept json
// @Produce json
// @Param request body UpdatePasswordWithCodeRequest true "Reset data"
// @Success 200 {object} map[string]string
// @Router /users/update_password_with_code [post]
func (h *UserHandler) UpdatePasswordWithCode(c *gin.Context) {
	var req UpdatePasswordWithCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email, code and a password of at least 8 characters are required"})
		return
	}

	if err := h.userService.UpdatePasswordWithCode(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
