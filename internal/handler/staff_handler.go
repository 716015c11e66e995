package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hestonauto/appraise-backend/internal/model"
	"github.com/hestonauto/appraise-backend/internal/repository"
	"github.com/hestonauto/appraise-backend/internal/response"
	"github.com/hestonauto/appraise-backend/internal/service"
	"github.com/hestonauto/appraise-backend/internal/validator"
)

// StaffHandler handles administrator-facing staff account management.
type StaffHandler struct {
	staffService *service.StaffService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// List godoc
// GET /api/staff
// Lists all staff. Password hashes and reset tokens are never serialized.
func (h *StaffHandler) List(c *gin.Context) {
	staff, err := h.staffService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"staff": staff})
}

// Create godoc
// POST /api/staff
func (h *StaffHandler) Create(c *gin.Context) {
	var req model.CreateStaffRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	staff, err := h.staffService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateStaff) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"staff": staff})
}

// Update godoc
// PUT /api/staff/:id
// Partial update: an absent key leaves the column unchanged; null or "" on
// the optional last name clears it.
func (h *StaffHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateStaffRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(bindErr))
		return
	}

	upd, fields := buildStaffUpdate(&req)
	if len(fields) > 0 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	staff, err := h.staffService.Update(c.Request.Context(), id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStaffNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, repository.ErrDuplicateStaff):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"staff": staff})
}

// buildStaffUpdate validates the partial payload and maps it onto the
// normalized repository form. Only the last name may be cleared.
func buildStaffUpdate(req *model.UpdateStaffRequest) (model.StaffUpdate, map[string]string) {
	fields := make(map[string]string)
	var upd model.StaffUpdate

	if req.FirstName.Set {
		if req.FirstName.Empty() {
			fields["first_name"] = "first_name cannot be empty"
		} else {
			v := strings.TrimSpace(*req.FirstName.Value)
			upd.FirstName = &v
		}
	}
	if req.LastName.Set {
		if req.LastName.Empty() {
			upd.ClearLastName = true
		} else {
			v := strings.TrimSpace(*req.LastName.Value)
			upd.LastName = &v
		}
	}
	if req.Username.Set {
		if req.Username.Empty() {
			fields["username"] = "username cannot be empty"
		} else {
			v := strings.TrimSpace(*req.Username.Value)
			upd.Username = &v
		}
	}
	if req.Email.Set {
		if req.Email.Empty() || !strings.Contains(*req.Email.Value, "@") {
			fields["email"] = "email must be a valid email address"
		} else {
			v := strings.ToLower(strings.TrimSpace(*req.Email.Value))
			upd.Email = &v
		}
	}

	if len(fields) > 0 {
		return model.StaffUpdate{}, fields
	}
	return upd, nil
}

// ResetPassword godoc
// POST /api/staff/:id/reset-password
// Issues a temporary password, returned in plaintext exactly once.
func (h *StaffHandler) ResetPassword(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	temp, err := h.staffService.ResetPassword(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"temp_password": temp})
}

// SetPassword godoc
// PUT /api/staff/:id/password
func (h *StaffHandler) SetPassword(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SetPasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.staffService.SetPassword(c.Request.Context(), id, req.Password); err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "password updated"})
}

// Delete godoc
// DELETE /api/staff/:id
func (h *StaffHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.staffService.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "staff deleted successfully"})
}
