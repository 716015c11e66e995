package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hestonauto/appraise-backend/internal/middleware"
	"github.com/hestonauto/appraise-backend/internal/model"
	"github.com/hestonauto/appraise-backend/internal/response"
	"github.com/hestonauto/appraise-backend/internal/service"
)

// AppraisalHandler handles appraisal submission and listing.
type AppraisalHandler struct {
	appraisalService *service.AppraisalService
}

// NewAppraisalHandler creates a new AppraisalHandler.
func NewAppraisalHandler(appraisalService *service.AppraisalService) *AppraisalHandler {
	return &AppraisalHandler{appraisalService: appraisalService}
}

// Create godoc
// POST /api/appraisals
// Stores the submitted document verbatim. Submitter identity is stamped
// from the session; the route is staff-gated.
func (h *AppraisalHandler) Create(c *gin.Context) {
	var doc map[string]interface{}
	if err := c.ShouldBindJSON(&doc); err != nil || len(doc) == 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	appraisal, err := h.appraisalService.Create(c.Request.Context(), doc, middleware.GetUser(c))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"appraisal": appraisal})
}

// ListAll godoc
// GET /api/appraisals/admin
// Lists every appraisal, newest first. Admin only.
func (h *AppraisalHandler) ListAll(c *gin.Context) {
	list, err := h.appraisalService.ListAll(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if list == nil {
		list = []model.Appraisal{}
	}

	response.Success(c, http.StatusOK, gin.H{"appraisals": list})
}

// ListMine godoc
// GET /api/appraisals/mine
// Lists the session user's own appraisals, newest first. Identity comes
// only from the session; query parameters are ignored.
func (h *AppraisalHandler) ListMine(c *gin.Context) {
	list, err := h.appraisalService.ListMine(c.Request.Context(), middleware.GetUser(c))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if list == nil {
		list = []model.Appraisal{}
	}

	response.Success(c, http.StatusOK, gin.H{"appraisals": list})
}
