package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hestonauto/appraise-backend/internal/response"
	"github.com/hestonauto/appraise-backend/internal/service"
	"github.com/hestonauto/appraise-backend/internal/validator"
)

// DVLAHandler proxies vehicle registration lookups.
type DVLAHandler struct {
	lookupService *service.LookupService
}

// NewDVLAHandler creates a new DVLAHandler.
func NewDVLAHandler(lookupService *service.LookupService) *DVLAHandler {
	return &DVLAHandler{lookupService: lookupService}
}

type lookupRequest struct {
	Reg string `json:"reg" binding:"required,max=20"`
}

// Lookup godoc
// POST /api/dvla/lookup
// Relays the provider's success payload verbatim; provider rejections come
// back as 400 with the provider's message, transport failures as a generic
// 500.
func (h *DVLAHandler) Lookup(c *gin.Context) {
	var req lookupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	data, err := h.lookupService.Lookup(c.Request.Context(), req.Reg)
	if err != nil {
		var pe *service.ProviderError
		if errors.As(err, &pe) {
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrLookupFailed, pe.Message)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrLookupFailed)
		return
	}

	response.Success(c, http.StatusOK, data)
}
