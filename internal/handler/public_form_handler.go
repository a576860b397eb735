package handler

import (
	"errors"
	"net/http"

	"github.com/evenza/eventdesk-backend/internal/model"
	"github.com/evenza/eventdesk-backend/internal/response"
	"github.com/evenza/eventdesk-backend/internal/service"
	"github.com/evenza/eventdesk-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// PublicFormHandler handles the unauthenticated fill-and-submit endpoints.
// Forms are addressed exclusively by their opaque handle here; internal ids
// never appear on this surface.
type PublicFormHandler struct {
	formService       *service.FormService
	submissionService *service.SubmissionService
}

// NewPublicFormHandler creates a new PublicFormHandler.
func NewPublicFormHandler(formService *service.FormService, submissionService *service.SubmissionService) *PublicFormHandler {
	return &PublicFormHandler{
		formService:       formService,
		submissionService: submissionService,
	}
}

// Get godoc
// GET /api/v1/public/forms/:hash
// Returns the fill payload for an active form. Correct answers are never
// included.
func (h *PublicFormHandler) Get(c *gin.Context) {
	payload, err := h.formService.GetPublicByHandle(c.Request.Context(), c.Param("hash"))
	if err != nil {
		if errors.Is(err, service.ErrFormNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, payload)
}

// Submit godoc
// POST /api/v1/public/forms/:hash/submit
// Validates, scores and stores a submission.
func (h *PublicFormHandler) Submit(c *gin.Context) {
	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.submissionService.Submit(c.Request.Context(), c.Param("hash"), &req)
	if err != nil {
		failSubmitError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// CheckSubmission godoc
// GET /api/v1/public/forms/:hash/check-submission/:email
// Reports whether the email has already submitted this form.
func (h *PublicFormHandler) CheckSubmission(c *gin.Context) {
	submitted, err := h.submissionService.HasSubmitted(c.Request.Context(), c.Param("hash"), c.Param("email"))
	if err != nil {
		if errors.Is(err, service.ErrFormNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"has_submitted": submitted})
}

func failSubmitError(c *gin.Context, err error) {
	var fields service.FieldErrors
	switch {
	case errors.As(err, &fields):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
	case errors.Is(err, service.ErrFormNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotRegistered):
		response.Fail(c, http.StatusForbidden, response.ErrUnregistered)
	case errors.Is(err, service.ErrRegistrationMismatch):
		response.Fail(c, http.StatusBadRequest, response.ErrRegistrationMismatch)
	case errors.Is(err, service.ErrInsufficientDetail):
		response.Fail(c, http.StatusBadRequest, response.ErrInsufficientDetail)
	case errors.Is(err, service.ErrAttendanceMarked):
		response.Fail(c, http.StatusConflict, response.ErrAttendanceMarked)
	case errors.Is(err, service.ErrDuplicateSubmission):
		response.Fail(c, http.StatusConflict, response.ErrDuplicateSubmission)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
