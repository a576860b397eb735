package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/evenza/eventdesk-backend/internal/middleware"
	"github.com/evenza/eventdesk-backend/internal/model"
	"github.com/evenza/eventdesk-backend/internal/response"
	"github.com/evenza/eventdesk-backend/internal/service"
	"github.com/evenza/eventdesk-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// FormHandler handles the dashboard form management endpoints.
type FormHandler struct {
	formService       *service.FormService
	analyticsService  *service.AnalyticsService
	submissionService *service.SubmissionService
	auditService      *service.AuditService
}

// NewFormHandler creates a new FormHandler.
func NewFormHandler(
	formService *service.FormService,
	analyticsService *service.AnalyticsService,
	submissionService *service.SubmissionService,
	auditService *service.AuditService,
) *FormHandler {
	return &FormHandler{
		formService:       formService,
		analyticsService:  analyticsService,
		submissionService: submissionService,
		auditService:      auditService,
	}
}

// List godoc
// GET /api/v1/forms
// Returns all forms with response counts and fill links.
func (h *FormHandler) List(c *gin.Context) {
	forms, err := h.formService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, forms)
}

// Create godoc
// POST /api/v1/forms
// Creates a form with its questions.
func (h *FormHandler) Create(c *gin.Context) {
	var req model.CreateFormRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	form, err := h.formService.Create(c.Request.Context(), claims.Email, &req)
	if err != nil {
		failFormError(c, err)
		return
	}

	h.audit(c, "form.create", form.ID, fmt.Sprintf("created %s form %q", form.Category, form.Title))
	response.Success(c, http.StatusCreated, gin.H{
		"form":      form,
		"form_link": h.formService.FormLink(form.Handle),
	})
}

// Get godoc
// GET /api/v1/forms/:id
// Returns a form with its questions, correct answers included.
func (h *FormHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	form, questions, err := h.formService.GetWithQuestions(c.Request.Context(), id)
	if err != nil {
		failFormError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"form":      form,
		"questions": questions,
		"form_link": h.formService.FormLink(form.Handle),
	})
}

// Update godoc
// PUT /api/v1/forms/:id
// Applies partial changes; a questions list replaces the full set.
func (h *FormHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateFormRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	form, err := h.formService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failFormError(c, err)
		return
	}

	h.audit(c, "form.update", form.ID, fmt.Sprintf("updated form %q", form.Title))
	response.Success(c, http.StatusOK, gin.H{"form": form})
}

// Delete godoc
// DELETE /api/v1/forms/:id
// Removes a form and all its responses and analytics.
func (h *FormHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.formService.Delete(c.Request.Context(), id); err != nil {
		failFormError(c, err)
		return
	}

	h.audit(c, "form.delete", id, "")
	response.Success(c, http.StatusOK, gin.H{"message": "Form deleted successfully"})
}

// Clone godoc
// POST /api/v1/forms/:id/clone
// Copies a form and its questions into a new inactive form.
func (h *FormHandler) Clone(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	claims := middleware.GetClaims(c)
	clone, err := h.formService.Clone(c.Request.Context(), id, claims.Email)
	if err != nil {
		failFormError(c, err)
		return
	}

	h.audit(c, "form.clone", clone.ID, fmt.Sprintf("cloned from form %d", id))
	response.Success(c, http.StatusCreated, gin.H{
		"form":      clone,
		"form_link": h.formService.FormLink(clone.Handle),
	})
}

// Link godoc
// GET /api/v1/forms/:id/link
// Returns the shareable fill link for a form.
func (h *FormHandler) Link(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	form, _, err := h.formService.GetWithQuestions(c.Request.Context(), id)
	if err != nil {
		failFormError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"form_hash": form.Handle,
		"form_link": h.formService.FormLink(form.Handle),
	})
}

// Analytics godoc
// GET /api/v1/forms/:id/analytics
// Returns the full analytics report for a form.
func (h *FormHandler) Analytics(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	report, err := h.analyticsService.BuildReport(c.Request.Context(), id)
	if err != nil {
		failFormError(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

// Responses godoc
// GET /api/v1/forms/:id/responses
// Returns every response for a form.
func (h *FormHandler) Responses(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	responses, err := h.submissionService.ListResponses(c.Request.Context(), id)
	if err != nil {
		failFormError(c, err)
		return
	}
	response.Success(c, http.StatusOK, responses)
}

func (h *FormHandler) audit(c *gin.Context, action string, formID int64, details string) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return
	}
	h.auditService.Record(c.Request.Context(), model.AuditEntry{
		UserEmail:    claims.Email,
		UserRole:     string(claims.Role),
		Action:       action,
		ResourceType: "form",
		ResourceID:   strconv.FormatInt(formID, 10),
		Details:      details,
	})
}

// ────────────────────────────────────────────────────────────────────────────
// Shared helpers
// ────────────────────────────────────────────────────────────────────────────

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

func failFormError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFormNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrQuestionsRequired),
		errors.Is(err, service.ErrOptionsRequired),
		errors.Is(err, service.ErrCorrectAnswerMissing):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"questions": err.Error()})
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
