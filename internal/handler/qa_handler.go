package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/evenza/eventdesk-backend/internal/middleware"
	"github.com/evenza/eventdesk-backend/internal/model"
	"github.com/evenza/eventdesk-backend/internal/response"
	"github.com/evenza/eventdesk-backend/internal/service"
	"github.com/evenza/eventdesk-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// QAHandler handles the audience Q&A endpoints.
type QAHandler struct {
	qaService    *service.QAService
	auditService *service.AuditService
}

// NewQAHandler creates a new QAHandler.
func NewQAHandler(qaService *service.QAService, auditService *service.AuditService) *QAHandler {
	return &QAHandler{qaService: qaService, auditService: auditService}
}

// Ask godoc
// POST /api/v1/public/qa/questions
// Accepts an audience question into the moderation queue.
func (h *QAHandler) Ask(c *gin.Context) {
	var req model.CreateQAQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	q, err := h.qaService.Ask(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, q)
}

// List godoc
// GET /api/v1/qa/questions?status=pending
// Returns questions for moderation, newest first.
func (h *QAHandler) List(c *gin.Context) {
	status := model.QAStatus(c.Query("status"))
	switch status {
	case "", model.QAStatusPending, model.QAStatusApproved, model.QAStatusAnswered, model.QAStatusRejected:
	default:
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"status": "unknown status filter"})
		return
	}

	questions, err := h.qaService.List(c.Request.Context(), status)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, questions)
}

// UpdateStatus godoc
// PUT /api/v1/qa/questions/:id/status
// Moves a question through the moderation flow and notifies the asker.
func (h *QAHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateQAStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	q, err := h.qaService.UpdateStatus(c.Request.Context(), id, model.QAStatus(req.Status))
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if claims := middleware.GetClaims(c); claims != nil {
		h.auditService.Record(c.Request.Context(), model.AuditEntry{
			UserEmail:    claims.Email,
			UserRole:     string(claims.Role),
			Action:       "qa.update_status",
			ResourceType: "qa_question",
			ResourceID:   strconv.FormatInt(id, 10),
			Details:      req.Status,
		})
	}

	response.Success(c, http.StatusOK, q)
}
