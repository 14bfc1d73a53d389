package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "matte/internal/common/errors"
	"matte/internal/common/validation"
	"matte/internal/matte/dispatch"
	"matte/internal/matte/intent"
	"matte/internal/models"
	"matte/internal/transport/rest/middleware"
)

// maxBodyBytes comfortably fits the largest question the schema accepts.
const maxBodyBytes = 16 << 10

// Responder answers a question for a tenant.
type Responder interface {
	Respond(ctx context.Context, question string, tenant models.TenantContext) (*dispatch.Response, error)
}

// Analyzer classifies a question without touching any data.
type Analyzer interface {
	Analyze(question string) intent.Result
}

type askRequest struct {
	Question string `json:"question"`
}

type AskHandler struct {
	responder Responder
	analyzer  Analyzer
	errors    *apperrors.ErrorHandler
}

func NewAskHandler(responder Responder, analyzer Analyzer, errHandler *apperrors.ErrorHandler) *AskHandler {
	return &AskHandler{responder: responder, analyzer: analyzer, errors: errHandler}
}

// Ask handles POST /api/matte/ask.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	resp, err := h.responder.Respond(r.Context(), req.Question, middleware.TenantFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, dispatch.ErrUnauthorized) {
			h.errors.Write(w, r, apperrors.NewUnauthorizedError("no company on request"))
			return
		}
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Classify handles POST /api/matte/classify.
func (h *AskHandler) Classify(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, h.analyzer.Analyze(req.Question))
}

func (h *AskHandler) decode(w http.ResponseWriter, r *http.Request) (askRequest, bool) {
	var req askRequest

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.errors.Write(w, r, apperrors.NewInvalidRequestError("could not read request body"))
		return req, false
	}

	if result := validation.ValidateQuestion(body); !result.Valid {
		h.errors.Write(w, r, apperrors.NewInvalidRequestError(result.Error()))
		return req, false
	}

	if err := json.Unmarshal(body, &req); err != nil {
		h.errors.Write(w, r, apperrors.NewInvalidRequestError(err.Error()))
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
