package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/NomadCrew/feedback-intake/errors"
	"github.com/NomadCrew/feedback-intake/internal/intake"
	"github.com/NomadCrew/feedback-intake/types"
	"github.com/gin-gonic/gin"
)

// MaxBodyBytes caps the size of a feedback request body.
const MaxBodyBytes = 64 << 10

// Submitter runs one feedback submission.
type Submitter interface {
	Submit(ctx context.Context, body any) (types.FeedbackRecord, error)
}

// FeedbackHandler handles feedback submission endpoints.
type FeedbackHandler struct {
	intake Submitter
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(intake Submitter) *FeedbackHandler {
	return &FeedbackHandler{intake: intake}
}

// SubmitFeedback reads the raw body and hands it to the intake pipeline, so
// parse and validation failures get the same messages as every other transport.
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes))
	if err != nil {
		_ = c.Error(errors.InvalidInput(err.Error()))
		return
	}

	record, err := h.intake.Submit(c.Request.Context(), body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.StatusResponse{Status: "ok", ID: record.ID})
}

// Preflight answers OPTIONS requests that carry no Origin and so bypass the
// CORS middleware.
func (h *FeedbackHandler) Preflight(c *gin.Context) {
	for k, v := range intake.ResponseHeaders() {
		c.Header(k, v)
	}
	c.Status(http.StatusNoContent)
}
