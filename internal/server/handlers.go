package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"calebs/ccsWebsite/internal/controller"
	"calebs/ccsWebsite/internal/models"
	"calebs/ccsWebsite/internal/relay"
)

// Health reports that the server is up.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// SubmitResponse is the body returned for every accepted submission. The
// request itself succeeds even when the form had to fall back to mail.
type SubmitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Mailto string `json:"mailto,omitempty"`
}

// ErrorResponse is returned for requests that are rejected outright.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

// FormHandler relays the enquiry and review forms.
type FormHandler struct {
	submitter controller.Submitter
	log       *zap.Logger
}

// Enquiry handles POST /api/enquiry.
func (h *FormHandler) Enquiry(c echo.Context) error {
	var f models.EnquiryForm
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid form"})
	}
	if missing := f.Missing(); len(missing) > 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing required fields", Missing: missing})
	}
	return h.respond(c, h.submitter.SubmitEnquiry(c.Request().Context(), f))
}

// Review handles POST /api/review. A missing rating takes the default.
func (h *FormHandler) Review(c echo.Context) error {
	f := models.NewReviewForm()
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid form"})
	}
	if missing := f.Missing(); len(missing) > 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing required fields", Missing: missing})
	}
	return h.respond(c, h.submitter.SubmitReview(c.Request().Context(), f))
}

func (h *FormHandler) respond(c echo.Context, res relay.Result) error {
	h.log.Info("form submitted",
		zap.String("submission", res.ID),
		zap.String("channel", res.Channel.String()),
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
	)
	return c.JSON(http.StatusOK, SubmitResponse{
		ID:     res.ID,
		Status: res.Channel.String(),
		Mailto: res.MailtoURL,
	})
}
