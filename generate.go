package draftsmith

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/draftsmith/pipeline"
	"github.com/eringen/draftsmith/textgen"
	"github.com/eringen/draftsmith/topic"
)

// handleGenerate returns the handler for one generation variant. The request
// body is {"topic": "...", "keywords": "..."}; the response is the Draft
// Article or a JSON error envelope.
func (a *App) handleGenerate(variant pipeline.Variant) echo.HandlerFunc {
	return func(c echo.Context) error {
		if a.generateLimiter != nil && !a.generateLimiter.Allow(c.RealIP()) {
			return jsonError(c, http.StatusTooManyRequests, "too many generation requests, try again later")
		}

		var req pipeline.Request
		if err := c.Bind(&req); err != nil {
			return jsonError(c, http.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(req.Topic) == "" {
			return jsonError(c, http.StatusBadRequest, topic.ErrInvalidInput.Error())
		}

		log := a.requestLogger(c)
		ctx := log.WithContext(c.Request().Context())
		draft, err := a.Pipeline.Run(ctx, variant, req)
		if err != nil {
			code := generateStatus(err)
			if code >= 500 {
				log.Error().Err(err).Str("variant", string(variant)).Msg("generation failed")
			}
			return jsonError(c, code, err.Error())
		}
		return c.JSON(http.StatusOK, draft)
	}
}

// generateStatus maps a pipeline error to an HTTP status. Text generation
// failures are 500 and carry the upstream detail in the message.
func generateStatus(err error) int {
	switch {
	case errors.Is(err, topic.ErrInvalidInput),
		errors.Is(err, textgen.ErrNoProvider),
		errors.Is(err, textgen.ErrNoGeminiKey),
		errors.Is(err, pipeline.ErrUnknownVariant):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads this response.
		return 499
	default:
		// Upstream HTTP, shape and malformed-response failures.
		return http.StatusInternalServerError
	}
}
