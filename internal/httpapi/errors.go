package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
)

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// errorHandler renders every failure as {"error": {code, message, details}}
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	// Routing errors raised by fiber itself
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "INTERNAL_ERROR"
		switch {
		case fe.Code == fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fe.Code < fiber.StatusInternalServerError:
			code = "VALIDATION_ERROR"
		}
		return c.Status(fe.Code).JSON(errorResponse{Error: errorBody{Code: code, Message: fe.Message}})
	}

	kind := email.KindOf(err)
	body := errorBody{Code: kind.Code(), Message: err.Error()}

	var typed *email.Error
	if errors.As(err, &typed) {
		body.Message = typed.Message
		body.Details = typed.Details
	}

	switch kind {
	case email.KindInternal:
		body.Message = "An internal error occurred"
		body.Details = nil
		s.logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
	case email.KindProvider, email.KindAuthentication:
		s.logger.Warn("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("kind", kind.String()),
			zap.Error(err))
	default:
		s.logger.Debug("request rejected",
			zap.String("path", c.Path()),
			zap.String("kind", kind.String()),
			zap.Error(err))
	}

	return c.Status(kind.HTTPStatus()).JSON(errorResponse{Error: body})
}
