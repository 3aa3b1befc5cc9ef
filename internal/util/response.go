package util

import (
	"errors"

	"github.com/fadilmartias/career-gateway/internal/logger"
	"github.com/fadilmartias/career-gateway/internal/response"
	"github.com/fadilmartias/career-gateway/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PassthroughResponse writes a backend JSON body unchanged.
func PassthroughResponse(c *fiber.Ctx, code int, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(code).Send(body)
}

// ErrorResponse writes the standard {"error": message} envelope.
func ErrorResponse(c *fiber.Ctx, code int, message string) error {
	if code == 0 {
		code = fiber.StatusInternalServerError
	}
	return c.Status(code).JSON(response.ErrorEnvelope{Error: message})
}

// ForwardErrorResponse logs err and renders it. Anything that is not a
// usecase.ForwardError becomes a generic 500.
func ForwardErrorResponse(c *fiber.Ctx, log *zap.Logger, err error) error {
	var fe *usecase.ForwardError
	if !errors.As(err, &fe) {
		fe = usecase.Internal(err)
	}

	fields := []zap.Field{
		zap.String(logger.FieldRoute, c.Path()),
		zap.String(logger.FieldRequestID, RequestID(c)),
		zap.Int("status", fe.Status),
		zap.String("message", fe.Message),
	}
	if fe.Err != nil {
		fields = append(fields, zap.Error(fe.Err))
	}
	if fe.Status >= fiber.StatusInternalServerError {
		log.Error("forwarding failed", fields...)
	} else {
		log.Warn("request rejected", fields...)
	}

	return ErrorResponse(c, fe.Status, fe.Message)
}

// RequestID returns the id assigned by the requestid middleware, if any.
func RequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// NewErrorHandler renders errors that escape handlers. *fiber.Error keeps its
// code and message; anything else is logged and reported as a generic 500.
func NewErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var e *fiber.Error
		if errors.As(err, &e) {
			return ErrorResponse(c, e.Code, e.Message)
		}
		return ForwardErrorResponse(c, log, err)
	}
}
