package http

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-listing/internal/events"
	"github.com/spec-kit/ticket-listing/internal/observability"
	apperrors "github.com/spec-kit/ticket-listing/pkg/util/errorutil"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, dispatcher events.Dispatcher, timeout time.Duration) {
	app.Use(observability.RequestLogger(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics, dispatcher))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, dispatcher events.Dispatcher) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		panicked := false
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(fmt.Errorf("panic: %v", r))
				panicked = true
			}
			if err == nil {
				return
			}
			if fiberErr, ok := err.(*fiber.Error); ok {
				// Routing errors such as 404/405 keep their status.
				err = apperrors.NewDomainError(fiberErrorCode(fiberErr.Code), fiberErr.Message, fiberErr.Code, nil)
			}
			domainErr := apperrors.ToDomainError(err)
			metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
			if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
				publishUncaught(c, dispatcher, logger, domainErr, panicked)
			}

			body := fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
			}
			if len(domainErr.Details) > 0 {
				body["details"] = domainErr.Details
			}
			c.Status(domainErr.HTTPStatus)
			_ = c.JSON(fiber.Map{"error": body})
			err = nil
		}()
		return c.Next()
	}
}

func publishUncaught(c *fiber.Ctx, dispatcher events.Dispatcher, logger *zap.Logger, domainErr *apperrors.DomainError, panicked bool) {
	if dispatcher == nil {
		logger.Error("request failed", zap.Error(domainErr))
		return
	}
	event := events.NewUncaughtException(events.UncaughtExceptionPayload{
		Err:       domainErr,
		Code:      domainErr.Code,
		Path:      c.Path(),
		Method:    c.Method(),
		RequestID: string(c.Response().Header.Peek(observability.RequestIDHeader)),
		Panic:     panicked,
	})
	if err := dispatcher.Publish(c.UserContext(), event); err != nil {
		logger.Warn("uncaught exception handlers failed", zap.Error(err))
	}
}

func fiberErrorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return apperrors.CodeNotFound
	case fiber.StatusUnauthorized:
		return apperrors.CodeUnauthorized
	case fiber.StatusForbidden:
		return apperrors.CodeForbidden
	case fiber.StatusBadRequest:
		return apperrors.CodeValidationFailed
	default:
		if status >= fiber.StatusInternalServerError {
			return apperrors.CodeInternal
		}
		return "HTTP_" + fmt.Sprint(status)
	}
}
