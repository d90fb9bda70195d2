package response

import (
	"errors"
	"log"

	apperrors "brokebesties/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	c.Status(fiber.StatusCreated)
	return Success(c, message, data)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

func ValidationError(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "validation failed",
		"errors":  fields,
	})
}

// StatusOf maps an error kind to the HTTP status it is reported with.
func StatusOf(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindForbidden:
		return fiber.StatusForbidden
	case apperrors.KindInvalidState, apperrors.KindConflict:
		return fiber.StatusConflict
	case apperrors.KindValidation:
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// FromError writes err using its domain kind. Anything else is logged and
// reported as a 500 without detail.
func FromError(c *fiber.Ctx, err error) error {
	if de, ok := apperrors.As(err); ok {
		if de.Kind == apperrors.KindValidation && len(de.Fields) > 0 {
			return ValidationError(c, de.Fields)
		}
		return c.Status(StatusOf(de.Kind)).JSON(fiber.Map{
			"success": false,
			"message": de.Message,
			"code":    de.Code,
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return Error(c, fe.Code, fe.Message)
	}

	log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	return ServerError(c, "internal server error")
}
