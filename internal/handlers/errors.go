package handlers

import (
	"errors"
	"fmt"

	"alliedparts/internal/logger"
	"alliedparts/internal/repositories"
	"alliedparts/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// requestError is a client mistake rendered as 400.
type requestError struct {
	message string
	fields  map[string]string
	err     error
}

func (e *requestError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

// ErrorHandler renders every error returned by a handler. Anything that is
// not a known client error becomes a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var reqErr *requestError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &reqErr):
		body := fiber.Map{"message": reqErr.message}
		if reqErr.fields != nil {
			body["errors"] = reqErr.fields
		} else if reqErr.err != nil {
			body["error"] = reqErr.err.Error()
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.Is(err, repositories.ErrInvalidID):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid id",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrInvalidRole):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid role",
			"error":   err.Error(),
		})
	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"message": fiberErr.Message,
		})
	}

	logger.Errorf("%s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal Server Error",
		"error":   err.Error(),
	})
}

// bindJSON parses the request body into out and validates it when out is a struct.
func bindJSON(c *fiber.Ctx, validate *validator.Validate, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return &requestError{message: "Invalid request body", err: err}
	}
	if validate == nil {
		return nil
	}
	if err := validate.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return &requestError{message: "Validation failed", err: err}
		}
		fields := make(map[string]string)
		for _, e := range validationErrors {
			fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return &requestError{message: "Validation failed", fields: fields}
	}
	return nil
}

// sendDocument writes doc, or null when the lookup matched nothing.
func sendDocument(c *fiber.Ctx, doc interface{}, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return c.JSON(nil)
	}
	if err != nil {
		return err
	}
	return c.JSON(doc)
}

// sendResult writes a store result or passes the error on.
func sendResult(c *fiber.Ctx, result interface{}, err error) error {
	if err != nil {
		return err
	}
	return c.JSON(result)
}
