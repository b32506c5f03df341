package server

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/setanarut/wrapstudio/editor"
	"github.com/setanarut/wrapstudio/internal/logging"
	"github.com/setanarut/wrapstudio/internal/param"
	"github.com/setanarut/wrapstudio/pattern"
	"github.com/setanarut/wrapstudio/utils"
)

func statusOf(err error) int {
	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, param.ErrInvalid), errors.Is(err, utils.ErrDecode),
		errors.As(err, &syntax), errors.As(err, &typeErr):
		return fiber.StatusBadRequest
	case errors.Is(err, errSessionNotFound), errors.Is(err, editor.ErrLayerNotFound),
		errors.Is(err, pattern.ErrUnknownPattern):
		return fiber.StatusNotFound
	case errors.Is(err, editor.ErrNoTemplate), errors.Is(err, editor.ErrNothingToUndo),
		errors.Is(err, editor.ErrNothingToRedo):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// errorHandler renders every handler error as {"error": "..."}.
func errorHandler(c fiber.Ctx, err error) error {
	code := statusOf(err)
	if code >= fiber.StatusInternalServerError {
		logging.Logger().Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
