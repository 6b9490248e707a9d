package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/acme/nuvia-dialer/pkg/errors"
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var upstream *apperrors.UpstreamError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrUnauthorized):
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.As(err, &upstream):
		return fiber.NewError(upstream.Status, upstream.Message)
	case errors.Is(err, apperrors.ErrNotImplemented):
		return fiber.NewError(http.StatusNotImplemented, err.Error())
	case errors.Is(err, apperrors.ErrUnavailable):
		return fiber.NewError(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, apperrors.ErrMisconfigured):
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	default:
		return err
	}
}
