package handler

import (
	"errors"

	"github.com/fadilmartias/recruitai/internal/usecase"
	"github.com/fadilmartias/recruitai/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HTTPStatus maps workflow errors to response codes.
func HTTPStatus(err error) int {
	var (
		scoringErr      *usecase.ScoringError
		notificationErr *usecase.NotificationError
		formErr         *util.FormError
	)
	switch {
	case errors.As(err, &formErr):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrCandidateNotFound), errors.Is(err, usecase.ErrActionItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrCandidateFinalized),
		errors.Is(err, usecase.ErrNotRetryable):
		return fiber.StatusConflict
	case errors.As(err, &scoringErr), errors.As(err, &notificationErr):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func errorMessage(err error, fallback string) string {
	var formErr *util.FormError
	switch {
	case errors.As(err, &formErr):
		return formErr.Message
	case errors.Is(err, usecase.ErrCandidateNotFound):
		return "candidate not found"
	case errors.Is(err, usecase.ErrActionItemNotFound):
		return "action item not found"
	case errors.Is(err, usecase.ErrCandidateFinalized):
		return "candidate already has a final decision"
	case errors.Is(err, usecase.ErrInvalidTransition):
		return "candidate cannot take this decision in its current status"
	case errors.Is(err, usecase.ErrNotRetryable):
		return "action item cannot be retried"
	}
	var scoringErr *usecase.ScoringError
	if errors.As(err, &scoringErr) {
		return "screening service failed"
	}
	var notificationErr *usecase.NotificationError
	if errors.As(err, &notificationErr) {
		return "notification could not be delivered"
	}
	return fallback
}

func respondError(c *fiber.Ctx, err error, fallback string) error {
	params := util.ErrorResponseFormat{
		Code:    HTTPStatus(err),
		Message: errorMessage(err, fallback),
	}
	var (
		formErr    *util.FormError
		scoringErr *usecase.ScoringError
	)
	switch {
	case errors.As(err, &formErr):
		params.Details = formErr.Errors
	case errors.As(err, &scoringErr) && scoringErr.CandidateID != uuid.Nil:
		// the unscored draft is kept; clients re-submit with this id
		params.Details = fiber.Map{"candidate_id": scoringErr.CandidateID}
	}
	return util.ErrorResponse(c, params, err)
}
