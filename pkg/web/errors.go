package web

import (
	"errors"
	"strconv"

	pf "github.com/dukex/operion-privacyflow/pkg/privacyflow"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

const problemContentType = "application/problem+json"

// StatusForKind maps an error kind to the HTTP status the API answers with.
func StatusForKind(kind pf.ErrorKind) int {
	switch kind {
	case pf.KindInvalidInput, pf.KindInvalidOperation:
		return fiber.StatusBadRequest
	case pf.KindAuthFailure:
		return fiber.StatusUnauthorized
	case pf.KindRateLimited:
		return fiber.StatusTooManyRequests
	case pf.KindTransient:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusBadGateway
	}
}

func badRequest(c fiber.Ctx, kind pf.ErrorKind, detail string) error {
	problem := problems.NewStatusProblem(fiber.StatusBadRequest).
		WithInstance(c.Path()).
		WithType(string(kind)).
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem, problemContentType)
}

// handlePrivacyFlowError renders a classified failure as an RFC 7807 problem.
func handlePrivacyFlowError(c fiber.Ctx, err error) error {
	kind := pf.KindOf(err)
	status := StatusForKind(kind)

	var pfErr *pf.Error
	if errors.As(err, &pfErr) && pfErr.RetryAfter > 0 {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(pfErr.RetryAfter))
	}

	problem := problems.NewStatusProblem(status).
		WithInstance(c.Path()).
		WithType(string(kind)).
		WithDetail(err.Error())

	return c.Status(status).JSON(problem, problemContentType)
}
