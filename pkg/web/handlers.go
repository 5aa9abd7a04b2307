// Package web provides the HTTP API over the PrivacyFlow operations.
package web

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	pf "github.com/dukex/operion-privacyflow/pkg/privacyflow"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	client     *pf.Client
	dispatcher *pf.Dispatcher
	poller     *pf.Poller
	logger     *slog.Logger
}

func NewAPIHandlers(client *pf.Client, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		client:     client,
		dispatcher: pf.NewDispatcher(client, logger),
		poller:     pf.NewPoller(client, logger),
		logger:     logger.With("module", "web"),
	}
}

// ExecuteOperation runs one operation. The optional JSON body holds its parameters.
func (h *APIHandlers) ExecuteOperation(c fiber.Ctx) error {
	params := pf.MapParameters{}

	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &params); err != nil {
			return badRequest(c, pf.KindInvalidInput, "Invalid request body: "+err.Error())
		}
	}

	resource := pf.Resource(c.Params("resource"))
	operation := pf.Operation(c.Params("operation"))

	items, err := h.dispatcher.Dispatch(c.Context(), resource, operation, params)
	if err != nil {
		h.logger.WarnContext(c.Context(), "Operation failed",
			"resource", resource, "operation", operation, "kind", pf.KindOf(err))

		return handlePrivacyFlowError(c, err)
	}

	return c.JSON(fiber.Map{
		"items": items,
		"count": len(items),
	})
}

// PollMessages runs one poll tick. No new data answers 204.
func (h *APIHandlers) PollMessages(c fiber.Ctx) error {
	limit := float64(pf.DefaultMessageLimit)

	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return badRequest(c, pf.KindInvalidInput, pf.MessageLimitInvalid)
		}

		limit = parsed
	}

	batch, err := h.poller.Poll(c.Context(), limit)
	if err != nil {
		return handlePrivacyFlowError(c, err)
	}

	if batch == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.JSON(fiber.Map{
		"items": batch.Items,
		"count": len(batch.Items),
	})
}

// HealthCheck probes the remote API with the current credentials.
func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	if err := h.client.Health(c.Context()); err != nil {
		return handlePrivacyFlowError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":    "healthy",
		"message":   "PrivacyFlow API is reachable",
		"timestamp": time.Now().UTC(),
	})
}

// ListOperations describes the operations available per resource.
func (h *APIHandlers) ListOperations(c fiber.Ctx) error {
	resources := make(fiber.Map, len(pf.Resources()))
	for _, r := range pf.Resources() {
		resources[string(r)] = r.Operations()
	}

	return c.JSON(fiber.Map{"resources": resources})
}
