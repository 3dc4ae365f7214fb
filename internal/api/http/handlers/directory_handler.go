package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/roster-service/internal/api/dto"
	"github.com/spec-kit/roster-service/internal/service"
)

// DirectoryHandler serves the state and LGA reference data.
type DirectoryHandler struct {
	directory *service.DirectoryService
}

// NewDirectoryHandler constructs the handler.
func NewDirectoryHandler(directory *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// ListStates GET /states.
func (h *DirectoryHandler) ListStates(c *fiber.Ctx) error {
	states, err := h.directory.ListStates(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.StateResponse, 0, len(states))
	for _, state := range states {
		items = append(items, dto.StateResponse{ID: state.ID, Name: state.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListLGAs GET /states/:id/lgas.
func (h *DirectoryHandler) ListLGAs(c *fiber.Ctx) error {
	stateID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	lgas, err := h.directory.ListLGAs(c.Context(), stateID)
	if err != nil {
		return err
	}
	items := make([]dto.LGAResponse, 0, len(lgas))
	for _, lga := range lgas {
		items = append(items, dto.LGAResponse{ID: lga.ID, Name: lga.Name, StateID: lga.StateID})
	}
	return c.JSON(fiber.Map{"data": items})
}
