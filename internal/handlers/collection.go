package handlers

import (
	"ajo/internal/models"
	collectionsvc "ajo/internal/services/collection"
	"ajo/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type CollectionHandler struct {
	collections collectionsvc.Service
}

func NewCollectionHandler(collections collectionsvc.Service) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

// Create sets up a new collection for the authenticated organizer.
func (h *CollectionHandler) Create(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.OrganizerClaims)

	var input collectionsvc.CreateInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	collection, err := h.collections.Create(c.Context(), claims.OrganizerID, input)
	if err != nil {
		return writeDomainError(c, err)
	}
	return response.Created(c, "Collection created", collection)
}

// List returns the organizer's collections.
func (h *CollectionHandler) List(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.OrganizerClaims)

	collections, err := h.collections.ListByOrganizer(c.Context(), claims.OrganizerID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return response.Success(c, "Collections", collections)
}

// Get returns one of the organizer's collections by id.
func (h *CollectionHandler) Get(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.OrganizerClaims)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid collection id")
	}

	collection, err := h.collections.GetByID(c.Context(), claims.OrganizerID, uint(id))
	if err != nil {
		return writeDomainError(c, err)
	}
	return response.Success(c, "Collection", collection)
}

// GetByShareCode is the public view of a collection: its status and
// the checkout quote for one participant.
func (h *CollectionHandler) GetByShareCode(c *fiber.Ctx) error {
	collection, err := h.collections.GetByShareCode(c.Context(), c.Params("code"))
	if err != nil {
		return writeDomainError(c, err)
	}

	quote, err := h.collections.Quote(collection)
	if err != nil {
		return writeDomainError(c, err)
	}

	return response.Success(c, "Collection", fiber.Map{
		"title":       collection.Title,
		"description": collection.Description,
		"status":      collection.Status,
		"deadline":    collection.Deadline,
		"currency":    collection.Currency,
		"quote":       quote,
	})
}

// Retire soft-deletes a collection; ledger history stays.
func (h *CollectionHandler) Retire(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.OrganizerClaims)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid collection id")
	}

	if err := h.collections.Retire(c.Context(), claims.OrganizerID, uint(id)); err != nil {
		return writeDomainError(c, err)
	}
	return response.Success(c, "Collection retired", nil)
}
