package handlers

import (
	"log"
	"strings"

	"grocer/internal/models"
	"grocer/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AddressHandler handles HTTP requests for the user's addresses.
type AddressHandler struct {
	addressService *services.AddressService
	validate       *validator.Validate
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(addressService *services.AddressService) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the address routes. All require authentication.
func (h *AddressHandler) RegisterRoutes(router fiber.Router) {
	addressRoutes := router.Group("/addresses")
	addressRoutes.Get("/", h.HandleListAddresses)
	addressRoutes.Post("/", h.HandleCreateAddress)
	addressRoutes.Get("/default/:type", h.HandleGetDefault)
	addressRoutes.Patch("/:id", h.HandleUpdateAddress)
	addressRoutes.Delete("/:id", h.HandleDeleteAddress)
	addressRoutes.Post("/:id/default", h.HandleSetDefault)
}

// HandleListAddresses retrieves the user's addresses, defaults first.
func (h *AddressHandler) HandleListAddresses(c *fiber.Ctx) error {
	list, err := h.addressService.List(currentUserID(c))
	if err != nil {
		log.Printf("Error listing addresses for user %d: %v", currentUserID(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve addresses",
		})
	}
	return c.JSON(list)
}

// HandleCreateAddress adds a new address for the user.
func (h *AddressHandler) HandleCreateAddress(c *fiber.Ctx) error {
	var address models.Address
	if err := c.BodyParser(&address); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(address); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.addressService.Create(currentUserID(c), &address); err != nil {
		log.Printf("Error creating address: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create address",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(address)
}

// HandleUpdateAddress applies a partial update to an address.
func (h *AddressHandler) HandleUpdateAddress(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid address id"})
	}

	var upd services.AddressUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(upd); err != nil {
		return validationErrorResponse(c, err)
	}

	address, err := h.addressService.Update(id, currentUserID(c), upd)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Address not found"})
		}
		log.Printf("Error updating address %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update address",
		})
	}
	return c.JSON(address)
}

// HandleDeleteAddress removes an address.
func (h *AddressHandler) HandleDeleteAddress(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid address id"})
	}

	if err := h.addressService.Delete(id, currentUserID(c)); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Address not found"})
		}
		log.Printf("Error deleting address %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete address",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleGetDefault retrieves the default address of the given type.
func (h *AddressHandler) HandleGetDefault(c *fiber.Ctx) error {
	addrType := models.AddressType(strings.ToUpper(c.Params("type")))
	if addrType != models.AddressShipping && addrType != models.AddressBilling {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid address type"})
	}

	address, err := h.addressService.GetDefault(currentUserID(c), addrType)
	if err != nil {
		if strings.Contains(err.Error(), "no default") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "No default address"})
		}
		log.Printf("Error getting default %s address: %v", addrType, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve default address",
		})
	}
	return c.JSON(address)
}

// HandleSetDefault marks an address as the default of its type.
func (h *AddressHandler) HandleSetDefault(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid address id"})
	}

	address, err := h.addressService.SetDefault(id, currentUserID(c))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Address not found"})
		}
		log.Printf("Error setting default address %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not set default address",
		})
	}
	return c.JSON(address)
}
