package invoice

import (
	"time"

	"github.com/tomthedeveloper11/trucking/internal/auth"
	"github.com/tomthedeveloper11/trucking/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/invoice?startDate=...&endDate=...
func ListInvoicesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rng, err := models.ParseDateRange(c.Query("startDate"), c.Query("endDate"), time.Now())
		if err != nil {
			return err
		}
		list, err := svc.List(c.UserContext(), rng)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": models.MaskInvoices(auth.ActorFrom(c).Role, list)})
	}
}

// GET /api/invoice/:id
func GetInvoiceHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		inv, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": inv.MaskedFor(auth.ActorFrom(c).Role)})
	}
}

// POST /api/invoice
func CreateInvoiceHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		inv, err := svc.Create(c.UserContext(), body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": inv.MaskedFor(auth.ActorFrom(c).Role)})
	}
}

// DELETE /api/invoice/:id
func DeleteInvoiceHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		inv, err := svc.Delete(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": inv.MaskedFor(auth.ActorFrom(c).Role)})
	}
}
