package truck

import (
	"context"
	"strings"

	"github.com/tomthedeveloper11/trucking/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store interface {
	List(ctx context.Context) ([]models.Truck, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Truck, error)
	Create(ctx context.Context, t models.Truck) (models.Truck, error)
	Update(ctx context.Context, id primitive.ObjectID, t models.Truck) (models.Truck, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Input struct {
	Name       string `json:"name"`
	DriverName string `json:"driverName"`
	IsActive   *bool  `json:"isActive"` // defaults to true
}

func parseInput(c *fiber.Ctx) (models.Truck, error) {
	var body Input
	if err := c.BodyParser(&body); err != nil {
		return models.Truck{}, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	t := models.Truck{
		Name:       strings.ToUpper(strings.TrimSpace(body.Name)),
		DriverName: strings.TrimSpace(body.DriverName),
		IsActive:   true,
	}
	if body.IsActive != nil {
		t.IsActive = *body.IsActive
	}
	if t.Name == "" {
		return models.Truck{}, fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	return t, nil
}

// GET /api/truck
func ListTrucksHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := store.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": list})
	}
}

// GET /api/truck/:id
func GetTruckHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := models.ParseObjectID(c.Params("id"))
		if err != nil {
			return err
		}
		t, err := store.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": t})
	}
}

// POST /api/truck
func CreateTruckHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := parseInput(c)
		if err != nil {
			return err
		}
		created, err := store.Create(c.UserContext(), t)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": created})
	}
}

// PUT /api/truck/:id
func UpdateTruckHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := models.ParseObjectID(c.Params("id"))
		if err != nil {
			return err
		}
		t, err := parseInput(c)
		if err != nil {
			return err
		}
		updated, err := store.Update(c.UserContext(), id, t)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": updated})
	}
}

// DELETE /api/truck/:id
func DeleteTruckHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := models.ParseObjectID(c.Params("id"))
		if err != nil {
			return err
		}
		if err := store.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
