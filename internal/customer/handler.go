package customer

import (
	"context"
	"strings"

	"github.com/tomthedeveloper11/trucking/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is implemented by Repository.
type Store interface {
	List(ctx context.Context) ([]models.Customer, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Customer, error)
	Create(ctx context.Context, c models.Customer) (models.Customer, error)
	Update(ctx context.Context, id primitive.ObjectID, c models.Customer) (models.Customer, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AutoCompleteInvalidator drops cached suggestion lists that include
// customer initials.
type AutoCompleteInvalidator interface {
	InvalidateAutoComplete(ctx context.Context)
}

type Input struct {
	Name    string `json:"name"`
	Initial string `json:"initial"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func parseInput(c *fiber.Ctx) (models.Customer, error) {
	var body Input
	if err := c.BodyParser(&body); err != nil {
		return models.Customer{}, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	cust := models.Customer{
		Name:    strings.TrimSpace(body.Name),
		Initial: models.NormalizeInitial(body.Initial),
		Address: strings.TrimSpace(body.Address),
		Phone:   strings.TrimSpace(body.Phone),
	}
	if cust.Name == "" || cust.Initial == "" {
		return models.Customer{}, fiber.NewError(fiber.StatusBadRequest, "name and initial are required")
	}
	return cust, nil
}

// GET /api/customer
func ListCustomersHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := store.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": list})
	}
}

// GET /api/customer/:id
func GetCustomerHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := models.ParseObjectID(c.Params("id"))
		if err != nil {
			return err
		}
		cust, err := store.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": cust})
	}
}

// POST /api/customer
func CreateCustomerHandler(store Store, ac AutoCompleteInvalidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cust, err := parseInput(c)
		if err != nil {
			return err
		}

		created, err := store.Create(c.UserContext(), cust)
		if err != nil {
			return err
		}
		ac.InvalidateAutoComplete(c.UserContext())
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": created})
	}
}

// PUT /api/customer/:id
func UpdateCustomerHandler(store Store, ac AutoCompleteInvalidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := models.ParseObjectID(c.Params("id"))
		if err != nil {
			return err
		}
		cust, err := parseInput(c)
		if err != nil {
			return err
		}

		updated, err := store.Update(c.UserContext(), id, cust)
		if err != nil {
			return err
		}
		ac.InvalidateAutoComplete(c.UserContext())
		return c.JSON(fiber.Map{"data": updated})
	}
}

// DELETE /api/customer/:id
// Transactions keep their embedded initial.
func DeleteCustomerHandler(store Store, ac AutoCompleteInvalidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := models.ParseObjectID(c.Params("id"))
		if err != nil {
			return err
		}
		if err := store.Delete(c.UserContext(), id); err != nil {
			return err
		}
		ac.InvalidateAutoComplete(c.UserContext())
		return c.SendStatus(fiber.StatusNoContent)
	}
}
