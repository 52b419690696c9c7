package summary

import (
	"fmt"
	"time"

	"github.com/tomthedeveloper11/trucking/internal/auth"
	"github.com/tomthedeveloper11/trucking/internal/models"

	"github.com/gofiber/fiber/v2"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func queryRange(c *fiber.Ctx) (models.DateRange, error) {
	return models.ParseDateRange(c.Query("startDate"), c.Query("endDate"), time.Now())
}

// GET /api/transaction/summary?startDate=...&endDate=...
func OverviewHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rng, err := queryRange(c)
		if err != nil {
			return err
		}
		o, err := svc.Overview(c.UserContext(), rng, auth.ActorFrom(c).Role)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": o})
	}
}

// GET /api/transaction/summary/trucks?startDate=...&endDate=...
func TrucksHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rng, err := queryRange(c)
		if err != nil {
			return err
		}
		groups, err := svc.Trucks(c.UserContext(), rng, auth.ActorFrom(c).Role)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": groups})
	}
}

// GET /api/transaction/summary/customers?startDate=...&endDate=...
func CustomersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rng, err := queryRange(c)
		if err != nil {
			return err
		}
		groups, err := svc.Customers(c.UserContext(), rng, auth.ActorFrom(c).Role)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": groups})
	}
}

// GET /api/transaction/summary/trucks/export?startDate=...&endDate=...
func ExportTrucksHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rng, err := queryRange(c)
		if err != nil {
			return err
		}
		buf, err := svc.ExportTrucks(c.UserContext(), rng, auth.ActorFrom(c).Role)
		if err != nil {
			return err
		}

		fileName := fmt.Sprintf("truck-summary_%s_%s.xlsx", rng.Start.Format("20060102"), rng.End.Format("20060102"))
		c.Set(fiber.HeaderContentType, xlsxMIME)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
		return c.Send(buf.Bytes())
	}
}
