package transaction

import (
	"time"

	"github.com/tomthedeveloper11/trucking/internal/auth"
	"github.com/tomthedeveloper11/trucking/internal/autocomplete"
	"github.com/tomthedeveloper11/trucking/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PrintRequest struct {
	TransactionIDs []string `json:"transactionIds"`
}

type PrintStatusRequest struct {
	TransactionIDs []string `json:"transactionIds"`
	Type           string   `json:"type"` // "bon" or "invoice"
}

func queryRange(c *fiber.Ctx) (models.DateRange, error) {
	return models.ParseDateRange(c.Query("startDate"), c.Query("endDate"), time.Now())
}

// maskList hides selling prices from callers whose role may not see them.
func maskList[T models.Transaction | models.TruckTransaction](c *fiber.Ctx, txs []T) []T {
	role := auth.ActorFrom(c).Role
	switch v := any(txs).(type) {
	case []models.Transaction:
		models.MaskTransactions(role, v)
	case []models.TruckTransaction:
		models.MaskTruckViews(role, v)
	}
	return txs
}

func parsePayload(c *fiber.Ctx) (Payload, error) {
	var p Payload
	if err := c.BodyParser(&p); err != nil {
		return Payload{}, fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	return p, nil
}

// GET /api/transaction/truck
func ListTruckTransactionsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		txs, err := svc.TruckTransactions(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": maskList(c, txs)})
	}
}

// GET /api/transaction?startDate=...&endDate=...
// Additional (office) transactions only.
func ListAdditionalTransactionsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rng, err := queryRange(c)
		if err != nil {
			return err
		}
		txs, err := svc.AdditionalTransactions(c.UserContext(), rng)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": maskList(c, txs)})
	}
}

// GET /api/transaction/all?startDate=...&endDate=...
func ListAllTransactionsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rng, err := queryRange(c)
		if err != nil {
			return err
		}
		txs, err := svc.AllTransactions(c.UserContext(), rng)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": maskList(c, txs)})
	}
}

// GET /api/transaction/truck/customer/:customerId?startDate=...&endDate=...
func ListTruckTransactionsByCustomerHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rng, err := queryRange(c)
		if err != nil {
			return err
		}
		txs, err := svc.TruckTransactionsByCustomerID(c.UserContext(), c.Params("customerId"), rng)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": maskList(c, txs)})
	}
}

// GET /api/transaction/truck/by-truck/:truckId?startDate=...&endDate=...
func ListTruckTransactionsByTruckHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rng, err := queryRange(c)
		if err != nil {
			return err
		}
		txs, err := svc.TruckTransactionsByTruckID(c.UserContext(), c.Params("truckId"), rng)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": maskList(c, txs)})
	}
}

// GET /api/transaction/truck-additional/by-truck/:truckId?startDate=...&endDate=...
func ListTruckAdditionalTransactionsByTruckHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rng, err := queryRange(c)
		if err != nil {
			return err
		}
		txs, err := svc.TruckAdditionalTransactionsByTruckID(c.UserContext(), c.Params("truckId"), rng)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": maskList(c, txs)})
	}
}

// GET /api/transaction/truck/filter?containerNo=&invoiceNo=&destination=&customer=&truckId=&startDate=&endDate=
func FilterTruckTransactionsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := FilterQuery{
			ContainerNo: c.Query("containerNo"),
			InvoiceNo:   c.Query("invoiceNo"),
			Destination: c.Query("destination"),
			Customer:    c.Query("customer"),
			TruckID:     c.Query("truckId"),
		}
		if c.Query("startDate") != "" || c.Query("endDate") != "" {
			rng, err := queryRange(c)
			if err != nil {
				return err
			}
			q.Range = &rng
		}

		txs, err := svc.FilterTruckTransactions(c.UserContext(), q)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": maskList(c, txs)})
	}
}

// POST /api/transaction/truck
// POST /api/transaction/truck-additional
// POST /api/transaction
func CreateTransactionHandler(svc *Service, kind models.TransactionType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := parsePayload(c)
		if err != nil {
			return err
		}

		tx, err := svc.Create(c.UserContext(), auth.ActorFrom(c), kind, p)
		if err != nil {
			return err
		}

		role := auth.ActorFrom(c).Role
		if kind == models.TransactionTypeTruck {
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": tx.TruckView().MaskedFor(role)})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": tx.MaskedFor(role)})
	}
}

// PUT /api/transaction/truck/:id
// PUT /api/transaction/truck-additional/:id
// PUT /api/transaction/:id
func EditTransactionHandler(svc *Service, kind models.TransactionType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := parsePayload(c)
		if err != nil {
			return err
		}

		tx, err := svc.Edit(c.UserContext(), auth.ActorFrom(c), kind, c.Params("id"), p)
		if err != nil {
			return err
		}

		role := auth.ActorFrom(c).Role
		if kind == models.TransactionTypeTruck {
			return c.JSON(fiber.Map{"data": tx.TruckView().MaskedFor(role)})
		}
		return c.JSON(fiber.Map{"data": tx.MaskedFor(role)})
	}
}

// DELETE /api/transaction/:id
func DeleteTransactionHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := auth.ActorFrom(c)
		tx, err := svc.Delete(c.UserContext(), actor, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": tx.MaskedFor(actor.Role)})
	}
}

// POST /api/transaction/print
func PrintTransactionsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PrintRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		txs, err := svc.Print(c.UserContext(), body.TransactionIDs)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": maskList(c, txs)})
	}
}

// PUT /api/transaction/print-status
func UpdatePrintStatusHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PrintStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.Type != PrintBon && body.Type != PrintInvoice {
			return fiber.NewError(fiber.StatusBadRequest, "type must be 'bon' or 'invoice'")
		}

		n, err := svc.UpdatePrintStatus(c.UserContext(), body.TransactionIDs, body.Type)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": fiber.Map{"matched": n}})
	}
}

// GET /api/transaction/truck/autocomplete
// GET /api/transaction/truck/autocomplete?field=destination&keyword=pri
func AutoCompleteHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := svc.AutoComplete(c.UserContext())
		if err != nil {
			return err
		}

		field := c.Query("field")
		if field == "" {
			return c.JSON(fiber.Map{"data": data})
		}
		return c.JSON(fiber.Map{"data": autocomplete.Filter(data, field, c.Query("keyword"))})
	}
}
