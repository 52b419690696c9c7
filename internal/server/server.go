// Package server assembles the Fiber app: middleware, error handling and
// the route table.
package server

import (
	"log/slog"
	"strings"

	"github.com/tomthedeveloper11/trucking/internal/audit"
	"github.com/tomthedeveloper11/trucking/internal/auth"
	"github.com/tomthedeveloper11/trucking/internal/customer"
	"github.com/tomthedeveloper11/trucking/internal/httperr"
	"github.com/tomthedeveloper11/trucking/internal/invoice"
	"github.com/tomthedeveloper11/trucking/internal/logger"
	"github.com/tomthedeveloper11/trucking/internal/models"
	"github.com/tomthedeveloper11/trucking/internal/summary"
	"github.com/tomthedeveloper11/trucking/internal/transaction"
	"github.com/tomthedeveloper11/trucking/internal/truck"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

type Options struct {
	JWTSecret   string
	CORSOrigins string // comma separated
}

// Deps are the services behind the routes.
type Deps struct {
	Transactions *transaction.Service
	Summary      *summary.Service
	Customers    customer.Store
	Trucks       truck.Store
	Invoices     *invoice.Service
	Audit        audit.Logs
}

func New(log *slog.Logger, opts Options, d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "trucking",
		ErrorHandler: httperr.Handler(log),
	})

	corsOrigins := strings.Split(opts.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.Middleware(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", auth.JWTMiddleware(opts.JWTSecret))
	adminOnly := auth.RequireRole(models.RoleAdmin)

	tx := api.Group("/transaction")

	// Truck transactions
	tx.Get("/truck", transaction.ListTruckTransactionsHandler(d.Transactions))
	tx.Post("/truck", transaction.CreateTransactionHandler(d.Transactions, models.TransactionTypeTruck))
	tx.Get("/truck/autocomplete", transaction.AutoCompleteHandler(d.Transactions))
	tx.Get("/truck/filter", transaction.FilterTruckTransactionsHandler(d.Transactions))
	tx.Get("/truck/customer/:customerId", transaction.ListTruckTransactionsByCustomerHandler(d.Transactions))
	tx.Get("/truck/by-truck/:truckId", transaction.ListTruckTransactionsByTruckHandler(d.Transactions))
	tx.Put("/truck/:id", transaction.EditTransactionHandler(d.Transactions, models.TransactionTypeTruck))

	// Truck additional transactions
	tx.Get("/truck-additional/by-truck/:truckId", transaction.ListTruckAdditionalTransactionsByTruckHandler(d.Transactions))
	tx.Post("/truck-additional", transaction.CreateTransactionHandler(d.Transactions, models.TransactionTypeTruckAdditional))
	tx.Put("/truck-additional/:id", transaction.EditTransactionHandler(d.Transactions, models.TransactionTypeTruckAdditional))

	// Summaries
	tx.Get("/summary", summary.OverviewHandler(d.Summary))
	tx.Get("/summary/trucks", summary.TrucksHandler(d.Summary))
	tx.Get("/summary/trucks/export", summary.ExportTrucksHandler(d.Summary))
	tx.Get("/summary/customers", summary.CustomersHandler(d.Summary))

	// Printing
	tx.Get("/all", transaction.ListAllTransactionsHandler(d.Transactions))
	tx.Post("/print", transaction.PrintTransactionsHandler(d.Transactions))
	tx.Put("/print-status", transaction.UpdatePrintStatusHandler(d.Transactions))

	// Additional (office) transactions
	tx.Get("/", transaction.ListAdditionalTransactionsHandler(d.Transactions))
	tx.Post("/", transaction.CreateTransactionHandler(d.Transactions, models.TransactionTypeAdditional))
	tx.Put("/:id", transaction.EditTransactionHandler(d.Transactions, models.TransactionTypeAdditional))
	tx.Delete("/:id", adminOnly, transaction.DeleteTransactionHandler(d.Transactions))

	// Customers
	api.Get("/customer", customer.ListCustomersHandler(d.Customers))
	api.Post("/customer", customer.CreateCustomerHandler(d.Customers, d.Transactions))
	api.Get("/customer/:id", customer.GetCustomerHandler(d.Customers))
	api.Put("/customer/:id", customer.UpdateCustomerHandler(d.Customers, d.Transactions))
	api.Delete("/customer/:id", customer.DeleteCustomerHandler(d.Customers, d.Transactions))

	// Trucks
	api.Get("/truck", truck.ListTrucksHandler(d.Trucks))
	api.Post("/truck", truck.CreateTruckHandler(d.Trucks))
	api.Get("/truck/:id", truck.GetTruckHandler(d.Trucks))
	api.Put("/truck/:id", truck.UpdateTruckHandler(d.Trucks))
	api.Delete("/truck/:id", truck.DeleteTruckHandler(d.Trucks))

	// Invoices
	api.Get("/invoice", invoice.ListInvoicesHandler(d.Invoices))
	api.Post("/invoice", invoice.CreateInvoiceHandler(d.Invoices))
	api.Get("/invoice/:id", invoice.GetInvoiceHandler(d.Invoices))
	api.Delete("/invoice/:id", invoice.DeleteInvoiceHandler(d.Invoices))

	// Audit logs
	logs := api.Group("/audit-logs", adminOnly)
	logs.Get("/", audit.ListAuditLogsHandler(d.Audit))
	logs.Post("/:id/undo", audit.UndoAuditLogHandler(d.Audit))

	return app
}
