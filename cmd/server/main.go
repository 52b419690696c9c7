package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomthedeveloper11/trucking/internal/audit"
	"github.com/tomthedeveloper11/trucking/internal/cache"
	"github.com/tomthedeveloper11/trucking/internal/config"
	"github.com/tomthedeveloper11/trucking/internal/customer"
	"github.com/tomthedeveloper11/trucking/internal/database"
	"github.com/tomthedeveloper11/trucking/internal/invoice"
	"github.com/tomthedeveloper11/trucking/internal/logger"
	"github.com/tomthedeveloper11/trucking/internal/server"
	"github.com/tomthedeveloper11/trucking/internal/summary"
	"github.com/tomthedeveloper11/trucking/internal/transaction"
	"github.com/tomthedeveloper11/trucking/internal/truck"
)

func main() {
	cfg := config.Load()

	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Init(ctx, cfg); err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	autoCompleteCache := cache.New(ctx, cfg.RedisAddr, cfg.AutoCompleteCacheTTL)

	txRepo := transaction.NewRepository(database.Mongo)
	customerRepo := customer.NewRepository(database.Mongo)
	truckRepo := truck.NewRepository(database.Mongo)

	auditSvc := audit.NewService(database.DB)
	txSvc := transaction.NewService(txRepo, customerRepo, auditSvc, autoCompleteCache)
	auditSvc.Register(transaction.EntityType, txSvc.AuditStore())

	app := server.New(log, server.Options{
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
	}, server.Deps{
		Transactions: txSvc,
		Summary:      summary.NewService(txRepo, truckRepo),
		Customers:    customerRepo,
		Trucks:       truckRepo,
		Invoices:     invoice.NewService(invoice.NewRepository(database.Mongo), txRepo),
		Audit:        auditSvc,
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	log.Info("server listening", "port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Error("server stopped", "error", err)
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := autoCompleteCache.Close(); err != nil {
		log.Warn("redis close failed", "error", err)
	}
	database.Close(closeCtx)
}
