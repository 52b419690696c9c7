package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tomthedeveloper11/trucking/internal/config"
	"github.com/tomthedeveloper11/trucking/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	// DB holds the relational audit log.
	DB *gorm.DB
	// Mongo holds transactions, customers, trucks and invoices.
	Mongo *mongo.Database

	mongoClient *mongo.Client
)

func Init(ctx context.Context, cfg *config.Config) error {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	if err := DB.AutoMigrate(&models.AuditLog{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	mongoClient, err = mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	if err := mongoClient.Ping(connectCtx, nil); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	Mongo = mongoClient.Database(cfg.MongoDatabase)

	if err := ensureIndexes(connectCtx, Mongo); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	slog.Info("databases connected", "mongo_database", cfg.MongoDatabase)
	return nil
}

func Close(ctx context.Context) {
	if mongoClient != nil {
		if err := mongoClient.Disconnect(ctx); err != nil {
			slog.Error("mongo disconnect failed", "error", err)
		}
	}
	if DB != nil {
		if sqlDB, err := DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		models.TransactionCollection: {
			{Keys: bson.D{{Key: "transactionType", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "truckId", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "customer.customerId", Value: 1}, {Key: "date", Value: -1}}},
		},
		models.CustomerCollection: {
			{Keys: bson.D{{Key: "initial", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		models.InvoiceCollection: {
			{Keys: bson.D{{Key: "invoiceNo", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for coll, idx := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("%s: %w", coll, err)
		}
	}
	return nil
}
