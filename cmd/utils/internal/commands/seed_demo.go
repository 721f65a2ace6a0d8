package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	bookingDatabase = "backoffice_booking"
	demoSeedID      = "demo_reservations_v1"
	demoMarker      = "seed:demo"
)

// SeedDemo inserts demo reservations covering every lifecycle status.
func SeedDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Info("Starting demo seeding process...")

	client, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Connected to MongoDB")

	db := client.Database(bookingDatabase)

	seedsCollection := db.Collection("_seeds")
	count, err := seedsCollection.CountDocuments(ctx, bson.M{"_id": demoSeedID})
	if err != nil {
		return fmt.Errorf("check seed status: %w", err)
	}
	if count > 0 {
		logger.Info("Demo seeds already applied, skipping")
		return nil
	}

	if err := seedDemoReservations(ctx, db, logger); err != nil {
		return fmt.Errorf("seed demo reservations: %w", err)
	}

	_, err = seedsCollection.InsertOne(ctx, bson.M{
		"_id":         demoSeedID,
		"description": "Create demo reservations across created, confirmed, checked-in and cancelled",
		"applied_at":  time.Now(),
	})
	if err != nil {
		logger.Infof("⚠️  Failed to mark seed as applied: %v", err)
	}

	logger.Info("Demo seeds applied successfully")
	return nil
}

func seedDemoReservations(ctx context.Context, db *mongo.Database, logger apt.Logger) error {
	tables := db.Collection("tables")
	reservations := db.Collection("reservations")

	type demoTable struct {
		id     string
		code   string
		zone   string
		status string
	}
	demoTables := []demoTable{
		{id: uuid.NewString(), code: "D1", zone: "demo", status: "open"},
		{id: uuid.NewString(), code: "D2", zone: "demo", status: "booked"},
		{id: uuid.NewString(), code: "D3", zone: "demo", status: "booked"},
		{id: uuid.NewString(), code: "D4", zone: "demo", status: "booked"},
	}

	now := time.Now()
	for _, t := range demoTables {
		_, err := tables.InsertOne(ctx, bson.M{
			"_id":        t.id,
			"code":       t.code,
			"zone":       t.zone,
			"status":     t.status,
			"created_at": now,
			"created_by": demoMarker,
			"updated_at": now,
			"updated_by": demoMarker,
		})
		if err != nil {
			return fmt.Errorf("insert demo table %s: %w", t.code, err)
		}
	}

	assignment := func(reservationID, tableID string) bson.M {
		return bson.M{
			"table_id":       tableID,
			"reservation_id": reservationID,
			"assigned_at":    now,
		}
	}

	pendingID := uuid.NewString()
	confirmedID := uuid.NewString()
	seatedID := uuid.NewString()
	cancelledID := uuid.NewString()

	demoReservations := []bson.M{
		{
			"_id":               pendingID,
			"customer_name":     "Nora Quist",
			"phone_number":      "+34600000001",
			"guest_count":       2,
			"booking_time":      now.Add(26 * time.Hour),
			"status":            "created",
			"staff_initiated":   false,
			"table_assignments": bson.A{},
		},
		{
			"_id":             confirmedID,
			"customer_name":   "Marco Duarte",
			"phone_number":    "+34600000002",
			"guest_count":     4,
			"booking_time":    now.Add(3 * time.Hour),
			"status":          "confirmed",
			"staff_initiated": true,
			"table_assignments": bson.A{
				assignment(confirmedID, demoTables[1].id),
			},
		},
		{
			"_id":             seatedID,
			"customer_name":   "Leila Haddad",
			"phone_number":    "+34600000003",
			"guest_count":     6,
			"booking_time":    now.Add(-1 * time.Hour),
			"status":          "checked-in",
			"staff_initiated": false,
			"table_assignments": bson.A{
				assignment(seatedID, demoTables[2].id),
				assignment(seatedID, demoTables[3].id),
			},
		},
		{
			"_id":               cancelledID,
			"customer_name":     "Pieter Vos",
			"phone_number":      "+34600000004",
			"guest_count":       3,
			"booking_time":      now.Add(50 * time.Hour),
			"status":            "cancelled",
			"staff_initiated":   false,
			"table_assignments": bson.A{},
		},
	}

	for _, r := range demoReservations {
		r["created_at"] = now
		r["created_by"] = demoMarker
		r["updated_at"] = now
		r["updated_by"] = demoMarker
		if _, err := reservations.InsertOne(ctx, r); err != nil {
			return fmt.Errorf("insert demo reservation %v: %w", r["customer_name"], err)
		}
	}

	logger.Info("Inserted demo data", "tables", len(demoTables), "reservations", len(demoReservations))
	return nil
}

func connect(ctx context.Context, config *apt.Config) (*mongo.Client, error) {
	mongoURL, _ := config.GetString("mongo.url")
	if mongoURL == "" {
		mongoURL = "mongodb://localhost:27017"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client, nil
}
