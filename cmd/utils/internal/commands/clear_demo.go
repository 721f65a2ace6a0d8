package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"go.mongodb.org/mongo-driver/bson"
)

// ClearDemo removes every document inserted by the demo seed.
func ClearDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Info("Clearing demo data...")

	client, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	db := client.Database(bookingDatabase)

	filter := bson.M{"created_by": demoMarker}

	reservations, err := db.Collection("reservations").DeleteMany(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete demo reservations: %w", err)
	}

	tables, err := db.Collection("tables").DeleteMany(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete demo tables: %w", err)
	}

	if _, err := db.Collection("_seeds").DeleteOne(ctx, bson.M{"_id": demoSeedID}); err != nil {
		logger.Infof("⚠️  Failed to remove seed marker: %v", err)
	}

	logger.Info("Demo data removed", "reservations", reservations.DeletedCount, "tables", tables.DeletedCount)
	return nil
}
