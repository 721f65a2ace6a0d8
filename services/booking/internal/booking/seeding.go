package booking

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"
	"go.mongodb.org/mongo-driver/mongo"
)

const bookingSeedApplication = "booking"

type bootstrapSeedDocument struct {
	Tables []tableSeed `json:"tables"`
}

type tableSeed struct {
	Code   string `json:"code"`
	Zone   string `json:"zone"`
	Status string `json:"status"`
}

func loadTableSeeds(seedFS embed.FS) ([]tableSeed, error) {
	seedBytes, err := seedFS.ReadFile("seed.json")
	if err != nil {
		return nil, fmt.Errorf("read seed.json: %w", err)
	}

	if len(seedBytes) == 0 {
		return nil, errors.New("booking seed file is empty")
	}

	var doc bootstrapSeedDocument
	if err := json.Unmarshal(seedBytes, &doc); err != nil {
		return nil, fmt.Errorf("decode booking seed file: %w", err)
	}

	if len(doc.Tables) == 0 {
		return nil, errors.New("booking seed file does not contain tables")
	}

	return doc.Tables, nil
}

// ApplyTableSeeds ensures all predefined tables exist.
func ApplyTableSeeds(ctx context.Context, repo TableRepo, seedFS embed.FS, logger apt.Logger) error {
	if repo == nil {
		return errors.New("table repository is required")
	}

	seedDocs, err := loadTableSeeds(seedFS)
	if err != nil {
		return err
	}

	seedDefs, err := buildTableSeedDefinitions(seedDocs, repo, logger)
	if err != nil {
		return err
	}
	if len(seedDefs) == 0 {
		logger.Info("No table seeds to apply")
		return nil
	}

	tracker, err := trackerFromRepo(repo)
	if err != nil {
		return err
	}

	logger.Info("Applying table seeds")
	if err := seed.Apply(ctx, tracker, seedDefs, bookingSeedApplication); err != nil {
		return err
	}
	logger.Info("Table seeds applied successfully")
	return nil
}

func trackerFromRepo(repo TableRepo) (seed.Tracker, error) {
	provider, ok := repo.(mongoDatabaseProvider)
	if !ok {
		return nil, errors.New("table repository does not expose MongoDB access for seeding")
	}
	db := provider.GetDatabase()
	if db == nil {
		return nil, errors.New("table repository database is not initialized")
	}
	return seed.NewMongoTracker(db), nil
}

type mongoDatabaseProvider interface {
	GetDatabase() *mongo.Database
}

func buildTableSeedDefinitions(raw []tableSeed, repo TableRepo, logger apt.Logger) ([]seed.Seed, error) {
	var defs []seed.Seed

	for _, s := range raw {
		seedData := s
		if strings.TrimSpace(seedData.Code) == "" {
			logger.Info("Skipping seed table with empty code")
			continue
		}

		logger.Info("Including seed table", "code", seedData.Code, "zone", seedData.Zone, "status", seedData.Status)

		seedID := fmt.Sprintf("2026-08-20_table_%s", seedIdentifier(seedData.Code))
		description := fmt.Sprintf("Ensure table %s exists", seedData.Code)

		defs = append(defs, seed.Seed{
			ID:          seedID,
			Description: description,
			Run: func(ctx context.Context) error {
				return seedData.ensureTable(ctx, repo, logger)
			},
		})
	}

	return defs, nil
}

func seedIdentifier(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}

	replacer := strings.NewReplacer("-", "_", " ", "_", "/", "_", "\\", "_")
	value = replacer.Replace(value)

	var builder strings.Builder
	for _, r := range value {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			builder.WriteRune(r)
		}
	}

	result := builder.String()
	if result == "" {
		return "seed"
	}
	return result
}

func (s tableSeed) ensureTable(ctx context.Context, repo TableRepo, logger apt.Logger) error {
	code := strings.TrimSpace(s.Code)
	if code == "" {
		return errors.New("table code is required")
	}

	existing, err := repo.GetByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("lookup seed table %s: %w", code, err)
	}
	if existing != nil {
		logger.Info("Seed table already exists", "code", code)
		return nil
	}

	table := NewTable()
	table.Code = code
	table.Zone = s.Zone
	if s.Status != "" {
		table.Status = s.Status
	}
	table.CreatedBy = "seed:bootstrap"
	table.UpdatedBy = "seed:bootstrap"
	table.BeforeCreate()

	if err := repo.Create(ctx, table); err != nil {
		return fmt.Errorf("create seed table %s: %w", code, err)
	}

	logger.Info("Seed table created", "code", code, "id", table.ID.String())
	return nil
}

// SeedingFunc returns a lifecycle OnStart-compatible function which starts
// applying table seeds in the background.
func SeedingFunc(seedCtx context.Context, repo TableRepo, seedFS embed.FS, logger apt.Logger) func(ctx context.Context) error {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	return func(ctx context.Context) error {
		logger.Info("Starting booking table seeding in background")
		go func() {
			if err := ApplyTableSeeds(seedCtx, repo, seedFS, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("❌ Booking table seeds failed: %v", err)
			} else if err == nil {
				logger.Info("✓ Booking table seeding completed successfully")
			}
		}()
		return nil
	}
}

// StopFunc returns a lifecycle OnStop-compatible function which calls the
// provided cancel function to stop any background seeding goroutine.
func StopFunc(cancelFunc context.CancelFunc) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if cancelFunc != nil {
			cancelFunc()
		}
		return nil
	}
}
