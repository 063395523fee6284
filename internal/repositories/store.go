package repositories

import (
	"context"
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"productsvc/internal/config"
)

// Store owns the connection to the backing store and the repository built on it.
// It is opened once at startup and closed on shutdown.
type Store struct {
	Products ProductRepository

	driver string
	ping   func(ctx context.Context) error
	close  func(ctx context.Context) error
}

// Open connects to the configured store and verifies it is reachable.
// Callers must Close the returned Store.
func Open(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	switch cfg.Driver {
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	case config.DriverPostgres:
		return openGORM(ctx, cfg.Driver, postgres.Open(cfg.DSN))
	case config.DriverSQLite:
		return openGORM(ctx, cfg.Driver, sqlite.Open(cfg.DSN))
	case config.DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// NewMemoryStore returns a Store backed by a MemoryProductRepository.
func NewMemoryStore() *Store {
	return &Store{
		Products: NewMemoryProductRepository(),
		driver:   config.DriverMemory,
		ping:     func(context.Context) error { return nil },
		close:    func(context.Context) error { return nil },
	}
}

// NewGORMStore wraps an open GORM connection, migrating the products table.
func NewGORMStore(ctx context.Context, driver string, db *gorm.DB) (*Store, error) {
	repo := NewGORMProductRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}

	return &Store{
		Products: repo,
		driver:   driver,
		ping:     sqlDB.PingContext,
		close:    func(context.Context) error { return sqlDB.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to reach MongoDB: %w", err)
	}

	repo := NewMongoProductRepository(client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection))
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Store{
		Products: repo,
		driver:   config.DriverMongo,
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: client.Disconnect,
	}, nil
}

func openGORM(ctx context.Context, driver string, dialector gorm.Dialector) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	if err := db.Use(otelgorm.NewPlugin()); err != nil {
		return nil, fmt.Errorf("failed to setup otel plugin: %w", err)
	}

	store, err := NewGORMStore(ctx, driver, db)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	if err := store.Ping(ctx); err != nil {
		_ = store.Close(context.Background())
		return nil, fmt.Errorf("failed to reach %s database: %w", driver, err)
	}
	return store, nil
}

// Driver names the store driver in use.
func (s *Store) Driver() string {
	return s.driver
}

// Ping checks that the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the store connection.
func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}
