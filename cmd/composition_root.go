package cmd

import (
	"fmt"
	"log/slog"
	"time"

	adapter "opencourier/internal/adapters/in/http"
	"opencourier/internal/adapters/out/memstore"
	"opencourier/internal/adapters/out/nostrlog"
	"opencourier/internal/adapters/out/postgres"
	"opencourier/internal/adapters/out/postgres/deliveryrepo"
	"opencourier/internal/adapters/out/postgres/userrepo"
	"opencourier/internal/core/application/usecases/commands"
	"opencourier/internal/core/application/usecases/queries"
	"opencourier/internal/core/ports"

	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CompositionRoot wires the configured storage backend into the command and
// query handlers. The read-side repositories are standalone instances so the
// query handlers never pass through a unit of work.
type CompositionRoot struct {
	logger *slog.Logger

	uowFactory       ports.UnitOfWorkFactory
	deliveryReadRepo ports.DeliveryRepository
	userReadRepo     ports.UserRepository
}

// NewCompositionRoot builds the dependency graph for the configured backend.
func NewCompositionRoot(config Config, logger *slog.Logger) (*CompositionRoot, error) {
	root := &CompositionRoot{logger: logger}

	switch config.Backend {
	case BackendMemory:
		store := memstore.NewStore()
		root.uowFactory = memstore.NewUnitOfWorkFactory(store)
		root.deliveryReadRepo = memstore.NewDeliveryRepository(store)
		root.userReadRepo = memstore.NewUserRepository(store)

	case BackendNostr:
		client, err := nostrlog.NewClient(config.RelayURLs, config.NostrSecretKey,
			time.Duration(config.QueryTimeoutSeconds)*time.Second, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create event log client: %w", err)
		}
		root.uowFactory = nostrlog.NewUnitOfWorkFactory(client)
		root.deliveryReadRepo = nostrlog.NewDeliveryRepository(client)
		root.userReadRepo = nostrlog.NewUserRepository(client)

	case BackendPostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			config.DBHost, config.DBPort, config.DBUser, config.DBPassword,
			config.DBName, config.DBSslMode)
		db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.AutoMigrate(&deliveryrepo.DeliveryDTO{}, &deliveryrepo.BidDTO{},
			&userrepo.ProfileDTO{}); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		factory := postgres.NewGormUnitOfWorkFactory(db)
		root.uowFactory = factory
		// Outside a transaction these repositories run on the main connection.
		root.deliveryReadRepo = factory.Create().DeliveryRepository()
		root.userReadRepo = factory.Create().UserRepository()

	default:
		return nil, fmt.Errorf("unknown backend %q", config.Backend)
	}

	return root, nil
}

func (c *CompositionRoot) CreateCreateDeliveryCommandHandler() commands.CreateDeliveryCommandHandler {
	return commands.NewCreateDeliveryCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreateUpdateDeliveryCommandHandler() commands.UpdateDeliveryCommandHandler {
	return commands.NewUpdateDeliveryCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreateExpireDeliveryCommandHandler() commands.ExpireDeliveryCommandHandler {
	return commands.NewExpireDeliveryCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreatePlaceBidCommandHandler() commands.PlaceBidCommandHandler {
	return commands.NewPlaceBidCommandHandler(c.fullUoWFactory())
}

func (c *CompositionRoot) CreateAcceptBidCommandHandler() commands.AcceptBidCommandHandler {
	return commands.NewAcceptBidCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreateSetStatusCommandHandler() commands.SetStatusCommandHandler {
	return commands.NewSetStatusCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreateCancelDeliveryCommandHandler() commands.CancelDeliveryCommandHandler {
	return commands.NewCancelDeliveryCommandHandler(c.fullUoWFactory())
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.fullUoWFactory())
}

func (c *CompositionRoot) CreateUpdateProfileCommandHandler() commands.UpdateProfileCommandHandler {
	return commands.NewUpdateProfileCommandHandler(c.userUoWFactory())
}

func (c *CompositionRoot) CreateSweepExpiredDeliveriesCommandHandler() commands.SweepExpiredDeliveriesCommandHandler {
	return commands.NewSweepExpiredDeliveriesCommandHandler(c.deliveryUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateListDeliveriesQueryHandler() queries.ListDeliveriesQueryHandler {
	return queries.NewListDeliveriesQueryHandler(c.deliveryReadRepo)
}

func (c *CompositionRoot) CreateGetDeliveryQueryHandler() queries.GetDeliveryQueryHandler {
	return queries.NewGetDeliveryQueryHandler(c.deliveryReadRepo)
}

func (c *CompositionRoot) CreateGetUserQueryHandler() queries.GetUserQueryHandler {
	return queries.NewGetUserQueryHandler(c.userReadRepo)
}

// CreateServer assembles the HTTP server from all handlers.
func (c *CompositionRoot) CreateServer() *adapter.Server {
	return adapter.NewServer(
		c.CreateCreateDeliveryCommandHandler(),
		c.CreateUpdateDeliveryCommandHandler(),
		c.CreateExpireDeliveryCommandHandler(),
		c.CreatePlaceBidCommandHandler(),
		c.CreateAcceptBidCommandHandler(),
		c.CreateSetStatusCommandHandler(),
		c.CreateCancelDeliveryCommandHandler(),
		c.CreateCompleteDeliveryCommandHandler(),
		c.CreateConfirmDeliveryCommandHandler(),
		c.CreateUpdateProfileCommandHandler(),
		c.CreateListDeliveriesQueryHandler(),
		c.CreateGetDeliveryQueryHandler(),
		c.CreateGetUserQueryHandler(),
	)
}

func (c *CompositionRoot) deliveryUoWFactory() commands.DeliveryUoWFactory {
	return FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) userUoWFactory() commands.UserUoWFactory {
	return FuncUserUoWFactory(func() commands.UserUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncUserUoWFactory func() commands.UserUoW

func (f FuncUserUoWFactory) Create() commands.UserUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
