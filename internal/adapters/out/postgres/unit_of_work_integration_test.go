package postgres_test

import (
	"context"
	"testing"

	postgres_adapter "opencourier/internal/adapters/out/postgres"
	"opencourier/internal/adapters/out/postgres/deliveryrepo"
	"opencourier/internal/adapters/out/postgres/userrepo"
	"opencourier/internal/core/domain/model/delivery"
	"opencourier/internal/core/ports"
	"opencourier/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based Unit of Work implementation with a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes the PostgreSQL container and database connection
// for all tests, and runs migrations to prepare the schema.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&deliveryrepo.DeliveryDTO{}, &deliveryrepo.BidDTO{}, &userrepo.ProfileDTO{})
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE deliveries, bids, profiles").Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up the PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.DeliveryRepository(), "First instance should provide delivery repository")
	suite.NotNil(uow1.UserRepository(), "First instance should provide user repository")
	suite.NotNil(uow2.DeliveryRepository(), "Second instance should provide delivery repository")
	suite.NotNil(uow2.UserRepository(), "Second instance should provide user repository")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitPersistsAcrossRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	aggregate := suite.newDelivery("delivery_tx_1")
	suite.Require().NoError(uow.DeliveryRepository().Add(ctx, aggregate))

	profile, err := uow.UserRepository().Get(ctx, "npub1courier")
	suite.Require().NoError(err)
	profile.CreditCancellation(5000)
	suite.Require().NoError(uow.UserRepository().Save(ctx, profile))

	suite.Require().NoError(uow.Commit(ctx))

	verify := suite.factory.Create()
	loaded, err := verify.DeliveryRepository().Get(ctx, "delivery_tx_1")
	suite.Require().NoError(err)
	suite.Equal(aggregate.Snapshot(), loaded.Snapshot())

	loadedProfile, err := verify.UserRepository().Get(ctx, "npub1courier")
	suite.Require().NoError(err)
	suite.Equal(uint64(5000), loadedProfile.TotalEarnings())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsChanges() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.DeliveryRepository().Add(ctx, suite.newDelivery("delivery_rb_1")))
	suite.Require().NoError(uow.Rollback(ctx))

	verify := suite.factory.Create()
	_, err := verify.DeliveryRepository().Get(ctx, "delivery_rb_1")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound, "Rolled back delivery should not exist")
}

func (suite *UnitOfWorkIntegrationTestSuite) newDelivery(id string) *delivery.Delivery {
	return delivery.RestoreDelivery(delivery.Snapshot{
		ID:          id,
		Sender:      "npub1sender",
		Pickup:      delivery.Location{Address: "12 Pickup Lane"},
		Dropoff:     delivery.Location{Address: "99 Dropoff Road"},
		Packages:    []delivery.Package{{Size: "small", Description: "documents"}},
		OfferAmount: 5000,
		TimeWindow:  "today 9-17",
		Status:      delivery.Open,
		Bids:        []delivery.Bid{},
		CreatedAt:   1700000000,
	})
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
