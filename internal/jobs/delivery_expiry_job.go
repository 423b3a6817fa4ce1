package jobs

import (
	"context"
	"log/slog"

	"opencourier/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ExpirySweepSchedule runs the sweep once a minute. Expiry has second
// resolution in the data but minute resolution is plenty for a marketplace
// deadline.
const ExpirySweepSchedule = "0 * * * * *"

// DeliveryExpiryJob manages the scheduled expiry of stale open deliveries.
// Runs every minute to expire open deliveries whose deadline has passed.
type DeliveryExpiryJob struct {
	handler commands.SweepExpiredDeliveriesCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewDeliveryExpiryJob creates a new job for expiring stale deliveries.
// Uses SweepExpiredDeliveriesCommandHandler to process the sweep.
func NewDeliveryExpiryJob(handler commands.SweepExpiredDeliveriesCommandHandler, logger *slog.Logger) *DeliveryExpiryJob {
	return &DeliveryExpiryJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "delivery_expiry_job"),
	}
}

// Start begins the expiry sweep on its schedule.
func (j *DeliveryExpiryJob) Start() error {
	_, err := j.cron.AddFunc(ExpirySweepSchedule, func() {
		ctx := context.Background()
		cmd := commands.NewSweepExpiredDeliveriesCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Delivery expiry sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Delivery expiry job started (running every minute)")
	return nil
}

// Stop stops the expiry job.
func (j *DeliveryExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Delivery expiry job stopped")
}
