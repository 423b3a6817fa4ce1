package commands

import (
	"context"
	"log/slog"
	"time"
)

// SweepExpiredDeliveriesCommandHandler expires overdue Open deliveries. A
// delivery that fails to expire does not abort the sweep; the failure is
// logged and the remaining deliveries are still processed.
type SweepExpiredDeliveriesCommandHandler struct {
	uowFactory DeliveryUoWFactory
	logger     *slog.Logger
}

// NewSweepExpiredDeliveriesCommandHandler creates a handler for the expiry
// sweep.
func NewSweepExpiredDeliveriesCommandHandler(uowFactory DeliveryUoWFactory, logger *slog.Logger) SweepExpiredDeliveriesCommandHandler {
	return SweepExpiredDeliveriesCommandHandler{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

// Handle expires every Open delivery whose expiry time is in the past.
func (h *SweepExpiredDeliveriesCommandHandler) Handle(ctx context.Context, cmd SweepExpiredDeliveriesCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.DeliveryRepository()
	overdue, err := repo.GetAllOpenExpiredBefore(ctx, time.Now().Unix())
	if err != nil {
		return err
	}

	for _, aggregate := range overdue {
		if err := aggregate.Expire(); err != nil {
			h.logger.Warn("skipping delivery that cannot expire",
				"delivery_id", aggregate.ID(), "error", err)
			continue
		}
		if err := repo.Update(ctx, aggregate, nil); err != nil {
			h.logger.Error("failed to persist expired delivery",
				"delivery_id", aggregate.ID(), "error", err)
			continue
		}
	}

	return uow.Commit(ctx)
}
