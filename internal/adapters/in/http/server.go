// Package http implements the REST adapter. It translates JSON requests into
// commands and queries, and maps domain errors onto HTTP status codes.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"opencourier/internal/core/application/usecases/commands"
	"opencourier/internal/core/application/usecases/queries"
	"opencourier/internal/core/domain/model/delivery"
	"opencourier/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server implements the HTTP handlers. It coordinates between HTTP requests
// and application use cases.
type Server struct {
	// Command handlers
	createDeliveryHandler   commands.CreateDeliveryCommandHandler
	updateDeliveryHandler   commands.UpdateDeliveryCommandHandler
	expireDeliveryHandler   commands.ExpireDeliveryCommandHandler
	placeBidHandler         commands.PlaceBidCommandHandler
	acceptBidHandler        commands.AcceptBidCommandHandler
	setStatusHandler        commands.SetStatusCommandHandler
	cancelDeliveryHandler   commands.CancelDeliveryCommandHandler
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler
	confirmDeliveryHandler  commands.ConfirmDeliveryCommandHandler
	updateProfileHandler    commands.UpdateProfileCommandHandler

	// Query handlers
	listDeliveriesHandler queries.ListDeliveriesQueryHandler
	getDeliveryHandler    queries.GetDeliveryQueryHandler
	getUserHandler        queries.GetUserQueryHandler
}

// NewServer creates a new HTTP server with the required command and query
// handlers.
func NewServer(
	createDeliveryHandler commands.CreateDeliveryCommandHandler,
	updateDeliveryHandler commands.UpdateDeliveryCommandHandler,
	expireDeliveryHandler commands.ExpireDeliveryCommandHandler,
	placeBidHandler commands.PlaceBidCommandHandler,
	acceptBidHandler commands.AcceptBidCommandHandler,
	setStatusHandler commands.SetStatusCommandHandler,
	cancelDeliveryHandler commands.CancelDeliveryCommandHandler,
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler,
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler,
	updateProfileHandler commands.UpdateProfileCommandHandler,
	listDeliveriesHandler queries.ListDeliveriesQueryHandler,
	getDeliveryHandler queries.GetDeliveryQueryHandler,
	getUserHandler queries.GetUserQueryHandler,
) *Server {
	return &Server{
		createDeliveryHandler:   createDeliveryHandler,
		updateDeliveryHandler:   updateDeliveryHandler,
		expireDeliveryHandler:   expireDeliveryHandler,
		placeBidHandler:         placeBidHandler,
		acceptBidHandler:        acceptBidHandler,
		setStatusHandler:        setStatusHandler,
		cancelDeliveryHandler:   cancelDeliveryHandler,
		completeDeliveryHandler: completeDeliveryHandler,
		confirmDeliveryHandler:  confirmDeliveryHandler,
		updateProfileHandler:    updateProfileHandler,
		listDeliveriesHandler:   listDeliveriesHandler,
		getDeliveryHandler:      getDeliveryHandler,
		getUserHandler:          getUserHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	e.GET("/api/deliveries", s.ListDeliveries)
	e.POST("/api/deliveries", s.CreateDelivery)
	e.GET("/api/deliveries/:id", s.GetDelivery)
	e.PATCH("/api/deliveries/:id", s.UpdateDelivery)
	e.DELETE("/api/deliveries/:id", s.ExpireDelivery)
	e.POST("/api/deliveries/:id/bid", s.PlaceBid)
	e.POST("/api/deliveries/:id/accept/:bidIndex", s.AcceptBid)
	e.PATCH("/api/deliveries/:id/status", s.SetStatus)
	e.POST("/api/deliveries/:id/cancel", s.CancelDelivery)
	e.POST("/api/deliveries/:id/complete", s.CompleteDelivery)
	e.POST("/api/deliveries/:id/confirm", s.ConfirmDelivery)

	e.GET("/api/user/:npub", s.GetUser)
	e.PATCH("/api/user/:npub", s.UpdateProfile)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// ListDeliveries handles GET /api/deliveries with an optional status filter.
func (s *Server) ListDeliveries(ctx echo.Context) error {
	var status *delivery.Status
	if raw := ctx.QueryParam("status"); raw != "" {
		parsed, err := delivery.ParseStatus(raw)
		if err != nil {
			return writeError(ctx, err)
		}
		status = &parsed
	}

	query, err := queries.NewListDeliveriesQuery(status)
	if err != nil {
		return writeError(ctx, err)
	}

	snapshots, err := s.listDeliveriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, snapshots)
}

// CreateDelivery handles POST /api/deliveries.
func (s *Server) CreateDelivery(ctx echo.Context) error {
	var body CreateDeliveryRequest
	if err := ctx.Bind(&body); err != nil {
		return writeBindError(ctx)
	}

	cmd, err := commands.NewCreateDeliveryCommand(body.Sender, body.Pickup, body.Dropoff,
		body.Packages, body.OfferAmount, body.InsuranceAmount, body.TimeWindow, body.ExpiresAt)
	if err != nil {
		return writeError(ctx, err)
	}

	aggregate, err := s.createDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, aggregate.Snapshot())
}

// GetDelivery handles GET /api/deliveries/{id}.
func (s *Server) GetDelivery(ctx echo.Context) error {
	query, err := queries.NewGetDeliveryQuery(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	snapshot, err := s.getDeliveryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, snapshot)
}

// UpdateDelivery handles PATCH /api/deliveries/{id}.
func (s *Server) UpdateDelivery(ctx echo.Context) error {
	var body UpdateDeliveryRequest
	if err := ctx.Bind(&body); err != nil {
		return writeBindError(ctx)
	}

	cmd, err := commands.NewUpdateDeliveryCommand(ctx.Param("id"), delivery.UpdateFields{
		Pickup:          body.Pickup,
		Dropoff:         body.Dropoff,
		Packages:        body.Packages,
		OfferAmount:     body.OfferAmount,
		InsuranceAmount: body.InsuranceAmount,
		TimeWindow:      body.TimeWindow,
		ExpiresAt:       body.ExpiresAt,
	})
	if err != nil {
		return writeError(ctx, err)
	}

	aggregate, err := s.updateDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, aggregate.Snapshot())
}

// ExpireDelivery handles DELETE /api/deliveries/{id}. Only Open deliveries
// can be expired.
func (s *Server) ExpireDelivery(ctx echo.Context) error {
	cmd, err := commands.NewExpireDeliveryCommand(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	aggregate, err := s.expireDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, aggregate.Snapshot())
}

// PlaceBid handles POST /api/deliveries/{id}/bid.
func (s *Server) PlaceBid(ctx echo.Context) error {
	var body PlaceBidRequest
	if err := ctx.Bind(&body); err != nil {
		return writeBindError(ctx)
	}

	cmd, err := commands.NewPlaceBidCommand(ctx.Param("id"), body.Courier,
		body.Amount, body.EstimatedTime, body.Message)
	if err != nil {
		return writeError(ctx, err)
	}

	aggregate, err := s.placeBidHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, aggregate.Snapshot())
}

// AcceptBid handles POST /api/deliveries/{id}/accept/{bidIndex}.
func (s *Server) AcceptBid(ctx echo.Context) error {
	bidIndex, err := strconv.Atoi(ctx.Param("bidIndex"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid bid index",
		})
	}

	cmd, err := commands.NewAcceptBidCommand(ctx.Param("id"), bidIndex)
	if err != nil {
		return writeError(ctx, err)
	}

	aggregate, err := s.acceptBidHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, aggregate.Snapshot())
}

// SetStatus handles PATCH /api/deliveries/{id}/status.
func (s *Server) SetStatus(ctx echo.Context) error {
	var body SetStatusRequest
	if err := ctx.Bind(&body); err != nil {
		return writeBindError(ctx)
	}

	status, err := delivery.ParseStatus(body.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewSetStatusCommand(ctx.Param("id"), status)
	if err != nil {
		return writeError(ctx, err)
	}

	aggregate, err := s.setStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, aggregate.Snapshot())
}

// CancelDelivery handles POST /api/deliveries/{id}/cancel.
func (s *Server) CancelDelivery(ctx echo.Context) error {
	cmd, err := commands.NewCancelDeliveryCommand(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	aggregate, err := s.cancelDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, aggregate.Snapshot())
}

// CompleteDelivery handles POST /api/deliveries/{id}/complete.
func (s *Server) CompleteDelivery(ctx echo.Context) error {
	var body CompleteDeliveryRequest
	if err := ctx.Bind(&body); err != nil {
		return writeBindError(ctx)
	}

	cmd, err := commands.NewCompleteDeliveryCommand(ctx.Param("id"),
		body.Images, body.SignatureName, body.Comments)
	if err != nil {
		return writeError(ctx, err)
	}

	aggregate, err := s.completeDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, aggregate.Snapshot())
}

// ConfirmDelivery handles POST /api/deliveries/{id}/confirm.
func (s *Server) ConfirmDelivery(ctx echo.Context) error {
	var body ConfirmDeliveryRequest
	if err := ctx.Bind(&body); err != nil {
		return writeBindError(ctx)
	}

	cmd, err := commands.NewConfirmDeliveryCommand(ctx.Param("id"), body.Rating, body.Feedback)
	if err != nil {
		return writeError(ctx, err)
	}

	aggregate, err := s.confirmDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, aggregate.Snapshot())
}

// GetUser handles GET /api/user/{npub}. An unseen npub yields the default
// profile rather than 404.
func (s *Server) GetUser(ctx echo.Context) error {
	query, err := queries.NewGetUserQuery(ctx.Param("npub"))
	if err != nil {
		return writeError(ctx, err)
	}

	snapshot, err := s.getUserHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, snapshot)
}

// UpdateProfile handles PATCH /api/user/{npub}.
func (s *Server) UpdateProfile(ctx echo.Context) error {
	var body UpdateProfileRequest
	if err := ctx.Bind(&body); err != nil {
		return writeBindError(ctx)
	}

	cmd, err := commands.NewUpdateProfileCommand(ctx.Param("npub"),
		body.DisplayName, body.LightningAddress)
	if err != nil {
		return writeError(ctx, err)
	}

	profile, err := s.updateProfileHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, profile.Snapshot())
}

// writeError maps domain errors onto HTTP status codes: missing aggregates
// become 404, validation and transition failures 400, everything else 500.
func writeError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func writeBindError(ctx echo.Context) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: "Invalid request body",
	})
}
