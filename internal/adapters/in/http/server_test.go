package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "opencourier/internal/adapters/in/http"
	"opencourier/internal/adapters/out/memstore"
	"opencourier/internal/core/application/usecases/commands"
	"opencourier/internal/core/application/usecases/queries"
	"opencourier/internal/core/domain/model/account"
	"opencourier/internal/core/domain/model/delivery"
)

type deliveryUoWFactoryFunc func() commands.DeliveryUoW

func (f deliveryUoWFactoryFunc) Create() commands.DeliveryUoW { return f() }

type userUoWFactoryFunc func() commands.UserUoW

func (f userUoWFactoryFunc) Create() commands.UserUoW { return f() }

type uowFactoryFunc func() commands.UoW

func (f uowFactoryFunc) Create() commands.UoW { return f() }

func newTestServer() *echo.Echo {
	store := memstore.NewStore()
	factory := memstore.NewUnitOfWorkFactory(store)

	deliveryFactory := deliveryUoWFactoryFunc(func() commands.DeliveryUoW { return factory.Create() })
	userFactory := userUoWFactoryFunc(func() commands.UserUoW { return factory.Create() })
	fullFactory := uowFactoryFunc(func() commands.UoW { return factory.Create() })

	server := adapter.NewServer(
		commands.NewCreateDeliveryCommandHandler(deliveryFactory),
		commands.NewUpdateDeliveryCommandHandler(deliveryFactory),
		commands.NewExpireDeliveryCommandHandler(deliveryFactory),
		commands.NewPlaceBidCommandHandler(fullFactory),
		commands.NewAcceptBidCommandHandler(deliveryFactory),
		commands.NewSetStatusCommandHandler(deliveryFactory),
		commands.NewCancelDeliveryCommandHandler(fullFactory),
		commands.NewCompleteDeliveryCommandHandler(deliveryFactory),
		commands.NewConfirmDeliveryCommandHandler(fullFactory),
		commands.NewUpdateProfileCommandHandler(userFactory),
		queries.NewListDeliveriesQueryHandler(memstore.NewDeliveryRepository(store)),
		queries.NewGetDeliveryQueryHandler(memstore.NewDeliveryRepository(store)),
		queries.NewGetUserQueryHandler(memstore.NewUserRepository(store)),
	)

	e := echo.New()
	server.RegisterRoutes(e)
	return e
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const createBody = `{
	"sender": "npub1sender",
	"pickup": {"address": "12 Pickup Lane", "coordinates": {"lat": 38.2527, "lng": -85.7585}},
	"dropoff": {"address": "99 Dropoff Road", "coordinates": {"lat": 38.0406, "lng": -84.5037}},
	"packages": [{"size": "small", "description": "documents"}],
	"offer_amount": 5000,
	"time_window": "today 9-17"
}`

func createDelivery(t *testing.T, e *echo.Echo) delivery.Snapshot {
	t.Helper()

	rec := doRequest(e, http.MethodPost, "/api/deliveries", createBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var snapshot delivery.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	return snapshot
}

func TestServer_Health(t *testing.T) {
	rec := doRequest(newTestServer(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_CreateDelivery(t *testing.T) {
	t.Run("should create an open delivery with derived fields", func(t *testing.T) {
		snapshot := createDelivery(t, newTestServer())

		assert.NotEmpty(t, snapshot.ID)
		assert.Equal(t, delivery.Open, snapshot.Status)
		assert.NotNil(t, snapshot.ExpiresAt)
		require.NotNil(t, snapshot.DistanceMeters)
		assert.InDelta(t, 125000, *snapshot.DistanceMeters, 125000*0.05)
	})

	t.Run("should reject a delivery without packages", func(t *testing.T) {
		body := strings.Replace(createBody, `[{"size": "small", "description": "documents"}]`, `[]`, 1)

		rec := doRequest(newTestServer(), http.MethodPost, "/api/deliveries", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_GetDelivery(t *testing.T) {
	t.Run("should fetch a created delivery", func(t *testing.T) {
		e := newTestServer()
		created := createDelivery(t, e)

		rec := doRequest(e, http.MethodGet, "/api/deliveries/"+created.ID, "")

		require.Equal(t, http.StatusOK, rec.Code)
		var snapshot delivery.Snapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
		assert.Equal(t, created.ID, snapshot.ID)
	})

	t.Run("should return 404 for unknown id", func(t *testing.T) {
		rec := doRequest(newTestServer(), http.MethodGet, "/api/deliveries/delivery_missing", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_ListDeliveries(t *testing.T) {
	e := newTestServer()
	createDelivery(t, e)
	createDelivery(t, e)

	t.Run("should list all deliveries", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/deliveries", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var snapshots []delivery.Snapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshots))
		assert.Len(t, snapshots, 2)
	})

	t.Run("should filter by status", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/deliveries?status=completed", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var snapshots []delivery.Snapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshots))
		assert.Empty(t, snapshots)
	})

	t.Run("should reject an unknown status", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/deliveries?status=bogus", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_UpdateDelivery(t *testing.T) {
	e := newTestServer()
	created := createDelivery(t, e)

	rec := doRequest(e, http.MethodPatch, "/api/deliveries/"+created.ID, `{"offer_amount": 9000}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot delivery.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, uint64(9000), snapshot.OfferAmount)
}

func TestServer_ExpireDelivery(t *testing.T) {
	e := newTestServer()
	created := createDelivery(t, e)

	rec := doRequest(e, http.MethodDelete, "/api/deliveries/"+created.ID, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot delivery.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, delivery.Expired, snapshot.Status)
}

func TestServer_DeliveryLifecycle(t *testing.T) {
	e := newTestServer()
	created := createDelivery(t, e)

	bidBody := `{"courier": "npub1courier", "amount": 4500, "estimated_time": "2h"}`
	rec := doRequest(e, http.MethodPost, "/api/deliveries/"+created.ID+"/bid", bidBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var afterBid delivery.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &afterBid))
	require.Len(t, afterBid.Bids, 1)
	assert.InDelta(t, account.DefaultReputation, afterBid.Bids[0].Reputation, 0.0001)

	rec = doRequest(e, http.MethodPost, "/api/deliveries/"+created.ID+"/accept/0", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var afterAccept delivery.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &afterAccept))
	assert.Equal(t, delivery.Accepted, afterAccept.Status)
	require.NotNil(t, afterAccept.AcceptedBid)
	assert.Equal(t, afterBid.Bids[0].ID, *afterAccept.AcceptedBid)
	assert.Equal(t, uint64(4500), afterAccept.OfferAmount, "accept reprices to the bid amount")

	rec = doRequest(e, http.MethodPatch, "/api/deliveries/"+created.ID+"/status", `{"status": "expired"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "terminal statuses cannot be forced")

	rec = doRequest(e, http.MethodPatch, "/api/deliveries/"+created.ID+"/status", `{"status": "in_transit"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(e, http.MethodPost, "/api/deliveries/"+created.ID+"/complete", `{"images": ["img1"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var afterComplete delivery.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &afterComplete))
	assert.Equal(t, delivery.Completed, afterComplete.Status)
	require.NotNil(t, afterComplete.ProofOfDelivery)
	assert.Equal(t, []string{"img1"}, afterComplete.ProofOfDelivery.Images)

	rec = doRequest(e, http.MethodPost, "/api/deliveries/"+created.ID+"/confirm", `{"rating": 5.0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var afterConfirm delivery.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &afterConfirm))
	assert.Equal(t, delivery.Confirmed, afterConfirm.Status)

	rec = doRequest(e, http.MethodGet, "/api/user/npub1courier", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var profile account.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, uint32(1), profile.CompletedDeliveries)
	assert.Equal(t, uint64(4500), profile.TotalEarnings)
	assert.InDelta(t, 5.0, profile.Reputation, 0.0001)
}

func TestServer_CancelDelivery(t *testing.T) {
	t.Run("should reject cancel of an open delivery", func(t *testing.T) {
		e := newTestServer()
		created := createDelivery(t, e)

		rec := doRequest(e, http.MethodPost, "/api/deliveries/"+created.ID+"/cancel", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should pay the courier when an accepted delivery is cancelled", func(t *testing.T) {
		e := newTestServer()
		created := createDelivery(t, e)

		bidBody := `{"courier": "npub1courier", "amount": 4500, "estimated_time": "2h"}`
		rec := doRequest(e, http.MethodPost, "/api/deliveries/"+created.ID+"/bid", bidBody)
		require.Equal(t, http.StatusCreated, rec.Code)
		rec = doRequest(e, http.MethodPost, "/api/deliveries/"+created.ID+"/accept/0", "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(e, http.MethodPost, "/api/deliveries/"+created.ID+"/cancel", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var snapshot delivery.Snapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
		assert.Equal(t, delivery.Expired, snapshot.Status)

		rec = doRequest(e, http.MethodGet, "/api/user/npub1courier", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var profile account.Snapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
		assert.Equal(t, uint64(4500), profile.TotalEarnings)
		assert.Zero(t, profile.CompletedDeliveries)
	})
}

func TestServer_UpdateProfile(t *testing.T) {
	e := newTestServer()

	rec := doRequest(e, http.MethodPatch, "/api/user/npub1courier", `{"display_name": "Road Runner"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var profile account.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	require.NotNil(t, profile.DisplayName)
	assert.Equal(t, "Road Runner", *profile.DisplayName)
}
