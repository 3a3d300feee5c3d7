package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"zuka-backend/controllers"
	"zuka-backend/models"
	"zuka-backend/orders"
	"zuka-backend/otp"
	"zuka-backend/payment"
	"zuka-backend/utils"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Stateless repository doubles; the dispatch tests only care which
// handler a request reaches, not what it stores.

type routeOrderRepo struct{}

func (routeOrderRepo) Insert(_ context.Context, _ *models.Order) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}

func (routeOrderRepo) FindByID(_ context.Context, _ primitive.ObjectID) (*models.Order, error) {
	return nil, orders.ErrNotFound
}

func (routeOrderRepo) FindByUser(_ context.Context, _ primitive.ObjectID) ([]models.Order, error) {
	return nil, nil
}

func (routeOrderRepo) FindAll(_ context.Context) ([]models.Order, error) {
	return []models.Order{}, nil
}

func (routeOrderRepo) TransitionToPaid(_ context.Context, _ primitive.ObjectID, _ string, _ *models.PaymentResult, _ time.Time) (bool, error) {
	return false, nil
}

func (routeOrderRepo) TransitionToDelivered(_ context.Context, _ primitive.ObjectID, _ time.Time) (bool, error) {
	return false, nil
}

type routeCartRepo struct{}

func (routeCartRepo) FindByUser(_ context.Context, _ primitive.ObjectID) (*models.Cart, error) {
	return nil, orders.ErrEmptyCart
}

func (routeCartRepo) Clear(_ context.Context, _ primitive.ObjectID) error { return nil }

// newTestRouter wires the full route table the way main does. The
// Mongo client connects lazily, so handlers that never run a query
// are safe without a server.
func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	utils.JwtKey = []byte("route-test-secret")

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://localhost:27017"))
	require.NoError(t, err)
	db := client.Database("zuka_routes_test")

	svc := orders.NewService(routeOrderRepo{}, routeCartRepo{})
	gateway, err := payment.NewClient("key_id", "top-secret")
	require.NoError(t, err)
	emailService := utils.NewEmailService("", "noreply@zuka.store")

	router := mux.NewRouter()
	RegisterRoutes(router,
		controllers.NewUserController(db, emailService, otp.NewStore()),
		controllers.NewProductController(db),
		controllers.NewCartController(db),
		controllers.NewWishlistController(db),
		controllers.NewOrderController(svc, db, emailService, nil),
		controllers.NewPaymentController(gateway, svc, nil),
	)
	return router
}

func bearerToken(t *testing.T, role string) string {
	t.Helper()
	token, err := utils.GenerateJWT(primitive.NewObjectID().Hex(), "user@gmail.com", role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestOrdersAllDispatchesToAdminList(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/all", nil)
	req.Header.Set("Authorization", bearerToken(t, "admin"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// "all" must not be captured as an order id by GET /orders/{id}.
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "Invalid order ID")
}

func TestOrdersAllRequiresAdmin(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/all", nil)
	req.Header.Set("Authorization", bearerToken(t, "user"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOrderByIDDispatchesToGetOrder(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+primitive.NewObjectID().Hex(), nil)
	req.Header.Set("Authorization", bearerToken(t, "user"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// The repo double knows no orders, so reaching GetOrder means 404.
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order not found")
}

func TestOrderRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRootIsPublic(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ZUKA API is running")
}
