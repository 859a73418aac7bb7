// internal/services/services_test.go
package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/foodmarket/marketplace/internal/config"
	"github.com/foodmarket/marketplace/internal/events"
	"github.com/foodmarket/marketplace/internal/models"
	"github.com/foodmarket/marketplace/internal/repository"
	"github.com/foodmarket/marketplace/internal/repository/repotest"
	"github.com/foodmarket/marketplace/internal/utils"
)

type ServicesTestSuite struct {
	suite.Suite
	ctx      context.Context
	cfg      *config.Config
	store    *repository.Store
	events   *events.Recorder
	auth     *AuthService
	products *ProductService
	orders   *OrderService
	admin    *AdminService

	seller *models.Account
	buyer  *models.Account
	apple  *models.Product
}

func testConfig() *config.Config {
	return &config.Config{
		JWT:    config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 1, ConfirmTTL: 5},
		Auth:   config.AuthConfig{PasswordMode: "plaintext"},
		Admin:  config.AdminConfig{Username: "admin", Password: "admin-pass"},
		Orders: config.OrdersConfig{StatusPolicy: "strict"},
	}
}

func (suite *ServicesTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.cfg = testConfig()
	utils.SetJWTSecret(suite.cfg.JWT.SecretKey)

	suite.store = repotest.NewStore()
	suite.events = &events.Recorder{}
	hasher, err := utils.NewPasswordHasher(suite.cfg.Auth.PasswordMode)
	suite.Require().NoError(err)

	suite.auth = NewAuthService(suite.store, hasher, suite.cfg)
	suite.products = NewProductService(suite.store)
	suite.orders = NewOrderService(suite.store, PolicyStrict, suite.events)
	suite.admin = NewAdminService(suite.store, suite.orders, 5*time.Minute)

	suite.seller, err = suite.auth.Register(suite.ctx, models.ActorSeller, &RegisterRequest{Name: "Farm Co", Username: "farm", Password: "pw"})
	suite.Require().NoError(err)
	suite.buyer, err = suite.auth.Register(suite.ctx, models.ActorBuyer, &RegisterRequest{Name: "Ann", Username: "ann", Password: "pw"})
	suite.Require().NoError(err)
	suite.apple, err = suite.products.AddProduct(suite.ctx, suite.seller.ID, &AddProductRequest{Name: "Apple", Price: "2.50"})
	suite.Require().NoError(err)
}

func (suite *ServicesTestSuite) placeOrder() *models.Order {
	order, err := suite.orders.PlaceOrder(suite.ctx, suite.buyer.ID, suite.buyer.ID, suite.apple.ID, &PlaceOrderRequest{
		Address: "1 Main St", Mobile: "555-0100", PaymentMethod: "cash",
	})
	suite.Require().NoError(err)
	return order
}

func (suite *ServicesTestSuite) TestRegisterDuplicateUsername() {
	_, err := suite.auth.Register(suite.ctx, models.ActorSeller, &RegisterRequest{Name: "Other", Username: "farm", Password: "x"})
	assert.ErrorIs(suite.T(), err, ErrDuplicateUsername)

	// the first account is untouched
	resp, err := suite.auth.Login(suite.ctx, models.ActorSeller, &LoginRequest{Username: "farm", Password: "pw"})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), suite.seller.ID, resp.User.ID)

	// usernames are unique per kind only
	_, err = suite.auth.Register(suite.ctx, models.ActorBuyer, &RegisterRequest{Name: "Farm buyer", Username: "farm", Password: "x"})
	assert.NoError(suite.T(), err)
}

func (suite *ServicesTestSuite) TestRegisterValidation() {
	_, err := suite.auth.Register(suite.ctx, models.ActorBuyer, &RegisterRequest{Username: "bob"})
	var verrs validator.ValidationErrors
	suite.Require().True(errors.As(err, &verrs))
	assert.Len(suite.T(), verrs, 2)

	_, err = suite.auth.Register(suite.ctx, models.ActorAdmin, &RegisterRequest{Name: "a", Username: "b", Password: "c"})
	assert.ErrorIs(suite.T(), err, ErrInvalidActorKind)
}

func (suite *ServicesTestSuite) TestLoginNeverDisclosesField() {
	_, wrongPass := suite.auth.Login(suite.ctx, models.ActorBuyer, &LoginRequest{Username: "ann", Password: "nope"})
	_, noUser := suite.auth.Login(suite.ctx, models.ActorBuyer, &LoginRequest{Username: "ghost", Password: "pw"})
	assert.Equal(suite.T(), ErrInvalidCredentials, wrongPass)
	assert.Equal(suite.T(), ErrInvalidCredentials, noUser)

	// a seller cannot log in on the buyer side
	_, err := suite.auth.Login(suite.ctx, models.ActorBuyer, &LoginRequest{Username: "farm", Password: "pw"})
	assert.Equal(suite.T(), ErrInvalidCredentials, err)
}

func (suite *ServicesTestSuite) TestLoginIssuesSessionToken() {
	resp, err := suite.auth.Login(suite.ctx, models.ActorBuyer, &LoginRequest{Username: "ann", Password: "pw"})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Bearer", resp.TokenType)
	assert.Equal(suite.T(), 3600, resp.ExpiresIn)

	claims, err := utils.ValidateJWT(resp.AccessToken)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), suite.buyer.ID, claims.ActorID)
	assert.Equal(suite.T(), "Ann", claims.Name)
	assert.Equal(suite.T(), "buyer", claims.Role)
}

func (suite *ServicesTestSuite) TestBcryptMode() {
	hasher, err := utils.NewPasswordHasher("bcrypt")
	suite.Require().NoError(err)
	auth := NewAuthService(suite.store, hasher, suite.cfg)

	account, err := auth.Register(suite.ctx, models.ActorBuyer, &RegisterRequest{Name: "Bea", Username: "bea", Password: "secret"})
	suite.Require().NoError(err)
	assert.NotEqual(suite.T(), "secret", account.Password)

	_, err = auth.Login(suite.ctx, models.ActorBuyer, &LoginRequest{Username: "bea", Password: "secret"})
	assert.NoError(suite.T(), err)
}

func (suite *ServicesTestSuite) TestAdminLogin() {
	resp, err := suite.auth.AdminLogin(suite.ctx, &LoginRequest{Username: "admin", Password: "admin-pass"})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "admin", resp.Role)

	_, err = suite.auth.AdminLogin(suite.ctx, &LoginRequest{Username: "admin", Password: "admin"})
	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
}

func (suite *ServicesTestSuite) TestAddProductPrice() {
	for _, price := range []string{"abc", "0", "-1", ""} {
		_, err := suite.products.AddProduct(suite.ctx, suite.seller.ID, &AddProductRequest{Name: "Bad", Price: price})
		assert.Error(suite.T(), err, price)
	}

	p, err := suite.products.AddProduct(suite.ctx, suite.seller.ID, &AddProductRequest{Name: "Pear", Price: " 3.456 "})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "3.46", p.Price.StringFixed(2))

	_, err = suite.products.AddProduct(suite.ctx, 999, &AddProductRequest{Name: "Pear", Price: "1"})
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)
}

func (suite *ServicesTestSuite) TestDeleteProductIsOwnerScoped() {
	other, err := suite.auth.Register(suite.ctx, models.ActorSeller, &RegisterRequest{Name: "Rival", Username: "rival", Password: "pw"})
	suite.Require().NoError(err)

	assert.ErrorIs(suite.T(), suite.products.DeleteProduct(suite.ctx, other.ID, suite.apple.ID), ErrProductNotFound)
	assert.NoError(suite.T(), suite.products.DeleteProduct(suite.ctx, suite.seller.ID, suite.apple.ID))
	assert.ErrorIs(suite.T(), suite.products.DeleteProduct(suite.ctx, suite.seller.ID, suite.apple.ID), ErrProductNotFound)
}

func (suite *ServicesTestSuite) TestSellerDashboardRevenue() {
	_, err := suite.products.AddProduct(suite.ctx, suite.seller.ID, &AddProductRequest{Name: "Pear", Price: "4"})
	suite.Require().NoError(err)
	suite.placeOrder()
	suite.placeOrder()

	dash, err := suite.products.SellerDashboard(suite.ctx, suite.seller.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Farm Co", dash.Seller.Name)
	assert.Len(suite.T(), dash.Products, 2)
	suite.Require().Len(dash.Chart, 2)
	assert.Equal(suite.T(), int64(2), dash.Chart[0].OrderCount)
	assert.True(suite.T(), decimal.RequireFromString("5").Equal(dash.Chart[0].TotalRevenue))
	assert.Equal(suite.T(), int64(0), dash.Chart[1].OrderCount)
	assert.True(suite.T(), dash.Chart[1].TotalRevenue.IsZero())
}

func (suite *ServicesTestSuite) TestPlaceOrder() {
	order := suite.placeOrder()
	assert.Equal(suite.T(), models.OrderStatusPlaced, order.Status)
	assert.Equal(suite.T(), "1 Main St", order.Address)
	assert.Equal(suite.T(), "555-0100", order.Mobile)
	assert.Equal(suite.T(), "cash", order.PaymentMethod)

	// resubmitting creates another order
	suite.placeOrder()
	orders, err := suite.orders.BuyerOrders(suite.ctx, suite.buyer.ID)
	suite.Require().NoError(err)
	assert.Len(suite.T(), orders, 2)
	assert.Equal(suite.T(), "Apple", orders[0].ProductName)
	assert.Equal(suite.T(), "Farm Co", orders[0].SellerName)

	recorded := suite.events.Events()
	suite.Require().Len(recorded, 2)
	assert.Equal(suite.T(), events.TypeOrderPlaced, recorded[0].Type)
	assert.Equal(suite.T(), order.ID, recorded[0].OrderID)
}

func (suite *ServicesTestSuite) TestPlaceOrderWithUnreachableBroker() {
	publisher, err := events.NewPublisher(config.KafkaConfig{Brokers: []string{"127.0.0.1:1"}, Topic: "orders", PublishTimeout: 200})
	suite.Require().NoError(err)
	defer publisher.Close()
	suite.orders = NewOrderService(suite.store, PolicyStrict, publisher)

	start := time.Now()
	order := suite.placeOrder()
	assert.Less(suite.T(), time.Since(start), 3*time.Second)

	stored, err := suite.store.Orders.FindByID(suite.ctx, order.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.OrderStatusPlaced, stored.Status)
}

func (suite *ServicesTestSuite) TestPlaceOrderRejectsOversizedFields() {
	_, err := suite.orders.PlaceOrder(suite.ctx, suite.buyer.ID, suite.buyer.ID, suite.apple.ID, &PlaceOrderRequest{
		Address:       "1 Main St",
		Mobile:        strings.Repeat("5", 33),
		PaymentMethod: strings.Repeat("x", 51),
	})
	var verrs validator.ValidationErrors
	suite.Require().True(errors.As(err, &verrs))
	suite.Require().Len(verrs, 2)
	assert.Equal(suite.T(), "max", verrs[0].Tag())

	orders, err := suite.orders.BuyerOrders(suite.ctx, suite.buyer.ID)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), orders)
}

func (suite *ServicesTestSuite) TestPlaceOrderRejectsOtherBuyer() {
	req := &PlaceOrderRequest{Address: "a", Mobile: "m", PaymentMethod: "p"}

	_, err := suite.orders.PlaceOrder(suite.ctx, suite.buyer.ID+1, suite.buyer.ID, suite.apple.ID, req)
	assert.ErrorIs(suite.T(), err, ErrUnauthenticated)
	_, err = suite.orders.PlaceOrder(suite.ctx, 0, 0, suite.apple.ID, req)
	assert.ErrorIs(suite.T(), err, ErrUnauthenticated)

	count, err := suite.store.Orders.Count(suite.ctx)
	suite.Require().NoError(err)
	assert.Zero(suite.T(), count)
}

func (suite *ServicesTestSuite) TestPlaceOrderNeedsLiveProductAndBuyer() {
	req := &PlaceOrderRequest{Address: "a", Mobile: "m", PaymentMethod: "p"}

	_, err := suite.orders.PlaceOrder(suite.ctx, suite.buyer.ID, suite.buyer.ID, 999, req)
	assert.ErrorIs(suite.T(), err, ErrProductNotFound)

	suite.Require().NoError(suite.store.Accounts.Delete(suite.ctx, models.ActorSeller, suite.seller.ID))
	_, err = suite.orders.PlaceOrder(suite.ctx, suite.buyer.ID, suite.buyer.ID, suite.apple.ID, req)
	assert.ErrorIs(suite.T(), err, ErrProductNotFound)

	suite.Require().NoError(suite.store.Accounts.Delete(suite.ctx, models.ActorBuyer, suite.buyer.ID))
	_, err = suite.orders.PlaceOrder(suite.ctx, suite.buyer.ID, suite.buyer.ID, suite.apple.ID, req)
	assert.ErrorIs(suite.T(), err, ErrUnauthenticated)
}

func (suite *ServicesTestSuite) TestStrictLifecycle() {
	order := suite.placeOrder()

	updated, err := suite.orders.UpdateStatusBySeller(suite.ctx, suite.seller.ID, order.ID, "confirmed")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.OrderStatusConfirmed, updated.Status)

	_, err = suite.orders.UpdateStatusBySeller(suite.ctx, suite.seller.ID, order.ID, "Delivered")
	var terr *TransitionError
	suite.Require().True(errors.As(err, &terr))
	assert.Equal(suite.T(), models.OrderStatusConfirmed, terr.From)
	assert.Equal(suite.T(), models.OrderStatusDelivered, terr.To)
	assert.ErrorIs(suite.T(), err, ErrInvalidTransition)

	_, err = suite.orders.UpdateStatusBySeller(suite.ctx, suite.seller.ID, order.ID, "Out for delivery")
	assert.ErrorIs(suite.T(), err, ErrInvalidStatus)

	for _, next := range []string{"Shipped", "Delivered"} {
		_, err = suite.orders.UpdateStatusBySeller(suite.ctx, suite.seller.ID, order.ID, next)
		suite.Require().NoError(err)
	}

	// delivered is terminal
	_, err = suite.orders.UpdateStatusBySeller(suite.ctx, suite.seller.ID, order.ID, "Placed")
	assert.ErrorIs(suite.T(), err, ErrInvalidTransition)

	changes := suite.events.Events()[1:]
	suite.Require().Len(changes, 3)
	assert.Equal(suite.T(), "Placed", changes[0].FromStatus)
	assert.Equal(suite.T(), "Confirmed", changes[0].ToStatus)
	assert.Equal(suite.T(), "seller:1", changes[0].Actor)
}

func (suite *ServicesTestSuite) TestSellerCannotTouchOtherSellersOrders() {
	order := suite.placeOrder()
	other, err := suite.auth.Register(suite.ctx, models.ActorSeller, &RegisterRequest{Name: "Rival", Username: "rival", Password: "pw"})
	suite.Require().NoError(err)

	_, err = suite.orders.UpdateStatusBySeller(suite.ctx, other.ID, order.ID, "Cancelled")
	assert.ErrorIs(suite.T(), err, ErrOrderNotFound)

	orders, err := suite.orders.SellerOrders(suite.ctx, other.ID)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), orders)
}

func (suite *ServicesTestSuite) TestAdminForceUpdate() {
	order := suite.placeOrder()

	_, err := suite.admin.UpdateOrderStatus(suite.ctx, order.ID, "Delivered", false)
	assert.ErrorIs(suite.T(), err, ErrInvalidTransition)

	updated, err := suite.admin.UpdateOrderStatus(suite.ctx, order.ID, "Delivered", true)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.OrderStatusDelivered, updated.Status)

	// force still requires a known status
	_, err = suite.admin.UpdateOrderStatus(suite.ctx, order.ID, "Lost", true)
	assert.ErrorIs(suite.T(), err, ErrInvalidStatus)

	_, err = suite.admin.UpdateOrderStatus(suite.ctx, 999, "Cancelled", true)
	assert.ErrorIs(suite.T(), err, ErrOrderNotFound)
}

// staleOrders serves an outdated status, as if another writer got in
// between the read and the write.
type staleOrders struct {
	repository.OrderRepository
	stale models.OrderStatus
}

func (r staleOrders) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	order, err := r.OrderRepository.FindByID(ctx, id)
	if err == nil {
		order.Status = r.stale
	}
	return order, err
}

func (suite *ServicesTestSuite) TestStrictDetectsConcurrentChange() {
	order := suite.placeOrder()
	_, err := suite.admin.UpdateOrderStatus(suite.ctx, order.ID, "Confirmed", false)
	suite.Require().NoError(err)

	store := *suite.store
	store.Orders = staleOrders{OrderRepository: suite.store.Orders, stale: models.OrderStatusPlaced}
	orders := NewOrderService(&store, PolicyStrict, nil)

	_, err = orders.UpdateStatusByAdmin(suite.ctx, order.ID, "Cancelled", false)
	assert.ErrorIs(suite.T(), err, ErrStatusConflict)

	current, err := suite.store.Orders.FindByID(suite.ctx, order.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.OrderStatusConfirmed, current.Status)
}

func (suite *ServicesTestSuite) TestLegacyPolicyOverwritesBlindly() {
	orders := NewOrderService(suite.store, PolicyLegacy, nil)
	order := suite.placeOrder()

	for _, status := range []string{"Delivered", "Out for delivery", "Placed"} {
		updated, err := orders.UpdateStatusBySeller(suite.ctx, suite.seller.ID, order.ID, status)
		suite.Require().NoError(err)
		assert.Equal(suite.T(), models.OrderStatus(status), updated.Status)

		stored, err := suite.store.Orders.FindByID(suite.ctx, order.ID)
		suite.Require().NoError(err)
		assert.Equal(suite.T(), status, string(stored.Status))
	}

	_, err := orders.UpdateStatusBySeller(suite.ctx, suite.seller.ID, order.ID, "  ")
	assert.ErrorIs(suite.T(), err, ErrInvalidStatus)
}

func (suite *ServicesTestSuite) TestLegacyConcurrentUpdatesLastWriterWins() {
	orders := NewOrderService(suite.store, PolicyLegacy, nil)
	order := suite.placeOrder()

	statuses := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	var wg sync.WaitGroup
	for _, status := range statuses {
		wg.Add(1)
		go func(status string) {
			defer wg.Done()
			_, err := orders.UpdateStatusByAdmin(suite.ctx, order.ID, status, false)
			assert.NoError(suite.T(), err)
		}(status)
	}
	wg.Wait()

	stored, err := suite.store.Orders.FindByID(suite.ctx, order.ID)
	suite.Require().NoError(err)
	assert.Contains(suite.T(), statuses, string(stored.Status))
}

func (suite *ServicesTestSuite) TestStats() {
	suite.placeOrder()
	suite.admin.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }

	stats, err := suite.admin.Stats(suite.ctx)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), &models.DashboardStats{
		TotalSellers:  1,
		TotalBuyers:   1,
		TotalProducts: 1,
		TotalOrders:   1,
		Timestamp:     "2024-03-09 14:05:07",
	}, stats)

	dash, err := suite.admin.Dashboard(suite.ctx)
	suite.Require().NoError(err)
	assert.Len(suite.T(), dash.RecentOrders, 1)
	suite.Require().Len(dash.TopSellers, 1)
	assert.True(suite.T(), decimal.RequireFromString("2.5").Equal(dash.TopSellers[0].Revenue))
}

func (suite *ServicesTestSuite) TestDeletedSellerLosesWriteAccess() {
	order := suite.placeOrder()

	_, err := suite.admin.DeleteUser(suite.ctx, "seller", suite.seller.ID, "")
	var confirm *ConfirmationRequiredError
	suite.Require().True(errors.As(err, &confirm))
	_, err = suite.admin.DeleteUser(suite.ctx, "seller", suite.seller.ID, confirm.Token)
	suite.Require().NoError(err)

	_, err = suite.orders.UpdateStatusBySeller(suite.ctx, suite.seller.ID, order.ID, "Confirmed")
	assert.ErrorIs(suite.T(), err, ErrOrderNotFound)

	err = suite.products.DeleteProduct(suite.ctx, suite.seller.ID, suite.apple.ID)
	assert.ErrorIs(suite.T(), err, ErrProductNotFound)

	_, err = suite.products.AddProduct(suite.ctx, suite.seller.ID, &AddProductRequest{Name: "Pear", Price: "1.00"})
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)

	// the admin can still moderate the orphaned order
	updated, err := suite.admin.UpdateOrderStatus(suite.ctx, order.ID, "Cancelled", false)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.OrderStatusCancelled, updated.Status)
}

func (suite *ServicesTestSuite) TestRevenueIgnoresDeletedProducts() {
	pear, err := suite.products.AddProduct(suite.ctx, suite.seller.ID, &AddProductRequest{Name: "Pear", Price: "4.00"})
	suite.Require().NoError(err)
	suite.placeOrder()
	_, err = suite.orders.PlaceOrder(suite.ctx, suite.buyer.ID, suite.buyer.ID, pear.ID, &PlaceOrderRequest{
		Address: "1 Main St", Mobile: "555-0100", PaymentMethod: "cash",
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.products.DeleteProduct(suite.ctx, suite.seller.ID, pear.ID))

	dash, err := suite.products.SellerDashboard(suite.ctx, suite.seller.ID)
	suite.Require().NoError(err)
	suite.Require().Len(dash.Chart, 1)
	assert.True(suite.T(), decimal.RequireFromString("2.5").Equal(dash.Chart[0].TotalRevenue))

	top, err := suite.admin.TopSellers(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(top, 1)
	assert.Equal(suite.T(), int64(1), top[0].OrderCount)
	assert.True(suite.T(), dash.Chart[0].TotalRevenue.Equal(top[0].Revenue))
}

func (suite *ServicesTestSuite) TestDeleteUserNeedsConfirmation() {
	suite.placeOrder()

	_, err := suite.admin.DeleteUser(suite.ctx, "seller", suite.seller.ID, "")
	var confirm *ConfirmationRequiredError
	suite.Require().True(errors.As(err, &confirm))
	assert.ErrorIs(suite.T(), err, ErrConfirmationRequired)
	assert.Equal(suite.T(), ActionDeleteUser, confirm.Action)
	assert.Equal(suite.T(), "seller:1", confirm.Target)
	assert.Equal(suite.T(), &models.DeletionImpact{Products: 1, Orders: 1}, confirm.Impact)

	// nothing happened yet
	_, err = suite.store.Accounts.FindByID(suite.ctx, models.ActorSeller, suite.seller.ID)
	suite.Require().NoError(err)

	// a token for another target does not work
	_, err = suite.admin.DeleteUser(suite.ctx, "buyer", suite.buyer.ID, confirm.Token)
	assert.ErrorIs(suite.T(), err, ErrInvalidConfirmation)

	impact, err := suite.admin.DeleteUser(suite.ctx, "seller", suite.seller.ID, confirm.Token)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), impact.Orders)

	// orphans persist and stay readable
	products, err := suite.admin.Products(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(products, 1)
	assert.Equal(suite.T(), "Farm Co", products[0].SellerName)

	orders, err := suite.orders.BuyerOrders(suite.ctx, suite.buyer.ID)
	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	assert.Equal(suite.T(), "Apple", orders[0].ProductName)

	catalog, err := suite.products.Catalog(suite.ctx)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), catalog)

	users, err := suite.admin.Users(suite.ctx)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), users.Sellers)
	assert.Len(suite.T(), users.Buyers, 1)

	_, err = suite.admin.DeleteUser(suite.ctx, "seller", suite.seller.ID, confirm.Token)
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)
}

func (suite *ServicesTestSuite) TestConfirmationTokenIsBoundToTarget() {
	_, err := suite.admin.DeleteProduct(suite.ctx, suite.apple.ID, "")
	var confirm *ConfirmationRequiredError
	suite.Require().True(errors.As(err, &confirm))

	_, err = suite.admin.DeleteProduct(suite.ctx, suite.apple.ID, confirm.Token)
	suite.Require().NoError(err)

	pear, err := suite.products.AddProduct(suite.ctx, suite.seller.ID, &AddProductRequest{Name: "Pear", Price: "1"})
	suite.Require().NoError(err)
	_, err = suite.admin.DeleteProduct(suite.ctx, pear.ID, confirm.Token)
	assert.ErrorIs(suite.T(), err, ErrInvalidConfirmation)

	_, err = suite.admin.DeleteUser(suite.ctx, "admin", 1, "")
	assert.ErrorIs(suite.T(), err, ErrInvalidActorKind)
}

func TestServicesTestSuite(t *testing.T) {
	suite.Run(t, new(ServicesTestSuite))
}

func TestNonceLedgerForgetsExpired(t *testing.T) {
	l := newNonceLedger()
	now := time.Now()

	assert.True(t, l.consume("a", now.Add(time.Minute), now))
	assert.False(t, l.consume("a", now.Add(time.Minute), now))

	later := now.Add(2 * time.Minute)
	assert.True(t, l.consume("b", later.Add(time.Minute), later))
	assert.NotContains(t, l.used, "a")
}
