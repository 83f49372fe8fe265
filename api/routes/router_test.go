package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartsvc "github.com/gryadkadev/gryadka-backend/internal/cart"
	catalogsvc "github.com/gryadkadev/gryadka-backend/internal/catalog"
	checkoutsvc "github.com/gryadkadev/gryadka-backend/internal/checkout"
	deliverysvc "github.com/gryadkadev/gryadka-backend/internal/delivery"
	faqsvc "github.com/gryadkadev/gryadka-backend/internal/faq"
	messagesvc "github.com/gryadkadev/gryadka-backend/internal/messages"
	ordersvc "github.com/gryadkadev/gryadka-backend/internal/orders"
	promosvc "github.com/gryadkadev/gryadka-backend/internal/promo"
	settingssvc "github.com/gryadkadev/gryadka-backend/internal/settings"
	usersvc "github.com/gryadkadev/gryadka-backend/internal/users"
	"github.com/gryadkadev/gryadka-backend/pkg/config"
	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	"github.com/gryadkadev/gryadka-backend/pkg/enums"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
	"github.com/gryadkadev/gryadka-backend/pkg/logger"
	"github.com/gryadkadev/gryadka-backend/pkg/pagination"
	pkgredis "github.com/gryadkadev/gryadka-backend/pkg/redis"
)

const (
	customerTelegramID = int64(100)
	adminTelegramID    = int64(200)
	blockedTelegramID  = int64(300)
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubUsersService struct{}

func (stubUsersService) Sync(ctx context.Context, dto usersvc.SyncUserDTO) (usersvc.UserDTO, error) {
	return usersvc.UserDTO{ID: uuid.New(), TelegramID: dto.TelegramID, FirstName: dto.FirstName}, nil
}

func (stubUsersService) GetByTelegramID(ctx context.Context, telegramID int64) (usersvc.UserDTO, error) {
	switch telegramID {
	case customerTelegramID:
		return usersvc.UserDTO{ID: uuid.New(), TelegramID: telegramID, FirstName: "customer"}, nil
	case adminTelegramID:
		return usersvc.UserDTO{ID: uuid.New(), TelegramID: telegramID, FirstName: "admin", IsAdmin: true}, nil
	case blockedTelegramID:
		return usersvc.UserDTO{ID: uuid.New(), TelegramID: telegramID, FirstName: "blocked", IsBlocked: true}, nil
	default:
		return usersvc.UserDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
}

func (stubUsersService) List(ctx context.Context, params pagination.Params, filters usersvc.ListFilters) (*usersvc.UserListDTO, error) {
	return &usersvc.UserListDTO{Users: []usersvc.UserDTO{}}, nil
}

func (stubUsersService) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) (usersvc.UserDTO, error) {
	panic("unimplemented")
}

func (stubUsersService) SetAdmin(ctx context.Context, id uuid.UUID, admin bool) (usersvc.UserDTO, error) {
	panic("unimplemented")
}

type stubCatalogService struct{}

func (stubCatalogService) ListCategories(ctx context.Context, includeInactive bool) ([]catalogsvc.CategoryDTO, error) {
	return []catalogsvc.CategoryDTO{}, nil
}

func (stubCatalogService) ListProducts(ctx context.Context, params pagination.Params, filters catalogsvc.ProductFilters) (*catalogsvc.ProductListDTO, error) {
	return &catalogsvc.ProductListDTO{Products: []catalogsvc.ProductDTO{}}, nil
}

func (stubCatalogService) GetProduct(ctx context.Context, id uuid.UUID, includeInactive bool) (catalogsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) CreateCategory(ctx context.Context, dto catalogsvc.CreateCategoryDTO) (catalogsvc.CategoryDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, dto catalogsvc.UpdateCategoryDTO) (catalogsvc.CategoryDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubCatalogService) CreateProduct(ctx context.Context, dto catalogsvc.CreateProductDTO) (catalogsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, dto catalogsvc.UpdateProductDTO) (catalogsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubCatalogService) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (catalogsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) BulkAdjustCategoryPrices(ctx context.Context, categoryID uuid.UUID, percent decimal.Decimal) (int64, error) {
	panic("unimplemented")
}

func (stubCatalogService) AttachImage(ctx context.Context, productID uuid.UUID, url string, sortOrder int) (catalogsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) DetachImage(ctx context.Context, productID, imageID uuid.UUID) (catalogsvc.ProductDTO, error) {
	panic("unimplemented")
}

type stubCartService struct{}

func (stubCartService) Add(ctx context.Context, userID uuid.UUID, dto cartsvc.AddItemDTO) (*cartsvc.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) List(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{Items: []cartsvc.LineDTO{}}, nil
}

func (stubCartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity decimal.Decimal) (*cartsvc.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) Remove(ctx context.Context, userID, itemID uuid.UUID) (*cartsvc.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	panic("unimplemented")
}

type stubFavoritesService struct{}

func (stubFavoritesService) Add(ctx context.Context, userID, productID uuid.UUID) error {
	panic("unimplemented")
}

func (stubFavoritesService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	panic("unimplemented")
}

func (stubFavoritesService) Toggle(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	panic("unimplemented")
}

func (stubFavoritesService) List(ctx context.Context, userID uuid.UUID) ([]catalogsvc.ProductDTO, error) {
	return []catalogsvc.ProductDTO{}, nil
}

type stubPromoService struct{}

func (stubPromoService) Resolve(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (*promosvc.ValidationResult, error) {
	return &promosvc.ValidationResult{}, nil
}

func (stubPromoService) List(ctx context.Context) ([]models.PromoCode, error) {
	return []models.PromoCode{}, nil
}

func (stubPromoService) Create(ctx context.Context, dto promosvc.CreatePromoDTO) (*models.PromoCode, error) {
	panic("unimplemented")
}

func (stubPromoService) Update(ctx context.Context, id uuid.UUID, dto promosvc.UpdatePromoDTO) (*models.PromoCode, error) {
	panic("unimplemented")
}

func (stubPromoService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubDeliveryService struct{}

func (stubDeliveryService) ListActive(ctx context.Context) ([]deliverysvc.IntervalDTO, error) {
	return []deliverysvc.IntervalDTO{}, nil
}

func (stubDeliveryService) List(ctx context.Context) ([]deliverysvc.IntervalDTO, error) {
	return []deliverysvc.IntervalDTO{}, nil
}

func (stubDeliveryService) EnsureSelectable(ctx context.Context, id uuid.UUID) (*models.DeliveryInterval, error) {
	panic("unimplemented")
}

func (stubDeliveryService) Create(ctx context.Context, dto deliverysvc.CreateIntervalDTO) (deliverysvc.IntervalDTO, error) {
	panic("unimplemented")
}

func (stubDeliveryService) Update(ctx context.Context, id uuid.UUID, dto deliverysvc.UpdateIntervalDTO) (deliverysvc.IntervalDTO, error) {
	panic("unimplemented")
}

func (stubDeliveryService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubSettingsService struct{}

func (stubSettingsService) Checkout(ctx context.Context) (settingssvc.Checkout, error) {
	panic("unimplemented")
}

func (stubSettingsService) Public(ctx context.Context) (map[string]string, error) {
	return map[string]string{}, nil
}

func (stubSettingsService) List(ctx context.Context) ([]settingssvc.SettingDTO, error) {
	return []settingssvc.SettingDTO{}, nil
}

func (stubSettingsService) Upsert(ctx context.Context, key, value string, description *string) (settingssvc.SettingDTO, error) {
	panic("unimplemented")
}

func (stubSettingsService) Invalidate() {}

type stubFAQService struct{}

func (stubFAQService) ListActive(ctx context.Context) ([]faqsvc.ItemDTO, error) {
	return []faqsvc.ItemDTO{}, nil
}

func (stubFAQService) List(ctx context.Context) ([]faqsvc.ItemDTO, error) {
	return []faqsvc.ItemDTO{}, nil
}

func (stubFAQService) Create(ctx context.Context, dto faqsvc.CreateItemDTO) (faqsvc.ItemDTO, error) {
	panic("unimplemented")
}

func (stubFAQService) Update(ctx context.Context, id uuid.UUID, dto faqsvc.UpdateItemDTO) (faqsvc.ItemDTO, error) {
	panic("unimplemented")
}

func (stubFAQService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubCheckoutService struct{}

func (stubCheckoutService) CreateOrder(ctx context.Context, userID uuid.UUID, dto checkoutsvc.CreateOrderDTO) (ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

type stubOrdersService struct{}

func (stubOrdersService) ListOwn(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ordersvc.OrderListDTO, error) {
	return &ordersvc.OrderListDTO{Orders: []ordersvc.OrderDTO{}}, nil
}

func (stubOrdersService) GetOwn(ctx context.Context, userID, orderID uuid.UUID) (ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) CancelOwn(ctx context.Context, userID, orderID uuid.UUID) (ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) AdminList(ctx context.Context, params pagination.Params, filters ordersvc.AdminFilters) (*ordersvc.OrderListDTO, error) {
	return &ordersvc.OrderListDTO{Orders: []ordersvc.OrderDTO{}}, nil
}

func (stubOrdersService) AdminGet(ctx context.Context, orderID uuid.UUID) (ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) Stats(ctx context.Context) (*ordersvc.StatsDTO, error) {
	return &ordersvc.StatsDTO{}, nil
}

type stubMessagesService struct{}

func (stubMessagesService) Send(ctx context.Context, userID uuid.UUID, text string) (messagesvc.MessageDTO, error) {
	panic("unimplemented")
}

func (stubMessagesService) ListOwn(ctx context.Context, userID uuid.UUID) ([]messagesvc.MessageDTO, error) {
	return []messagesvc.MessageDTO{}, nil
}

func (stubMessagesService) Reply(ctx context.Context, userID uuid.UUID, text string) (messagesvc.MessageDTO, error) {
	panic("unimplemented")
}

func (stubMessagesService) ListThread(ctx context.Context, userID uuid.UUID) ([]messagesvc.MessageDTO, error) {
	return []messagesvc.MessageDTO{}, nil
}

func (stubMessagesService) ListThreads(ctx context.Context) ([]messagesvc.MessageDTO, error) {
	return []messagesvc.MessageDTO{}, nil
}

func newTestRouter() http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.CORS.AllowedOrigins = []string{"*"}

	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*pkgredis.Client)(nil),
		Services{
			Users:    stubUsersService{},
			Catalog:  stubCatalogService{},
			Cart:     stubCartService{},
			Favorite: stubFavoritesService{},
			Promo:    stubPromoService{},
			Delivery: stubDeliveryService{},
			Settings: stubSettingsService{},
			FAQ:      stubFAQService{},
			Checkout: stubCheckoutService{},
			Orders:   stubOrdersService{},
			Messages: stubMessagesService{},
		},
	)
}

func doRequest(t *testing.T, router http.Handler, method, target string, telegramID int64) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if telegramID > 0 {
		req.Header.Set("X-Telegram-Id", strconv.FormatInt(telegramID, 10))
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter()

	resp := doRequest(t, router, http.MethodGet, "/health/live", 0)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Gryadka-Env"); got != "test" {
		t.Fatalf("expected env header test, got %q", got)
	}
}

func TestPublicStorefrontIsOpen(t *testing.T) {
	router := newTestRouter()

	for _, target := range []string{"/v1/categories", "/v1/products", "/v1/faq", "/v1/settings/public", "/v1/delivery-intervals"} {
		if resp := doRequest(t, router, http.MethodGet, target, 0); resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s without identity, got %d", target, resp.Code)
		}
	}
}

func TestProtectedGroupRejectsMissingTelegramID(t *testing.T) {
	router := newTestRouter()

	if resp := doRequest(t, router, http.MethodGet, "/v1/cart", 0); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without telegram header, got %d", resp.Code)
	}
}

func TestUnknownUserIsUnauthorized(t *testing.T) {
	router := newTestRouter()

	if resp := doRequest(t, router, http.MethodGet, "/v1/cart", 999); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unsynced user, got %d", resp.Code)
	}
}

func TestBlockedUserIsForbidden(t *testing.T) {
	router := newTestRouter()

	if resp := doRequest(t, router, http.MethodGet, "/v1/cart", blockedTelegramID); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for blocked user, got %d", resp.Code)
	}
}

func TestCustomerGroupSucceedsWithKnownUser(t *testing.T) {
	router := newTestRouter()

	if resp := doRequest(t, router, http.MethodGet, "/v1/cart", customerTelegramID); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for known user, got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminFlag(t *testing.T) {
	router := newTestRouter()

	if resp := doRequest(t, router, http.MethodGet, "/v1/admin/faq", customerTelegramID); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", resp.Code)
	}
	if resp := doRequest(t, router, http.MethodGet, "/v1/admin/faq", adminTelegramID); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", resp.Code)
	}
}
