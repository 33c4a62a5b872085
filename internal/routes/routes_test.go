package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-booking/internal/config"
	"github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/middleware"
	"github.com/BruksfildServices01/salon-booking/internal/models"
	"github.com/BruksfildServices01/salon-booking/internal/notify"
	"github.com/BruksfildServices01/salon-booking/internal/testutil"
)

const jwtSecret = "routes-test-secret"

type recorder struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (r *recorder) Notify(msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

type fixture struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
	notes  *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AppEnv:          "test",
		JWTSecret:       jwtSecret,
		SalonTimezone:   "UTC",
		BusinessHours:   booking.DefaultBusinessHours(),
		RateLimitPerMin: 10000,
	}

	db := testutil.NewDB(t)
	notes := &recorder{}

	r := NewEngine(cfg, zap.NewNop())
	RegisterRoutes(r, Dependencies{
		DB:         db,
		Config:     cfg,
		Logger:     zap.NewNop(),
		Notifier:   notes,
		EmailCheck: func(context.Context, string) bool { return true },
	})

	return &fixture{t: t, db: db, engine: r, notes: notes}
}

func (f *fixture) token(u models.User) string {
	f.t.Helper()
	tok, err := middleware.IssueToken(jwtSecret, u.ID, u.Role, time.Now())
	if err != nil {
		f.t.Fatalf("issue token: %v", err)
	}
	return tok
}

func (f *fixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	f.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			f.t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return out
}

type errorBody struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, w.Code, w.Body.String())
	}
	if got := decode[errorBody](t, w); got.Code != code || got.Message == "" {
		t.Fatalf("expected %s with a message, got %+v", code, got)
	}
}

type salon struct {
	client, stylistUser, admin models.User
	stylist                    models.Stylist
	cut                        models.Service
}

func seedSalon(f *fixture) salon {
	var s salon
	s.client = testutil.SeedUser(f.t, f.db, "client@salon.example", models.RoleUser)
	s.stylistUser = testutil.SeedUser(f.t, f.db, "bia@salon.example", models.RoleStylist)
	s.admin = testutil.SeedUser(f.t, f.db, "admin@salon.example", models.RoleAdmin)
	s.stylist = testutil.SeedStylist(f.t, f.db, "Bia", &s.stylistUser.ID)
	s.cut = testutil.SeedService(f.t, f.db, "Cut", 45)
	return s
}

func bookingBody(s salon, location, clock string) map[string]any {
	return map[string]any{
		"stylist_id":    s.stylist.ID,
		"service_ids":   []uint{s.cut.ID},
		"location_type": location,
		"date":          "2025-01-06",
		"time":          clock,
	}
}

func TestBookingFlow(t *testing.T) {
	f := newFixture(t)
	s := seedSalon(f)
	client := f.token(s.client)

	// Scenario A: an empty Monday.
	w := f.do(http.MethodGet, "/api/availability?date=2025-01-06&stylist_id=1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("availability: %d %s", w.Code, w.Body.String())
	}
	avail := decode[booking.Availability](t, w)
	if len(avail.AllSlots) != 10 || len(avail.Available) != 10 {
		t.Fatalf("expected 10 free slots, got %+v", avail)
	}

	// Book 14:00.
	w = f.do(http.MethodPost, "/api/bookings", client, bookingBody(s, "Salon", "14:00"))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	created := decode[models.Booking](t, w)
	if created.ID == 0 || created.Status != "pending" {
		t.Fatalf("unexpected booking %+v", created)
	}

	// Scenario D: same slot again.
	w = f.do(http.MethodPost, "/api/bookings", client, bookingBody(s, "Salon", "14:00"))
	expectError(t, w, http.StatusConflict, booking.CodeSlotAlreadyBooked)

	// Scenario B: 14:00 is gone for this stylist.
	w = f.do(http.MethodGet, "/api/availability?date=2025-01-06&stylist_id=1", "", nil)
	avail = decode[booking.Availability](t, w)
	if len(avail.Available) != 9 {
		t.Fatalf("expected 9 free slots, got %v", avail.Available)
	}
	for _, label := range avail.Available {
		if label == "14:00" {
			t.Fatalf("14:00 must not be available")
		}
	}
	if got := avail.BookedSlotsByStylist[s.stylist.ID]; len(got) != 1 || got[0] != "14:00" {
		t.Fatalf("unexpected booked slots %v", avail.BookedSlotsByStylist)
	}

	// A stranger cannot confirm, the booked stylist can.
	other := testutil.SeedUser(t, f.db, "other@salon.example", models.RoleUser)
	w = f.do(http.MethodPatch, "/api/bookings/1/confirm", f.token(other), nil)
	expectError(t, w, http.StatusForbidden, booking.CodeForbidden)

	w = f.do(http.MethodPatch, "/api/bookings/1/confirm", f.token(s.stylistUser), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("confirm: %d %s", w.Code, w.Body.String())
	}

	// Cancelling frees the slot.
	w = f.do(http.MethodPatch, "/api/bookings/1/cancel", client, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: %d %s", w.Code, w.Body.String())
	}
	w = f.do(http.MethodPatch, "/api/bookings/1/confirm", f.token(s.admin), nil)
	expectError(t, w, http.StatusBadRequest, booking.CodeInvalidState)

	w = f.do(http.MethodPost, "/api/bookings", client, bookingBody(s, "salon", "14:00"))
	if w.Code != http.StatusCreated {
		t.Fatalf("rebook after cancel: %d %s", w.Code, w.Body.String())
	}

	// Listings.
	w = f.do(http.MethodGet, "/api/me/bookings", client, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me/bookings: %d", w.Code)
	}
	mine := decode[struct {
		Total int `json:"total"`
	}](t, w)
	if mine.Total != 2 {
		t.Fatalf("expected 2 bookings for the client, got %d", mine.Total)
	}

	w = f.do(http.MethodGet, "/api/stylist/bookings?date=2025-01-06", f.token(s.stylistUser), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stylist/bookings: %d %s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodGet, "/api/admin/bookings?from=2025-01-06&to=2025-01-06&status=pending", f.token(s.admin), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin/bookings: %d %s", w.Code, w.Body.String())
	}
	pending := decode[struct {
		Total int `json:"total"`
	}](t, w)
	if pending.Total != 1 {
		t.Fatalf("expected 1 pending booking, got %d", pending.Total)
	}

	if len(f.notes.msgs) == 0 {
		t.Fatalf("expected notifications to be queued")
	}
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)
	s := seedSalon(f)
	client := f.token(s.client)

	// Scenario C: salon before opening.
	w := f.do(http.MethodPost, "/api/bookings", client, bookingBody(s, "salon", "08:00"))
	expectError(t, w, http.StatusBadRequest, booking.CodeOutsideBusinessHours)

	// Scenario E: home visits ignore the template.
	body := bookingBody(s, "home", "21:00")
	body["address"] = "Rua A, 10"
	w = f.do(http.MethodPost, "/api/bookings", client, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("home booking: %d %s", w.Code, w.Body.String())
	}

	body = bookingBody(s, "salon", "10:00")
	delete(body, "stylist_id")
	w = f.do(http.MethodPost, "/api/bookings", client, body)
	expectError(t, w, http.StatusBadRequest, booking.CodeMissingField)

	body = bookingBody(s, "salon", "10:00")
	delete(body, "date")
	delete(body, "time")
	w = f.do(http.MethodPost, "/api/bookings", client, body)
	expectError(t, w, http.StatusBadRequest, booking.CodeMissingField)

	body = bookingBody(s, "salon", "10:00")
	body["date"] = "06/01/2025"
	w = f.do(http.MethodPost, "/api/bookings", client, body)
	expectError(t, w, http.StatusBadRequest, booking.CodeInvalidRequest)

	w = f.do(http.MethodPost, "/api/bookings", "", bookingBody(s, "salon", "10:00"))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	w = f.do(http.MethodGet, "/api/availability?date=tomorrow", "", nil)
	expectError(t, w, http.StatusBadRequest, booking.CodeInvalidRequest)
}

func TestAvailabilityOnClosedDay(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/availability?date=2025-01-05", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("availability: %d %s", w.Code, w.Body.String())
	}
	avail := decode[booking.Availability](t, w)
	if !avail.Closed || len(avail.AllSlots) != 0 || len(avail.Available) != 0 {
		t.Fatalf("expected a closed day, got %+v", avail)
	}
}

func TestAuthRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	reg := map[string]any{"name": "Ana", "email": "Ana@Salon.Example", "password": "secret1"}
	w := f.do(http.MethodPost, "/api/auth/register", "", reg)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodPost, "/api/auth/register", "", reg)
	expectError(t, w, http.StatusConflict, "email_already_registered")

	w = f.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ana@salon.example", "password": "wrong!!"})
	expectError(t, w, http.StatusUnauthorized, "invalid_credentials")

	w = f.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ana@salon.example", "password": "secret1"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	login := decode[struct {
		Token string `json:"token"`
	}](t, w)

	w = f.do(http.MethodGet, "/api/me", login.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: %d %s", w.Code, w.Body.String())
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	f := newFixture(t)
	s := seedSalon(f)

	w := f.do(http.MethodGet, "/api/admin/users", f.token(s.client), nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	w = f.do(http.MethodPatch, "/api/admin/users/1/role", f.token(s.admin), map[string]any{"role": "owner"})
	expectError(t, w, http.StatusBadRequest, "invalid_role")

	w = f.do(http.MethodPatch, "/api/admin/users/1/role", f.token(s.admin), map[string]any{"role": "stylist"})
	if w.Code != http.StatusOK {
		t.Fatalf("role change: %d %s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodPost, "/api/admin/stylists/1/image", f.token(s.admin), nil)
	expectError(t, w, http.StatusServiceUnavailable, "storage_disabled")
}

func TestCartAndCheckout(t *testing.T) {
	f := newFixture(t)
	s := seedSalon(f)
	client := f.token(s.client)
	admin := f.token(s.admin)

	w := f.do(http.MethodPost, "/api/admin/products", admin, map[string]any{"name": "Shampoo", "price": 20, "stock": 3})
	if w.Code != http.StatusCreated {
		t.Fatalf("create product: %d %s", w.Code, w.Body.String())
	}
	product := decode[models.Product](t, w)

	for i := 0; i < 2; i++ {
		w = f.do(http.MethodPost, "/api/cart", client, map[string]any{"product_id": product.ID, "quantity": 1})
		if w.Code != http.StatusOK {
			t.Fatalf("add to cart: %d %s", w.Code, w.Body.String())
		}
	}
	cart := decode[struct {
		Items []models.CartItem `json:"items"`
		Total float64           `json:"total"`
	}](t, w)
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 || cart.Total != 40 {
		t.Fatalf("unexpected cart %+v", cart)
	}

	w = f.do(http.MethodPost, "/api/checkout", client, map[string]any{"shipping_address": "Rua A, 10"})
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout: %d %s", w.Code, w.Body.String())
	}
	order := decode[models.Order](t, w)
	if order.Total != 40 || order.Reference == "" {
		t.Fatalf("unexpected order %+v", order)
	}

	w = f.do(http.MethodPost, "/api/checkout", client, nil)
	expectError(t, w, http.StatusBadRequest, "empty_cart")

	w = f.do(http.MethodPatch, "/api/admin/orders/1/status", admin, map[string]any{"status": "shipped"})
	if w.Code != http.StatusOK {
		t.Fatalf("ship: %d %s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodGet, "/api/me/orders", client, nil)
	mine := decode[struct {
		Total int `json:"total"`
	}](t, w)
	if mine.Total != 1 {
		t.Fatalf("expected 1 order, got %d", mine.Total)
	}
}

func TestCartQuantityIsCapped(t *testing.T) {
	f := newFixture(t)
	s := seedSalon(f)
	client := f.token(s.client)
	admin := f.token(s.admin)

	w := f.do(http.MethodPost, "/api/admin/products", admin, map[string]any{"name": "Conditioner", "price": 15, "stock": 500})
	if w.Code != http.StatusCreated {
		t.Fatalf("create product: %d %s", w.Code, w.Body.String())
	}
	product := decode[models.Product](t, w)

	for i := 0; i < 2; i++ {
		w = f.do(http.MethodPost, "/api/cart", client, map[string]any{"product_id": product.ID, "quantity": 60})
		if w.Code != http.StatusOK {
			t.Fatalf("add to cart: %d %s", w.Code, w.Body.String())
		}
	}
	cart := decode[struct {
		Items []models.CartItem `json:"items"`
	}](t, w)
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 99 {
		t.Fatalf("expected quantity capped at 99, got %+v", cart.Items)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
}
