package order

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/salon-booking/internal/domain/order"
	"github.com/BruksfildServices01/salon-booking/internal/httperr"
	"github.com/BruksfildServices01/salon-booking/internal/models"
	"github.com/BruksfildServices01/salon-booking/internal/notify"
	"github.com/BruksfildServices01/salon-booking/internal/testutil"
)

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

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: price, Stock: stock, Active: true}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func addToCart(t *testing.T, db *gorm.DB, userID, productID uint, qty int) {
	t.Helper()
	if err := db.Create(&models.CartItem{UserID: userID, ProductID: productID, Quantity: qty}).Error; err != nil {
		t.Fatalf("seed cart: %v", err)
	}
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	if err := db.First(&p, id).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	return p.Stock
}

func TestCheckout_PlacesOrderAndClearsCart(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "ana@salon.example", models.RoleUser)
	shampoo := seedProduct(t, db, "Shampoo", 19.90, 5)
	oil := seedProduct(t, db, "Oil", 35.50, 2)
	addToCart(t, db, user.ID, shampoo.ID, 2)
	addToCart(t, db, user.ID, oil.ID, 1)

	n := &recorder{}
	uc := NewCheckout(db, n, nil, zap.NewNop())

	order, err := uc.Execute(context.Background(), user.ID, "Rua A, 10")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if order.Total != 75.30 {
		t.Fatalf("expected total 75.30, got %v", order.Total)
	}
	if len(order.Lines) != 2 || order.Lines[0].Name != "Shampoo" {
		t.Fatalf("unexpected lines %+v", order.Lines)
	}
	if order.Reference == "" || order.Status != string(domain.StatusPending) {
		t.Fatalf("unexpected order %+v", order)
	}
	if stockOf(t, db, shampoo.ID) != 3 || stockOf(t, db, oil.ID) != 1 {
		t.Fatalf("stock not decremented")
	}

	var left int64
	db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&left)
	if left != 0 {
		t.Fatalf("expected empty cart, got %d items", left)
	}
	if len(n.msgs) != 1 || n.msgs[0].UserID != user.ID {
		t.Fatalf("expected one customer notification, got %+v", n.msgs)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "ana@salon.example", models.RoleUser)

	_, err := NewCheckout(db, &recorder{}, nil, zap.NewNop()).Execute(context.Background(), user.ID, "")
	if !httperr.IsBusiness(err, domain.CodeEmptyCart) {
		t.Fatalf("expected empty_cart, got %v", err)
	}
}

func TestCheckout_InsufficientStockRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "ana@salon.example", models.RoleUser)
	shampoo := seedProduct(t, db, "Shampoo", 10, 5)
	oil := seedProduct(t, db, "Oil", 10, 1)
	addToCart(t, db, user.ID, shampoo.ID, 2)
	addToCart(t, db, user.ID, oil.ID, 3)

	_, err := NewCheckout(db, &recorder{}, nil, zap.NewNop()).Execute(context.Background(), user.ID, "")
	if !httperr.IsBusiness(err, domain.CodeInsufficientStock) {
		t.Fatalf("expected insufficient_stock, got %v", err)
	}

	if stockOf(t, db, shampoo.ID) != 5 {
		t.Fatalf("expected the first decrement to roll back")
	}
	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	if orders != 0 {
		t.Fatalf("expected no order, got %d", orders)
	}
}

func TestChangeOrderStatus_CancelRestoresStock(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "ana@salon.example", models.RoleUser)
	admin := testutil.SeedUser(t, db, "admin@salon.example", models.RoleAdmin)
	shampoo := seedProduct(t, db, "Shampoo", 10, 5)
	addToCart(t, db, user.ID, shampoo.ID, 4)

	n := &recorder{}
	order, err := NewCheckout(db, n, nil, zap.NewNop()).Execute(context.Background(), user.ID, "")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	uc := NewChangeOrderStatus(db, n, nil, zap.NewNop())

	if _, err := uc.Execute(context.Background(), admin.ID, order.ID, "shipped"); err != nil {
		t.Fatalf("ship: %v", err)
	}
	if _, err := uc.Execute(context.Background(), admin.ID, order.ID, "pending"); !httperr.IsBusiness(err, domain.CodeInvalidState) {
		t.Fatalf("expected invalid_state, got %v", err)
	}

	got, err := uc.Execute(context.Background(), admin.ID, order.ID, "cancelled")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != string(domain.StatusCancelled) {
		t.Fatalf("unexpected status %s", got.Status)
	}
	if stockOf(t, db, shampoo.ID) != 5 {
		t.Fatalf("expected stock restored to 5, got %d", stockOf(t, db, shampoo.ID))
	}

	if _, err := uc.Execute(context.Background(), admin.ID, order.ID, "delivered"); !httperr.IsBusiness(err, domain.CodeInvalidState) {
		t.Fatalf("expected cancelled to be terminal, got %v", err)
	}
}

func TestChangeOrderStatus_Validation(t *testing.T) {
	db := testutil.NewDB(t)
	uc := NewChangeOrderStatus(db, &recorder{}, nil, zap.NewNop())

	if _, err := uc.Execute(context.Background(), 1, 1, "lost"); !httperr.IsBusiness(err, domain.CodeInvalidRequest) {
		t.Fatalf("expected invalid_request, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), 1, 99, "shipped"); !httperr.IsBusiness(err, domain.CodeOrderNotFound) {
		t.Fatalf("expected order_not_found, got %v", err)
	}
}
