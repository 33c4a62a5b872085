package order

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-booking/internal/audit"
	domain "github.com/BruksfildServices01/salon-booking/internal/domain/order"
	"github.com/BruksfildServices01/salon-booking/internal/httperr"
	"github.com/BruksfildServices01/salon-booking/internal/models"
	"github.com/BruksfildServices01/salon-booking/internal/notify"
)

type Checkout struct {
	db       *gorm.DB
	notifier notify.Notifier
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func NewCheckout(db *gorm.DB, notifier notify.Notifier, audit *audit.Dispatcher, log *zap.Logger) *Checkout {
	return &Checkout{db: db, notifier: notifier, audit: audit, log: log}
}

// Execute turns the user's cart into a pending order. Stock is decremented
// with a conditional update so two checkouts cannot oversell.
func (uc *Checkout) Execute(ctx context.Context, userID uint, shippingAddress string) (*models.Order, error) {
	var order models.Order

	err := uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Preload("Product").
			Where("user_id = ?", userID).
			Order("id ASC").
			Find(&items).Error; err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if len(items) == 0 {
			return httperr.ErrBusinessMsg(domain.CodeEmptyCart, "Your cart is empty.")
		}

		lines := make([]models.OrderLine, 0, len(items))
		var total float64

		for _, it := range items {
			if it.Product == nil || !it.Product.Active {
				return httperr.ErrBusinessMsg(domain.CodeProductNotFound, "A product in your cart is no longer available.")
			}

			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", it.ProductID, it.Quantity).
				Update("stock", gorm.Expr("stock - ?", it.Quantity))
			if res.Error != nil {
				return fmt.Errorf("decrement stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return httperr.ErrBusinessMsg(domain.CodeInsufficientStock, "Not enough stock for "+it.Product.Name+".")
			}

			lines = append(lines, models.OrderLine{
				ProductID: it.ProductID,
				Name:      it.Product.Name,
				UnitPrice: it.Product.Price,
				Quantity:  it.Quantity,
			})
			total += it.Product.Price * float64(it.Quantity)
		}

		order = models.Order{
			Reference:       uuid.NewString(),
			UserID:          userID,
			Lines:           datatypes.NewJSONSlice(lines),
			Total:           math.Round(total*100) / 100,
			Status:          string(domain.StatusPending),
			ShippingAddress: shippingAddress,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		var be httperr.BusinessError
		if errors.As(err, &be) {
			return nil, err
		}
		return nil, httperr.Wrap("store_unavailable", "Could not place the order, try again.", err)
	}

	uid, oid := userID, order.ID
	uc.audit.Dispatch(audit.Event{
		UserID:   &uid,
		Action:   "order_created",
		Entity:   "order",
		EntityID: &oid,
		Metadata: map[string]any{"reference": order.Reference, "total": order.Total},
	})

	if err := uc.notifier.Notify(notify.Message{
		Audience: notify.AudienceUser,
		UserID:   userID,
		Event:    "order_created",
		Subject:  "Order received",
		Body:     fmt.Sprintf("We received order %s, total %.2f.", order.Reference, order.Total),
		Data:     map[string]any{"order_id": order.ID},
	}); err != nil {
		uc.log.Warn("order notification failed", zap.Uint("order_id", order.ID), zap.Error(err))
	}

	return &order, nil
}
