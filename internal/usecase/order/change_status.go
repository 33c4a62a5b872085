package order

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-booking/internal/audit"
	domain "github.com/BruksfildServices01/salon-booking/internal/domain/order"
	"github.com/BruksfildServices01/salon-booking/internal/httperr"
	"github.com/BruksfildServices01/salon-booking/internal/models"
	"github.com/BruksfildServices01/salon-booking/internal/notify"
)

type ChangeOrderStatus struct {
	db       *gorm.DB
	notifier notify.Notifier
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func NewChangeOrderStatus(db *gorm.DB, notifier notify.Notifier, audit *audit.Dispatcher, log *zap.Logger) *ChangeOrderStatus {
	return &ChangeOrderStatus{db: db, notifier: notifier, audit: audit, log: log}
}

func (uc *ChangeOrderStatus) Execute(ctx context.Context, adminID, orderID uint, status string) (*models.Order, error) {
	to, ok := domain.ParseStatus(status)
	if !ok {
		return nil, httperr.ErrBusinessMsg(domain.CodeInvalidRequest, "Unknown order status.")
	}

	var order models.Order
	err := uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrBusinessMsg(domain.CodeOrderNotFound, "Order not found.")
			}
			return fmt.Errorf("load order: %w", err)
		}

		from := domain.Status(order.Status)
		if err := domain.CanTransition(from, to); err != nil {
			return err
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, string(from)).
			Update("status", string(to))
		if res.Error != nil {
			return fmt.Errorf("update order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return httperr.ErrBusinessMsg(domain.CodeInvalidState, "Order changed concurrently, reload and retry.")
		}
		order.Status = string(to)

		if domain.RestoresStock(to) {
			for _, line := range order.Lines {
				if err := tx.Model(&models.Product{}).
					Where("id = ?", line.ProductID).
					Update("stock", gorm.Expr("stock + ?", line.Quantity)).Error; err != nil {
					return fmt.Errorf("restore stock: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		var be httperr.BusinessError
		if errors.As(err, &be) {
			return nil, err
		}
		return nil, httperr.Wrap("store_unavailable", "Could not update the order, try again.", err)
	}

	aid, oid := adminID, order.ID
	uc.audit.Dispatch(audit.Event{
		UserID:   &aid,
		Action:   "order_" + string(to),
		Entity:   "order",
		EntityID: &oid,
	})

	if err := uc.notifier.Notify(notify.Message{
		Audience: notify.AudienceUser,
		UserID:   order.UserID,
		Event:    "order_" + string(to),
		Subject:  "Order update",
		Body:     fmt.Sprintf("Order %s is now %s.", order.Reference, to),
		Data:     map[string]any{"order_id": order.ID, "status": order.Status},
	}); err != nil {
		uc.log.Warn("order notification failed", zap.Uint("order_id", order.ID), zap.Error(err))
	}

	return &order, nil
}
