package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/restbuck/coffeeshop/internal/logging"
	"github.com/restbuck/coffeeshop/internal/models"
	"github.com/restbuck/coffeeshop/internal/notify"
	"github.com/restbuck/coffeeshop/internal/repo"
	"github.com/restbuck/coffeeshop/internal/transport"
)

var (
	ErrValidation   = errors.New("validation")    // 400
	ErrInvalidState = errors.New("invalid state") // 400
	ErrForbidden    = errors.New("forbidden")     // 403
	ErrNotFound     = errors.New("not found")     // 404
)

type OrderService struct {
	Repo     *repo.GormRepo
	Notifier notify.Notifier
}

// ListOrders returns the actor's non-deleted orders in creation order.
func (svc *OrderService) ListOrders(ctx context.Context, actor models.User) ([]models.Order, error) {
	return svc.Repo.ListOrders(ctx, actor.ID)
}

// GetOrder returns one order after the existence and ownership checks shared
// by every single-order operation.
func (svc *OrderService) GetOrder(ctx context.Context, id uint, actor models.User) (*models.Order, error) {
	order, err := svc.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	if order.UserID != actor.ID {
		return nil, fmt.Errorf("%w: order %d", ErrForbidden, id)
	}
	return order, nil
}

// CancelOrder soft-deletes the actor's order. Allowed only while the kitchen
// has not picked it up, so status must still be waiting.
func (svc *OrderService) CancelOrder(ctx context.Context, id uint, actor models.User) error {
	order, err := svc.GetOrder(ctx, id, actor)
	if err != nil {
		return err
	}
	if order.Status != models.StatusWaiting {
		return fmt.Errorf("%w: order %d is %s", ErrInvalidState, id, order.Status.Display())
	}
	return svc.Repo.MarkDeleted(ctx, order)
}

// SubmitOrder creates a new waiting order (id == 0) or replaces the line items
// of an existing waiting one. The incoming set is validated as a whole before
// anything is applied, then swapped in atomically.
func (svc *OrderService) SubmitOrder(ctx context.Context, id uint, actor models.User, items []transport.LineItemRequest) (*models.Order, bool, error) {
	if len(items) == 0 {
		return nil, false, fmt.Errorf("%w: items required", ErrValidation)
	}

	var order *models.Order
	if id != 0 {
		existing, err := svc.GetOrder(ctx, id, actor)
		if err != nil {
			return nil, false, err
		}
		if existing.Status != models.StatusWaiting {
			return nil, false, fmt.Errorf("%w: order %d is %s", ErrInvalidState, id, existing.Status.Display())
		}
		order = existing
	}

	// Validate before creating anything: a rejected submit must leave no
	// trace, not even an empty order.
	validated, err := svc.validateItems(ctx, items)
	if err != nil {
		return nil, false, err
	}

	created := false
	if order == nil {
		order = &models.Order{
			UserID:         actor.ID,
			Status:         models.StatusWaiting,
			PreviousStatus: models.StatusWaiting,
			CreatedAt:      time.Now().Unix(),
		}
		if err := svc.Repo.CreateOrder(ctx, order); err != nil {
			return nil, false, err
		}
		created = true
	}

	result, err := svc.Repo.ReplaceItems(ctx, order.ID, validated)
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

// validateItems checks the whole incoming set and reports the first offending
// item. Nothing is persisted here.
func (svc *OrderService) validateItems(ctx context.Context, items []transport.LineItemRequest) ([]models.ProductOrder, error) {
	productIDs := make([]uint, 0, len(items))
	valueIDs := make([]uint, 0, len(items))
	for i := range items {
		if items[i].Count <= 0 {
			return nil, fmt.Errorf("%w: item %d: count must be > 0", ErrValidation, i+1)
		}
		loc := models.ConsumeLocation(items[i].ConsumeLocation)
		if !loc.Valid() {
			return nil, fmt.Errorf("%w: item %d: unknown consume location %d", ErrValidation, i+1, items[i].ConsumeLocation)
		}
		productIDs = append(productIDs, items[i].Product)
		if items[i].FeatureValue != nil {
			valueIDs = append(valueIDs, *items[i].FeatureValue)
		}
	}

	products, err := svc.Repo.ProductsByID(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	values, err := svc.Repo.FeatureValuesByID(ctx, valueIDs)
	if err != nil {
		return nil, err
	}

	validated := make([]models.ProductOrder, 0, len(items))
	for i := range items {
		product, ok := products[items[i].Product]
		if !ok {
			return nil, fmt.Errorf("%w: item %d: unknown product %d", ErrValidation, i+1, items[i].Product)
		}

		var valueID *uint
		if product.FeatureID != nil {
			if items[i].FeatureValue == nil {
				return nil, fmt.Errorf("%w: item %d: product %q requires a %s choice", ErrValidation, i+1, product.Title, product.Feature.Title)
			}
			value, ok := values[*items[i].FeatureValue]
			if !ok {
				return nil, fmt.Errorf("%w: item %d: unknown feature value %d", ErrValidation, i+1, *items[i].FeatureValue)
			}
			if value.FeatureID != *product.FeatureID {
				return nil, fmt.Errorf("%w: item %d: feature value %q does not belong to %s", ErrValidation, i+1, value.Title, product.Feature.Title)
			}
			valueID = &value.ID
		} else if items[i].FeatureValue != nil {
			return nil, fmt.Errorf("%w: item %d: product %q takes no feature choice", ErrValidation, i+1, product.Title)
		}

		validated = append(validated, models.ProductOrder{
			ProductID:       product.ID,
			Count:           items[i].Count,
			ConsumeLocation: models.ConsumeLocation(items[i].ConsumeLocation),
			FeatureValueID:  valueID,
		})
	}
	return validated, nil
}

// AdvanceStatus is the manager-side capability moving an order forward through
// the kitchen pipeline. The client is notified once per transition, after the
// change is persisted, and delivery failures never surface here.
func (svc *OrderService) AdvanceStatus(ctx context.Context, id uint, next models.OrderStatus) (*models.Order, error) {
	order, err := svc.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	if !models.CanAdvance(order.Status, next) {
		return nil, fmt.Errorf("%w: order %d cannot go from %s to %s", ErrInvalidState, id, order.Status.Display(), next.Display())
	}

	previous := order.Status
	if err := svc.Repo.SaveStatus(ctx, order, next); err != nil {
		return nil, err
	}

	if previous != order.Status {
		user, err := svc.Repo.GetUser(ctx, order.UserID)
		if err != nil {
			logging.FromContext(ctx).Error("notify_user_lookup_failed", "orderID", order.ID, "userID", order.UserID, "error", err)
			return order, nil
		}
		svc.Notifier.NotifyStatusChange(ctx, *user, order.ID, previous, order.Status)
	}
	return order, nil
}
