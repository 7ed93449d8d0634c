package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/restbuck/coffeeshop/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("product_orders.id ASC") }).
		Preload("Items.Product").
		Preload("Items.FeatureValue")
}

// GetOrder loads one order with its items. Soft-deleted orders are invisible,
// the caller gets gorm.ErrRecordNotFound for them.
func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	q := r.withItems(r.DB.WithContext(ctx)).Where("id = ? AND is_deleted = ?", id, false)
	if err := q.First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	q := r.withItems(r.DB.WithContext(ctx)).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("id ASC")
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

// ReplaceItems swaps the whole line-item set of an order in one transaction, so
// a concurrent reader sees either the old set or the new one, never a mix.
func (r *GormRepo) ReplaceItems(ctx context.Context, orderID uint, items []models.ProductOrder) (*models.Order, error) {
	var order models.Order
	txErr := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Claim the order row before touching the items. A concurrent
		// replacement of the same order blocks on this write until we commit,
		// and its delete then covers our freshly inserted rows. Without the
		// claim, two writers under read committed can each miss the other's
		// inserts and leave a union of both sets behind.
		res := tx.Model(&models.Order{}).Where("id = ?", orderID).
			Update("updated_at", time.Now().Unix())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("order_id = ?", orderID).Delete(&models.ProductOrder{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].OrderID = orderID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return r.withItems(tx).First(&order, orderID).Error
	})
	if txErr != nil {
		return nil, txErr
	}
	return &order, nil
}

// SaveStatus persists a status transition. PreviousStatus is brought up to the
// new value in the same write, so a stored order always has the two equal and
// a later no-op save cannot re-trigger a notification.
func (r *GormRepo) SaveStatus(ctx context.Context, order *models.Order, next models.OrderStatus) error {
	err := r.DB.WithContext(ctx).Model(order).Updates(map[string]interface{}{
		"previous_status": next,
		"status":          next,
	}).Error
	if err != nil {
		return err
	}
	order.PreviousStatus = next
	order.Status = next
	return nil
}

func (r *GormRepo) MarkDeleted(ctx context.Context, order *models.Order) error {
	if err := r.DB.WithContext(ctx).Model(order).Update("is_deleted", true).Error; err != nil {
		return err
	}
	order.IsDeleted = true
	return nil
}

func (r *GormRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
