package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/restbuck/coffeeshop/internal/config"
	"github.com/restbuck/coffeeshop/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return &GormRepo{DB: db}
}

func seedCatalog(t *testing.T, db *gorm.DB) (models.Product, models.Product) {
	t.Helper()

	size := models.Feature{Title: "size", Values: []models.FeatureValue{{Title: "small"}, {Title: "big"}}}
	require.NoError(t, db.Create(&size).Error)
	thermal := models.Feature{Title: "thermal", Values: []models.FeatureValue{{Title: "cold"}, {Title: "hot"}}}
	require.NoError(t, db.Create(&thermal).Error)

	water := models.Product{Title: "water", Cost: 2, FeatureID: &size.ID}
	require.NoError(t, db.Create(&water).Error)
	milk := models.Product{Title: "milk", Cost: 4, FeatureID: &thermal.ID}
	require.NoError(t, db.Create(&milk).Error)

	return water, milk
}

func TestGetOrderExcludesSoftDeleted(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	order := models.Order{UserID: 1}
	require.NoError(t, r.CreateOrder(ctx, &order))

	loaded, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, loaded.ID)

	require.NoError(t, r.MarkDeleted(ctx, &order))

	_, err = r.GetOrder(ctx, order.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListOrdersOwnerOnlyCreationOrder(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first := models.Order{UserID: 1}
	second := models.Order{UserID: 1}
	foreign := models.Order{UserID: 2}
	require.NoError(t, r.CreateOrder(ctx, &first))
	require.NoError(t, r.CreateOrder(ctx, &foreign))
	require.NoError(t, r.CreateOrder(ctx, &second))

	orders, err := r.ListOrders(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, first.ID, orders[0].ID)
	require.Equal(t, second.ID, orders[1].ID)

	require.NoError(t, r.MarkDeleted(ctx, &first))

	orders, err = r.ListOrders(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, second.ID, orders[0].ID)
}

func TestReplaceItemsSwapsWholeSet(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	water, milk := seedCatalog(t, r.DB)

	order := models.Order{UserID: 1}
	require.NoError(t, r.CreateOrder(ctx, &order))

	_, err := r.ReplaceItems(ctx, order.ID, []models.ProductOrder{
		{ProductID: water.ID, Count: 1, ConsumeLocation: models.TakeAway},
		{ProductID: water.ID, Count: 2, ConsumeLocation: models.InShop},
	})
	require.NoError(t, err)

	result, err := r.ReplaceItems(ctx, order.ID, []models.ProductOrder{
		{ProductID: milk.ID, Count: 3, ConsumeLocation: models.InShop},
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, milk.ID, result.Items[0].ProductID)
	require.Equal(t, 3, result.Items[0].Count)
	require.Equal(t, "milk", result.Items[0].Product.Title)

	var count int64
	require.NoError(t, r.DB.Model(&models.ProductOrder{}).Where("order_id = ?", order.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestReplaceItemsClaimsOrderRow(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	water, _ := seedCatalog(t, r.DB)

	order := models.Order{UserID: 1}
	require.NoError(t, r.CreateOrder(ctx, &order))

	var before models.Order
	require.NoError(t, r.DB.First(&before, order.ID).Error)

	result, err := r.ReplaceItems(ctx, order.ID, []models.ProductOrder{
		{ProductID: water.ID, Count: 1, ConsumeLocation: models.TakeAway},
	})
	require.NoError(t, err)

	// the replacement writes the order row itself, that write is what a
	// concurrent replacement serializes behind
	require.GreaterOrEqual(t, result.UpdatedAt, before.UpdatedAt)
	require.NotZero(t, result.UpdatedAt)

	_, err = r.ReplaceItems(ctx, 1000, []models.ProductOrder{
		{ProductID: water.ID, Count: 1, ConsumeLocation: models.TakeAway},
	})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSaveStatusKeepsPreviousEqual(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	order := models.Order{UserID: 1}
	require.NoError(t, r.CreateOrder(ctx, &order))

	require.NoError(t, r.SaveStatus(ctx, &order, models.StatusPreparation))
	require.Equal(t, models.StatusPreparation, order.Status)
	require.Equal(t, order.Status, order.PreviousStatus)

	loaded, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPreparation, loaded.Status)
	require.Equal(t, loaded.Status, loaded.PreviousStatus)
}
