package repo

import (
	"context"

	"github.com/restbuck/coffeeshop/internal/models"
)

// ListProducts returns the whole menu with each product's feature and its
// selectable values.
func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	q := r.DB.WithContext(ctx).Preload("Feature.Values").Order("id ASC")
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ProductsByID loads the referenced products keyed by id, feature included,
// for line-item validation.
func (r *GormRepo) ProductsByID(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	var products []models.Product
	if err := r.DB.WithContext(ctx).Preload("Feature").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func (r *GormRepo) FeatureValuesByID(ctx context.Context, ids []uint) (map[uint]models.FeatureValue, error) {
	var values []models.FeatureValue
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&values).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.FeatureValue, len(values))
	for _, v := range values {
		byID[v.ID] = v
	}
	return byID, nil
}
