package service

import (
	"context"

	"github.com/restbuck/coffeeshop/internal/repo"
	"github.com/restbuck/coffeeshop/internal/transport"
)

// CatalogService is the read-only menu projection.
type CatalogService struct {
	Repo *repo.GormRepo
}

func (svc *CatalogService) Menu(ctx context.Context) ([]transport.ProductResponse, error) {
	products, err := svc.Repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return transport.ProductsToResponse(products), nil
}
