package transport

import (
	"github.com/restbuck/coffeeshop/internal/models"
)

// DataResponse is the success envelope every read and write replies with.
type DataResponse struct {
	Data  interface{} `json:"data"`
	Error bool        `json:"error"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type LineItemRequest struct {
	Product         uint  `json:"product"`
	Count           int   `json:"count"`
	ConsumeLocation int   `json:"consume_location"`
	FeatureValue    *uint `json:"feature_value"`
}

type SubmitOrderRequest struct {
	Data []LineItemRequest `json:"data"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type ProductOrderResponse struct {
	Product                uint   `json:"product"`
	ProductTitle           string `json:"product_title"`
	Count                  int    `json:"count"`
	ConsumeLocation        int    `json:"consume_location"`
	ConsumeLocationDisplay string `json:"consume_location_display"`
	FeatureValue           *uint  `json:"feature_value"`
	FeatureValueTitle      string `json:"feature_value_title,omitempty"`
}

type OrderResponse struct {
	ID          uint                   `json:"id"`
	Status      string                 `json:"status"`
	ProductList []ProductOrderResponse `json:"product_list"`
}

func OrderToResponse(order *models.Order) OrderResponse {
	items := make([]ProductOrderResponse, 0, len(order.Items))
	for _, it := range order.Items {
		resp := ProductOrderResponse{
			Product:                it.ProductID,
			ProductTitle:           it.Product.Title,
			Count:                  it.Count,
			ConsumeLocation:        int(it.ConsumeLocation),
			ConsumeLocationDisplay: it.ConsumeLocation.Display(),
			FeatureValue:           it.FeatureValueID,
		}
		if it.FeatureValue != nil {
			resp.FeatureValueTitle = it.FeatureValue.Title
		}
		items = append(items, resp)
	}
	return OrderResponse{
		ID:          order.ID,
		Status:      order.Status.Display(),
		ProductList: items,
	}
}

func OrdersToResponse(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, OrderToResponse(&orders[i]))
	}
	return out
}

type FeatureValueResponse struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type FeatureResponse struct {
	Title     string                 `json:"title"`
	ValueList []FeatureValueResponse `json:"value_list"`
}

type ProductResponse struct {
	ID              uint                           `json:"id"`
	Title           string                         `json:"title"`
	Cost            uint                           `json:"cost"`
	ConsumeLocation []models.ConsumeLocationOption `json:"consume_location"`
	FeatureList     []FeatureResponse              `json:"feature_list"`
}

func ProductToResponse(p *models.Product) ProductResponse {
	resp := ProductResponse{
		ID:              p.ID,
		Title:           p.Title,
		Cost:            p.Cost,
		ConsumeLocation: models.ConsumeLocationOptions(),
		FeatureList:     []FeatureResponse{},
	}
	if p.Feature != nil {
		feature := FeatureResponse{Title: p.Feature.Title, ValueList: []FeatureValueResponse{}}
		for _, v := range p.Feature.Values {
			feature.ValueList = append(feature.ValueList, FeatureValueResponse{ID: v.ID, Title: v.Title})
		}
		resp.FeatureList = append(resp.FeatureList, feature)
	}
	return resp
}

func ProductsToResponse(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ProductToResponse(&products[i]))
	}
	return out
}
