package models

// ConsumeLocation is where the client wants to consume a line item.
type ConsumeLocation int

const (
	TakeAway ConsumeLocation = 0
	InShop   ConsumeLocation = 1
)

func (l ConsumeLocation) Valid() bool {
	return l == TakeAway || l == InShop
}

func (l ConsumeLocation) Display() string {
	switch l {
	case TakeAway:
		return "take away"
	case InShop:
		return "in shop"
	}
	return "unknown"
}

// ConsumeLocationOption is one selectable location shown on the menu.
type ConsumeLocationOption struct {
	Code    ConsumeLocation `json:"code"`
	Display string          `json:"display"`
}

func ConsumeLocationOptions() []ConsumeLocationOption {
	return []ConsumeLocationOption{
		{Code: TakeAway, Display: TakeAway.Display()},
		{Code: InShop, Display: InShop.Display()},
	}
}

// OrderStatus is the kitchen pipeline state of an order. Cancellation is not a
// status, it lives on Order.IsDeleted.
type OrderStatus int

const (
	StatusWaiting     OrderStatus = 0
	StatusPreparation OrderStatus = 1
	StatusReady       OrderStatus = 2
	StatusDelivered   OrderStatus = 3
)

func (s OrderStatus) Valid() bool {
	return s >= StatusWaiting && s <= StatusDelivered
}

func (s OrderStatus) Display() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusPreparation:
		return "preparation"
	case StatusReady:
		return "ready"
	case StatusDelivered:
		return "delivered"
	}
	return "unknown"
}

// ParseOrderStatus maps a display label back to its status code.
func ParseOrderStatus(label string) (OrderStatus, bool) {
	for s := StatusWaiting; s <= StatusDelivered; s++ {
		if s.Display() == label {
			return s, true
		}
	}
	return 0, false
}

// CanAdvance reports whether the manager may move an order from one status to
// another. The pipeline is forward-only, no-ops and reverse moves are rejected.
func CanAdvance(from, to OrderStatus) bool {
	return to.Valid() && to > from
}

type Feature struct {
	ID     uint           `gorm:"primaryKey;autoIncrement"    json:"id"`
	Title  string         `gorm:"not null"                    json:"title"`
	Values []FeatureValue `gorm:"constraint:OnDelete:CASCADE" json:"values,omitempty"`
}

type FeatureValue struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	FeatureID uint   `gorm:"index;not null"  json:"feature_id"`
	Title     string `gorm:"not null"        json:"title"`
}

type Product struct {
	ID        uint     `gorm:"primaryKey;autoIncrement"     json:"id"`
	Title     string   `gorm:"not null"                     json:"title"`
	Cost      uint     `gorm:"not null"                     json:"cost"`
	FeatureID *uint    `gorm:"index"                        json:"feature_id,omitempty"`
	Feature   *Feature `gorm:"constraint:OnDelete:RESTRICT" json:"feature,omitempty"`
}

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"unique;not null"          json:"username"`
	Email    string `gorm:"not null"                 json:"email"`
	Role     string `gorm:"not null"                 json:"role"`
}

type Order struct {
	ID             uint           `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID         uint           `gorm:"index;not null"              json:"user_id"`
	Status         OrderStatus    `gorm:"not null;default:0"          json:"status"`
	PreviousStatus OrderStatus    `gorm:"not null;default:0"          json:"previous_status"`
	IsDeleted      bool           `gorm:"not null;default:false"      json:"is_deleted"`
	CreatedAt      int64          `gorm:"not null"                    json:"created_at"`
	UpdatedAt      int64          `gorm:"not null;autoUpdateTime"     json:"updated_at"`
	Items          []ProductOrder `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// ProductOrder is one line item of an order. Line items have no lifecycle of
// their own, submit replaces them as a whole set.
type ProductOrder struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"  json:"id"`
	OrderID         uint            `gorm:"index;not null"            json:"order_id"`
	ProductID       uint            `gorm:"not null"                  json:"product_id"`
	Product         Product         `json:"product,omitempty"`
	Count           int             `gorm:"not null;check:count > 0"  json:"count"`
	ConsumeLocation ConsumeLocation `gorm:"not null"                  json:"consume_location"`
	FeatureValueID  *uint           `json:"feature_value_id,omitempty"`
	FeatureValue    *FeatureValue   `json:"feature_value,omitempty"`
}
