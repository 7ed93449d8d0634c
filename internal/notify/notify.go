package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/restbuck/coffeeshop/internal/events"
	"github.com/restbuck/coffeeshop/internal/models"
)

// Notifier informs a client that the kitchen moved their order to a new status.
// Implementations are best-effort: they must never block or fail the mutation
// that triggered them.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, user models.User, orderID uint, previous, next models.OrderStatus)
}

const (
	emailSubject      = "Order state changed!"
	emailBodyTemplate = "your order numbered %d has been changed from %s state to %s.\n Best\nRestBucks CoffeeShop"
)

// KafkaNotifier hands status-change events to the mail worker over kafka.
// Publish runs detached from the request with its own timeout, a failed
// delivery is logged and dropped.
type KafkaNotifier struct {
	Producer *events.Producer
	Topic    string
	Log      *slog.Logger
}

func (n *KafkaNotifier) NotifyStatusChange(ctx context.Context, user models.User, orderID uint, previous, next models.OrderStatus) {
	event := map[string]interface{}{
		"type":            "order_status_changed",
		"orderID":         orderID,
		"userID":          user.ID,
		"email":           user.Email,
		"previous_status": previous.Display(),
		"new_status":      next.Display(),
		"subject":         emailSubject,
		"body":            fmt.Sprintf(emailBodyTemplate, orderID, previous.Display(), next.Display()),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := n.Producer.PublishEvent(ctx, n.Topic, fmt.Sprint(orderID), event); err != nil {
			n.Log.Error("notify_status_change_failed", "orderID", orderID, "error", err)
		}
	}()
}
