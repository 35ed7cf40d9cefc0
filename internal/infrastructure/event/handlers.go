package event

import (
	"context"

	"github.com/distriflow/backend/internal/domain/billing"
	"github.com/distriflow/backend/internal/domain/order"
	"github.com/distriflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditLogHandler is the audit sink: a wildcard handler writing one
// structured log line per domain event.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates an audit handler over a dedicated logger
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger.Named("audit")}
}

// Handle writes the audit line
func (h *AuditLogHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", evt.EventType()),
		zap.String("event_id", evt.EventID().String()),
		zap.String("aggregate_type", evt.AggregateType()),
		zap.String("aggregate_id", evt.AggregateID().String()),
		zap.Time("occurred_at", evt.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty slice: the audit log receives every event
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

// Notifier is the outbound email sink. Send failures are swallowed by the
// bus like any other handler error.
type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}

// LoggingNotifier is the default Notifier: it records what would have been
// sent. A real SMTP/provider implementation plugs in behind the same
// interface.
type LoggingNotifier struct {
	logger *zap.Logger
}

// NewLoggingNotifier creates a notifier that only logs
func NewLoggingNotifier(logger *zap.Logger) *LoggingNotifier {
	return &LoggingNotifier{logger: logger.Named("notifier")}
}

// Send logs the notification instead of sending it
func (n *LoggingNotifier) Send(ctx context.Context, subject, body string) error {
	n.logger.Info("notification", zap.String("subject", subject), zap.String("body", body))
	return nil
}

// EmailNotificationHandler sends operator notifications on the lifecycle
// milestones that matter commercially.
type EmailNotificationHandler struct {
	notifier Notifier
}

// NewEmailNotificationHandler creates the notification handler
func NewEmailNotificationHandler(notifier Notifier) *EmailNotificationHandler {
	return &EmailNotificationHandler{notifier: notifier}
}

// Handle sends the notification matching the event type
func (h *EmailNotificationHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	switch evt.EventType() {
	case order.EventTypeOrderCreated:
		return h.notifier.Send(ctx, "Nouvelle commande",
			"Commande "+evt.AggregateID().String()+" créée")
	case order.EventTypeOrderDelivered:
		return h.notifier.Send(ctx, "Commande livrée",
			"Commande "+evt.AggregateID().String()+" livrée")
	case order.EventTypeOrderCancelled:
		return h.notifier.Send(ctx, "Commande annulée",
			"Commande "+evt.AggregateID().String()+" annulée")
	case billing.EventTypeInvoiceEmitted:
		return h.notifier.Send(ctx, "Nouvelle facture",
			"Facture émise pour la commande "+evt.AggregateID().String())
	}
	return nil
}

// EventTypes lists the lifecycle milestones that trigger a notification
func (h *EmailNotificationHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderCreated,
		order.EventTypeOrderDelivered,
		order.EventTypeOrderCancelled,
		billing.EventTypeInvoiceEmitted,
	}
}

// PageInvalidator invalidates cached read-side pages for an aggregate
type PageInvalidator interface {
	InvalidateOrder(ctx context.Context, orderID string) error
	InvalidateClient(ctx context.Context, clientID string) error
}

// CacheInvalidationHandler drops cached pages after any order mutation so
// stale totals or statuses never outlive the transaction that changed them.
type CacheInvalidationHandler struct {
	invalidator PageInvalidator
}

// NewCacheInvalidationHandler creates the cache invalidation handler
func NewCacheInvalidationHandler(invalidator PageInvalidator) *CacheInvalidationHandler {
	return &CacheInvalidationHandler{invalidator: invalidator}
}

// Handle invalidates the pages touched by the event
func (h *CacheInvalidationHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	switch evt.AggregateType() {
	case "Order", "Invoice":
		return h.invalidator.InvalidateOrder(ctx, evt.AggregateID().String())
	case "Client":
		return h.invalidator.InvalidateClient(ctx, evt.AggregateID().String())
	}
	return nil
}

// EventTypes returns an empty slice: any mutation may touch cached pages
func (h *CacheInvalidationHandler) EventTypes() []string {
	return nil
}
