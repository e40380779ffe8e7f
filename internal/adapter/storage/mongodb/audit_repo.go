package mongodb

import (
	"context"
	"fmt"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// AuditRepo implements ports.AuditRepository. Entries are keyed by ID, so a
// redelivered event is stored once.
type AuditRepo struct {
	coll Inserter
}

// NewAuditRepo creates an audit repository on db.audit_logs.
func NewAuditRepo(db *mongo.Database) *AuditRepo {
	return &AuditRepo{coll: db.Collection(AuditCollection)}
}

var _ ports.AuditRepository = (*AuditRepo)(nil)

func (r *AuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// DeliveryRepo implements ports.WebhookDeliveryRepository.
type DeliveryRepo struct {
	coll Inserter
}

// NewDeliveryRepo creates a delivery repository on db.webhook_deliveries.
func NewDeliveryRepo(db *mongo.Database) *DeliveryRepo {
	return &DeliveryRepo{coll: db.Collection(DeliveryCollection)}
}

var _ ports.WebhookDeliveryRepository = (*DeliveryRepo)(nil)

func (r *DeliveryRepo) Create(ctx context.Context, delivery *domain.WebhookDelivery) error {
	if _, err := r.coll.InsertOne(ctx, delivery); err != nil {
		return fmt.Errorf("insert webhook delivery: %w", err)
	}
	return nil
}
