package gateway

import (
	"context"
	"fmt"

	"github.com/piresc/coingate/internal/pkg/constants"
	"github.com/piresc/coingate/internal/pkg/models"
	natspkg "github.com/piresc/coingate/internal/pkg/nats"
	gatewaysvc "github.com/piresc/coingate/services/gateway"
)

// EventGateway publishes transaction updates to NATS
type EventGateway struct {
	natsClient *natspkg.Client
	subject    string
}

// NewEventGateway creates a publisher for subject, falling back to the default update subject
func NewEventGateway(client *natspkg.Client, subject string) *EventGateway {
	if subject == "" {
		subject = constants.SubjectTransactionUpdated
	}
	return &EventGateway{natsClient: client, subject: subject}
}

var _ gatewaysvc.EventGW = (*EventGateway)(nil)

// PublishTransactionUpdate publishes one persisted state change
func (g *EventGateway) PublishTransactionUpdate(ctx context.Context, update models.TransactionUpdate) error {
	if g.natsClient == nil || !g.natsClient.IsConnected() {
		return fmt.Errorf("nats connection unavailable for %s", g.subject)
	}
	return g.natsClient.PublishJSON(g.subject, update)
}
