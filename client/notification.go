package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/stonefab/block-validation-service/view"
	log "github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"
)

// NotificationClient posts block lifecycle events to an external consumer.
// Delivery is best-effort: the validation result is already persisted by the
// time a notification is sent, so failures are only logged.
type NotificationClient interface {
	BlockSettled(ctx context.Context, blockId string, status view.BlockStatus, report *view.ValidationReport) error
}

func NewNotificationClient(notificationUrl string) NotificationClient {
	cl := http.Client{Timeout: time.Second * 15}
	return &notificationClientImpl{notificationUrl: notificationUrl, client: resty.NewWithClient(&cl)}
}

type notificationClientImpl struct {
	notificationUrl string
	client          *resty.Client
}

type blockSettledEvent struct {
	EventType string                 `json:"eventType"`
	BlockId   string                 `json:"blockId"`
	Status    view.BlockStatus       `json:"status"`
	Report    *view.ValidationReport `json:"report,omitempty"`
	SentAt    time.Time              `json:"sentAt"`
}

func (n *notificationClientImpl) BlockSettled(ctx context.Context, blockId string, status view.BlockStatus, report *view.ValidationReport) error {
	if n.notificationUrl == "" {
		return nil
	}

	eventType := "processing.completed"
	switch status {
	case view.BlockStatusRejected:
		eventType = "validation.failed"
	case view.BlockStatusValidated:
		eventType = "validation.passed"
	case view.BlockStatusErrorProcessing:
		eventType = "processing.failed"
	}

	req := n.client.R()
	req.SetContext(ctx)
	req.SetHeader("Content-Type", "application/json")
	req.SetBody(blockSettledEvent{
		EventType: eventType,
		BlockId:   blockId,
		Status:    status,
		Report:    report,
		SentAt:    time.Now().UTC(),
	})

	resp, err := req.Post(n.notificationUrl)
	if err != nil {
		return fmt.Errorf("failed to send %s notification for block %s: %w", eventType, blockId, err)
	}
	if resp.StatusCode() >= http.StatusMultipleChoices {
		return fmt.Errorf("failed to send %s notification for block %s: status code %d", eventType, blockId, resp.StatusCode())
	}
	log.Debugf("Sent %s notification for block %s", eventType, blockId)
	return nil
}
