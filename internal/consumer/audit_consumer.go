package consumer

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Eursukkul/canchas-booking/internal/models"
	"github.com/Eursukkul/canchas-booking/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AuditConsumer persists audit entries whose synchronous write failed.
type AuditConsumer struct {
	repo    repository.AuditRepository
	timeout time.Duration
}

func NewAuditConsumer(repo repository.AuditRepository) *AuditConsumer {
	return &AuditConsumer{repo: repo, timeout: 10 * time.Second}
}

// Start drains msgs in the background until the channel is closed.
func (ac *AuditConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			ac.handleMessage(msg)
		}
		log.Println("[AuditConsumer] channel closed, stopping consumer")
	}()
}

func (ac *AuditConsumer) handleMessage(msg amqp.Delivery) {
	var entry models.AuditEntry
	if err := json.Unmarshal(msg.Body, &entry); err != nil {
		log.Printf("[AuditConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}
	if entry.UID == "" || !entry.Action.Valid() {
		log.Printf("[AuditConsumer] dropping malformed entry %q", entry.UID)
		msg.Nack(false, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), ac.timeout)
	defer cancel()

	inserted, err := ac.repo.Upsert(ctx, &entry)
	if err != nil {
		log.Printf("[AuditConsumer] failed to store entry %s: %v", entry.UID, err)
		msg.Nack(false, true) // requeue
		return
	}

	if inserted {
		log.Printf("[AuditConsumer] stored entry %s (%s %s)", entry.UID, entry.Entity, entry.Action)
	} else {
		log.Printf("[AuditConsumer] entry %s already stored", entry.UID)
	}
	msg.Ack(false)
}
