package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/rabbitmq/amqp091-go"

	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/domain"
	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/infrastructure/contracts"
	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/infrastructure/messaging"
)

// roomConsumer drains the rooms queue and turns each lifecycle event into an
// audit log entry.
type roomConsumer struct {
	rabbitmq *messaging.RabbitMQ
	audit    domain.RoomAuditRepository
}

func NewRoomConsumer(rabbitmq *messaging.RabbitMQ, audit domain.RoomAuditRepository) *roomConsumer {
	return &roomConsumer{
		rabbitmq: rabbitmq,
		audit:    audit,
	}
}

func (c *roomConsumer) Listen() error {
	return c.rabbitmq.ConsumeMessages(messaging.RoomsQueue, func(ctx context.Context, msg amqp091.Delivery) error {
		var message contracts.AmqpMessage
		if err := json.Unmarshal(msg.Body, &message); err != nil {
			log.Printf("Failed to unmarshal message: %v", err)
			return err
		}

		var payload messaging.RoomEventData
		if err := json.Unmarshal(message.Data, &payload); err != nil {
			log.Printf("Failed to unmarshal event data: %v", err)
			return err
		}

		entry := auditEntryFor(msg.RoutingKey, message.RoomPIN, payload)
		if entry == nil {
			log.Printf("Ignoring unknown routing key: %s", msg.RoutingKey)
			return nil
		}

		if err := c.audit.Log(ctx, entry); err != nil {
			log.Printf("Failed to write audit log for %s: %v", msg.RoutingKey, err)
			return err
		}

		return nil
	})
}

func auditEntryFor(routingKey, pin string, payload messaging.RoomEventData) *domain.RoomAuditLog {
	switch routingKey {
	case contracts.EventRoomCreated:
		return domain.NewRoomCreatedLog(pin, payload.Room.Limit, payload.Room.OwnerDeviceID)
	case contracts.EventRoomDeleted:
		return domain.NewRoomDeletedLog(pin, payload.Reason, len(payload.Room.Members))
	case contracts.EventRoomEvicted:
		return domain.NewRoomEvictedLog(pin, payload.GraceSeconds)
	case contracts.EventMemberJoined:
		return domain.NewMemberJoinedLog(pin, len(payload.Room.Members))
	case contracts.EventMemberLeft:
		return domain.NewMemberLeftLog(pin, len(payload.Room.Members), payload.WasOwner)
	case contracts.EventJoinRejected:
		return domain.NewJoinRejectedLog(pin, payload.Reason)
	default:
		return nil
	}
}
