package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/domain"
	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/infrastructure/contracts"
	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/infrastructure/messaging"
)

// RoomPublisher pushes room lifecycle events onto the message bus. It
// implements session.EventSink; publish failures are logged, never surfaced,
// so a broker hiccup cannot fail a join.
type RoomPublisher struct {
	rabbitmq *messaging.RabbitMQ
}

func NewRoomPublisher(rabbitmq *messaging.RabbitMQ) *RoomPublisher {
	return &RoomPublisher{
		rabbitmq: rabbitmq,
	}
}

func (p *RoomPublisher) publish(routingKey, pin string, payload messaging.RoomEventData) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshalling %s event: %v", routingKey, err)
		return
	}

	err = p.rabbitmq.PublishMessage(context.Background(), routingKey, contracts.AmqpMessage{
		RoomPIN: pin,
		Data:    data,
	})
	if err != nil {
		log.Printf("Error publishing %s event: %v", routingKey, err)
	}
}

func (p *RoomPublisher) RoomCreated(room domain.Room) {
	p.publish(contracts.EventRoomCreated, room.PIN, messaging.RoomEventData{Room: room})
}

func (p *RoomPublisher) RoomDeleted(room domain.Room, reason string) {
	p.publish(contracts.EventRoomDeleted, room.PIN, messaging.RoomEventData{Room: room, Reason: reason})
}

func (p *RoomPublisher) RoomEvicted(pin string, grace time.Duration) {
	p.publish(contracts.EventRoomEvicted, pin, messaging.RoomEventData{
		Room:         domain.Room{PIN: pin},
		Reason:       "empty_grace_expired",
		GraceSeconds: grace.Seconds(),
	})
}

func (p *RoomPublisher) MemberJoined(room domain.Room) {
	p.publish(contracts.EventMemberJoined, room.PIN, messaging.RoomEventData{Room: room})
}

func (p *RoomPublisher) MemberLeft(room domain.Room, wasOwner bool) {
	p.publish(contracts.EventMemberLeft, room.PIN, messaging.RoomEventData{Room: room, WasOwner: wasOwner})
}

func (p *RoomPublisher) JoinRejected(pin, reason string) {
	p.publish(contracts.EventJoinRejected, pin, messaging.RoomEventData{
		Room:   domain.Room{PIN: pin},
		Reason: reason,
	})
}
