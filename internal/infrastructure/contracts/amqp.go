package contracts

// AmqpMessage is the message structure for AMQP.
type AmqpMessage struct {
	RoomPIN string `json:"roomPin"`
	Data    []byte `json:"data"`
}

// Routing keys - using consistent event/command patterns
const (
	EventRoomCreated  = "room.created"
	EventRoomDeleted  = "room.deleted"
	EventRoomEvicted  = "room.evicted"
	EventMemberJoined = "member.joined"
	EventMemberLeft   = "member.left"
	EventJoinRejected = "member.join_rejected"
)
