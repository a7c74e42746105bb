package ws

// Client-to-server operations.
const (
	OpGetRooms    = "get_rooms"
	OpCreateRoom  = "create_room"
	OpJoinRoom    = "join_room"
	OpSendMessage = "send_message"
	OpDeleteRoom  = "delete_room"
	OpCheckActive = "check_active_connection"
)

// Server-to-client events.
const (
	RoomsData        = "rooms_data"
	RoomData         = "room_data"
	MessageReceived  = "receive_message"
	RoomDeleted      = "room_deleted"
	HostInfo         = "host_info"
	Ack              = "ack"
	ActiveConnection = "active_connection"
)
