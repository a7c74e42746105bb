package ws

import (
	"encoding/json"
	"errors"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/domain"
	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/infrastructure/metrics"
	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/infrastructure/validate"
	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/session"
)

// pinFormat screens pin-shaped input before it reaches the session manager.
var pinFormat = validate.Compose(validate.Required(), validate.Length(domain.PINLength), validate.DigitsOnly())

// Frame pairs an inbound envelope with the connection it arrived on.
type Frame struct {
	Client *Client
	Msg    Inbound
}

// Core owns the connection lifecycle and dispatches every client operation to
// the session manager from a single goroutine. Roster fan-out comes back in
// through the hub, which the manager drives as its notifier.
type Core struct {
	hub      *Hub
	manager  *session.Manager
	metrics  *metrics.Metrics
	logger   *zap.SugaredLogger
	maxLimit int

	register   chan *Client
	unregister chan *Client
	inbound    chan *Frame
}

func NewCore(manager *session.Manager, hub *Hub, m *metrics.Metrics, maxLimit int, logger *zap.SugaredLogger) *Core {
	return &Core{
		hub:        hub,
		manager:    manager,
		metrics:    m,
		logger:     logger,
		maxLimit:   maxLimit,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan *Frame, 256),
	}
}

func (c *Core) Run() {
	for {
		select {
		case cl := <-c.register:
			c.hub.AddClient(cl)
			c.metrics.ConnectedClients.Inc()

			cl.Send(NewRoomsData(c.manager.ListRooms()))

			// Reverse DNS can block, keep it off the event loop.
			go c.sendHostInfo(cl)

		case cl := <-c.unregister:
			c.hub.RemoveClient(cl)
			c.metrics.ConnectedClients.Dec()
			c.manager.Disconnect(cl.ID)
			// Nothing sends to this client once the hub dropped it, so the
			// write pump can be released instead of parking forever.
			cl.CloseMessages()

		case f := <-c.inbound:
			c.dispatch(f)
		}
	}
}

func (c *Core) Register() chan<- *Client {
	return c.register
}

func (c *Core) Unregister() chan<- *Client {
	return c.unregister
}

func (c *Core) Inbound() chan<- *Frame {
	return c.inbound
}

func (c *Core) dispatch(f *Frame) {
	cl := f.Client

	switch f.Msg.Type {
	case OpGetRooms:
		cl.Send(NewRoomsData(c.manager.ListRooms()))

	case OpCreateRoom:
		c.handleCreateRoom(cl, f.Msg.Data)

	case OpJoinRoom:
		c.handleJoinRoom(cl, f.Msg.Data)

	case OpSendMessage:
		c.handleSendMessage(cl, f.Msg.Data)

	case OpDeleteRoom:
		c.handleDeleteRoom(cl, f.Msg.Data)

	case OpCheckActive:
		c.handleCheckActive(cl, f.Msg.Data)

	default:
		cl.Send(NewAckError(f.Msg.Type, "unknown operation"))
	}
}

func (c *Core) handleCreateRoom(cl *Client, data json.RawMessage) {
	var req CreateRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		cl.Send(NewAckError(OpCreateRoom, "malformed payload"))
		return
	}

	if req.Limit <= 0 || req.Limit > c.maxLimit {
		cl.Send(NewAckError(OpCreateRoom, "invalid room limit"))
		return
	}

	room, err := c.manager.CreateRoom(cl.ID, cl.DeviceID, req.Nickname, req.Limit)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDeviceElsewhere):
			cl.Send(NewAckRedirect(OpCreateRoom, "", "device already holds a session"))
		case errors.Is(err, domain.ErrPinSpaceExhausted):
			c.logger.Errorw("pin space exhausted", "rooms", c.manager.RoomCount())
			cl.Send(NewAckError(OpCreateRoom, "no room pins available"))
		default:
			cl.Send(NewAckError(OpCreateRoom, err.Error()))
		}
		return
	}

	cl.Send(NewAckOK(OpCreateRoom, room.PIN))
}

func (c *Core) handleJoinRoom(cl *Client, data json.RawMessage) {
	var req JoinRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		cl.Send(NewAckError(OpJoinRoom, "malformed payload"))
		return
	}

	if err := pinFormat(req.PIN); err != nil {
		cl.Send(NewAckError(OpJoinRoom, "invalid room pin"))
		return
	}

	room, err := c.manager.JoinRoom(cl.ID, cl.DeviceID, req.Nickname, req.PIN)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			cl.Send(NewAckError(OpJoinRoom, "room not found"))
		case errors.Is(err, domain.ErrDuplicateConnection):
			cl.Send(NewAckRedirect(OpJoinRoom, req.PIN, "device already connected to this room"))
		case errors.Is(err, domain.ErrRoomFull):
			cl.Send(NewAckError(OpJoinRoom, "room is full"))
		default:
			cl.Send(NewAckError(OpJoinRoom, err.Error()))
		}
		return
	}

	cl.Send(NewAckOK(OpJoinRoom, room.PIN))
}

func (c *Core) handleSendMessage(cl *Client, data json.RawMessage) {
	var req SendMessageRequest
	if err := json.Unmarshal(data, &req); err != nil {
		cl.Send(NewAckError(OpSendMessage, "malformed payload"))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		cl.Send(NewAckError(OpSendMessage, "empty message"))
		return
	}

	binding, ok := c.manager.Binding(cl.ID)
	if !ok {
		cl.Send(NewAckError(OpSendMessage, "not in a room"))
		return
	}

	msg := NewMessageReceived(req.Message, binding.Nickname, time.Now().UTC().Format(time.RFC3339))
	reached := c.hub.BroadcastToRoom(binding.PIN, msg)
	c.metrics.MessagesRelayed.Inc()

	c.logger.Debugw("message relayed", "pin", binding.PIN, "reached", reached)
}

func (c *Core) handleDeleteRoom(cl *Client, data json.RawMessage) {
	var req DeleteRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		cl.Send(NewAckError(OpDeleteRoom, "malformed payload"))
		return
	}

	if err := pinFormat(req.PIN); err != nil {
		cl.Send(NewAckError(OpDeleteRoom, "invalid room pin"))
		return
	}

	if err := c.manager.DeleteRoom(req.PIN, cl.DeviceID); err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			cl.Send(NewAckError(OpDeleteRoom, "room not found"))
		case errors.Is(err, domain.ErrNotOwner):
			cl.Send(NewAckError(OpDeleteRoom, "only the owner can delete the room"))
		default:
			cl.Send(NewAckError(OpDeleteRoom, err.Error()))
		}
		return
	}

	cl.Send(NewAckOK(OpDeleteRoom, req.PIN))
}

func (c *Core) handleCheckActive(cl *Client, data json.RawMessage) {
	var req CheckActiveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		cl.Send(NewAckError(OpCheckActive, "malformed payload"))
		return
	}

	if err := pinFormat(req.PIN); err != nil {
		cl.Send(NewActiveConnection(req.PIN, false))
		return
	}

	active := c.manager.CheckActiveConnection(req.PIN, cl.DeviceID)
	cl.Send(NewActiveConnection(req.PIN, active))
}

func (c *Core) sendHostInfo(cl *Client) {
	host, _, err := net.SplitHostPort(cl.RemoteAddr)
	if err != nil {
		host = cl.RemoteAddr
	}

	hostname := ""
	if names, err := net.LookupAddr(host); err == nil && len(names) > 0 {
		hostname = strings.TrimSuffix(names[0], ".")
	}

	cl.Send(NewHostInfo(host, hostname))
}
