package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// connWrapper serializes writes; gorilla allows only one concurrent writer.
type connWrapper struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newConnWrapper(conn *websocket.Conn) *connWrapper {
	return &connWrapper{conn: conn}
}

func (w *connWrapper) WriteJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}

func (w *connWrapper) Close() error {
	return w.conn.Close()
}

type Client struct {
	conn       *connWrapper
	mu         sync.Mutex
	closed     bool
	Message    chan *WSMessage
	ID         string `json:"id"`
	DeviceID   string `json:"deviceId"`
	RemoteAddr string `json:"-"`
}

func NewClient(conn *websocket.Conn, id, deviceID, remoteAddr string) *Client {
	return &Client{
		conn:       newConnWrapper(conn),
		Message:    make(chan *WSMessage, 64), // buffered to avoid dead-locks on slow clients
		ID:         id,
		DeviceID:   deviceID,
		RemoteAddr: remoteAddr,
	}
}

// Send queues a message for the write pump, dropping it if the client's
// buffer is full. A client that cannot drain 64 messages is effectively gone
// and will be reaped by its read pump. Sends after CloseMessages are no-ops.
func (c *Client) Send(msg *WSMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.Message <- msg:
	default:
		log.Printf("ws send buffer full, dropping %s for client %s", msg.Type, c.ID)
	}
}

// CloseMessages closes the outbound queue so the write pump exits once the
// remaining messages drain. Idempotent; late eviction broadcasts that race
// the disconnect land in Send's closed check instead of a dead channel.
func (c *Client) CloseMessages() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.Message)
}

func (c *Client) ReadMessage(core *Core) {
	defer func() {
		core.Unregister() <- c
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws read error (client %s): %v", c.ID, err)
			}
			break
		}

		var in Inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			c.Send(NewAckError("", "malformed message"))
			continue
		}

		core.Inbound() <- &Frame{Client: c, Msg: in}
	}
}

func (c *Client) WriteMessage() {
	defer func() {
		_ = c.conn.Close()
	}()

	for msg := range c.Message {
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("ws write error (client %s): %v", c.ID, err)
			break
		}
	}
}
