package ws

import (
	"testing"
)

func TestCloseMessagesStopsDelivery(t *testing.T) {
	c := &Client{Message: make(chan *WSMessage, 4), ID: "conn-a"}

	c.Send(NewRoomDeleted("111111"))
	c.CloseMessages()
	c.CloseMessages() // second close is harmless

	// A broadcast racing the disconnect must be dropped, not panic.
	c.Send(NewRoomDeleted("222222"))

	msg, ok := <-c.Message
	if !ok || msg.Data.(RoomDeletedPayload).PIN != "111111" {
		t.Fatalf("queued message should drain before the close takes effect")
	}
	if _, ok := <-c.Message; ok {
		t.Fatalf("channel must be closed once the queue is empty")
	}
}
