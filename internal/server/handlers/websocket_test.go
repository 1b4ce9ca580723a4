package handlers

import (
	"testing"
)

func TestLoungeClient_EnqueueNeverBlocks(t *testing.T) {
	// Nothing drains the channel here, standing in for a connection whose
	// write pump has already exited. Late deliveries must drop, not stall.
	c := &LoungeClient{send: make(chan []byte, 2)}

	for i := 0; i < 10; i++ {
		c.enqueue([]byte("late delivery"))
	}

	if len(c.send) != 2 {
		t.Errorf("expected the buffer capped at 2 queued messages, got %d", len(c.send))
	}
}

func TestLoungeClient_EnqueueDeliversWhileDrained(t *testing.T) {
	c := &LoungeClient{send: make(chan []byte, 2)}

	c.enqueue([]byte("hello"))

	select {
	case msg := <-c.send:
		if string(msg) != "hello" {
			t.Errorf("unexpected message %q", msg)
		}
	default:
		t.Error("expected the enqueued message to be readable")
	}
}
