// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
)

// LoungeClient is one connected participant in an event lounge
type LoungeClient struct {
	conn          *websocket.Conn
	send          chan []byte
	eventID       string
	userID        string
	natsConn      *nats.Conn
	subscriptions []*nats.Subscription
	closeOnce     sync.Once
}

// LoungeConfig contains configuration for lounge WebSocket connections
type LoungeConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64
}

// DefaultLoungeConfig returns the default lounge configuration
func DefaultLoungeConfig() LoungeConfig {
	return LoungeConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 64 * 1024,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, this should be more restrictive
		return true
	},
}

// LoungeWebSocketHandler handles WebSocket connections for an event's
// public lounge. Lounges are keyed by event id; messages fan out to every
// participant through NATS.
func LoungeWebSocketHandler(natsConn *nats.Conn) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := chi.URLParam(r, "id")
		if eventID == "" {
			http.Error(w, "Missing event ID", http.StatusBadRequest)
			return
		}

		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			http.Error(w, "Missing user ID", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Failed to upgrade to WebSocket: %v", err)
			return
		}

		client := &LoungeClient{
			conn:     conn,
			send:     make(chan []byte, 256),
			eventID:  eventID,
			userID:   userID,
			natsConn: natsConn,
		}

		go client.writePump()
		go client.readPump()

		if err := client.subscribeToLounge(); err != nil {
			log.Printf("Failed to subscribe to lounge topics: %v", err)
			client.closeConnection()
			return
		}

		welcome := map[string]interface{}{
			"type":     "welcome",
			"event_id": eventID,
			"time":     time.Now(),
		}
		welcomeJSON, _ := json.Marshal(welcome)
		client.enqueue(welcomeJSON)

		log.Printf("New lounge connection for event %s from user %s", eventID, userID)
	}
}

// readPump pumps messages from the WebSocket connection to NATS
func (c *LoungeClient) readPump() {
	config := DefaultLoungeConfig()

	defer func() {
		c.closeConnection()
	}()

	c.conn.SetReadLimit(config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		c.processIncomingMessage(message)
	}
}

// writePump pumps messages from NATS to the WebSocket connection
func (c *LoungeClient) writePump() {
	config := DefaultLoungeConfig()
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain queued messages into the same WebSocket frame
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processIncomingMessage routes an incoming lounge message
func (c *LoungeClient) processIncomingMessage(message []byte) {
	var msg map[string]interface{}
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("Failed to parse lounge message: %v", err)
		return
	}

	msgType, ok := msg["type"].(string)
	if !ok {
		log.Printf("Missing message type")
		return
	}

	msg["user_id"] = c.userID
	msg["time"] = time.Now()

	switch msgType {
	case "message":
		msg["id"] = fmt.Sprintf("msg_%d", time.Now().UnixNano())
		c.publish("messages", msg)

	case "typing":
		c.publish("typing", msg)

	default:
		log.Printf("Unknown message type: %s", msgType)
	}
}

// publish sends a lounge message to the event-scoped NATS subject
func (c *LoungeClient) publish(kind string, msg map[string]interface{}) {
	msgJSON, _ := json.Marshal(msg)
	subject := fmt.Sprintf("event.%s.%s", c.eventID, kind)

	if err := c.natsConn.Publish(subject, msgJSON); err != nil {
		log.Printf("Failed to publish %s to NATS: %v", kind, err)
	}
}

// subscribeToLounge subscribes to the event's lounge NATS subjects
func (c *LoungeClient) subscribeToLounge() error {
	for _, kind := range []string{"messages", "typing"} {
		sub, err := c.natsConn.Subscribe(fmt.Sprintf("event.%s.%s", c.eventID, kind), func(msg *nats.Msg) {
			c.enqueue(msg.Data)
		})
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", kind, err)
		}
		c.subscriptions = append(c.subscriptions, sub)
	}

	return nil
}

// enqueue hands a message to the write pump without blocking the caller.
// All sends from outside the pumps go through here: a slow or torn-down
// connection drops messages rather than stalling a NATS delivery callback.
func (c *LoungeClient) enqueue(message []byte) {
	select {
	case c.send <- message:
	default:
	}
}

// closeConnection closes the WebSocket connection and cleans up resources.
// Both pumps call it on exit; the Once keeps the teardown single-shot. The
// send channel stays open: an in-flight NATS delivery may still enqueue
// after Unsubscribe returns, and the write pump exits through the closed
// socket instead of a channel close.
func (c *LoungeClient) closeConnection() {
	c.closeOnce.Do(func() {
		for _, sub := range c.subscriptions {
			sub.Unsubscribe()
		}

		c.conn.Close()

		log.Printf("Lounge connection closed for event %s, user %s", c.eventID, c.userID)
	})
}
