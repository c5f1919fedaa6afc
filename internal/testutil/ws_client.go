package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dom/league-builds/internal/websocket"
	gorillaWS "github.com/gorilla/websocket"
)

// WSClient is a test client for the build session socket
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *websocket.Message
	errors   chan error
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := *gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan *websocket.Message, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// DialStatus attempts the handshake and returns the HTTP status the server
// answered with. It is used to assert handshake rejections.
func DialStatus(t *testing.T, url string) int {
	t.Helper()

	dialer := *gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, resp, err := dialer.Dial(url, nil)
	if err == nil {
		conn.Close()
		return resp.StatusCode
	}
	if resp == nil {
		t.Fatalf("dial failed without a response: %v", err)
	}
	return resp.StatusCode
}

// readPump reads messages from the WebSocket connection
func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			case c.errors <- err:
			}
			return
		}

		var msg websocket.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			select {
			case c.errors <- err:
			default:
			}
			continue
		}

		select {
		case c.messages <- &msg:
		case <-c.done:
			return
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

// Send writes one client message to the server.
func (c *WSClient) Send(msgType websocket.MessageType, payload interface{}) {
	c.t.Helper()

	msg, err := websocket.NewMessage(msgType, payload)
	if err != nil {
		c.t.Fatalf("failed to build message: %v", err)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		c.t.Fatalf("failed to marshal message: %v", err)
	}

	c.mu.Lock()
	err = c.conn.WriteMessage(gorillaWS.TextMessage, data)
	c.mu.Unlock()

	if err != nil {
		c.t.Fatalf("failed to send %s: %v", msgType, err)
	}
}

// SendRaw writes bytes as-is, for malformed input tests.
func (c *WSClient) SendRaw(data []byte) {
	c.t.Helper()

	c.mu.Lock()
	err := c.conn.WriteMessage(gorillaWS.TextMessage, data)
	c.mu.Unlock()

	if err != nil {
		c.t.Fatalf("failed to send raw message: %v", err)
	}
}

func (c *WSClient) AddItem(id string) {
	c.Send(websocket.MessageTypeAddItem, websocket.ItemPayload{ItemID: id})
}

func (c *WSClient) RemoveItem(id string) {
	c.Send(websocket.MessageTypeRemoveItem, websocket.ItemPayload{ItemID: id})
}

func (c *WSClient) ToggleItem(id string) {
	c.Send(websocket.MessageTypeToggleItem, websocket.ItemPayload{ItemID: id})
}

func (c *WSClient) SetLevel(level int) {
	c.Send(websocket.MessageTypeSetLevel, websocket.LevelPayload{Level: level})
}

func (c *WSClient) RankUp(slot int) {
	c.Send(websocket.MessageTypeRankUp, websocket.SlotPayload{Slot: slot})
}

func (c *WSClient) RankDown(slot int) {
	c.Send(websocket.MessageTypeRankDown, websocket.SlotPayload{Slot: slot})
}

func (c *WSClient) Save() {
	c.Send(websocket.MessageTypeSave, nil)
}

// ExpectMessage waits for a message of the specified type, skipping others
func (c *WSClient) ExpectMessage(msgType websocket.MessageType, timeout time.Duration) *websocket.Message {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				c.t.Fatalf("connection closed while waiting for %s", msgType)
			}
			if msg.Type == msgType {
				return msg
			}
		case err := <-c.errors:
			c.t.Fatalf("error while waiting for %s: %v", msgType, err)
		case <-deadline:
			c.t.Fatalf("timeout waiting for message type %s", msgType)
		}
	}
}

func decodePayload[T any](c *WSClient, msg *websocket.Message) *T {
	c.t.Helper()

	var payload T
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode %s payload: %v", msg.Type, err)
	}
	return &payload
}

// ExpectReady waits for the session to finish loading
func (c *WSClient) ExpectReady(timeout time.Duration) *websocket.StatePayload {
	c.t.Helper()
	return decodePayload[websocket.StatePayload](c, c.ExpectMessage(websocket.MessageTypeReady, timeout))
}

// ExpectState waits for the next state broadcast
func (c *WSClient) ExpectState(timeout time.Duration) *websocket.StatePayload {
	c.t.Helper()
	return decodePayload[websocket.StatePayload](c, c.ExpectMessage(websocket.MessageTypeState, timeout))
}

// ExpectRejected waits for an incompatibility rejection
func (c *WSClient) ExpectRejected(timeout time.Duration) *websocket.RejectedPayload {
	c.t.Helper()
	return decodePayload[websocket.RejectedPayload](c, c.ExpectMessage(websocket.MessageTypeRejected, timeout))
}

// ExpectSaved waits for the save confirmation
func (c *WSClient) ExpectSaved(timeout time.Duration) *websocket.SavedPayload {
	c.t.Helper()
	return decodePayload[websocket.SavedPayload](c, c.ExpectMessage(websocket.MessageTypeSaved, timeout))
}

// ExpectError waits for and decodes an error message
func (c *WSClient) ExpectError(timeout time.Duration) *websocket.ErrorPayload {
	c.t.Helper()
	return decodePayload[websocket.ErrorPayload](c, c.ExpectMessage(websocket.MessageTypeError, timeout))
}

// ExpectErrorWithCode waits for an error with a specific code
func (c *WSClient) ExpectErrorWithCode(code string, timeout time.Duration) *websocket.ErrorPayload {
	c.t.Helper()

	payload := c.ExpectError(timeout)
	if payload.Code != code {
		c.t.Fatalf("expected error code %s, got %s: %s", code, payload.Code, payload.Message)
	}

	return payload
}

// ExpectNoMessage verifies no messages are received within timeout
func (c *WSClient) ExpectNoMessage(timeout time.Duration) {
	c.t.Helper()

	select {
	case msg := <-c.messages:
		if msg != nil {
			c.t.Fatalf("unexpected message received: %s", msg.Type)
		}
	case <-time.After(timeout):
	}
}

// DrainMessages discards buffered messages until the stream is quiet.
func (c *WSClient) DrainMessages() {
	deadline := time.After(100 * time.Millisecond)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				return
			}
			deadline = time.After(50 * time.Millisecond)
		case <-deadline:
			return
		case <-c.done:
			return
		}
	}
}
