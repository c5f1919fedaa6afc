package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/dom/league-builds/internal/build"
	"github.com/dom/league-builds/internal/metrics"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024

	loadTimeout = 30 * time.Second
	saveTimeout = 15 * time.Second
)

// Client binds one websocket connection to one build session. The session
// lives exactly as long as the connection.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	session *build.Session
	metrics *metrics.Metrics

	mu     sync.Mutex
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, session *build.Session, m *metrics.Metrics) *Client {
	c := &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		session: session,
		metrics: m,
	}
	session.Subscribe(c.onEvent)
	return c
}

// Load fetches the session's static data; the outcome reaches the client
// as a ready or error message.
func (c *Client) Load() {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	if err := c.session.Load(ctx); err != nil && !errors.Is(err, build.ErrSessionClosed) {
		log.Printf("ERROR [websocket.Client.Load] %v", err)
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("INVALID_MESSAGE", "Message is not valid JSON")
			continue
		}

		c.handleMessage(&msg)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg *Message) {
	switch msg.Type {
	case MessageTypeAddItem, MessageTypeRemoveItem, MessageTypeToggleItem:
		var payload ItemPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.ItemID == "" {
			c.sendError("INVALID_PAYLOAD", "Invalid item payload")
			return
		}
		var err error
		switch msg.Type {
		case MessageTypeAddItem:
			err = c.session.Add(payload.ItemID)
		case MessageTypeRemoveItem:
			err = c.session.Remove(payload.ItemID)
		default:
			err = c.session.Toggle(payload.ItemID)
		}
		c.reportError(payload.ItemID, err)

	case MessageTypeSetLevel:
		var payload LevelPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			c.sendError("INVALID_PAYLOAD", "Invalid level payload")
			return
		}
		c.reportError("", c.session.SetLevel(payload.Level))

	case MessageTypeRankUp, MessageTypeRankDown:
		var payload SlotPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			c.sendError("INVALID_PAYLOAD", "Invalid slot payload")
			return
		}
		if msg.Type == MessageTypeRankUp {
			c.reportError("", c.session.RankUp(payload.Slot))
		} else {
			c.reportError("", c.session.RankDown(payload.Slot))
		}

	case MessageTypeSave:
		// Saves run off the read loop so further commands, including a
		// second save, are answered while the first is in flight.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			defer cancel()
			_, err := c.session.Save(ctx)
			var perr *build.PersistenceError
			if errors.As(err, &perr) {
				// Reported through the save_failed event.
				return
			}
			c.reportError("", err)
		}()

	default:
		c.sendError("UNKNOWN_TYPE", "Unknown message type: "+string(msg.Type))
	}
}

func (c *Client) reportError(itemID string, err error) {
	if err == nil {
		return
	}
	var ie *build.IncompatibilityError
	if errors.As(err, &ie) {
		c.metrics.BuildRejected(string(ie.Reason))
		c.sendMessage(MessageTypeRejected, RejectedPayload{
			ItemID:    ie.ItemID,
			Reason:    ie.Reason,
			Message:   ie.Reason.Message(),
			Conflicts: ie.Conflicts,
		})
		return
	}
	if errors.Is(err, build.ErrUnknownItem) && itemID != "" {
		c.sendError(errorCode(err), "Unknown item: "+itemID)
		return
	}
	c.sendError(errorCode(err), err.Error())
}

func (c *Client) onEvent(ev build.Event) {
	switch ev.Kind {
	case build.EventReady, build.EventChanged:
		payload := StatePayload{
			State:    ev.State,
			Items:    ev.Items,
			Snapshot: ev.Snapshot,
			Ranks:    c.session.Ranks(),
		}
		if ev.Snapshot != nil {
			payload.Level = ev.Snapshot.Level
		}
		msgType := MessageTypeState
		if ev.Kind == build.EventReady {
			msgType = MessageTypeReady
			payload.Champion = c.session.Champion()
			if cat := c.session.Catalog(); cat != nil {
				payload.Version = cat.Version()
			}
		}
		c.sendMessage(msgType, payload)

	case build.EventSaved:
		c.sendMessage(MessageTypeSaved, SavedPayload{Build: ev.Saved})

	case build.EventSaveFailed:
		c.sendError("SAVE_FAILED", ev.Err.Error())

	case build.EventLoadFailed:
		c.sendError("LOAD_FAILED", ev.Err.Error())
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, build.ErrNotReady):
		return "NOT_READY"
	case errors.Is(err, build.ErrLoadFailed):
		return "LOAD_FAILED"
	case errors.Is(err, build.ErrAuthRequired):
		return "AUTH_REQUIRED"
	case errors.Is(err, build.ErrSaveInProgress):
		return "SAVE_IN_PROGRESS"
	case errors.Is(err, build.ErrAlreadySaved):
		return "ALREADY_SAVED"
	case errors.Is(err, build.ErrEmptyBuild):
		return "EMPTY_BUILD"
	case errors.Is(err, build.ErrUnknownItem):
		return "UNKNOWN_ITEM"
	case errors.Is(err, build.ErrInvalidLevel):
		return "INVALID_LEVEL"
	case errors.Is(err, build.ErrInvalidSlot):
		return "INVALID_SLOT"
	case errors.Is(err, build.ErrSessionClosed):
		return "SESSION_CLOSED"
	}
	return "INTERNAL"
}

func (c *Client) sendError(code, message string) {
	c.sendMessage(MessageTypeError, ErrorPayload{
		Code:    code,
		Message: message,
	})
}

func (c *Client) sendMessage(msgType MessageType, payload interface{}) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		log.Printf("failed to build %s message: %v", msgType, err)
		return
	}
	c.Send(msg)
}

// Send queues msg for the write pump. Messages to a closed client, or to a
// client too slow to drain its buffer, are dropped.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("failed to marshal message: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("WARN [websocket.Client.Send] dropping %s message, send buffer full", msg.Type)
	}
}

// Close tears down the session and stops the write pump.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()

	c.session.Close()
}
