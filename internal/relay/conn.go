package relay

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Conn wraps an accepted websocket connection. It is owned by exactly
// one session loop; the registry and broadcaster only reference it as a
// Member for the duration of that session.
type Conn struct {
	id           string
	ws           *websocket.Conn
	writeTimeout time.Duration

	mu sync.Mutex // serializes writes; gorilla allows one writer at a time
}

// NewConn wraps ws and assigns it a runtime identity.
func NewConn(ws *websocket.Conn, writeTimeout time.Duration) *Conn {
	return &Conn{
		id:           uuid.NewString(),
		ws:           ws,
		writeTimeout: writeTimeout,
	}
}

// ID returns the connection's runtime identity, used for log
// correlation. It is distinct from the display identity assigned on
// join.
func (c *Conn) ID() string { return c.id }

// ReadText blocks until the next inbound text frame and returns its
// payload. Binary frames are skipped. Any error, including a normal
// peer close, ends the connection's read side for good.
func (c *Conn) ReadText() (string, error) {
	for {
		typ, payload, err := c.ws.ReadMessage()
		if err != nil {
			return "", err
		}
		if typ == websocket.TextMessage {
			return string(payload), nil
		}
	}
}

// WriteText delivers one text frame to the peer.
func (c *Conn) WriteText(payload string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeTimeout > 0 {
		if err := c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	return c.ws.WriteMessage(websocket.TextMessage, []byte(payload))
}

// Close closes the underlying websocket connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}

// IsNormalClose reports whether err signals an orderly end of the
// stream rather than a transport failure. The two cases share the same
// cleanup path and differ only in how loudly they are logged.
func IsNormalClose(err error) bool {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
