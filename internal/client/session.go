package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"chatrelay/internal/config"
)

// Frame is one inbound relay message, or the error that ended the
// stream.
type Frame struct {
	Text string
	Err  error
}

// Session manages the websocket connection to the relay server.
type Session struct {
	cfg      config.ClientConfig
	conn     *websocket.Conn
	incoming chan Frame
}

// NewSession initializes a session with configuration.
func NewSession(cfg config.ClientConfig) *Session {
	return &Session{
		cfg:      cfg,
		incoming: make(chan Frame, 32),
	}
}

// Connect dials the relay's room endpoint and starts the read loop.
func (s *Session) Connect(ctx context.Context) error {
	endpoint := strings.TrimRight(s.cfg.ServerURL, "/") + "/chat/" + url.PathEscape(s.cfg.Room)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return err
	}
	s.conn = conn
	go s.readLoop()
	return nil
}

// Frames returns the stream of inbound messages. The final frame
// carries the error that terminated the connection.
func (s *Session) Frames() <-chan Frame { return s.incoming }

// Send delivers one raw text message to the relay.
func (s *Session) Send(text string) error {
	return s.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// Close terminates the session.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *Session) readLoop() {
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.incoming <- Frame{Err: err}
			return
		}
		s.incoming <- Frame{Text: string(payload)}
	}
}
