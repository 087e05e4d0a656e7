package relay

import "log/slog"

// Session drives one connection through its lifetime: join the room,
// relay every inbound frame, and leave exactly once when the stream
// ends.
type Session struct {
	conn        *Conn
	roomID      string
	registry    *Registry
	broadcaster *Broadcaster
	log         *slog.Logger
}

// NewSession binds a freshly accepted connection to a room.
func NewSession(conn *Conn, roomID string, registry *Registry, broadcaster *Broadcaster, logger *slog.Logger) *Session {
	return &Session{
		conn:        conn,
		roomID:      roomID,
		registry:    registry,
		broadcaster: broadcaster,
		log:         logger.With("conn", conn.ID(), "room", roomID),
	}
}

// Run blocks until the connection terminates. A failed join discards
// the connection without a matching leave; after a successful join the
// leave runs unconditionally, whether the peer closed cleanly or the
// transport failed.
func (s *Session) Run() {
	defer s.conn.Close()

	name, err := s.registry.Join(s.roomID, s.conn)
	if err != nil {
		s.log.Error("join failed", "error", err)
		return
	}
	s.log.Info("joined", "identity", name)

	defer func() {
		if err := s.registry.Leave(s.roomID, s.conn); err != nil {
			s.log.Error("leave failed", "error", err)
			return
		}
		s.log.Info("left", "identity", name)
	}()

	for {
		text, err := s.conn.ReadText()
		if err != nil {
			if IsNormalClose(err) {
				s.log.Debug("peer closed")
			} else {
				s.log.Warn("receive failed", "error", err)
			}
			return
		}
		s.broadcaster.Broadcast(s.roomID, s.conn, FormatMessage(name, text))
	}
}
