package relay

import "log/slog"

// FormatMessage renders a relayed frame as it appears on the wire:
// the sender's display identity, a fixed separator, then the raw text.
func FormatMessage(identity, body string) string {
	return identity + " :: " + body
}

// Broadcaster delivers messages to every member of a room except the
// sender.
type Broadcaster struct {
	registry *Registry
	log      *slog.Logger
}

// NewBroadcaster constructs a broadcaster over the given registry.
func NewBroadcaster(registry *Registry, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{registry: registry, log: logger}
}

// Broadcast sends message to every current member of the room other
// than sender. Delivery is best effort per recipient: a failed write is
// logged and the remaining members still receive the message. The call
// itself never fails; broadcasting to an empty or unknown room delivers
// to no one.
func (b *Broadcaster) Broadcast(roomID string, sender Member, message string) {
	for _, m := range b.registry.Members(roomID) {
		if m == sender {
			continue
		}
		if err := m.WriteText(message); err != nil {
			b.log.Warn("broadcast delivery failed", "room", roomID, "error", err)
		}
	}
}
