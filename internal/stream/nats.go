package stream

import (
	"time"

	"github.com/nats-io/nats.go"
)

// Connect dials a NATS server with reconnect settings suited to a
// long-running monitor.
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(
		url,
		nats.Name("cardiopulse"),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
}
