package database

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// ConnectNats dials the NATS server used for notification publishing.
func ConnectNats(url string) (*nats.Conn, error) {
	if url == "" {
		return nil, fmt.Errorf("nats url must not be empty")
	}

	conn, err := nats.Connect(url, nats.Name("kinerja-api"))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to nats: %w", err)
	}

	return conn, nil
}
