package recordings

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
)

// Publisher announces stored recordings to the worker queue.
type Publisher struct {
	nc *nats.Conn
}

func NewPublisher(nc *nats.Conn) *Publisher {
	return &Publisher{nc: nc}
}

func (p *Publisher) Uploaded(msg UploadedMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return p.nc.Publish(UploadedSubject, payload)
}
