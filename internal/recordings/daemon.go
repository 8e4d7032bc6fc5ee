package recordings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Daemon consumes uploaded-recording events and verifies the stored files.
// Runs as its own process (cmd/worker), sharing only NATS with the server.
type Daemon struct {
	nc  *nats.Conn
	sub *nats.Subscription

	errors chan error
	stop   chan struct{}
}

func New(natsAddr string) (*Daemon, error) {
	nc, err := nats.Connect(natsAddr, nats.NoEcho())
	if err != nil {
		return nil, err
	}

	daemon := &Daemon{
		nc:     nc,
		errors: make(chan error),
		stop:   make(chan struct{}),
	}

	return daemon, nil
}

func (d *Daemon) Run() error {
	log.Info().Msg("start recordings daemon")

	var err error
	d.sub, err = d.nc.QueueSubscribe(UploadedSubject, UploadedQueueWorkers, func(msg *nats.Msg) {
		if err := d.handleUploaded(msg); err != nil {
			d.errors <- err
		}
	})
	if err != nil {
		return err
	}

	for {
		select {
		case err := <-d.errors:
			log.Error().Err(err).Msg("")
		case <-d.stop:
			return d.Stop()
		}
	}
}

func (d *Daemon) Stop() error {
	log.Info().Msg("stop recordings daemon")

	if err := d.sub.Unsubscribe(); err != nil {
		log.Error().Err(err).Msg("unsubscribe recordings queue")
	}

	return d.nc.Drain()
}

func (d *Daemon) handleUploaded(msg *nats.Msg) error {
	payload := &UploadedMessage{}

	r := bytes.NewReader(msg.Data)
	if err := json.NewDecoder(r).Decode(payload); err != nil {
		return fmt.Errorf("recordings: decode error: %v, payload: %s", err, string(msg.Data[:]))
	}

	info, err := os.Stat(payload.Path)
	if err != nil {
		return fmt.Errorf("recordings: stat %s: %w", payload.Path, err)
	}
	if info.Size() != payload.Size {
		log.Warn().
			Str("path", payload.Path).
			Int64("expected", payload.Size).
			Int64("actual", info.Size()).
			Msg("recording size mismatch")
	}

	log.Info().
		Str("roomID", payload.RoomID).
		Str("filename", payload.Filename).
		Int64("size", info.Size()).
		Msg("recording verified")

	return nil
}
