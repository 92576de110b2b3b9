package events

import (
	"encoding/json"
	"fmt"
	"github.com/hashicorp/go-hclog"
	"github.com/nats-io/nats.go"
	"time"
)

// Publisher is the subset of *nats.Conn the forwarder needs
type Publisher interface {
	Publish(subject string, data []byte) error
}

// ConnectNATS dials the NATS server at url
func ConnectNATS(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(
		url,
		nats.Name("product-api"),
		nats.Timeout(10*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

// Forwarder relays every event on the bus to NATS under <subject>.<event name>
type Forwarder struct {
	log     hclog.Logger
	pub     Publisher
	subject string
	bus     *EventBus[Event]
	sub     Subscriber[Event]
	done    chan struct{}
}

func NewForwarder(log hclog.Logger, pub Publisher, subject string, bus *EventBus[Event]) *Forwarder {
	return &Forwarder{
		log:     log,
		pub:     pub,
		subject: subject,
		bus:     bus,
		done:    make(chan struct{}),
	}
}

// Start subscribes to the bus and forwards events until Close is called
func (f *Forwarder) Start() {
	f.sub = f.bus.Subscribe()
	go f.run()
}

func (f *Forwarder) run() {
	defer close(f.done)
	for event := range f.sub {
		subject := fmt.Sprintf("%s.%s", f.subject, event.Name())

		data, err := json.Marshal(NewMessage(event))
		if err != nil {
			f.log.Error("Failed to marshal event", "event", event.Name(), "error", err)
			continue
		}

		if err := f.pub.Publish(subject, data); err != nil {
			f.log.Error("Failed to publish event to NATS", "subject", subject, "error", err)
			continue
		}
		f.log.Debug("Event forwarded", "subject", subject)
	}
}

// Close stops forwarding and waits for the relay goroutine to exit
func (f *Forwarder) Close() {
	if f.sub == nil {
		return
	}
	f.bus.Unsubscribe(f.sub)
	<-f.done
}
