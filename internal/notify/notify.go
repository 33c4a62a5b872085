package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Audience says who a message is for when it is not a single user.
type Audience string

const (
	AudienceUser    Audience = "user"
	AudienceStylist Audience = "stylist"
	AudienceAdmin   Audience = "admin"
)

type Message struct {
	Audience Audience       `json:"audience"`
	UserID   uint           `json:"user_id"`
	Event    string         `json:"event"`
	Subject  string         `json:"subject"`
	Body     string         `json:"body"`
	Data     map[string]any `json:"data,omitempty"`
	SentAt   time.Time      `json:"sent_at"`
}

// Notifier is fire-and-forget: Notify never waits for delivery.
type Notifier interface {
	Notify(msg Message) error
}

// Sender delivers one message to the transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var (
	ErrQueueFull = errors.New("notify: queue full")
	ErrClosed    = errors.New("notify: dispatcher closed")
)

type Dispatcher struct {
	sender Sender
	log    *zap.Logger
	queue  chan Message
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sender Sender, log *zap.Logger, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 100
	}

	d := &Dispatcher{
		sender: sender,
		log:    log,
		queue:  make(chan Message, buffer),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.sender.Send(ctx, msg); err != nil {
			d.log.Warn("notification delivery failed",
				zap.String("event", msg.Event),
				zap.String("audience", string(msg.Audience)),
				zap.Uint("user_id", msg.UserID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

func (d *Dispatcher) Notify(msg Message) error {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}

	select {
	case d.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting messages and waits for the queue to drain. Notify
// after Close returns ErrClosed.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
