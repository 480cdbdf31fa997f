package audit

import (
	"context"
	"log"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

type Dispatcher struct {
	logger *Logger
	queue  chan Event
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

// NewNop returns a dispatcher that discards every event.
func NewNop() *Dispatcher {
	return NewDispatcher(nil)
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if d.logger == nil {
			continue
		}
		if err := d.logger.Log(
			ev.UserID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			log.Println("audit error:", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	if ev.UserID == nil {
		ev.UserID = UserFrom(ctx)
	}

	select {
	case d.queue <- ev:
	default:
		// full queue must never block the API; drop the event
		log.Println("audit queue full, dropping event")
	}
}
