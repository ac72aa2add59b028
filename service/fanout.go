package service

import (
	"context"
	"sync"
	"time"

	"gramsync-be/models"
	"gramsync-be/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event is one post-commit hand-off: the audit entry and notifications
// produced by a committed business action. Events are only published after
// the primary transaction succeeds.
type Event struct {
	Audit         *models.AuditLog
	Notifications []models.Notification
}

// Publisher accepts post-commit events. Publishing must never fail the
// business action that produced the event.
type Publisher interface {
	Publish(ev Event)
}

// Bus is an in-process outbox: a buffered channel drained by a single worker
// that persists notifications and audit entries. Persistence failures are
// logged and swallowed.
type Bus struct {
	ch            chan Event
	wg            sync.WaitGroup
	workerDone    chan struct{}
	notifications repository.NotificationRepository
	audits        repository.AuditRepository
	log           *logrus.Logger
	timeout       time.Duration
}

// NewBus starts the fan-out worker.
func NewBus(notifications repository.NotificationRepository, audits repository.AuditRepository, log *logrus.Logger) *Bus {
	b := &Bus{
		ch:            make(chan Event, 256),
		workerDone:    make(chan struct{}),
		notifications: notifications,
		audits:        audits,
		log:           log,
		timeout:       10 * time.Second,
	}
	go b.run()
	return b
}

// Publish queues an event for delivery. Blocks only if the buffer is full.
func (b *Bus) Publish(ev Event) {
	b.wg.Add(1)
	b.ch <- ev
}

// Flush waits until every published event has been processed.
func (b *Bus) Flush() {
	b.wg.Wait()
}

// Close flushes pending events and stops the worker.
func (b *Bus) Close() {
	b.wg.Wait()
	close(b.ch)
	<-b.workerDone
}

func (b *Bus) run() {
	defer close(b.workerDone)
	for ev := range b.ch {
		b.deliver(ev)
		b.wg.Done()
	}
}

func (b *Bus) deliver(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	for i := range ev.Notifications {
		n := ev.Notifications[i]
		if err := b.notifications.Insert(ctx, &n); err != nil {
			b.log.WithError(err).WithFields(logrus.Fields{
				"userId": n.UserID.Hex(),
				"type":   n.Type,
			}).Warn("failed to deliver notification")
		}
	}

	if ev.Audit != nil {
		if err := b.audits.Insert(ctx, ev.Audit); err != nil {
			b.log.WithError(err).WithField("action", ev.Audit.Action).
				Error("failed to record audit entry")
		}
	}
}

// newAudit builds an audit entry with a fresh event id.
func newAudit(action, details string, actor Actor, metadata map[string]string) *models.AuditLog {
	return &models.AuditLog{
		EventID:   uuid.NewString(),
		Action:    action,
		Details:   details,
		ActorID:   actor.ID,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
}
