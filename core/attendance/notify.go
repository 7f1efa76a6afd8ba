package attendance

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/maischool/eduflow/core"
)

// Notifier fans one attendance event out to the parent's channels:
// email, SMS and WhatsApp. Events run on a small background pool, detached
// from the request that produced them; a channel failure is logged and
// never reaches the caller, and no channel blocks or retries another.
type Notifier struct {
	repo      Repository
	mailSvc   core.EmailService
	smsSender core.MessageSender
	waSender  core.MessageSender
	logger    core.Logger

	events chan Record
	wg     sync.WaitGroup
}

const notifyWorkers = 4

func NewNotifier(
	repo Repository,
	mailSvc core.EmailService,
	smsSender core.MessageSender,
	waSender core.MessageSender,
	logger core.Logger,
) *Notifier {
	return &Notifier{
		repo:      repo,
		mailSvc:   mailSvc,
		smsSender: smsSender,
		waSender:  waSender,
		logger:    logger,
		events:    make(chan Record, notifyWorkers*8),
	}
}

// Start launches the dispatch workers. They stop when ctx is cancelled
// or Stop is called.
func (n *Notifier) Start(ctx context.Context) {
	for i := 0; i < notifyWorkers; i++ {
		n.wg.Add(1)
		go n.worker(ctx)
	}
}

// Stop closes the event queue and waits for in-flight dispatches.
func (n *Notifier) Stop() {
	close(n.events)
	n.wg.Wait()
}

// Submit queues an event without blocking; when the queue is full the
// event is dropped with a warning. There is no delivery guarantee.
func (n *Notifier) Submit(rec Record) {
	select {
	case n.events <- rec:
	default:
		n.logger.Warn(fmt.Sprintf("notification queue full, dropping event for student %s", rec.StudentID))
	}
}

func (n *Notifier) worker(ctx context.Context) {
	defer n.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-n.events:
			if !ok {
				return
			}
			n.dispatch(ctx, rec)
		}
	}
}

// dispatch resolves the parent contact and fires all applicable channels.
// An unknown student or a student without a parent link means "no contact
// available": all channels are skipped silently.
func (n *Notifier) dispatch(ctx context.Context, rec Record) {
	contact, err := n.repo.GetStudentContact(ctx, rec.StudentID)
	if err != nil {
		if errors.Cause(err) != ErrStudentNotFound {
			n.logger.Error(fmt.Sprintf("resolving contact for student %s: %v", rec.StudentID, err), err)
		}
		return
	}
	if !contact.Reachable() {
		return
	}

	remarks := rec.Remarks.String

	if contact.ParentEmail.String != "" {
		msg := NewAlertEmail(contact, rec.Status, rec.Date, remarks)
		if res := n.mailSvc.Send(msg); !res.Success {
			n.logger.Error(fmt.Sprintf("attendance email to %s failed: %v", contact.ParentEmail.String, res.Err), res.Err)
		} else {
			n.logger.Info(fmt.Sprintf("attendance email sent: %s", res.MessageID))
		}
	}

	if phone := contact.ParentPhone.String; phone != "" {
		text := AlertText(contact.StudentName, rec.Status, rec.Date, remarks)

		if res := n.smsSender.Send(phone, text); !res.Success {
			n.logger.Error(fmt.Sprintf("attendance SMS to %s failed: %v", phone, res.Err), res.Err)
		}
		if res := n.waSender.Send(phone, text); !res.Success {
			n.logger.Error(fmt.Sprintf("attendance WhatsApp to %s failed: %v", phone, res.Err), res.Err)
		}
	}
}
