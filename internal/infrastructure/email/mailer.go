// Package email delivers transactional emails asynchronously. A fixed pool of
// workers consumes buffered channels sharded by recipient, so retries for one
// address never reorder messages to another.
package email

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/zabilal/sims-api/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64

	kindWelcome       = "welcome"
	kindResetPassword = "reset_password"
)

type job struct {
	kind string
	msg  Message
}

// Mailer implements ports.Mailer on top of a Sender. Sends are fire and
// forget: delivery failures are logged and counted, never surfaced to the
// caller.
type Mailer struct {
	workers  []chan job
	sender   Sender
	resetURL string
	log      zerolog.Logger
}

// NewMailer creates a Mailer with numWorkers sharded workers. Reset-password
// emails link to resetURL with the token appended as a query parameter.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailer(numWorkers int, sender Sender, resetURL string, log zerolog.Logger) *Mailer {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	m := &Mailer{
		workers:  make([]chan job, numWorkers),
		sender:   sender,
		resetURL: resetURL,
		log:      log,
	}
	for i := range m.workers {
		m.workers[i] = make(chan job, channelBuffer)
	}
	return m
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (m *Mailer) Start(ctx context.Context) {
	for i, ch := range m.workers {
		go m.runWorker(ctx, i, ch)
	}
}

// SendWelcomeEmail queues a welcome message for a newly registered school
// administrator.
func (m *Mailer) SendWelcomeEmail(name, to string) {
	m.enqueue(job{
		kind: kindWelcome,
		msg: Message{
			ToName:  name,
			ToEmail: to,
			Subject: "Welcome aboard",
			Text: fmt.Sprintf("Dear %s,\n\nYour school account is ready. "+
				"Sign in with this email address to start managing your school.\n", name),
		},
	})
}

// SendResetPasswordEmail queues a password-reset message carrying the reset
// token as a link.
func (m *Mailer) SendResetPasswordEmail(name, to, token string) {
	m.enqueue(job{
		kind: kindResetPassword,
		msg: Message{
			ToName:  name,
			ToEmail: to,
			Subject: "Reset password",
			Text: fmt.Sprintf("Dear %s,\n\nTo reset your password, click on this link: %s?token=%s\n"+
				"If you did not request any password resets, then ignore this email.\n",
				name, m.resetURL, token),
		},
	})
}

// enqueue routes a job to the worker owning its recipient shard. If the
// worker's buffer is full the job is dropped rather than blocking the caller.
func (m *Mailer) enqueue(j job) {
	i := m.shardIndex(j.msg.ToEmail)
	select {
	case m.workers[i] <- j:
		metrics.MailerQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(m.workers[i])))
	default:
		m.log.Warn().
			Str("kind", j.kind).
			Int("worker_id", i).
			Msg("mailer queue full, dropping email")
		metrics.EmailsTotal.WithLabelValues(j.kind, "failed").Inc()
	}
}

// shardIndex maps a recipient address deterministically to a worker index.
func (m *Mailer) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32()) % len(m.workers)
}

func (m *Mailer) runWorker(ctx context.Context, id int, ch <-chan job) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-ch:
			if !ok {
				return
			}
			metrics.MailerQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			if err := m.sender.Send(ctx, j.msg); err != nil {
				m.log.Error().Err(err).
					Str("kind", j.kind).
					Int("worker_id", id).
					Msg("email delivery failed")
				metrics.EmailsTotal.WithLabelValues(j.kind, "failed").Inc()
				continue
			}
			metrics.EmailsTotal.WithLabelValues(j.kind, "sent").Inc()
		}
	}
}
