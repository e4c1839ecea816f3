package nats

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"
	"golang.org/x/sync/semaphore"
)

const defaultMaxInFlight = 16

// ServeRequests answers request/reply traffic on subject. Replicas share the
// load through the queue group; within one replica up to maxInFlight requests
// are handled concurrently. Blocks until ctx is done and in-flight replies
// have been sent.
func (q *Queue) ServeRequests(
	ctx context.Context,
	subject, group string,
	maxInFlight int,
	handle func(context.Context, []byte) []byte,
) error {
	r := newResponder(ctx, maxInFlight, handle, q.logger.With("subject", subject))
	sub, err := q.conn.QueueSubscribe(subject, group, func(msg *nats.Msg) {
		if msg.Reply == "" {
			return
		}
		r.dispatch(msg.Data, msg.Respond)
	})
	if err != nil {
		return fmt.Errorf("nats queue subscribe %s: %w", subject, err)
	}
	err = q.drainOnDone(ctx, sub)
	r.close()
	return err
}

// Request sends payload on subject and waits for one reply.
func (q *Queue) Request(ctx context.Context, subject string, payload []byte) ([]byte, error) {
	msg, err := q.conn.RequestWithContext(ctx, subject, payload)
	if err != nil {
		return nil, wrapTemporaryIfNeeded("nats request", fmt.Errorf("nats request %s: %w", subject, err))
	}
	return msg.Data, nil
}

// responder runs each request in its own goroutine. The subscription
// callback blocks while all slots are busy, so NATS buffers the backlog.
type responder struct {
	ctx    context.Context
	handle func(context.Context, []byte) []byte
	slots  *semaphore.Weighted
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func newResponder(ctx context.Context, maxInFlight int, handle func(context.Context, []byte) []byte, logger *slog.Logger) *responder {
	if maxInFlight <= 0 {
		maxInFlight = defaultMaxInFlight
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &responder{
		ctx:    ctx,
		handle: handle,
		slots:  semaphore.NewWeighted(int64(maxInFlight)),
		logger: logger,
	}
}

// dispatch drops requests that arrive after shutdown began. Requests already
// admitted run to completion; handle bounds them with its own deadline.
func (r *responder) dispatch(data []byte, reply func([]byte) error) {
	r.mu.Lock()
	if r.closed || r.ctx.Err() != nil {
		r.mu.Unlock()
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	if err := r.slots.Acquire(r.ctx, 1); err != nil {
		r.wg.Done()
		return
	}
	go func() {
		defer r.wg.Done()
		defer r.slots.Release(1)
		if err := reply(r.handle(context.WithoutCancel(r.ctx), data)); err != nil {
			r.logger.Warn("nats_respond_failed", "error", err)
		}
	}()
}

func (r *responder) close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.wg.Wait()
}
