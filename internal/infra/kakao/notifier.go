package kakao

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"calligraphy-cms/internal/infra/logger"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
)

const releaseTimeout = 5 * time.Second

// Result counts the outcome of one broadcast.
type Result struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Notifier fans a message out to many recipients on a bounded worker pool.
type Notifier struct {
	sender  Sender
	workers int
	log     *logger.Logger
}

func NewNotifier(sender Sender, workers int, log *logger.Logger) *Notifier {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = logger.Default()
	}
	return &Notifier{sender: sender, workers: workers, log: log}
}

// Broadcast blocks until every recipient has been tried. Failures are counted,
// not returned; the error is only for a pool that could not start.
func (n *Notifier) Broadcast(ctx context.Context, to []Recipient, text, link string) (Result, error) {
	if len(to) == 0 {
		return Result{}, nil
	}

	pool, err := ants.NewPool(n.workers)
	if err != nil {
		return Result{}, errors.Wrap(err, "start notification pool")
	}
	defer func() {
		if err := pool.ReleaseTimeout(releaseTimeout); err != nil {
			n.log.Warn("notification pool release: %v", err)
		}
	}()

	var (
		wg     sync.WaitGroup
		sent   int64
		failed int64
	)
	for _, r := range to {
		r := r
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				atomic.AddInt64(&failed, 1)
				return
			}
			if err := n.sender.Send(ctx, r, text, link); err != nil {
				n.log.Warn("kakao notify %s failed: %v", r.MemberID, err)
				atomic.AddInt64(&failed, 1)
				return
			}
			atomic.AddInt64(&sent, 1)
		})
		if submitErr != nil {
			wg.Done()
			atomic.AddInt64(&failed, 1)
		}
	}
	wg.Wait()

	res := Result{Sent: int(sent), Failed: int(failed)}
	n.log.Info("kakao broadcast finished: sent=%d failed=%d", res.Sent, res.Failed)
	return res, nil
}
