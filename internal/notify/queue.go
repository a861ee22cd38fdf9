package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/college-table/pkg/logger"
)

type pushJob struct {
	items []PushItem
	enqAt time.Time
}

// PushQueue 本地异步推送：SendOne/SendMany 入队即返回，由 worker 调用下游发送。
// SendMessagePush 仍同步执行，调用方需要拿到发送错误
type PushQueue struct {
	next    PushSender
	ch      chan pushJob
	timeout time.Duration

	wg sync.WaitGroup
}

func NewPushQueue(next PushSender, queueSize int, timeout time.Duration) *PushQueue {
	if queueSize <= 0 {
		queueSize = 1024
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PushQueue{next: next, ch: make(chan pushJob, queueSize), timeout: timeout}
}

// Start 启动 workers，返回的函数停止接收并在 ctx 到期前排空队列
func (q *PushQueue) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for {
				select {
				case job := <-q.ch:
					q.deliver(job)
				case <-stopCh:
					for {
						select {
						case job := <-q.ch:
							q.deliver(job)
						default:
							return
						}
					}
				}
			}
		}()
	}

	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() { close(stopCh) })
		done := make(chan struct{})
		go func() {
			q.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			logger.Warn("push queue stopped with pending jobs", zap.Int("pending", len(q.ch)))
			return ctx.Err()
		}
	}
}

func (q *PushQueue) deliver(job pushJob) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	var err error
	if len(job.items) == 1 {
		err = q.next.SendOne(ctx, job.items[0].PushToken, job.items[0].Content)
	} else {
		err = q.next.SendMany(ctx, job.items)
	}
	if err != nil {
		logger.Warn("async push failed", zap.Int("count", len(job.items)), zap.Error(err))
		return
	}
	logger.Debug("async push delivered", zap.Duration("queued", time.Since(job.enqAt)))
}

func (q *PushQueue) enqueue(items []PushItem) {
	select {
	case q.ch <- pushJob{items: items, enqAt: time.Now()}:
	default:
		logger.Warn("push queue full, drop", zap.Int("count", len(items)))
	}
}

func (q *PushQueue) SendOne(_ context.Context, pushToken string, content Content) error {
	if pushToken == "" {
		logger.Error("push skipped: empty token")
		return nil
	}
	q.enqueue([]PushItem{{PushToken: pushToken, Content: content}})
	return nil
}

func (q *PushQueue) SendMany(_ context.Context, items []PushItem) error {
	if len(items) == 0 {
		return nil
	}
	q.enqueue(items)
	return nil
}

func (q *PushQueue) SendMessagePush(ctx context.Context, pushToken, msg string) error {
	return q.next.SendMessagePush(ctx, pushToken, msg)
}

// QueueLen 当前队列长度（采样值）
func (q *PushQueue) QueueLen() int { return len(q.ch) }
