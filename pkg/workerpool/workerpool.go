package workerpool

import (
	"context"
	"sync"
)

// Task — единица работы для пула. Fn должна быть безопасна для
// конкурентного выполнения; результат, если нужен, уходит в ResultC.
type Task struct {
	Fn      func() (any, error)
	ResultC chan Result
}

type Result struct {
	Value any
	Err   error
}

// WorkerPool ограничивает число одновременно выполняемых задач.
type WorkerPool struct {
	tasks  chan Task
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorkerPool создаёт пул из workerCount воркеров с очередью queueSize.
func NewWorkerPool(workerCount, queueSize int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	wp := &WorkerPool{
		tasks:  make(chan Task, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	wp.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for {
		select {
		case <-wp.ctx.Done():
			return
		case task, ok := <-wp.tasks:
			if !ok {
				return
			}
			res, err := task.Fn()
			if task.ResultC != nil {
				task.ResultC <- Result{Value: res, Err: err}
			}
		}
	}
}

// Submit ставит задачу в очередь. Если нужен результат — передайте канал.
func (wp *WorkerPool) Submit(task Task) {
	wp.tasks <- task
}

// Close останавливает воркеров и дожидается их завершения.
func (wp *WorkerPool) Close() {
	wp.cancel()
	wp.wg.Wait()
}
