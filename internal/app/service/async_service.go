package service

import (
	"context"

	"shiftbot/pkg/workerpool"
)

// AsyncService пропускает обращения к хранилищу через общий пул воркеров:
// хендлеры бота не плодят неограниченное число одновременных запросов к
// табличному бэкенду.
type AsyncService struct {
	Pool *workerpool.WorkerPool
}

func NewAsyncService(pool *workerpool.WorkerPool) *AsyncService {
	return &AsyncService{Pool: pool}
}

// SubmitAsync выполняет fn в пуле и дожидается результата.
func (a *AsyncService) SubmitAsync(fn func() (any, error)) (any, error) {
	resCh := make(chan workerpool.Result, 1)
	a.Pool.Submit(workerpool.Task{
		Fn:      fn,
		ResultC: resCh,
	})
	res := <-resCh
	return res.Value, res.Err
}

// Run выполняет операцию без результата, уважая отмену контекста на
// стороне ожидающего. Уже запущенная операция при отмене не прерывается.
func (a *AsyncService) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	resCh := make(chan workerpool.Result, 1)
	a.Pool.Submit(workerpool.Task{
		Fn: func() (any, error) {
			return nil, fn(ctx)
		},
		ResultC: resCh,
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-resCh:
		return res.Err
	}
}
