package worker

import (
	"context"
	"sync"
	"time"

	"freedom_wall/pkg/logger"

	"go.uber.org/zap"
)

// Task 异步任务
type Task struct {
	Name    string
	Payload interface{}
	Retry   int // 重试次数
}

// Handler 任务处理函数，返回错误时进入重试
type Handler func(ctx context.Context, task Task) error

type WorkerPool struct {
	TaskQueue  chan Task
	RetryQueue chan Task // 重试队列
	WorkerNum  int
	MaxRetry   int // 最大重试次数

	handler    Handler
	retryDelay time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func NewWorkerPool(handler Handler, workerNum int, bufferSize int, maxRetry int) *WorkerPool {
	if workerNum <= 0 {
		workerNum = 1
	}
	if bufferSize <= 1 {
		bufferSize = 2
	}
	return &WorkerPool{
		TaskQueue:  make(chan Task, bufferSize),
		RetryQueue: make(chan Task, bufferSize/2),
		WorkerNum:  workerNum,
		MaxRetry:   maxRetry,
		handler:    handler,
		retryDelay: time.Second,
	}
}

// Start 启动 worker 与重试协程，ctx 取消或调用 Stop 后退出
func (p *WorkerPool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.WorkerNum; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	// 启动重试处理协程
	p.wg.Add(1)
	go p.retryWorker()
	logger.Log.Info("worker pool started", zap.Int("workers", p.WorkerNum))
}

// Stop 停止并等待所有协程退出，未处理的任务丢弃
func (p *WorkerPool) Stop() {
	p.once.Do(func() {
		if p.cancel != nil {
			p.cancel()
		}
		p.wg.Wait()
	})
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case task := <-p.TaskQueue:
			p.process(id, task)
		}
	}
}

func (p *WorkerPool) process(id int, task Task) {
	err := p.handler(p.ctx, task)
	if err == nil {
		return
	}
	logger.Log.Warn("task failed",
		zap.Int("worker", id),
		zap.String("task", task.Name),
		zap.Int("retry", task.Retry),
		zap.Error(err),
	)

	// 如果未达到最大重试次数，加入重试队列
	if task.Retry < p.MaxRetry {
		task.Retry++
		select {
		case p.RetryQueue <- task:
		default:
			p.logFailedTask(task, err)
		}
		return
	}
	p.logFailedTask(task, err)
}

func (p *WorkerPool) retryWorker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case task := <-p.RetryQueue:
			// 延迟重试，避免立即重试
			select {
			case <-time.After(time.Duration(task.Retry) * p.retryDelay):
			case <-p.ctx.Done():
				return
			}

			// 重新加入主队列
			select {
			case p.TaskQueue <- task:
			default:
				p.logFailedTask(task, nil)
			}
		}
	}
}

func (p *WorkerPool) logFailedTask(task Task, err error) {
	logger.Log.Error("task dropped",
		zap.String("task", task.Name),
		zap.Int("retry", task.Retry),
		zap.Error(err),
	)
}

// AddTask 非阻塞入队，队列满时返回 false
func (p *WorkerPool) AddTask(task Task) bool {
	select {
	case p.TaskQueue <- task:
		return true
	default:
		p.logFailedTask(task, nil)
		return false
	}
}
