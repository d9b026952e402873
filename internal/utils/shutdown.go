package utils

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ShutdownManager coordinates graceful teardown. Cleanup tasks registered by
// main are drained in registration order once a termination signal arrives,
// all sharing a single drain-timeout context.
type ShutdownManager struct {
	cancelFunc context.CancelFunc
	timeout    time.Duration
	tasks      []func(context.Context) error
	done       chan struct{}
	once       sync.Once
	mu         sync.Mutex
}

func NewShutdownManager(ctx context.Context, timeout time.Duration) (context.Context, *ShutdownManager) {
	ctx, cancel := context.WithCancel(ctx)
	manager := &ShutdownManager{
		cancelFunc: cancel,
		timeout:    timeout,
		done:       make(chan struct{}),
	}
	return ctx, manager
}

func (sm *ShutdownManager) Register(task func(context.Context) error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.tasks = append(sm.tasks, task)
}

// StartListening arms the signal handler. SIGINT or SIGTERM triggers Shutdown.
func (sm *ShutdownManager) StartListening() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("[SHUTDOWN] Received signal: %v", sig)
		sm.Shutdown()
	}()
}

// Shutdown cancels the base context and drains the registered tasks in
// registration order. Safe to call more than once; only the first call drains.
func (sm *ShutdownManager) Shutdown() {
	sm.once.Do(func() {
		sm.cancelFunc()

		ctx, cancel := context.WithTimeout(context.Background(), sm.timeout)
		defer cancel()

		sm.mu.Lock()
		tasks := make([]func(context.Context) error, len(sm.tasks))
		copy(tasks, sm.tasks)
		sm.mu.Unlock()

		failed := 0
		for _, task := range tasks {
			if err := task(ctx); err != nil {
				failed++
				log.Printf("[SHUTDOWN] Error during shutdown: %v", err)
			}
		}
		if failed > 0 {
			log.Printf("[SHUTDOWN] Shutdown finished, %d tasks failed", failed)
		} else {
			log.Println("[SHUTDOWN] Graceful shutdown complete")
		}

		close(sm.done)
	})
}

// Wait blocks until Shutdown has drained every registered task.
func (sm *ShutdownManager) Wait() {
	<-sm.done
}
