package infrastructure

import (
	"context"
	"fmt"
	"sync"
)

// Task représente une tâche à exécuter.
type Task func() error

// WorkerPool gère un pool de workers pour traiter des tâches en parallèle.
// Utilisé par le chargeur de datasets (une tâche par fichier CSV).
type WorkerPool struct {
	workerCount int
	tasks       chan Task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc

	mu       sync.Mutex
	firstErr error
}

// NewWorkerPool crée un nouveau pool de workers.
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		workerCount: workerCount,
		tasks:       make(chan Task, workerCount*2),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// worker est la routine d'exécution des tâches.
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
			if err := task(); err != nil {
				wp.recordError(err)
			}
		}
	}
}

// recordError conserve la première erreur rencontrée.
func (wp *WorkerPool) recordError(err error) {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.firstErr == nil {
		wp.firstErr = err
	}
}

// Start démarre les workers.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Submit soumet une tâche au pool. Après Stop, le refus est déterministe :
// le canal bufferisé accepterait encore des envois alors que les workers
// sont partis, donc l'état du contexte est vérifié avant toute tentative.
func (wp *WorkerPool) Submit(task Task) error {
	if wp.ctx.Err() != nil {
		return fmt.Errorf("worker pool is stopped")
	}
	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is stopped")
	case wp.tasks <- task:
		return nil
	}
}

// Wait ferme le canal de tâches, attend la fin des workers et retourne la
// première erreur rencontrée par une tâche, ou nil.
func (wp *WorkerPool) Wait() error {
	close(wp.tasks)
	wp.wg.Wait()

	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.firstErr
}

// Stop arrête le pool immédiatement sans attendre les tâches en file.
func (wp *WorkerPool) Stop() {
	wp.cancel()
	wp.wg.Wait()
}
