package layouts

import (
	"sync"

	"github.com/google/uuid"
)

// projectLocks hands out one mutex per project so operations on different
// projects never contend.
type projectLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newProjectLocks() *projectLocks {
	return &projectLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *projectLocks) get(projectID uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[projectID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[projectID] = lock
	}
	return lock
}
