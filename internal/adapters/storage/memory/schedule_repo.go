package memory

import (
	"context"
	"sync"

	"easymed/internal/domain/schedule"
)

// Repo guarda el documento en memoria. Sirve para tests y para correr la API
// en modo dev sin tocar el archivo compartido.
type Repo struct {
	mu  sync.RWMutex
	doc schedule.Schedule
}

func NewScheduleRepo() *Repo {
	return &Repo{doc: schedule.NewSchedule()}
}

func (r *Repo) Load(ctx context.Context) (schedule.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// copia profunda: el caller muta su documento libremente
	return r.doc.Clone(), nil
}

func (r *Repo) Save(ctx context.Context, s schedule.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.doc = s.Clone()
	return nil
}
