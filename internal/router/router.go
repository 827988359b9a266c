package router

import (
	"net/http"

	"easymed/internal/adapters/storage/file"
	"easymed/internal/adapters/storage/memory"
	"easymed/internal/domain/schedule"
	"easymed/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	// Opcional: repo explícito (tests usan memoria). Si es nil, usa el
	// archivo de EASYMED_STORE_PATH.
	Repo schedule.Repository

	// InMemory fuerza un store en memoria (modo dev, no toca el archivo).
	InMemory bool
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	repo := opts.Repo
	if repo == nil {
		if opts.InMemory {
			repo = memory.NewScheduleRepo()
		} else {
			repo = file.NewScheduleRepo(config.FromEnv().StorePath)
		}
	}

	svc := schedule.NewService(repo)
	schedule.RegisterRoutes(r, svc)

	return r
}
