package inspect

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gonewx/watershed/pkg/metrics"
)

// NewRouter 组装巡检路由
// met 为 nil 时不挂载 /metrics，也不统计请求
func NewRouter(h *Handler, met *metrics.Metrics) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if met != nil {
		r.Use(metrics.RequestMiddleware(met))
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			met.Handler(func() {
				h.mu.Lock()
				met.SetActiveSegments(len(h.course.ActiveSegments()))
				h.mu.Unlock()
			}).ServeHTTP(w, r)
		})
	}

	r.Get("/state", h.GetState)
	r.Get("/director/{index}", h.GetDirector)
	r.Route("/segments", func(r chi.Router) {
		r.Get("/", h.ListSegments)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetSegment)
			r.Get("/placements/{category}", h.GetPlacements)
		})
	})
	return r
}
