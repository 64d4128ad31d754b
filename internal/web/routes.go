package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-tagger/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	// Create handlers
	modelHandler := handlers.NewModelHandler(s.engine)
	recognizeHandler := handlers.NewRecognizeHandler(s.engine, s.config.Model.Tolerance)
	trainHandler := handlers.NewTrainHandler(s.engine)

	// Health check
	s.router.Get("/api/health", handlers.Health(s.engine))

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		// Model info
		r.Get("/model", modelHandler.Get)

		// Recognition
		r.Post("/recognize", recognizeHandler.Recognize)

		// Train (long-running operations)
		r.Post("/train", trainHandler.Start)
		r.Get("/train/{jobId}", trainHandler.Status)
		r.Delete("/train/{jobId}", trainHandler.Cancel)
	})
}
