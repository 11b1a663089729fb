package http

import (
	"net/http"

	_ "github.com/DRSN-tech/catalog-backend/docs" // Регистрация swagger-спецификации
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(catUC usecase.CategoryUC, maxImageSize int64) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	r.router.Use(middleware.Recoverer)

	r.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		catHandler := NewCategoryHandler(catUC, r.logger, maxImageSize)
		registerCategoryRoutes(v1, catHandler)
	})
}

func registerCategoryRoutes(router chi.Router, h *CategoryHandler) {
	router.Route("/categories", func(cat chi.Router) {
		cat.Get("/", h.listCategories)
		cat.Post("/", h.createCategory)
		cat.Get("/tree", h.getTree)
		cat.Post("/reorder", h.reorderCategories)

		cat.Route("/{id}", func(one chi.Router) {
			one.Patch("/", h.updateCategory)
			one.Delete("/", h.deleteCategory)
			one.Get("/path", h.getPath)
			one.Get("/hover-path", h.getHoverPath)
			one.Patch("/status", h.toggleStatus)
			one.Post("/image", h.uploadImage)
		})
	})
}
