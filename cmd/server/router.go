package main

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/autolist-api/internal/api"
	apiMiddleware "github.com/phrazzld/autolist-api/internal/api/middleware"
	"github.com/spf13/afero"
)

// setupRouter creates the router with the middleware chain and all routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.logger)
	requireAdmin := apiMiddleware.RequireAdmin(app.userService)

	userHandler := api.NewUserHandler(app.userService, app.jwtService, app.config.Auth.CookieSecure, app.logger)
	publicationHandler := api.NewPublicationHandler(
		app.publicationService,
		app.config.Storage.MaxUploadBytes,
		app.logger,
	)
	catalogHandler := api.NewCatalogHandler(app.catalogService, app.logger)
	commentHandler := api.NewCommentHandler(app.commentService, app.logger)
	likeHandler := api.NewLikeHandler(app.likeService, app.logger)
	uploadHandler := api.NewUploadHandler(app.uploadService, app.logger)

	var pinger api.Pinger
	if app.db != nil {
		pinger = app.db
	}
	healthHandler := api.NewHealthHandler(pinger, app.logger)

	// Public routes
	r.Get("/health", healthHandler.Health)
	r.Post("/login", userHandler.Login)
	r.Post("/logout", userHandler.Logout)
	r.With(authMiddleware.OptionalAuthenticate).Post("/usuario", userHandler.Register)
	r.Get("/usuario/{id}", userHandler.GetUser)

	r.Get("/publicacion", publicationHandler.ListPublications)
	r.Get("/publicacion/{id}", publicationHandler.GetPublication)
	r.Get("/categoria", catalogHandler.ListCategories)
	r.Get("/categoria/{id}", catalogHandler.GetCategory)
	r.Get("/marca", catalogHandler.ListBrands)
	r.Get("/marca/{id}", catalogHandler.GetBrand)
	r.Get("/comentario", commentHandler.ListAllComments)
	r.Get("/comentario/publicacion/{id}", commentHandler.ListComments)
	r.Get("/like", likeHandler.List)
	r.Get("/like/count", likeHandler.Count)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/me", userHandler.Me)
		r.With(requireAdmin).Get("/usuario", userHandler.ListUsers)
		r.Put("/usuario/{id}", userHandler.UpdateUser)
		r.Delete("/usuario/{id}", userHandler.DeleteUser)

		r.Post("/publicacion", publicationHandler.CreatePublication)
		r.Get("/publicacion/edit-post/{id}", publicationHandler.GetPublicationForEdit)
		r.Put("/publicacion/{id}", publicationHandler.EditPublication)
		r.Delete("/publicacion/{id}", publicationHandler.DeletePublication)
		r.Put("/publicacion/{id}/reorder-images", publicationHandler.ReorderImages)

		r.Post("/comentario", commentHandler.CreateComment)
		r.Delete("/comentario/{id}", commentHandler.DeleteComment)

		r.Post("/like", likeHandler.Like)
		r.Delete("/like", likeHandler.Unlike)

		r.Get("/upload/signed-url", uploadHandler.SignedURL)

		// Catalog administration
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/categoria", catalogHandler.CreateCategory)
			r.Put("/categoria/{id}", catalogHandler.RenameCategory)
			r.Delete("/categoria/{id}", catalogHandler.DeleteCategory)
			r.Post("/marca", catalogHandler.CreateBrand)
			r.Put("/marca/{id}", catalogHandler.RenameBrand)
			r.Delete("/marca/{id}", catalogHandler.DeleteBrand)
		})
	})

	if app.localFiles != nil {
		prefix := strings.TrimRight(app.localFilesPath(), "/")
		files := http.StripPrefix(prefix, http.FileServer(afero.NewHttpFs(app.localFiles)))
		r.Handle(prefix+"/*", files)
	}

	return r
}
