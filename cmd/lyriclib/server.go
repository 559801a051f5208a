package main

import (
	"net/http"
	"strings"

	"lyriclib/internal/app/notebooks"
	"lyriclib/internal/app/social"
	"lyriclib/internal/app/songs"
	"lyriclib/internal/app/taxonomy"
	"lyriclib/internal/app/users"
	"lyriclib/internal/auth"
	"lyriclib/internal/httpapi"
	"lyriclib/internal/middleware"
	"lyriclib/internal/store"
	"lyriclib/internal/web"
)

func newHTTPHandler(cfg Config, dataStore *store.Store) (http.Handler, error) {
	tokens := auth.NewTokenManager(cfg.JWTSecret, 0, 0)

	userSvc := users.New(dataStore, tokens)
	songSvc := songs.New(dataStore)
	taxonomySvc := taxonomy.New(dataStore)
	socialSvc := social.New(dataStore)
	notebookSvc := notebooks.New(dataStore)

	api := httpapi.New(userSvc, songSvc, taxonomySvc, socialSvc, notebookSvc, tokens)

	pages, err := web.New(userSvc, songSvc, taxonomySvc, tokens)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	apiRoutes := api.Routes()
	mux.Handle("/api/", apiRoutes)
	mux.Handle("/health", apiRoutes)
	mux.Handle("/", pages.Routes())

	handler := withCORS(cfg.AllowedOrigins, mux)
	handler = middleware.RequestLogging()(handler)
	handler = middleware.Recovery()(handler)
	return handler, nil
}

func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	originAllowed := func(origin string) bool {
		if len(allowedOrigins) == 0 || origin == "" {
			return false
		}
		for _, o := range allowedOrigins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
