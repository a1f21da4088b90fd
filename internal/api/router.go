package api

import (
	"context"
	"fmt"
	"net/http"

	_ "github.com/rohits-web03/evently/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rohits-web03/evently/internal/api/handlers"
	"github.com/rohits-web03/evently/internal/api/middleware"
	"github.com/rohits-web03/evently/internal/api/services"
	"github.com/rohits-web03/evently/internal/config"
	"github.com/rohits-web03/evently/internal/logging"
	"github.com/rs/cors"
)

// Services groups the domain services the router exposes. Google may be nil.
type Services struct {
	Tokens *services.TokenIssuer
	Auth   *services.AuthService
	Google *services.GoogleAuth
	Users  *services.UserService
	Events *services.EventService
}

func SetupRouter(cfg config.Config, svc Services, log logging.Logger) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(cfg.CorsConfig)

	authHandler := handlers.NewAuthHandler(svc.Auth, svc.Google, cfg, log)
	eventHandler := handlers.NewEventHandler(svc.Events, log)
	userHandler := handlers.NewUserHandler(svc.Users, log)
	authn := middleware.NewAuthenticator(svc.Tokens, svc.Users, log)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	mainMux.HandleFunc("POST /auth/register", authHandler.Register)
	mainMux.HandleFunc("POST /auth/login", authHandler.Login)
	mainMux.HandleFunc("POST /auth/logout", authHandler.Logout)
	mainMux.HandleFunc("GET /auth/google/login", authHandler.GoogleLogin)
	mainMux.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)

	mainMux.HandleFunc("GET /events", eventHandler.ListEvents)

	// ---------- PROTECTED ROUTES ----------
	protected := func(pattern string, h http.HandlerFunc) {
		mainMux.Handle(pattern, authn.Require(h))
	}

	protected("POST /events", eventHandler.CreateEvent)
	protected("GET /events/all", eventHandler.ListAllEvents)
	protected("GET /events/{id}", eventHandler.GetEvent)
	protected("PUT /events/{id}", eventHandler.UpdateEvent)
	protected("DELETE /events/{id}", eventHandler.DeleteEvent)
	protected("POST /events/{id}/restore", eventHandler.RestoreEvent)
	protected("POST /events/{id}/subscribe", eventHandler.Subscribe)
	protected("POST /events/{id}/unsubscribe", eventHandler.Unsubscribe)
	protected("GET /events/{id}/participants", eventHandler.Participants)
	protected("POST /events/{id}/poster/presign", eventHandler.PresignPoster)
	protected("POST /events/{id}/poster/complete", eventHandler.CompletePoster)
	protected("GET /events/{id}/poster", eventHandler.PosterURL)

	protected("GET /users", userHandler.ListUsers)
	protected("GET /users/all", userHandler.ListAllUsers)
	protected("GET /users/me", userHandler.Me)
	protected("GET /users/info/{id}", userHandler.UserInfo)
	protected("GET /users/{id}", userHandler.GetUser)
	protected("DELETE /users/{id}", userHandler.DeleteUser)
	protected("POST /users/{id}/restore", userHandler.RestoreUser)
	// /users/{id}/created-events overlaps /users/info/{id} in ServeMux, so the
	// trailing literal is matched by the handler.
	protected("GET /users/{id}/{view}", userHandler.CreatedEvents)

	log.Info(context.Background(), "router initialized")

	var handler http.Handler = mainMux
	handler = middleware.RestrictOrigins(cfg.TrustedDomains, http.MethodPut, http.MethodDelete)(handler)
	handler = middleware.RestrictCookieOrigins(cfg.TrustedDomains, http.MethodPost, http.MethodPatch)(handler)
	handler = c.Handler(handler)
	handler = middleware.Logger(log)(handler)
	return handler
}
