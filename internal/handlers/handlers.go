package handlers

import (
	"net/http"

	_ "github.com/avolkov/luckygrid/docs"
	adminhandlers "github.com/avolkov/luckygrid/internal/handlers/admin"
	authhandlers "github.com/avolkov/luckygrid/internal/handlers/auth"
	chathandlers "github.com/avolkov/luckygrid/internal/handlers/chat"
	usershandlers "github.com/avolkov/luckygrid/internal/handlers/users"
	"github.com/avolkov/luckygrid/internal/service"
	pkgauth "github.com/avolkov/luckygrid/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type UsersHandler interface {
	GetStats(w http.ResponseWriter, r *http.Request)
	UpdateBalance(w http.ResponseWriter, r *http.Request)
}

type ChatHandler interface {
	GetMessages(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	ListUsers(w http.ResponseWriter, r *http.Request)
	SetBalance(w http.ResponseWriter, r *http.Request)
}

type WSHandler interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler  AuthHandler
	UsersHandler UsersHandler
	ChatHandler  ChatHandler
	AdminHandler AdminHandler
	WSHandler    WSHandler

	jwtService pkgauth.JWTServiceInterface
}

func New(s *service.Services, jwtService pkgauth.JWTServiceInterface, wsHandler WSHandler) *Handlers {
	return &Handlers{
		AuthHandler:  authhandlers.New(s.AuthService),
		UsersHandler: usershandlers.New(s.LedgerService),
		ChatHandler:  chathandlers.New(s.ChatService),
		AdminHandler: adminhandlers.New(s.AuthService, s.LedgerService),
		WSHandler:    wsHandler,
		jwtService:   jwtService,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	// Websocket auth happens inside ServeWS via the token query param.
	r.Get("/ws", h.WSHandler.ServeWS)
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.AuthHandler.Register)
		r.Post("/auth/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(pkgauth.AuthMiddleware(h.jwtService))
			r.Get("/auth/me", h.AuthHandler.Me)
			r.Route("/users", func(r chi.Router) {
				r.Get("/stats", h.UsersHandler.GetStats)
				r.Put("/balance", h.UsersHandler.UpdateBalance)
			})
			r.Get("/chat/messages", h.ChatHandler.GetMessages)

			r.Group(func(r chi.Router) {
				r.Use(pkgauth.AdminOnly)
				r.Put("/chat/messages/{id}/read", h.ChatHandler.MarkRead)
				r.Route("/admin", func(r chi.Router) {
					r.Get("/users", h.AdminHandler.ListUsers)
					r.Put("/users/{id}/balance", h.AdminHandler.SetBalance)
				})
			})
		})
	})

	return r
}
