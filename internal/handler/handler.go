package handler

import (
	"net/http"
	"time"

	"ghibli-service/internal/auth"
	"ghibli-service/internal/auth/oauth"
	"ghibli-service/internal/auth/resolver"
	"ghibli-service/internal/coordinator"
	"ghibli-service/internal/middleware"
	"ghibli-service/internal/profile"
	"ghibli-service/internal/session"

	"github.com/gin-gonic/gin"
)

const webSessionTTL = 24 * time.Hour

type Handler struct {
	coord        *coordinator.Coordinator
	sessionStore session.Store
	profiles     *profile.Service
	oauth        *oauth.Registry
	resolver     resolver.Resolver
}

func NewHandler(
	coord *coordinator.Coordinator,
	sessionStore session.Store,
	profiles *profile.Service,
	registry *oauth.Registry,
	identityResolver resolver.Resolver,
) *Handler {
	return &Handler{
		coord:        coord,
		sessionStore: sessionStore,
		profiles:     profiles,
		oauth:        registry,
		resolver:     identityResolver,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, authMW *middleware.AuthMiddleware) {
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)

	if h.oauth != nil && !h.oauth.Empty() {
		r.GET("/oauth/login/:provider", h.oauthLogin)
		r.GET("/oauth/callback/:provider", h.oauthCallback)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/films", h.Films)
	api.GET("/films/:id", h.Film)
	api.GET("/people", h.People)
	api.GET("/locations", h.Locations)

	protected := api.Group("")
	protected.Use(middleware.GinRequireAuth(authMW))

	protected.GET("/me", h.Me)
	protected.GET("/favorites", h.Favorites)
	protected.PUT("/favorites/:filmID", h.AddFavorite)
	protected.DELETE("/favorites/:filmID", h.RemoveFavorite)
}

// issueWebSession creates the server-side session record and sets the
// cookie. Shared by login, register and the oauth callback.
func (h *Handler) issueWebSession(c *gin.Context, uid string) error {
	sessionID, err := session.GenerateID()
	if err != nil {
		return err
	}

	now := time.Now()
	sess := session.Session{
		SessionID: sessionID,
		UserID:    uid,
		CreatedAt: now,
		ExpiresAt: now.Add(webSessionTTL),
	}

	if err := h.sessionStore.Create(c.Request.Context(), sess); err != nil {
		return err
	}

	session.SetCookie(c.Writer, sessionID, sess.ExpiresAt)

	return nil
}

// identityErrorStatus maps provider error codes to HTTP responses.
// This mapping is the boundary's concern; the core never sees it.
func identityErrorStatus(err error) (int, string) {
	switch err {
	case auth.ErrInvalidCredential:
		return http.StatusUnauthorized, "invalid credentials"
	case auth.ErrEmailAlreadyRegistered:
		return http.StatusConflict, "account already exists"
	case auth.ErrMalformedEmail:
		return http.StatusBadRequest, "malformed email address"
	case auth.ErrWeakCredential:
		return http.StatusBadRequest, "password too weak"
	case auth.ErrNoSession:
		return http.StatusUnauthorized, "not signed in"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
