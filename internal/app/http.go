package app

import (
	"context"

	"ghibli-service/internal/auth/credentials"
	"ghibli-service/internal/auth/oauth"
	"ghibli-service/internal/auth/oauth/google"
	"ghibli-service/internal/auth/provider"
	"ghibli-service/internal/auth/resolver"
	"ghibli-service/internal/catalog"
	"ghibli-service/internal/config"
	"ghibli-service/internal/coordinator"
	"ghibli-service/internal/docstore"
	"ghibli-service/internal/favorites"
	"ghibli-service/internal/handler"
	"ghibli-service/internal/logger"
	"ghibli-service/internal/middleware"
	"ghibli-service/internal/profile"
	"ghibli-service/internal/session"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, *coordinator.Coordinator, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	store := docstore.NewPostgresStore(infra.DB.DB)
	sessionStore := session.NewRedisStore(infra.Redis.Client)

	identityProvider := credentials.NewService(store)

	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout)
	loader := catalog.NewLoader(catalogClient, cfg.CatalogRetries)

	var favOpts []favorites.Option
	if cfg.FavoritesRefreshInterval > 0 {
		favOpts = append(favOpts, favorites.WithRefreshInterval(cfg.FavoritesRefreshInterval))
	}
	favs := favorites.New(store, favOpts...)

	coord := coordinator.New(provider.Provider(identityProvider), loader, favs)

	profiles := profile.NewService(store)
	identityResolver := resolver.NewDocResolver(store)

	// OAuth is optional: a failed OIDC discovery degrades to
	// credentials-only sign-in instead of refusing to boot.
	var oauthProviders []oauth.Provider
	if cfg.GoogleClientID != "" {
		googleProvider, err := google.New(
			ctx,
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
		)
		if err != nil {
			logger.Warn("google oauth disabled", map[string]any{
				"error": err.Error(),
			})
		} else {
			oauthProviders = append(oauthProviders, googleProvider)
		}
	}
	registry := oauth.NewRegistry(oauthProviders...)

	apiHandler := handler.NewHandler(coord, sessionStore, profiles, registry, identityResolver)
	authMiddleware := middleware.NewAuthMiddleware(sessionStore)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	apiHandler.RegisterRoutes(router, authMiddleware)

	return router, coord, func() error {
		return infra.DB.Close()
	}, nil
}
