package handler

import (
	"net/http"

	"ghibli-service/internal/catalog"

	"github.com/gin-gonic/gin"
)

// Favorites reports the id set plus the matching film records, the way
// the favorites screen consumes them.
func (h *Handler) Favorites(c *gin.Context) {
	ids := h.coord.FavoriteIDs()

	films := make([]catalog.Film, 0, len(ids))
	for _, id := range ids {
		if film, ok := h.coord.Film(id); ok {
			films = append(films, film)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"ids":     ids,
		"films":   films,
		"loading": h.coord.FavoritesLoading(),
	})
}

func (h *Handler) AddFavorite(c *gin.Context) {
	filmID := c.Param("filmID")

	if h.coord.Films().Loading {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog still loading"})
		return
	}

	film, ok := h.coord.Film(filmID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "film not found"})
		return
	}

	if err := h.coord.AddFavorite(c.Request.Context(), film); err != nil {
		status, msg := identityErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorite": true})
}

func (h *Handler) RemoveFavorite(c *gin.Context) {
	if err := h.coord.RemoveFavorite(c.Request.Context(), c.Param("filmID")); err != nil {
		status, msg := identityErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.Status(http.StatusNoContent)
}
