package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Catalog endpoints expose each collection's (items, loading, error)
// triple verbatim. A failed collection answers 502 with its message;
// the other collections are unaffected.

func (h *Handler) Films(c *gin.Context) {
	col := h.coord.Films()
	if col.Err != "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": col.Err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": col.Items, "loading": col.Loading})
}

func (h *Handler) Film(c *gin.Context) {
	if h.coord.Films().Loading {
		c.JSON(http.StatusOK, gin.H{"loading": true})
		return
	}
	film, ok := h.coord.Film(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "film not found"})
		return
	}
	c.JSON(http.StatusOK, film)
}

func (h *Handler) People(c *gin.Context) {
	col := h.coord.People()
	if col.Err != "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": col.Err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": col.Items, "loading": col.Loading})
}

func (h *Handler) Locations(c *gin.Context) {
	col := h.coord.Locations()
	if col.Err != "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": col.Err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": col.Items, "loading": col.Loading})
}
