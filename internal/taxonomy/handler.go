package taxonomy

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lorehub/internal/roster"
	"lorehub/pkg/models"
)

// Handler serves the derived taxonomies over HTTP. Every request rebuilds
// from the current library snapshot; the input is small and the build is
// cheap, so there is no cache to invalidate.
type Handler struct {
	Roster *roster.Repo
}

func NewHandler(repo *roster.Repo) *Handler {
	return &Handler{Roster: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.all)
	rg.GET("/:type", h.dimension)
	rg.GET("/:type/:slug", h.entry)
}

func (h *Handler) all(c *gin.Context) {
	set, ok := h.buildSet(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, set)
}

func (h *Handler) dimension(c *gin.Context) {
	set, ok := h.buildSet(c)
	if !ok {
		return
	}
	entries := set.Dimension(c.Param("type"))
	if entries == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown taxonomy type"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"type":    c.Param("type"),
		"total":   len(entries),
		"entries": entries,
	})
}

func (h *Handler) entry(c *gin.Context) {
	set, ok := h.buildSet(c)
	if !ok {
		return
	}
	entries := set.Dimension(c.Param("type"))
	if entries == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown taxonomy type"})
		return
	}
	slug := c.Param("slug")
	for _, e := range entries {
		if e.Slug == slug {
			c.JSON(http.StatusOK, e)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

func (h *Handler) buildSet(c *gin.Context) (models.TaxonomySet, bool) {
	chars, err := h.Roster.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load library failed"})
		return models.TaxonomySet{}, false
	}

	set, err := Build(chars)
	if err != nil {
		if errors.Is(err, models.ErrInvariantViolation) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "library invariant violation"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "taxonomy build failed"})
		}
		return models.TaxonomySet{}, false
	}
	return set, true
}
