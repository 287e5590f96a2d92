package lineup

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"lorehub/internal/auth"
	"lorehub/internal/live"
	"lorehub/internal/roster"
	"lorehub/pkg/models"
)

type Handler struct {
	Repo   *Repo
	Roster *roster.Repo
	Hub    *live.Hub
}

func NewHandler(repo *Repo, rosterRepo *roster.Repo, hub *live.Hub) *Handler {
	return &Handler{Repo: repo, Roster: rosterRepo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/lineup", h.list)
	rg.POST("/lineup", h.addOrUpdate)
	rg.PUT("/lineup/:character_id", h.addOrUpdate)
	rg.DELETE("/lineup/:character_id", h.remove)
	rg.GET("/lineup/:character_id", h.getOne)
}

type upsertReq struct {
	CharacterID string `json:"character_id"` // required for POST
	Role        string `json:"role"`
	Note        string `json:"note"`
}

func (h *Handler) addOrUpdate(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req upsertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	characterID := strings.TrimSpace(req.CharacterID)
	if characterID == "" {
		characterID = strings.TrimSpace(c.Param("character_id"))
	}
	if characterID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "character_id required"})
		return
	}

	role := normalizeRole(req.Role)
	if role == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "role must be one of: champion, contender, reserve",
		})
		return
	}

	// Only known characters can join a lineup.
	ch, err := h.Roster.GetByID(c.Request.Context(), characterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if ch == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
		return
	}

	item := models.LineupItem{
		UserID:      claims.UserID,
		CharacterID: ch.ID,
		Role:        role,
		Note:        strings.TrimSpace(req.Note),
	}
	if err := h.Repo.Upsert(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	// Return canonical stored row including updated_at
	saved, err := h.Repo.Get(c.Request.Context(), claims.UserID, ch.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch saved failed"})
		return
	}
	if saved == nil {
		// should not happen, but safe
		item.UpdatedAt = time.Now().UTC()
		saved = &item
	}

	if h.Hub != nil {
		ev := live.LineupEvent{
			Type:        live.EventLineupUpdate,
			UserID:      claims.UserID,
			CharacterID: ch.ID,
			Role:        saved.Role,
			At:          time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusOK, saved)
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	role := strings.TrimSpace(c.Query("role"))
	if role != "" {
		role = normalizeRole(role)
		if role == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role filter"})
			return
		}
	}

	limit := parseInt(c.Query("limit"), 20)
	offset := parseInt(c.Query("offset"), 0)

	items, total, err := h.Repo.List(c.Request.Context(), claims.UserID, role, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  items,
	})
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	characterID := strings.TrimSpace(c.Param("character_id"))
	if characterID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "character_id required"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), claims.UserID, characterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if h.Hub != nil {
		ev := live.LineupEvent{
			Type:        live.EventLineupDelete,
			UserID:      claims.UserID,
			CharacterID: characterID,
			At:          time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) getOne(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	characterID := strings.TrimSpace(c.Param("character_id"))
	if characterID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "character_id required"})
		return
	}

	it, err := h.Repo.Get(c.Request.Context(), claims.UserID, characterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if it == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, it)
}

func normalizeRole(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "champion":
		return "champion"
	case "contender":
		return "contender"
	case "reserve", "bench":
		return "reserve"
	default:
		return ""
	}
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
