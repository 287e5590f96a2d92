// Package arena exposes the interactive duel surface: random pair picks,
// character duels, and faction duels. Every endpoint accepts an optional
// seed; responses echo the seed actually used so any outcome can be
// replayed.
package arena

import (
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"lorehub/internal/duel"
	"lorehub/internal/live"
	"lorehub/internal/random"
	"lorehub/internal/roster"
	"lorehub/internal/taxonomy"
	"lorehub/pkg/models"
)

type Handler struct {
	Roster *roster.Repo
	Hub    *live.Hub
}

func NewHandler(repo *roster.Repo, hub *live.Hub) *Handler {
	return &Handler{Roster: repo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/pair", h.pair)
	rg.POST("/duel", h.duelByID)
	rg.GET("/random-duel", h.randomDuel)
	rg.POST("/faction-duel", h.factionDuel)
}

func (h *Handler) pair(c *gin.Context) {
	seed, ok := seedFromQuery(c)
	if !ok {
		return
	}

	chars, err := h.Roster.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load library failed"})
		return
	}

	opts := duel.PairOptions{
		Filter:    normalizeFilter(c.Query("filter")),
		ExcludeID: strings.TrimSpace(c.Query("exclude")),
	}

	pair := duel.PickPair(rand.New(rand.NewSource(seed)), chars, opts)
	if pair == nil {
		pair = []models.Character{}
	}
	c.JSON(http.StatusOK, gin.H{"seed": seed, "pair": pair})
}

type duelReq struct {
	Char1ID string `json:"char1_id"`
	Char2ID string `json:"char2_id"`
	Seed    *int64 `json:"seed"`
}

func (h *Handler) duelByID(c *gin.Context) {
	var req duelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	id1 := strings.TrimSpace(req.Char1ID)
	id2 := strings.TrimSpace(req.Char2ID)
	if id1 == "" || id2 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "char1_id and char2_id required"})
		return
	}
	if id1 == id2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a character cannot duel itself"})
		return
	}

	c1, err := h.Roster.GetByID(c.Request.Context(), id1)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	c2, err := h.Roster.GetByID(c.Request.Context(), id2)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if c1 == nil || c2 == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
		return
	}

	seed, ok := seedFromPointer(c, req.Seed)
	if !ok {
		return
	}

	res := duel.Simulate(rand.New(rand.NewSource(seed)), *c1, *c2)
	h.broadcastDuel(seed, res)

	c.JSON(http.StatusOK, gin.H{"seed": seed, "result": res})
}

func (h *Handler) randomDuel(c *gin.Context) {
	seed, ok := seedFromQuery(c)
	if !ok {
		return
	}

	chars, err := h.Roster.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load library failed"})
		return
	}

	filter := c.Query("filter")
	if filter == "" {
		// The duel UI only shows characters it can draw.
		filter = duel.FilterWithPortrait
	}

	rng := rand.New(rand.NewSource(seed))
	pair := duel.PickPair(rng, chars, duel.PairOptions{Filter: normalizeFilter(filter)})
	if pair == nil {
		c.JSON(http.StatusOK, gin.H{"seed": seed, "pair": []models.Character{}, "result": nil})
		return
	}

	res := duel.Simulate(rng, pair[0], pair[1])
	h.broadcastDuel(seed, res)

	c.JSON(http.StatusOK, gin.H{"seed": seed, "pair": pair, "result": res})
}

type factionDuelReq struct {
	Left  string `json:"left"`
	Right string `json:"right"`
	Seed  *int64 `json:"seed"`
}

func (h *Handler) factionDuel(c *gin.Context) {
	var req factionDuelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	seed, ok := seedFromPointer(c, req.Seed)
	if !ok {
		return
	}

	chars, err := h.Roster.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load library failed"})
		return
	}
	set, err := taxonomy.Build(chars)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "taxonomy build failed"})
		return
	}

	rng := rand.New(rand.NewSource(seed))

	var left, right *models.TaxonomyEntry
	if strings.TrimSpace(req.Left) == "" && strings.TrimSpace(req.Right) == "" {
		pair := duel.PickEntryPair(rng, set.Factions)
		if pair == nil {
			c.JSON(http.StatusOK, gin.H{"seed": seed, "result": nil})
			return
		}
		left, right = &pair[0], &pair[1]
	} else {
		left = findEntry(set.Factions, req.Left)
		right = findEntry(set.Factions, req.Right)
		if left == nil || right == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "faction not found"})
			return
		}
		if left.Slug == right.Slug {
			c.JSON(http.StatusBadRequest, gin.H{"error": "a faction cannot duel itself"})
			return
		}
	}

	res := duel.ResolveFactionDuel(rng, *left, *right)

	if h.Hub != nil {
		ev := live.ArenaEvent{
			Type:       live.EventArenaResult,
			Seed:       seed,
			WinnerSlug: res.Winner.Slug,
			LoserSlug:  res.Loser.Slug,
			Narrative:  res.Narrative,
			At:         time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusOK, gin.H{"seed": seed, "result": res})
}

func (h *Handler) broadcastDuel(seed int64, res models.DuelResult) {
	if h.Hub == nil {
		return
	}
	ev := live.DuelEvent{
		Type:     live.EventDuelResult,
		Seed:     seed,
		WinnerID: res.Winner.ID,
		LoserID:  res.Loser.ID,
		Logs:     res.Logs,
		At:       time.Now().UTC(),
	}
	go h.Hub.BroadcastJSON(ev)
}

func findEntry(entries []models.TaxonomyEntry, slug string) *models.TaxonomyEntry {
	slug = strings.TrimSpace(slug)
	for i := range entries {
		if entries[i].Slug == slug {
			return &entries[i]
		}
	}
	return nil
}

func normalizeFilter(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case duel.FilterWithPortrait, "withportrait", "portrait":
		return duel.FilterWithPortrait
	default:
		return duel.FilterAll
	}
}

// seedFromQuery parses an optional ?seed= parameter, drawing a fresh crypto
// seed when absent. Writes the error response itself on failure.
func seedFromQuery(c *gin.Context) (int64, bool) {
	raw := strings.TrimSpace(c.Query("seed"))
	if raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "seed must be an integer"})
			return 0, false
		}
		return n, true
	}
	return freshSeed(c)
}

func seedFromPointer(c *gin.Context, seed *int64) (int64, bool) {
	if seed != nil {
		return *seed, true
	}
	return freshSeed(c)
}

func freshSeed(c *gin.Context) (int64, bool) {
	n, err := random.NewSeed()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "seed generation failed"})
		return 0, false
	}
	return n, true
}
