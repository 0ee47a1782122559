package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/cardwatch/internal/models"
	"github.com/codyseavey/cardwatch/internal/services"
)

type SetHandler struct {
	tracker        *services.Tracker
	maxWatchMonths int
	cardType       models.CardType
}

func NewSetHandler(tracker *services.Tracker, maxWatchMonths int, cardType models.CardType) *SetHandler {
	return &SetHandler{
		tracker:        tracker,
		maxWatchMonths: maxWatchMonths,
		cardType:       cardType,
	}
}

// GetSets returns the per-set overview for recently released sets, ordered by
// the requested sort key.
func (h *SetHandler) GetSets(c *gin.Context) {
	totals, err := h.tracker.Totals(c.Request.Context(), h.maxWatchMonths,
		h.cardType, models.ParseSetSortKey(c.Query("sort")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sets": totals})
}

// GetSet returns ranked changes for one set's ultra rares, addressed by slug.
func (h *SetHandler) GetSet(c *gin.Context) {
	set := models.FindSetBySlug(h.tracker.Sets(), c.Param("slug"))
	if set == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "set not found"})
		return
	}

	ids, err := h.tracker.SearchIDs(c.Request.Context(), models.RarityUltra, set.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	changes, err := h.tracker.Changes(services.ChangeQuery{
		IDs:      ids,
		MinPrice: queryFloat(c, "minprice", 0),
		Sort:     models.ParseHorizon(c.Query("sort")),
		Limit:    queryInt(c, "limit", 0),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"set": set.Name, "date": set.Date, "cards": changes})
}

// GetIndex returns the aggregate value of one set/rarity today.
func (h *SetHandler) GetIndex(c *gin.Context) {
	set := c.Query("set")
	if set == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "set is required"})
		return
	}
	rarity := models.ParseRarity(c.Query("rarity"))

	idx, err := h.tracker.Index(c.Request.Context(), rarity, set, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, idx)
}
