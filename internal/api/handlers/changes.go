package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/cardwatch/internal/models"
	"github.com/codyseavey/cardwatch/internal/services"
)

// appreciationWindow bounds which sets feed the top endpoints: old enough to
// have a meaningful monthly rate, young enough to still be traded actively.
const (
	appreciationMinMonths = 6
	appreciationMaxMonths = 72
	appreciationPoolSize  = 500
)

type ChangeHandler struct {
	tracker  *services.Tracker
	watch    []models.WatchedCard
	cardType models.CardType
}

func NewChangeHandler(tracker *services.Tracker, watch []models.WatchedCard, cardType models.CardType) *ChangeHandler {
	return &ChangeHandler{
		tracker:  tracker,
		watch:    watch,
		cardType: cardType,
	}
}

// GetWatch returns ranked changes for the configured watch list, with buy
// prices threaded through so profit fields are populated.
func (h *ChangeHandler) GetWatch(c *gin.Context) {
	ids := make([]int, len(h.watch))
	buys := make([]float64, len(h.watch))
	for i, wc := range h.watch {
		ids[i] = wc.ID
		buys[i] = wc.BuyPrice
	}

	changes, err := h.tracker.Changes(services.ChangeQuery{
		IDs:       ids,
		BuyPrices: buys,
		MinPrice:  queryFloat(c, "minprice", 0),
		Sort:      models.ParseHorizon(c.Query("sort")),
		Limit:     queryInt(c, "limit", 0),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": changes})
}

// GetTopUltra returns ranked changes for the current best-appreciating ultra
// rares across the catalog.
func (h *ChangeHandler) GetTopUltra(c *gin.Context) {
	h.topByRarity(c, models.RarityUltra)
}

// GetTopSecret is GetTopUltra for secret rares.
func (h *ChangeHandler) GetTopSecret(c *gin.Context) {
	h.topByRarity(c, models.RaritySecret)
}

func (h *ChangeHandler) topByRarity(c *gin.Context, rarity models.Rarity) {
	minPrice := queryFloat(c, "minprice", 0)
	leaders, err := h.tracker.BestAppreciation(c.Request.Context(),
		appreciationMinMonths, appreciationMaxMonths, rarity, h.cardType,
		appreciationPoolSize, minPrice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ids := make([]int, len(leaders))
	for i, mi := range leaders {
		ids[i] = mi.ProductID
	}

	changes, err := h.tracker.Changes(services.ChangeQuery{
		IDs:      ids,
		MinPrice: minPrice,
		Sort:     models.ParseHorizon(c.Query("sort")),
		Limit:    queryInt(c, "limit", 50),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": changes})
}

func queryInt(c *gin.Context, name string, def int) int {
	if s := c.Query(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return def
}

func queryFloat(c *gin.Context, name string, def float64) float64 {
	if s := c.Query(name); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return def
}
