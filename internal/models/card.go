package models

// Rarity is the upstream scarcity tier used as a search filter dimension.
type Rarity string

const (
	RarityCommon   Rarity = "Common"
	RarityRare     Rarity = "Rare"
	RarityHoloRare Rarity = "Holo Rare"
	RarityUltra    Rarity = "Ultra Rare"
	RaritySecret   Rarity = "Secret Rare"
)

// CardType is the physical print finish distinguishing price records for the
// same product (the upstream "subTypeName").
type CardType string

const (
	CardTypeHolofoil    CardType = "Holofoil"
	CardTypeReverseHolo CardType = "Reverse Holofoil"
	CardTypeNormal      CardType = "Normal"
)

// AllRarities returns the rarities the upstream catalog search accepts
func AllRarities() []Rarity {
	return []Rarity{
		RarityCommon,
		RarityRare,
		RarityHoloRare,
		RarityUltra,
		RaritySecret,
	}
}

// ParseRarity maps a query-parameter value to a rarity, defaulting to ultra
// rare for unknown or empty input.
func ParseRarity(s string) Rarity {
	for _, r := range AllRarities() {
		if Rarity(s) == r {
			return r
		}
	}
	switch s {
	case "ultra":
		return RarityUltra
	case "secret":
		return RaritySecret
	}
	return RarityUltra
}

// ProductInfo is the catalog metadata returned per product id
type ProductInfo struct {
	ProductID int    `json:"productId"`
	Name      string `json:"name"`
}

// PriceInfo is the current market valuation returned per product id and finish
type PriceInfo struct {
	ProductID   int      `json:"productId"`
	MarketPrice float64  `json:"marketPrice"`
	SubTypeName CardType `json:"subTypeName"`
}

// CardRef pairs a product id with its owning set name for ingestion
type CardRef struct {
	ID  int    `json:"id"`
	Set string `json:"set"`
}

// WatchedCard is a card on the operator's watch list with its purchase price
type WatchedCard struct {
	ID       int     `json:"id" mapstructure:"id"`
	BuyPrice float64 `json:"buy_price" mapstructure:"buy_price"`
	Set      string  `json:"set" mapstructure:"set"`
}

// MarketInfo is the appreciation-ranking intermediate for one product
type MarketInfo struct {
	ProductID        int     `json:"productId"`
	Name             string  `json:"name"`
	Set              string  `json:"set"`
	MarketPrice      float64 `json:"marketPrice"`
	MonthsFromToday  int     `json:"monthsFromToday"`
	IncreasePerMonth float64 `json:"increasePerMonth"`
}
