package models

// Change is the derived short-horizon price movement for one product.
// Optional fields are pointers; they are omitted when the underlying data is
// absent. A Change is only produced for products with a price recorded on the
// reference date, so TodaysPrice is always set.
type Change struct {
	ProductID int    `json:"productId"`
	Name      string `json:"name"`
	Set       string `json:"set"`
	SetDate   string `json:"setDate,omitempty"`

	BuyPrice        *float64 `json:"buyPrice,omitempty"`
	TodaysPrice     float64  `json:"todaysPrice"`
	YesterdaysPrice *float64 `json:"yesterdaysPrice,omitempty"`
	DailyChange     *float64 `json:"dailyChange,omitempty"`

	WeeklyRefPrice float64 `json:"weeklyReferencePrice"`
	WeeklyRefDate  string  `json:"weeklyReferenceDate"`
	WeeklyChange   float64 `json:"weeklyChange"`

	MonthlyRefPrice float64 `json:"monthlyReferencePrice"`
	MonthlyRefDate  string  `json:"monthlyReferenceDate"`
	MonthlyChange   float64 `json:"monthlyChange"`

	Profit        float64 `json:"profit"`
	ProfitPercent float64 `json:"profitPercent"`

	DailyPercent   float64 `json:"dailyPercent"`
	WeeklyPercent  float64 `json:"weeklyPercent"`
	MonthlyPercent float64 `json:"monthlyPercent"`
}

// ChangeHorizon selects which percentage drives change ranking.
type ChangeHorizon string

const (
	HorizonDaily   ChangeHorizon = "daily"
	HorizonWeekly  ChangeHorizon = "weekly"
	HorizonMonthly ChangeHorizon = "monthly"
)

// ParseHorizon maps a query-parameter value to a horizon, defaulting to
// monthly for unknown or empty input.
func ParseHorizon(s string) ChangeHorizon {
	switch ChangeHorizon(s) {
	case HorizonDaily, HorizonWeekly, HorizonMonthly:
		return ChangeHorizon(s)
	default:
		return HorizonMonthly
	}
}

// RarityTotal summarizes one rarity tier inside a set index.
type RarityTotal struct {
	Count        int     `json:"count"`
	TotalPrice   float64 `json:"totalPrice"`
	AveragePrice float64 `json:"averagePrice"`
}

// SetIndex is the aggregate value of one set/rarity on the reference day.
type SetIndex struct {
	Set         string  `json:"set"`
	Rarity      Rarity  `json:"rarity"`
	Total       float64 `json:"total"`
	Average     float64 `json:"average"`
	DailyChange float64 `json:"dailyChange"`
}

// SetTotal combines the ultra-rare and secret-rare indices of a watched set
// with summed per-card movement, for ranking sets against each other.
type SetTotal struct {
	Set     string `json:"set"`
	SetLink string `json:"setLink"`
	Date    string `json:"date"`

	UltraRares  RarityTotal `json:"ultraRares"`
	SecretRares RarityTotal `json:"secretRares"`
	AllCards    RarityTotal `json:"allCards"`

	AverageMonthlyIncrease float64 `json:"averageMonthlyIncrease"`
	MonthChange            float64 `json:"monthChange"`
	WeekChange             float64 `json:"weekChange"`
	DayChange              float64 `json:"dayChange"`
}

// SetSortKey selects the ordering of set totals.
type SetSortKey string

const (
	SortTotalCost            SetSortKey = "total-cost"
	SortMonthlyChange        SetSortKey = "monthly-change"
	SortWeeklyChange         SetSortKey = "weekly-change"
	SortDailyChange          SetSortKey = "daily-change"
	SortMonthlyAverageChange SetSortKey = "monthly-average-change"
	SortAllAverage           SetSortKey = "all-average"
	SortUltraRareTotal       SetSortKey = "ultra-rare-total"
	SortUltraRareAverage     SetSortKey = "ultra-rare-average"
	SortSecretRareTotal      SetSortKey = "secret-rare-total"
	SortSecretRareAverage    SetSortKey = "secret-rare-average"
)

// ParseSetSortKey maps a query-parameter value to a sort key, defaulting to
// monthly-change for unknown or empty input.
func ParseSetSortKey(s string) SetSortKey {
	switch SetSortKey(s) {
	case SortTotalCost, SortMonthlyChange, SortWeeklyChange, SortDailyChange,
		SortMonthlyAverageChange, SortAllAverage, SortUltraRareTotal,
		SortUltraRareAverage, SortSecretRareTotal, SortSecretRareAverage:
		return SetSortKey(s)
	default:
		return SortMonthlyChange
	}
}
