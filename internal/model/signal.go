package model

// StatsSummary places a value within a historical population.
type StatsSummary struct {
	Rank int     `json:"rank"` // 0-100, share of history at or below the value
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Avg  float64 `json:"avg"`
}

// ScoreResult is the composite 0-100 score with its label and style tag.
type ScoreResult struct {
	Score int    `json:"score"`
	Label string `json:"label"`
	Style string `json:"style"`
}

// RiskLevel is the premium-only risk tier.
type RiskLevel string

const (
	RiskSafe    RiskLevel = "SAFE"
	RiskNormal  RiskLevel = "NORMAL"
	RiskCaution RiskLevel = "CAUTION"
	RiskHigh    RiskLevel = "HIGH"
)

// RiskTier carries the fixed label, style and advisory sentence of a risk level.
type RiskTier struct {
	Level  RiskLevel `json:"level"`
	Label  string    `json:"label"`
	Style  string    `json:"style"`
	Advice string    `json:"advice"`
}

// LagStatus classifies the reference-value lag of a point.
type LagStatus string

const (
	LagNormal  LagStatus = "NORMAL"
	LagLagging LagStatus = "LAGGING"
	LagStale   LagStatus = "STALE"
)

// RankingRow is one fund's line in the comparison table.
type RankingRow struct {
	Ticker     string       `json:"ticker"`
	Name       string       `json:"name"`
	Premium    float64      `json:"premium"`
	Rank       int          `json:"rank"`
	Score      int          `json:"score"`
	Label      string       `json:"label"`
	Style      string       `json:"style"`
	Risk       RiskTier     `json:"risk"`
	LastUpdate string       `json:"last_update,omitempty"`
	Degraded   bool         `json:"degraded"`
	Stats      StatsSummary `json:"stats"`
}

// TopPick is the portfolio's single best-scoring fund.
type TopPick struct {
	Row  RankingRow `json:"row"`
	Good bool       `json:"good"`
}

// Ranking is a sorted comparison table with its banner.
// Top is nil when no fund had data.
type Ranking struct {
	Rows        []RankingRow `json:"rows"`
	Top         *TopPick     `json:"top,omitempty"`
	BannerTitle string       `json:"banner_title"`
	BannerText  string       `json:"banner_text"`
}
