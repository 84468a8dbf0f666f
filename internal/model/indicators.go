package model

// Dashboard is the computed context for the latest point of a detail view.
type Dashboard struct {
	Latest         EnrichedPoint `json:"latest"`
	WindowDays     int           `json:"window_days"`
	Stats          StatsSummary  `json:"stats"`
	Score          ScoreResult   `json:"score"`
	Risk           RiskTier      `json:"risk"`
	LagStatus      LagStatus     `json:"lag_status"`
	DataStale      bool          `json:"data_stale"`
	RSIZone        string        `json:"rsi_zone"`
	VolatilityZone string        `json:"volatility_zone"`
	Advice         string        `json:"advice"`
}

// FundDetail is a windowed series with its dashboard.
// Dashboard is nil when the series is empty.
type FundDetail struct {
	Profile    FundProfile     `json:"profile"`
	WindowDays int             `json:"window_days"`
	Points     []EnrichedPoint `json:"points"`
	Dashboard  *Dashboard      `json:"dashboard,omitempty"`
	Degraded   bool            `json:"degraded"`
}
