package model

// FundProfile is static metadata for one exchange-traded fund.
type FundProfile struct {
	Ticker         string `yaml:"ticker" json:"ticker"`
	MarketCode     string `yaml:"market_code" json:"market_code"` // "1.xxxxxx" Shanghai, "0.xxxxxx" Shenzhen
	Name           string `yaml:"name" json:"name"`
	Description    string `yaml:"description" json:"description"`
	NavSourceURL   string `yaml:"nav_source_url" json:"nav_source_url"`
	PriceSourceURL string `yaml:"price_source_url" json:"price_source_url"`
}

// FundSeries pairs a profile with its enriched series.
// Degraded is set when an upstream fetch failed and Points was left empty.
type FundSeries struct {
	Profile  FundProfile
	Points   []EnrichedPoint
	Degraded bool
}
