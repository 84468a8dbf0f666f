package fund

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"PremiumSentinel/internal/model"
)

// ErrUnknownFund is returned for a ticker missing from the catalog.
var ErrUnknownFund = errors.New("unknown fund")

// Catalog holds the fund profiles in display order, safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	profiles []model.FundProfile
	index    map[string]int
}

// NewCatalog builds a catalog. An empty list falls back to DefaultProfiles.
func NewCatalog(profiles []model.FundProfile) (*Catalog, error) {
	c := &Catalog{}
	if len(profiles) == 0 {
		profiles = DefaultProfiles
	}
	if err := c.Replace(profiles); err != nil {
		return nil, err
	}
	return c, nil
}

// Replace swaps the whole profile list after validating it.
func (c *Catalog) Replace(profiles []model.FundProfile) error {
	index := make(map[string]int, len(profiles))
	list := make([]model.FundProfile, 0, len(profiles))
	for _, p := range profiles {
		p.Ticker = strings.TrimSpace(p.Ticker)
		if p.Ticker == "" {
			return errors.New("fund profile without ticker")
		}
		if p.MarketCode == "" {
			return fmt.Errorf("fund %s: missing market code", p.Ticker)
		}
		if _, dup := index[p.Ticker]; dup {
			return fmt.Errorf("fund %s: duplicate ticker", p.Ticker)
		}
		index[p.Ticker] = len(list)
		list = append(list, p)
	}

	c.mu.Lock()
	c.profiles = list
	c.index = index
	c.mu.Unlock()
	return nil
}

// All returns a copy of the profiles in display order.
func (c *Catalog) All() []model.FundProfile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.FundProfile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// Lookup finds a profile by ticker.
func (c *Catalog) Lookup(ticker string) (model.FundProfile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[strings.TrimSpace(ticker)]
	if !ok {
		return model.FundProfile{}, fmt.Errorf("%w: %s", ErrUnknownFund, ticker)
	}
	return c.profiles[i], nil
}
