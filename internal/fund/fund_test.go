package fund

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PremiumSentinel/internal/model"
)

func TestNewCatalog_Defaults(t *testing.T) {
	c, err := NewCatalog(nil)
	require.NoError(t, err)

	all := c.All()
	require.Len(t, all, 7)
	assert.Equal(t, "513100", all[0].Ticker)

	p, err := c.Lookup("159941")
	require.NoError(t, err)
	assert.Equal(t, "0.159941", p.MarketCode)
	assert.Equal(t, "广发纳斯达克100", p.Name)
}

func TestLookup_Unknown(t *testing.T) {
	c, err := NewCatalog(nil)
	require.NoError(t, err)
	_, err = c.Lookup("000001")
	assert.True(t, errors.Is(err, ErrUnknownFund))
}

func TestReplace_Validation(t *testing.T) {
	c, err := NewCatalog(nil)
	require.NoError(t, err)

	assert.Error(t, c.Replace([]model.FundProfile{{Ticker: "", MarketCode: "1.1"}}))
	assert.Error(t, c.Replace([]model.FundProfile{{Ticker: "513100"}}))
	assert.Error(t, c.Replace([]model.FundProfile{
		{Ticker: "513100", MarketCode: "1.513100"},
		{Ticker: "513100", MarketCode: "1.513100"},
	}))
	// failed replacements keep the previous list
	assert.Len(t, c.All(), 7)
}

func TestAll_ReturnsCopy(t *testing.T) {
	c, err := NewCatalog(nil)
	require.NoError(t, err)
	all := c.All()
	all[0].Name = "changed"
	p, _ := c.Lookup("513100")
	assert.Equal(t, "国泰纳斯达克100", p.Name)
}

func TestProfilesFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funds.yaml")

	missing, err := LoadProfiles(path)
	require.NoError(t, err)
	assert.Nil(t, missing)

	custom := []model.FundProfile{{Ticker: "513100", MarketCode: "1.513100", Name: "纳指ETF"}}
	require.NoError(t, SaveProfiles(path, custom))

	loaded, err := LoadProfiles(path)
	require.NoError(t, err)
	assert.Equal(t, custom, loaded)

	c, err := NewCatalog(loaded)
	require.NoError(t, err)
	assert.Len(t, c.All(), 1)
}
