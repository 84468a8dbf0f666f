package fund

import "PremiumSentinel/internal/model"

// DefaultProfiles is the built-in Nasdaq-100 fund list.
// Market codes are prefixed 1. for Shanghai and 0. for Shenzhen listings.
var DefaultProfiles = []model.FundProfile{
	{
		Ticker:         "513100",
		MarketCode:     "1.513100",
		Name:           "国泰纳斯达克100",
		Description:    "成交活跃，流动性好，适合短线交易。",
		NavSourceURL:   "https://www.gtfund.com/",
		PriceSourceURL: "https://quote.eastmoney.com/sh513100.html",
	},
	{
		Ticker:         "159941",
		MarketCode:     "0.159941",
		Name:           "广发纳斯达克100",
		Description:    "规模大户，历史悠久，跟踪误差小。",
		NavSourceURL:   "http://www.gffunds.com.cn/",
		PriceSourceURL: "https://quote.eastmoney.com/sz159941.html",
	},
	{
		Ticker:         "159696",
		MarketCode:     "0.159696",
		Name:           "易方达纳斯达克100",
		Description:    "费率较低，适合长期定投。",
		NavSourceURL:   "https://www.efunds.com.cn/",
		PriceSourceURL: "https://quote.eastmoney.com/sz159696.html",
	},
	{
		Ticker:         "513300",
		MarketCode:     "1.513300",
		Name:           "华夏纳斯达克100",
		Description:    "老牌基金公司，规模较大。",
		NavSourceURL:   "https://www.chinaamc.com/",
		PriceSourceURL: "https://quote.eastmoney.com/sh513300.html",
	},
	{
		Ticker:         "159501",
		MarketCode:     "0.159501",
		Name:           "嘉实纳斯达克100",
		Description:    "近年来新发产品，关注费率优惠。",
		NavSourceURL:   "http://www.jsfund.cn/",
		PriceSourceURL: "https://quote.eastmoney.com/sz159501.html",
	},
	{
		Ticker:         "159660",
		MarketCode:     "0.159660",
		Name:           "汇添富纳斯达克100",
		Description:    "知名基金公司管理。",
		NavSourceURL:   "https://www.99fund.com/",
		PriceSourceURL: "https://quote.eastmoney.com/sz159660.html",
	},
	{
		Ticker:         "159632",
		MarketCode:     "0.159632",
		Name:           "华安纳斯达克100",
		Description:    "华安基金管理。",
		NavSourceURL:   "https://www.huaan.com.cn/",
		PriceSourceURL: "https://quote.eastmoney.com/sz159632.html",
	},
}
