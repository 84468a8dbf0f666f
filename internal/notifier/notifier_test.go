package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PremiumSentinel/internal/model"
	"PremiumSentinel/internal/strategy"
)

func TestSend(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIURL = srv.URL
	require.NoError(t, tn.Send(context.Background(), "<b>hi</b>"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "HTML", got["parse_mode"])
	assert.Equal(t, "<b>hi</b>", got["text"])
}

func TestSendWithRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, `{"ok":false}`, http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIURL = srv.URL
	require.NoError(t, tn.SendWithRetry(context.Background(), "x", 2))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIURL = srv.URL
	err := tn.SendWithRetry(context.Background(), "x", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retries exhausted")
}

func TestSend_TruncatesAtLineBreak(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	line := "<b>513100</b> 溢价 &lt;1%\n"
	long := strings.Repeat(line, maxMessageLen/len([]rune(line))+10)

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIURL = srv.URL
	require.NoError(t, tn.Send(context.Background(), long))

	text := got["text"].(string)
	assert.LessOrEqual(t, len([]rune(text)), maxMessageLen)
	body := strings.TrimSuffix(text, "\n…")
	assert.True(t, strings.HasSuffix(body, "%"), "cut inside a line: %q", body[len(body)-20:])
	assert.Equal(t, strings.Count(body, "<b>"), strings.Count(body, "</b>"))
}

func TestTruncateMessage(t *testing.T) {
	assert.Equal(t, "short", truncateMessage("short", 10))

	cut := truncateMessage("ab\ncd<b>efgh</b>", 10)
	assert.Equal(t, "ab\n…", cut)

	cut = truncateMessage("abcdef<b>gh</b>", 10)
	assert.Equal(t, "abcdef\n…", cut)

	cut = truncateMessage("abcde&amp;fghij", 10)
	assert.Equal(t, "abcde\n…", cut)
}

func sampleRanking() model.Ranking {
	good := model.RankingRow{Ticker: "159941", Name: "广发纳斯达克100", Premium: -0.12, Rank: 8, Score: 100, Label: "强烈推荐"}
	return model.Ranking{
		Rows: []model.RankingRow{
			good,
			{Ticker: "513100", Name: "国泰纳斯达克100", Premium: 2.3, Rank: 90, Score: 36, Label: "建议卖出"},
			{Ticker: "159696", Name: "易方达纳斯达克100", Degraded: true, Rank: strategy.DegradedRank},
		},
		Top:         &model.TopPick{Row: good, Good: true},
		BannerTitle: strategy.GoodBannerTitle,
		BannerText:  strategy.GoodBannerText,
	}
}

func TestFormatRankingReport(t *testing.T) {
	msg := FormatRankingReport(sampleRanking(), time.Date(2024, 3, 11, 16, 0, 0, 0, time.UTC))
	assert.Contains(t, msg, "2024-03-11")
	assert.Contains(t, msg, strategy.GoodBannerTitle)
	assert.Contains(t, msg, "1. 159941 广发纳斯达克100: 溢价 -0.12% · P8 · 100分 强烈推荐")
	assert.Contains(t, msg, "2. 513100")
	assert.Contains(t, msg, "3. 159696 易方达纳斯达克100: 数据获取失败")

	empty := FormatRankingReport(model.Ranking{}, time.Now())
	assert.Contains(t, empty, "暂无可用数据")
}

func TestFormatFundDetail(t *testing.T) {
	d := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	detail := model.FundDetail{
		Profile:    model.FundProfile{Ticker: "513100", Name: "国泰纳斯达克100"},
		WindowDays: 90,
		Dashboard: &model.Dashboard{
			Latest:         model.EnrichedPoint{Date: d, RefDate: d.AddDate(0, 0, -5), ClosePrice: 1.52, ReferenceValue: 1.5, PremiumRate: 1.33, RSI: 64.2, Volatility: 21.5, LagDays: 5},
			WindowDays:     90,
			Stats:          model.StatsSummary{Rank: 70, Min: -0.4, Max: 2.1, Avg: 0.8},
			Score:          model.ScoreResult{Score: 59, Label: "中性持有"},
			Risk:           strategy.AnalyzeRisk(1.33),
			LagStatus:      model.LagStale,
			DataStale:      true,
			RSIZone:        strategy.ZoneNeutral,
			VolatilityZone: strategy.ZoneModerate,
			Advice:         "✋ **结论：暂且观望。**",
		},
	}
	msg := FormatFundDetail(detail)
	assert.Contains(t, msg, "513100 国泰纳斯达克100")
	assert.Contains(t, msg, "+1.33%")
	assert.Contains(t, msg, "P70")
	assert.Contains(t, msg, "滞后 5 天")
	assert.Contains(t, msg, "<b>结论：暂且观望。</b>")

	msg = FormatFundDetail(model.FundDetail{Profile: model.FundProfile{Ticker: "159941"}})
	assert.Contains(t, msg, "暂无数据")
}

func TestMarkdownToHTML(t *testing.T) {
	assert.Equal(t, "a <b>b</b> &lt;c&gt;", MarkdownToHTML("a **b** <c>"))
	assert.Equal(t, "a **b", MarkdownToHTML("a **b"))
}

func TestFormatLag(t *testing.T) {
	assert.Equal(t, "正常", FormatLag(1))
	assert.True(t, strings.HasPrefix(FormatLag(3), "可能滞后"))
	assert.Equal(t, "滞后6天", FormatLag(6))
}

func TestStartPolling_DispatchesCommands(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var polls int32
	replies := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if atomic.AddInt32(&polls, 1) == 1 {
				w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /rank "}}]}`))
				return
			}
			assert.Equal(t, "8", r.URL.Query().Get("offset"))
			<-r.Context().Done()
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			replies <- body["text"].(string)
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIURL = srv.URL

	done := make(chan struct{})
	go func() {
		tn.StartPolling(ctx, func(_ context.Context, cmd string) string { return "got " + cmd })
		close(done)
	}()

	select {
	case reply := <-replies:
		assert.Equal(t, "got /rank", reply)
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop")
	}
}
