package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"PremiumSentinel/internal/config"
	"PremiumSentinel/internal/logger"
)

var (
	cfgFile  string
	logLevel string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "纳指ETF溢价监控",
	Long: `PremiumSentinel - 纳斯达克100 ETF 溢价率监控与排名

Commands:
    serve      HTTP API + 定时日报 + Telegram 命令
    rank       打印全部基金排名
    detail     单只基金详情
    import     分析本地 CSV (日期,价格,净值日期,净值)
    analyze    AI 点评
    apikey     管理 GEMINI_API_KEY
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default $CONFIG_PATH or "+config.DefaultPath+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(detailCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(apikeyCmd)
}

func initConfig() error {
	path := cfgFile
	if path == "" {
		path = config.Path()
	}
	c, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if err := logger.Init(logger.Config{
		Level:    c.Log.Level,
		Format:   c.Log.Format,
		FilePath: c.Log.Dir,
		Out:      os.Stderr,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log.Debug().Str("config", path).Str("provider", c.DataSource.Provider).Msg("config loaded")
	cfg = c
	return nil
}
