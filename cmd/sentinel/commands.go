package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"PremiumSentinel/internal/advisor"
	"PremiumSentinel/internal/credential"
	"PremiumSentinel/internal/model"
	"PremiumSentinel/internal/strategy"
)

var (
	sortKey    string
	sortDir    string
	days       int
	offline    bool
	jsonOutput bool
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "全部基金溢价排名",
	Args:  cobra.NoArgs,
	RunE:  runRank,
}

var detailCmd = &cobra.Command{
	Use:   "detail [ticker]",
	Short: "单只基金详情",
	Long:  `抓取并计算单只基金的溢价率、RSI、波动率与综合评分。--offline 使用上次保存的序列。`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDetail,
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "分析 CSV 文件 (- 表示标准输入)",
	Long:  `每行格式: 日期,价格,净值日期,净值。表头与无法解析的行会被跳过。`,
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [ticker]",
	Short: "AI 点评最近走势",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "管理 " + credential.Key,
}

var apikeySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "保存 API Key (空字符串表示清除)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAPIKeySet,
}

var apikeyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示当前 API Key (脱敏)",
	Args:  cobra.NoArgs,
	RunE:  runAPIKeyShow,
}

func init() {
	rankCmd.Flags().StringVar(&sortKey, "sort", string(strategy.SortByScore), "sort by score, premium or rank")
	rankCmd.Flags().StringVar(&sortDir, "dir", string(strategy.SortDesc), "asc or desc")
	rankCmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")

	detailCmd.Flags().IntVar(&days, "days", strategy.DefaultTimeRange, "window: 30, 90, 180 or 365")
	detailCmd.Flags().BoolVar(&offline, "offline", false, "use the last recorded series")
	detailCmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")

	importCmd.Flags().IntVar(&days, "days", strategy.DefaultTimeRange, "window: 30, 90, 180 or 365")
	importCmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")

	apikeyCmd.AddCommand(apikeySetCmd)
	apikeyCmd.AddCommand(apikeyShowCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	a, err := buildApp(ctxOf(cmd), cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	key, dir := strategy.ParseSort(sortKey, sortDir)
	ranking := a.service.Ranking(ctxOf(cmd), key, dir)
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), ranking)
	}
	printRanking(cmd.OutOrStdout(), ranking)
	return nil
}

func runDetail(cmd *cobra.Command, args []string) error {
	if !strategy.ValidTimeRange(days) {
		return fmt.Errorf("--days must be one of %v", strategy.TimeRanges)
	}
	a, err := buildApp(ctxOf(cmd), cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	var detail model.FundDetail
	if offline {
		detail, err = a.service.StoredDetail(ctxOf(cmd), args[0], days)
	} else {
		detail, err = a.service.Detail(ctxOf(cmd), args[0], days)
	}
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), detail)
	}
	printDetail(cmd.OutOrStdout(), detail)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	a, err := buildApp(ctxOf(cmd), cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	detail, err := a.service.Import(r, days)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), detail)
	}
	printDetail(cmd.OutOrStdout(), detail)
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := buildApp(ctxOf(cmd), cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	text, err := a.service.Analyze(ctxOf(cmd), args[0])
	if errors.Is(err, advisor.ErrNoData) {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if errors.Is(err, advisor.ErrMissingCredential) {
		return fmt.Errorf("未配置 %s，请先运行: sentinel apikey set <key>", credential.Key)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func runAPIKeySet(cmd *cobra.Command, args []string) error {
	store := credential.NewStore(cfg.Advisor.CredentialFile)
	if err := store.Set(args[0]); err != nil {
		return err
	}
	if strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "已清除")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "已保存到 %s\n", cfg.Advisor.CredentialFile)
	return nil
}

func runAPIKeyShow(cmd *cobra.Command, args []string) error {
	v, err := credential.NewStore(cfg.Advisor.CredentialFile).Get()
	source := cfg.Advisor.CredentialFile
	if errors.Is(err, credential.ErrNotFound) && cfg.Advisor.APIKey != "" {
		v, err, source = cfg.Advisor.APIKey, nil, "环境变量"
	}
	if errors.Is(err, credential.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "未配置")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", credential.Mask(v), source)
	return nil
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
