// 命令行入口：
// - 解析 flags 与 settings.yaml
// - 初始化日志、HTTP 客户端与指标
// - 抓取 LeetCode 统计，导出 data.json 并按需更新作品集页面
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-leetcode-stats/internal/aggregate"
	"go-leetcode-stats/internal/config"
	"go-leetcode-stats/internal/fetch"
	"go-leetcode-stats/internal/logx"
	"go-leetcode-stats/internal/metrics"
	"go-leetcode-stats/internal/model"
	"go-leetcode-stats/internal/stats"
)

func main() {
	var (
		configPath = flag.String("config", "settings.yaml", "path to settings.yaml (empty to use defaults)")
		user       = flag.String("user", "", "LeetCode username, overrides USERNAME")
		exportPath = flag.String("export", "", "export json path, overrides EXPORT.path")
		printOnly  = flag.Bool("print", false, "print a one-line summary after the run")
	)
	flag.Parse()

	// 1) 加载配置，命令行参数优先
	cfg, err := config.Load(*configPath, config.WithUsername(*user), config.WithExportPath(*exportPath))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	// 2) 初始化日志：级别/格式/语言/颜色
	logx.Init(cfg.LogLevel, cfg.LogFormat, cfg.LogLocale, cfg.LogColor)

	// 3) 初始化 HTTP 客户端（含代理与超时，不重试）
	cl, err := fetch.New(fetch.Options{
		ProxyHTTP:  cfg.Proxy.HTTP,
		ProxyHTTPS: cfg.Proxy.HTTPS,
		Timeout:    cfg.Timeout,
	})
	if err != nil {
		log.Fatalf("http client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4) 运行一轮抓取与导出
	run := aggregate.New(cfg, stats.NewFetcher(cl, cfg.APIBase), metrics.New(cfg.MetricsFile, cfg.Username))
	exp, err := run.Run(ctx)
	if err != nil {
		logx.Errorf("运行失败：%v", err)
		os.Exit(1)
	}
	if *printOnly {
		fmt.Println(summary(exp))
	}
}

// summary 生成单行摘要。
func summary(exp model.Export) string {
	if exp.Stats == nil {
		return fmt.Sprintf("%s: %s (%s)", exp.Username, exp.Status, exp.Message)
	}
	s := exp.Stats
	return fmt.Sprintf("%s: total=%d easy=%d medium=%d hard=%d days=%d",
		exp.Username, s.Total, s.Easy, s.Medium, s.Hard, len(s.Heatmap))
}
