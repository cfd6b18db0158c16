// 包 aggregate 负责主流程编排：
// - 抓取统计并得到 Pending → Failed/Ready 状态
// - 渲染统计区块并按需注入作品集页面
// - 导出 data.json 与指标
package aggregate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go-leetcode-stats/internal/config"
	"go-leetcode-stats/internal/export"
	"go-leetcode-stats/internal/heatmap"
	"go-leetcode-stats/internal/logx"
	"go-leetcode-stats/internal/metrics"
	"go-leetcode-stats/internal/model"
	"go-leetcode-stats/internal/page"
	"go-leetcode-stats/internal/stats"
)

// Source 为统计来源，生产环境为 *stats.Fetcher。
type Source interface {
	Fetch(ctx context.Context, username string) (model.StatsResult, error)
}

// Runner 聚合执行器，持有配置/统计来源/指标记录器。
type Runner struct {
	cfg *config.Config
	src Source
	rec metrics.Recorder
	now func() time.Time
}

// New 创建 Runner，rec 为空时不记录指标。
func New(cfg *config.Config, src Source, rec metrics.Recorder) *Runner {
	if rec == nil {
		rec = metrics.New("", "")
	}
	return &Runner{cfg: cfg, src: src, rec: rec, now: time.Now}
}

// Run 执行一轮：抓取 → 渲染/注入 → 导出 → 写指标。
// 抓取失败不视为运行错误，仍导出 failed 状态的文档。
// 各产物相互独立：页面更新失败时仍写出 data.json 与指标，所有产物错误合并返回。
func (r *Runner) Run(ctx context.Context) (model.Export, error) {
	user := r.cfg.Username
	state := r.fetch(ctx, user)

	now := r.now()
	exp := buildExport(r.cfg, state, now)

	var errs []error
	if r.cfg.Page.Path != "" {
		if err := r.updatePage(user, exp.ProfileURL, state, now); err != nil {
			logx.Errorf("更新页面失败：%v", err)
			errs = append(errs, err)
		}
	}

	if err := export.ToJSON(ctx, exp, r.cfg.Export.Path, r.cfg.Export.Compress); err != nil {
		errs = append(errs, fmt.Errorf("export json: %w", err))
	} else {
		logx.Infof("已导出 %s", r.cfg.Export.Path)
	}

	if err := r.rec.Flush(); err != nil {
		errs = append(errs, err)
	}
	return exp, errors.Join(errs...)
}

// updatePage 渲染统计区块并注入配置的页面。
func (r *Runner) updatePage(user, profileURL string, state stats.State, now time.Time) error {
	var buf bytes.Buffer
	sec := heatmap.Section{
		Username:   user,
		ProfileURL: profileURL,
		State:      state,
		Now:        now,
	}
	if err := heatmap.Render(&buf, sec); err != nil {
		return err
	}
	if err := page.InjectFile(r.cfg.Page.Path, r.cfg.Page.Selector, buf.String()); err != nil {
		return fmt.Errorf("update page: %w", err)
	}
	logx.Infof("已更新页面：%s（%s）", r.cfg.Page.Path, r.cfg.Page.Selector)
	return nil
}

// fetch 执行单次抓取并记录耗时与结果。
func (r *Runner) fetch(ctx context.Context, user string) stats.State {
	state := stats.Pending()
	logx.Infof("开始抓取：用户=%s 状态=%s", user, state.Status())
	started := r.now()
	res, err := r.src.Fetch(ctx, user)
	r.rec.ObserveFetch(r.now().Sub(started), err)
	if err != nil {
		logx.Warnf("抓取统计失败：用户=%s 错误=%v", user, err)
		return stats.Failed(err)
	}
	r.rec.SetResult(res)
	state = stats.Ready(res)
	logx.Infof("抓取完成：total=%d easy=%d medium=%d hard=%d 活跃天数=%d",
		res.Total, res.Easy, res.Medium, res.Hard, len(res.Heatmap))
	return state
}

// buildExport 由状态构造 data.json；失败时只带固定文案，不暴露底层原因。
func buildExport(cfg *config.Config, state stats.State, now time.Time) model.Export {
	start, end := heatmap.Window(now)
	exp := model.Export{
		Username:    cfg.Username,
		ProfileURL:  cfg.ProfileURL(),
		Status:      state.Status().String(),
		WindowStart: start.Format("2006-01-02"),
		WindowEnd:   end.Format("2006-01-02"),
		UpdatedAt:   now.UTC(),
	}
	if res, ok := state.Result(); ok {
		exp.Stats = &res
	} else {
		exp.Message = stats.UnavailableMessage
	}
	return exp
}
