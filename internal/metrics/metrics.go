// 包 metrics 以 Prometheus textfile 形式记录每次运行的结果，
// 供 node_exporter 的 textfile collector 采集（本程序不常驻、不监听端口）。
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"go-leetcode-stats/internal/model"
	"go-leetcode-stats/internal/stats"
)

// Recorder 记录抓取耗时/结果并在运行结束时落盘。
type Recorder interface {
	ObserveFetch(d time.Duration, err error)
	SetResult(res model.StatsResult)
	Flush() error
}

// TextfileRecorder 使用独立 Registry，避免污染全局默认注册表。
type TextfileRecorder struct {
	path     string
	reg      *prometheus.Registry
	solved   *prometheus.GaugeVec
	days     prometheus.Gauge
	success  prometheus.Gauge
	duration prometheus.Gauge
	lastOK   prometheus.Gauge
	errors   *prometheus.CounterVec
	now      func() time.Time
}

// New 在 path 为空时返回 noop 实现。
func New(path, username string) Recorder {
	if path == "" {
		return noopRecorder{}
	}
	return newTextfile(path, username, time.Now)
}

func newTextfile(path, username string, now func() time.Time) *TextfileRecorder {
	labels := prometheus.Labels{"username": username}
	r := &TextfileRecorder{
		path: path,
		reg:  prometheus.NewRegistry(),
		now:  now,
		solved: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "leetcode_solved",
			Help:        "Problems solved by difficulty as reported upstream",
			ConstLabels: labels,
		}, []string{"difficulty"}),
		days: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "leetcode_heatmap_days",
			Help:        "Number of days present in the submission calendar",
			ConstLabels: labels,
		}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "leetcode_fetch_success",
			Help:        "1 if the last fetch succeeded, 0 otherwise",
			ConstLabels: labels,
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "leetcode_fetch_duration_seconds",
			Help:        "Duration of the last fetch in seconds",
			ConstLabels: labels,
		}),
		lastOK: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "leetcode_last_success_timestamp_seconds",
			Help:        "Unix time of the last successful fetch",
			ConstLabels: labels,
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "leetcode_fetch_errors_total",
			Help:        "Failed fetches by error kind",
			ConstLabels: labels,
		}, []string{"kind"}),
	}
	r.reg.MustRegister(r.solved, r.days, r.success, r.duration, r.lastOK, r.errors)
	return r
}

func (r *TextfileRecorder) ObserveFetch(d time.Duration, err error) {
	r.duration.Set(d.Seconds())
	if err != nil {
		r.success.Set(0)
		r.errors.WithLabelValues(kindLabel(err)).Inc()
		return
	}
	r.success.Set(1)
	r.lastOK.Set(float64(r.now().Unix()))
}

func (r *TextfileRecorder) SetResult(res model.StatsResult) {
	r.solved.WithLabelValues("easy").Set(float64(res.Easy))
	r.solved.WithLabelValues("medium").Set(float64(res.Medium))
	r.solved.WithLabelValues("hard").Set(float64(res.Hard))
	r.solved.WithLabelValues("total").Set(float64(res.Total))
	r.days.Set(float64(len(res.Heatmap)))
}

// Flush 原子写出 textfile（WriteToTextfile 内部使用临时文件 + rename）。
func (r *TextfileRecorder) Flush() error {
	if err := prometheus.WriteToTextfile(r.path, r.reg); err != nil {
		return fmt.Errorf("write metrics %s: %w", r.path, err)
	}
	return nil
}

func kindLabel(err error) string {
	switch stats.KindOf(err) {
	case stats.NetworkFailure:
		return "network"
	case stats.InvalidResponse:
		return "invalid_response"
	default:
		return "other"
	}
}

type noopRecorder struct{}

func (noopRecorder) ObserveFetch(_ time.Duration, _ error) {}
func (noopRecorder) SetResult(_ model.StatsResult)         {}
func (noopRecorder) Flush() error                          { return nil }
