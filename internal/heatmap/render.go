package heatmap

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"go-leetcode-stats/internal/model"
	"go-leetcode-stats/internal/stats"
)

// 格子尺寸与星期标签占位（像素）
const (
	cellSize   = 10
	cellStride = 14
	labelWidth = 28
)

// LoadingMessage 为 Pending 状态的占位文案。
const LoadingMessage = "Fetching live LeetCode stats..."

// Section 为渲染一个统计区块所需的输入。
type Section struct {
	Username   string
	ProfileURL string
	State      stats.State
	Now        time.Time
}

type barView struct {
	Label  string
	Class  string
	Value  int
	Height int
}

type cellView struct {
	X, Y  int
	Date  string
	Count int
	Class string
}

type labelView struct {
	Y    int
	Text string
}

type sectionView struct {
	Status     string
	Message    string
	Username   string
	ProfileURL string
	Counts     model.DifficultyCounts
	Bars       []barView
	Cells      []cellView
	Labels     []labelView
	Legend     []string
	Width      int
	Height     int
	Cell       int
	Start      string
	End        string
	Total      int
	ActiveDays int
}

var sectionTmpl = template.Must(template.New("section").Parse(`<div class="leetcode-stats" data-status="{{.Status}}">
{{- if eq .Status "pending"}}
<p class="leetcode-loading">{{.Message}}</p>
{{- else if eq .Status "failed"}}
<p class="leetcode-error">{{.Message}}</p>
{{- else}}
<pre class="leetcode-profile">const profile = {
  username: "{{.Username}}",
  totalSolved: {{.Counts.Total}},
  easy: {{.Counts.Easy}},
  medium: {{.Counts.Medium}},
  hard: {{.Counts.Hard}}
}</pre>
<ul class="leetcode-badges">
{{- range .Bars}}
<li class="badge badge-{{.Class}}"><span class="label">{{.Label}}</span> <span class="value">{{.Value}}</span></li>
{{- end}}
</ul>
<div class="leetcode-bars">
{{- range .Bars}}
<div class="bar bar-{{.Class}}" style="height: {{.Height}}%" title="{{.Label}}: {{.Value}}"></div>
{{- end}}
</div>
<svg class="leetcode-heatmap" xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">
{{- range .Labels}}
<text class="weekday-label" x="0" y="{{.Y}}">{{.Text}}</text>
{{- end}}
{{- $size := .Cell}}
{{- range .Cells}}
<rect x="{{.X}}" y="{{.Y}}" width="{{$size}}" height="{{$size}}" rx="2" class="{{.Class}}" data-date="{{.Date}}" data-count="{{.Count}}"><title>{{.Date}}: {{.Count}} submissions</title></rect>
{{- end}}
</svg>
<p class="leetcode-heatmap-summary">{{.Total}} submissions on {{.ActiveDays}} days from {{.Start}} to {{.End}}</p>
<div class="leetcode-legend"><span>Less</span>
{{- range .Legend}}<span class="legend-cell {{.}}"></span>{{end -}}
<span>More</span></div>
<a class="leetcode-profile-link" href="{{.ProfileURL}}" target="_blank" rel="noopener">View full profile →</a>
{{- end}}
</div>
`))

// Render 将区块渲染为 HTML 片段写入 w。
func Render(w io.Writer, sec Section) error {
	v := sectionView{
		Status:     sec.State.Status().String(),
		Username:   sec.Username,
		ProfileURL: sec.ProfileURL,
	}
	switch sec.State.Status() {
	case stats.StatusPending:
		v.Message = LoadingMessage
	case stats.StatusFailed:
		v.Message = stats.UnavailableMessage
	case stats.StatusReady:
		res, _ := sec.State.Result()
		now := sec.Now
		if now.IsZero() {
			now = time.Now()
		}
		start, end := Window(now)
		fillReady(&v, res, Build(res.Heatmap, start, end))
	}
	if err := sectionTmpl.Execute(w, v); err != nil {
		return fmt.Errorf("render section: %w", err)
	}
	return nil
}

func fillReady(v *sectionView, res model.StatsResult, cal Calendar) {
	v.Counts = res.DifficultyCounts
	v.Bars = bars(res.DifficultyCounts)
	v.Cell = cellSize
	v.Width = labelWidth + len(cal.Weeks)*cellStride
	v.Height = 7 * cellStride
	v.Start = cal.Start.Format(dateLayout)
	v.End = cal.End.Format(dateLayout)
	v.Total = cal.Total
	v.ActiveDays = cal.ActiveDays
	v.Labels = []labelView{
		{Y: 1*cellStride + cellSize, Text: "Mon"},
		{Y: 3*cellStride + cellSize, Text: "Wed"},
		{Y: 5*cellStride + cellSize, Text: "Fri"},
	}
	for _, l := range []stats.Level{stats.Empty, stats.Tier1, stats.Tier2, stats.Tier3, stats.Tier4} {
		v.Legend = append(v.Legend, l.Class())
	}
	for wi, w := range cal.Weeks {
		for di, c := range w.Days {
			if !c.InRange {
				continue
			}
			v.Cells = append(v.Cells, cellView{
				X:     labelWidth + wi*cellStride,
				Y:     di * cellStride,
				Date:  c.Date,
				Count: c.Count,
				Class: c.Class,
			})
		}
	}
}

// bars 以三档中的最大值为 100% 计算柱高。
func bars(c model.DifficultyCounts) []barView {
	out := []barView{
		{Label: "Easy", Class: "easy", Value: c.Easy},
		{Label: "Medium", Class: "medium", Value: c.Medium},
		{Label: "Hard", Class: "hard", Value: c.Hard},
	}
	peak := 0
	for _, b := range out {
		peak = max(peak, b.Value)
	}
	if peak <= 0 {
		return out
	}
	for i := range out {
		if out[i].Value > 0 {
			out[i].Height = out[i].Value * 100 / peak
		}
	}
	return out
}
