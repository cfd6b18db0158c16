// 包 model 定义导出的数据模型（题量统计/热力图/导出结构）。
package model

import "time"

// DifficultyCounts 为三档难度的解题数与总数。
// Total 以上游报告为准，不与三者之和做校对。
type DifficultyCounts struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
	Total  int `json:"total"`
}

// HeatmapPoint 为热力图的单个格子：UTC 日期（YYYY-MM-DD）与当日提交数。
type HeatmapPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StatsResult 为一次成功抓取与转换的完整结果，每次抓取整体替换。
type StatsResult struct {
	DifficultyCounts
	Heatmap []HeatmapPoint `json:"heatmap"`
}

// 导出状态
const (
	StatusReady  = "ready"
	StatusFailed = "failed"
)

// Export 为 data.json 顶层结构，供静态站点的展示层读取。
type Export struct {
	Username    string       `json:"username"`
	ProfileURL  string       `json:"profile_url"`
	Status      string       `json:"status"`
	Message     string       `json:"message,omitempty"`
	Stats       *StatsResult `json:"stats,omitempty"`
	WindowStart string       `json:"window_start"`
	WindowEnd   string       `json:"window_end"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
