// 包 heatmap 负责展示侧的派生：
// - Window：以当天为终点的近一年窗口（365/366 天）
// - Build：按周（周日起）排列的日历格子，同日计数合并
// - Render：输出可嵌入作品集页面的 HTML 片段
package heatmap

import (
	"time"

	"go-leetcode-stats/internal/model"
	"go-leetcode-stats/internal/stats"
)

const dateLayout = "2006-01-02"

// Cell 为日历中的一天。
type Cell struct {
	Date    string
	Count   int
	Class   string
	InRange bool
}

// Week 为日历中的一列（周日至周六）。
type Week struct {
	Days [7]Cell
}

// Calendar 为窗口内的全部周及汇总。
type Calendar struct {
	Start      time.Time
	End        time.Time
	Weeks      []Week
	Total      int
	ActiveDays int
	MaxCount   int
}

// Window 返回 (now-1年, now] 的日粒度窗口（UTC），两端按天计：
// 平年 365 天，跨 2 月 29 日时 366 天。
func Window(now time.Time) (start, end time.Time) {
	end = day(now)
	return end.AddDate(-1, 0, 0).AddDate(0, 0, 1), end
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Build 将热力图点落到窗口日历上，窗口外的点忽略，同一日期计数求和。
func Build(points []model.HeatmapPoint, start, end time.Time) Calendar {
	start, end = day(start), day(end)
	cal := Calendar{Start: start, End: end}
	if end.Before(start) {
		return cal
	}
	counts := make(map[string]int, len(points))
	for _, p := range points {
		counts[p.Date] += p.Count
	}

	first := start.AddDate(0, 0, -int(start.Weekday()))
	for cur := first; !cur.After(end); {
		var w Week
		for i := 0; i < 7; i++ {
			d := cur.AddDate(0, 0, i)
			key := d.Format(dateLayout)
			c := Cell{Date: key, Class: stats.Empty.Class()}
			if !d.Before(start) && !d.After(end) {
				c.InRange = true
				c.Count = counts[key]
				c.Class = stats.Intensity(c.Count).Class()
				cal.Total += c.Count
				if c.Count > 0 {
					cal.ActiveDays++
				}
				if c.Count > cal.MaxCount {
					cal.MaxCount = c.Count
				}
			}
			w.Days[i] = c
		}
		cal.Weeks = append(cal.Weeks, w)
		cur = cur.AddDate(0, 0, 7)
	}
	return cal
}
