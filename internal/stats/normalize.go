package stats

import (
	"bytes"
	"math"
	"sort"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"go-leetcode-stats/internal/model"
)

// notFoundSentinel 为上游表示用户名不存在的 message 取值。
const notFoundSentinel = "Not found"

const dateLayout = "2006-01-02"

// Report 记录归一化过程中被宽松处理的字段（缺失或非数字，按 0 处理）。
type Report struct {
	Lenient []string
}

// payload 为上游响应中本项目关心的字段。
type payload struct {
	Message  json.RawMessage `json:"message"`
	Easy     count           `json:"easySolved"`
	Medium   count           `json:"mediumSolved"`
	Hard     count           `json:"hardSolved"`
	Total    count           `json:"totalSolved"`
	Calendar json.RawMessage `json:"submissionCalendar"`
}

// maxExactInt 为 float64 可精确表示的最大整数（2^53）。
const maxExactInt = 1 << 53

// count 宽松解析数字：接受 JSON 数字与数字字符串，其余按 0 处理并标记。
// 超出 ±2^53 的值无法精确表示，同样按 0 处理。
type count struct {
	n  int
	ok bool
}

func (c *count) UnmarshalJSON(b []byte) error {
	*c = count{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		math.Abs(f) > maxExactInt {
		return nil
	}
	c.n, c.ok = int(f), true
	return nil
}

// Normalize 是上游响应进入系统的唯一边界：
// 校验形状、识别 not-found 哨兵，并把提交日历转换为按时间排序的热力图点。
// 命中 not-found 之外的计数字段不做一致性校验，原样透传。
func Normalize(body []byte) (model.StatsResult, Report, error) {
	var rep Report
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return model.StatsResult{}, rep, invalidErr("response is not a JSON object")
	}
	var p payload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return model.StatsResult{}, rep, invalidErr("decode response: %w", err)
	}
	if isNotFound(p.Message) {
		return model.StatsResult{}, rep, invalidErr("user not found upstream")
	}

	res := model.StatsResult{
		DifficultyCounts: model.DifficultyCounts{
			Easy:   p.Easy.n,
			Medium: p.Medium.n,
			Hard:   p.Hard.n,
			Total:  p.Total.n,
		},
	}
	for _, f := range []struct {
		name string
		c    count
	}{
		{"easySolved", p.Easy},
		{"mediumSolved", p.Medium},
		{"hardSolved", p.Hard},
		{"totalSolved", p.Total},
	} {
		if !f.c.ok {
			rep.Lenient = append(rep.Lenient, f.name)
		}
	}

	cal, err := decodeCalendar(p.Calendar)
	if err != nil {
		return model.StatsResult{}, rep, err
	}
	heat, lenient, err := toHeatmap(cal)
	if err != nil {
		return model.StatsResult{}, rep, err
	}
	res.Heatmap = heat
	rep.Lenient = append(rep.Lenient, lenient...)
	return res, rep, nil
}

func isNotFound(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil {
		return false
	}
	return msg == notFoundSentinel
}

// decodeCalendar 解析提交日历；缺失或 null 视为空日历。
// 部分上游镜像以 JSON 字符串形式返回日历，此处再解一次。
func decodeCalendar(raw json.RawMessage) (map[string]count, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, invalidErr("decode submissionCalendar string: %w", err)
		}
		raw = bytes.TrimSpace([]byte(s))
		if len(raw) == 0 {
			return nil, nil
		}
	}
	var m map[string]count
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, invalidErr("decode submissionCalendar: %w", err)
	}
	return m, nil
}

type dayCount struct {
	ts    int64
	point model.HeatmapPoint
}

// toHeatmap 每个时间戳键产出一个点，按时间戳升序。
func toHeatmap(cal map[string]count) ([]model.HeatmapPoint, []string, error) {
	days := make([]dayCount, 0, len(cal))
	var lenient []string
	for key, c := range cal {
		ts, err := parseEpoch(key)
		if err != nil {
			return nil, nil, invalidErr("submissionCalendar key %q: %w", key, err)
		}
		date, err := dateOf(ts)
		if err != nil {
			return nil, nil, invalidErr("submissionCalendar key %q: %w", key, err)
		}
		if !c.ok {
			lenient = append(lenient, "submissionCalendar["+key+"]")
		}
		days = append(days, dayCount{ts: ts, point: model.HeatmapPoint{Date: date, Count: c.n}})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].ts < days[j].ts })
	sort.Strings(lenient)
	out := make([]model.HeatmapPoint, len(days))
	for i, d := range days {
		out[i] = d.point
	}
	return out, lenient, nil
}

// parseEpoch 解析秒级时间戳键，兼容带小数的写法（截断）。
func parseEpoch(key string) (int64, error) {
	if ts, err := strconv.ParseInt(key, 10, 64); err == nil {
		return ts, nil
	}
	f, err := strconv.ParseFloat(key, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > 1e15 {
		return 0, strconv.ErrRange
	}
	return int64(f), nil
}

// DateOf 将秒级时间戳按 UTC 格式化为 YYYY-MM-DD。
// 负时间戳合法（早于 1970）；年份超出 0000-9999 时返回空串。
func DateOf(epochSeconds int64) string {
	s, err := dateOf(epochSeconds)
	if err != nil {
		return ""
	}
	return s
}

func dateOf(epochSeconds int64) (string, error) {
	t := time.Unix(epochSeconds, 0).UTC()
	if y := t.Year(); y < 0 || y > 9999 {
		return "", strconv.ErrRange
	}
	return t.Format(dateLayout), nil
}
