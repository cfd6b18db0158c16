// 包 stats 负责抓取并归一化单个用户的 LeetCode 公开统计：
// - Fetcher.Fetch：单次 GET + 归一化，不重试、不缓存
// - Normalize：响应形状校验与提交日历转换（唯一归一化边界）
// - Intensity：热力图强度分档
// - State：Pending/Failed/Ready 三态结果
package stats

import (
	"context"
	"io"
	"net/url"
	"strings"

	"go-leetcode-stats/internal/fetch"
	"go-leetcode-stats/internal/logx"
	"go-leetcode-stats/internal/model"
)

// DefaultBaseURL 为默认的统计接口地址。
const DefaultBaseURL = "https://leetcode-api-faisalshohag.vercel.app"

const maxBodySize = 4 << 20

// Fetcher 持有 HTTP 客户端与接口地址。
type Fetcher struct {
	client  *fetch.Client
	baseURL string
}

// NewFetcher 创建 Fetcher，baseURL 为空时使用默认地址。
func NewFetcher(cl *fetch.Client, baseURL string) *Fetcher {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{client: cl, baseURL: strings.TrimRight(baseURL, "/")}
}

// URLFor 返回指定用户名的统计接口地址。
func (f *Fetcher) URLFor(username string) string {
	return f.baseURL + "/" + url.PathEscape(username)
}

// Fetch 请求 <baseURL>/<username> 并返回归一化结果。
// 失败时返回 *FetchError（NetworkFailure 或 InvalidResponse）。
func (f *Fetcher) Fetch(ctx context.Context, username string) (model.StatsResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return model.StatsResult{}, invalidErr("empty username")
	}
	target := f.URLFor(username)
	resp, err := f.client.Get(ctx, target)
	if err != nil {
		return model.StatsResult{}, networkErr("GET %s: %w", target, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return model.StatsResult{}, networkErr("read body %s: %w", target, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.StatsResult{}, invalidErr("unexpected status: %s", resp.Status)
	}
	res, rep, err := Normalize(body)
	if err != nil {
		return model.StatsResult{}, err
	}
	if len(rep.Lenient) > 0 {
		logx.Warnf("用户 %s 的响应字段缺失或非数字，按 0 处理：%s", username, strings.Join(rep.Lenient, ","))
	}
	logx.Debugf("用户 %s 统计：total=%d 热力图=%d 天", username, res.Total, len(res.Heatmap))
	return res, nil
}
