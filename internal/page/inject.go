// 包 page 负责把渲染好的统计区块写入已有的作品集页面：
// 按 CSS 选择器定位容器并替换其内部 HTML。
package page

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultSelector 为默认的目标容器。
const DefaultSelector = "#leetcode"

const maxPageSize = 8 << 20

// Inject 解析 src，将所有匹配 selector 的节点内部替换为 fragment，返回完整 HTML。
// 没有匹配时返回错误，避免静默生成未更新的页面。
func Inject(src io.Reader, selector, fragment string) (string, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		selector = DefaultSelector
	}
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(src, maxPageSize))
	if err != nil {
		return "", fmt.Errorf("parse page html: %w", err)
	}
	sel := doc.Find(selector)
	if sel.Length() == 0 {
		return "", fmt.Errorf("selector %q matched nothing", selector)
	}
	sel.Each(func(_ int, s *goquery.Selection) {
		s.Empty()
		s.AppendHtml(fragment)
	})
	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("serialize page html: %w", err)
	}
	return out, nil
}

// InjectFile 读取 path，注入后以临时文件 + rename 的方式原子写回。
func InjectFile(path, selector, fragment string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open page %s: %w", path, err)
	}
	out, err := Inject(f, selector, fragment)
	f.Close()
	if err != nil {
		return fmt.Errorf("inject %s: %w", path, err)
	}
	return writeAtomic(path, []byte(out))
}

func writeAtomic(path string, b []byte) error {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
