// 包 export 负责将本次运行结果写为 data.json，
// 并按需生成预压缩副本（.gz / .zst）供静态托管直接下发。
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"go-leetcode-stats/internal/model"
)

// 支持的预压缩格式
const (
	Gzip = "gzip"
	Zstd = "zstd"
)

// Extension 返回压缩格式对应的文件后缀，未知格式返回空串。
func Extension(format string) string {
	switch format {
	case Gzip:
		return ".gz"
	case Zstd:
		return ".zst"
	default:
		return ""
	}
}

// ToJSON 以缩进格式写出 exp，并为 compress 中的每种格式写出同名压缩副本。
// 所有文件均先写临时文件再 rename，读取方不会看到半成品。
func ToJSON(ctx context.Context, exp model.Export, path string, compress []string) error {
	b, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	b = append(b, '\n')
	if err := writeAtomic(path, b); err != nil {
		return err
	}
	for _, format := range compress {
		if err := ctx.Err(); err != nil {
			return err
		}
		ext := Extension(format)
		if ext == "" {
			return fmt.Errorf("unsupported compression: %s", format)
		}
		var buf bytes.Buffer
		if err := compressTo(&buf, format, b); err != nil {
			return fmt.Errorf("compress %s: %w", format, err)
		}
		if err := writeAtomic(path+ext, buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func compressTo(w io.Writer, format string, b []byte) error {
	var zw io.WriteCloser
	switch format {
	case Gzip:
		gw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
		if err != nil {
			return err
		}
		zw = gw
	case Zstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return err
		}
		zw = enc
	default:
		return fmt.Errorf("unsupported compression: %s", format)
	}
	if _, err := zw.Write(b); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func writeAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
