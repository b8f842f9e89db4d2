package assets

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/assetconf/internal/pipeline"
)

const defaultCompressTest = `\.(js|css|html|svg)$`

// compressStep writes precompressed copies of emitted files next to them
type compressStep struct {
	test      *regexp.Regexp
	algorithm string
	filename  string
	threshold int
}

func newCompressStep(_ *pipeline.ResolvedConfig, options map[string]any) (Step, error) {
	pattern, err := stringOption(options, "test", defaultCompressTest)
	if err != nil {
		return nil, err
	}
	test, err := pipeline.CompilePattern(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: test: %w", ErrInvalidPluginOption, err)
	}

	algorithm, err := stringOption(options, "algorithm", "gzip")
	if err != nil {
		return nil, err
	}

	var ext string
	switch algorithm {
	case "gzip":
		ext = ".gz"
	case "zstd":
		ext = ".zst"
	default:
		return nil, fmt.Errorf("%w: unsupported algorithm %q", ErrInvalidPluginOption, algorithm)
	}

	filename, err := stringOption(options, "filename", "[path]"+ext+"[query]")
	if err != nil {
		return nil, err
	}
	if !strings.Contains(filename, "[path]") {
		return nil, fmt.Errorf("%w: filename must contain [path]", ErrInvalidPluginOption)
	}

	threshold, err := intOption(options, "threshold", 0)
	if err != nil {
		return nil, err
	}

	return &compressStep{test: test, algorithm: algorithm, filename: filename, threshold: threshold}, nil
}

func (c *compressStep) Name() string { return "compress" }

func (c *compressStep) Emit(ctx context.Context, em *Emission) error {
	// only files present when the step starts are compressed
	files := em.Files
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !c.test.MatchString(f.Path) || len(f.Contents) < c.threshold {
			continue
		}

		data, err := c.compress(f.Contents)
		if err != nil {
			return fmt.Errorf("failed to compress %s: %w", f.Path, err)
		}

		target := c.target(f.Path)
		if err := os.WriteFile(target, data, 0600); err != nil {
			return err
		}

		log.Debug().
			Str("file", target).
			Int("original", len(f.Contents)).
			Int("compressed", len(data)).
			Msg("Compressed file")

		em.Files = append(em.Files, EmittedFile{Path: target, Contents: data, Compressed: true})
	}
	return nil
}

func (c *compressStep) target(path string) string {
	return strings.NewReplacer("[path]", path, "[query]", "").Replace(c.filename)
}

func (c *compressStep) compress(data []byte) ([]byte, error) {
	buf := new(bytes.Buffer)

	switch c.algorithm {
	case "zstd":
		enc, err := zstd.NewWriter(buf)
		if err != nil {
			return nil, err
		}
		if _, err := enc.Write(data); err != nil {
			_ = enc.Close()
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		zw, err := gzip.NewWriterLevel(buf, gzip.BestCompression)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(data); err != nil {
			_ = zw.Close()
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
