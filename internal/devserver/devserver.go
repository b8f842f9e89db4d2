// Package devserver serves a build's output root for local development.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Directory served at the site root
	Root string
	// Listen address
	Addr string
	// Compress responses with gzip
	Compress bool
	// Minimum response size in bytes before compression kicks in
	MinCompressSize int
	// Allowed CORS origins, CORS is disabled when empty
	CORSOrigins []string
}

// DefaultConfig returns the configuration for serving root on port 9000
func DefaultConfig(root string) Config {
	return Config{
		Root:            root,
		Addr:            "127.0.0.1:9000",
		Compress:        true,
		MinCompressSize: gzhttp.DefaultMinSize,
	}
}

// Handler serves the output root without directory listings
func Handler(cfg Config) (http.Handler, error) {
	if cfg.Root == "" {
		return nil, errors.New("output root is required")
	}
	if info, err := os.Stat(cfg.Root); err != nil {
		return nil, fmt.Errorf("output root not found at %s: %w", cfg.Root, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("output root %s is not a directory", cfg.Root)
	}

	var handler http.Handler = http.FileServer(noListingFS{http.Dir(cfg.Root)})

	if cfg.Compress {
		wrapper, err := gzhttp.NewWrapper(gzhttp.MinSize(cfg.MinCompressSize))
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip wrapper: %w", err)
		}
		handler = wrapper(handler)
	}

	if len(cfg.CORSOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodHead},
		}).Handler(handler)
	}

	return RequestLogger(log.Logger)(handler), nil
}

// Run serves until ctx is cancelled
func Run(ctx context.Context, cfg Config) error {
	handler, err := Handler(cfg)
	if err != nil {
		return err
	}

	srv := configureHTTPServer(cfg.Addr, handler)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("root", cfg.Root).Bool("compress", cfg.Compress).Msg("Starting dev server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown dev server: %w", err)
		}
		return nil
	}
}

func configureHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		IdleTimeout:       5 * time.Minute,
		MaxHeaderBytes:    8 * 1024, // 8KiB
	}
}

// noListingFS hides directories that have no index.html so the file server
// never renders a listing
type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if !info.IsDir() {
		return f, nil
	}

	index, err := n.fs.Open(path.Join(name, "index.html"))
	if err != nil {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	_ = index.Close()
	return f, nil
}
