package main

import (
	"context"
	"crypto/sha256"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/kilianc/rsx/internal/rsx/compile"
	"github.com/kilianc/rsx/internal/rsx/config"
	"github.com/kilianc/rsx/internal/rsx/outfile"
)

func main() {
	flag.Usage = func() {
		_, _ = fmt.Fprintln(os.Stderr, "Usage: playground [flags]")
		_, _ = fmt.Fprintln(os.Stderr, "")
		_, _ = fmt.Fprintln(os.Stderr, "Watches ./playground/page.rsx and re-renders ./playground/page.html on changes.")
		flag.PrintDefaults()
	}
	interval := flag.Duration("interval", 300*time.Millisecond, "watch polling interval")
	flag.Parse()

	if flag.NArg() != 0 {
		flag.Usage()
		os.Exit(2)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root, err := findModuleRoot(".")
	if err != nil {
		fatal(err)
	}
	w := &watcher{
		target:   filepath.Join(root, "playground", "page.rsx"),
		root:     root,
		interval: *interval,
		log:      log,
	}
	if err := w.run(ctx); err != nil {
		fatal(err)
	}
}

type watcher struct {
	target   string
	root     string
	interval time.Duration
	log      *slog.Logger

	lastHash [32]byte
	have     bool
}

func (w *watcher) run(ctx context.Context) error {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		w.poll()
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

// poll re-renders the target when its contents changed since the last
// poll. It reports whether a render happened.
func (w *watcher) poll() bool {
	src, err := os.ReadFile(w.target)
	if err != nil {
		w.log.Error("read failed", "path", w.target, "err", err)
		return false
	}
	h := sha256.Sum256(src)
	if w.have && h == w.lastHash {
		return false
	}
	w.lastHash = h
	w.have = true

	if err := w.render(src); err != nil {
		w.log.Error("render failed", "err", err)
		return true
	}
	w.log.Info("rendered", "path", outfile.OutPath(w.target))
	return true
}

func (w *watcher) render(src []byte) error {
	path, err := config.Find(w.root)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	out, err := compile.CompileFile(w.target, src, cfg)
	if err != nil {
		return err
	}
	return outfile.WriteGeneratedFile(outfile.OutPath(w.target), out)
}

func findModuleRoot(start string) (string, error) {
	d, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", fmt.Errorf("could not find go.mod above %s", start)
		}
		d = parent
	}
}

func fatal(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
