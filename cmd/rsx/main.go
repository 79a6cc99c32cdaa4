package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kilianc/rsx/internal/rsx/compile"
	"github.com/kilianc/rsx/internal/rsx/config"
	"github.com/kilianc/rsx/internal/rsx/outfile"
	"github.com/kilianc/rsx/internal/rsx/render"
)

// rootMarkers identify the project root, checked in order in each directory.
var rootMarkers = []string{"go.mod", config.FileName}

type generator struct {
	cwd    string
	cfg    *config.Config
	stdout bool
	log    *slog.Logger
}

func main() {
	flag.Usage = func() {
		_, _ = fmt.Fprintln(os.Stderr, "Usage: rsx [flags] [paths...]")
		_, _ = fmt.Fprintln(os.Stderr, "")
		_, _ = fmt.Fprintln(os.Stderr, "Renders one *.html file next to each *.rsx template.")
		_, _ = fmt.Fprintln(os.Stderr, "")
		_, _ = fmt.Fprintln(os.Stderr, "Paths behave like Go patterns:")
		_, _ = fmt.Fprintln(os.Stderr, "  - ./...        recurse from cwd")
		_, _ = fmt.Fprintln(os.Stderr, "  - ./dir        only that directory (non-recursive)")
		_, _ = fmt.Fprintln(os.Stderr, "  - ./dir/...    recurse from that directory")
		_, _ = fmt.Fprintln(os.Stderr, "  - ./file.rsx   only that file")
		flag.PrintDefaults()
	}
	rootFlag := flag.String("root", "", "project root (defaults to the nearest directory above cwd holding go.mod or rsx.yaml)")
	dirFlag := flag.String("dir", "", "if set, only render this directory (non-recursive). Useful with go:generate.")
	configFlag := flag.String("config", "", "config file (defaults to rsx.yaml at the project root, if present)")
	modeFlag := flag.String("mode", "", "output mode for templates without a prefix: lined, btfy0, btfy2 or btfy4")
	stdoutFlag := flag.Bool("stdout", false, "print rendered HTML to stdout instead of writing files")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn or error")
	flag.Parse()

	log, err := newLogger(*logLevel)
	if err != nil {
		fatal(err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		fatal(err)
	}
	root := *rootFlag
	if root == "" {
		root, err = findRoot(cwd)
		if err != nil {
			fatal(err)
		}
	}
	root, err = filepath.Abs(root)
	if err != nil {
		fatal(err)
	}

	cfg, err := loadConfig(root, *configFlag)
	if err != nil {
		fatal(err)
	}
	if *modeFlag != "" {
		cfg.Mode, err = render.ParseMode(*modeFlag)
		if err != nil {
			fatal(err)
		}
	}
	gen := &generator{cwd: cwd, cfg: cfg, stdout: *stdoutFlag, log: log}
	log.Debug("config loaded", "root", root, "mode", cfg.Mode, "doctype", cfg.Doctype, "sanitize", cfg.Sanitize)

	dir := strings.TrimSpace(*dirFlag)
	if dir != "" && flag.NArg() != 0 {
		fatal(fmt.Errorf("rsx: cannot use -dir with positional paths"))
	}
	if dir != "" {
		if err := gen.generateDir(gen.abs(dir)); err != nil {
			fatal(err)
		}
		return
	}

	patterns := flag.Args()
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	paths, err := gen.collect(patterns)
	if err != nil {
		fatal(err)
	}
	if len(paths) == 0 {
		log.Debug("no templates found", "patterns", patterns)
		return
	}

	var allErr error
	for _, pth := range paths {
		if err := gen.generateFile(pth); err != nil {
			allErr = errors.Join(allErr, err)
		}
	}
	if allErr != nil {
		fatal(allErr)
	}
}

func fatal(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info", "":
		l = slog.LevelInfo
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return nil, fmt.Errorf("rsx: unknown log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

func loadConfig(root, path string) (*config.Config, error) {
	if path == "" {
		var err error
		path, err = config.Find(root)
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// findRoot walks up from start to the first directory holding one of
// rootMarkers.
func findRoot(start string) (string, error) {
	for d := start; ; d = filepath.Dir(d) {
		for _, m := range rootMarkers {
			if st, err := os.Stat(filepath.Join(d, m)); err == nil && !st.IsDir() {
				return d, nil
			}
		}
		if filepath.Dir(d) == d {
			return "", fmt.Errorf("rsx: no %s above %s", strings.Join(rootMarkers, " or "), start)
		}
	}
}

func (gen *generator) generateDir(dir string) error {
	paths, err := listTemplates(dir)
	if err != nil {
		return err
	}
	for _, pth := range paths {
		if err := gen.generateFile(pth); err != nil {
			return err
		}
	}
	return nil
}

func (gen *generator) generateFile(pth string) error {
	b, err := os.ReadFile(pth)
	if err != nil {
		return err
	}
	out, err := compile.CompileFile(pth, b, gen.cfg)
	if err != nil {
		// parser errors already carry the file name
		return err
	}
	if gen.stdout {
		_, err := os.Stdout.Write(out)
		return err
	}
	outPath := outfile.OutPath(pth)
	if err := outfile.WriteGeneratedFile(outPath, out); err != nil {
		return err
	}
	gen.log.Info("rendered", "template", pth, "out", outPath, "bytes", len(out))
	return nil
}

// abs resolves p against the generator's working directory.
func (gen *generator) abs(p string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(gen.cwd, p)
	}
	return filepath.Clean(p)
}

// collect expands Go-style patterns to a sorted, duplicate-free list of
// absolute template paths.
func (gen *generator) collect(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	for _, raw := range patterns {
		pat := strings.TrimSpace(raw)
		if pat == "" {
			continue
		}

		var (
			found []string
			err   error
		)
		if base, ok := recursiveBase(pat); ok {
			found, err = walkTemplates(gen.abs(base))
		} else {
			found, err = gen.expand(gen.abs(pat))
		}
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			seen[p] = true
		}
	}

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// expand resolves a non-recursive pattern: a directory or one template.
func (gen *generator) expand(target string) ([]string, error) {
	st, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return listTemplates(target)
	}
	if !isTemplate(target) {
		return nil, fmt.Errorf("rsx: not a .rsx file: %s", target)
	}
	return []string{target}, nil
}

// recursiveBase reports whether pat ends in "..." and returns the
// directory it recurses from.
func recursiveBase(pat string) (string, bool) {
	if pat != "..." && !strings.HasSuffix(pat, "/...") {
		return "", false
	}
	base := strings.TrimSuffix(strings.TrimSuffix(pat, "..."), "/")
	if base == "" {
		base = "."
	}
	return base, true
}

func isTemplate(name string) bool {
	return strings.HasSuffix(name, ".rsx")
}

func skipDir(name string) bool {
	return name == "vendor" || name == "node_modules" || strings.HasPrefix(name, ".")
}

// listTemplates returns the templates directly inside dir, sorted.
func listTemplates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && isTemplate(e.Name()) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

// walkTemplates returns every template below root, skipping vendored and
// hidden directories.
func walkTemplates(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			if path != root && skipDir(de.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if isTemplate(de.Name()) {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}
