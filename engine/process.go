package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/tsat/internal/runner"
	"github.com/gnolang/tsat/internal/session"
	"github.com/gnolang/tsat/internal/term"
)

var desiredExtensions = map[string]bool{
	".sexp": true,
	".expr": true,
}

func hasDesiredExtension(path string) bool {
	return desiredExtensions[filepath.Ext(path)]
}

// FileResult is the simplification of every expression in one file.
type FileResult struct {
	Path       string               `json:"path,omitempty"`
	StopReason runner.StopReason    `json:"-"`
	Best       []session.Comparison `json:"best"`
}

// ReadExprFile reads one expression per line. Blank lines and lines
// starting with ';' are skipped.
func ReadExprFile(path string) ([]term.Term, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var exprs []term.Term
	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, ";") {
			continue
		}
		t, err := term.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		exprs = append(exprs, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return exprs, nil
}

// CollectExprFiles expands directories into the expression files they
// contain. Files named explicitly are kept whatever their extension.
func CollectExprFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && hasDesiredExtension(p) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking %s: %w", path, err)
		}
	}
	return files, nil
}

// ProcessFiles simplifies every expression file under paths, one e-graph
// per file, on up to GOMAXPROCS workers. Progress is drawn on progress
// when it is not nil. Results are in file order.
func (e *Engine) ProcessFiles(ctx context.Context, paths []string, progress io.Writer) ([]FileResult, error) {
	files, err := CollectExprFiles(paths)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = io.Discard
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("simplifying"),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range files {
		i, path := i, path
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			defer bar.Add(1)

			exprs, err := ReadExprFile(path)
			if err != nil {
				e.logger.Error("Error processing file", zap.String("file", path), zap.Error(err))
				return err
			}
			res, err := e.Simplify(gctx, exprs)
			if err != nil {
				return fmt.Errorf("simplifying %s: %w", path, err)
			}
			results[i] = FileResult{Path: path, StopReason: res.StopReason, Best: res.Best}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_ = bar.Finish()
	return results, nil
}
