// Package loader is the file-level driver around parser.Parse: it reads
// bytes from disk, runs a parse session through a fresh
// builder.ASTBuilder, and optionally resolves `include` directives the
// core itself never touches.
//
// The loader supports two modes of operation:
//   - Simple mode: parses a single file, leaving ast.File.Includes intact
//   - Follow mode: recursively loads every included file and merges them
//     into one ast.File
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledgerparse/ledgerparse/ast"
	"github.com/ledgerparse/ledgerparse/builder"
	"github.com/ledgerparse/ledgerparse/parser"
	"github.com/ledgerparse/ledgerparse/telemetry"
)

// Result is everything a Load call produces: the merged AST, every
// diagnostic any parsed file reported, and which files were actually
// read.
type Result struct {
	File        *ast.File
	Diagnostics []builder.Diagnostic
	Files       []string
}

// Loader reads and parses ledger files with optional include resolution.
type Loader struct {
	// FollowIncludes controls whether included files are recursively
	// loaded and merged. When false, ast.File.Includes is left for the
	// caller to resolve itself.
	FollowIncludes bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithFollowIncludes enables recursive include resolution.
func WithFollowIncludes() Option {
	return func(l *Loader) { l.FollowIncludes = true }
}

// New returns a Loader with the given options applied.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses filename, following includes if the Loader is configured
// to. The returned error is only non-nil for an I/O failure (file not
// found, unreadable, and so on); malformed ledger syntax is reported
// through Result.Diagnostics, never through the error return, matching
// how the core parser itself never fails a parse outright.
func (l *Loader) Load(ctx context.Context, filename string) (*Result, error) {
	timer := telemetry.FromContext(ctx).Start("load file")
	defer timer.End()

	if !l.FollowIncludes {
		file, diags, err := parseFile(ctx, filename)
		if err != nil {
			return nil, err
		}
		return &Result{File: file, Diagnostics: diags, Files: []string{filename}}, nil
	}

	state := &loaderState{visited: make(map[string]bool)}
	return state.loadRecursive(ctx, filename)
}

func parseFile(ctx context.Context, filename string) (*ast.File, []builder.Diagnostic, error) {
	timer := telemetry.FromContext(ctx).Start(fmt.Sprintf("parse %s", filename))
	defer timer.End()

	readTimer := timer.Child("read")
	data, err := os.ReadFile(filename)
	readTimer.End()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	parseTimer := timer.Child("lex+parse")
	defer parseTimer.End()

	b := builder.NewASTBuilder()
	if err := parser.Parse(data, filename, b); err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return b.File(), b.Diagnostics(), nil
}

type loaderState struct {
	visited map[string]bool
}

func (l *loaderState) loadRecursive(ctx context.Context, filename string) (*Result, error) {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
	}
	if l.visited[absPath] {
		return &Result{File: &ast.File{}}, nil
	}
	l.visited[absPath] = true

	file, diags, err := parseFile(ctx, filename)
	if err != nil {
		return nil, err
	}

	result := &Result{File: file, Diagnostics: diags, Files: []string{filename}}
	if len(file.Includes) == 0 {
		return result, nil
	}

	baseDir := filepath.Dir(absPath)
	includes := file.Includes
	file.Includes = nil

	for _, inc := range includes {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		includePath := inc.Filename
		if !filepath.IsAbs(includePath) {
			includePath = filepath.Join(baseDir, includePath)
		}

		included, err := l.loadRecursive(ctx, includePath)
		if err != nil {
			return nil, fmt.Errorf("in file %s: %w", filename, err)
		}

		result.File.Declarations = append(result.File.Declarations, included.File.Declarations...)
		result.Diagnostics = append(result.Diagnostics, included.Diagnostics...)
		result.Files = append(result.Files, included.Files...)
	}

	return result, nil
}
