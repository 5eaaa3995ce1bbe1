package driver

import (
	"context"
	"fmt"

	"hsl/internal/source"
)

// Parse loads path and runs lex and parse only. Resolve errors are not
// reported; use CheckFile for those.
func Parse(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ParseFile(ctx, fs, id, opts), nil
}

// ParseFile parses a loaded file with the extension syntax of opts.Registry.
func ParseFile(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) *Result {
	p := newPhases(ctx, opts)
	_, end := p.script(fs.Get(id).Path)
	defer end()
	res := newFrontend().parse(p, fs, id, opts)
	res.Timing = p.report()
	return res
}
