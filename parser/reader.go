package parser

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/rvlint/token"
)

// ReadErrorKind classifies a FileReader failure (spec.md §6).
type ReadErrorKind int

const (
	InvalidPath ReadErrorKind = iota
	InternalFileNotFound
	FileAlreadyRead
	IOError
	Unexpected
)

// ReadError is returned by FileReader.Import.
type ReadError struct {
	Kind ReadErrorKind
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	switch e.Kind {
	case InvalidPath:
		return fmt.Sprintf("invalid include path %q", e.Path)
	case InternalFileNotFound:
		return fmt.Sprintf("file not found: %s", e.Path)
	case FileAlreadyRead:
		return fmt.Sprintf("cyclic include: %s already read", e.Path)
	case IOError:
		return fmt.Sprintf("io error reading %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("unexpected error reading %s: %v", e.Path, e.Err)
	}
}

func (e *ReadError) Unwrap() error { return e.Err }

// FileReader is the external collaborator resolving `.include` directives
// (spec.md §6). A path may only be imported once per analysis run — a
// second Import of the same resolved path returns FileAlreadyRead, which
// the parser turns into a CyclicDependency ParseError.
type FileReader interface {
	// Import reads path (resolved relative to parent's directory if
	// parent is non-empty) and returns a fresh FileID plus its text.
	Import(ctx context.Context, path string, parent string) (token.FileID, string, error)
	// Text returns the previously-imported text for id, if any.
	Text(id token.FileID) (string, bool)
	// Filename returns the resolved path an id was imported from.
	Filename(id token.FileID) (string, bool)
}

// memoryReader is a FileReader backed by an in-memory map, used by tests
// (including golang.org/x/tools/txtar-derived fixtures) that should not
// touch the real filesystem.
type memoryReader struct {
	files map[string]string
	read  map[string]token.FileID
	ids   map[token.FileID]string
	texts map[token.FileID]string
}

// NewMemoryReader builds a FileReader over a fixed path->text map, for
// tests and for any caller that already has source in memory.
func NewMemoryReader(files map[string]string) FileReader {
	return &memoryReader{
		files: files,
		read:  map[string]token.FileID{},
		ids:   map[token.FileID]string{},
		texts: map[token.FileID]string{},
	}
}

func (r *memoryReader) Import(_ context.Context, p string, parent string) (token.FileID, string, error) {
	resolved := resolveInclude(p, parent)
	if _, already := r.read[resolved]; already {
		return token.FileID{}, "", &ReadError{Kind: FileAlreadyRead, Path: resolved}
	}
	text, ok := r.files[resolved]
	if !ok {
		return token.FileID{}, "", &ReadError{Kind: InternalFileNotFound, Path: resolved}
	}
	id := token.NewFileID()
	r.read[resolved] = id
	r.ids[id] = resolved
	r.texts[id] = text
	return id, text, nil
}

func (r *memoryReader) Text(id token.FileID) (string, bool) {
	t, ok := r.texts[id]
	return t, ok
}

func (r *memoryReader) Filename(id token.FileID) (string, bool) {
	n, ok := r.ids[id]
	return n, ok
}

// afsReader is a FileReader backed by github.com/viant/afs, the teacher's
// abstract-filesystem client, giving `.include` the same local/cloud
// storage transparency the teacher's package walker (analyzer/package.go)
// gets for free.
type afsReader struct {
	ctx   context.Context
	fs    afs.Service
	read  map[string]token.FileID
	ids   map[token.FileID]string
	texts map[token.FileID]string
}

// NewAFSReader builds a FileReader over an afs.Service, resolving
// relative `.include` paths against the parent file's directory.
func NewAFSReader(ctx context.Context, fs afs.Service) FileReader {
	return &afsReader{
		ctx:   ctx,
		fs:    fs,
		read:  map[string]token.FileID{},
		ids:   map[token.FileID]string{},
		texts: map[token.FileID]string{},
	}
}

func (r *afsReader) Import(ctx context.Context, p string, parent string) (token.FileID, string, error) {
	if p == "" {
		return token.FileID{}, "", &ReadError{Kind: InvalidPath, Path: p}
	}
	resolved := resolveInclude(p, parent)
	if _, already := r.read[resolved]; already {
		return token.FileID{}, "", &ReadError{Kind: FileAlreadyRead, Path: resolved}
	}
	exists, err := r.fs.Exists(ctx, resolved)
	if err != nil {
		return token.FileID{}, "", &ReadError{Kind: Unexpected, Path: resolved, Err: err}
	}
	if !exists {
		return token.FileID{}, "", &ReadError{Kind: InternalFileNotFound, Path: resolved}
	}
	data, err := r.fs.DownloadWithURL(ctx, resolved)
	if err != nil {
		return token.FileID{}, "", &ReadError{Kind: IOError, Path: resolved, Err: err}
	}
	id := token.NewFileID()
	r.read[resolved] = id
	r.ids[id] = resolved
	r.texts[id] = string(data)
	return id, string(data), nil
}

func (r *afsReader) Text(id token.FileID) (string, bool) {
	t, ok := r.texts[id]
	return t, ok
}

func (r *afsReader) Filename(id token.FileID) (string, bool) {
	n, ok := r.ids[id]
	return n, ok
}

func resolveInclude(p string, parent string) string {
	if parent == "" || filepath.IsAbs(p) || strings.Contains(p, "://") {
		return p
	}
	return path.Join(path.Dir(parent), p)
}
