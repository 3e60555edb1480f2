package dom

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/net/html"

	"github.com/JonMunkholm/spreadtable/internal/core"
	"github.com/JonMunkholm/spreadtable/internal/logging"
)

// FileSource serves tables from an HTML file on disk.
type FileSource struct {
	Path string
}

// NewFileSource creates a source reading from path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Lookup re-reads the file and returns the table with the given id.
func (s *FileSource) Lookup(ctx context.Context, id string) (*core.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return TableByID(doc, id)
}

// IDs lists the table ids currently present in the file.
func (s *FileSource) IDs() ([]string, error) {
	doc, err := s.load(context.Background())
	if err != nil {
		return nil, err
	}
	return TableIDs(doc), nil
}

func (s *FileSource) load(ctx context.Context) (*html.Node, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	defer f.Close()

	r := core.NewPageReader(f, core.MaxPageSize)
	doc, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	logging.FromContext(ctx).Debug("page parsed", "path", s.Path, "bytes", r.BytesRead())
	return doc, nil
}

// DocumentSource serves tables from markup held in memory. The markup can be
// replaced at any time; lookups always parse the current version.
type DocumentSource struct {
	mu     sync.RWMutex
	markup []byte
}

// NewDocumentSource creates a source over the given markup.
func NewDocumentSource(markup []byte) *DocumentSource {
	return &DocumentSource{markup: append([]byte(nil), markup...)}
}

// SetMarkup replaces the document.
func (s *DocumentSource) SetMarkup(markup []byte) {
	s.mu.Lock()
	s.markup = append([]byte(nil), markup...)
	s.mu.Unlock()
}

// Lookup implements core.TableSource.
func (s *DocumentSource) Lookup(_ context.Context, id string) (*core.Table, error) {
	s.mu.RLock()
	markup := s.markup
	s.mu.RUnlock()

	doc, err := Parse(bytes.NewReader(markup))
	if err != nil {
		return nil, err
	}
	return TableByID(doc, id)
}
