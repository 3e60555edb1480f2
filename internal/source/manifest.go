package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/spreadtable/internal/core"
	"github.com/JonMunkholm/spreadtable/internal/dom"
)

// Source kinds.
const (
	KindHTML     = "html"
	KindWorkbook = "xlsx"
	KindPostgres = "postgres"
)

// ErrNoDatabase is returned when a manifest declares a query table but no
// database is configured.
var ErrNoDatabase = errors.New("postgres table declared but no database configured")

// Manifest lists the tables served by the application.
type Manifest struct {
	Tables []TableSpec `yaml:"tables"`

	dir string
}

// TableSpec declares one table.
type TableSpec struct {
	ID      string `yaml:"id"`
	Group   string `yaml:"group,omitempty"`
	Label   string `yaml:"label,omitempty"`
	Variant string `yaml:"variant,omitempty"` // filter (default) or toolbar
	Kind    string `yaml:"kind,omitempty"`    // html, xlsx or postgres; inferred when empty

	// HTML and workbook tables
	Path string `yaml:"path,omitempty"`

	// HTML tables: id of the table element when it differs from ID
	Element string `yaml:"element,omitempty"`

	// Workbook tables
	Sheet      string `yaml:"sheet,omitempty"`
	HeaderRows *int   `yaml:"header_rows,omitempty"` // default 1

	// Postgres tables
	Query string `yaml:"query,omitempty"`
}

// LoadManifest reads a manifest file. A missing file yields an empty
// manifest so the server can start before any table is published.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{dir: filepath.Dir(path)}, nil
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return ParseManifest(data, filepath.Dir(path))
}

// ParseManifest decodes manifest YAML. Relative paths resolve against dir.
func ParseManifest(data []byte, dir string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	m.dir = dir
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ResolvedKind returns the declared or inferred source kind.
func (s TableSpec) ResolvedKind() string {
	if s.Kind != "" {
		return strings.ToLower(s.Kind)
	}
	if s.Query != "" {
		return KindPostgres
	}
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".html", ".htm":
		return KindHTML
	case ".xlsx", ".xlsm":
		return KindWorkbook
	}
	return ""
}

// Info returns the display information for the table.
func (s TableSpec) Info() core.TableInfo {
	return core.TableInfo{
		Key:     s.ID,
		Group:   s.Group,
		Label:   s.Label,
		Variant: core.ParseVariant(s.Variant),
	}
}

// Validate checks every entry and reports all problems at once.
func (m *Manifest) Validate() error {
	var errs []string
	seen := make(map[string]bool)

	for i, t := range m.Tables {
		where := fmt.Sprintf("tables[%d]", i)
		if t.ID == "" {
			errs = append(errs, where+": id is required")
		} else {
			where = fmt.Sprintf("tables[%d] (%s)", i, t.ID)
			if seen[t.ID] {
				errs = append(errs, where+": duplicate id")
			}
			seen[t.ID] = true
		}

		switch t.ResolvedKind() {
		case KindHTML, KindWorkbook:
			if t.Path == "" {
				errs = append(errs, where+": path is required")
			}
		case KindPostgres:
			if strings.TrimSpace(t.Query) == "" {
				errs = append(errs, where+": query is required")
			}
		case "":
			errs = append(errs, where+": cannot infer kind; set kind, a .html/.xlsx path or a query")
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown kind %q", where, t.Kind))
		}

		if t.HeaderRows != nil && *t.HeaderRows < 0 {
			errs = append(errs, where+": header_rows must be non-negative")
		}
		if v := strings.ToLower(t.Variant); v != "" && v != string(core.VariantFilter) && v != string(core.VariantToolbar) {
			errs = append(errs, fmt.Sprintf("%s: unknown variant %q", where, t.Variant))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid manifest:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Resolve returns path relative to the manifest's directory.
func (m *Manifest) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || m.dir == "" {
		return path
	}
	return filepath.Join(m.dir, path)
}

// SourceFor builds the table source for one entry. db may be nil when no
// entry is a postgres table.
func (m *Manifest) SourceFor(spec TableSpec, db Querier) (core.TableSource, error) {
	switch spec.ResolvedKind() {
	case KindHTML:
		src := dom.NewFileSource(m.Resolve(spec.Path))
		if spec.Element == "" || spec.Element == spec.ID {
			return src, nil
		}
		return renamed(src, spec.Element), nil

	case KindWorkbook:
		ws := NewWorkbookSource(m.Resolve(spec.Path), spec.Sheet)
		if spec.HeaderRows != nil {
			ws.HeaderRows = *spec.HeaderRows
		}
		return ws, nil

	case KindPostgres:
		if db == nil {
			return nil, fmt.Errorf("%s: %w", spec.ID, ErrNoDatabase)
		}
		return NewPostgresSource(db, spec.Query), nil
	}
	return nil, fmt.Errorf("%s: unknown kind %q", spec.ID, spec.Kind)
}

// Register adds every table in the manifest to reg.
func (m *Manifest) Register(reg *core.Registry, db Querier) error {
	for _, spec := range m.Tables {
		src, err := m.SourceFor(spec, db)
		if err != nil {
			return err
		}
		if err := reg.Register(core.TableDefinition{Info: spec.Info(), Source: src}); err != nil {
			return err
		}
	}
	return nil
}

// NeedsDatabase reports whether any entry is a postgres table.
func (m *Manifest) NeedsDatabase() bool {
	for _, t := range m.Tables {
		if t.ResolvedKind() == KindPostgres {
			return true
		}
	}
	return false
}

// renamed looks tables up under element but reports them as the requested id.
func renamed(src core.TableSource, element string) core.TableSource {
	return core.SourceFunc(func(ctx context.Context, id string) (*core.Table, error) {
		t, err := src.Lookup(ctx, element)
		if err != nil {
			return nil, err
		}
		t.ID = id
		return t, nil
	})
}
