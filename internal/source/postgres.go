package source

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/netip"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/spreadtable/internal/core"
)

// pgUndefinedTable is the SQLSTATE for a missing relation.
const pgUndefinedTable = "42P01"

// Querier is the subset of *pgxpool.Pool used by PostgresSource.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource produces a table from a SQL query. Column names become
// the header; the query runs on every lookup.
type PostgresSource struct {
	db    Querier
	query string
}

// NewPostgresSource creates a source running query against db.
func NewPostgresSource(db Querier, query string) *PostgresSource {
	return &PostgresSource{db: db, query: query}
}

// Lookup implements core.TableSource. A query against a relation that does
// not exist reports core.ErrTableNotFound.
func (s *PostgresSource) Lookup(ctx context.Context, id string) (*core.Table, error) {
	rows, err := s.db.Query(ctx, s.query)
	if err != nil {
		return nil, queryError(id, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]core.Cell, len(fields))
	for i, f := range fields {
		header[i] = core.Cell{Text: f.Name, Header: true}
	}

	t := &core.Table{ID: id, Head: [][]core.Cell{header}}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("query %s: read row: %w", id, err)
		}
		row := make([]core.Cell, len(values))
		for i, v := range values {
			row[i] = CellFromValue(v)
		}
		t.Body = append(t.Body, row)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(id, err)
	}
	return t, nil
}

func queryError(id string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return fmt.Errorf("%w: %s (%s)", core.ErrTableNotFound, id, pgErr.Message)
	}
	return fmt.Errorf("query %s: %w", id, err)
}

// CellFromValue renders a decoded column value as a typed cell.
func CellFromValue(v any) core.Cell {
	switch val := v.(type) {
	case nil:
		return core.Cell{}

	case pgtype.Numeric:
		if !val.Valid {
			return core.Cell{}
		}
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return core.Cell{}
		}
		return numberCell(formatFloat(f.Float64))

	case pgtype.Date:
		if !val.Valid {
			return core.Cell{}
		}
		return core.Cell{Text: val.Time.Format("2006-01-02"), Type: core.CellDate}

	case pgtype.Text:
		if !val.Valid {
			return core.Cell{}
		}
		return core.Cell{Text: val.String, Type: core.CellString}

	case pgtype.Bool:
		if !val.Valid {
			return core.Cell{}
		}
		return boolCell(val.Bool)

	case time.Time:
		if val.IsZero() {
			return core.Cell{}
		}
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return core.Cell{Text: val.Format("2006-01-02"), Type: core.CellDate}
		}
		return core.Cell{Text: val.Format("2006-01-02 15:04:05"), Type: core.CellDate}

	case bool:
		return boolCell(val)

	case string:
		return core.Cell{Text: val, Type: core.CellString}

	case int64:
		return numberCell(strconv.FormatInt(val, 10))
	case int32:
		return numberCell(strconv.FormatInt(int64(val), 10))
	case int16:
		return numberCell(strconv.FormatInt(int64(val), 10))
	case float64:
		return numberCell(formatFloat(val))
	case float32:
		return numberCell(formatFloat(float64(val)))
	case *big.Int:
		return numberCell(val.String())

	case [16]byte:
		return core.Cell{Text: uuid.UUID(val).String(), Type: core.CellString}
	case netip.Prefix:
		return core.Cell{Text: val.String(), Type: core.CellString}

	default:
		return core.Cell{Text: fmt.Sprintf("%v", v)}
	}
}

func numberCell(s string) core.Cell {
	return core.Cell{Text: s, Type: core.CellNumber}
}

func boolCell(b bool) core.Cell {
	if b {
		return core.Cell{Text: "Yes", Type: core.CellBool}
	}
	return core.Cell{Text: "No", Type: core.CellBool}
}

// formatFloat prints whole numbers without decimals and everything else with two.
func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}
