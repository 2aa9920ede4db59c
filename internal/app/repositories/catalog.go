package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolms/internal/pkg/dberrors"
	"github.com/yigit/schoolms/internal/pkg/logger"
)

// catalog implements the shared storage of small (id, name) tables such as departments and subjects.
type catalog struct {
	db         *pgxpool.Pool
	sb         squirrel.StatementBuilderType
	table      string
	uniqueName string
	errExists  error
	errMissing error
}

type catalogRow struct {
	ID   int64
	Name string
}

func (c *catalog) create(ctx context.Context, name string) (int64, error) {
	sql, args, err := c.sb.Insert(c.table).Columns("name").Values(name).Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create %s query: %w", c.table, err)
	}

	var id int64
	if err := c.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, c.uniqueName) {
			return 0, c.errExists
		}
		logger.Error().Err(err).Str("table", c.table).Str("name", name).Msg("Error creating catalog row")
		return 0, fmt.Errorf("error creating %s: %w", c.table, err)
	}
	return id, nil
}

// getOrCreate returns the row named name, inserting it first when absent.
func (c *catalog) getOrCreate(ctx context.Context, name string) (catalogRow, bool, error) {
	sql, args, err := c.sb.Insert(c.table).
		Columns("name").
		Values(name).
		Suffix("ON CONFLICT (name) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return catalogRow{}, false, fmt.Errorf("failed to build get-or-create %s query: %w", c.table, err)
	}

	var id int64
	err = c.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err == nil {
		return catalogRow{ID: id, Name: name}, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return catalogRow{}, false, fmt.Errorf("error creating %s: %w", c.table, err)
	}

	row, err := c.get(ctx, squirrel.Eq{"name": name})
	return row, false, err
}

func (c *catalog) get(ctx context.Context, where squirrel.Sqlizer) (catalogRow, error) {
	sql, args, err := c.sb.Select("id", "name").From(c.table).Where(where).ToSql()
	if err != nil {
		return catalogRow{}, fmt.Errorf("failed to build get %s query: %w", c.table, err)
	}

	var row catalogRow
	if err := c.db.QueryRow(ctx, sql, args...).Scan(&row.ID, &row.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalogRow{}, c.errMissing
		}
		return catalogRow{}, fmt.Errorf("error retrieving %s: %w", c.table, err)
	}
	return row, nil
}

func (c *catalog) all(ctx context.Context) ([]catalogRow, error) {
	sql, args, err := c.sb.Select("id", "name").From(c.table).OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list %s query: %w", c.table, err)
	}

	rows, err := c.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", c.table, err)
	}
	defer rows.Close()

	var out []catalogRow
	for rows.Next() {
		var row catalogRow
		if err := rows.Scan(&row.ID, &row.Name); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (c *catalog) count(ctx context.Context) (int64, error) {
	var n int64
	if err := c.db.QueryRow(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting %s: %w", c.table, err)
	}
	return n, nil
}
