package database

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// CountVisibleComments returns the number of comments that are not
// soft-deleted, keyed by person id. People without comments are absent.
// db may be a *sql.DB or an open transaction.
func CountVisibleComments(ctx context.Context, db sq.QueryerContext) (map[uint]int64, error) {
	queryBuilder := psql.Select("person_id", "COUNT(*)").
		From("comments").
		Where(sq.Eq{"is_deleted": false}).
		GroupBy("person_id")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for CountVisibleComments: %w", err)
	}

	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute CountVisibleComments query: %w", err)
	}
	defer rows.Close()

	counts := make(map[uint]int64)
	for rows.Next() {
		var personID uint
		var n int64
		if err := rows.Scan(&personID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan comment count row: %w", err)
		}
		counts[personID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment count rows: %w", err)
	}
	return counts, nil
}
