package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"voip-metrics-service/internal/metrics/core/domain"
	"voip-metrics-service/internal/metrics/core/ports"

	"github.com/lib/pq"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

const rowColumns = `time, customer, supplier, destination, seconds,
    start_nuber, start_attempt, start_uniq_attempt, answer_time, pdd`

// RowRepository reads raw CDR rollup rows from the aggregation table.
type RowRepository struct {
	db    DB
	table string
}

// NewRowRepository; table is quoted as an identifier, so it may come from config.
func NewRowRepository(db DB, table string) *RowRepository {
	return &RowRepository{db: db, table: pq.QuoteIdentifier(table)}
}

func (r *RowRepository) FetchRows(ctx context.Context, f ports.RowFilter) ([]domain.RawRow, error) {
	w := newWhere()
	w.filter(f)

	query := `
SELECT ` + rowColumns + `
FROM ` + r.table + w.clause() + `
ORDER BY time ASC`

	return r.query(ctx, query, w.args...)
}

func (r *RowRepository) FetchPage(ctx context.Context, q ports.PageQuery) ([]domain.RawRow, error) {
	w := newWhere()
	w.filter(q.Filter)

	order := "DESC"
	switch {
	case q.Before != nil:
		w.add("time < %s", *q.Before)
	case q.After != nil:
		w.add("time > %s", *q.After)
		order = "ASC"
	}
	w.args = append(w.args, q.Limit)

	query := fmt.Sprintf(`
SELECT %s
FROM %s%s
ORDER BY time %s
LIMIT $%d`, rowColumns, r.table, w.clause(), order, len(w.args))

	return r.query(ctx, query, w.args...)
}

var suggestColumns = map[ports.SuggestKind]string{
	ports.SuggestCustomer:    "customer",
	ports.SuggestSupplier:    "supplier",
	ports.SuggestDestination: "destination",
}

func (r *RowRepository) Suggest(ctx context.Context, kind ports.SuggestKind, prefix string, limit int) ([]string, error) {
	name, ok := suggestColumns[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported suggest kind: %s", kind)
	}
	col := pq.QuoteIdentifier(name)

	query := fmt.Sprintf(`
SELECT DISTINCT %[1]s
FROM %[2]s
WHERE %[1]s IS NOT NULL AND %[1]s ILIKE $1
ORDER BY %[1]s ASC
LIMIT $2`, col, r.table)

	rows, err := r.db.QueryContext(ctx, query, escapeLike(prefix)+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RowRepository) query(ctx context.Context, query string, args ...any) ([]domain.RawRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RawRow
	for rows.Next() {
		var (
			ts                               sql.NullTime
			customer, supplier, destination  sql.NullString
			seconds, success, attempts, uniq sql.NullInt64
			answer, pdd                      sql.NullFloat64
		)
		if err := rows.Scan(&ts, &customer, &supplier, &destination,
			&seconds, &success, &attempts, &uniq, &answer, &pdd); err != nil {
			return nil, err
		}

		row := domain.RawRow{
			Customer:     customer.String,
			Supplier:     supplier.String,
			Destination:  destination.String,
			Seconds:      intPtr(seconds),
			Success:      intPtr(success),
			Attempts:     intPtr(attempts),
			UniqAttempts: intPtr(uniq),
			AnswerTime:   floatPtr(answer),
			PDD:          floatPtr(pdd),
		}
		if ts.Valid {
			row.Time = ts.Time.UTC()
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// where accumulates AND-ed conditions with positional placeholders.
type where struct {
	conds []string
	args  []any
}

func newWhere() *where { return &where{} }

// add appends a condition whose single %s is replaced by the next placeholder.
func (w *where) add(format string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(format, fmt.Sprintf("$%d", len(w.args))))
}

func (w *where) filter(f ports.RowFilter) {
	w.text("customer", f.Customer)
	w.text("supplier", f.Supplier)
	w.text("destination", f.Destination)

	switch {
	case !f.From.IsZero() && !f.To.IsZero():
		w.args = append(w.args, f.From, f.To)
		w.conds = append(w.conds, fmt.Sprintf("time BETWEEN $%d AND $%d", len(w.args)-1, len(w.args)))
	case !f.From.IsZero():
		w.add("time >= %s", f.From)
	case !f.To.IsZero():
		w.add("time <= %s", f.To)
	}
}

// text matches with ILIKE when the value carries a wildcard.
func (w *where) text(col, value string) {
	if value == "" {
		return
	}
	if strings.ContainsAny(value, "%_") {
		w.add(col+" ILIKE %s", value)
		return
	}
	w.add(col+" = %s", value)
}

func (w *where) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "\nWHERE " + strings.Join(w.conds, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
