package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lending_service/internal/models"

	"github.com/google/uuid"
)

type ItemSQLite struct {
	db *sql.DB
}

func NewItemSQLite(db *sql.DB) *ItemSQLite {
	return &ItemSQLite{db: db}
}

var _ ItemRepo = (*ItemSQLite)(nil)

const (
	itemColumns = `id, borrowed, borrower_id, loan_date, return_date, fields`

	insertItemSQL = `INSERT INTO items (id, borrowed, borrower_id, loan_date, return_date, fields) VALUES (?, ?, ?, ?, ?, ?)`

	selectItemsSQL    = `SELECT ` + itemColumns + ` FROM items ORDER BY rowid`
	selectItemByIDSQL = `SELECT ` + itemColumns + ` FROM items WHERE id = ?`

	selectItemFieldsSQL = `SELECT fields FROM items WHERE id = ?`
	updateItemFieldsSQL = `UPDATE items SET fields = ? WHERE id = ?`

	deleteItemSQL     = `DELETE FROM items WHERE id = ?`
	deleteAllItemsSQL = `DELETE FROM items`

	markBorrowedSQL = `
		UPDATE items SET borrowed = 1, borrower_id = ?, loan_date = ?, return_date = NULL
		WHERE id = ? AND borrowed = 0
		RETURNING ` + itemColumns

	markReturnedSQL = `
		UPDATE items SET borrowed = 0, borrower_id = NULL, return_date = ?
		WHERE id = ? AND borrowed = 1
		RETURNING ` + itemColumns
)

type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem reads one item row in itemColumns order.
func scanItem(s rowScanner) (models.Item, error) {
	var (
		it         models.Item
		borrowerID sql.NullString
		loanDate   sql.NullString
		returnDate sql.NullString
		fieldsJSON string
	)
	if err := s.Scan(&it.ID, &it.Borrowed, &borrowerID, &loanDate, &returnDate, &fieldsJSON); err != nil {
		return models.Item{}, err
	}

	var err error
	it.BorrowerID = nullString(borrowerID)
	if it.LoanDate, err = parseNullTimestamp(loanDate); err != nil {
		return models.Item{}, err
	}
	if it.ReturnDate, err = parseNullTimestamp(returnDate); err != nil {
		return models.Item{}, err
	}
	if it.Fields, err = unmarshalFields(fieldsJSON); err != nil {
		return models.Item{}, fmt.Errorf("item %q fields: %w", it.ID, err)
	}
	return it, nil
}

func timestampArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTimestamp(*t)
}

// Insert stores a new item and assigns its generated ID.
func (r *ItemSQLite) Insert(ctx context.Context, it *models.Item) error {
	fieldsJSON, err := marshalFields(it.Fields)
	if err != nil {
		return fmt.Errorf("marshal item fields: %w", err)
	}
	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx, insertItemSQL,
		id,
		it.Borrowed,
		nullableArg(it.BorrowerID),
		timestampArg(it.LoanDate),
		timestampArg(it.ReturnDate),
		fieldsJSON,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	it.ID = id
	return nil
}

func (r *ItemSQLite) List(ctx context.Context) ([]models.Item, error) {
	rows, err := r.db.QueryContext(ctx, selectItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	defer rows.Close()

	out := make([]models.Item, 0, 16)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ItemSQLite) Get(ctx context.Context, id string) (models.Item, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, selectItemByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Item{}, ErrNotFound
		}
		return models.Item{}, fmt.Errorf("select item %q: %w", id, err)
	}
	return it, nil
}

// UpdateFields replaces the given top-level extension fields whole; nested objects are
// not merged. Read and write share one transaction on the single pooled connection.
func (r *ItemSQLite) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin item update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	if err := tx.QueryRowContext(ctx, selectItemFieldsSQL, id).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("load item %q: %w", id, err)
	}
	current, err := unmarshalFields(raw)
	if err != nil {
		return fmt.Errorf("decode item %q fields: %w", id, err)
	}
	for k, v := range fields {
		current[k] = v
	}
	encoded, err := marshalFields(current)
	if err != nil {
		return fmt.Errorf("marshal item fields: %w", err)
	}
	if _, err := tx.ExecContext(ctx, updateItemFieldsSQL, encoded, id); err != nil {
		return fmt.Errorf("update item %q: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit item update: %w", err)
	}
	return nil
}

func (r *ItemSQLite) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteItemSQL, id)
	if err != nil {
		return fmt.Errorf("delete item %q: %w", id, err)
	}
	return requireOneRow(res, id)
}

func (r *ItemSQLite) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteAllItemsSQL)
	if err != nil {
		return 0, fmt.Errorf("delete all items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected for delete all items: %w", err)
	}
	return n, nil
}

func (r *ItemSQLite) MarkBorrowed(ctx context.Context, id, borrowerID string, at time.Time) (models.Item, error) {
	row := r.db.QueryRowContext(ctx, markBorrowedSQL, borrowerID, formatTimestamp(at), id)
	return r.transitioned(row, id)
}

func (r *ItemSQLite) MarkReturned(ctx context.Context, id string, at time.Time) (models.Item, error) {
	row := r.db.QueryRowContext(ctx, markReturnedSQL, formatTimestamp(at), id)
	return r.transitioned(row, id)
}

// transitioned scans the RETURNING row of a conditional update; no row means the guard did not match.
func (r *ItemSQLite) transitioned(row *sql.Row, id string) (models.Item, error) {
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Item{}, ErrNotFound
		}
		return models.Item{}, fmt.Errorf("update item %q state: %w", id, err)
	}
	return it, nil
}

func requireOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for item %q: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
