package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"lending_service/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var itemCols = []string{"id", "borrowed", "borrower_id", "loan_date", "return_date", "fields"}

func newMockItemRepo(t *testing.T) (*ItemSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewItemSQLite(db), mock
}

func TestItemSQLite_Insert_StoresFieldsAsJSON(t *testing.T) {
	repo, mock := newMockItemRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO items")).
		WithArgs(sqlmock.AnyArg(), false, nil, nil, nil, `{"title":"Dune"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	it := models.Item{Fields: map[string]any{"title": "Dune"}}
	if err := repo.Insert(context.Background(), &it); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if it.ID == "" {
		t.Fatalf("expected generated id")
	}
}

func TestItemSQLite_Insert_EmptyFieldsBecomeEmptyObject(t *testing.T) {
	repo, mock := newMockItemRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO items")).
		WithArgs(sqlmock.AnyArg(), false, nil, nil, nil, "{}").
		WillReturnResult(sqlmock.NewResult(0, 1))

	it := models.Item{}
	if err := repo.Insert(context.Background(), &it); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
}

func TestItemSQLite_Get_ParsesTimestampsAndFields(t *testing.T) {
	repo, mock := newMockItemRepo(t)

	loaned := time.Date(2024, 2, 1, 8, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(selectItemByIDSQL)).
		WithArgs("i1").
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow("i1", true, "u1", formatTimestamp(loaned), nil, `{"title":"Dune","pages":412}`))

	got, err := repo.Get(context.Background(), "i1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.Borrowed || got.BorrowerID == nil || *got.BorrowerID != "u1" {
		t.Fatalf("unexpected borrow state: %+v", got)
	}
	if got.LoanDate == nil || !got.LoanDate.Equal(loaned) {
		t.Fatalf("loanDate mismatch: %v", got.LoanDate)
	}
	if got.ReturnDate != nil {
		t.Fatalf("expected nil returnDate, got %v", got.ReturnDate)
	}
	if got.Fields["title"] != "Dune" || got.Fields["pages"] != float64(412) {
		t.Fatalf("fields mismatch: %v", got.Fields)
	}
}

func TestItemSQLite_Get_NoRows(t *testing.T) {
	repo, mock := newMockItemRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectItemByIDSQL)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestItemSQLite_Get_InvalidFieldsJSON_ReturnsError(t *testing.T) {
	repo, mock := newMockItemRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectItemByIDSQL)).
		WithArgs("i1").
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow("i1", false, nil, nil, nil, "{not-json"))

	if _, err := repo.Get(context.Background(), "i1"); err == nil {
		t.Fatalf("expected error for malformed fields")
	}
}

func TestItemSQLite_MarkBorrowed(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("available item is lent", func(t *testing.T) {
		repo, mock := newMockItemRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(markBorrowedSQL)).
			WithArgs("u1", formatTimestamp(at), "i1").
			WillReturnRows(sqlmock.NewRows(itemCols).
				AddRow("i1", true, "u1", formatTimestamp(at), nil, "{}"))

		got, err := repo.MarkBorrowed(context.Background(), "i1", "u1", at)
		if err != nil {
			t.Fatalf("MarkBorrowed() error = %v", err)
		}
		if !got.Borrowed || *got.BorrowerID != "u1" || !got.LoanDate.Equal(at) || got.ReturnDate != nil {
			t.Fatalf("unexpected item: %+v", got)
		}
	})

	t.Run("guard did not match", func(t *testing.T) {
		repo, mock := newMockItemRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(markBorrowedSQL)).
			WithArgs("u1", formatTimestamp(at), "i1").
			WillReturnRows(sqlmock.NewRows(itemCols))

		if _, err := repo.MarkBorrowed(context.Background(), "i1", "u1", at); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestItemSQLite_MarkReturned(t *testing.T) {
	loaned := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	at := loaned.Add(48 * time.Hour)

	repo, mock := newMockItemRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(markReturnedSQL)).
		WithArgs(formatTimestamp(at), "i1").
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow("i1", false, nil, formatTimestamp(loaned), formatTimestamp(at), "{}"))

	got, err := repo.MarkReturned(context.Background(), "i1", at)
	if err != nil {
		t.Fatalf("MarkReturned() error = %v", err)
	}
	if got.Borrowed || got.BorrowerID != nil {
		t.Fatalf("expected available item, got %+v", got)
	}
	if got.ReturnDate == nil || !got.ReturnDate.Equal(at) {
		t.Fatalf("returnDate mismatch: %v", got.ReturnDate)
	}
}

func TestItemSQLite_UpdateFields(t *testing.T) {
	t.Run("top-level keys replaced whole", func(t *testing.T) {
		repo, mock := newMockItemRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectItemFieldsSQL)).
			WithArgs("i1").
			WillReturnRows(sqlmock.NewRows([]string{"fields"}).AddRow(`{"title":"Dune","specs":{"size":1}}`))
		mock.ExpectExec(regexp.QuoteMeta(updateItemFieldsSQL)).
			WithArgs(`{"specs":{"color":"red"},"title":"Dune Messiah"}`, "i1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.UpdateFields(context.Background(), "i1", map[string]any{
			"title": "Dune Messiah",
			"specs": map[string]any{"color": "red"},
		})
		if err != nil {
			t.Fatalf("UpdateFields() error = %v", err)
		}
	})

	t.Run("no match", func(t *testing.T) {
		repo, mock := newMockItemRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectItemFieldsSQL)).
			WithArgs("i1").
			WillReturnRows(sqlmock.NewRows([]string{"fields"}))
		mock.ExpectRollback()

		if err := repo.UpdateFields(context.Background(), "i1", nil); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("write failure rolls back", func(t *testing.T) {
		repo, mock := newMockItemRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectItemFieldsSQL)).
			WithArgs("i1").
			WillReturnRows(sqlmock.NewRows([]string{"fields"}).AddRow(`{}`))
		mock.ExpectExec(regexp.QuoteMeta(updateItemFieldsSQL)).
			WithArgs(`{"x":1}`, "i1").
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		if err := repo.UpdateFields(context.Background(), "i1", map[string]any{"x": 1}); !errors.Is(err, sql.ErrConnDone) {
			t.Fatalf("expected wrapped ErrConnDone, got %v", err)
		}
	})
}

func TestItemSQLite_Delete(t *testing.T) {
	repo, mock := newMockItemRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(deleteItemSQL)).
		WithArgs("i1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteItemSQL)).
		WithArgs("i1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "i1"); err != nil {
		t.Fatalf("first Delete() error = %v", err)
	}
	if err := repo.Delete(context.Background(), "i1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete() expected ErrNotFound, got %v", err)
	}
}

func TestItemSQLite_DeleteAll(t *testing.T) {
	t.Run("reports count", func(t *testing.T) {
		repo, mock := newMockItemRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(deleteAllItemsSQL)).
			WillReturnResult(sqlmock.NewResult(0, 3))

		n, err := repo.DeleteAll(context.Background())
		if err != nil || n != 3 {
			t.Fatalf("DeleteAll() = %d, %v; want 3, nil", n, err)
		}
	})

	t.Run("exec error", func(t *testing.T) {
		repo, mock := newMockItemRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(deleteAllItemsSQL)).
			WillReturnError(errors.New("locked"))

		if _, err := repo.DeleteAll(context.Background()); err == nil {
			t.Fatalf("expected error")
		}
	})
}
