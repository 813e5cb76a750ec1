package audit

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"alive.africa/internal/auth"
)

func TestCreateLogEnrichesContext(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	svc := NewService(NewPGStore(db))

	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-123")
	ctx = auth.ContextWithUser(ctx, "user-42", []string{"admin"})

	mock.ExpectExec("insert into system_logs").
		WithArgs(sqlmock.AnyArg(), "Login Failed", "bad password", SeverityWarning,
			"user-42", "req-123", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	svc.CreateLog(ctx, "Login Failed", "bad password", SeverityWarning, "")

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateLogSwallowsStoreFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	svc := NewService(NewPGStore(db))
	mock.ExpectExec("insert into system_logs").WillReturnError(context.DeadlineExceeded)

	// Must not panic or propagate.
	svc.CreateLog(context.Background(), "Anything", "detail", SeverityError, "actor-1")
}

func TestCreateLogNormalizesSeverity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	svc := NewService(NewPGStore(db))
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	mock.ExpectExec("insert into system_logs").
		WithArgs(sqlmock.AnyArg(), "Note", "detail", SeverityInfo, nil, nil,
			time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	svc.CreateLog(context.Background(), "Note", "detail", "shouting", "")

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListClampsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	svc := NewService(NewPGStore(db))

	mock.ExpectQuery("select (.+) from system_logs").
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "message", "severity", "actor_id", "request_id", "occurred_at"}).
			AddRow("l1", "Login Failed", "bad password", SeverityWarning, "user-42", "req-1", time.Now()))

	entries, err := svc.List(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Login Failed" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
