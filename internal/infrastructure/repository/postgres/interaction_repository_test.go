package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/department-assistant/internal/core/domain"
)

func TestRecordInteractionStoresChunkIDsAsJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()
	repo := NewInteractionRepository(db)

	mock.ExpectExec("INSERT INTO interactions").
		WithArgs("i-1", "req-1", "alice", "HR", "leave policy", []byte("[0,1]"), "ok", "", 12.5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.RecordInteraction(context.Background(), domain.Interaction{
		ID:         "i-1",
		RequestID:  "req-1",
		User:       "alice",
		Department: "HR",
		Query:      "leave policy",
		ChunkIDs:   []int{0, 1},
		Status:     "ok",
		DurationMS: 12.5,
	})
	if err != nil {
		t.Fatalf("RecordInteraction() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRecordInteractionNilChunkIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO interactions").
		WithArgs("i-2", "req-2", "", "IT", "q", []byte("[]"), "invalid_department", "boom", 0.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewInteractionRepository(db).RecordInteraction(context.Background(), domain.Interaction{
		ID: "i-2", RequestID: "req-2", Department: "IT", Query: "q", Status: "invalid_department", Error: "boom",
	})
	if err != nil {
		t.Fatalf("RecordInteraction() error = %v", err)
	}
}

func TestRecentInteractions(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "request_id", "user_name", "department", "query", "chunk_ids", "status", "error_message", "duration_ms",
	}).AddRow("i-1", "req-1", "bob", "HR", "leave", []byte("[2,5]"), "ok", "", 3.0)
	mock.ExpectQuery("SELECT id, request_id").WithArgs("HR", 50).WillReturnRows(rows)

	got, err := NewInteractionRepository(db).RecentInteractions(context.Background(), "HR", 0)
	if err != nil {
		t.Fatalf("RecentInteractions() error = %v", err)
	}
	if len(got) != 1 || len(got[0].ChunkIDs) != 2 || got[0].ChunkIDs[1] != 5 {
		t.Fatalf("unexpected interactions %+v", got)
	}
}
