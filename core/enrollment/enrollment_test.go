package enrollment

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/course-catalog/database"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 8, 0},
		{1, 3, 33},
		{2, 3, 66},
		{7, 8, 87},
		{8, 8, 100},
		{9, 8, 100},
	}

	for _, tt := range tests {
		if got := Percentage(tt.completed, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestAdvance(t *testing.T) {
	now := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	e := Enrollment{ID: "e1", Status: StatusActive}
	if Advance(&e, 50, now) {
		t.Fatal("half way is not a completion")
	}
	if e.Status != StatusActive || e.CompletedAt != nil || e.ProgressPercentage != 50 {
		t.Fatalf("unexpected enrollment %+v", e)
	}

	if !Advance(&e, 100, now) {
		t.Fatal("expected the enrollment to complete")
	}
	if e.Status != StatusCompleted || e.CompletedAt == nil || !e.CompletedAt.Equal(now) {
		t.Fatalf("unexpected enrollment %+v", e)
	}

	later := now.Add(time.Hour)
	if Advance(&e, 100, later) {
		t.Fatal("an enrollment completes once")
	}
	if !e.CompletedAt.Equal(now) {
		t.Fatal("completion time must not move")
	}

	if Advance(&e, 50, later) {
		t.Fatal("an enrollment completes once")
	}
	if e.Status != StatusCompleted || e.ProgressPercentage != 100 || !e.CompletedAt.Equal(now) {
		t.Fatalf("a completed enrollment keeps its progress, got %+v", e)
	}
}

func TestCertificateURL(t *testing.T) {
	got := []string{
		CertificateURL("https://certs.example.com", "CERT-AAAA-BBBB-CCCC"),
		CertificateURL("https://certs.example.com//", "CERT-AAAA-BBBB-CCCC"),
	}
	exp := []string{
		"https://certs.example.com/CERT-AAAA-BBBB-CCCC",
		"https://certs.example.com/CERT-AAAA-BBBB-CCCC",
	}
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Fatalf("unexpected urls (-want +got):\n%s", diff)
	}
}

func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "postgres"), mock
}

var certificateColumns = []string{"certificate_id", "enrollment_id", "certificate_number", "issued_at", "certificate_url"}

func TestIssue(t *testing.T) {
	now := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	e := Enrollment{ID: "enr-1"}
	clash := &pq.Error{Code: "23505", Constraint: "certificates_number_key"}

	tests := []struct {
		name      string
		setupMock func(sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "first number is free",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO certificates`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(regexp.QuoteMeta(`FROM certificates`)).
					WithArgs(e.ID).
					WillReturnRows(sqlmock.NewRows(certificateColumns).
						AddRow("c1", e.ID, "CERT-AAAA-BBBB-CCCC", now, "https://certs.example.com/CERT-AAAA-BBBB-CCCC"))
			},
		},
		{
			name: "number clash is retried",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO certificates`).WillReturnError(clash)
				mock.ExpectExec(`INSERT INTO certificates`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(regexp.QuoteMeta(`FROM certificates`)).
					WithArgs(e.ID).
					WillReturnRows(sqlmock.NewRows(certificateColumns).
						AddRow("c1", e.ID, "CERT-AAAA-BBBB-CCCC", now, "https://certs.example.com/CERT-AAAA-BBBB-CCCC"))
			},
		},
		{
			name: "clashes exhaust the attempts",
			setupMock: func(mock sqlmock.Sqlmock) {
				for i := 0; i < certificateAttempts; i++ {
					mock.ExpectExec(`INSERT INTO certificates`).WillReturnError(clash)
				}
			},
			wantErr: database.ErrDBDuplicatedEntry,
		},
		{
			name: "other errors are not retried",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO certificates`).WillReturnError(errors.New("connection reset"))
			},
			wantErr: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupTestDB(t)
			tt.setupMock(mock)

			cert, err := Issue(context.Background(), db, e, "https://certs.example.com", now)
			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
				assert.Equal(t, "CERT-AAAA-BBBB-CCCC", cert.Number)
				assert.Equal(t, e.ID, cert.EnrollmentID)
			case errors.Is(tt.wantErr, database.ErrDBDuplicatedEntry):
				assert.ErrorIs(t, err, database.ErrDBDuplicatedEntry)
			default:
				assert.ErrorContains(t, err, tt.wantErr.Error())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCountCompleted(t *testing.T) {
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`FROM lesson_progress WHERE enrollment_id = \$1 AND is_completed`).
		WithArgs("enr-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := CountCompleted(context.Background(), db, "enr-1")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
