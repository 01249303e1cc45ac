package course

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/irsalhamdi/course-catalog/database"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "postgres"), mock
}

func TestSlugExists(t *testing.T) {
	tests := []struct {
		name      string
		excludeID string
		exists    bool
	}{
		{"taken by another course", "", true},
		{"free", "", false},
		{"taken by the course itself", "c1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupTestDB(t)

			mock.ExpectQuery(`SELECT EXISTS`).
				WithArgs("intro", tt.excludeID).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.exists))

			got, err := SlugExists(context.Background(), db, "intro", tt.excludeID)
			require.NoError(t, err)
			assert.Equal(t, tt.exists, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFetchNotFound(t *testing.T) {
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`FROM courses c WHERE c.course_id = \$1`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"course_id"}))

	_, err := Fetch(context.Background(), db, "c1")
	assert.ErrorIs(t, err, database.ErrDBNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissing(t *testing.T) {
	db, mock := setupTestDB(t)

	mock.ExpectExec(`DELETE FROM courses`).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := Delete(context.Background(), db, "c1")
	assert.ErrorIs(t, err, database.ErrDBNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupLessons(t *testing.T) {
	sections := []SectionView{{ID: "s1"}, {ID: "s2"}}
	lessons := []LessonView{
		{ID: "l1", SectionID: "s2"},
		{ID: "l2", SectionID: "s1"},
		{ID: "l3", SectionID: "s2"},
	}

	got := groupLessons(sections, lessons)

	assert.Equal(t, []LessonView{{ID: "l2", SectionID: "s1"}}, got[0].Lessons)
	assert.Equal(t, []LessonView{{ID: "l1", SectionID: "s2"}, {ID: "l3", SectionID: "s2"}}, got[1].Lessons)
}
