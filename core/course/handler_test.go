package course

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/course-catalog/api/weberr"
	"github.com/irsalhamdi/course-catalog/database"
	"github.com/irsalhamdi/course-catalog/slug"
	"github.com/irsalhamdi/course-catalog/validate"
)

func TestToWebError(t *testing.T) {
	fe := validate.FieldErrors{"price": "price must be greater than 0"}

	tests := []struct {
		name   string
		err    error
		status int
		fields map[string]string
	}{
		{"validation", fmt.Errorf("create: %w", fe), http.StatusBadRequest, fe},
		{"missing", fmt.Errorf("retrieve: %w", ErrNotFound), http.StatusNotFound, nil},
		{"not the owner", ErrForbidden, http.StatusForbidden, nil},
		{"duplicate row", fmt.Errorf("%w: courses_slug_key", database.ErrDBDuplicatedEntry), http.StatusConflict, nil},
		{"slug retries used up", slug.ErrExhausted, http.StatusConflict, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := toWebError(tt.err, courseField("c1"))

			body, status, ok := weberr.Response(err)
			if !ok {
				t.Fatalf("expected a response for %v", tt.err)
			}
			if status != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, status)
			}

			resp, ok := body.(*weberr.ErrorResponse)
			if !ok {
				t.Fatalf("unexpected body %T", body)
			}
			if diff := cmp.Diff(tt.fields, resp.Fields); diff != "" {
				t.Fatalf("unexpected field errors (-want +got):\n%s", diff)
			}

			fields, _ := weberr.Fields(err)
			if fields["course_id"] != "c1" {
				t.Fatalf("expected the course id to be logged, got %v", fields)
			}
			if tt.fields != nil {
				if _, ok := validate.AsFieldErrors(err); !ok {
					t.Fatal("expected the field errors to stay reachable")
				}
			} else if !errors.Is(err, tt.err) {
				t.Fatal("expected the cause to stay reachable")
			}
		})
	}

	unknown := errors.New("connection reset")
	if _, _, ok := weberr.Response(toWebError(unknown)); ok {
		t.Fatal("unexpected errors are left for the 500 path")
	}
}
