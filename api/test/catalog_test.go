package test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/irsalhamdi/course-catalog/api/weberr"
	"github.com/irsalhamdi/course-catalog/core/category"
	"github.com/irsalhamdi/course-catalog/core/course"
	"github.com/irsalhamdi/course-catalog/core/enrollment"
	"github.com/irsalhamdi/course-catalog/core/instructor"
	"github.com/irsalhamdi/course-catalog/core/section"
)

func TestCatalog(t *testing.T) {
	env := NewTestEnv(t, "catalog_test")

	admin := env.login(t, adminEmail, adminPass)
	tutor := env.signup(t, "Grace Hopper", "grace@example.com")
	student := env.signup(t, "Alan Turing", "alan@example.com")
	anon := env.Client(t)

	// Catalog set up: a verified instructor and an active category.
	var ins instructor.Instructor
	env.do(t, tutor, http.MethodPost, "/instructors", map[string]string{
		"bio":           "Compiler writer",
		"profile_image": "https://images.example.com/grace.png",
		"expertise":     "Compilers",
	}, http.StatusCreated, &ins)

	var cat category.Category
	env.do(t, admin, http.MethodPost, "/categories", map[string]string{
		"name":        "Programming",
		"description": "Writing software",
		"icon":        "code",
	}, http.StatusCreated, &cat)
	if cat.Slug != "programming" {
		t.Fatalf("unexpected category slug %q", cat.Slug)
	}

	payload := map[string]any{
		"title":               "Introduction to Systems Programming",
		"description":         strings.Repeat("Processes, memory and files explained. ", 3),
		"instructor_id":       ins.ID,
		"category_id":         cat.ID,
		"thumbnail":           "https://cdn.example.com/thumbs/systems.png",
		"price":               "49.99",
		"discount_percentage": 20,
		"level":               "beginner",
		"duration_hours":      "12.5",
		"requirements":        "A C compiler",
		"what_you_learn":      "How programs run",
		"language":            "English",
		"status":              "published",
	}

	var fe weberr.ErrorResponse
	env.do(t, tutor, http.MethodPost, "/courses", payload, http.StatusBadRequest, &fe)
	if _, ok := fe.Fields["instructor_id"]; !ok {
		t.Fatalf("expected an unverified instructor to be rejected, got %+v", fe)
	}

	env.do(t, admin, http.MethodPut, "/instructors/"+ins.ID+"/verify", map[string]bool{"is_verified": true}, http.StatusOK, nil)

	// Create.
	var c1, c2 course.ListView
	env.do(t, tutor, http.MethodPost, "/courses", payload, http.StatusCreated, &c1)
	env.do(t, tutor, http.MethodPost, "/courses", payload, http.StatusCreated, &c2)

	if c1.Status != course.StatusDraft || c2.Status != course.StatusDraft {
		t.Fatalf("new courses must be drafts, got %s and %s", c1.Status, c2.Status)
	}
	if c1.Slug != "introduction-to-systems-programming" || c1.Slug == c2.Slug {
		t.Fatalf("unexpected slugs %q and %q", c1.Slug, c2.Slug)
	}
	if c1.FinalPrice != "39.99" || c1.Price != "49.99" {
		t.Fatalf("unexpected prices %s / %s", c1.Price, c1.FinalPrice)
	}

	bad := map[string]any{"title": "short", "price": "0", "language": " "}
	env.do(t, tutor, http.MethodPost, "/courses", bad, http.StatusBadRequest, &fe)
	for _, f := range []string{"title", "price", "language", "description"} {
		if _, ok := fe.Fields[f]; !ok {
			t.Errorf("expected a field error on %s, got %v", f, fe.Fields)
		}
	}

	// List and retrieve.
	var list []course.ListView
	env.do(t, anon, http.MethodGet, "/courses", nil, http.StatusOK, &list)
	if len(list) != 2 || list[0].ID != c2.ID {
		t.Fatalf("expected both courses newest first, got %d", len(list))
	}

	// Update.
	env.do(t, student, http.MethodPatch, "/courses/"+c1.ID, map[string]any{"discount_percentage": 50}, http.StatusForbidden, nil)
	env.do(t, anon, http.MethodPatch, "/courses/"+c1.ID, map[string]any{"discount_percentage": 50}, http.StatusUnauthorized, nil)

	var up course.ListView
	env.do(t, tutor, http.MethodPatch, "/courses/"+c1.ID, map[string]any{"discount_percentage": 50}, http.StatusOK, &up)
	if up.Price != "49.99" || up.FinalPrice != "25.00" {
		t.Fatalf("unexpected prices after partial update %s / %s", up.Price, up.FinalPrice)
	}
	env.do(t, tutor, http.MethodPut, "/courses/"+c1.ID, map[string]any{"discount_percentage": 10}, http.StatusBadRequest, nil)

	// Curriculum.
	env.do(t, tutor, http.MethodPut, "/courses/"+c1.ID+"/status", map[string]string{"status": "published"}, http.StatusOK, nil)

	var sec section.Section
	env.do(t, tutor, http.MethodPost, "/courses/"+c1.ID+"/sections", map[string]any{"title": "Basics", "order": 1}, http.StatusCreated, &sec)
	env.do(t, student, http.MethodPost, "/courses/"+c1.ID+"/sections", map[string]any{"title": "Hijack"}, http.StatusForbidden, nil)

	var preview, full section.Lesson
	env.do(t, tutor, http.MethodPost, "/sections/"+sec.ID+"/lessons", map[string]any{
		"title": "Welcome", "content": "Hello", "video_url": "https://videos.example.com/1.mp4",
		"duration_minutes": 5, "order": 1, "is_preview": true,
	}, http.StatusCreated, &preview)
	env.do(t, tutor, http.MethodPost, "/sections/"+sec.ID+"/lessons", map[string]any{
		"title": "Processes", "content": "fork and exec", "video_url": "https://videos.example.com/2.mp4",
		"duration_minutes": 25, "order": 2,
	}, http.StatusCreated, &full)

	env.do(t, anon, http.MethodGet, "/lessons/"+preview.ID+"/preview", nil, http.StatusOK, nil)
	env.do(t, anon, http.MethodGet, "/lessons/"+full.ID+"/preview", nil, http.StatusNotFound, nil)
	env.do(t, student, http.MethodGet, "/lessons/"+full.ID, nil, http.StatusForbidden, nil)

	// Enrollment, progress and certificate.
	env.do(t, student, http.MethodPost, "/courses/"+c2.ID+"/enrollments", nil, http.StatusBadRequest, nil)

	var enr enrollment.Enrollment
	env.do(t, student, http.MethodPost, "/courses/"+c1.ID+"/enrollments", nil, http.StatusCreated, &enr)
	env.do(t, student, http.MethodPost, "/courses/"+c1.ID+"/enrollments", nil, http.StatusConflict, nil)
	env.do(t, student, http.MethodGet, "/lessons/"+full.ID, nil, http.StatusOK, nil)

	var detail course.DetailView
	env.do(t, student, http.MethodGet, "/courses/"+c1.ID, nil, http.StatusOK, &detail)
	if !detail.IsEnrolled || detail.StudentsCount != 1 || detail.TotalLessons != 2 || detail.TotalDuration != 30 {
		t.Fatalf("unexpected detail %+v", detail.ListView)
	}
	if detail.Instructor.TotalStudents != 1 {
		t.Fatalf("expected the instructor to count 1 student, got %d", detail.Instructor.TotalStudents)
	}

	var pv enrollment.ProgressView
	env.do(t, student, http.MethodPut, "/lessons/"+preview.ID+"/progress", map[string]any{"is_completed": true, "watch_time_minutes": 5}, http.StatusOK, &pv)
	if pv.Enrollment.ProgressPercentage != 50 || pv.Certificate != nil {
		t.Fatalf("unexpected progress %+v", pv)
	}
	env.do(t, student, http.MethodPut, "/lessons/"+full.ID+"/progress", map[string]any{"is_completed": true, "watch_time_minutes": 25}, http.StatusOK, &pv)
	if pv.Enrollment.Status != enrollment.StatusCompleted || pv.Certificate == nil {
		t.Fatalf("expected a completed enrollment with a certificate, got %+v", pv)
	}

	var cert enrollment.Certificate
	env.do(t, student, http.MethodGet, "/enrollments/"+enr.ID+"/certificate", nil, http.StatusOK, &cert)
	if !strings.HasPrefix(cert.Number, "CERT-") || cert.URL != "https://certs.example.com/"+cert.Number {
		t.Fatalf("unexpected certificate %+v", cert)
	}
	env.do(t, tutor, http.MethodGet, "/enrollments/"+enr.ID+"/certificate", nil, http.StatusForbidden, nil)

	// Reviews.
	env.do(t, tutor, http.MethodPost, "/courses/"+c1.ID+"/reviews", map[string]any{"rating": 5, "title": "Mine", "comment": "Great"}, http.StatusForbidden, nil)
	env.do(t, student, http.MethodPost, "/courses/"+c1.ID+"/reviews", map[string]any{"rating": 4, "title": "Solid", "comment": "Good pacing"}, http.StatusCreated, nil)
	env.do(t, student, http.MethodPost, "/courses/"+c1.ID+"/reviews", map[string]any{"rating": 5, "title": "Again", "comment": "Twice"}, http.StatusConflict, nil)

	env.do(t, anon, http.MethodGet, "/courses/"+c1.ID, nil, http.StatusOK, &detail)
	if detail.AverageRating != 4 || detail.ReviewsCount != 1 || detail.IsEnrolled {
		t.Fatalf("unexpected rating %v over %d reviews", detail.AverageRating, detail.ReviewsCount)
	}
	if detail.Instructor.Rating != "4.00" {
		t.Fatalf("expected instructor rating 4.00, got %s", detail.Instructor.Rating)
	}

	// Archive and delete.
	env.do(t, tutor, http.MethodPut, "/courses/"+c1.ID+"/status", map[string]string{"status": "archived"}, http.StatusOK, nil)
	env.do(t, anon, http.MethodGet, "/courses/"+c1.ID, nil, http.StatusNotFound, nil)
	env.do(t, tutor, http.MethodPut, "/courses/"+c1.ID+"/status", map[string]string{"status": "draft"}, http.StatusBadRequest, nil)

	env.do(t, student, http.MethodDelete, "/courses/"+c2.ID, nil, http.StatusForbidden, nil)
	env.do(t, admin, http.MethodDelete, "/courses/"+c2.ID, nil, http.StatusNoContent, nil)
	env.do(t, anon, http.MethodGet, "/courses/"+c2.ID, nil, http.StatusNotFound, nil)
}
