package qa

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestThread(t *testing.T) {
	qs := []Question{{ID: "q1"}, {ID: "q2"}}
	as := []Answer{
		{ID: "a1", QuestionID: "q2"},
		{ID: "a2", QuestionID: "q1", IsInstructorAnswer: true},
		{ID: "a3", QuestionID: "q2"},
		{ID: "a4", QuestionID: "gone"},
	}

	got := thread(qs, as)

	exp := []Question{
		{ID: "q1", Answers: []Answer{{ID: "a2", QuestionID: "q1", IsInstructorAnswer: true}}},
		{ID: "q2", Answers: []Answer{{ID: "a1", QuestionID: "q2"}, {ID: "a3", QuestionID: "q2"}}},
	}
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Fatalf("unexpected threads (-want +got):\n%s", diff)
	}
}

func TestThreadWithoutAnswers(t *testing.T) {
	got := thread([]Question{{ID: "q1"}}, nil)

	if got[0].Answers == nil || len(got[0].Answers) != 0 {
		t.Fatalf("expected an empty, non-nil answer list, got %#v", got[0].Answers)
	}
}
