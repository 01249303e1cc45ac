// Package qa holds the questions students ask on lessons and the answers to
// them.
package qa

import "time"

type Question struct {
	ID        string    `json:"id" db:"question_id"`
	LessonID  string    `json:"lesson_id" db:"lesson_id"`
	StudentID string    `json:"student_id" db:"student_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Answers   []Answer  `json:"answers" db:"-"`
}

type QuestionNew struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

type Answer struct {
	ID                 string    `json:"id" db:"answer_id"`
	QuestionID         string    `json:"question_id" db:"question_id"`
	UserID             string    `json:"user_id" db:"user_id"`
	Content            string    `json:"content" db:"content"`
	IsInstructorAnswer bool      `json:"is_instructor_answer" db:"is_instructor_answer"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

type AnswerNew struct {
	Content string `json:"content" validate:"required"`
}

// thread attaches each answer to its question, keeping the answer order.
func thread(qs []Question, as []Answer) []Question {
	idx := make(map[string]int, len(qs))
	for i := range qs {
		idx[qs[i].ID] = i
		qs[i].Answers = make([]Answer, 0)
	}
	for _, a := range as {
		if i, ok := idx[a.QuestionID]; ok {
			qs[i].Answers = append(qs[i].Answers, a)
		}
	}
	return qs
}
