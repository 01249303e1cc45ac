package qa

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/course-catalog/database"
	"github.com/jmoiron/sqlx"
)

func CreateQuestion(ctx context.Context, db sqlx.ExtContext, q Question) error {
	const stmt = `
	INSERT INTO questions
		(question_id, lesson_id, student_id, title, content, created_at)
	VALUES
		(:question_id, :lesson_id, :student_id, :title, :content, :created_at)`

	if err := database.NamedExecContext(ctx, db, stmt, q); err != nil {
		return fmt.Errorf("inserting question: %w", err)
	}
	return nil
}

func FetchQuestion(ctx context.Context, db sqlx.ExtContext, id string) (Question, error) {
	in := struct {
		ID string `db:"question_id"`
	}{id}

	const stmt = `
	SELECT question_id, lesson_id, student_id, title, content, created_at
	FROM questions
	WHERE question_id = :question_id`

	var q Question
	if err := database.NamedQueryStruct(ctx, db, stmt, in, &q); err != nil {
		return Question{}, fmt.Errorf("selecting question[%s]: %w", id, err)
	}
	return q, nil
}

// ListQuestions returns the questions of a lesson, newest first, each with
// its answers oldest first.
func ListQuestions(ctx context.Context, db sqlx.ExtContext, lessonID string) ([]Question, error) {
	const qs = `
	SELECT question_id, lesson_id, student_id, title, content, created_at
	FROM questions
	WHERE lesson_id = $1
	ORDER BY created_at DESC`

	questions := make([]Question, 0)
	if err := sqlx.SelectContext(ctx, db, &questions, qs, lessonID); err != nil {
		return nil, fmt.Errorf("selecting questions of lesson[%s]: %w", lessonID, err)
	}

	const as = `
	SELECT a.answer_id, a.question_id, a.user_id, a.content, a.is_instructor_answer, a.created_at
	FROM answers a
	JOIN questions q ON q.question_id = a.question_id
	WHERE q.lesson_id = $1
	ORDER BY a.created_at`

	var answers []Answer
	if err := sqlx.SelectContext(ctx, db, &answers, as, lessonID); err != nil {
		return nil, fmt.Errorf("selecting answers of lesson[%s]: %w", lessonID, err)
	}

	return thread(questions, answers), nil
}

func CreateAnswer(ctx context.Context, db sqlx.ExtContext, a Answer) error {
	const stmt = `
	INSERT INTO answers
		(answer_id, question_id, user_id, content, is_instructor_answer, created_at)
	VALUES
		(:answer_id, :question_id, :user_id, :content, :is_instructor_answer, :created_at)`

	if err := database.NamedExecContext(ctx, db, stmt, a); err != nil {
		return fmt.Errorf("inserting answer: %w", err)
	}
	return nil
}
