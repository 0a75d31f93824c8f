package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/umputun/hiretrack/app/hiring"
)

// formSetter updates a form field by name, unknown fields are rejected
type formSetter interface {
	Set(field, value string) error
}

// JobForm is the state of job create and edit forms
type JobForm struct {
	ID          int // zero for new job
	Title       string
	Description string
	Candidates  int
}

// Set updates field by its form name
func (f *JobForm) Set(field, value string) error {
	switch field {
	case "title":
		f.Title = value
	case "description":
		f.Description = value
	case "candidates":
		if strings.TrimSpace(value) == "" {
			return nil // keep default
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("candidates must be a number: %w", err)
		}
		f.Candidates = n
	default:
		return fmt.Errorf("unknown job form field %q", field)
	}
	return nil
}

// Request makes job creation request from the form
func (f JobForm) Request() hiring.JobRequest {
	return hiring.JobRequest{Title: f.Title, Description: f.Description, Candidates: f.Candidates}
}

// Editing reports if the form updates an existing job
func (f JobForm) Editing() bool { return f.ID != 0 }

// QuestionForm is the state of assessment question form
type QuestionForm struct {
	Index         *int // nil for a new question
	Question      string
	Options       [4]string
	CorrectAnswer string
}

// Set updates field by its form name. Options are "option1" to "option4".
func (f *QuestionForm) Set(field, value string) error {
	switch field {
	case "question":
		f.Question = value
	case "correctAnswer":
		f.CorrectAnswer = value
	case "index":
		if strings.TrimSpace(value) == "" {
			f.Index = nil
			return nil
		}
		idx, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("index must be a number: %w", err)
		}
		f.Index = &idx
	case "option1", "option2", "option3", "option4":
		f.Options[field[len(field)-1]-'1'] = value
	default:
		return fmt.Errorf("unknown question form field %q", field)
	}
	return nil
}

// Complete reports if every field is filled, the form can't be submitted otherwise
func (f QuestionForm) Complete() bool {
	if strings.TrimSpace(f.Question) == "" || strings.TrimSpace(f.CorrectAnswer) == "" {
		return false
	}
	for _, o := range f.Options {
		if strings.TrimSpace(o) == "" {
			return false
		}
	}
	return true
}

// Editing reports if the form updates an existing question
func (f QuestionForm) Editing() bool { return f.Index != nil }

// ToQuestion converts the form to a question
func (f QuestionForm) ToQuestion() hiring.Question {
	return hiring.Question{Question: f.Question, Options: f.Options[:], CorrectAnswer: f.CorrectAnswer}
}

// questionForm makes form prefilled with the question at idx
func questionForm(q hiring.Question, idx int) QuestionForm {
	res := QuestionForm{Index: &idx, Question: q.Question, CorrectAnswer: q.CorrectAnswer}
	copy(res.Options[:], q.Options)
	return res
}

// parseForm fills the form from posted fields
func parseForm(r *http.Request, form formSetter) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("failed to parse form: %w", err)
	}
	for field, values := range r.PostForm {
		if len(values) == 0 {
			continue
		}
		if err := form.Set(field, values[0]); err != nil {
			return err
		}
	}
	return nil
}
