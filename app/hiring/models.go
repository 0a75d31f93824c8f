// Package hiring implements jobs, their synthetic candidates and per-job assessments.
// All state lives in a key-value Store: the job collection under a single key and
// each job's questions under the job id. Repositories do read-modify-write of the
// whole value on every mutation, so the stored value always equals the last write.
package hiring

import (
	"errors"
	"strconv"

	"github.com/umputun/hiretrack/app/hiring/enums"
)

const (
	jobsKey    = "jobs"     // key of the job collection
	jobsSeqKey = "jobs-seq" // key of the last allocated job id
	firstJobID = 100        // ids start here, so the first 900 are three digits
)

// errors returned by repositories
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalid         = errors.New("invalid input")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Store is a key-value persistence, values are json documents
type Store interface {
	Get(key string, v any) error
	Set(key string, v any) error
	Remove(key string) error
}

// Job is a hiring requisition with embedded candidates
type Job struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Candidates  []Candidate `json:"candidatesList"`
}

// Candidate is an applicant record, owned by its job
type Candidate struct {
	ID              int          `json:"id"`
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	Contact         string       `json:"contact"`
	Skills          []string     `json:"skills"`
	Experience      int          `json:"experience"`
	ResumeLink      string       `json:"resumeLink"`
	Status          enums.Status `json:"status"`
	ApplicationDate string       `json:"applicationDate"`
}

// Question is a single multiple-choice assessment item
type Question struct {
	Question      string   `json:"question" validate:"notblank"`
	Options       []string `json:"options" validate:"len=4,dive,notblank"`
	CorrectAnswer string   `json:"correctAnswer" validate:"notblank"`
}

// JobRequest is an input for job creation
type JobRequest struct {
	Title       string `json:"title" validate:"notblank,max=200"`
	Description string `json:"description" validate:"notblank,maxwords=50"`
	Candidates  int    `json:"candidates" validate:"min=0,max=100"`
}

// questionsKey returns the store key of the job's question set
func questionsKey(jobID int) string {
	return strconv.Itoa(jobID)
}
