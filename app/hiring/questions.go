package hiring

import (
	"errors"
	"fmt"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/hiretrack/app/store"
)

// Questions is the assessment repository, each job's questions are stored under the job id.
// Shares the lock with Jobs, so question sets can't be written for a job being deleted.
type Questions struct {
	store Store
	jobs  *Jobs
}

// NewQuestions makes question repository. Jobs repository is used to check the job exists.
func NewQuestions(st Store, jobs *Jobs) *Questions {
	return &Questions{store: st, jobs: jobs}
}

// List returns questions of the job in stored order, empty if the job has none
func (q *Questions) List(jobID int) ([]Question, error) {
	q.jobs.lock.Lock()
	defer q.jobs.lock.Unlock()
	return q.load(jobID)
}

// Upsert validates the question and stores it. With nil index the question is appended,
// otherwise it replaces the question at index. Returns the resulting list.
func (q *Questions) Upsert(jobID int, index *int, question Question) ([]Question, error) {
	if err := ValidateQuestion(question); err != nil {
		return nil, err
	}

	q.jobs.lock.Lock()
	defer q.jobs.lock.Unlock()

	if _, err := q.jobs.get(jobID); err != nil {
		return nil, err
	}
	list, err := q.load(jobID)
	if err != nil {
		return nil, err
	}

	if index == nil {
		list = append(list, question)
	} else {
		if *index < 0 || *index >= len(list) {
			return nil, fmt.Errorf("question %d of job %d (have %d): %w", *index, jobID, len(list), ErrIndexOutOfRange)
		}
		list[*index] = question
	}

	if err := q.save(jobID, list); err != nil {
		return nil, err
	}
	log.Printf("[DEBUG] job %d questions saved, total %d", jobID, len(list))
	return list, nil
}

// Delete removes question at index, the order of the rest is kept
func (q *Questions) Delete(jobID, index int) ([]Question, error) {
	q.jobs.lock.Lock()
	defer q.jobs.lock.Unlock()

	list, err := q.load(jobID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(list) {
		return nil, fmt.Errorf("question %d of job %d (have %d): %w", index, jobID, len(list), ErrIndexOutOfRange)
	}

	res := make([]Question, 0, len(list)-1)
	res = append(res, list[:index]...)
	res = append(res, list[index+1:]...)
	if err := q.save(jobID, res); err != nil {
		return nil, err
	}
	log.Printf("[DEBUG] job %d question %d deleted, left %d", jobID, index, len(res))
	return res, nil
}

// Clear removes all questions of the job
func (q *Questions) Clear(jobID int) error {
	q.jobs.lock.Lock()
	defer q.jobs.lock.Unlock()
	if err := q.store.Remove(questionsKey(jobID)); err != nil {
		return fmt.Errorf("failed to clear questions of job %d: %w", jobID, err)
	}
	return nil
}

func (q *Questions) load(jobID int) ([]Question, error) {
	list := []Question{}
	err := q.store.Get(questionsKey(jobID), &list)
	switch {
	case err == nil:
		return list, nil
	case errors.Is(err, store.ErrNotFound):
		return []Question{}, nil
	case errors.Is(err, store.ErrCorrupted):
		log.Printf("[WARN] stored questions of job %d can't be decoded, treated as empty: %v", jobID, err)
		return []Question{}, nil
	default:
		return nil, fmt.Errorf("failed to load questions of job %d: %w", jobID, err)
	}
}

func (q *Questions) save(jobID int, list []Question) error {
	if err := q.store.Set(questionsKey(jobID), list); err != nil {
		return fmt.Errorf("failed to save questions of job %d: %w", jobID, err)
	}
	return nil
}
