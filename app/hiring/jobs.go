package hiring

import (
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/hiretrack/app/store"
)

// Jobs is the job repository. The whole collection is stored as a single value under "jobs".
type Jobs struct {
	store Store
	lock  sync.Mutex // serializes read-modify-write of the collection and question sets
	now   func() time.Time
}

// NewJobs makes job repository on top of the store
func NewJobs(st Store) *Jobs {
	return &Jobs{store: st, now: time.Now}
}

// List returns all jobs in stored order. Missing or corrupted collection is an empty list.
func (j *Jobs) List() ([]Job, error) {
	j.lock.Lock()
	defer j.lock.Unlock()
	return j.load()
}

// Get returns the first job with the id
func (j *Jobs) Get(id int) (Job, error) {
	j.lock.Lock()
	defer j.lock.Unlock()
	return j.get(id)
}

// get is Get without locking
func (j *Jobs) get(id int) (Job, error) {
	jobs, err := j.load()
	if err != nil {
		return Job{}, err
	}
	if idx := findJob(jobs, id); idx >= 0 {
		return jobs[idx], nil
	}
	return Job{}, fmt.Errorf("job %d: %w", id, ErrNotFound)
}

// Create validates request, allocates a new id, generates req.Candidates candidates and persists the job
func (j *Jobs) Create(req JobRequest) (Job, error) {
	if err := ValidateJob(req); err != nil {
		return Job{}, err
	}

	j.lock.Lock()
	defer j.lock.Unlock()

	jobs, err := j.load()
	if err != nil {
		return Job{}, err
	}
	id, err := j.nextID(jobs)
	if err != nil {
		return Job{}, err
	}

	job := Job{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Candidates:  generateCandidates(req.Candidates, j.now()),
	}
	if err := j.save(append(jobs, job)); err != nil {
		return Job{}, err
	}
	// the counter is written after the job, a failed save doesn't use up the id.
	// Missing counter update is recovered by nextID from the largest stored id.
	if err := j.store.Set(jobsSeqKey, id); err != nil {
		log.Printf("[WARN] failed to save job id counter %d: %v", id, err)
	}
	log.Printf("[INFO] job %d %q created with %d candidates", job.ID, job.Title, len(job.Candidates))
	return job, nil
}

// Update changes title and description of the first job with the same id. Title and description
// are validated. Stored candidates are kept, so a stale copy can't revert their status changes.
func (j *Jobs) Update(job Job) (Job, error) {
	if err := ValidateJob(JobRequest{Title: job.Title, Description: job.Description}); err != nil {
		return Job{}, err
	}

	j.lock.Lock()
	defer j.lock.Unlock()

	jobs, err := j.load()
	if err != nil {
		return Job{}, err
	}
	idx := findJob(jobs, job.ID)
	if idx < 0 {
		return Job{}, fmt.Errorf("job %d: %w", job.ID, ErrNotFound)
	}
	jobs[idx].Title, jobs[idx].Description = job.Title, job.Description
	if jobs[idx].Candidates == nil {
		jobs[idx].Candidates = []Candidate{}
	}
	if err := j.save(jobs); err != nil {
		return Job{}, err
	}
	log.Printf("[INFO] job %d updated", job.ID)
	return jobs[idx], nil
}

// Delete removes all jobs with the id together with the job's question set
func (j *Jobs) Delete(id int) error {
	j.lock.Lock()
	defer j.lock.Unlock()

	jobs, err := j.load()
	if err != nil {
		return err
	}
	kept := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		if job.ID != id {
			kept = append(kept, job)
		}
	}
	if len(kept) == len(jobs) {
		return fmt.Errorf("job %d: %w", id, ErrNotFound)
	}

	// questions go first, a failed removal leaves the job in place and nothing orphaned
	if err := j.store.Remove(questionsKey(id)); err != nil {
		return fmt.Errorf("failed to remove questions of job %d: %w", id, err)
	}
	if err := j.save(kept); err != nil {
		return err
	}
	log.Printf("[INFO] job %d deleted, %d entries removed", id, len(jobs)-len(kept))
	return nil
}

// load reads the collection, caller must hold the lock.
// Missing and corrupted values both load as an empty collection.
func (j *Jobs) load() ([]Job, error) {
	jobs := []Job{}
	err := j.store.Get(jobsKey, &jobs)
	switch {
	case err == nil:
		return jobs, nil
	case errors.Is(err, store.ErrNotFound):
		return []Job{}, nil
	case errors.Is(err, store.ErrCorrupted):
		log.Printf("[WARN] stored jobs can't be decoded, treated as empty: %v", err)
		return []Job{}, nil
	default:
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}
}

// save writes the whole collection, caller must hold the lock
func (j *Jobs) save(jobs []Job) error {
	if err := j.store.Set(jobsKey, jobs); err != nil {
		return fmt.Errorf("failed to save jobs: %w", err)
	}
	return nil
}

// nextID returns the id following the persisted counter, the caller saves it back.
// The result never goes below the largest stored id, so collections written without
// the counter are safe.
func (j *Jobs) nextID(jobs []Job) (int, error) {
	var last int
	if err := j.store.Get(jobsSeqKey, &last); err != nil && !errors.Is(err, store.ErrNotFound) {
		if !errors.Is(err, store.ErrCorrupted) {
			return 0, fmt.Errorf("failed to read job id counter: %w", err)
		}
		log.Printf("[WARN] job id counter corrupted, recalculated: %v", err)
	}

	next := max(last+1, firstJobID)
	for _, job := range jobs {
		if job.ID >= next {
			next = job.ID + 1
		}
	}
	return next, nil
}

// findJob returns index of the first job with the id or -1
func findJob(jobs []Job, id int) int {
	for i, job := range jobs {
		if job.ID == id {
			return i
		}
	}
	return -1
}
