package hiring

import (
	"fmt"
	"time"

	"github.com/umputun/hiretrack/app/hiring/enums"
)

// applicationDateLayout is a US locale short date, i.e. 3/14/2025
const applicationDateLayout = "1/2/2006"

// generateCandidates makes n placeholder candidates with ids 1..n
func generateCandidates(n int, now time.Time) []Candidate {
	res := make([]Candidate, 0, n)
	for i := 1; i <= n; i++ {
		res = append(res, Candidate{
			ID:              i,
			Name:            fmt.Sprintf("Candidate %d", i),
			Email:           fmt.Sprintf("candidate%d@example.com", i),
			Contact:         fmt.Sprintf("123-456-789%d", i),
			Skills:          []string{"JavaScript", "React", "Node.js"},
			Experience:      3 + i - 1,
			ResumeLink:      fmt.Sprintf("http://example.com/resume%d.pdf", i),
			Status:          enums.StatusUnderReview,
			ApplicationDate: now.Format(applicationDateLayout),
		})
	}
	return res
}

// Candidate returns candidate of the job. Both job and candidate lookups return the first match.
func (j *Jobs) Candidate(jobID, candidateID int) (Candidate, error) {
	job, err := j.Get(jobID)
	if err != nil {
		return Candidate{}, err
	}
	for _, c := range job.Candidates {
		if c.ID == candidateID {
			return c, nil
		}
	}
	return Candidate{}, fmt.Errorf("candidate %d of job %d: %w", candidateID, jobID, ErrNotFound)
}

// SetCandidateStatus changes status of the candidate and persists the job.
// Any status can follow any other, including itself. Returns the updated candidate
// and the status it had before.
func (j *Jobs) SetCandidateStatus(jobID, candidateID int, status enums.Status) (updated Candidate, prev enums.Status, err error) {
	j.lock.Lock()
	defer j.lock.Unlock()

	jobs, err := j.load()
	if err != nil {
		return Candidate{}, prev, err
	}
	jobIdx := findJob(jobs, jobID)
	if jobIdx < 0 {
		return Candidate{}, prev, fmt.Errorf("job %d: %w", jobID, ErrNotFound)
	}

	cands := jobs[jobIdx].Candidates
	for i := range cands {
		if cands[i].ID != candidateID {
			continue
		}
		prev = cands[i].Status
		cands[i].Status = status
		if err := j.save(jobs); err != nil {
			return Candidate{}, prev, err
		}
		return cands[i], prev, nil
	}
	return Candidate{}, prev, fmt.Errorf("candidate %d of job %d: %w", candidateID, jobID, ErrNotFound)
}
