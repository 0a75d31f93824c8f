package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/hiretrack/app/hiring"
	"github.com/umputun/hiretrack/app/hiring/enums"
)

// APIJobRequest is the JSON body for job creation and update
type APIJobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Candidates  *int   `json:"candidates,omitempty"` // create only, server default if not set
}

// APIStatusRequest is the JSON body for candidate status change
type APIStatusRequest struct {
	Status string `json:"status"` // display name or slug, i.e. "Accepted" or "under-review"
}

// APIStatusResponse is the JSON response for candidate status change
type APIStatusResponse struct {
	Candidate hiring.Candidate `json:"candidate"`
	Previous  enums.Status     `json:"previous"`
}

// handleAPIListJobs returns all jobs in stored order
func (s *Server) handleAPIListJobs(w http.ResponseWriter, _ *http.Request) {
	jobs, err := s.jobs.List()
	if err != nil {
		s.writeAPIError(w, err, "failed to list jobs")
		return
	}
	s.writeJSON(w, http.StatusOK, jobs)
}

// handleAPICreateJob creates job with generated candidates
func (s *Server) handleAPICreateJob(w http.ResponseWriter, r *http.Request) {
	var req APIJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	candidates := s.defaultCandidates
	if req.Candidates != nil {
		candidates = *req.Candidates
	}

	job, err := s.jobs.Create(hiring.JobRequest{Title: req.Title, Description: req.Description, Candidates: candidates})
	if err != nil {
		s.writeAPIError(w, err, "failed to create job")
		return
	}
	s.writeJSON(w, http.StatusCreated, job)
}

// handleAPIGetJob returns a job with candidates
func (s *Server) handleAPIGetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathInt(w, r, "id")
	if !ok {
		return
	}
	job, err := s.jobs.Get(id)
	if err != nil {
		s.writeAPIError(w, err, "failed to get job")
		return
	}
	s.writeJSON(w, http.StatusOK, job)
}

// handleAPIUpdateJob changes title and description of a job
func (s *Server) handleAPIUpdateJob(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathInt(w, r, "id")
	if !ok {
		return
	}
	var req APIJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	job, err := s.jobs.Get(id)
	if err != nil {
		s.writeAPIError(w, err, "failed to get job")
		return
	}
	job.Title, job.Description = req.Title, req.Description
	updated, err := s.jobs.Update(job)
	if err != nil {
		s.writeAPIError(w, err, "failed to update job")
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

// handleAPIDeleteJob removes a job and its questions
func (s *Server) handleAPIDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathInt(w, r, "id")
	if !ok {
		return
	}
	if err := s.jobs.Delete(id); err != nil {
		s.writeAPIError(w, err, "failed to delete job")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAPIGetCandidate returns a candidate of the job
func (s *Server) handleAPIGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathInt(w, r, "id")
	if !ok {
		return
	}
	cid, ok := s.pathInt(w, r, "cid")
	if !ok {
		return
	}
	cand, err := s.jobs.Candidate(id, cid)
	if err != nil {
		s.writeAPIError(w, err, "failed to get candidate")
		return
	}
	s.writeJSON(w, http.StatusOK, cand)
}

// handleAPISetStatus changes candidate status and notifies about it
func (s *Server) handleAPISetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathInt(w, r, "id")
	if !ok {
		return
	}
	cid, ok := s.pathInt(w, r, "cid")
	if !ok {
		return
	}
	var req APIStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid status request: "+err.Error())
		return
	}

	status, err := enums.ParseStatusInput(req.Status)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	cand, prev, err := s.jobs.SetCandidateStatus(id, cid, status)
	if err != nil {
		s.writeAPIError(w, err, "failed to set candidate status")
		return
	}
	if s.notifier != nil && prev != cand.Status {
		if job, err := s.jobs.Get(id); err == nil {
			s.notifyStatus(r.Context(), job, cand, prev)
		}
	}
	s.writeJSON(w, http.StatusOK, APIStatusResponse{Candidate: cand, Previous: prev})
}

// handleAPIListQuestions returns assessment questions of the job
func (s *Server) handleAPIListQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := s.apiJobID(w, r)
	if !ok {
		return
	}
	qs, err := s.questions.List(id)
	if err != nil {
		s.writeAPIError(w, err, "failed to list questions")
		return
	}
	s.writeJSON(w, http.StatusOK, qs)
}

// handleAPIAddQuestion appends a question, returns the resulting list
func (s *Server) handleAPIAddQuestion(w http.ResponseWriter, r *http.Request) {
	s.upsertQuestion(w, r, http.StatusCreated, nil)
}

// handleAPIUpdateQuestion replaces question at index, returns the resulting list
func (s *Server) handleAPIUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.pathInt(w, r, "idx")
	if !ok {
		return
	}
	s.upsertQuestion(w, r, http.StatusOK, &idx)
}

func (s *Server) upsertQuestion(w http.ResponseWriter, r *http.Request, status int, idx *int) {
	id, ok := s.pathInt(w, r, "id")
	if !ok {
		return
	}
	var q hiring.Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	qs, err := s.questions.Upsert(id, idx, q)
	if err != nil {
		s.writeAPIError(w, err, "failed to save question")
		return
	}
	s.writeJSON(w, status, qs)
}

// handleAPIDeleteQuestion removes question at index, returns the resulting list
func (s *Server) handleAPIDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := s.apiJobID(w, r)
	if !ok {
		return
	}
	idx, ok := s.pathInt(w, r, "idx")
	if !ok {
		return
	}
	qs, err := s.questions.Delete(id, idx)
	if err != nil {
		s.writeAPIError(w, err, "failed to delete question")
		return
	}
	s.writeJSON(w, http.StatusOK, qs)
}

// apiJobID gets "id" path value and checks the job exists
func (s *Server) apiJobID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := s.pathInt(w, r, "id")
	if !ok {
		return 0, false
	}
	if _, err := s.jobs.Get(id); err != nil {
		s.writeAPIError(w, err, "failed to get job")
		return 0, false
	}
	return id, true
}

// pathInt parses integer path value, writes 400 if it is not a number
func (s *Server) pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s %q", name, r.PathValue(name)))
		return 0, false
	}
	return v, true
}

// writeAPIError maps repository errors to http status codes
func (s *Server) writeAPIError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, hiring.ErrNotFound):
		s.writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, hiring.ErrInvalid), errors.Is(err, hiring.ErrIndexOutOfRange):
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[ERROR] %s: %v", msg, err)
		s.writeJSONError(w, http.StatusInternalServerError, msg)
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[WARN] failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes a JSON error response
func (s *Server) writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("[WARN] failed to encode JSON error response: %v", err)
	}
}
