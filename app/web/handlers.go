package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/hiretrack/app/hiring"
	"github.com/umputun/hiretrack/app/hiring/enums"
)

const assessmentSavedMsg = "Assessment saved successfully"

// handleHome renders job cards with the create form
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := s.newTemplateData("Jobs")
	data.JobForm = JobForm{Candidates: s.defaultCandidates}
	if r.URL.Query().Get("saved") == "1" {
		data.Flash = assessmentSavedMsg
	}
	s.renderHome(w, http.StatusOK, data)
}

// renderHome loads jobs into data and renders home page
func (s *Server) renderHome(w http.ResponseWriter, status int, data TemplateData) {
	jobs, err := s.jobs.List()
	if err != nil {
		log.Printf("[ERROR] failed to list jobs: %v", err)
		s.renderError(w, http.StatusInternalServerError, "Failed to load jobs")
		return
	}
	data.Jobs = jobs
	s.render(w, status, "home", data)
}

// handleCreateJob creates a job from the home page form
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	form := JobForm{Candidates: s.defaultCandidates}
	if err := parseForm(r, &form); err != nil {
		s.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := s.jobs.Create(form.Request())
	if err != nil {
		if errors.Is(err, hiring.ErrInvalid) {
			data := s.newTemplateData("Jobs")
			data.JobForm = form
			data.Error = err.Error()
			s.renderHome(w, http.StatusBadRequest, data)
			return
		}
		log.Printf("[ERROR] failed to create job: %v", err)
		s.renderError(w, http.StatusInternalServerError, "Failed to create job")
		return
	}
	log.Printf("[DEBUG] job %d created from web form", job.ID)
	http.Redirect(w, r, s.url("/"), http.StatusSeeOther)
}

// handleEditJob renders edit form prefilled with job fields
func (s *Server) handleEditJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.loadJob(w, r)
	if !ok {
		return
	}
	data := s.newTemplateData("Edit job")
	data.Job = job
	data.JobForm = JobForm{ID: job.ID, Title: job.Title, Description: job.Description, Candidates: len(job.Candidates)}
	s.render(w, http.StatusOK, "edit", data)
}

// handleUpdateJob saves edited title and description, candidates are kept
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.loadJob(w, r)
	if !ok {
		return
	}

	form := JobForm{ID: job.ID, Title: job.Title, Description: job.Description, Candidates: len(job.Candidates)}
	if err := parseForm(r, &form); err != nil {
		s.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	job.Title, job.Description = form.Title, form.Description
	if _, err := s.jobs.Update(job); err != nil {
		switch {
		case errors.Is(err, hiring.ErrInvalid):
			data := s.newTemplateData("Edit job")
			data.Job = job
			data.JobForm = form
			data.Error = err.Error()
			s.render(w, http.StatusBadRequest, "edit", data)
		case errors.Is(err, hiring.ErrNotFound):
			s.renderError(w, http.StatusNotFound, "Job not found")
		default:
			log.Printf("[ERROR] failed to update job %d: %v", job.ID, err)
			s.renderError(w, http.StatusInternalServerError, "Failed to update job")
		}
		return
	}
	http.Redirect(w, r, s.url("/"), http.StatusSeeOther)
}

// handleDeleteJob removes job and its assessment
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		s.renderError(w, http.StatusNotFound, "Job not found")
		return
	}
	if err := s.jobs.Delete(id); err != nil {
		if errors.Is(err, hiring.ErrNotFound) {
			s.renderError(w, http.StatusNotFound, "Job not found")
			return
		}
		log.Printf("[ERROR] failed to delete job %d: %v", id, err)
		s.renderError(w, http.StatusInternalServerError, "Failed to delete job")
		return
	}
	http.Redirect(w, r, s.url("/"), http.StatusSeeOther)
}

// handleJob renders job description with candidate cards
func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.loadJob(w, r)
	if !ok {
		return
	}
	data := s.newTemplateData(job.Title)
	data.Job = job
	s.render(w, http.StatusOK, "job", data)
}

// handleCandidate renders candidate profile with status controls
func (s *Server) handleCandidate(w http.ResponseWriter, r *http.Request) {
	job, cand, ok := s.loadCandidate(w, r)
	if !ok {
		return
	}
	data := s.newTemplateData(cand.Name)
	data.Job = job
	data.Candidate = cand
	s.render(w, http.StatusOK, "candidate", data)
}

// handleCandidateStatus changes candidate status and redirects back to the profile
func (s *Server) handleCandidateStatus(w http.ResponseWriter, r *http.Request) {
	job, cand, ok := s.loadCandidate(w, r)
	if !ok {
		return
	}

	status, err := enums.ParseStatusInput(r.FormValue("status"))
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, prev, err := s.jobs.SetCandidateStatus(job.ID, cand.ID, status)
	if err != nil {
		if errors.Is(err, hiring.ErrNotFound) {
			s.renderError(w, http.StatusNotFound, "Candidate not found")
			return
		}
		log.Printf("[ERROR] failed to set status of candidate %d in job %d: %v", cand.ID, job.ID, err)
		s.renderError(w, http.StatusInternalServerError, "Failed to change status")
		return
	}
	s.notifyStatus(r.Context(), job, updated, prev)
	http.Redirect(w, r, s.url(fmt.Sprintf("/jobs/%d/candidates/%d", job.ID, cand.ID)), http.StatusSeeOther)
}

// handleAssessment renders job selector, question form and existing questions of the selected job
func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	data := s.newTemplateData("Assessment")
	if jobID := r.URL.Query().Get("job"); jobID != "" {
		id, err := strconv.Atoi(jobID)
		if err != nil {
			s.renderError(w, http.StatusNotFound, "Job not found")
			return
		}
		job, err := s.jobs.Get(id)
		if err != nil {
			s.renderLoadError(w, err, "Job not found")
			return
		}
		data.Job = job
	}

	if data.Job.ID != 0 {
		if edit := r.URL.Query().Get("edit"); edit != "" {
			qs, err := s.questions.List(data.Job.ID)
			if err != nil {
				log.Printf("[ERROR] failed to list questions of job %d: %v", data.Job.ID, err)
				s.renderError(w, http.StatusInternalServerError, "Failed to load questions")
				return
			}
			idx, err := strconv.Atoi(edit)
			if err != nil || idx < 0 || idx >= len(qs) {
				s.renderError(w, http.StatusNotFound, "Question not found")
				return
			}
			data.QuestionForm = questionForm(qs[idx], idx)
		}
	}
	s.renderAssessment(w, http.StatusOK, data)
}

// renderAssessment loads jobs and questions of the selected job into data and renders assessment page
func (s *Server) renderAssessment(w http.ResponseWriter, status int, data TemplateData) {
	jobs, err := s.jobs.List()
	if err != nil {
		log.Printf("[ERROR] failed to list jobs: %v", err)
		s.renderError(w, http.StatusInternalServerError, "Failed to load jobs")
		return
	}
	data.Jobs = jobs

	if data.Job.ID != 0 {
		qs, err := s.questions.List(data.Job.ID)
		if err != nil {
			log.Printf("[ERROR] failed to list questions of job %d: %v", data.Job.ID, err)
			s.renderError(w, http.StatusInternalServerError, "Failed to load questions")
			return
		}
		data.Questions = qs
	}
	s.render(w, status, "assessment", data)
}

// handleSaveQuestion adds a question, or updates one if the form has index
func (s *Server) handleSaveQuestion(w http.ResponseWriter, r *http.Request) {
	job, ok := s.loadJob(w, r)
	if !ok {
		return
	}

	var form QuestionForm
	if err := parseForm(r, &form); err != nil {
		s.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.questions.Upsert(job.ID, form.Index, form.ToQuestion()); err != nil {
		switch {
		case errors.Is(err, hiring.ErrInvalid), errors.Is(err, hiring.ErrIndexOutOfRange):
			data := s.newTemplateData("Assessment")
			data.Job = job
			data.QuestionForm = form
			data.Error = err.Error()
			s.renderAssessment(w, http.StatusBadRequest, data)
		case errors.Is(err, hiring.ErrNotFound):
			s.renderError(w, http.StatusNotFound, "Job not found")
		default:
			log.Printf("[ERROR] failed to save question of job %d: %v", job.ID, err)
			s.renderError(w, http.StatusInternalServerError, "Failed to save question")
		}
		return
	}
	http.Redirect(w, r, s.url(fmt.Sprintf("/assessment?job=%d", job.ID)), http.StatusSeeOther)
}

// handleDeleteQuestion removes question by its position
func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	job, ok := s.loadJob(w, r)
	if !ok {
		return
	}
	idx, err := strconv.Atoi(r.PathValue("idx"))
	if err != nil {
		s.renderError(w, http.StatusBadRequest, "invalid question index")
		return
	}

	if _, err := s.questions.Delete(job.ID, idx); err != nil {
		if errors.Is(err, hiring.ErrIndexOutOfRange) {
			s.renderError(w, http.StatusNotFound, "Question not found")
			return
		}
		log.Printf("[ERROR] failed to delete question %d of job %d: %v", idx, job.ID, err)
		s.renderError(w, http.StatusInternalServerError, "Failed to delete question")
		return
	}
	http.Redirect(w, r, s.url(fmt.Sprintf("/assessment?job=%d", job.ID)), http.StatusSeeOther)
}

// handleSaveAssessment confirms the assessment, questions are already stored on each edit
func (s *Server) handleSaveAssessment(w http.ResponseWriter, r *http.Request) {
	job, ok := s.loadJob(w, r)
	if !ok {
		return
	}
	log.Printf("[INFO] assessment of job %d saved", job.ID)
	http.Redirect(w, r, s.url("/?saved=1"), http.StatusSeeOther)
}

// notifyStatus informs notifier about status change, failures are logged only.
// Setting the same status again is not a change and sends nothing.
func (s *Server) notifyStatus(ctx context.Context, job hiring.Job, c hiring.Candidate, prev enums.Status) {
	if s.notifier == nil || prev == c.Status {
		return
	}
	if err := s.notifier.StatusChanged(ctx, job, c, prev); err != nil {
		log.Printf("[WARN] failed to send status notification for candidate %d of job %d: %v", c.ID, job.ID, err)
	}
}

// loadJob gets job by "id" path value, renders error page and returns false if it can't
func (s *Server) loadJob(w http.ResponseWriter, r *http.Request) (hiring.Job, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		s.renderError(w, http.StatusNotFound, "Job not found")
		return hiring.Job{}, false
	}
	job, err := s.jobs.Get(id)
	if err != nil {
		s.renderLoadError(w, err, "Job not found")
		return hiring.Job{}, false
	}
	return job, true
}

// loadCandidate gets job and candidate by "id" and "cid" path values
func (s *Server) loadCandidate(w http.ResponseWriter, r *http.Request) (hiring.Job, hiring.Candidate, bool) {
	id, err1 := strconv.Atoi(r.PathValue("id"))
	cid, err2 := strconv.Atoi(r.PathValue("cid"))
	if err1 != nil || err2 != nil {
		s.renderError(w, http.StatusNotFound, "Candidate not found")
		return hiring.Job{}, hiring.Candidate{}, false
	}
	job, err := s.jobs.Get(id)
	if err != nil {
		s.renderLoadError(w, err, "Candidate not found")
		return hiring.Job{}, hiring.Candidate{}, false
	}
	cand, err := s.jobs.Candidate(id, cid)
	if err != nil {
		s.renderLoadError(w, err, "Candidate not found")
		return hiring.Job{}, hiring.Candidate{}, false
	}
	return job, cand, true
}

// renderLoadError renders not found page for ErrNotFound and a generic error page otherwise
func (s *Server) renderLoadError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, hiring.ErrNotFound) {
		s.renderError(w, http.StatusNotFound, notFoundMsg)
		return
	}
	log.Printf("[ERROR] failed to load data: %v", err)
	s.renderError(w, http.StatusInternalServerError, "Failed to load data")
}

// renderError renders error page with a message
func (s *Server) renderError(w http.ResponseWriter, status int, msg string) {
	data := s.newTemplateData(http.StatusText(status))
	data.Message = msg
	s.render(w, status, "error", data)
}
