// Package seed loads jobs and their assessments from a yaml file into an empty store.
package seed

import (
	"fmt"
	"os"

	log "github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"

	"github.com/umputun/hiretrack/app/hiring"
)

//go:generate go run ./internal/schema ../../seed-schema.json

// Config is the seed file content
type Config struct {
	Jobs []Job `yaml:"jobs" json:"jobs" jsonschema:"required,description=jobs to create"`
}

// Job is a seed job with optional assessment
type Job struct {
	Title       string     `yaml:"title" json:"title" jsonschema:"required,minLength=1"`
	Description string     `yaml:"description" json:"description" jsonschema:"required,minLength=1,description=up to 50 words"`
	Candidates  *int       `yaml:"candidates,omitempty" json:"candidates,omitempty" jsonschema:"minimum=0,maximum=100,default=5"`
	Questions   []Question `yaml:"questions,omitempty" json:"questions,omitempty"`
}

// Question is a seed assessment question
type Question struct {
	Question      string   `yaml:"question" json:"question" jsonschema:"required,minLength=1"`
	Options       []string `yaml:"options" json:"options" jsonschema:"required,minItems=4,maxItems=4"`
	CorrectAnswer string   `yaml:"correct_answer" json:"correct_answer" jsonschema:"required,minLength=1"`
}

// JobsRepo is the subset of hiring.Jobs used for seeding
type JobsRepo interface {
	List() ([]hiring.Job, error)
	Create(req hiring.JobRequest) (hiring.Job, error)
}

// QuestionsRepo is the subset of hiring.Questions used for seeding
type QuestionsRepo interface {
	Upsert(jobID int, index *int, q hiring.Question) ([]hiring.Question, error)
}

// DefaultCandidates is the number of candidates generated for a seed job without explicit count
const DefaultCandidates = 5

// CandidatesCount returns the configured number of candidates or DefaultCandidates
func (j Job) CandidatesCount() int {
	if j.Candidates == nil {
		return DefaultCandidates
	}
	return *j.Candidates
}

// Load reads and parses seed file
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is from trusted cli option
	if err != nil {
		return Config{}, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	if len(cfg.Jobs) == 0 {
		return Config{}, fmt.Errorf("seed file %s has no jobs", path)
	}
	return cfg, nil
}

// Apply creates seed jobs with their questions, only if there are no jobs yet.
// Returns number of created jobs.
func Apply(cfg Config, jobs JobsRepo, questions QuestionsRepo) (int, error) {
	existing, err := jobs.List()
	if err != nil {
		return 0, fmt.Errorf("failed to check existing jobs: %w", err)
	}
	if len(existing) > 0 {
		log.Printf("[INFO] store has %d jobs, seed skipped", len(existing))
		return 0, nil
	}

	for i, sj := range cfg.Jobs {
		job, err := jobs.Create(hiring.JobRequest{Title: sj.Title, Description: sj.Description, Candidates: sj.CandidatesCount()})
		if err != nil {
			return i, fmt.Errorf("seed job %d %q: %w", i+1, sj.Title, err)
		}
		for k, sq := range sj.Questions {
			q := hiring.Question{Question: sq.Question, Options: sq.Options, CorrectAnswer: sq.CorrectAnswer}
			if _, err := questions.Upsert(job.ID, nil, q); err != nil {
				return i + 1, fmt.Errorf("seed job %d question %d: %w", i+1, k+1, err)
			}
		}
		log.Printf("[DEBUG] seeded job %d %q with %d questions", job.ID, job.Title, len(sj.Questions))
	}
	log.Printf("[INFO] seeded %d jobs", len(cfg.Jobs))
	return len(cfg.Jobs), nil
}
