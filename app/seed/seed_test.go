package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/hiretrack/app/hiring"
	"github.com/umputun/hiretrack/app/store"
)

func TestLoad(t *testing.T) {
	cfg, err := Load("testdata/seed.yml")
	require.NoError(t, err)
	require.Len(t, cfg.Jobs, 2)

	assert.Equal(t, "Backend Engineer", cfg.Jobs[0].Title)
	assert.Equal(t, 3, cfg.Jobs[0].CandidatesCount())
	require.Len(t, cfg.Jobs[0].Questions, 2)
	assert.Equal(t, "Write-ahead log", cfg.Jobs[0].Questions[0].CorrectAnswer)
	assert.Len(t, cfg.Jobs[0].Questions[0].Options, 4)

	assert.Equal(t, "Designer", cfg.Jobs[1].Title)
	assert.Equal(t, DefaultCandidates, cfg.Jobs[1].CandidatesCount(), "default candidates count")
	assert.Empty(t, cfg.Jobs[1].Questions)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("testdata/missing.yml")
	assert.Error(t, err)

	tmp := t.TempDir()
	bad := filepath.Join(tmp, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("jobs: [\n  - title: x"), 0o600))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "failed to parse seed file")

	empty := filepath.Join(tmp, "empty.yml")
	require.NoError(t, os.WriteFile(empty, []byte("jobs: []\n"), 0o600))
	_, err = Load(empty)
	assert.ErrorContains(t, err, "has no jobs")
}

func TestApply(t *testing.T) {
	jobs, questions := newRepos(t)
	cfg, err := Load("testdata/seed.yml")
	require.NoError(t, err)

	n, err := Apply(cfg, jobs, questions)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := jobs.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Len(t, list[0].Candidates, 3)
	assert.Len(t, list[1].Candidates, 5)

	qs, err := questions.List(list[0].ID)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "2 + 2?", qs[1].Question)

	// second apply is a no-op
	n, err = Apply(cfg, jobs, questions)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	list, err = jobs.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestApply_InvalidQuestion(t *testing.T) {
	jobs, questions := newRepos(t)
	cfg, err := Load("testdata/bad-question.yml")
	require.NoError(t, err)

	n, err := Apply(cfg, jobs, questions)
	require.Error(t, err)
	assert.ErrorIs(t, err, hiring.ErrInvalid)
	assert.Equal(t, 1, n, "job created before the bad question")

	list, err := jobs.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	qs, err := questions.List(list[0].ID)
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func newRepos(t *testing.T) (*hiring.Jobs, *hiring.Questions) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	jobs := hiring.NewJobs(st)
	return jobs, hiring.NewQuestions(st, jobs)
}
