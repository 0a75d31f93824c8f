package hiring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestions_AppendAndList(t *testing.T) {
	jobs, questions := newTestRepos(t)
	job, err := jobs.Create(JobRequest{Title: "t", Description: "d"})
	require.NoError(t, err)

	qs, err := questions.List(job.ID)
	require.NoError(t, err)
	assert.NotNil(t, qs)
	assert.Empty(t, qs)

	for _, name := range []string{"A", "B", "C"} {
		_, err = questions.Upsert(job.ID, nil, testQuestion(name))
		require.NoError(t, err)
	}

	qs, err = questions.List(job.ID)
	require.NoError(t, err)
	assert.Equal(t, []Question{testQuestion("A"), testQuestion("B"), testQuestion("C")}, qs)
}

func TestQuestions_UpdateAtIndex(t *testing.T) {
	jobs, questions := newTestRepos(t)
	job := createWithQuestions(t, jobs, questions, "A", "B", "C")

	idx := 1
	res, err := questions.Upsert(job.ID, &idx, testQuestion("X"))
	require.NoError(t, err)
	assert.Equal(t, []Question{testQuestion("A"), testQuestion("X"), testQuestion("C")}, res)

	qs, err := questions.List(job.ID)
	require.NoError(t, err)
	assert.Equal(t, res, qs)

	t.Run("out of range", func(t *testing.T) {
		for _, bad := range []int{-1, 3, 10} {
			_, err := questions.Upsert(job.ID, &bad, testQuestion("Y"))
			assert.ErrorIs(t, err, ErrIndexOutOfRange, "index %d", bad)
		}
		qs, err := questions.List(job.ID)
		require.NoError(t, err)
		assert.Equal(t, res, qs, "unchanged after rejected updates")
	})
}

func TestQuestions_Delete(t *testing.T) {
	jobs, questions := newTestRepos(t)
	job := createWithQuestions(t, jobs, questions, "A", "B", "C")

	res, err := questions.Delete(job.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []Question{testQuestion("A"), testQuestion("C")}, res)

	qs, err := questions.List(job.ID)
	require.NoError(t, err)
	assert.Equal(t, []Question{testQuestion("A"), testQuestion("C")}, qs)

	_, err = questions.Delete(job.ID, 2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = questions.Delete(job.ID, -1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	res, err = questions.Delete(job.ID, 0)
	require.NoError(t, err)
	res, err = questions.Delete(job.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestQuestions_InvalidNotPersisted(t *testing.T) {
	jobs, questions := newTestRepos(t)
	job := createWithQuestions(t, jobs, questions, "A")

	valid := testQuestion("Z")
	tests := []struct {
		name   string
		modify func(q *Question)
		msg    string
	}{
		{"blank question", func(q *Question) { q.Question = "   " }, "question must not be blank"},
		{"blank option", func(q *Question) { q.Options = []string{"a", " ", "c", "d"} }, "options[1] must not be blank"},
		{"three options", func(q *Question) { q.Options = []string{"a", "b", "c"} }, "options must have exactly 4 entries"},
		{"no options", func(q *Question) { q.Options = nil }, "options must have exactly 4 entries"},
		{"blank answer", func(q *Question) { q.CorrectAnswer = "\n" }, "correctAnswer must not be blank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid
			q.Options = append([]string(nil), valid.Options...)
			tt.modify(&q)

			_, err := questions.Upsert(job.ID, nil, q)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.msg)

			idx := 0
			_, err = questions.Upsert(job.ID, &idx, q)
			assert.ErrorIs(t, err, ErrInvalid)

			qs, err := questions.List(job.ID)
			require.NoError(t, err)
			assert.Equal(t, []Question{testQuestion("A")}, qs, "stored questions unchanged")
		})
	}
}

func TestQuestions_UnknownJob(t *testing.T) {
	_, questions := newTestRepos(t)

	_, err := questions.Upsert(777, nil, testQuestion("A"))
	assert.ErrorIs(t, err, ErrNotFound)

	qs, err := questions.List(777)
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestQuestions_PerJobIsolation(t *testing.T) {
	jobs, questions := newTestRepos(t)
	j1 := createWithQuestions(t, jobs, questions, "A", "B")
	j2 := createWithQuestions(t, jobs, questions, "C")

	qs, err := questions.List(j1.ID)
	require.NoError(t, err)
	assert.Len(t, qs, 2)
	qs, err = questions.List(j2.ID)
	require.NoError(t, err)
	assert.Equal(t, []Question{testQuestion("C")}, qs)

	require.NoError(t, questions.Clear(j1.ID))
	qs, err = questions.List(j1.ID)
	require.NoError(t, err)
	assert.Empty(t, qs)
	qs, err = questions.List(j2.ID)
	require.NoError(t, err)
	assert.Len(t, qs, 1)
}

func TestQuestions_Corrupted(t *testing.T) {
	st := newTestStore(t)
	jobs := NewJobs(st)
	questions := NewQuestions(st, jobs)
	job, err := jobs.Create(JobRequest{Title: "t", Description: "d"})
	require.NoError(t, err)

	require.NoError(t, st.SetRaw(questionsKey(job.ID), `"not a list"`))
	qs, err := questions.List(job.ID)
	require.NoError(t, err)
	assert.Empty(t, qs)

	_, err = questions.Upsert(job.ID, nil, testQuestion("A"))
	require.NoError(t, err)
	qs, err = questions.List(job.ID)
	require.NoError(t, err)
	assert.Equal(t, []Question{testQuestion("A")}, qs)
}

func createWithQuestions(t *testing.T, jobs *Jobs, questions *Questions, names ...string) Job {
	t.Helper()
	job, err := jobs.Create(JobRequest{Title: "job", Description: "with questions", Candidates: 1})
	require.NoError(t, err)
	for _, name := range names {
		_, err := questions.Upsert(job.ID, nil, testQuestion(name))
		require.NoError(t, err)
	}
	return job
}
