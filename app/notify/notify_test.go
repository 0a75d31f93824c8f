package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/hiretrack/app/hiring"
	"github.com/umputun/hiretrack/app/hiring/enums"
)

func TestService_EmptyDestinations(t *testing.T) {
	svc := NewService(Params{})
	require.Nil(t, svc)
}

func TestMakeStatusTextDefault(t *testing.T) {
	svc := NewService(Params{Destinations: []string{"http://example.com/hook"}, HostName: "hr-box"})
	require.NotNil(t, svc)

	job, cand := testJob()
	res, err := svc.MakeStatusText(job, cand, enums.StatusUnderReview)
	require.NoError(t, err)
	assert.Equal(t, `Candidate Candidate 2 (candidate2@example.com) for job #101 "Engineer": Under Review -> Accepted [hr-box]`, res)
}

func TestMakeStatusTextCustom(t *testing.T) {
	svc := NewService(Params{Destinations: []string{"http://example.com/hook"},
		Template: "{{.Candidate.Name}} is {{.Candidate.Status}}"})
	require.NotNil(t, svc)

	job, cand := testJob()
	res, err := svc.MakeStatusText(job, cand, enums.StatusUnderReview)
	require.NoError(t, err)
	assert.Equal(t, "Candidate 2 is Accepted", res)

	// broken template falls back to default
	svc = NewService(Params{Destinations: []string{"http://example.com/hook"}, Template: "{{.Candidate.Name"})
	res, err = svc.MakeStatusText(job, cand, enums.StatusUnderReview)
	require.NoError(t, err)
	assert.Contains(t, res, "Under Review -> Accepted")
}

func TestService_StatusChanged(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		mu.Lock()
		bodies = append(bodies, string(body))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	svc := NewService(Params{Destinations: []string{ts.URL + "/a", ts.URL + "/b"}, Timeout: time.Second})
	job, cand := testJob()
	err := svc.StatusChanged(context.Background(), job, cand, enums.StatusRejected)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bodies, 2)
	assert.Contains(t, bodies[0], "Rejected -> Accepted")
	assert.Equal(t, bodies[0], bodies[1])
}

func TestService_StatusChangedErrors(t *testing.T) {
	var ok atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		ok.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	svc := NewService(Params{Destinations: []string{ts.URL + "/fail", ts.URL + "/ok", "unknown://dest"}})
	job, cand := testJob()
	err := svc.StatusChanged(context.Background(), job, cand, enums.StatusRejected)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/fail")
	assert.Contains(t, err.Error(), "unknown://dest")
	assert.Equal(t, int32(1), ok.Load(), "good destination still notified")
}

func testJob() (hiring.Job, hiring.Candidate) {
	cand := hiring.Candidate{ID: 2, Name: "Candidate 2", Email: "candidate2@example.com", Status: enums.StatusAccepted}
	job := hiring.Job{ID: 101, Title: "Engineer", Description: "Build things", Candidates: []hiring.Candidate{cand}}
	return job, cand
}
