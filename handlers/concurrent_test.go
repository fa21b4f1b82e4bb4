// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Pushkar-sharma02/e-Vote-Backend/models"
	"github.com/Pushkar-sharma02/e-Vote-Backend/testutil"
)

// TestConcurrentDoubleSubmission fires the same voter at every candidate at
// once; exactly one request may succeed.
func TestConcurrentDoubleSubmission(t *testing.T) {
	st, handler := setupCandidateHandler(t)
	voter := testutil.CreateTestUser(t, st, models.RoleVoter)

	parties := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"}
	candidates := make([]models.Candidate, len(parties))
	for i, p := range parties {
		candidates[i] = testutil.CreateTestCandidate(t, st, p, models.ElectionLokSabha)
	}

	const perCandidate = 4
	var wg sync.WaitGroup
	var okCount, rejectedCount atomic.Int32

	for _, c := range candidates {
		for i := 0; i < perCandidate; i++ {
			wg.Add(1)
			go func(candidateID string) {
				defer wg.Done()

				req := httptest.NewRequest("POST", "/candidates/vote/candidate/"+candidateID, nil)
				req.SetPathValue("candidateId", candidateID)
				w := httptest.NewRecorder()

				handler.Vote(w, asUser(req, voter))

				switch w.Code {
				case http.StatusOK:
					okCount.Add(1)
				case http.StatusBadRequest:
					rejectedCount.Add(1)
				default:
					t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
				}
			}(c.ID)
		}
	}
	wg.Wait()

	total := int32(len(candidates) * perCandidate)
	if okCount.Load() != 1 {
		t.Errorf("Expected exactly 1 accepted vote, got %d", okCount.Load())
	}
	if rejectedCount.Load() != total-1 {
		t.Errorf("Expected %d rejections, got %d", total-1, rejectedCount.Load())
	}

	sum := 0
	for _, c := range candidates {
		got, err := st.GetCandidate(context.Background(), c.ID)
		if err != nil {
			t.Fatal(err)
		}
		votes, err := st.CandidateVotes(context.Background(), c.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.VoteCount != len(votes) {
			t.Errorf("Candidate %s count %d does not match record %d", c.Party, got.VoteCount, len(votes))
		}
		sum += got.VoteCount
	}
	if sum != 1 {
		t.Errorf("Expected 1 vote in total, got %d", sum)
	}
}

// TestConcurrentVoters verifies simultaneous votes from distinct voters are
// all counted.
func TestConcurrentVoters(t *testing.T) {
	st, handler := setupCandidateHandler(t)
	cand := testutil.CreateTestCandidate(t, st, "Alpha", models.ElectionStateAssembly)

	const numVoters = 12
	voters := make([]models.User, numVoters)
	for i := range voters {
		voters[i] = testutil.CreateTestUser(t, st, models.RoleVoter)
	}

	var wg sync.WaitGroup
	var successCount atomic.Int32
	for _, v := range voters {
		wg.Add(1)
		go func(u models.User) {
			defer wg.Done()

			req := httptest.NewRequest("POST", "/candidates/vote/candidate/"+cand.ID, nil)
			req.SetPathValue("candidateId", cand.ID)
			w := httptest.NewRecorder()

			handler.Vote(w, asUser(req, u))

			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}(v)
	}
	wg.Wait()

	if successCount.Load() != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	got, _ := st.GetCandidate(context.Background(), cand.ID)
	if got.VoteCount != numVoters {
		t.Errorf("Expected vote count %d, got %d", numVoters, got.VoteCount)
	}
}

// TestConcurrentAdminSignup races several admin signups; at most one wins.
func TestConcurrentAdminSignup(t *testing.T) {
	_, handler := setupUserHandler(t)

	const attempts = 6
	var wg sync.WaitGroup
	var created atomic.Int32

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		body := signupRequest(testutil.NextAadhar(), models.RoleAdmin)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			handler.Signup(w, testutil.MakeRequest("POST", "/users/signup", body, nil))

			switch w.Code {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusBadRequest:
			default:
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}()
	}
	wg.Wait()

	if created.Load() != 1 {
		t.Errorf("Expected exactly 1 admin created, got %d", created.Load())
	}
}
