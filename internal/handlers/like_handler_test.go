package handlers

import (
	"net/http"
	"testing"
)

func TestLikeRequiresAuth(t *testing.T) {
	e := newTestServer(t)

	rec := doRequest(t, e, http.MethodPost, "/api/v1/post/p1/like", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous like, got %d", rec.Code)
	}

	rec = doRequest(t, e, http.MethodPost, "/api/v1/post/p1/unlike", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous unlike, got %d", rec.Code)
	}

	// The rejected attempts must not have mutated anything
	if count := likeCount(t, e, "p1"); count != 0 {
		t.Fatalf("expected count 0 after rejected likes, got %d", count)
	}
}

func TestLikeUnlikeFlow(t *testing.T) {
	e := newTestServer(t)
	access, _ := registerAndLogin(t, e, "alice")

	rec := doRequest(t, e, http.MethodPost, "/api/v1/post/p2/like", access, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for like, got %d (%s)", rec.Code, rec.Body.String())
	}
	if count := likeCount(t, e, "p2"); count != 1 {
		t.Fatalf("expected count 1 after like, got %d", count)
	}

	// Liking twice has the same effect as liking once
	rec = doRequest(t, e, http.MethodPost, "/api/v1/post/p2/like", access, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for repeated like, got %d", rec.Code)
	}
	if count := likeCount(t, e, "p2"); count != 1 {
		t.Fatalf("expected count 1 after repeated like, got %d", count)
	}

	rec = doRequest(t, e, http.MethodPost, "/api/v1/post/p2/unlike", access, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for unlike, got %d", rec.Code)
	}
	if count := likeCount(t, e, "p2"); count != 0 {
		t.Fatalf("expected count 0 after unlike, got %d", count)
	}

	// Unliking something no longer liked still succeeds
	rec = doRequest(t, e, http.MethodPost, "/api/v1/post/p2/unlike", access, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for repeated unlike, got %d", rec.Code)
	}
}

func TestLikeUnknownTarget(t *testing.T) {
	e := newTestServer(t)
	access, _ := registerAndLogin(t, e, "alice")

	rec := doRequest(t, e, http.MethodPost, "/api/v1/post/p9/like", access, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown target, got %d", rec.Code)
	}

	rec = doRequest(t, e, http.MethodPost, "/api/v1/post/p9/unlike", access, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown unlike target, got %d", rec.Code)
	}
}

func TestFansListing(t *testing.T) {
	e := newTestServer(t)
	aliceToken, _ := registerAndLogin(t, e, "alice")
	bobToken, _ := registerAndLogin(t, e, "bob")

	// Fans of an untouched post is an empty list, not an error
	rec := doRequest(t, e, http.MethodGet, "/api/v1/post/p1/fans", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for fans, got %d", rec.Code)
	}
	var fans []struct {
		Username string `json:"username"`
	}
	decodeJSON(t, rec, &fans)
	if len(fans) != 0 {
		t.Fatalf("expected no fans, got %d", len(fans))
	}

	doRequest(t, e, http.MethodPost, "/api/v1/post/p1/like", aliceToken, nil)
	doRequest(t, e, http.MethodPost, "/api/v1/post/p1/like", bobToken, nil)
	// A second like from alice must not duplicate her in the listing
	doRequest(t, e, http.MethodPost, "/api/v1/post/p1/like", aliceToken, nil)

	rec = doRequest(t, e, http.MethodGet, "/api/v1/post/p1/fans", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for fans, got %d", rec.Code)
	}
	fans = nil
	decodeJSON(t, rec, &fans)
	if len(fans) != 2 {
		t.Fatalf("expected 2 fans, got %d", len(fans))
	}
	seen := make(map[string]bool)
	for _, fan := range fans {
		if seen[fan.Username] {
			t.Fatalf("fan %s listed twice", fan.Username)
		}
		seen[fan.Username] = true
	}
	if !seen["alice"] || !seen["bob"] {
		t.Fatalf("expected alice and bob in fans, got %v", fans)
	}
}
