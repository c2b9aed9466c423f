package codehost

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRepoFromRemoteURL(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		owner  string
		repo   string
	}{
		{"ssh", "git@github.com:acme/widgets.git", "acme", "widgets"},
		{"ssh no suffix", "git@github.com:acme/widgets", "acme", "widgets"},
		{"https", "https://github.com/acme/widgets.git", "acme", "widgets"},
		{"https no suffix", "https://github.com/acme/widgets", "acme", "widgets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := RepoFromRemoteURL(tt.remote)
			if info == nil {
				t.Fatalf("RepoFromRemoteURL(%q) = nil", tt.remote)
			}
			if info.Owner != tt.owner || info.Name != tt.repo {
				t.Errorf("got %s/%s, want %s/%s", info.Owner, info.Name, tt.owner, tt.repo)
			}
		})
	}
}

func TestRepoFromRemoteURL_Unrecognized(t *testing.T) {
	for _, remote := range []string{"", "not a url", "https://github.com/onlyowner", "git@github.com"} {
		if info := RepoFromRemoteURL(remote); info != nil {
			t.Errorf("RepoFromRemoteURL(%q) = %+v, want nil", remote, info)
		}
	}
}

func TestBrowseURL(t *testing.T) {
	tests := []struct {
		name    string
		remote  string
		ref     string
		relPath string
		want    string
	}{
		{
			"file via ssh remote",
			"git@github.com:acme/widgets.git", "main", "pkg/store/store.go",
			"https://github.com/acme/widgets/blob/main/pkg/store/store.go",
		},
		{
			"file via https remote",
			"https://github.com/acme/widgets", "feature", "README.md",
			"https://github.com/acme/widgets/blob/feature/README.md",
		},
		{
			"repository root",
			"git@github.com:acme/widgets.git", "main", ".",
			"https://github.com/acme/widgets/tree/main",
		},
		{
			"empty path",
			"https://github.com/acme/widgets.git", "main", "",
			"https://github.com/acme/widgets/tree/main",
		},
		{
			"branch with slash",
			"git@github.com:acme/widgets.git", "feat/sync", "pkg",
			"https://github.com/acme/widgets/blob/feat%2Fsync/pkg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BrowseURL(tt.remote, tt.ref, tt.relPath)
			if !ok {
				t.Fatalf("BrowseURL(%q) not ok", tt.remote)
			}
			if got != tt.want {
				t.Errorf("BrowseURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBrowseURL_Unrecognized(t *testing.T) {
	if _, ok := BrowseURL("not a url", "main", "pkg"); ok {
		t.Error("BrowseURL should reject an unrecognized remote")
	}
}

func TestCreatePullRequest(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/repos/acme/widgets/pulls" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["title"] != "fix widget" || body["head"] != "feature" || body["base"] != "main" {
			t.Errorf("unexpected body: %v", body)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"number":   12,
			"title":    "fix widget",
			"html_url": "https://github.com/acme/widgets/pull/12",
			"state":    "open",
			"user":     map[string]string{"login": "alice"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok123", nil)
	pr := c.CreatePullRequest(context.Background(), "acme", "widgets", "fix widget", "body", "feature", "main")
	if pr == nil {
		t.Fatal("CreatePullRequest = nil, want pull request info")
	}
	if pr.Number != 12 || pr.Author != "alice" || pr.State != "open" {
		t.Errorf("pr = %+v", pr)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestCreatePullRequest_RejectedDegradesToNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil)
	if pr := c.CreatePullRequest(context.Background(), "a", "b", "t", "", "h", "m"); pr != nil {
		t.Errorf("pr = %+v, want nil on rejection", pr)
	}
}

func TestListPullRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/widgets/pulls" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("state"); got != "closed" {
			t.Errorf("state = %q, want closed", got)
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"number": 1, "title": "one", "state": "closed"},
			{"number": 2, "title": "two", "state": "closed"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil)
	prs := c.ListPullRequests(context.Background(), "acme", "widgets", "closed")
	if len(prs) != 2 {
		t.Fatalf("prs = %d, want 2", len(prs))
	}
	if prs[0].Number != 1 || prs[1].Title != "two" {
		t.Errorf("prs = %+v", prs)
	}
}

func TestListPullRequests_ServerErrorDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil)
	if prs := c.ListPullRequests(context.Background(), "a", "b", ""); len(prs) != 0 {
		t.Errorf("prs = %+v, want empty on failure", prs)
	}
}
