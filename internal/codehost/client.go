// Package codehost is a narrow REST client for the code-hosting service.
// Failures degrade to nil or empty results; the core treats absence as
// "feature unavailable" and omits the PR surfaces.
package codehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/marque-dev/marque/internal/bookmark"
	"github.com/marque-dev/marque/internal/logger"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// RepoInfo identifies a repository on the code host.
type RepoInfo struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// Client talks to the code-host REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	log        logger.Logger
}

// NewClient creates a client. An empty baseURL selects the public GitHub
// API. Without a token, calls that require authentication will fail and
// degrade.
func NewClient(baseURL, token string, log logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		log:        log,
	}
}

// prPayload is the wire shape of a pull request.
type prPayload struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
	State   string `json:"state"`
	User    struct {
		Login string `json:"login"`
	} `json:"user"`
}

func (p prPayload) toInfo() bookmark.PullRequestInfo {
	return bookmark.PullRequestInfo{
		Number: p.Number,
		Title:  p.Title,
		URL:    p.HTMLURL,
		State:  p.State,
		Author: p.User.Login,
	}
}

// CreatePullRequest opens a pull request. Returns nil on any failure.
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo, title, body, head, base string) *bookmark.PullRequestInfo {
	reqBody, err := json.Marshal(map[string]string{
		"title": title,
		"body":  body,
		"head":  head,
		"base":  base,
	})
	if err != nil {
		return nil
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/pulls", c.baseURL, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("create pull request failed", logger.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		c.log.Warn("create pull request rejected", logger.Int("status", resp.StatusCode))
		return nil
	}

	var payload prPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil
	}
	info := payload.toInfo()
	return &info
}

// ListPullRequests lists pull requests in the given state ("open",
// "closed", or "all"). Returns an empty slice on any failure.
func (c *Client) ListPullRequests(ctx context.Context, owner, repo, prState string) []bookmark.PullRequestInfo {
	if prState == "" {
		prState = "open"
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/pulls?state=%s", c.baseURL, owner, repo, url.QueryEscape(prState))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("list pull requests failed", logger.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("list pull requests rejected", logger.Int("status", resp.StatusCode))
		return nil
	}

	var payloads []prPayload
	if err := json.NewDecoder(resp.Body).Decode(&payloads); err != nil {
		return nil
	}

	infos := make([]bookmark.PullRequestInfo, 0, len(payloads))
	for _, p := range payloads {
		infos = append(infos, p.toInfo())
	}
	return infos
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// RepoFromRemoteURL parses owner and repository name from a git remote
// URL in ssh or https form. Returns nil when the URL is not recognized.
func RepoFromRemoteURL(remote string) *RepoInfo {
	_, repo := hostAndRepo(remote)
	return repo
}

// BrowseURL builds the code-host web page for relPath at ref, derived
// from the origin remote URL. relPath is slash-separated and relative to
// the repository root; empty or "." yields the tree root. ok is false
// when the remote is not recognized.
func BrowseURL(remote, ref, relPath string) (string, bool) {
	host, repo := hostAndRepo(remote)
	if repo == nil {
		return "", false
	}

	base := "https://" + host + "/" + repo.Owner + "/" + repo.Name
	if relPath == "" || relPath == "." {
		return base + "/tree/" + url.PathEscape(ref), true
	}

	segments := strings.Split(relPath, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return base + "/blob/" + url.PathEscape(ref) + "/" + strings.Join(segments, "/"), true
}

// hostAndRepo splits a git remote URL in ssh or https form into its host
// and owner/name parts.
func hostAndRepo(remote string) (string, *RepoInfo) {
	remote = strings.TrimSpace(remote)
	remote = strings.TrimSuffix(remote, ".git")

	// ssh form: git@host:owner/repo
	if at := strings.Index(remote, "@"); at >= 0 && !strings.Contains(remote, "://") {
		if colon := strings.Index(remote, ":"); colon > at {
			return remote[at+1 : colon], splitOwnerRepo(remote[colon+1:])
		}
		return "", nil
	}

	// https form: https://host/owner/repo
	u, err := url.Parse(remote)
	if err != nil || u.Host == "" {
		return "", nil
	}
	return u.Host, splitOwnerRepo(strings.Trim(u.Path, "/"))
}

func splitOwnerRepo(path string) *RepoInfo {
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil
	}
	return &RepoInfo{Owner: parts[0], Name: parts[1]}
}
