// Package confluencetest provides an in-memory stand-in for the parts of the Confluence
// Server REST API this tool talks to.  It understands just enough CQL to answer the queries
// the cleanup and preparation code issue, and records every request it sees.
package confluencetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/toothbrush/confluence-pmc-data/confluence"
)

const (
	Username = "admin"
	Token    = "s3cret"
)

// Item is one piece of content held by the fake.
type Item struct {
	ID          string
	Type        string
	Title       string
	SpaceKey    string
	Body        string
	Macros      []string
	Metadataset string

	trashed bool
}

// Request is what the fake saw, in arrival order.
type Request struct {
	Method   string
	Path     string
	RawQuery string
}

type Server struct {
	*httptest.Server

	mu        sync.Mutex
	nextID    int
	items     []*Item
	spaces    map[string]confluence.Space
	users     map[string]confluence.User
	processes map[string][]confluence.ProcessPage
	requests  []Request

	deleteStatus map[string]int
	purgeStatus  map[string]int

	// OnDelete, if set, is called (without the lock held) for every DELETE before it is
	// answered.  Tests use it to observe concurrency.
	OnDelete func(id string, purge bool)
}

func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		nextID:       1000,
		spaces:       map[string]confluence.Space{},
		users:        map[string]confluence.User{},
		processes:    map[string][]confluence.ProcessPage{},
		deleteStatus: map[string]int{},
		purgeStatus:  map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	t.Cleanup(s.Close)

	return s
}

// API returns a real client pointed at the fake.
func (s *Server) API(t testing.TB) *confluence.API {
	t.Helper()

	api, err := confluence.NewAPI(s.URL, Username, Token)
	if err != nil {
		t.Fatalf("confluencetest: couldn't create API: %v", err)
	}
	api.Client = s.Client()

	return api
}

func (s *Server) AddSpace(key string, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.spaces[key] = confluence.Space{ID: len(s.spaces) + 1, Key: key, Name: name, Type: "global"}
}

// AddContent stores an item and returns its (possibly generated) ID.
func (s *Server) AddContent(item Item) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addContentLocked(item)
}

func (s *Server) addContentLocked(item Item) string {
	if item.ID == "" {
		s.nextID++
		item.ID = strconv.Itoa(s.nextID)
	}
	if item.Type == "" {
		item.Type = "page"
	}
	s.items = append(s.items, &item)

	return item.ID
}

// AddContents stores count items of the given type and returns their IDs.
func (s *Server) AddContents(contentType string, count int, title string) []string {
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		ids = append(ids, s.AddContent(Item{
			Type:  contentType,
			Title: fmt.Sprintf("%s %d", title, i),
		}))
	}
	return ids
}

func (s *Server) AddUser(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[username] = confluence.User{Type: "known", Username: username, DisplayName: username}
}

func (s *Server) HasUser(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.users[username]
	return ok
}

func (s *Server) SetProcesses(processTypeID string, processes []confluence.ProcessPage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processes[processTypeID] = processes
}

// FailDelete makes the first-phase DELETE of id answer with status.
func (s *Server) FailDelete(id string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteStatus[id] = status
}

// FailPurge makes the purge DELETE of id answer with status.
func (s *Server) FailPurge(id string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeStatus[id] = status
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// CountRequests counts requests with the given method whose path starts with prefix.
func (s *Server) CountRequests(method string, prefix string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && strings.HasPrefix(r.Path, prefix) {
			n++
		}
	}
	return n
}

// Contents returns copies of all live (not trashed) items.
func (s *Server) Contents() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Item{}
	for _, item := range s.items {
		if !item.trashed {
			out = append(out, *item)
		}
	}
	return out
}

// Trashed returns the IDs of items sitting in the trash.
func (s *Server) Trashed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []string{}
	for _, item := range s.items {
		if item.trashed {
			out = append(out, item.ID)
		}
	}
	return out
}

var (
	spacePath  = regexp.MustCompile(`^/rest/api/space/([^/]+)$`)
	deletePath = regexp.MustCompile(`^/rest/api/content/([^/]+)$`)
)

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, RawQuery: r.URL.RawQuery})
	s.mu.Unlock()

	if user, pass, ok := r.BasicAuth(); !ok || user != Username || pass != Token {
		http.Error(w, `{"message":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && path == "/rest/api/content/search":
		s.handleContentSearch(w, r)
	case r.Method == http.MethodGet && path == "/rest/api/search":
		s.handleSearch(w, r)
	case r.Method == http.MethodGet && path == "/rest/api/search/user":
		s.handleUserSearch(w, r)
	case r.Method == http.MethodGet && path == "/rest/api/space":
		s.handleListSpaces(w, r)
	case r.Method == http.MethodGet && path == "/rest/api/user/current":
		writeJSON(w, http.StatusOK, confluence.User{Type: "known", Username: Username, DisplayName: "Administrator"})
	case r.Method == http.MethodGet && spacePath.MatchString(path):
		s.handleGetSpace(w, spacePath.FindStringSubmatch(path)[1])
	case r.Method == http.MethodGet && path == "/rest/communardo/qms/latest/process-search/process-pages":
		s.handleProcessPages(w, r)
	case r.Method == http.MethodPost && path == "/rest/api/content":
		s.handleCreateContent(w, r)
	case r.Method == http.MethodPost && path == "/rest/api/admin/user":
		s.handleCreateUser(w, r)
	case r.Method == http.MethodDelete && deletePath.MatchString(path):
		s.handleDelete(w, r, deletePath.FindStringSubmatch(path)[1])
	default:
		http.Error(w, "no such endpoint", http.StatusNotFound)
	}
}

func (s *Server) handleContentSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, _ := strconv.Atoi(q.Get("start"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = 25
	}

	clauses, order, err := parseCQL(q.Get("cql"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	matched := []*Item{}
	for _, item := range s.items {
		if item.trashed {
			continue
		}
		if s.matchesLocked(item, clauses) {
			matched = append(matched, item)
		}
	}

	switch order {
	case "title":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Title < matched[j].Title })
	case "created desc":
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	expand := q.Get("expand")
	results := []confluence.Content{}
	for i := start; i < len(matched) && i < start+limit; i++ {
		results = append(results, s.toContentLocked(matched[i], expand))
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, confluence.ContentSearchResponse{
		Results: results,
		Start:   start,
		Limit:   limit,
		Size:    len(results),
	})
}

func (s *Server) toContentLocked(item *Item, expand string) confluence.Content {
	c := confluence.Content{
		ID:     item.ID,
		Type:   item.Type,
		Status: "current",
		Title:  item.Title,
	}
	if strings.Contains(expand, "space") {
		space := s.spaces[item.SpaceKey]
		if space.Key == "" {
			space.Key = item.SpaceKey
		}
		c.Space = &space
	}
	if strings.Contains(expand, "body.storage") {
		c.Body = &confluence.Body{Storage: confluence.Storage{Value: item.Body, Representation: "storage"}}
	}
	return c
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = 25
	}

	clauses, _, err := parseCQL(q.Get("cql"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	titleToken := ""
	for _, c := range clauses {
		switch {
		case c.field == "type" && c.op == "=" && c.value == "space":
		case c.field == "title" && c.op == "~":
			titleToken = c.value
		default:
			http.Error(w, "fake only supports space searches", http.StatusBadRequest)
			return
		}
	}

	s.mu.Lock()
	keys := make([]string, 0, len(s.spaces))
	for k := range s.spaces {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	results := []confluence.SearchResult{}
	for _, k := range keys {
		space := s.spaces[k]
		if len(results) >= limit {
			break
		}
		if containsFold(space.Name, titleToken) {
			results = append(results, confluence.SearchResult{Title: space.Name, EntityType: "space", Space: &space})
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, confluence.SearchResponse{Results: results, Limit: limit, Size: len(results), TotalSize: len(results)})
}

func (s *Server) handleUserSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = 25
	}

	clauses, _, err := parseCQL(q.Get("cql"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name := ""
	for _, c := range clauses {
		if c.field == "user.fullname" || c.field == "user" {
			name = c.value
		}
	}

	s.mu.Lock()
	names := make([]string, 0, len(s.users))
	for k := range s.users {
		names = append(names, k)
	}
	sort.Strings(names)

	results := []confluence.SearchResult{}
	for _, n := range names {
		user := s.users[n]
		if len(results) >= limit {
			break
		}
		if containsFold(user.Username, name) || containsFold(user.DisplayName, name) {
			results = append(results, confluence.SearchResult{Title: user.DisplayName, EntityType: "user", User: &user})
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, confluence.SearchResponse{Results: results, Limit: limit, Size: len(results), TotalSize: len(results)})
}

func (s *Server) handleListSpaces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, _ := strconv.Atoi(q.Get("start"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = 25
	}

	s.mu.Lock()
	keys := make([]string, 0, len(s.spaces))
	for k := range s.spaces {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	results := []confluence.Space{}
	for i := start; i < len(keys) && i < start+limit; i++ {
		results = append(results, s.spaces[keys[i]])
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, confluence.AllSpaces{Results: results, Start: start, Limit: limit, Size: len(results)})
}

func (s *Server) handleGetSpace(w http.ResponseWriter, key string) {
	s.mu.Lock()
	space, ok := s.spaces[key]
	s.mu.Unlock()

	if !ok {
		http.Error(w, `{"message":"No space with key : `+key+`"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, space)
}

func (s *Server) handleProcessPages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("limit") != "12" || q.Get("offset") != "0" {
		http.Error(w, "process search expects limit=12&offset=0", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	processes := s.processes[q.Get("processTypePagePageId")]
	s.mu.Unlock()

	if processes == nil {
		processes = []confluence.ProcessPage{}
	}
	writeJSON(w, http.StatusOK, confluence.ProcessPagesResponse{Results: processes})
}

func (s *Server) handleCreateContent(w http.ResponseWriter, r *http.Request) {
	var doc confluence.NewContent
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if _, ok := s.spaces[doc.Space.Key]; !ok {
		s.mu.Unlock()
		http.Error(w, "space does not exist", http.StatusBadRequest)
		return
	}
	for _, item := range s.items {
		if !item.trashed && item.SpaceKey == doc.Space.Key && item.Title == doc.Title {
			s.mu.Unlock()
			http.Error(w, "A page with this title already exists", http.StatusBadRequest)
			return
		}
	}
	id := s.addContentLocked(Item{
		Type:     doc.Type,
		Title:    doc.Title,
		SpaceKey: doc.Space.Key,
		Body:     doc.Body.Storage.Value,
	})
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, confluence.Content{ID: id, Type: doc.Type, Status: "current", Title: doc.Title})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var doc confluence.NewUser
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.users[doc.UserName] = confluence.User{Type: "known", Username: doc.UserName, DisplayName: doc.FullName}
	s.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	purge := r.URL.Query().Get("status") == "trashed"

	if s.OnDelete != nil {
		s.OnDelete(id, purge)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	override := s.deleteStatus[id]
	if purge {
		override = s.purgeStatus[id]
	}
	if override != 0 {
		http.Error(w, fmt.Sprintf(`{"statusCode":%d,"message":"injected failure"}`, override), override)
		return
	}

	for i, item := range s.items {
		if item.ID != id {
			continue
		}
		if purge != item.trashed {
			break
		}
		if purge || item.Type == "comment" {
			// purged, or a comment, which never goes to the trash
			s.items = append(s.items[:i], s.items[i+1:]...)
		} else {
			item.trashed = true
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Error(w, `{"statusCode":404,"message":"No content found with id: `+id+`"}`, http.StatusNotFound)
}

func (s *Server) matchesLocked(item *Item, clauses []clause) bool {
	for _, c := range clauses {
		if !s.clauseMatchesLocked(item, c) {
			return false
		}
	}
	return true
}

func (s *Server) clauseMatchesLocked(item *Item, c clause) bool {
	switch c.field {
	case "type":
		return item.Type == c.value
	case "title":
		return containsFold(item.Title, c.value)
	case "macro":
		for _, m := range item.Macros {
			if m == c.value {
				return true
			}
		}
		return false
	case "space":
		if c.op == "!=" {
			return item.SpaceKey != c.value
		}
		return item.SpaceKey == c.value
	case "space.title":
		return !containsFold(s.spaces[item.SpaceKey].Name, c.value)
	case "metadataset":
		return item.Metadataset == c.value
	case "created":
		return true
	}
	return false
}

type clause struct {
	field string
	op    string
	value string
}

var (
	andSplit    = regexp.MustCompile(`(?i)\s+and\s+`)
	orderBy     = regexp.MustCompile(`(?i)\s+order\s+by\s+(.*)$`)
	clauseParts = regexp.MustCompile(`^\s*([a-zA-Z.]+)\s*(!=|!~|>=|=|~|>)\s*(.+?)\s*$`)
)

var supportedClauses = map[string]bool{
	"type=":          true,
	"title~":         true,
	"macro=":         true,
	"space=":         true,
	"space!=":        true,
	"space.title!~":  true,
	"metadataset=":   true,
	"created>=":      true,
	"user.fullname~": true,
	"user=":          true,
}

// parseCQL splits the conjunctive CQL this tool generates.  Anything else is rejected so that
// tests notice malformed queries.
func parseCQL(cql string) ([]clause, string, error) {
	order := ""
	if m := orderBy.FindStringSubmatch(cql); m != nil {
		order = strings.ToLower(strings.TrimSpace(m[1]))
		cql = cql[:len(cql)-len(m[0])]
	}

	clauses := []clause{}
	for _, part := range andSplit.Split(cql, -1) {
		m := clauseParts.FindStringSubmatch(part)
		if m == nil {
			return nil, "", fmt.Errorf("confluencetest: can't parse CQL clause %q", part)
		}
		c := clause{field: m[1], op: m[2], value: strings.Trim(m[3], `"`)}
		if _, ok := supportedClauses[c.field+c.op]; !ok {
			return nil, "", fmt.Errorf("confluencetest: unsupported CQL clause %q", part)
		}
		clauses = append(clauses, c)
	}

	return clauses, order, nil
}

func containsFold(s string, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
