// Package apitest runs an in-memory StreamTracker API for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/streamtracker/streamtracker/internal/api"
)

// BasePath is the API prefix served by Server.
const BasePath = "/api/v1"

// Request records one call received by the server.
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	RequestID     string
}

// Server is a fake API backed by maps. All methods are safe for concurrent
// use.
type Server struct {
	srv *httptest.Server

	mu         sync.Mutex
	users      map[string]string // email -> password
	userIDs    map[string]int
	access     map[string]string // token -> email
	refresh    map[string]string
	platforms  map[string][]api.Platform
	watchlist  map[string][]api.WatchlistItem
	failCreate map[string]bool
	requests   []Request
	nextID     int
	createGate chan struct{}
}

// New starts a server and stops it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		users:      make(map[string]string),
		userIDs:    make(map[string]int),
		access:     make(map[string]string),
		refresh:    make(map[string]string),
		platforms:  make(map[string][]api.Platform),
		watchlist:  make(map[string][]api.WatchlistItem),
		failCreate: make(map[string]bool),
	}
	s.srv = httptest.NewServer(s.router())
	t.Cleanup(s.srv.Close)
	return s
}

// BaseURL returns the URL to pass to api.New.
func (s *Server) BaseURL() string {
	return s.srv.URL + BasePath
}

// AddUser registers an account directly.
func (s *Server) AddUser(email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addUserLocked(email, password)
}

// IssueToken returns a fresh access token for an existing user.
func (s *Server) IssueToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	pair := s.issueLocked(email)
	return pair.AccessToken
}

// ExpireTokens invalidates every access token, so the next authenticated
// call returns 401.
func (s *Server) ExpireTokens() {
	s.mu.Lock()
	s.access = make(map[string]string)
	s.mu.Unlock()
}

// FailPlatformCreate makes POST /platforms/ return 500 for name.
func (s *Server) FailPlatformCreate(name string) {
	s.mu.Lock()
	s.failCreate[name] = true
	s.mu.Unlock()
}

// HoldPlatformCreates blocks every POST /platforms/ until the returned
// function is called.
func (s *Server) HoldPlatformCreates() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.createGate = gate
	s.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// Platforms returns the stored platforms of email.
func (s *Server) Platforms(email string) []api.Platform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Platform(nil), s.platforms[email]...)
}

// AddWatchlistItem stores an item for email and returns it.
func (s *Server) AddWatchlistItem(email string, item api.WatchlistCreate) api.WatchlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addItemLocked(email, item)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// CountRequests counts requests matching method and path.
func (s *Server) CountRequests(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record)
	v1 := r.PathPrefix(BasePath).Subrouter()

	v1.HandleFunc("/auth/register", s.handleRegister).Methods("POST")
	v1.HandleFunc("/auth/login", s.handleLogin).Methods("POST")
	v1.HandleFunc("/auth/refresh", s.handleRefresh).Methods("POST")
	v1.HandleFunc("/auth/me", s.authed(s.handleMe)).Methods("GET")

	v1.HandleFunc("/platforms/", s.authed(s.handleListPlatforms)).Methods("GET")
	v1.HandleFunc("/platforms/", s.authed(s.handleCreatePlatform)).Methods("POST")
	v1.HandleFunc("/platforms/{id:[0-9]+}", s.authed(s.handleUpdatePlatform)).Methods("PATCH")
	v1.HandleFunc("/platforms/{id:[0-9]+}", s.authed(s.handleDeletePlatform)).Methods("DELETE")

	v1.HandleFunc("/watchlist/", s.authed(s.handleListWatchlist)).Methods("GET")
	v1.HandleFunc("/watchlist/", s.authed(s.handleCreateItem)).Methods("POST")
	v1.HandleFunc("/watchlist/{id:[0-9]+}", s.authed(s.handleUpdateItem)).Methods("PATCH")
	v1.HandleFunc("/watchlist/{id:[0-9]+}", s.authed(s.handleDeleteItem)).Methods("DELETE")

	v1.HandleFunc("/insights/", s.authed(s.handleInsights)).Methods("GET")
	v1.HandleFunc("/discovery/", s.authed(s.handleDiscovery)).Methods("GET")
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          strings.TrimPrefix(r.URL.Path, BasePath),
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

type authedHandler func(w http.ResponseWriter, r *http.Request, email string)

func (s *Server) authed(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		email, ok := s.access[token]
		s.mu.Unlock()
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		h(w, r, email)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return false
	}
	return true
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func (s *Server) addUserLocked(email, password string) {
	s.nextID++
	s.users[email] = password
	s.userIDs[email] = s.nextID
}

func (s *Server) issueLocked(email string) api.TokenPair {
	pair := api.TokenPair{
		AccessToken:  "access-" + uuid.NewString(),
		RefreshToken: "refresh-" + uuid.NewString(),
		TokenType:    "bearer",
	}
	s.access[pair.AccessToken] = email
	s.refresh[pair.RefreshToken] = email
	return pair
}

func (s *Server) userLocked(email string) api.User {
	return api.User{ID: s.userIDs[email], Email: email, CreatedAt: api.Time{Time: time.Now().UTC()}}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if !decode(w, r, &body) {
		return
	}
	if len(body.Password) < 8 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": "String should have at least 8 characters"}},
		})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[body.Email]; exists {
		writeDetail(w, http.StatusConflict, "An account with this email already exists")
		return
	}
	s.addUserLocked(body.Email, body.Password)
	writeJSON(w, http.StatusCreated, s.userLocked(body.Email))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if pw, ok := s.users[body.Email]; !ok || pw != body.Password {
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	writeJSON(w, http.StatusOK, s.issueLocked(body.Email))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.refresh[body.RefreshToken]
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}
	delete(s.refresh, body.RefreshToken)
	writeJSON(w, http.StatusOK, s.issueLocked(email))
}

func (s *Server) handleMe(w http.ResponseWriter, _ *http.Request, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.userLocked(email))
}

func (s *Server) handleListPlatforms(w http.ResponseWriter, _ *http.Request, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]api.Platform{}, s.platforms[email]...)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePlatform(w http.ResponseWriter, r *http.Request, email string) {
	var body api.PlatformCreate
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	gate := s.createGate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate[body.Name] {
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if body.Color == "" {
		body.Color = api.DefaultPlatformColor
	}
	s.nextID++
	p := api.Platform{
		ID:           s.nextID,
		Name:         body.Name,
		Color:        body.Color,
		MonthlyCost:  body.MonthlyCost,
		IsSubscribed: body.IsSubscribed,
		CreatedAt:    api.Time{Time: time.Now().UTC()},
	}
	s.platforms[email] = append(s.platforms[email], p)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdatePlatform(w http.ResponseWriter, r *http.Request, email string) {
	var body api.PlatformUpdate
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	for i, p := range s.platforms[email] {
		if p.ID != id {
			continue
		}
		if body.Name != nil {
			p.Name = *body.Name
		}
		if body.Color != nil {
			p.Color = *body.Color
		}
		if body.MonthlyCost != nil {
			p.MonthlyCost = *body.MonthlyCost
		}
		if body.IsSubscribed != nil {
			p.IsSubscribed = *body.IsSubscribed
		}
		s.platforms[email][i] = p
		writeJSON(w, http.StatusOK, p)
		return
	}
	writeDetail(w, http.StatusNotFound, "Platform not found")
}

func (s *Server) handleDeletePlatform(w http.ResponseWriter, r *http.Request, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	list := s.platforms[email]
	for i, p := range list {
		if p.ID == id {
			s.platforms[email] = append(list[:i:i], list[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Platform not found")
}

func (s *Server) addItemLocked(email string, body api.WatchlistCreate) api.WatchlistItem {
	if body.Type == "" {
		body.Type = api.ItemMovie
	}
	if body.Status == "" {
		body.Status = api.StatusWantToWatch
	}
	s.nextID++
	item := api.WatchlistItem{
		ID:           s.nextID,
		Title:        body.Title,
		Type:         body.Type,
		Status:       body.Status,
		PlatformName: body.PlatformName,
		PosterURL:    body.PosterURL,
		Notes:        body.Notes,
		AddedAt:      api.Time{Time: time.Now().UTC()},
	}
	s.watchlist[email] = append(s.watchlist[email], item)
	return item
}

func (s *Server) handleListWatchlist(w http.ResponseWriter, r *http.Request, email string) {
	status := r.URL.Query().Get("status")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.WatchlistItem{}
	for _, it := range s.watchlist[email] {
		if status == "" || string(it.Status) == status {
			out = append(out, it)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request, email string) {
	var body api.WatchlistCreate
	if !decode(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Title is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusCreated, s.addItemLocked(email, body))
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request, email string) {
	var body api.WatchlistUpdate
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	for i, it := range s.watchlist[email] {
		if it.ID != id {
			continue
		}
		if body.Title != nil {
			it.Title = *body.Title
		}
		if body.Type != nil {
			it.Type = *body.Type
		}
		if body.Status != nil {
			it.Status = *body.Status
		}
		if body.PlatformName != nil {
			it.PlatformName = body.PlatformName
		}
		if body.Notes != nil {
			it.Notes = body.Notes
		}
		s.watchlist[email][i] = it
		writeJSON(w, http.StatusOK, it)
		return
	}
	writeDetail(w, http.StatusNotFound, "Item not found")
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	list := s.watchlist[email]
	for i, it := range list {
		if it.ID == id {
			s.watchlist[email] = append(list[:i:i], list[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Item not found")
}

// handleInsights returns a fixed-shape summary: every subscribed platform is
// recommended "keep" with its share of items as the value score.
func (s *Server) handleInsights(w http.ResponseWriter, _ *http.Request, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := api.Insights{
		GeneratedAt:      api.Time{Time: time.Now().UTC()},
		Recommendations:  []api.Recommendation{},
		PlatformFeatures: []api.PlatformFeatures{},
	}
	for _, p := range s.platforms[email] {
		if !p.IsSubscribed {
			continue
		}
		out.TotalMonthlySpend += p.MonthlyCost
		out.SubscribedPlatformCount++
		total := 0
		for _, it := range s.watchlist[email] {
			if it.PlatformName != nil && *it.PlatformName == p.Name {
				total++
			}
		}
		out.Recommendations = append(out.Recommendations, api.Recommendation{
			PlatformID:    p.ID,
			PlatformName:  p.Name,
			PlatformColor: p.Color,
			MonthlyCost:   p.MonthlyCost,
			ValueScore:    float64(min(total*10, 100)),
			Action:        "keep",
			Confidence:    "medium",
			Reason:        "Fixture recommendation",
		})
		out.PlatformFeatures = append(out.PlatformFeatures, api.PlatformFeatures{
			PlatformID:   p.ID,
			PlatformName: p.Name,
			MonthlyCost:  p.MonthlyCost,
			TotalItems:   total,
		})
	}
	if len(s.watchlist[email]) == 0 {
		note := "Add watchlist items to improve recommendations."
		out.DataCoverageNote = &note
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDiscovery(w http.ResponseWriter, _ *http.Request, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := api.Discovery{
		ContinueWatching:  []api.SlimItem{},
		UpNext:            []api.SlimItem{},
		RecentlyCompleted: []api.SlimItem{},
		PlatformBreakdown: []api.PlatformBreakdown{},
	}
	byPlatform := map[string]*api.PlatformBreakdown{}
	for _, it := range s.watchlist[email] {
		slim := api.SlimItem{
			ID: it.ID, Title: it.Title, Type: string(it.Type), Status: string(it.Status),
			PlatformName: it.PlatformName, PosterURL: it.PosterURL, AddedAt: it.AddedAt,
		}
		out.Stats.TotalItems++
		switch it.Status {
		case api.StatusWatching:
			out.Stats.Watching++
			out.ContinueWatching = append(out.ContinueWatching, slim)
		case api.StatusWantToWatch:
			out.Stats.WantToWatch++
			out.UpNext = append(out.UpNext, slim)
		case api.StatusWatched:
			out.Stats.Watched++
			out.RecentlyCompleted = append(out.RecentlyCompleted, slim)
		}
		if it.Status != api.StatusWatched {
			if it.Type == api.ItemMovie {
				out.Stats.EstimatedHoursRemaining += 2
			} else {
				out.Stats.EstimatedHoursRemaining += 0.75
			}
		}
		if it.PlatformName != nil {
			b, ok := byPlatform[*it.PlatformName]
			if !ok {
				b = &api.PlatformBreakdown{PlatformName: *it.PlatformName}
				byPlatform[*it.PlatformName] = b
			}
			b.Total++
		}
	}
	for _, p := range s.platforms[email] {
		out.Stats.TotalPlatforms++
		if p.IsSubscribed {
			out.Stats.SubscribedPlatforms++
		}
		if b, ok := byPlatform[p.Name]; ok {
			b.Color = p.Color
			b.IsSubscribed = p.IsSubscribed
		}
	}
	for _, b := range byPlatform {
		out.PlatformBreakdown = append(out.PlatformBreakdown, *b)
	}
	sort.Slice(out.PlatformBreakdown, func(i, j int) bool {
		return out.PlatformBreakdown[i].Total > out.PlatformBreakdown[j].Total
	})
	writeJSON(w, http.StatusOK, out)
}
