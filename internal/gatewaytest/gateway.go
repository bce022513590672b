// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package gatewaytest provides an in-memory GemFire REST gateway for tests.
//
// The gateway implements the region, query and function endpoints of
// /gemfire-api/v1 closely enough to exercise the client: create answers 409
// for existing keys, replace answers 404 for missing keys and compare-and-set
// answers 409 when the stored value differs from "@old". Every request is
// recorded and failures can be injected with FailNext.
package gatewaytest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// APIPath is the path prefix served by the gateway
const APIPath = "/gemfire-api/v1"

// Request is a recorded call to the gateway
type Request struct {
	Method   string
	Path     string // escaped path, e.g. /gemfire-api/v1/orders/a%20b,3
	RawQuery string
	Body     string
	Header   http.Header
}

// Function is a server-side function callable through /functions/{id}
type Function func(region string, args json.RawMessage) (any, error)

// Server is a fake gateway backed by httptest.Server
type Server struct {
	srv *httptest.Server

	regions   *xsync.MapOf[string, *region]
	queries   *xsync.MapOf[string, string]
	functions *xsync.MapOf[string, Function]

	mu       sync.Mutex
	requests []Request
	faults   []int
	username string
	password string
}

// region keeps entries in insertion order, like the gateway's ?ALL and keys listings
type region struct {
	name string
	typ  string

	mu     sync.Mutex
	order  []string
	values map[string]json.RawMessage
}

// NewServer starts a gateway without regions. Call Close when done.
func NewServer() *Server {
	s := &Server{
		regions:   xsync.NewMapOf[string, *region](),
		queries:   xsync.NewMapOf[string, string](),
		functions: xsync.NewMapOf[string, Function](),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// URL returns the API root, e.g. http://127.0.0.1:1234/gemfire-api/v1
func (s *Server) URL() string {
	return s.srv.URL + APIPath
}

// Close shuts the gateway down
func (s *Server) Close() {
	s.srv.Close()
}

// AddRegion creates an empty region. typ is e.g. "REPLICATE" or "PARTITION_REDUNDANT".
func (s *Server) AddRegion(name, typ string) {
	s.regions.Store(name, &region{name: name, typ: typ, values: map[string]json.RawMessage{}})
}

// AddFunction deploys fn under id
func (s *Server) AddFunction(id string, fn Function) {
	s.functions.Store(id, fn)
}

// RequireAuth makes every request without matching basic auth fail with 401
func (s *Server) RequireAuth(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
	s.password = password
}

// FailNext answers the next len(statuses) requests with the given status codes
func (s *Server) FailNext(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, statuses...)
}

// Requests returns a copy of all recorded requests
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// ResetRequests forgets all recorded requests
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// Seed stores raw JSON under key, bypassing the REST API
func (s *Server) Seed(regionName, key, raw string) {
	r, ok := s.regions.Load(regionName)
	if !ok {
		panic(fmt.Sprintf("gatewaytest: unknown region %q", regionName))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(key, json.RawMessage(raw))
}

// Value returns the raw JSON stored under key
func (s *Server) Value(regionName, key string) (string, bool) {
	r, ok := s.regions.Load(regionName)
	if !ok {
		return "", false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key]
	return string(v), ok
}

// Len returns the number of entries in a region
func (s *Server) Len(regionName string) int {
	r, ok := s.regions.Load(regionName)
	if !ok {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

func (s *Server) handle(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:   req.Method,
		Path:     req.URL.EscapedPath(),
		RawQuery: req.URL.RawQuery,
		Body:     string(body),
		Header:   req.Header.Clone(),
	})
	fault := 0
	if len(s.faults) > 0 {
		fault = s.faults[0]
		s.faults = s.faults[1:]
	}
	username, password := s.username, s.password
	s.mu.Unlock()

	if fault != 0 {
		writeError(w, fault, "injected failure")
		return
	}
	if username != "" || password != "" {
		u, p, ok := req.BasicAuth()
		if !ok || u != username || p != password {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
	}

	path := req.URL.EscapedPath()
	if !strings.HasPrefix(path, APIPath) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	rest := strings.Trim(strings.TrimPrefix(path, APIPath), "/")
	segments := []string{}
	if rest != "" {
		segments = strings.Split(rest, "/")
	}

	switch {
	case len(segments) == 0:
		s.listRegions(w, req)
	case segments[0] == "ping":
		writeJSON(w, http.StatusOK, nil)
	case segments[0] == "queries":
		s.handleQueries(w, req, segments[1:], body)
	case segments[0] == "functions":
		s.handleFunctions(w, req, segments[1:], body)
	default:
		s.handleRegion(w, req, segments, body)
	}
}

func (s *Server) listRegions(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	type regionInfo struct {
		Name            string  `json:"name"`
		Type            string  `json:"type"`
		KeyConstraint   *string `json:"key-constraint"`
		ValueConstraint *string `json:"value-constraint"`
	}
	infos := []regionInfo{}
	s.regions.Range(func(_ string, r *region) bool {
		infos = append(infos, regionInfo{Name: r.name, Type: r.typ})
		return true
	})
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	writeJSON(w, http.StatusOK, map[string]any{"regions": infos})
}

func (s *Server) handleRegion(w http.ResponseWriter, req *http.Request, segments []string, body []byte) {
	name, err := url.PathUnescape(segments[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	r, ok := s.regions.Load(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("region %s not found", name))
		return
	}
	if len(segments) > 2 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	query := req.URL.Query()

	if len(segments) == 1 {
		switch req.Method {
		case http.MethodGet:
			if !query.Has("ALL") {
				writeError(w, http.StatusBadRequest, "missing ALL parameter")
				return
			}
			values := make([]json.RawMessage, 0, len(r.order))
			for _, k := range r.order {
				values = append(values, r.values[k])
			}
			writeJSON(w, http.StatusOK, map[string]any{r.name: values})
		case http.MethodPost:
			key := query.Get("key")
			if key == "" {
				writeError(w, http.StatusBadRequest, "missing key parameter")
				return
			}
			if !json.Valid(body) {
				writeError(w, http.StatusBadRequest, "malformed JSON")
				return
			}
			if _, exists := r.values[key]; exists {
				writeError(w, http.StatusConflict, fmt.Sprintf("key %s already exists", key))
				return
			}
			r.put(key, body)
			w.Header().Set("Location", req.URL.Path+"/"+url.PathEscape(key))
			w.WriteHeader(http.StatusCreated)
		case http.MethodDelete:
			if !strings.HasPrefix(r.typ, "REPLICATE") {
				writeError(w, http.StatusInternalServerError, "clear is not supported on partitioned regions")
				return
			}
			r.order = nil
			r.values = map[string]json.RawMessage{}
			w.WriteHeader(http.StatusOK)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if segments[1] == "keys" && req.Method == http.MethodGet {
		keys := make([]string, len(r.order))
		copy(keys, r.order)
		writeJSON(w, http.StatusOK, map[string]any{"keys": keys})
		return
	}

	keys, err := splitKeys(segments[1])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch req.Method {
	case http.MethodGet:
		r.get(w, keys, query.Get("ignoreMissingKey") == "true")
	case http.MethodPut:
		r.update(w, keys, query.Get("op"), body)
	case http.MethodDelete:
		for _, k := range keys {
			r.delete(k)
		}
		w.WriteHeader(http.StatusOK)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (r *region) get(w http.ResponseWriter, keys []string, ignoreMissing bool) {
	if len(keys) == 1 {
		v, ok := r.values[keys[0]]
		if !ok {
			if ignoreMissing {
				w.WriteHeader(http.StatusOK)
				return
			}
			writeError(w, http.StatusNotFound, fmt.Sprintf("key %s not found", keys[0]))
			return
		}
		writeRaw(w, http.StatusOK, v)
		return
	}

	values := make([]json.RawMessage, len(keys))
	for i, k := range keys {
		v, ok := r.values[k]
		if !ok && !ignoreMissing {
			writeError(w, http.StatusNotFound, fmt.Sprintf("key %s not found", k))
			return
		}
		if !ok {
			v = json.RawMessage("null")
		}
		values[i] = v
	}
	writeJSON(w, http.StatusOK, map[string]any{r.name: values})
}

func (r *region) update(w http.ResponseWriter, keys []string, op string, body []byte) {
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "malformed JSON")
		return
	}

	if len(keys) > 1 {
		var values []json.RawMessage
		if err := json.Unmarshal(body, &values); err != nil || len(values) != len(keys) {
			writeError(w, http.StatusBadRequest, "body must be a list with one value per key")
			return
		}
		for i, k := range keys {
			r.put(k, values[i])
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	key := keys[0]
	switch strings.ToUpper(op) {
	case "":
		r.put(key, body)
	case "REPLACE":
		if _, ok := r.values[key]; !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("key %s not found", key))
			return
		}
		r.put(key, body)
	case "CAS":
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			writeError(w, http.StatusBadRequest, "malformed CAS envelope")
			return
		}
		oldValue, hasOld := envelope["@old"]
		newValue, hasNew := envelope["@new"]
		if !hasOld || !hasNew {
			writeError(w, http.StatusBadRequest, "CAS requires @old and @new")
			return
		}
		current, ok := r.values[key]
		if !ok || !sameJSON(current, oldValue) {
			writeRaw(w, http.StatusConflict, current)
			return
		}
		r.put(key, newValue)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported op %s", op))
		return
	}
	w.WriteHeader(http.StatusOK)
}

// put stores v and keeps first-insertion order; caller holds r.mu
func (r *region) put(key string, v json.RawMessage) {
	if _, ok := r.values[key]; !ok {
		r.order = append(r.order, key)
	}
	r.values[key] = append(json.RawMessage(nil), v...)
}

// delete removes key; caller holds r.mu
func (r *region) delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (s *Server) handleQueries(w http.ResponseWriter, req *http.Request, segments []string, body []byte) {
	query := req.URL.Query()

	switch {
	case len(segments) == 0 && req.Method == http.MethodGet:
		type queryInfo struct {
			ID  string `json:"id"`
			OQL string `json:"oql"`
		}
		infos := []queryInfo{}
		s.queries.Range(func(id, oql string) bool {
			infos = append(infos, queryInfo{ID: id, OQL: oql})
			return true
		})
		sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
		writeJSON(w, http.StatusOK, map[string]any{"queries": infos})

	case len(segments) == 0 && req.Method == http.MethodPost:
		id, oql := query.Get("id"), query.Get("q")
		if id == "" || oql == "" {
			writeError(w, http.StatusBadRequest, "id and q are required")
			return
		}
		if _, loaded := s.queries.LoadOrStore(id, oql); loaded {
			writeError(w, http.StatusConflict, fmt.Sprintf("query %s already exists", id))
			return
		}
		w.WriteHeader(http.StatusCreated)

	case len(segments) == 1 && segments[0] == "adhoc" && req.Method == http.MethodGet:
		s.runOQL(w, query.Get("q"))

	case len(segments) == 1 && req.Method == http.MethodPost:
		id, _ := url.PathUnescape(segments[0])
		oql, ok := s.queries.Load(id)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("query %s not found", id))
			return
		}
		if len(body) > 0 && !json.Valid(body) {
			writeError(w, http.StatusBadRequest, "malformed JSON")
			return
		}
		s.runOQL(w, oql)

	case len(segments) == 1 && req.Method == http.MethodDelete:
		id, _ := url.PathUnescape(segments[0])
		if _, ok := s.queries.LoadAndDelete(id); !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("query %s not found", id))
			return
		}
		w.WriteHeader(http.StatusOK)

	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// runOQL understands only "SELECT * FROM /<region>" and answers the region's values
func (s *Server) runOQL(w http.ResponseWriter, oql string) {
	const prefix = "SELECT * FROM /"
	if !strings.HasPrefix(strings.ToUpper(oql), prefix) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported query: %s", oql))
		return
	}
	name := strings.Fields(oql[len(prefix):])
	if len(name) == 0 {
		writeError(w, http.StatusBadRequest, "missing region")
		return
	}
	r, ok := s.regions.Load(name[0])
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("region /%s not found", name[0]))
		return
	}

	r.mu.Lock()
	values := make([]json.RawMessage, 0, len(r.order))
	for _, k := range r.order {
		values = append(values, r.values[k])
	}
	r.mu.Unlock()
	writeJSON(w, http.StatusOK, values)
}

func (s *Server) handleFunctions(w http.ResponseWriter, req *http.Request, segments []string, body []byte) {
	switch {
	case len(segments) == 0 && req.Method == http.MethodGet:
		ids := []string{}
		s.functions.Range(func(id string, _ Function) bool {
			ids = append(ids, id)
			return true
		})
		sort.Strings(ids)
		writeJSON(w, http.StatusOK, map[string]any{"functions": ids})

	case len(segments) == 1 && req.Method == http.MethodPost:
		id, _ := url.PathUnescape(segments[0])
		fn, ok := s.functions.Load(id)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("function %s not found", id))
			return
		}
		regionName := req.URL.Query().Get("onRegion")
		if regionName != "" {
			if _, ok := s.regions.Load(regionName); !ok {
				writeError(w, http.StatusNotFound, fmt.Sprintf("region %s not found", regionName))
				return
			}
		}
		if len(body) > 0 && !json.Valid(body) {
			writeError(w, http.StatusBadRequest, "malformed JSON")
			return
		}
		result, err := fn(regionName, json.RawMessage(body))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, result)

	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// splitKeys unescapes a key segment and splits it on commas. An escaped
// comma separates keys too.
func splitKeys(segment string) ([]string, error) {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return nil, fmt.Errorf("invalid keys %q: %w", segment, err)
	}
	parts := strings.Split(decoded, ",")
	keys := make([]string, 0, len(parts))
	for _, k := range parts {
		if k == "" {
			return nil, fmt.Errorf("empty key")
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// sameJSON compares two JSON documents ignoring formatting and field order
func sameJSON(a, b json.RawMessage) bool {
	var va, vb any
	if json.Unmarshal(a, &va) != nil || json.Unmarshal(b, &vb) != nil {
		return false
	}
	ca, _ := json.Marshal(va)
	cb, _ := json.Marshal(vb)
	return string(ca) == string(cb)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	if v == nil {
		w.WriteHeader(status)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeRaw(w, status, data)
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, cause string) {
	data, _ := json.Marshal(map[string]string{"cause": cause})
	writeRaw(w, status, data)
}
