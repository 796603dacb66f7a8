// Package kubofake serves the subset of the kubo RPC API used by the storage
// client: version, add and pin/add. Added content gets a real CIDv1 (raw, sha2-256).
package kubofake

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"

	"github.com/ipfs/go-cid"
	jsoniter "github.com/json-iterator/go"
	"github.com/multiformats/go-multihash"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server is an in-process kubo RPC endpoint.
type Server struct {
	*httptest.Server

	// Authorization, when set, is the only accepted Authorization header.
	Authorization string
	// FailAdd and FailPin make the corresponding command answer with an RPC error.
	FailAdd string
	FailPin string
	// AddStatus, when set, makes add answer with this HTTP status and a plain
	// text body, the way a gateway in front of the node does.
	AddStatus int

	gate chan struct{}

	mu      sync.Mutex
	content map[string][]byte
	pinned  map[string]bool

	versionCalls atomic.Int32
	addCalls     atomic.Int32
	pinCalls     atomic.Int32
}

// New starts a server. Close it with Server.Close.
func New() *Server {
	s := &Server{
		content: make(map[string][]byte),
		pinned:  make(map[string]bool),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v0/version", s.version)
	mux.HandleFunc("/api/v0/add", s.add)
	mux.HandleFunc("/api/v0/pin/add", s.pinAdd)
	s.Server = httptest.NewServer(s.authorize(mux))
	return s
}

// HoldVersion blocks version replies until the returned release func is called.
// Use it before building the client to observe the not-ready window.
func (s *Server) HoldVersion() (release func()) {
	s.gate = make(chan struct{})
	var once sync.Once
	return func() { once.Do(func() { close(s.gate) }) }
}

// Content returns what was added under c.
func (s *Server) Content(c string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.content[c]
	return b, ok
}

// Pinned reports whether c was pinned.
func (s *Server) Pinned(c string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pinned[c]
}

// Calls returns the number of version, add and pin/add requests served.
func (s *Server) Calls() (version, add, pin int) {
	return int(s.versionCalls.Load()), int(s.addCalls.Load()), int(s.pinCalls.Load())
}

func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Authorization != "" && r.Header.Get("Authorization") != s.Authorization {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, "invalid project id or project secret")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) version(w http.ResponseWriter, r *http.Request) {
	s.versionCalls.Add(1)
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-r.Context().Done():
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"Version": "0.36.0"})
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	s.addCalls.Add(1)
	if s.AddStatus != 0 {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(s.AddStatus)
		_, _ = io.WriteString(w, http.StatusText(s.AddStatus))
		return
	}
	if s.FailAdd != "" {
		rpcError(w, s.FailAdd)
		return
	}
	data, err := readFirstPart(r)
	if err != nil {
		rpcError(w, err.Error())
		return
	}
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		rpcError(w, err.Error())
		return
	}
	c := cid.NewCidV1(cid.Raw, sum).String()

	s.mu.Lock()
	s.content[c] = data
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"Name": c, "Hash": c, "Size": len(data)})
}

func (s *Server) pinAdd(w http.ResponseWriter, r *http.Request) {
	s.pinCalls.Add(1)
	if s.FailPin != "" {
		rpcError(w, s.FailPin)
		return
	}
	arg := r.URL.Query().Get("arg")
	s.mu.Lock()
	_, known := s.content[arg]
	if known {
		s.pinned[arg] = true
	}
	s.mu.Unlock()
	if !known {
		rpcError(w, "pin: block was not found locally (offline): "+arg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"Pins": []string{arg}})
}

func readFirstPart(r *http.Request) ([]byte, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}
	part, err := mr.NextPart()
	if err != nil {
		return nil, err
	}
	defer part.Close()
	return io.ReadAll(part)
}

func rpcError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusInternalServerError, map[string]any{"Message": msg, "Code": 0, "Type": "error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
