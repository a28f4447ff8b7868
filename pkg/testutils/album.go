package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"albumview/internal/paths"
	"albumview/pkg/types"
)

// PNGHeader is enough of a PNG for content sniffing.
var PNGHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// SessionCookie is the cookie the server hands out on GET /sessions.
const SessionCookie = "massPhotoSessionId"

// AlbumServer is an in-memory album backend served over httptest.
type AlbumServer struct {
	*httptest.Server

	mu       sync.Mutex
	listings map[string]types.Listing
	blobs    map[string][]byte
	status   map[string]int
	current  string
	requests []string

	// sessions maps a session id to the albums it unlocked.
	sessions map[string]map[string]bool
	locks    map[string]string
	comments map[string]string
}

// NewAlbumServer starts a backend with a small fixture album:
//
//	photos/            A.jpg B.jpg C.mp4
//	photos/2020/       x.jpg
//	photos/2021/
func NewAlbumServer(t *testing.T) *AlbumServer {
	t.Helper()
	s := &AlbumServer{
		listings: map[string]types.Listing{
			"": {Dirs: []types.Dir{{Path: "photos", FileCount: 3}}},
			"photos": {
				Dirs: []types.Dir{
					{Path: "2020", FileCount: 1, ImageFirst: "x.jpg"},
					{Path: "2021"},
				},
				Files: []types.File{
					{Path: "A.jpg", Basename: "A.jpg"},
					{Path: "B.jpg", Basename: "B.jpg"},
					{Path: "C.mp4", Basename: "C.mp4", Video: true},
				},
				HasAnyVideo: true,
				Owned:       true,
			},
			"photos/2020": {Files: []types.File{{Path: "x.jpg", Basename: "x.jpg"}}},
			"photos/2021": {},
		},
		blobs:    map[string][]byte{"photos/A.jpg": PNGHeader},
		status:   map[string]int{},
		sessions: map[string]map[string]bool{},
		locks:    map[string]string{},
		comments: map[string]string{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /file_list", s.handleList)
	mux.HandleFunc("GET /file_list/{path...}", s.handleList)
	mux.HandleFunc("GET /files", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		s.mu.Lock()
		cur := s.current
		s.mu.Unlock()
		s.writeListing(w, r, cur)
	})
	mux.HandleFunc("GET /files/{path...}", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		s.mu.Lock()
		data, ok := s.blobs[r.PathValue("path")]
		s.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	})
	mux.HandleFunc("POST /home", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		s.setCurrent("")
	})
	mux.HandleFunc("POST /up", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		s.mu.Lock()
		s.current = paths.Parent(s.current)
		s.mu.Unlock()
	})
	mux.HandleFunc("POST /left", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		s.moveSibling(-1)
	})
	mux.HandleFunc("POST /right", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		s.moveSibling(1)
	})
	mux.HandleFunc("POST /path", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		body, _ := io.ReadAll(r.Body)
		s.setCurrent(paths.Clean(string(body)))
	})
	mux.HandleFunc("GET /encrypt/{path...}", s.handleMutation)
	mux.HandleFunc("GET /shred/{path...}", s.handleMutation)
	mux.HandleFunc("GET /sessions", s.handleSession)
	mux.HandleFunc("POST /albums/{path...}", s.handleAlbum)
	mux.HandleFunc("GET /comments/{path...}", s.handleComment)
	mux.HandleFunc("POST /comments/{path...}", s.handleComment)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// SetStatus makes mutations of identity answer with code.
func (s *AlbumServer) SetStatus(identity string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[identity] = code
}

// SetListing replaces the listing served for path.
func (s *AlbumServer) SetListing(path string, l types.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[path] = l
}

// Lock protects album with password as its owner would.
func (s *AlbumServer) Lock(album, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locks[album] = password
}

// Locked reports whether album has a password.
func (s *AlbumServer) Locked(album string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locks[album] != ""
}

// Comment returns the comment stored for file.
func (s *AlbumServer) Comment(file string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comments[file]
}

// SetComment stores a comment for file.
func (s *AlbumServer) SetComment(file, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[file] = text
}

// Sessions returns how many sessions were handed out.
func (s *AlbumServer) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Current returns the server-side current directory.
func (s *AlbumServer) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Requests returns every request seen so far as "METHOD /path".
func (s *AlbumServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *AlbumServer) record(r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	s.mu.Unlock()
}

func (s *AlbumServer) setCurrent(p string) {
	s.mu.Lock()
	s.current = p
	s.mu.Unlock()
}

func (s *AlbumServer) handleList(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	s.writeListing(w, r, r.PathValue("path"))
}

func (s *AlbumServer) writeListing(w http.ResponseWriter, r *http.Request, p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[p]
	if !ok {
		http.NotFound(w, r)
		return
	}
	unlocked := s.sessions[sessionID(r)]
	if s.locks[p] != "" && !unlocked[p] {
		http.Error(w, "Forbidden to access password protected album", http.StatusForbidden)
		return
	}
	l.Path = p
	dirs := make([]types.Dir, len(l.Dirs))
	for i, d := range l.Dirs {
		full := paths.Join(p, d.Path)
		d.Locked = s.locks[full] != "" && !unlocked[full]
		dirs[i] = d
	}
	l.Dirs = dirs
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(l)
}

func sessionID(r *http.Request) string {
	ck, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return ck.Value
}

func (s *AlbumServer) handleSession(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID(r)]; !ok {
		id := uuid.NewString()
		s.sessions[id] = map[string]bool{}
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}
	io.WriteString(w, "Ok")
}

// handleAlbum serves POST /albums/{album}/lock and /albums/{album}/auth.
func (s *AlbumServer) handleAlbum(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	body, _ := io.ReadAll(r.Body)
	full := r.PathValue("path")
	album, action := paths.Parent(full), paths.Base(full)

	s.mu.Lock()
	defer s.mu.Unlock()
	unlocked, ok := s.sessions[sessionID(r)]
	if !ok {
		http.Error(w, "Session was not found; create a new session", http.StatusBadRequest)
		return
	}
	if _, ok := s.listings[album]; !ok {
		http.Error(w, "Directory not found", http.StatusNotFound)
		return
	}
	switch action {
	case "lock":
		s.locks[album] = string(body)
		io.WriteString(w, "ok")
	case "auth":
		if s.locks[album] == "" {
			http.Error(w, "File cannot be locked", http.StatusBadRequest)
			return
		}
		if s.locks[album] != string(body) {
			http.Error(w, "Incorrect Password", http.StatusNotAcceptable)
			return
		}
		unlocked[album] = true
		io.WriteString(w, "Ok")
	default:
		http.NotFound(w, r)
	}
}

func (s *AlbumServer) handleComment(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	file := r.PathValue("path")
	s.mu.Lock()
	defer s.mu.Unlock()
	dir := s.listings[paths.Parent(file)]
	found := false
	for _, f := range dir.Files {
		if paths.Join(paths.Parent(file), f.Path) == file {
			found = true
		}
	}
	if !found {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	if r.Method == http.MethodPost {
		body, _ := io.ReadAll(r.Body)
		s.comments[file] = strings.TrimSpace(string(body))
		return
	}
	io.WriteString(w, s.comments[file])
}

func (s *AlbumServer) handleMutation(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	id := r.PathValue("path")
	s.mu.Lock()
	code, ok := s.status[id]
	s.mu.Unlock()
	if !ok {
		code = http.StatusOK
	}
	w.WriteHeader(code)
	io.WriteString(w, http.StatusText(code))
}

func (s *AlbumServer) moveSibling(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	parent := paths.Parent(s.current)
	dirs := s.listings[parent].Dirs
	if len(dirs) == 0 {
		return
	}
	for i, d := range dirs {
		if paths.Join(parent, d.Path) == s.current {
			next := ((i+step)%len(dirs) + len(dirs)) % len(dirs)
			s.current = paths.Join(parent, dirs[next].Path)
			return
		}
	}
}
