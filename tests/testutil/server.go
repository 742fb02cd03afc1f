package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minhvu/todopad/internal/model"
)

// Server is an in-memory todo service backing integration-style tests.
// State is exposed so tests can seed and inspect it directly.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	todos       map[int]model.Todo
	subtasks    map[int]model.Subtask
	attachments map[int]model.Attachment
	files       map[int][]byte
	nextID      int

	// Token, when non-empty, is the only accepted bearer credential.
	Token string
}

// NewServer starts a fake todo service and shuts it down with the test.
func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		todos:       make(map[int]model.Todo),
		subtasks:    make(map[int]model.Subtask),
		attachments: make(map[int]model.Attachment),
		files:       make(map[int][]byte),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /todos", s.listTodos)
	mux.HandleFunc("POST /todos", s.createTodo)
	mux.HandleFunc("GET /todos/{id}", s.getTodo)
	mux.HandleFunc("PUT /todos/{id}", s.updateTodo)
	mux.HandleFunc("DELETE /todos/{id}", s.deleteTodo)
	mux.HandleFunc("GET /subtasks/todo/{id}", s.listSubtasks)
	mux.HandleFunc("POST /subtasks", s.createSubtask)
	mux.HandleFunc("PUT /subtasks/{id}", s.updateSubtask)
	mux.HandleFunc("DELETE /subtasks/{id}", s.deleteSubtask)
	mux.HandleFunc("GET /attachments/todo/{id}", s.listAttachments)
	mux.HandleFunc("POST /attachments/todo/{id}", s.uploadAttachment)
	mux.HandleFunc("DELETE /attachments/{id}", s.deleteAttachment)
	// "GET /attachments/{id}/download" conflicts with "GET /attachments/todo/{id}"
	// in ServeMux (neither is more specific), so the last segment is checked by hand.
	mux.HandleFunc("GET /attachments/{id}/{action...}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("action") != "download" {
			http.NotFound(w, r)
			return
		}
		s.downloadAttachment(w, r)
	})

	s.Server = httptest.NewServer(s.withAuth(mux))
	t.Cleanup(s.Close)
	return s
}

// SeedTodo inserts a todo and returns it with its assigned identifier.
func (s *Server) SeedTodo(todo model.Todo) model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if todo.ID == 0 {
		todo.ID = s.allocID()
	}
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = model.NewDateTime(time.Now())
	}
	s.todos[todo.ID] = todo
	return todo
}

// SeedSubtask inserts a subtask and returns it with its assigned identifier.
func (s *Server) SeedSubtask(st model.Subtask) model.Subtask {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.ID == 0 {
		st.ID = s.allocID()
	}
	s.subtasks[st.ID] = st
	return st
}

// Todo returns the stored todo with the given identifier.
func (s *Server) Todo(id int) (model.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	return t, ok
}

// SubtasksOf returns every stored subtask of a todo.
func (s *Server) SubtasksOf(todoID int) []model.Subtask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtasksOfLocked(todoID)
}

// FileContent returns the uploaded bytes of an attachment.
func (s *Server) FileContent(attachmentID int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[attachmentID]
}

func (s *Server) allocID() int {
	s.nextID++
	return s.nextID
}

func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Token != "" && r.Header.Get("Authorization") != "Bearer "+s.Token {
			http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	s.mu.Lock()
	out := make([]model.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		if name == "" || containsFold(t.Title, name) {
			out = append(out, t)
		}
	}
	s.mu.Unlock()

	sortTodos(out)
	writeJSON(w, out)
}

func (s *Server) createTodo(w http.ResponseWriter, r *http.Request) {
	var t model.Todo
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	t.ID = s.allocID()
	t.CreatedAt = model.NewDateTime(time.Now())
	s.todos[t.ID] = t
	s.mu.Unlock()

	writeJSON(w, t)
}

func (s *Server) getTodo(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	s.mu.Lock()
	t, ok := s.todos[id]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, t)
}

func (s *Server) updateTodo(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	var in model.Todo
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	existing, ok := s.todos[id]
	if !ok {
		s.mu.Unlock()
		http.NotFound(w, r)
		return
	}
	in.ID = id
	in.CreatedAt = existing.CreatedAt
	s.todos[id] = in
	s.mu.Unlock()

	writeJSON(w, in)
}

func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	s.mu.Lock()
	delete(s.todos, id)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listSubtasks(w http.ResponseWriter, r *http.Request) {
	todoID := pathID(r)

	s.mu.Lock()
	out := s.subtasksOfLocked(todoID)
	s.mu.Unlock()

	writeJSON(w, out)
}

func (s *Server) createSubtask(w http.ResponseWriter, r *http.Request) {
	var st model.Subtask
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	st.ID = s.allocID()
	st.CreatedAt = model.NewDateTime(time.Now())
	s.subtasks[st.ID] = st
	s.mu.Unlock()

	writeJSON(w, st)
}

func (s *Server) updateSubtask(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	var in model.Subtask
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if _, ok := s.subtasks[id]; !ok {
		s.mu.Unlock()
		http.NotFound(w, r)
		return
	}
	in.ID = id
	s.subtasks[id] = in
	s.mu.Unlock()

	writeJSON(w, in)
}

func (s *Server) deleteSubtask(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	s.mu.Lock()
	delete(s.subtasks, id)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listAttachments(w http.ResponseWriter, r *http.Request) {
	todoID := pathID(r)

	s.mu.Lock()
	out := make([]model.Attachment, 0)
	for _, a := range s.attachments {
		if a.TodoID == todoID {
			out = append(out, a)
		}
	}
	s.mu.Unlock()

	writeJSON(w, out)
}

func (s *Server) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	todoID := pathID(r)

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	a := model.Attachment{
		ID:        s.allocID(),
		TodoID:    todoID,
		FileName:  header.Filename,
		FileSize:  int64(len(content)),
		CreatedAt: model.NewDateTime(time.Now()),
	}
	s.attachments[a.ID] = a
	s.files[a.ID] = content
	s.mu.Unlock()

	writeJSON(w, a)
}

func (s *Server) deleteAttachment(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	s.mu.Lock()
	delete(s.attachments, id)
	delete(s.files, id)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) downloadAttachment(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	s.mu.Lock()
	content, ok := s.files[id]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Write(content)
}

func (s *Server) subtasksOfLocked(todoID int) []model.Subtask {
	out := make([]model.Subtask, 0)
	for _, st := range s.subtasks {
		if st.TodoID == todoID {
			out = append(out, st)
		}
	}
	sortSubtasks(out)
	return out
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(r.PathValue("id"))
	return id
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic(fmt.Sprintf("encoding response: %v", err))
	}
}

func sortTodos(todos []model.Todo) {
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
}

func sortSubtasks(subtasks []model.Subtask) {
	sort.Slice(subtasks, func(i, j int) bool {
		return subtasks[i].Position < subtasks[j].Position
	})
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
