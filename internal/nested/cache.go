// Package nested caches per-todo subtasks and attachments. Entries are
// populated lazily on first expansion and refetched wholesale after
// every mutation: nested collections are small, so the extra round trip
// buys freedom from local/server drift.
package nested

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/minhvu/todopad/internal/api"
	"github.com/minhvu/todopad/internal/mode"
	"github.com/minhvu/todopad/internal/model"
	"github.com/minhvu/todopad/internal/session"
	"github.com/minhvu/todopad/internal/todo"
)

// entry is the cache slot for one parent todo. Subtasks and attachments
// are fetched and expanded independently.
type entry struct {
	subtasks         []model.Subtask
	subtasksFetched  bool
	subtasksExpanded bool

	attachments         []model.Attachment
	attachmentsFetched  bool
	attachmentsExpanded bool

	uploadID       string
	uploadFraction float64
}

// Cache lazily fetches and stores the nested resources of todo items.
// Only one component mutates these entries; the list controller never
// reaches in, and vice versa.
type Cache struct {
	api     *api.Client
	session *session.Session
	log     zerolog.Logger

	// MaxUploadBytes caps UploadFile sizes when positive. Set once at
	// startup from configuration, before the cache sees any traffic.
	MaxUploadBytes int64

	mu      sync.Mutex
	entries map[int]*entry
}

// NewCache wires the cache to its collaborators.
func NewCache(client *api.Client, sess *session.Session, log zerolog.Logger) *Cache {
	return &Cache{
		api:     client,
		session: sess,
		log:     log,
		entries: make(map[int]*entry),
	}
}

// ToggleSubtasks flips the subtask panel for a todo. The first expansion
// of a given parent triggers exactly one fetch; later toggles only flip
// visibility until a mutation invalidates the entry.
func (c *Cache) ToggleSubtasks(ctx context.Context, todoID int) (bool, error) {
	if _, err := mode.Select(mode.OpSubtasks, c.session.Authenticated()); err != nil {
		return false, err
	}

	c.mu.Lock()
	e := c.entry(todoID)
	e.subtasksExpanded = !e.subtasksExpanded
	expanded := e.subtasksExpanded
	needsFetch := expanded && !e.subtasksFetched
	c.mu.Unlock()

	if needsFetch {
		if err := c.refetchSubtasks(ctx, todoID); err != nil {
			return expanded, err
		}
	}
	return expanded, nil
}

// ToggleAttachments flips the attachment panel for a todo, fetching on
// first expansion like ToggleSubtasks.
func (c *Cache) ToggleAttachments(ctx context.Context, todoID int) (bool, error) {
	if _, err := mode.Select(mode.OpAttachments, c.session.Authenticated()); err != nil {
		return false, err
	}

	c.mu.Lock()
	e := c.entry(todoID)
	e.attachmentsExpanded = !e.attachmentsExpanded
	expanded := e.attachmentsExpanded
	needsFetch := expanded && !e.attachmentsFetched
	c.mu.Unlock()

	if needsFetch {
		if err := c.refetchAttachments(ctx, todoID); err != nil {
			return expanded, err
		}
	}
	return expanded, nil
}

// AddSubtask creates a subtask under the given todo. The position is the
// current cached sibling count (0 when uncached); positions are never
// renumbered afterwards, so deletions leave gaps.
func (c *Cache) AddSubtask(ctx context.Context, todoID int, title string) error {
	if _, err := mode.Select(mode.OpSubtasks, c.session.Authenticated()); err != nil {
		return err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return &todo.ValidationError{Message: "subtask text must not be empty"}
	}

	c.mu.Lock()
	position := 0
	if e, ok := c.entries[todoID]; ok && e.subtasksFetched {
		position = len(e.subtasks)
	}
	c.mu.Unlock()

	_, err := c.api.CreateSubtask(ctx, model.Subtask{
		TodoID:   todoID,
		Title:    title,
		Position: position,
	})
	if err != nil {
		return fmt.Errorf("adding subtask: %w", err)
	}

	return c.refetchSubtasks(ctx, todoID)
}

// ToggleSubtask flips a subtask's completion flag and re-submits the
// full record.
func (c *Cache) ToggleSubtask(ctx context.Context, subtask model.Subtask) error {
	if _, err := mode.Select(mode.OpSubtasks, c.session.Authenticated()); err != nil {
		return err
	}

	subtask.IsCompleted = !subtask.IsCompleted
	if _, err := c.api.UpdateSubtask(ctx, subtask); err != nil {
		return fmt.Errorf("updating subtask %d: %w", subtask.ID, err)
	}

	return c.refetchSubtasks(ctx, subtask.TodoID)
}

// DeleteSubtask removes a subtask. The interactive confirmation happens
// before this call.
func (c *Cache) DeleteSubtask(ctx context.Context, todoID, subtaskID int) error {
	if _, err := mode.Select(mode.OpSubtasks, c.session.Authenticated()); err != nil {
		return err
	}

	if err := c.api.DeleteSubtask(ctx, subtaskID); err != nil {
		return fmt.Errorf("deleting subtask %d: %w", subtaskID, err)
	}

	return c.refetchSubtasks(ctx, todoID)
}

// Upload sends file content to the server as an attachment of the given
// todo, tracking fractional progress per parent. Each upload gets its
// own handle so a superseded upload's progress events are discarded.
func (c *Cache) Upload(ctx context.Context, todoID int, fileName string, content io.Reader) error {
	if _, err := mode.Select(mode.OpAttachments, c.session.Authenticated()); err != nil {
		return err
	}

	handle := uuid.New().String()

	c.mu.Lock()
	e := c.entry(todoID)
	e.uploadID = handle
	e.uploadFraction = 0
	c.mu.Unlock()

	_, err := c.api.UploadAttachment(ctx, todoID, fileName, content,
		func(fraction float64) {
			c.mu.Lock()
			if e, ok := c.entries[todoID]; ok && e.uploadID == handle {
				e.uploadFraction = fraction
			}
			c.mu.Unlock()
		},
	)

	c.mu.Lock()
	if e, ok := c.entries[todoID]; ok && e.uploadID == handle {
		e.uploadID = ""
		e.uploadFraction = 0
	}
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("uploading %s: %w", fileName, err)
	}

	return c.refetchAttachments(ctx, todoID)
}

// UploadFile uploads a file from disk, using its base name. Files over
// the configured size cap are rejected before any I/O to the server.
func (c *Cache) UploadFile(ctx context.Context, todoID int, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if c.MaxUploadBytes > 0 {
		info, err := f.Stat()
		if err != nil {
			return fmt.Errorf("inspecting %s: %w", path, err)
		}
		if info.Size() > c.MaxUploadBytes {
			return &todo.ValidationError{Message: fmt.Sprintf(
				"%s is %s, over the %s upload limit",
				filepath.Base(path), formatBytes(info.Size()), formatBytes(c.MaxUploadBytes),
			)}
		}
	}

	return c.Upload(ctx, todoID, filepath.Base(path), f)
}

// formatBytes renders a byte count for error messages.
func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// DeleteAttachment removes an attachment. The interactive confirmation
// happens before this call.
func (c *Cache) DeleteAttachment(ctx context.Context, todoID, attachmentID int) error {
	if _, err := mode.Select(mode.OpAttachments, c.session.Authenticated()); err != nil {
		return err
	}

	if err := c.api.DeleteAttachment(ctx, attachmentID); err != nil {
		return fmt.Errorf("deleting attachment %d: %w", attachmentID, err)
	}

	return c.refetchAttachments(ctx, todoID)
}

// Download streams an attachment's binary content to destPath.
func (c *Cache) Download(ctx context.Context, attachmentID int, destPath string) error {
	if _, err := mode.Select(mode.OpAttachments, c.session.Authenticated()); err != nil {
		return err
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", destPath, err)
	}
	defer f.Close()

	if _, err := c.api.DownloadAttachment(ctx, attachmentID, f); err != nil {
		return err
	}
	return nil
}

// Subtasks returns the cached subtasks for a todo and whether the entry
// has been fetched.
func (c *Cache) Subtasks(todoID int) ([]model.Subtask, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[todoID]
	if !ok || !e.subtasksFetched {
		return nil, false
	}
	out := make([]model.Subtask, len(e.subtasks))
	copy(out, e.subtasks)
	return out, true
}

// Attachments returns the cached attachments for a todo and whether the
// entry has been fetched.
func (c *Cache) Attachments(todoID int) ([]model.Attachment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[todoID]
	if !ok || !e.attachmentsFetched {
		return nil, false
	}
	out := make([]model.Attachment, len(e.attachments))
	copy(out, e.attachments)
	return out, true
}

// SubtasksExpanded reports whether the subtask panel of a todo is open.
func (c *Cache) SubtasksExpanded(todoID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[todoID]
	return ok && e.subtasksExpanded
}

// AttachmentsExpanded reports whether the attachment panel of a todo is open.
func (c *Cache) AttachmentsExpanded(todoID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[todoID]
	return ok && e.attachmentsExpanded
}

// Uploading reports whether an upload is in flight for a todo, and its
// fractional progress.
func (c *Cache) Uploading(todoID int) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[todoID]
	if !ok || e.uploadID == "" {
		return 0, false
	}
	return e.uploadFraction, true
}

// Progress derives the completion summary for a todo from its cached
// subtasks. Nil when unauthenticated or when nothing is cached.
func (c *Cache) Progress(todoID int) *Progress {
	subtasks, _ := c.Subtasks(todoID)
	return Summarize(c.session.Authenticated(), subtasks)
}

// Invalidate drops the cache entry of a deleted todo.
func (c *Cache) Invalidate(todoID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, todoID)
}

// Reset drops every entry. Called on logout, when cached remote state
// no longer belongs to the session.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int]*entry)
}

// refetchSubtasks replaces a parent's subtask entry with the server's
// current list. The cache never patches itself speculatively. A late
// response is applied to whatever slot it targets; last response wins.
func (c *Cache) refetchSubtasks(ctx context.Context, todoID int) error {
	subtasks, err := c.api.ListSubtasks(ctx, todoID)
	if err != nil {
		return fmt.Errorf("fetching subtasks of todo %d: %w", todoID, err)
	}

	c.mu.Lock()
	e := c.entry(todoID)
	e.subtasks = subtasks
	e.subtasksFetched = true
	c.mu.Unlock()

	c.log.Debug().Int("todo", todoID).Int("count", len(subtasks)).Msg("refreshed subtasks")
	return nil
}

// refetchAttachments replaces a parent's attachment entry with the
// server's current list.
func (c *Cache) refetchAttachments(ctx context.Context, todoID int) error {
	attachments, err := c.api.ListAttachments(ctx, todoID)
	if err != nil {
		return fmt.Errorf("fetching attachments of todo %d: %w", todoID, err)
	}

	c.mu.Lock()
	e := c.entry(todoID)
	e.attachments = attachments
	e.attachmentsFetched = true
	c.mu.Unlock()

	c.log.Debug().Int("todo", todoID).Int("count", len(attachments)).Msg("refreshed attachments")
	return nil
}

// entry returns the slot for a todo, creating it if needed. Callers
// must hold the lock.
func (c *Cache) entry(todoID int) *entry {
	e, ok := c.entries[todoID]
	if !ok {
		e = &entry{}
		c.entries[todoID] = e
	}
	return e
}
