// Package todo owns the canonical in-memory item collection and the
// rules for keeping it, the search baseline, and the displayed view
// consistent across both operating modes.
package todo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/minhvu/todopad/internal/api"
	"github.com/minhvu/todopad/internal/ephemeral"
	"github.com/minhvu/todopad/internal/mode"
	"github.com/minhvu/todopad/internal/model"
	"github.com/minhvu/todopad/internal/session"
)

// Controller maintains three collections: canonical (authoritative,
// unfiltered), baseline (snapshot of canonical from the last moment no
// search was active, restored on search reset), and displayed (what the
// view renders; equal to canonical unless a search is active).
//
// I/O runs outside the lock, so two operations whose round trips overlap
// reconcile as last-response-wins. UI-triggered mutations against the
// same item cannot interleave their read-modify-write because each
// applies its state atomically on completion.
type Controller struct {
	api     *api.Client
	store   *ephemeral.Adapter
	session *session.Session
	log     zerolog.Logger

	mu           sync.Mutex
	canonical    []model.Todo
	baseline     []model.Todo
	displayed    []model.Todo
	searchActive bool
	searchTerm   string

	editing   bool
	editingID int
	draft     Draft

	lastGuestID int64
}

// NewController wires the controller to its collaborators.
func NewController(
	client *api.Client,
	store *ephemeral.Adapter,
	sess *session.Session,
	log zerolog.Logger,
) *Controller {
	return &Controller{
		api:     client,
		store:   store,
		session: sess,
		log:     log,
	}
}

// EnterGuest rehydrates the canonical collection from the ephemeral
// store. Called exactly once per transition into guest mode: at startup
// without a valid credential, and after logout.
func (c *Controller) EnterGuest() {
	todos := c.store.Load()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.canonical = todos
	c.baseline = snapshot(todos)
	c.displayed = snapshot(todos)
	c.searchActive = false
	c.searchTerm = ""
	c.editing = false
	c.editingID = 0
	c.draft = Draft{}
}

// LoadAll fetches the full collection and replaces all three slots,
// clearing any active search. On a remote failure the prior state is
// left untouched. In guest mode there is nothing to fetch; the call
// falls back to the collection already rehydrated from the store.
func (c *Controller) LoadAll(ctx context.Context) error {
	m, _ := mode.Select(mode.OpLoad, c.session.Authenticated())

	if m == mode.Remote {
		todos, err := c.api.ListTodos(ctx)
		if err != nil {
			return fmt.Errorf("loading todos: %w", err)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		c.canonical = todos
		c.baseline = snapshot(todos)
		c.displayed = snapshot(todos)
		c.searchActive = false
		c.searchTerm = ""
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseline = snapshot(c.canonical)
	c.displayed = snapshot(c.canonical)
	c.searchActive = false
	c.searchTerm = ""
	return nil
}

// Create validates and submits a new item. Authenticated mode appends
// the server's returned representation; guest mode assigns a local
// identifier and creation timestamp before appending.
func (c *Controller) Create(ctx context.Context, d Draft) (model.Todo, error) {
	if strings.TrimSpace(d.Title) == "" {
		return model.Todo{}, validationErr("title must not be empty")
	}

	candidate, err := d.todo()
	if err != nil {
		return model.Todo{}, err
	}

	m, _ := mode.Select(mode.OpCreate, c.session.Authenticated())

	if m == mode.Remote {
		created, err := c.api.CreateTodo(ctx, candidate)
		if err != nil {
			return model.Todo{}, fmt.Errorf("creating todo: %w", err)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		c.canonical = append(c.canonical, created)
		c.rebaseline()
		return created, nil
	}

	c.mu.Lock()
	candidate.ID = c.nextGuestID()
	candidate.CreatedAt = model.NewDateTime(time.Now())
	c.canonical = append(c.canonical, candidate)
	c.rebaseline()
	persisted := snapshot(c.canonical)
	c.mu.Unlock()

	c.store.Save(persisted)
	return candidate, nil
}

// Update submits the edit buffer for the item currently being edited.
// Authenticated mode takes the server's representation wholesale; guest
// mode shallow-merges the form fields into the prior local value. On
// success the edit buffer returns to idle.
func (c *Controller) Update(ctx context.Context, d Draft) (model.Todo, error) {
	c.mu.Lock()
	if !c.editing {
		c.mu.Unlock()
		return model.Todo{}, validationErr("no edit in progress")
	}
	id := c.editingID
	c.mu.Unlock()

	if strings.TrimSpace(d.Title) == "" {
		return model.Todo{}, validationErr("title must not be empty")
	}

	candidate, err := d.todo()
	if err != nil {
		return model.Todo{}, err
	}

	m, _ := mode.Select(mode.OpUpdate, c.session.Authenticated())

	if m == mode.Remote {
		updated, err := c.api.UpdateTodo(ctx, id, candidate)
		if err != nil {
			return model.Todo{}, fmt.Errorf("updating todo %d: %w", id, err)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		c.applyMerge(id, updated, ReplaceMerge, true)
		c.rebaseline()
		c.clearEditLocked()
		return updated, nil
	}

	c.mu.Lock()
	merged, ok := c.applyMerge(id, candidate, ShallowMerge, false)
	if ok {
		c.rebaseline()
	}
	c.clearEditLocked()
	persisted := snapshot(c.canonical)
	c.mu.Unlock()

	if !ok {
		c.log.Debug().Int("id", id).Msg("edited todo no longer present")
		return model.Todo{}, nil
	}

	c.store.Save(persisted)
	return merged, nil
}

// Delete removes an item. The interactive confirmation happens before
// this call. Authenticated mode deletes remotely first and only removes
// the local entry on success; guest mode removes immediately.
func (c *Controller) Delete(ctx context.Context, id int) error {
	m, _ := mode.Select(mode.OpDelete, c.session.Authenticated())

	if m == mode.Remote {
		if err := c.api.DeleteTodo(ctx, id); err != nil {
			return fmt.Errorf("deleting todo %d: %w", id, err)
		}
	}

	c.mu.Lock()
	c.canonical = removeByID(c.canonical, id)
	if c.searchActive {
		c.displayed = removeByID(c.displayed, id)
	}
	c.rebaseline()
	persisted := snapshot(c.canonical)
	c.mu.Unlock()

	if m == mode.Local {
		c.store.Save(persisted)
	}
	return nil
}

// Search replaces the displayed view with the subset matching term.
// Authenticated mode asks the server; guest mode filters the in-memory
// baseline with a case-insensitive substring match on title and
// description. The canonical collection is never touched.
func (c *Controller) Search(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return validationErr("search term must not be empty")
	}

	m, _ := mode.Select(mode.OpSearch, c.session.Authenticated())

	if m == mode.Remote {
		results, err := c.api.SearchTodos(ctx, term)
		if err != nil {
			return fmt.Errorf("searching todos: %w", err)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		c.displayed = results
		c.searchActive = true
		c.searchTerm = term
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.displayed = filterTodos(c.baseline, term)
	c.searchActive = true
	c.searchTerm = term
	return nil
}

// ResetSearch leaves search mode. Authenticated mode re-issues a full
// load; guest mode restores the displayed view to the pre-search
// baseline exactly.
func (c *Controller) ResetSearch(ctx context.Context) error {
	m, _ := mode.Select(mode.OpSearch, c.session.Authenticated())

	if m == mode.Remote {
		return c.LoadAll(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.displayed = snapshot(c.baseline)
	c.searchActive = false
	c.searchTerm = ""
	return nil
}

// StartEdit populates the edit buffer from the targeted item's current
// value, fetched remotely for authenticated sessions and looked up
// locally for guests. Starting a new edit while another is in progress
// silently replaces the buffer.
func (c *Controller) StartEdit(ctx context.Context, id int) (Draft, error) {
	m, _ := mode.Select(mode.OpUpdate, c.session.Authenticated())

	var current model.Todo
	if m == mode.Remote {
		fetched, err := c.api.GetTodo(ctx, id)
		if err != nil {
			return Draft{}, fmt.Errorf("fetching todo %d: %w", id, err)
		}
		current = fetched
	} else {
		found, ok := c.find(id)
		if !ok {
			return Draft{}, fmt.Errorf("todo %d not found", id)
		}
		current = found
	}

	d := draftFrom(current)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = true
	c.editingID = id
	c.draft = d
	return d, nil
}

// CancelEdit clears the edit buffer without writing anything.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearEditLocked()
}

// Todos returns the currently displayed collection.
func (c *Controller) Todos() []model.Todo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshot(c.displayed)
}

// Canonical returns the authoritative, unfiltered collection.
func (c *Controller) Canonical() []model.Todo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshot(c.canonical)
}

// SearchActive reports whether a search currently narrows the view,
// along with the active term.
func (c *Controller) SearchActive() (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchActive, c.searchTerm
}

// Editing returns the edit buffer state: the identifier under edit, the
// buffered draft, and whether an edit is in progress.
func (c *Controller) Editing() (int, Draft, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingID, c.draft, c.editing
}

// rebaseline re-snapshots the baseline and displayed views from
// canonical, but only while no search is active: a mutation during an
// active search leaves the filtered view and its reset target alone.
// Callers must hold the lock.
func (c *Controller) rebaseline() {
	if c.searchActive {
		return
	}
	c.baseline = snapshot(c.canonical)
	c.displayed = snapshot(c.canonical)
}

// applyMerge reconciles an update into canonical with the given
// strategy. With resurrect set, a server response arriving for an item
// deleted meanwhile re-appends it: an accepted race, the delete is not
// guarded against. When a search is active, a displayed entry for the
// same item is kept in step. Callers must hold the lock.
func (c *Controller) applyMerge(id int, incoming model.Todo, merge MergeStrategy, resurrect bool) (model.Todo, bool) {
	found := false
	var merged model.Todo
	for i := range c.canonical {
		if c.canonical[i].ID == id {
			merged = merge(c.canonical[i], incoming)
			c.canonical[i] = merged
			found = true
			break
		}
	}
	if !found {
		if !resurrect {
			return model.Todo{}, false
		}
		merged = incoming
		merged.ID = id
		c.canonical = append(c.canonical, merged)
	}

	if c.searchActive {
		for i := range c.displayed {
			if c.displayed[i].ID == id {
				c.displayed[i] = merged
				break
			}
		}
	}
	return merged, found
}

func (c *Controller) clearEditLocked() {
	c.editing = false
	c.editingID = 0
	c.draft = Draft{}
}

func (c *Controller) find(id int) (model.Todo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.canonical {
		if t.ID == id {
			return t, true
		}
	}
	return model.Todo{}, false
}

// nextGuestID derives a locally unique identifier from the clock,
// bumped when the clock has not advanced since the last call so ids
// stay monotonically distinct. Callers must hold the lock.
func (c *Controller) nextGuestID() int {
	id := time.Now().UnixMilli()
	if id <= c.lastGuestID {
		id = c.lastGuestID + 1
	}
	c.lastGuestID = id
	return int(id)
}

// filterTodos returns the items whose title or description contains term
// case-insensitively, preserving order.
func filterTodos(todos []model.Todo, term string) []model.Todo {
	needle := strings.ToLower(term)
	var out []model.Todo
	for _, t := range todos {
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) {
			out = append(out, t)
		}
	}
	return out
}

func removeByID(todos []model.Todo, id int) []model.Todo {
	out := todos[:0]
	for _, t := range todos {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func snapshot(todos []model.Todo) []model.Todo {
	out := make([]model.Todo, len(todos))
	copy(out, todos)
	return out
}
