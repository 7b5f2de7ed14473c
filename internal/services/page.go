package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/domain"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/storage"
)

var (
	ErrNotConfirmed = errors.New("delete was not confirmed")
	ErrReadOnly     = errors.New("resource is read-only")
	ErrNotFound     = errors.New("record not found")
	ErrBusy         = errors.New("form is already being submitted")
)

// Backend is the CRUD surface of one resource. *apiclient.Resource satisfies
// it and reports its own failures to the admin.
type Backend interface {
	List(ctx context.Context) ([]domain.Record, error)
	Get(ctx context.Context, id string) (domain.Record, error)
	Create(ctx context.Context, rec domain.Record) (domain.Record, error)
	Update(ctx context.Context, id string, rec domain.Record) (domain.Record, error)
	Delete(ctx context.Context, id string) error
}

// Deps are the per-request collaborators of a Page.
type Deps struct {
	API    Backend
	Upload storage.Uploader
	Notes  domain.Notifier
}

func (d Deps) notify(level domain.Level, msg string) {
	if d.Notes != nil {
		d.Notes.Notify(level, msg)
	}
}

type Mode string

const (
	ModeClosed Mode = "closed"
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

const busyMessage = "This form is already being saved."

// State is a snapshot of the form lifecycle.
type State struct {
	Mode       Mode
	EditID     string
	Draft      domain.Record
	// Submitting is set while the upload and save calls are in flight; a
	// second Submit in that window returns ErrBusy.
	Submitting bool
	// Err holds the last failure while the form stays open.
	Err error
}

// Page holds the list snapshot and form state of one resource for one
// browser. Concurrent loads are not ordered: the last response to finish
// replaces the rows.
type Page struct {
	Schema domain.Schema

	mu    sync.Mutex
	rows  []domain.Record
	state State
}

func NewPage(sc domain.Schema) *Page {
	return &Page{Schema: sc, rows: []domain.Record{}, state: State{Mode: ModeClosed}}
}

// Rows returns the current snapshot.
func (p *Page) Rows() []domain.Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Record{}, p.rows...)
}

func (p *Page) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	if s.Draft != nil {
		s.Draft = s.Draft.Clone()
	}
	return s
}

// Load replaces the snapshot with a fresh list. Any failure leaves an empty
// list; the error is returned for logging.
func (p *Page) Load(ctx context.Context, d Deps) ([]domain.Record, error) {
	rows, err := d.API.List(ctx)
	if err != nil || rows == nil {
		rows = []domain.Record{}
	}
	p.mu.Lock()
	p.rows = rows
	p.mu.Unlock()
	return append([]domain.Record{}, rows...), err
}

// OpenCreate starts an empty draft.
func (p *Page) OpenCreate() (domain.Record, error) {
	if p.Schema.ReadOnly {
		return nil, ErrReadOnly
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = State{Mode: ModeCreate, Draft: domain.Record{}}
	return domain.Record{}, nil
}

// OpenEdit fetches a fresh copy of id. When the fetch fails the row from the
// last list is used; ErrNotFound is returned only if neither exists.
func (p *Page) OpenEdit(ctx context.Context, d Deps, id string) (domain.Record, error) {
	rec, err := d.API.Get(ctx, id)
	if err != nil || rec == nil {
		known, ok := p.known(id)
		if !ok {
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w (%w)", p.Schema.Resource, id, ErrNotFound, err)
			}
			return nil, fmt.Errorf("%s %s: %w", p.Schema.Resource, id, ErrNotFound)
		}
		rec = known
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = State{Mode: ModeEdit, EditID: id, Draft: rec.Clone()}
	return rec.Clone(), nil
}

func (p *Page) known(id string) (domain.Record, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.rows {
		if p.Schema.KeyOf(r) == id {
			return r.Clone(), true
		}
	}
	return nil, false
}

// Close discards the draft.
func (p *Page) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = State{Mode: ModeClosed}
}

// Submit validates draft, uploads file (when given) into the schema's image
// field, then creates (id == "") or updates the record. On success the list
// is reloaded and the form closes; on failure the form stays open with the
// draft.
func (p *Page) Submit(ctx context.Context, d Deps, id string, draft domain.Record, file *storage.File) error {
	sc := p.Schema
	if sc.ReadOnly {
		return ErrReadOnly
	}
	mode := ModeCreate
	if id != "" {
		mode = ModeEdit
	}
	draft = draft.Clone()
	if p.State().Submitting {
		d.notify(domain.LevelInfo, busyMessage)
		return ErrBusy
	}

	if err := ValidateDraft(sc, draft); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			if msgs := verr.Messages(); len(msgs) > 0 {
				d.notify(domain.LevelError, msgs[0])
			}
		}
		p.fail(mode, id, draft, err)
		return err
	}
	DeriveStock(sc, draft, time.Now())

	p.mu.Lock()
	if p.state.Submitting {
		p.mu.Unlock()
		d.notify(domain.LevelInfo, busyMessage)
		return ErrBusy
	}
	p.state = State{Mode: mode, EditID: id, Draft: draft.Clone(), Submitting: true}
	p.mu.Unlock()

	if file != nil && sc.ImageField != "" && d.Upload != nil {
		url, err := d.Upload.Upload(ctx, *file, storage.Options{Folder: sc.Resource})
		if err != nil {
			d.notify(domain.LevelError, UploadMessage(err))
			p.fail(mode, id, draft, err)
			return fmt.Errorf("upload: %w", err)
		}
		AttachImage(sc, draft, url)
	}

	var err error
	if id == "" {
		_, err = d.API.Create(ctx, draft)
	} else {
		_, err = d.API.Update(ctx, id, draft)
	}
	if err != nil {
		p.fail(mode, id, draft, err)
		return err
	}

	verb := "created"
	if id != "" {
		verb = "updated"
	}
	d.notify(domain.LevelSuccess, fmt.Sprintf("%s %s successfully.", sc.Singular, verb))
	_, _ = p.Load(ctx, d)
	p.Close()
	return nil
}

func (p *Page) fail(mode Mode, id string, draft domain.Record, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = State{Mode: mode, EditID: id, Draft: draft, Err: err}
}

// AttachImage writes url into the schema's image field: prepended to a list
// field, or replacing a single image.
func AttachImage(sc domain.Schema, draft domain.Record, url string) {
	f, ok := sc.Field(sc.ImageField)
	if !ok || url == "" {
		return
	}
	if f.Kind == domain.KindImages {
		draft[f.Name] = append([]string{url}, draft.Strings(f.Name)...)
		return
	}
	draft[f.Name] = url
}

// Delete removes id after explicit confirmation. The row is dropped from the
// snapshot locally on success; unknown ids leave the snapshot untouched.
func (p *Page) Delete(ctx context.Context, d Deps, id string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := d.API.Delete(ctx, id); err != nil {
		return err
	}
	p.mu.Lock()
	kept := make([]domain.Record, 0, len(p.rows))
	for _, r := range p.rows {
		if p.Schema.KeyOf(r) != id {
			kept = append(kept, r)
		}
	}
	p.rows = kept
	if p.state.EditID == id {
		p.state = State{Mode: ModeClosed}
	}
	p.mu.Unlock()
	d.notify(domain.LevelSuccess, p.Schema.Singular+" deleted successfully.")
	return nil
}

// UploadMessage words an upload failure for the admin.
func UploadMessage(err error) string {
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		return "The image is too large."
	case errors.Is(err, storage.ErrContentType):
		return "Only JPEG, PNG, WebP or GIF images can be uploaded."
	case errors.Is(err, storage.ErrEmpty):
		return "The selected file is empty."
	default:
		return "Image upload failed. Please try again."
	}
}

// DefaultIdle is how long a browser's pages survive without a request.
const DefaultIdle = 2 * time.Hour

// Pages keeps one Page per browser and resource. Pages of browsers that
// have not been seen for Idle are evicted on the next Get, so state of
// browsers that never log out does not accumulate.
type Pages struct {
	Idle time.Duration
	// Clock defaults to time.Now.
	Clock func() time.Time

	mu sync.Mutex
	m  map[string]*pageEntry
}

type pageEntry struct {
	page *Page
	seen time.Time
}

func NewPages() *Pages {
	return &Pages{Idle: DefaultIdle, Clock: time.Now, m: map[string]*pageEntry{}}
}

func (ps *Pages) Get(browser string, sc domain.Schema) *Page {
	k := browser + "|" + sc.Resource
	now := ps.Clock()
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.evict(now)
	e, ok := ps.m[k]
	if !ok {
		e = &pageEntry{page: NewPage(sc)}
		ps.m[k] = e
	}
	e.seen = now
	return e.page
}

// evict drops idle entries; the caller holds mu.
func (ps *Pages) evict(now time.Time) {
	if ps.Idle <= 0 {
		return
	}
	for k, e := range ps.m {
		if now.Sub(e.seen) > ps.Idle {
			delete(ps.m, k)
		}
	}
}

// Drop forgets every page of browser, e.g. on logout.
func (ps *Pages) Drop(browser string) {
	prefix := browser + "|"
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for k := range ps.m {
		if strings.HasPrefix(k, prefix) {
			delete(ps.m, k)
		}
	}
}
