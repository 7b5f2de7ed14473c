package handlers

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/apiclient"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/domain"
	applog "github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/log"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/services"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/settings"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/storage"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/validate"
)

// AdminHandler serves the generic list/form/delete pages of every resource.
type AdminHandler struct {
	Client   *apiclient.Client
	Pages    *services.Pages
	Settings *settings.Store
	Media    *services.Media
	Sessions *session.Store
}

type option struct {
	Value string
	Label string
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	var uploads any
	if h.Media != nil {
		rows, err := h.Media.Recent(c.UserContext(), 10)
		if err != nil {
			applog.Error(c, "admin.uploads.list.fail", err, nil)
		}
		uploads = rows
	}
	return render(c, "dashboard", fiber.Map{"Schemas": domain.Schemas(), "Uploads": uploads})
}

// schema resolves :resource; ok is false for unknown resources.
func (h *AdminHandler) schema(c *fiber.Ctx) (domain.Schema, bool) {
	name, ok := validate.Resource(c.Params("resource"))
	if !ok {
		return domain.Schema{}, false
	}
	sc, ok := domain.Lookup(name)
	if ok {
		c.Locals(applog.LocalResource, sc.Resource)
	}
	return sc, ok
}

func (h *AdminHandler) deps(c *fiber.Ctx, sc domain.Schema) services.Deps {
	n := notesOf(c)
	d := services.Deps{
		API:   h.Client.WithNotifier(n).Resource(sc.Resource),
		Notes: n,
	}
	if h.Media != nil {
		d.Upload = h.Media
	}
	return d
}

func listURL(sc domain.Schema) string { return "/admin/" + sc.Resource }

// GET /admin/:resource
func (h *AdminHandler) List(c *fiber.Ctx) error {
	sc, ok := h.schema(c)
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Page not found")
	}
	ctx := c.UserContext()
	page := h.Pages.Get(browserID(c), sc)

	rows, err := page.Load(ctx, h.deps(c, sc))
	if err != nil {
		applog.Error(c, "admin."+sc.Resource+".list.fail", err, nil)
	}

	f := settings.Filters{Values: map[string]string{}}
	if len(c.Request().URI().QueryString()) == 0 {
		saved, found, err := h.Settings.Filters(ctx, sc)
		if err != nil {
			applog.Error(c, "settings.filters.read.fail", err, nil)
		} else if found {
			f = saved
		}
	} else {
		f.Query = validate.Q(c.Query("q"))
		for _, name := range sc.Filters {
			if v := strings.TrimSpace(c.Query(name)); v != "" {
				f.Values[name] = v
			}
		}
		if err := h.Settings.SetFilters(ctx, sc, f); err != nil {
			applog.Error(c, "settings.filters.save.fail", err, nil)
		}
	}

	options := map[string][]string{}
	for _, name := range sc.Filters {
		options[name] = services.FilterOptions(rows, name, sc.FilterDefaults[name])
	}
	shown := services.Filter(rows, sc, f.Query, f.Values)
	return render(c, "list", fiber.Map{
		"Schema":  sc,
		"Rows":    shown,
		"Total":   len(rows),
		"Query":   f.Query,
		"Values":  f.Values,
		"Options": options,
	})
}

// GET /admin/:resource/new
func (h *AdminHandler) New(c *fiber.Ctx) error {
	sc, ok := h.schema(c)
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Page not found")
	}
	draft, err := h.Pages.Get(browserID(c), sc).OpenCreate()
	if errors.Is(err, services.ErrReadOnly) {
		return notFound(c, fiber.StatusMethodNotAllowed, sc.Title+" are read-only.")
	}
	return h.form(c, fiber.StatusOK, sc, "", draft, nil)
}

// GET /admin/:resource/:id/edit
func (h *AdminHandler) Edit(c *fiber.Ctx) error {
	sc, ok := h.schema(c)
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Page not found")
	}
	if sc.ReadOnly {
		return notFound(c, fiber.StatusMethodNotAllowed, sc.Title+" are read-only.")
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Record not found")
	}
	rec, err := h.Pages.Get(browserID(c), sc).OpenEdit(c.UserContext(), h.deps(c, sc), id)
	if err != nil {
		applog.Error(c, "admin."+sc.Resource+".open.fail", err, map[string]any{"id": id})
		notesOf(c).Notify(domain.LevelError, "That "+strings.ToLower(sc.Singular)+" could not be found.")
		return redirect(c, h.Sessions, listURL(sc))
	}
	return h.form(c, fiber.StatusOK, sc, id, rec, nil)
}

func (h *AdminHandler) form(c *fiber.Ctx, status int, sc domain.Schema, id string, draft domain.Record, fieldErrs map[string]string) error {
	action := listURL(sc)
	mode := "create"
	if id != "" {
		action += "/" + id
		mode = "edit"
	}
	var uploads any
	if h.Media != nil && sc.ImageField != "" {
		rows, err := h.Media.RecentFor(c.UserContext(), sc.Resource, 6)
		if err != nil {
			applog.Error(c, "admin."+sc.Resource+".uploads.fail", err, nil)
		}
		uploads = rows
	}
	c.Status(status)
	return render(c, "form", fiber.Map{
		"Schema":  sc,
		"Draft":   draft,
		"ID":      id,
		"Mode":    mode,
		"Action":  action,
		"Refs":    h.refOptions(c, sc),
		"Errors":  fieldErrs,
		"Uploads": uploads,
	})
}

// refOptions lists the records each reference field can point at.
func (h *AdminHandler) refOptions(c *fiber.Ctx, sc domain.Schema) map[string][]option {
	out := map[string][]option{}
	client := h.Client.WithNotifier(notesOf(c))
	for _, f := range sc.Refs() {
		target, ok := domain.Lookup(f.Ref)
		if !ok {
			continue
		}
		rows, err := client.Resource(target.Resource).List(c.UserContext())
		if err != nil {
			applog.Error(c, "admin."+target.Resource+".options.fail", err, nil)
		}
		opts := make([]option, 0, len(rows))
		for _, r := range rows {
			key := target.KeyOf(r)
			if key == "" {
				continue
			}
			opts = append(opts, option{Value: key, Label: optionLabel(r, key)})
		}
		out[f.Name] = opts
	}
	return out
}

func optionLabel(r domain.Record, key string) string {
	for _, f := range []string{"name", "title", "regNo", "brand"} {
		if v := r.Text(f); v != "" {
			return v + " (" + key + ")"
		}
	}
	return key
}

// POST /admin/:resource
func (h *AdminHandler) Create(c *fiber.Ctx) error { return h.submit(c, "") }

// POST /admin/:resource/:id
func (h *AdminHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Record not found")
	}
	return h.submit(c, id)
}

func (h *AdminHandler) submit(c *fiber.Ctx, id string) error {
	sc, ok := h.schema(c)
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Page not found")
	}
	if sc.ReadOnly {
		applog.Security(c, "admin."+sc.Resource+".write.blocked", map[string]any{"id": id})
		return notFound(c, fiber.StatusMethodNotAllowed, sc.Title+" are read-only.")
	}

	values, fh := formValues(c)
	draft := services.ParseDraft(sc, values)

	var file *storage.File
	if fh != nil {
		src, err := fh.Open()
		if err != nil {
			applog.Error(c, "upload.open.fail", err, nil)
			return fiber.NewError(fiber.StatusBadRequest, "could not read upload")
		}
		defer src.Close()
		file = &storage.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        src,
		}
	}

	page := h.Pages.Get(browserID(c), sc)
	err := page.Submit(c.UserContext(), h.deps(c, sc), id, draft, file)
	if err != nil {
		status := fiber.StatusBadGateway
		var fieldErrs map[string]string
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			status = fiber.StatusUnprocessableEntity
			fieldErrs = verr.Fields
		case errors.Is(err, storage.ErrTooLarge):
			status = fiber.StatusRequestEntityTooLarge
		case errors.Is(err, storage.ErrContentType), errors.Is(err, storage.ErrEmpty):
			status = fiber.StatusUnprocessableEntity
		case errors.Is(err, services.ErrBusy):
			return redirect(c, h.Sessions, listURL(sc))
		default:
			applog.Error(c, "admin."+sc.Resource+".save.fail", err, map[string]any{"id": id})
		}
		return h.form(c, status, sc, id, page.State().Draft, fieldErrs)
	}

	action := "create"
	if id != "" {
		action = "update"
	}
	applog.Audit(c, "admin."+sc.Resource+"."+action, map[string]any{"id": id, "upload": file != nil})
	return redirect(c, h.Sessions, listURL(sc))
}

// formValues reads urlencoded or multipart fields plus the optional "file" part.
func formValues(c *fiber.Ctx) (map[string][]string, *multipart.FileHeader) {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		var fh *multipart.FileHeader
		if files := form.File["file"]; len(files) > 0 && files[0].Size > 0 {
			fh = files[0]
		}
		return form.Value, fh
	}
	out := map[string][]string{}
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		out[string(k)] = append(out[string(k)], string(v))
	})
	return out, nil
}

// GET /admin/:resource/:id/delete
func (h *AdminHandler) ConfirmDelete(c *fiber.Ctx) error {
	sc, ok := h.schema(c)
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Page not found")
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Record not found")
	}
	var rec domain.Record
	for _, r := range h.Pages.Get(browserID(c), sc).Rows() {
		if sc.KeyOf(r) == id {
			rec = r
			break
		}
	}
	return render(c, "confirm", fiber.Map{"Schema": sc, "ID": id, "Record": rec})
}

// POST /admin/:resource/:id/delete
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	sc, ok := h.schema(c)
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Page not found")
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Record not found")
	}
	confirmed := c.FormValue("confirm") == "yes"
	err := h.Pages.Get(browserID(c), sc).Delete(c.UserContext(), h.deps(c, sc), id, confirmed)
	switch {
	case errors.Is(err, services.ErrNotConfirmed):
		return c.Redirect(listURL(sc) + "/" + id + "/delete")
	case err != nil:
		applog.Error(c, "admin."+sc.Resource+".delete.fail", err, map[string]any{"id": id})
		return redirect(c, h.Sessions, listURL(sc))
	}
	applog.Audit(c, "admin."+sc.Resource+".delete", map[string]any{"id": id})
	return redirect(c, h.Sessions, listURL(sc))
}
