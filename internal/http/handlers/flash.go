package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/domain"
	applog "github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/log"
)

const sessionNotes = "notes"

// flash collects the notifications of one request. It is the Notifier every
// page, client call and validation failure reports through.
type flash struct{ notes []domain.Note }

func (f *flash) Notify(level domain.Level, msg string) {
	for _, n := range f.notes {
		if n.Level == level && n.Message == msg {
			return
		}
	}
	f.notes = append(f.notes, domain.Note{Level: level, Message: msg})
}

func notesOf(c *fiber.Ctx) *flash {
	if f, ok := c.Locals(localNotes).(*flash); ok {
		return f
	}
	f := &flash{}
	c.Locals(localNotes, f)
	return f
}

// Flash moves notifications saved before a redirect into the current request.
func Flash(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := notesOf(c)
		if store == nil {
			return c.Next()
		}
		sess, err := store.Get(c)
		if err != nil {
			return c.Next()
		}
		if raw, ok := sess.Get(sessionNotes).(string); ok && raw != "" {
			var saved []domain.Note
			if json.Unmarshal([]byte(raw), &saved) == nil {
				for _, n := range saved {
					f.Notify(n.Level, n.Message)
				}
			}
			sess.Delete(sessionNotes)
			if err := sess.Save(); err != nil {
				applog.Error(c, "flash.save.fail", err, nil)
			}
		}
		return c.Next()
	}
}

// redirect keeps pending notifications for the next page.
func redirect(c *fiber.Ctx, store *session.Store, to string) error {
	f := notesOf(c)
	if store != nil && len(f.notes) > 0 {
		if err := saveNotes(store, c, f.notes); err != nil {
			applog.Error(c, "flash.save.fail", err, map[string]any{"notes": len(f.notes)})
		}
	}
	return c.Redirect(to)
}

func saveNotes(store *session.Store, c *fiber.Ctx, notes []domain.Note) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	b, err := json.Marshal(notes)
	if err != nil {
		return err
	}
	sess.Set(sessionNotes, string(b))
	return sess.Save()
}
