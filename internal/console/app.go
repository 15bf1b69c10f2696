package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/client"
)

// Paths the app can show.
const (
	PathList   = "/"
	PathCreate = "/create"
	PathEdit   = "/edit/"
)

// App is the view layer: it renders the store's state for the current path
// and turns user actions into store mutations.
type App struct {
	store  *client.Store
	out    io.Writer
	format string
	path   string
}

func NewApp(store *client.Store, out io.Writer, format string) *App {
	return &App{store: store, out: out, format: format, path: PathList}
}

// Path is the path last navigated to.
func (a *App) Path() string { return a.path }

// Mount loads the collection and shows the listing.
func (a *App) Mount(ctx context.Context) error {
	if _, err := a.store.Load(ctx); err != nil {
		return err
	}
	return a.Navigate(PathList)
}

// Navigate switches to path and renders it.
func (a *App) Navigate(path string) error {
	a.path = path
	switch {
	case path == PathList:
		return renderList(a.out, a.store.Snapshot(), a.format)
	case path == PathCreate:
		return renderForm(a.out, "Add New Subscriber", client.Form{}, a.format)
	case strings.HasPrefix(path, PathEdit):
		return renderForm(a.out, "Edit Subscriber", a.EditForm(EditID(path)), a.format)
	}
	return fmt.Errorf("no view for path %q", path)
}

// EditPath is the edit view path of a subscriber.
func EditPath(id int64) string { return PathEdit + strconv.FormatInt(id, 10) }

// EditID reads the id parameter of an edit path. Anything unparsable maps
// to 0, which matches no subscriber.
func EditID(path string) int64 {
	id, err := strconv.ParseInt(strings.TrimPrefix(path, PathEdit), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// EditForm returns the form for editing id, filled from the loaded
// collection. An unknown id gives an empty form.
func (a *App) EditForm(id int64) client.Form {
	s, _ := a.store.Lookup(id)
	return client.FormFrom(s)
}

// Submit validates f and sends it as a create (id nil) or a full-replace
// update. Only a successful mutation navigates back to the listing; on any
// error the caller stays where it is.
func (a *App) Submit(ctx context.Context, id *int64, f client.Form) error {
	if err := f.Validate(); err != nil {
		return err
	}
	intent := client.CreateIntent(f.Subscriber(nil))
	if id != nil {
		intent = client.UpdateIntent(f.Subscriber(id))
	}
	if err := a.store.Mutate(ctx, intent); err != nil {
		return err
	}
	return a.Navigate(PathList)
}

// Remove deletes id and re-renders the listing in place.
func (a *App) Remove(ctx context.Context, id int64) error {
	err := a.store.Mutate(ctx, client.DeleteIntent(id))
	if rerr := a.Navigate(PathList); rerr != nil && err == nil {
		err = rerr
	}
	return err
}
