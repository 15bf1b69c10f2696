package console

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/client"
	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/subscriber/entity"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all subscribers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newApp(rootOpts, cmd).Mount(cmd.Context())
		},
	}
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	in := &client.Form{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a new subscriber",
		Long: `Add a new subscriber. Every field is required.

On success the updated listing is shown; otherwise the form is shown
again together with the errors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := newApp(rootOpts, cmd)
			app.path = PathCreate
			return submit(cmd, app, "Add New Subscriber", nil, *in)
		},
	}
	bindFormFlags(cmd, in)
	return cmd
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	in := &client.Form{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an existing subscriber",
		Long: `Edit an existing subscriber. The form starts from the subscriber's
current values; flags that are set replace them. The whole record is
sent, so fields left untouched keep their current value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app := newApp(rootOpts, cmd)
			if _, err := app.store.Load(cmd.Context()); err != nil {
				return err
			}
			app.path = EditPath(id)

			f := app.EditForm(id)
			for _, fld := range formFields(in) {
				if cmd.Flags().Changed(fld.name) {
					*formFieldByName(&f, fld.name) = *fld.value
				}
			}
			return submit(cmd, app, "Edit Subscriber", entity.ID(id), f)
		},
	}
	bindFormFlags(cmd, in)
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a subscriber",
		Long:  "Delete a subscriber and show the listing again. Deleting an unknown id is not an error.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return newApp(rootOpts, cmd).Remove(cmd.Context(), id)
		},
	}
}

// submit sends f and, if that fails, shows the form again with the errors.
func submit(cmd *cobra.Command, app *App, title string, id *int64, f client.Form) error {
	err := app.Submit(cmd.Context(), id, f)
	if err == nil {
		return nil
	}
	if rerr := renderForm(app.out, title, f, app.format); rerr != nil {
		return rerr
	}
	var fe client.FieldErrors
	if errors.As(err, &fe) {
		for _, name := range fe.Fields() {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", name, fe[name])
		}
	}
	return err
}

func bindFormFlags(cmd *cobra.Command, f *client.Form) {
	for _, fld := range formFields(f) {
		cmd.Flags().StringVar(fld.value, fld.name, "", fld.label)
	}
}

// formFieldByName returns the field of f with the given flag name.
func formFieldByName(f *client.Form, name string) *string {
	for _, fld := range formFields(f) {
		if fld.name == name {
			return fld.value
		}
	}
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
