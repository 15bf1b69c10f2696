package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/client"
	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/subscriber/entity"
)

const shellHelp = `commands:
  list          show all subscribers
  create        add a subscriber
  edit <id>     edit a subscriber
  delete <id>   delete a subscriber
  help          show this help
  quit          leave the shell`

// NewShellCommand creates the interactive shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session",
		Long: `Start an interactive session. The listing is loaded once and kept in
sync with the server after every change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := newApp(rootOpts, cmd)
			sh := &shell{
				app: app,
				in:  bufio.NewScanner(cmd.InOrStdin()),
				out: cmd.OutOrStdout(),
			}
			if err := app.Mount(cmd.Context()); err != nil {
				// stay usable while the server is down
				fmt.Fprintf(sh.out, "error: %v\n", err)
			}
			return sh.run(cmd.Context())
		},
	}
}

type shell struct {
	app *App
	in  *bufio.Scanner
	out io.Writer
}

func (s *shell) run(ctx context.Context) error {
	for {
		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}
		fields := strings.Fields(s.in.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(s.out, shellHelp)
		case "list":
			if _, err = s.app.store.Load(ctx); err == nil {
				err = s.app.Navigate(PathList)
			}
		case "create":
			err = s.edit(ctx, PathCreate, nil)
		case "edit", "delete":
			if len(fields) != 2 {
				err = fmt.Errorf("usage: %s <id>", fields[0])
				break
			}
			var id int64
			if id, err = parseID(fields[1]); err != nil {
				break
			}
			if fields[0] == "edit" {
				err = s.edit(ctx, EditPath(id), entity.ID(id))
			} else {
				err = s.app.Remove(ctx, id)
			}
		default:
			err = fmt.Errorf("unknown command %q, try help", fields[0])
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// edit shows the form at path and prompts for every field. An empty answer
// keeps the shown value. Failed submissions prompt again from what was typed.
func (s *shell) edit(ctx context.Context, path string, id *int64) error {
	if err := s.app.Navigate(path); err != nil {
		return err
	}
	f := client.Form{}
	if id != nil {
		f = s.app.EditForm(*id)
	}
	for {
		for _, fld := range formFields(&f) {
			fmt.Fprintf(s.out, "%s [%s]: ", fld.label, *fld.value)
			if !s.in.Scan() {
				return fmt.Errorf("input closed")
			}
			if v := strings.TrimSpace(s.in.Text()); v != "" {
				*fld.value = v
			}
		}
		err := s.app.Submit(ctx, id, f)
		if err == nil {
			return nil
		}
		fmt.Fprintf(s.out, "error: %v\n", err)
		if !s.confirm("try again?") {
			return s.app.Navigate(PathList)
		}
	}
}

func (s *shell) confirm(question string) bool {
	fmt.Fprintf(s.out, "%s [y/N]: ", question)
	if !s.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(s.in.Text()))
	return answer == "y" || answer == "yes"
}
