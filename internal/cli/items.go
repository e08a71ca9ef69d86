package cli

import (
	"fmt"
	"io"
	"net/url"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"todo-list/internal/store"
	"todo-list/internal/todo"
)

func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			page, err := todo.NewService(st, todo.WithLogger(a.logger)).List(cmd.Context())
			if err != nil {
				return err
			}
			printPage(cmd.OutOrStdout(), page)
			return nil
		},
	}
}

func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Add an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, rootOpts, func(svc *todo.Service) error {
				_, err := svc.Create(cmd.Context(), url.Values{"item[text]": {args[0]}})
				if err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "added %q\n", args[0])
				}
				return err
			})
		},
	}
}

func NewCompleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark an item completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, rootOpts, func(svc *todo.Service) error {
				_, err := svc.MarkCompleted(cmd.Context(), args[0])
				if store.IsNotFound(err) {
					return fmt.Errorf("item %s not found", args[0])
				}
				if err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "completed #%s\n", args[0])
				}
				return err
			})
		},
	}
}

func withService(cmd *cobra.Command, rootOpts *RootOptions, fn func(*todo.Service) error) error {
	a, err := loadApp(cmd, rootOpts)
	if err != nil {
		return err
	}
	st, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(todo.NewService(st, todo.WithLogger(a.logger)))
}

func printPage(w io.Writer, page todo.Page) {
	r := lipgloss.NewRenderer(w)
	done := r.NewStyle().Foreground(lipgloss.Color("2")).Strikethrough(true)
	open := r.NewStyle().Bold(true)
	muted := r.NewStyle().Faint(true)

	if page.Empty() {
		fmt.Fprintln(w, muted.Render("No items in list"))
		return
	}
	for _, it := range page.Items {
		if it.Completed {
			fmt.Fprintf(w, "%s [x] %s\n", muted.Render(fmt.Sprintf("#%d", it.ID)), done.Render(it.Text))
			continue
		}
		fmt.Fprintf(w, "%s [ ] %s\n", muted.Render(fmt.Sprintf("#%d", it.ID)), open.Render(it.Text))
	}
}
