package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/biosecret/go-todo/client"
	"github.com/biosecret/go-todo/models"
)

var (
	apiURL      string
	sessionPath string

	todoDescription string
	todoDueDate     string
	todoUrgent      bool
	undo            bool
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Talk to a running API",
}

func init() {
	clientCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("TODO_API_URL", "http://localhost:3000/api"), "Base URL of the API")
	clientCmd.PersistentFlags().StringVar(&sessionPath, "session", defaultSessionPath(), "File holding the signed-in session")

	addCmd.Flags().StringVar(&todoDescription, "description", "", "Longer description")
	addCmd.Flags().StringVar(&todoDueDate, "due", "", "Due date (YYYY-MM-DD)")
	addCmd.Flags().BoolVar(&todoUrgent, "urgent", false, "File under Urgent instead of Non-Urgent")
	doneCmd.Flags().BoolVar(&undo, "undo", false, "Mark the todo as not completed")

	clientCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd, todosCmd, addCmd, doneCmd, rmCmd, usersCmd, roleCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "todoapp", "session.json")
}

func newClient(cmd *cobra.Command) *client.Client {
	cache := client.NewCache(client.NewFileStore(sessionPath))
	cache.OnCleared(func() {
		fmt.Fprintln(cmd.ErrOrStderr(), "session cleared, please log in again")
	})
	return client.New(apiURL, cache)
}

var registerCmd = &cobra.Command{
	Use:   "register <username> <email> <password>",
	Short: "Create an account and sign in",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newClient(cmd).Register(cmd.Context(), models.RegisterInput{
			Username: args[0],
			Email:    args[1],
			Password: args[2],
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s (%s)\n", s.User.Username, s.User.Role)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <username-or-email> <password>",
	Short: "Sign in",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newClient(cmd).Login(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s (%s)\n", s.User.Username, s.User.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(apiURL, client.NewCache(client.NewFileStore(sessionPath)))
		if err := c.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, ok := newClient(cmd).Session().Current()
		if !ok {
			return errors.New("not signed in")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> %s %s\n", s.User.Username, s.User.Email, s.User.Role, s.User.ID)
		return nil
	},
}

var todosCmd = &cobra.Command{
	Use:   "todos",
	Short: "List todos (all of them for admins)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		todos, err := newClient(cmd).ListTodos(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDONE\tCATEGORY\tDUE\tOWNER\tTITLE")
		for _, t := range todos {
			done := " "
			if t.Completed {
				done = "x"
			}
			owner := t.OwnerName
			if owner == "" {
				owner = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, done, t.Category, t.DueDate, owner, t.Title)
		}
		return w.Flush()
	},
}

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a todo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := models.TodoInput{
			Title:       args[0],
			Description: todoDescription,
			DueDate:     todoDueDate,
		}
		if todoUrgent {
			in.Category = models.CategoryUrgent
		}

		todo, err := newClient(cmd).CreateTodo(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", todo.ID)
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a todo as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		completed := !undo
		todo, err := newClient(cmd).UpdateTodo(cmd.Context(), args[0], models.TodoPatch{Completed: &completed})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s completed=%t\n", todo.ID, todo.Completed)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a todo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient(cmd).DeleteTodo(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List accounts (admin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := newClient(cmd).ListUsers(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role)
		}
		return w.Flush()
	},
}

var roleCmd = &cobra.Command{
	Use:   "role <user-id> <user|admin>",
	Short: "Change another account's role (admin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := newClient(cmd).UpdateUserRole(cmd.Context(), args[0], models.Role(args[1]))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Username, user.Role)
		return nil
	},
}
