package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"stratforge/platform/internal/client"
	"stratforge/platform/internal/notify"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "stratforge",
		Short:         "StratForge console",
		Long:          "Interactive console and command-line client for the StratForge platform.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	root.AddCommand(newLoginCmd())
	root.AddCommand(newRegisterCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newLogoutCmd())
	return root
}

func runTUI() error {
	store, err := client.NewFileSessionStore()
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}

	m, bridge := newApp(loadConsoleConfig(), store)
	p := tea.NewProgram(m, tea.WithAltScreen())
	bridge.bind(p.Send)

	_, err = p.Run()
	return err
}

// cliNotifier prints notifications as colored lines for the one-shot
// subcommands, where there is no overlay to host them.
type cliNotifier struct{}

func (cliNotifier) Post(message string, severity notify.Severity) {
	style := lipgloss.NewStyle().Foreground(severity.Color()).Bold(true)
	fmt.Println(style.Render(message))
}

// The one-shot subcommands have no dialogs or pages to drive.
type noopDialogs struct{}

func (noopDialogs) OpenLogin()     {}
func (noopDialogs) CloseLogin()    {}
func (noopDialogs) OpenRegister()  {}
func (noopDialogs) CloseRegister() {}

type noopNavigator struct{}

func (noopNavigator) Navigate(string) {}

func newCLIClient() (*client.Client, error) {
	store, err := client.NewFileSessionStore()
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	return client.New(client.Config{
		BaseURL:   loadConsoleConfig().APIBaseURL,
		Store:     store,
		Notifier:  cliNotifier{},
		Dialogs:   noopDialogs{},
		Navigator: noopNavigator{},
	}), nil
}

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := newCLIClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), client.DefaultTimeout)
			defer cancel()
			return cli.Login(ctx, username, password)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var email, username, fullName, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := newCLIClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), client.DefaultTimeout)
			defer cancel()
			return cli.Register(ctx, email, username, fullName, password)
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVar(&fullName, "full-name", "", "display name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := newCLIClient()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), client.DefaultTimeout)
			defer cancel()

			resp, err := cli.AuthRequest(ctx, http.MethodGet, "/auth/me", nil)
			if err != nil {
				return err
			}
			if resp == nil {
				// Not signed in; the notifier already said so.
				return nil
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusUnauthorized {
				// Session expired; the notifier already said so.
				return nil
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("fetching account: status %d", resp.StatusCode)
			}

			var account struct {
				Email    string `json:"email"`
				Username string `json:"username"`
				FullName string `json:"full_name"`
				IsActive bool   `json:"is_active"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
				return err
			}

			fmt.Printf("Signed in as %s (%s)\n", account.Username, account.Email)
			if account.FullName != "" {
				fmt.Printf("Name: %s\n", account.FullName)
			}
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := newCLIClient()
			if err != nil {
				return err
			}
			if err := cli.Store().Clear(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}
