package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stratforge/platform/internal/client"
	"stratforge/platform/internal/modal"
	"stratforge/platform/internal/notify"
	"stratforge/platform/internal/sched"
)

type page int

const (
	pageLanding page = iota
	pageDashboard
)

// Messages delivered back into the update loop.
type (
	refreshMsg        struct{}
	navigateMsg       struct{ path string }
	loginResultMsg    struct{ err error }
	registerResultMsg struct{ err error }
	productsMsg       struct {
		items []productItem
		err   error
	}
)

type productItem struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	CostPrice          float64  `json:"cost_price"`
	TargetProfitMargin *float64 `json:"target_profit_margin"`
}

// uiBridge forwards events raised outside the update loop (timer
// callbacks, scheduled navigation) into the running program. The send
// function is bound after tea.NewProgram returns.
type uiBridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (b *uiBridge) bind(send func(tea.Msg)) {
	b.mu.Lock()
	b.send = send
	b.mu.Unlock()
}

func (b *uiBridge) emit(msg tea.Msg) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// Navigate satisfies client.Navigator.
func (b *uiBridge) Navigate(path string) {
	b.emit(navigateMsg{path: path})
}

// teaDialogs routes the client's dialog requests to the modal state
// machines; the update loop reads those machines to decide what the
// overlay shows.
type teaDialogs struct {
	login    *modal.Dialog
	register *modal.Dialog
}

func (d teaDialogs) OpenLogin()     { d.login.Show() }
func (d teaDialogs) CloseLogin()    { d.login.Close() }
func (d teaDialogs) OpenRegister()  { d.register.Show() }
func (d teaDialogs) CloseRegister() { d.register.Close() }

type appModel struct {
	cli       *client.Client
	presenter *notify.Presenter
	bridge    *uiBridge

	loginDialog    *modal.Dialog
	registerDialog *modal.Dialog
	login          loginForm
	register       registerForm

	page        page
	products    []productItem
	productsErr error
	width       int
	height      int
}

// newApp wires the full interaction stack: scheduler, notification
// presenter, dialog state machines, and the API client, all reporting
// back through the bridge.
func newApp(cfg ConsoleConfig, store client.SessionStore) (appModel, *uiBridge) {
	scheduler := sched.Timers{}
	bridge := &uiBridge{}

	presenter := notify.NewPresenter(scheduler)
	presenter.OnChange(func() { bridge.emit(refreshMsg{}) })

	loginDialog := modal.New(scheduler)
	loginDialog.OnChange(func() { bridge.emit(refreshMsg{}) })
	registerDialog := modal.New(scheduler)
	registerDialog.OnChange(func() { bridge.emit(refreshMsg{}) })

	cli := client.New(client.Config{
		BaseURL:   cfg.APIBaseURL,
		Store:     store,
		Notifier:  presenter,
		Dialogs:   teaDialogs{login: loginDialog, register: registerDialog},
		Navigator: bridge,
		Scheduler: scheduler,
	})

	m := appModel{
		cli:            cli,
		presenter:      presenter,
		bridge:         bridge,
		loginDialog:    loginDialog,
		registerDialog: registerDialog,
		login:          newLoginForm(),
		register:       newRegisterForm(),
	}
	return m, bridge
}

func (m appModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshMsg:
		return m, nil

	case navigateMsg:
		if msg.path == client.DashboardPath {
			m.page = pageDashboard
			return m, m.fetchProducts()
		}
		m.page = pageLanding
		return m, nil

	case loginResultMsg:
		if msg.err == nil {
			m.login.reset()
		}
		return m, nil

	case registerResultMsg:
		if msg.err == nil {
			m.register.reset()
		}
		return m, nil

	case productsMsg:
		m.products = msg.items
		m.productsErr = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// A visible dialog owns the keyboard.
	if m.loginDialog.State() == modal.StateVisible {
		switch msg.String() {
		case "esc":
			m.loginDialog.Dismiss()
			return m, nil
		case "enter":
			if m.login.onLastField() {
				return m, m.submitLogin()
			}
			m.login.advance()
			return m, nil
		}
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd
	}

	if m.registerDialog.State() == modal.StateVisible {
		switch msg.String() {
		case "esc":
			m.registerDialog.Dismiss()
			return m, nil
		case "enter":
			if m.register.onLastField() {
				return m, m.submitRegister()
			}
			m.register.advance()
			return m, nil
		}
		var cmd tea.Cmd
		m.register, cmd = m.register.Update(msg)
		return m, cmd
	}

	// A dialog in transition still occupies the layout; input addressed
	// to the page underneath is swallowed.
	if m.loginDialog.Interactive() || m.registerDialog.Interactive() {
		return m, nil
	}

	switch m.page {
	case pageLanding:
		switch msg.String() {
		case "l":
			m.loginDialog.Show()
		case "r":
			m.registerDialog.Show()
		case "q":
			return m, tea.Quit
		}
	case pageDashboard:
		switch msg.String() {
		case "r":
			return m, m.fetchProducts()
		case "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

// submitLogin issues the login request off the update loop. Every
// press submits again; there is no in-flight deduplication.
func (m appModel) submitLogin() tea.Cmd {
	cli := m.cli
	username := m.login.username.Value()
	password := m.login.password.Value()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), client.DefaultTimeout)
		defer cancel()
		return loginResultMsg{err: cli.Login(ctx, username, password)}
	}
}

func (m appModel) submitRegister() tea.Cmd {
	cli := m.cli
	email := m.register.email.Value()
	username := m.register.username.Value()
	fullName := m.register.fullName.Value()
	password := m.register.password.Value()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), client.DefaultTimeout)
		defer cancel()
		return registerResultMsg{err: cli.Register(ctx, email, username, fullName, password)}
	}
}

func (m appModel) fetchProducts() tea.Cmd {
	cli := m.cli
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), client.DefaultTimeout)
		defer cancel()

		resp, err := cli.AuthRequest(ctx, http.MethodGet, "/products", nil)
		if err != nil {
			return productsMsg{err: err}
		}
		if resp == nil {
			// No session; the client already prompted for login.
			return productsMsg{}
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusUnauthorized {
			// Session expired; the client cleared the token and
			// reopened the login dialog. Nothing to show here.
			return productsMsg{}
		}
		if resp.StatusCode != http.StatusOK {
			return productsMsg{err: fmt.Errorf("listing products: status %d", resp.StatusCode)}
		}
		var body struct {
			Items []productItem `json:"items"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return productsMsg{err: err}
		}
		return productsMsg{items: body.Items}
	}
}

func (m appModel) View() string {
	var page string
	switch m.page {
	case pageDashboard:
		page = m.dashboardView()
	default:
		page = m.landingView()
	}

	if m.loginDialog.State() == modal.StateVisible || m.loginDialog.State() == modal.StateOpening {
		page = lipgloss.JoinVertical(lipgloss.Left, page, m.login.View())
	}
	if m.registerDialog.State() == modal.StateVisible || m.registerDialog.State() == modal.StateOpening {
		page = lipgloss.JoinVertical(lipgloss.Left, page, m.register.View())
	}

	if overlay := m.presenter.View(); overlay != "" {
		page = lipgloss.JoinVertical(lipgloss.Left, overlay, page)
	}
	return page
}

func (m appModel) landingView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("StratForge"))
	b.WriteString("\n")
	b.WriteString("Pricing strategy for product teams.\n\n")
	b.WriteString(hintStyle.Render("l sign in · r create account · q quit"))
	return b.String()
}

func (m appModel) dashboardView() string {
	var b strings.Builder
	b.WriteString(dashboardHeaderStyle.Render("Dashboard"))
	b.WriteString("\n")

	switch {
	case m.productsErr != nil:
		b.WriteString(hintStyle.Render("Could not load products: " + m.productsErr.Error()))
	case len(m.products) == 0:
		b.WriteString(hintStyle.Render("No products yet."))
	default:
		for _, p := range m.products {
			line := fmt.Sprintf("%s  [%s]  cost %.2f", p.Name, p.Category, p.CostPrice)
			if p.TargetProfitMargin != nil {
				line += fmt.Sprintf("  margin %.0f%%", *p.TargetProfitMargin*100)
			}
			b.WriteString(productRowStyle.Render(line))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + hintStyle.Render("r refresh · q quit"))
	return b.String()
}
