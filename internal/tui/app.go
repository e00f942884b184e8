// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Switches between login, sign-up and home screens and runs submissions off the UI loop

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/form"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/models"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/notify"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/session"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/tui/icons"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenLogin
	ScreenSignup
	ScreenHome
)

// Layout constants
const (
	minTerminalWidth = 80
	submitTimeout    = 45 * time.Second
)

// hydratedMsg is sent once the persisted session has been read
type hydratedMsg struct {
	session models.Session
	err     error
}

// submitDoneMsg is sent when a login or sign-up request finishes
type submitDoneMsg struct {
	outcome form.Outcome
	err     error
}

// navigator records the route a form asks for; the App applies it on the UI loop
type navigator struct {
	mu    sync.Mutex
	route string
}

func (n *navigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.route = route
}

func (n *navigator) take() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	r := n.route
	n.route = ""
	return r
}

// App is the root model for the TUI
type App struct {
	store    *session.Store
	toasts   *notify.Recorder
	nav      *navigator
	loginCtl *form.Login
	signup   *form.Signup

	screen     Screen
	width      int
	height     int
	err        error
	submitting bool
	spinner    spinner.Model

	loginScreen  *loginScreen
	signupScreen *signupScreen

	navIndex  int
	lastRoute string
}

// New creates a new TUI application
func New(api form.AuthAPI, store *session.Store) *App {
	toasts := notify.NewRecorder()
	nav := &navigator{}

	return &App{
		store:    store,
		toasts:   toasts,
		nav:      nav,
		loginCtl: form.NewLogin(api, store, toasts, nav),
		signup:   form.NewSignup(api, toasts, nav),
		screen:   ScreenLoading,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
		),
	}
}

// Screen returns the active screen
func (a *App) Screen() Screen {
	return a.screen
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.rehydrate())
}

func (a *App) rehydrate() tea.Cmd {
	return func() tea.Msg {
		err := a.store.Rehydrate()
		return hydratedMsg{session: a.store.Session(), err: err}
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.activeForm() != nil {
			return a, a.updateForm(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		// The form stays on screen while a request is pending; ignore input until it resolves
		if a.submitting || a.screen == ScreenLoading {
			return a, nil
		}

		switch a.screen {
		case ScreenLogin:
			if msg.String() == "ctrl+n" {
				return a, a.showSignup()
			}
			return a, a.updateForm(msg)
		case ScreenSignup:
			if msg.String() == "ctrl+b" {
				return a, a.showLogin()
			}
			return a, a.updateForm(msg)
		case ScreenHome:
			return a.updateHome(msg)
		}

	case hydratedMsg:
		if msg.err != nil {
			a.err = msg.err
		}
		if msg.session.Authenticated {
			return a, a.showHome()
		}
		return a, a.showLogin()

	case submitDoneMsg:
		return a.handleSubmitDone(msg)

	case spinner.TickMsg:
		if a.submitting || a.screen == ScreenLoading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	default:
		// huh forms need their own internal messages
		if a.activeForm() != nil {
			return a, a.updateForm(msg)
		}
	}

	return a, nil
}

func (a *App) activeForm() *huh.Form {
	switch a.screen {
	case ScreenLogin:
		if a.loginScreen != nil {
			return a.loginScreen.form
		}
	case ScreenSignup:
		if a.signupScreen != nil {
			return a.signupScreen.form
		}
	}
	return nil
}

// updateForm forwards msg to the active form and submits once it completes
func (a *App) updateForm(msg tea.Msg) tea.Cmd {
	f := a.activeForm()
	if f == nil {
		return nil
	}

	model, cmd := f.Update(msg)
	if updated, ok := model.(*huh.Form); ok {
		f = updated
		switch a.screen {
		case ScreenLogin:
			a.loginScreen.form = updated
		case ScreenSignup:
			a.signupScreen.form = updated
		}
	}

	switch f.State {
	case huh.StateCompleted:
		return a.submit()
	case huh.StateAborted:
		return tea.Quit
	}
	return cmd
}

// submit starts the request for the active form. A second call while one is
// pending returns nil.
func (a *App) submit() tea.Cmd {
	if a.submitting {
		return nil
	}

	var run func(ctx context.Context) (form.Outcome, error)
	switch a.screen {
	case ScreenLogin:
		creds := a.loginScreen.credentials()
		a.loginCtl.SetLoginType(creds.Identifier.Kind)
		a.loginCtl.SetIdentifier(creds.Identifier.Value)
		a.loginCtl.SetPassword(creds.Password)
		run = a.loginCtl.Submit
	case ScreenSignup:
		p := a.signupScreen.profile
		a.signup.SetName(p.Name)
		a.signup.SetPhoneNumber(p.PhoneNumber)
		a.signup.SetEmail(p.Email)
		a.signup.SetPassword(p.Password)
		run = a.signup.Submit
	default:
		return nil
	}

	a.submitting = true
	a.err = nil
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		outcome, err := run(ctx)
		return submitDoneMsg{outcome: outcome, err: err}
	})
}

func (a *App) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	a.submitting = false

	if msg.err != nil && !errors.Is(msg.err, form.ErrInFlight) {
		a.err = msg.err
	}

	switch a.nav.take() {
	case form.RouteHome:
		return a, a.showHome()
	case form.RouteLogin:
		if a.loginScreen == nil {
			a.loginScreen = newLoginScreen()
		}
		if a.signupScreen != nil {
			// carry the new account's email over to the login form
			a.loginScreen.kind = models.LoginEmail
			a.loginScreen.identifier = a.signupScreen.profile.Email
			a.loginScreen.password = ""
		}
		return a, a.showLogin()
	}

	// failed: rebuild the current form with the entered values
	switch a.screen {
	case ScreenLogin:
		a.loginScreen.build()
		return a, a.loginScreen.form.Init()
	case ScreenSignup:
		a.signupScreen.build()
		return a, a.signupScreen.form.Init()
	}
	return a, nil
}

func (a *App) showLogin() tea.Cmd {
	a.screen = ScreenLogin
	if a.loginScreen == nil {
		a.loginScreen = newLoginScreen()
	} else {
		a.loginScreen.build()
	}
	return a.loginScreen.form.Init()
}

func (a *App) showSignup() tea.Cmd {
	a.screen = ScreenSignup
	if a.signupScreen == nil {
		a.signupScreen = newSignupScreen()
	} else {
		a.signupScreen.build()
	}
	return a.signupScreen.form.Init()
}

func (a *App) showHome() tea.Cmd {
	a.screen = ScreenHome
	a.navIndex = 0
	return nil
}

func (a *App) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q":
		return a, tea.Quit
	case "l":
		return a, a.logout()
	case "left", "h":
		if a.navIndex > 0 {
			a.navIndex--
		}
	case "right", "tab":
		if a.navIndex < len(Destinations)-1 {
			a.navIndex++
		}
	case "enter":
		a.lastRoute = Destinations[a.navIndex].Route
	default:
		if d, ok := DestinationByKey(key); ok {
			for i := range Destinations {
				if Destinations[i].Route == d.Route {
					a.navIndex = i
				}
			}
			a.lastRoute = d.Route
		}
	}
	return a, nil
}

// logout clears the persisted session and returns to the login screen
func (a *App) logout() tea.Cmd {
	if err := a.store.Reset(); err != nil {
		a.err = err
		return nil
	}
	a.lastRoute = ""
	id := a.toasts.Loading("Logging out...")
	a.toasts.Success(id, "Logged out")
	a.loginScreen = nil
	return a.showLogin()
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.viewForm(a.loginScreen.form)
	case ScreenSignup:
		content = a.viewForm(a.signupScreen.form)
	case ScreenHome:
		content = a.viewHome()
	default:
		content = a.spinner.View() + " Loading session..."
	}

	if status := a.viewStatus(); status != "" {
		content += "\n\n" + status
	}
	return a.wrapWithFrame(content)
}

func (a *App) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	if a.submitting {
		return styles.Panel.Render(a.spinner.View() + " " + form.MsgSubmitting)
	}
	return f.View()
}

func (a *App) viewHome() string {
	var sb strings.Builder
	sb.WriteString(RenderNav(a.navIndex))
	sb.WriteString("\n\n")

	sess := a.store.Session()
	sb.WriteString(styles.KeyStyle.Render(icons.User.String()+" Session") + "  ")
	if sess.Authenticated {
		sb.WriteString(styles.ValueStyle.Render("signed in"))
	} else {
		sb.WriteString(styles.ValueStyle.Render("signed out"))
	}
	if info, err := session.Claims(sess.Token); err == nil && !info.ExpiresAt.IsZero() {
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("  token expires %s", info.ExpiresAt.Local().Format("2006-01-02 15:04"))))
	}
	sb.WriteString("\n")

	if a.lastRoute != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.KeyStyle.Render(icons.Info.String()+" Selected") + "  ")
		sb.WriteString(styles.ValueStyle.Render(a.lastRoute))
		sb.WriteString(styles.Subtitle.Render("  opens in the web app"))
	}
	return styles.ActivePanel.Render(sb.String())
}

// viewStatus shows the latest notification or error
func (a *App) viewStatus() string {
	if a.err != nil {
		return styles.ToastError.Render(icons.Critical.String() + " " + a.err.Error())
	}
	if a.submitting {
		return ""
	}
	if t, ok := a.toasts.Last(); ok {
		return t.Render()
	}
	return ""
}

// renderHeader creates the header bar with app branding and session context
func (a *App) renderHeader() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s", icons.App.String(), titleStyle.Render("Dairy Management"))
	rightText := ""
	if a.screen == ScreenHome {
		rightText = contextStyle.Render("signed in") + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText)
	if fillWidth < 0 {
		fillWidth = 0
	}
	return borderStyle.Render("╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮")
}

// renderFooter creates the footer with keyboard shortcuts
func (a *App) renderFooter() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	var shortcuts []string
	switch {
	case a.submitting:
		shortcuts = []string{"ctrl+c Quit"}
	case a.screen == ScreenLogin:
		shortcuts = []string{"Enter Next", "ctrl+n Sign up", "ctrl+c Quit"}
	case a.screen == ScreenSignup:
		shortcuts = []string{"Enter Next", "ctrl+b Log in", "ctrl+c Quit"}
	case a.screen == ScreenHome:
		shortcuts = []string{"1-4 Go", "←→ Move", "l Logout", "q Quit"}
	}

	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
	}
	leftText := " " + strings.Join(styled, "  ")
	leftPlain := " " + strings.Join(shortcuts, "  ")

	fillWidth := width - 4 - lipgloss.Width(leftPlain)
	if fillWidth < 0 {
		fillWidth = 0
	}
	return borderStyle.Render("╰─" + leftText + strings.Repeat("─", fillWidth) + "─╯")
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder
	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())
	return sb.String()
}

// Run starts the TUI
func Run(api form.AuthAPI, store *session.Store) error {
	p := tea.NewProgram(
		New(api, store),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
