package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Each form binds its inputs to named semantic fields; nothing reads
// values by position.

// loginForm collects the sign-in credentials.
type loginForm struct {
	username textinput.Model
	password textinput.Model
	focus    int
}

func newLoginForm() loginForm {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	return loginForm{username: username, password: password}
}

func (f *loginForm) inputs() []*textinput.Model {
	return []*textinput.Model{&f.username, &f.password}
}

// Update routes key input to the focused field and cycles focus on tab.
func (f loginForm) Update(msg tea.Msg) (loginForm, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab", "down", "up":
			f.focus = cycleFocus(f.focus, 2, key.String())
			applyFocus(f.inputs(), f.focus)
			return f, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case 0:
		f.username, cmd = f.username.Update(msg)
	case 1:
		f.password, cmd = f.password.Update(msg)
	}
	return f, cmd
}

// onLastField reports whether enter should submit rather than advance.
func (f loginForm) onLastField() bool {
	return f.focus == 1
}

func (f *loginForm) advance() {
	f.focus = (f.focus + 1) % 2
	applyFocus(f.inputs(), f.focus)
}

func (f *loginForm) reset() {
	f.username.SetValue("")
	f.password.SetValue("")
	f.focus = 0
	applyFocus(f.inputs(), f.focus)
}

func (f loginForm) View() string {
	var b strings.Builder
	b.WriteString(dialogTitleStyle.Render("Sign in"))
	b.WriteString("\n")
	b.WriteString(fieldLabelStyle.Render("Username"))
	b.WriteString("\n" + f.username.View() + "\n")
	b.WriteString(fieldLabelStyle.Render("Password"))
	b.WriteString("\n" + f.password.View() + "\n\n")
	b.WriteString(hintStyle.Render("enter submit · tab next field · esc cancel"))
	return dialogStyle.Render(b.String())
}

// registerForm collects the sign-up fields.
type registerForm struct {
	email    textinput.Model
	username textinput.Model
	fullName textinput.Model
	password textinput.Model
	focus    int
}

func newRegisterForm() registerForm {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Focus()

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64

	fullName := textinput.New()
	fullName.Placeholder = "full name"
	fullName.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	return registerForm{email: email, username: username, fullName: fullName, password: password}
}

func (f *registerForm) inputs() []*textinput.Model {
	return []*textinput.Model{&f.email, &f.username, &f.fullName, &f.password}
}

func (f registerForm) Update(msg tea.Msg) (registerForm, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab", "down", "up":
			f.focus = cycleFocus(f.focus, 4, key.String())
			applyFocus(f.inputs(), f.focus)
			return f, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case 0:
		f.email, cmd = f.email.Update(msg)
	case 1:
		f.username, cmd = f.username.Update(msg)
	case 2:
		f.fullName, cmd = f.fullName.Update(msg)
	case 3:
		f.password, cmd = f.password.Update(msg)
	}
	return f, cmd
}

func (f registerForm) onLastField() bool {
	return f.focus == 3
}

func (f *registerForm) advance() {
	f.focus = (f.focus + 1) % 4
	applyFocus(f.inputs(), f.focus)
}

func (f *registerForm) reset() {
	f.email.SetValue("")
	f.username.SetValue("")
	f.fullName.SetValue("")
	f.password.SetValue("")
	f.focus = 0
	applyFocus(f.inputs(), f.focus)
}

func (f registerForm) View() string {
	var b strings.Builder
	b.WriteString(dialogTitleStyle.Render("Create your account"))
	b.WriteString("\n")
	for _, field := range []struct {
		label string
		input textinput.Model
	}{
		{"Email", f.email},
		{"Username", f.username},
		{"Full name", f.fullName},
		{"Password", f.password},
	} {
		b.WriteString(fieldLabelStyle.Render(field.label))
		b.WriteString("\n" + field.input.View() + "\n")
	}
	b.WriteString("\n" + hintStyle.Render("enter submit · tab next field · esc cancel"))
	return dialogStyle.Render(b.String())
}

func cycleFocus(focus, count int, key string) int {
	if key == "shift+tab" || key == "up" {
		return (focus - 1 + count) % count
	}
	return (focus + 1) % count
}

func applyFocus(inputs []*textinput.Model, focus int) {
	for i, input := range inputs {
		if i == focus {
			input.Focus()
		} else {
			input.Blur()
		}
	}
}
