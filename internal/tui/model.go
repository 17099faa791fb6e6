// Package tui is the terminal front end of the wizard. All navigation goes
// through wizard.Reduce; this package only maps keys to actions, runs the
// API calls a transition asks for and renders the state.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/BitmanAlan/xiaohongshu/internal/client"
	"github.com/BitmanAlan/xiaohongshu/internal/compliance"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/wizard"
)

type Config struct {
	// NewAPI returns a client sending token as its bearer credential.
	NewAPI    func(token string) API
	User      *model.User
	Token     string
	OnSession Session
}

type Model struct {
	ctx    context.Context
	newAPI func(token string) API
	onAuth Session

	state wizard.State

	product  textinput.Model
	email    textinput.Model
	password textinput.Model
	training textinput.Model
	spinner  spinner.Model

	// cursor indexes the option list of the current step
	cursor int
	// focusTags moves key input from the name field to the tag list
	focusTags bool
	// audienceFocus is set once the content type is picked
	audienceFocus bool
	passwordFocus bool

	library  []model.LibraryItem
	profile  *model.UserProfile
	reports  []compliance.Report
	analysis model.StyleAnalysis
	loading  bool
	width    int
}

func New(ctx context.Context, cfg Config) Model {
	product := textinput.New()
	product.Placeholder = "例如：保湿精华"
	product.CharLimit = 100
	product.Prompt = "│ "

	email := textinput.New()
	email.Placeholder = "邮箱"
	email.Prompt = "│ "

	password := textinput.New()
	password.Placeholder = "密码"
	password.Prompt = "│ "
	password.EchoMode = textinput.EchoPassword

	training := textinput.New()
	training.Placeholder = "粘贴一篇你写过的笔记"
	training.CharLimit = 20000
	training.Prompt = "│ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.spinner

	state := wizard.Initial()
	state.User = cfg.User
	state.AccessToken = cfg.Token

	return Model{
		ctx:      ctx,
		newAPI:   cfg.NewAPI,
		onAuth:   cfg.OnSession,
		state:    state,
		product:  product,
		email:    email,
		password: password,
		training: training,
		spinner:  sp,
	}
}

func (m Model) State() wizard.State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.product.Width = max(msg.Width-6, 20)
		m.training.Width = max(msg.Width-6, 20)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case actionMsg:
		return m.dispatch(msg.action)

	case signedInMsg:
		if m.onAuth != nil {
			m.onAuth(msg.token, msg.user)
		}
		m.email.SetValue("")
		m.password.SetValue("")
		m.email.Blur()
		m.password.Blur()
		return m.dispatch(wizard.Authenticated{User: msg.user, Token: msg.token})

	case libraryMsg:
		m.loading = false
		m.library = msg
		return m, nil

	case profileMsg:
		m.loading = false
		m.profile = msg
		return m, nil

	case reportsMsg:
		m.loading = false
		m.reports = msg
		return m, nil

	case analysisMsg:
		m.loading = false
		m.analysis = model.StyleAnalysis(msg)
		m.training.SetValue("")
		return m.dispatch(wizard.Notify{Message: "风格分析完成"})

	case savedMsg:
		return m.dispatch(wizard.Notify{Message: fmt.Sprintf("版本 %d 已保存到文案库", int(msg))})

	case feedbackMsg:
		m.state = wizard.Reduce(m.state, wizard.BackToResults{})
		return m.dispatch(wizard.Notify{Message: "感谢你的反馈！"})

	case requestErrMsg:
		m.loading = false
		if client.IsAuth(msg.err) {
			return m.dispatch(wizard.RequireAuth{})
		}
		return m.dispatch(wizard.Notify{Message: errorText(msg.err)})

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.state.ShowAuth {
			return m.updateAuth(msg)
		}
		return m.updateStep(msg)
	}

	return m, nil
}

// dispatch reduces a and starts whatever side effect the transition needs.
func (m Model) dispatch(a wizard.Action) (tea.Model, tea.Cmd) {
	prev := m.state
	m.state = wizard.Reduce(prev, a)
	next := m.state

	var cmds []tea.Cmd
	if wizard.StartsGeneration(prev, next) {
		cmds = append(cmds, m.generate(), m.spinner.Tick)
	}
	if next.ShowAuth && !prev.ShowAuth {
		m.passwordFocus = false
		m.password.Blur()
		cmds = append(cmds, m.email.Focus())
	}

	if next.Step != prev.Step {
		m.cursor = 0
		m.loading = false
		switch next.Step {
		case wizard.StepProductInput:
			m.focusTags = false
			m.product.SetValue(next.ProductName)
			cmds = append(cmds, m.product.Focus())
		case wizard.StepTypeSelection:
			m.audienceFocus = false
		case wizard.StepLibrary:
			m.loading = true
			cmds = append(cmds, m.loadLibrary())
		case wizard.StepProfile:
			m.loading = true
			cmds = append(cmds, m.loadProfile())
		case wizard.StepCompliance:
			m.loading = true
			m.reports = nil
			cmds = append(cmds, m.review())
		case wizard.StepTraining:
			m.analysis = nil
			cmds = append(cmds, m.training.Focus())
		}
		if prev.Step == wizard.StepProductInput {
			m.product.Blur()
		}
		if prev.Step == wizard.StepTraining {
			m.training.Blur()
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.dispatch(wizard.DismissAuth{})
	case tea.KeyTab, tea.KeyShiftTab:
		m.passwordFocus = !m.passwordFocus
		if m.passwordFocus {
			m.email.Blur()
			return m, m.password.Focus()
		}
		m.password.Blur()
		return m, m.email.Focus()
	case tea.KeyEnter:
		email := strings.TrimSpace(m.email.Value())
		if email == "" || m.password.Value() == "" {
			return m.dispatch(wizard.AuthFailed{Message: "请输入邮箱和密码"})
		}
		return m, m.signIn(email, m.password.Value())
	}

	var cmd tea.Cmd
	if m.passwordFocus {
		m.password, cmd = m.password.Update(msg)
	} else {
		m.email, cmd = m.email.Update(msg)
	}
	return m, cmd
}
