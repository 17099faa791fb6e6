package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/wizard"
)

// navKeys are available on every step without a focused text field.
var navKeys = map[string]wizard.Step{
	"h": wizard.StepWelcome,
	"l": wizard.StepLibrary,
	"t": wizard.StepTraining,
	"p": wizard.StepProfile,
}

func (m Model) updateStep(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.typing() {
		return m.updateInput(msg)
	}

	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "esc":
		return m.dispatch(wizard.Back{})
	}
	if step, ok := navKeys[key]; ok {
		return m.dispatch(wizard.Navigate{Step: step})
	}

	switch m.state.Step {
	case wizard.StepWelcome:
		switch key {
		case "enter":
			return m.dispatch(wizard.Next{})
		case "r":
			return m.dispatch(wizard.Navigate{Step: wizard.StepResults})
		}

	case wizard.StepProductInput:
		return m.updateTags(msg)

	case wizard.StepTypeSelection:
		return m.updateTypeSelection(key)

	case wizard.StepStyleSelection:
		if m.moveCursor(key, len(model.WritingStyles)) {
			return m, nil
		}
		if key == "enter" {
			next, _ := m.dispatch(wizard.SelectStyle{Style: model.WritingStyles[m.cursor]})
			return next.(Model).dispatch(wizard.Next{})
		}

	case wizard.StepConfirmation:
		switch key {
		case "enter", "g":
			return m.dispatch(wizard.Submit{})
		case "1":
			return m.dispatch(wizard.JumpTo{Field: wizard.FieldProduct})
		case "2":
			return m.dispatch(wizard.JumpTo{Field: wizard.FieldType})
		case "3":
			return m.dispatch(wizard.JumpTo{Field: wizard.FieldStyle})
		}

	case wizard.StepResults:
		switch key {
		case "f":
			return m.dispatch(wizard.OpenFeedback{})
		case "c":
			return m.dispatch(wizard.OpenCompliance{})
		case "n":
			return m.dispatch(wizard.StartOver{})
		case "1", "2", "3":
			n, _ := strconv.Atoi(key)
			return m, m.save(n)
		}

	case wizard.StepFeedback:
		if m.moveCursor(key, len(model.Satisfactions)) {
			return m, nil
		}
		if key == "enter" {
			return m, m.sendFeedback(model.Satisfactions[m.cursor])
		}

	case wizard.StepCompliance:
		if key == "enter" {
			return m.dispatch(wizard.BackToResults{})
		}

	case wizard.StepLibrary, wizard.StepProfile:
		if key == "enter" {
			return m.dispatch(wizard.Back{})
		}
	}

	return m, nil
}

// typing reports whether keys go to a text field.
func (m Model) typing() bool {
	switch m.state.Step {
	case wizard.StepProductInput:
		return !m.focusTags
	case wizard.StepTraining:
		return !m.loading
	}
	return false
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state.Step {
	case wizard.StepProductInput:
		switch msg.Type {
		case tea.KeyEsc:
			return m.dispatch(wizard.Back{})
		case tea.KeyTab:
			m.focusTags = true
			m.product.Blur()
			return m.dispatch(wizard.SetProductName{Name: m.product.Value()})
		case tea.KeyEnter:
			next, _ := m.dispatch(wizard.SetProductName{Name: m.product.Value()})
			return next.(Model).dispatch(wizard.Next{})
		}
		var cmd tea.Cmd
		m.product, cmd = m.product.Update(msg)
		return m, cmd

	case wizard.StepTraining:
		switch msg.Type {
		case tea.KeyEsc:
			return m.dispatch(wizard.Back{})
		case tea.KeyEnter:
			text := strings.TrimSpace(m.training.Value())
			if text == "" {
				return m.dispatch(wizard.Notify{Message: "请输入训练文本"})
			}
			m.loading = true
			return m, tea.Batch(m.analyze(text), m.spinner.Tick)
		}
		var cmd tea.Cmd
		m.training, cmd = m.training.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateTags(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.moveCursor(key, len(model.TagCatalog)) {
		return m, nil
	}
	switch key {
	case "tab":
		m.focusTags = false
		return m, m.product.Focus()
	case " ", "x":
		return m.dispatch(wizard.ToggleTag{Tag: model.TagCatalog[m.cursor]})
	case "enter":
		return m.dispatch(wizard.Next{})
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(model.TagCatalog) {
		m.cursor = n - 1
		return m.dispatch(wizard.ToggleTag{Tag: model.TagCatalog[n-1]})
	}
	return m, nil
}

func (m Model) updateTypeSelection(key string) (tea.Model, tea.Cmd) {
	n := len(model.ContentTypes)
	if m.audienceFocus {
		n = len(model.TargetAudiences)
	}
	if m.moveCursor(key, n) {
		return m, nil
	}

	switch key {
	case "tab":
		m.audienceFocus = !m.audienceFocus
		m.cursor = 0
		return m, nil
	case "enter":
		if !m.audienceFocus {
			next, cmd := m.dispatch(wizard.SelectContentType{Type: model.ContentTypes[m.cursor]})
			nm := next.(Model)
			nm.audienceFocus = true
			nm.cursor = 0
			return nm, cmd
		}
		next, _ := m.dispatch(wizard.SelectAudience{Audience: model.TargetAudiences[m.cursor]})
		return next.(Model).dispatch(wizard.Next{})
	}
	return m, nil
}

// moveCursor handles up/down over n options. It reports whether key was
// consumed.
func (m *Model) moveCursor(key string, n int) bool {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return true
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
		return true
	}
	return false
}
