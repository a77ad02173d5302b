package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
)

// AskFunc answers one question for the chat.
type AskFunc func(ctx context.Context, question string) (Answer, error)

type answerMsg struct {
	answer Answer
	err    error
}

// ChatModel is the bubbletea model for the interactive chat.
type ChatModel struct {
	ctx     context.Context
	ask     AskFunc
	title   string
	styles  Styles
	input   textinput.Model
	view    viewport.Model
	spinner spinner.Model

	transcript []string
	last       *Answer
	waiting    bool
	ready      bool
	width      int
}

// NewChatModel creates the chat model. title is shown in the header.
func NewChatModel(ctx context.Context, ask AskFunc, title string, styles Styles) ChatModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.CharLimit = 500
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Success

	return ChatModel{
		ctx:     ctx,
		ask:     ask,
		title:   title,
		styles:  styles,
		input:   ti,
		view:    viewport.New(0, 0),
		spinner: sp,
	}
}

// Init implements tea.Model.
func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		_, frame := m.styles.Input.GetFrameSize()
		// header, help line, input box.
		m.view.Width = max(20, msg.Width)
		m.view.Height = max(3, msg.Height-3-frame-1)
		m.input.Width = max(10, msg.Width-6)
		m.refresh()
		return m, nil

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.transcript = append(m.transcript, m.styles.Error.Render(errorText(msg.err)))
		} else {
			a := msg.answer
			m.last = &a
			m.transcript = append(m.transcript, m.renderAnswer(a))
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.view, cmd = m.view.Update(msg)
			return m, cmd
		case tea.KeyEnter:
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.waiting {
				return m, nil
			}
			return m.submit(q)
		case tea.KeyRunes:
			// A digit on an empty line asks that related question.
			if m.input.Value() == "" && len(msg.Runes) == 1 && !m.waiting {
				if q, ok := m.suggestion(msg.Runes[0]); ok {
					return m.submit(q)
				}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m ChatModel) submit(q string) (tea.Model, tea.Cmd) {
	m.input.Reset()
	m.waiting = true
	m.transcript = append(m.transcript, m.styles.Label.Render("you: ")+q)
	m.refresh()
	return m, tea.Batch(m.askCmd(q), m.spinner.Tick)
}

func (m ChatModel) askCmd(q string) tea.Cmd {
	ctx, ask := m.ctx, m.ask
	return func() tea.Msg {
		a, err := ask(ctx, q)
		return answerMsg{answer: a, err: err}
	}
}

// suggestion maps '1'..'9' to the last answer's related questions.
func (m ChatModel) suggestion(r rune) (string, bool) {
	if m.last == nil || r < '1' || r > '9' {
		return "", false
	}
	related := m.related(*m.last)
	i := int(r - '1')
	if i >= len(related) {
		return "", false
	}
	return related[i].Question, true
}

func (m ChatModel) related(a Answer) []Suggestion {
	if !a.Fallback && len(a.Suggestions) > 0 {
		return a.Suggestions[1:]
	}
	return a.Suggestions
}

func (m ChatModel) renderAnswer(a Answer) string {
	var sb strings.Builder
	switch {
	case a.Unavailable, a.Fallback:
		sb.WriteString(m.styles.Warning.Render(a.Answer))
	default:
		sb.WriteString(m.styles.Question.Render(a.Question))
		sb.WriteString(" ")
		sb.WriteString(m.styles.Score.Render(fmt.Sprintf("(%.2f)", a.Score)))
		sb.WriteString("\n")
		sb.WriteString(m.styles.Answer.Render(a.Answer))
	}
	for i, s := range m.related(a) {
		fmt.Fprintf(&sb, "\n  %s %s", m.styles.Label.Render(fmt.Sprintf("[%d]", i+1)), m.styles.Suggestion.Render(s.Question))
	}
	return sb.String()
}

func (m *ChatModel) refresh() {
	m.view.SetContent(strings.Join(m.transcript, "\n\n"))
	m.view.GotoBottom()
}

// Transcript returns the rendered conversation so far.
func (m ChatModel) Transcript() []string {
	return append([]string(nil), m.transcript...)
}

// View implements tea.Model.
func (m ChatModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := m.styles.Header.Render(m.title)
	status := m.styles.Dim.Render("enter ask · 1-9 related question · pgup/pgdn scroll · esc quit")
	if m.waiting {
		status = m.spinner.View() + " " + m.styles.Label.Render("thinking...")
	}
	return header + "\n" + m.view.View() + "\n" + m.styles.Input.Render(m.input.View()) + "\n" + status
}

func errorText(err error) string {
	if apperrors.IsInvalidInput(err) {
		return "Please type a question."
	}
	msg := strings.TrimSpace(apperrors.FormatForUser(err, false))
	if !strings.HasPrefix(msg, "Error:") {
		msg = "Error: " + msg
	}
	return msg
}

// RunChat runs the chat until the user quits or ctx is cancelled.
func RunChat(ctx context.Context, m ChatModel, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
