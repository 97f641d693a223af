package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/controku/internal/ecp"
	"github.com/muurk/controku/internal/logging"
)

// ErrNotTerminal is returned by Run when stdin or stdout is not a terminal
var ErrNotTerminal = errors.New("the interactive remote needs a terminal")

// Device is the subset of the device session the remote drives
type Device interface {
	GetInfo(ctx context.Context) (*ecp.DeviceInfo, error)
	SendKey(ctx context.Context, key ecp.Key) error
	TogglePower(ctx context.Context) (ecp.PowerState, error)
}

// Messages for async operations
type infoMsg struct {
	info *ecp.DeviceInfo
	err  error
}

type keySentMsg struct {
	key ecp.Key
	err error
}

type powerMsg struct {
	target ecp.PowerState
	err    error
}

// Model is the interactive remote screen
type Model struct {
	device  Device
	timeout time.Duration

	info    *ecp.DeviceInfo
	lastKey ecp.Key
	lastErr error
	typing  bool
	typed   string

	// Keys waiting to be sent. At most one keypress is in flight so the
	// device receives keys in the order they were pressed.
	queue   []ecp.Key
	sending bool

	keys     keyMap
	keyboard keyboardKeyMap
	help     help.Model
	width    int
}

// New creates a remote for device. timeout bounds every request.
func New(device Device, timeout time.Duration) Model {
	if timeout <= 0 {
		timeout = ecp.DefaultTimeout
	}
	return Model{
		device:   device,
		timeout:  timeout,
		keys:     newKeyMap(),
		keyboard: newKeyboardKeyMap(),
		help:     help.New(),
		width:    terminalWidth(),
	}
}

// Run starts the remote full-screen and blocks until the user quits
func Run(device Device, timeout time.Duration) error {
	if !IsTerminal() {
		return ErrNotTerminal
	}
	_, err := tea.NewProgram(New(device, timeout), tea.WithAltScreen()).Run()
	return err
}

// Init fetches device info for the header
func (m Model) Init() tea.Cmd {
	return m.fetchInfo()
}

func (m Model) fetchInfo() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		info, err := m.device.GetInfo(ctx)
		return infoMsg{info: info, err: err}
	}
}

func (m Model) sendKey(k ecp.Key) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		return keySentMsg{key: k, err: m.device.SendKey(ctx, k)}
	}
}

// enqueue adds keys to the send queue and starts sending if idle
func (m Model) enqueue(keys ...ecp.Key) (Model, tea.Cmd) {
	m.queue = append(m.queue, keys...)
	return m.sendNext()
}

func (m Model) sendNext() (Model, tea.Cmd) {
	if m.sending || len(m.queue) == 0 {
		return m, nil
	}
	k := m.queue[0]
	m.queue = m.queue[1:]
	m.sending = true
	return m, m.sendKey(k)
}

func (m Model) togglePower() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		target, err := m.device.TogglePower(ctx)
		return powerMsg{target: target, err: err}
	}
}

// Update handles key presses and async results
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = clampWidth(msg.Width)
		m.help.Width = m.width
		return m, nil

	case infoMsg:
		m.info, m.lastErr = msg.info, msg.err
		return m, nil

	case keySentMsg:
		m.sending = false
		m.lastKey, m.lastErr = msg.key, msg.err
		if msg.err != nil {
			logging.Warn("Keypress failed", zap.String("key", string(msg.key)),
				zap.Int("dropped", len(m.queue)), zap.Error(msg.err))
			m.queue = nil
			return m, nil
		}
		return m.sendNext()

	case powerMsg:
		m.lastErr = msg.err
		if msg.err == nil {
			m.lastKey = ecp.KeyPowerOff
			if msg.target.IsOn() {
				m.lastKey = ecp.KeyPowerOn
			}
			if m.info != nil {
				m.info.Power = msg.target
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.typing {
			return m.updateTyping(msg)
		}
		return m.updateRemote(msg)
	}

	return m, nil
}

func (m Model) updateRemote(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Keyboard):
		m.typing = true
		m.typed = ""
		return m, nil
	case key.Matches(msg, m.keys.Power):
		return m, m.togglePower()
	}

	if k, ok := m.keys.Lookup(msg); ok {
		return m.enqueue(k)
	}
	return m, nil
}

func (m Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyboard.Leave):
		m.typing = false
		return m, nil
	case key.Matches(msg, m.keyboard.Enter.Binding):
		m.typed = ""
		return m.enqueue(m.keyboard.Enter.Send)
	case key.Matches(msg, m.keyboard.Backspace.Binding):
		if r := []rune(m.typed); len(r) > 0 {
			m.typed = string(r[:len(r)-1])
		}
		return m.enqueue(m.keyboard.Backspace.Send)
	}

	if msg.Type != tea.KeyRunes && msg.Type != tea.KeySpace {
		return m, nil
	}
	runes := msg.Runes
	if msg.Type == tea.KeySpace {
		runes = []rune{' '}
	}

	keys := make([]ecp.Key, 0, len(runes))
	for _, r := range runes {
		m.typed += string(r)
		keys = append(keys, ecp.Literal(r))
	}
	return m.enqueue(keys...)
}

// View renders the remote
func (m Model) View() string {
	var lines []string

	title := titleStyle.Render("controku remote")
	if m.info != nil {
		power := powerStandbyStyle.Render("● standby")
		if m.info.Power.IsOn() {
			power = powerOnStyle.Render("● on")
		}
		lines = append(lines,
			lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", power),
			subtitleStyle.Render(fmt.Sprintf("%s · %s · %s", m.info.Name, m.info.Model, m.info.Address)),
		)
	} else {
		lines = append(lines, title, subtitleStyle.Render("connecting..."))
	}
	lines = append(lines, "")

	if m.typing {
		lines = append(lines, modeStyle.Render("Typing: ")+m.typed+"_")
	} else if m.lastKey != "" {
		lines = append(lines, "Sent: "+lastKeyStyle.Render(string(m.lastKey)))
	} else {
		lines = append(lines, subtitleStyle.Render("Press a key to control the device"))
	}

	if m.lastErr != nil {
		lines = append(lines, errorStyle.Render(ecp.GetShortErrorMessage(m.lastErr)))
	}
	lines = append(lines, "")

	if m.typing {
		lines = append(lines, m.help.View(m.keyboard))
	} else {
		lines = append(lines, m.help.View(m.keys))
	}

	return boxStyle(m.width).Render(strings.Join(lines, "\n"))
}
