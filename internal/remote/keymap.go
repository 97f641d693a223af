package remote

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/controku/internal/ecp"
)

// binding pairs a keyboard binding with the ECP key it sends
type binding struct {
	key.Binding
	Send ecp.Key
}

// keyMap defines key bindings for the remote screen
type keyMap struct {
	Back       binding
	Home       binding
	Info       binding
	Up         binding
	Down       binding
	Left       binding
	Right      binding
	Select     binding
	Rev        binding
	Play       binding
	Fwd        binding
	Mute       binding
	VolumeDown binding
	VolumeUp   binding

	Power    key.Binding
	Keyboard key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// keyboardKeyMap defines key bindings while typing into the device
type keyboardKeyMap struct {
	Backspace binding
	Enter     binding
	Leave     key.Binding
}

func newKeyMap() keyMap {
	bind := func(send ecp.Key, help, desc string, keys ...string) binding {
		return binding{
			Binding: key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc)),
			Send:    send,
		}
	}

	return keyMap{
		Back:       bind(ecp.KeyBack, "esc/⌫", "back", "esc", "backspace"),
		Home:       bind(ecp.KeyHome, "h", "home", "h"),
		Info:       bind(ecp.KeyInfo, "i", "info", "i"),
		Up:         bind(ecp.KeyUp, "↑", "up", "up"),
		Down:       bind(ecp.KeyDown, "↓", "down", "down"),
		Left:       bind(ecp.KeyLeft, "←", "left", "left"),
		Right:      bind(ecp.KeyRight, "→", "right", "right"),
		Select:     bind(ecp.KeySelect, "enter/o/s", "select", "enter", " ", "o", "s"),
		Rev:        bind(ecp.KeyRev, "r", "rewind", "r"),
		Play:       bind(ecp.KeyPlay, "p", "play/pause", "p"),
		Fwd:        bind(ecp.KeyFwd, "f", "fast forward", "f"),
		Mute:       bind(ecp.KeyVolumeMute, "m", "mute", "m"),
		VolumeDown: bind(ecp.KeyVolumeDown, "[", "volume down", "["),
		VolumeUp:   bind(ecp.KeyVolumeUp, "]", "volume up", "]"),

		Power: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "power"),
		),
		Keyboard: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "type text"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func newKeyboardKeyMap() keyboardKeyMap {
	return keyboardKeyMap{
		Backspace: binding{
			Binding: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "delete")),
			Send:    ecp.KeyBackspace,
		},
		Enter: binding{
			Binding: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
			Send:    ecp.KeyEnter,
		},
		Leave: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "stop typing"),
		),
	}
}

// navigation lists the bindings that map directly onto an ECP key
func (k keyMap) navigation() []binding {
	return []binding{
		k.Back, k.Home, k.Info,
		k.Up, k.Down, k.Left, k.Right, k.Select,
		k.Rev, k.Play, k.Fwd,
		k.Mute, k.VolumeDown, k.VolumeUp,
	}
}

// Lookup returns the ECP key bound to msg
func (k keyMap) Lookup(msg tea.KeyMsg) (ecp.Key, bool) {
	for _, b := range k.navigation() {
		if key.Matches(msg, b.Binding) {
			return b.Send, true
		}
	}
	return "", false
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select.Binding, k.Back.Binding, k.Home.Binding, k.Play.Binding, k.Power, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up.Binding, k.Down.Binding, k.Left.Binding, k.Right.Binding, k.Select.Binding},
		{k.Back.Binding, k.Home.Binding, k.Info.Binding, k.Keyboard},
		{k.Rev.Binding, k.Play.Binding, k.Fwd.Binding},
		{k.Mute.Binding, k.VolumeDown.Binding, k.VolumeUp.Binding, k.Power, k.Quit},
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter.Binding, k.Backspace.Binding, k.Leave}
}

// FullHelp returns keybindings for the expanded help view
func (k keyboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
