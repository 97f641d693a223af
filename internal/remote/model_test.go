package remote

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/controku/internal/ecp"
)

// fakeDevice records every key it is asked to send
type fakeDevice struct {
	mu     sync.Mutex
	sent   []ecp.Key
	power  ecp.PowerState
	sendFn func(ecp.Key) error
}

func (f *fakeDevice) GetInfo(ctx context.Context) (*ecp.DeviceInfo, error) {
	return &ecp.DeviceInfo{Name: "Living Room TV", Model: "Roku TV", Address: "192.168.1.20:8060", Power: f.power}, nil
}

func (f *fakeDevice) SendKey(ctx context.Context, k ecp.Key) error {
	f.mu.Lock()
	f.sent = append(f.sent, k)
	f.mu.Unlock()
	if f.sendFn != nil {
		return f.sendFn(k)
	}
	return nil
}

func (f *fakeDevice) TogglePower(ctx context.Context) (ecp.PowerState, error) {
	if f.power == ecp.PowerOn {
		f.power = ecp.PowerStandby
	} else {
		f.power = ecp.PowerOn
	}
	return f.power, nil
}

func (f *fakeDevice) Sent() []ecp.Key {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ecp.Key(nil), f.sent...)
}

// press feeds msg to the model and runs every resulting command, feeding
// each message back in until the model is idle
func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	return drain(t, next.(Model), cmd)
}

func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		var next tea.Model
		next, cmd = m.Update(cmd())
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapping(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want ecp.Key
	}{
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, ecp.KeyBack},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, ecp.KeyBack},
		{"h", runes("h"), ecp.KeyHome},
		{"i", runes("i"), ecp.KeyInfo},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, ecp.KeyUp},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, ecp.KeyDown},
		{"left", tea.KeyMsg{Type: tea.KeyLeft}, ecp.KeyLeft},
		{"right", tea.KeyMsg{Type: tea.KeyRight}, ecp.KeyRight},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, ecp.KeySelect},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, ecp.KeySelect},
		{"o", runes("o"), ecp.KeySelect},
		{"s", runes("s"), ecp.KeySelect},
		{"r", runes("r"), ecp.KeyRev},
		{"p", runes("p"), ecp.KeyPlay},
		{"f", runes("f"), ecp.KeyFwd},
		{"m", runes("m"), ecp.KeyVolumeMute},
		{"[", runes("["), ecp.KeyVolumeDown},
		{"]", runes("]"), ecp.KeyVolumeUp},
	}

	keys := newKeyMap()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keys.Lookup(tt.msg)
			if !ok {
				t.Fatalf("Lookup(%q) found no binding", tt.msg.String())
			}
			if got != tt.want {
				t.Errorf("Lookup(%q) = %s, want %s", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestKeyMapping_Unbound(t *testing.T) {
	keys := newKeyMap()
	for _, msg := range []tea.KeyMsg{runes("x"), runes("P"), runes("q"), tea.KeyMsg{Type: tea.KeyTab}} {
		if k, ok := keys.Lookup(msg); ok {
			t.Errorf("Lookup(%q) = %s, want no binding", msg.String(), k)
		}
	}
}

func TestModel_SendsMappedKey(t *testing.T) {
	dev := &fakeDevice{}
	m := New(dev, time.Second)

	m = press(t, m, runes("h"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})

	sent := dev.Sent()
	if len(sent) != 2 || sent[0] != ecp.KeyHome || sent[1] != ecp.KeyUp {
		t.Errorf("sent = %v, want [Home Up]", sent)
	}
	if m.lastKey != ecp.KeyUp {
		t.Errorf("lastKey = %s, want Up", m.lastKey)
	}
	if !strings.Contains(m.View(), "Up") {
		t.Error("View() should show the last key sent")
	}
}

func TestModel_ShowsSendError(t *testing.T) {
	dev := &fakeDevice{sendFn: func(ecp.Key) error {
		return ecp.NewStatusError("192.168.1.20:8060", 403)
	}}
	m := New(dev, time.Second)

	m = press(t, m, runes("p"))

	if m.lastErr == nil {
		t.Fatal("lastErr should be set after a failed keypress")
	}
	if !strings.Contains(m.View(), "HTTP 403") {
		t.Errorf("View() should show the short error, got:\n%s", m.View())
	}
}

func TestModel_TogglePower(t *testing.T) {
	dev := &fakeDevice{power: ecp.PowerStandby}
	m := New(dev, time.Second)
	next, _ := m.Update(m.Init()())
	m = next.(Model)

	m = press(t, m, runes("P"))

	if !m.info.Power.IsOn() {
		t.Errorf("Power = %v, want on", m.info.Power)
	}
	if m.lastKey != ecp.KeyPowerOn {
		t.Errorf("lastKey = %s, want PowerOn", m.lastKey)
	}
	if len(dev.Sent()) != 0 {
		t.Errorf("power toggle should not go through SendKey, sent %v", dev.Sent())
	}
}

func TestModel_TypingMode(t *testing.T) {
	dev := &fakeDevice{}
	m := New(dev, time.Second)

	m = press(t, m, runes("t"))
	if !m.typing {
		t.Fatal("t should enter typing mode")
	}

	// h is Home in remote mode but a literal while typing
	m = press(t, m, runes("h"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	want := []ecp.Key{"Lit_h", "Lit_ ", ecp.KeyBackspace, ecp.KeyEnter}
	sent := dev.Sent()
	if len(sent) != len(want) {
		t.Fatalf("sent = %v, want %v", sent, want)
	}
	for i := range want {
		if sent[i] != want[i] {
			t.Errorf("sent[%d] = %q, want %q", i, sent[i], want[i])
		}
	}
	if m.typing {
		t.Error("esc should leave typing mode")
	}
}

func TestModel_KeysSentOneAtATime(t *testing.T) {
	dev := &fakeDevice{}
	m := New(dev, time.Second)
	m = press(t, m, runes("t"))

	// A paste and a keystroke typed while the paste is still being sent
	next, inFlight := m.Update(runes("abc"))
	m = next.(Model)
	if inFlight == nil {
		t.Fatal("typing should start a keypress")
	}

	next, cmd := m.Update(runes("d"))
	m = next.(Model)
	if cmd != nil {
		t.Error("a key pressed while another is in flight should be queued, not sent")
	}
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd != nil {
		t.Error("enter pressed while a key is in flight should be queued, not sent")
	}
	if len(dev.Sent()) != 0 {
		t.Fatalf("nothing should be sent before commands run, sent %v", dev.Sent())
	}

	m = drain(t, m, inFlight)

	want := []ecp.Key{"Lit_a", "Lit_b", "Lit_c", "Lit_d", ecp.KeyEnter}
	sent := dev.Sent()
	if len(sent) != len(want) {
		t.Fatalf("sent = %v, want %v", sent, want)
	}
	for i := range want {
		if sent[i] != want[i] {
			t.Errorf("sent[%d] = %q, want %q", i, sent[i], want[i])
		}
	}
	if m.sending || len(m.queue) != 0 {
		t.Errorf("queue should be idle after draining, sending=%v queue=%v", m.sending, m.queue)
	}
}

func TestModel_SendErrorDropsQueue(t *testing.T) {
	dev := &fakeDevice{sendFn: func(ecp.Key) error {
		return ecp.NewStatusError("192.168.1.20:8060", 503)
	}}
	m := New(dev, time.Second)
	m = press(t, m, runes("t"))

	m = press(t, m, runes("abc"))

	if sent := dev.Sent(); len(sent) != 1 || sent[0] != "Lit_a" {
		t.Errorf("sent = %v, want only Lit_a", sent)
	}
	if m.lastErr == nil || len(m.queue) != 0 || m.sending {
		t.Errorf("after a failed send: lastErr=%v queue=%v sending=%v", m.lastErr, m.queue, m.sending)
	}

	// The remote keeps working after an error
	dev.sendFn = nil
	m = press(t, m, runes("x"))
	if sent := dev.Sent(); sent[len(sent)-1] != "Lit_x" {
		t.Errorf("sent = %v, want Lit_x last", sent)
	}
}

func TestModel_Quit(t *testing.T) {
	m := New(&fakeDevice{}, time.Second)

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModel_HelpToggle(t *testing.T) {
	m := New(&fakeDevice{}, time.Second)

	next, _ := m.Update(runes("?"))
	m = next.(Model)
	if !m.help.ShowAll {
		t.Error("? should expand help")
	}
	if !strings.Contains(m.View(), "volume up") {
		t.Error("expanded help should list volume keys")
	}
}

func TestClampWidth(t *testing.T) {
	tests := []struct{ in, want int }{
		{10, MinTerminalWidth},
		{60, 60},
		{200, MaxContentWidth},
	}
	for _, tt := range tests {
		if got := clampWidth(tt.in); got != tt.want {
			t.Errorf("clampWidth(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
