package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "controku") {
		t.Errorf("GetConfigDir() = %v, should contain 'controku'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("macOS config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other Unix systems")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if configDir != filepath.Join("/tmp/xdg", "controku") {
		t.Errorf("GetConfigDir() = %v, want /tmp/xdg/controku", configDir)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Devices == nil {
		t.Error("NewRegistry().Devices should not be nil")
	}
	if reg.DiscoverTimeout() != 3*time.Second {
		t.Errorf("DiscoverTimeout() = %v, want 3s", reg.DiscoverTimeout())
	}
	if reg.RequestTimeout() != 5*time.Second {
		t.Errorf("RequestTimeout() = %v, want 5s", reg.RequestTimeout())
	}
	if reg.DefaultDevice() != "" {
		t.Errorf("DefaultDevice() = %q, want empty", reg.DefaultDevice())
	}
}

func TestRegistryEnsureDevice(t *testing.T) {
	reg := NewRegistry()

	device1 := reg.EnsureDevice("192.168.1.20:8060")
	if device1 == nil {
		t.Fatal("EnsureDevice() returned nil")
	}

	device2 := reg.EnsureDevice("192.168.1.20:8060")
	if device1 != device2 {
		t.Error("EnsureDevice() should return same instance for same address")
	}

	device3 := reg.EnsureDevice("192.168.1.21:8060")
	if device1 == device3 {
		t.Error("EnsureDevice() should create new instance for different address")
	}
}

func TestRegistryRememberDevice(t *testing.T) {
	reg := NewRegistry()

	before := time.Now()
	reg.RememberDevice("192.168.1.20:8060", "Living Room TV")
	after := time.Now()

	device := reg.GetDevice("192.168.1.20:8060")
	if device == nil {
		t.Fatal("Device should exist after RememberDevice()")
	}
	if device.Name != "Living Room TV" {
		t.Errorf("Name = %v, want Living Room TV", device.Name)
	}
	if device.LastSeen.Before(before) || device.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", device.LastSeen, before, after)
	}

	// An empty name keeps the remembered one
	reg.RememberDevice("192.168.1.20:8060", "")
	if device.Name != "Living Room TV" {
		t.Errorf("Name = %v after empty update, want Living Room TV", device.Name)
	}
}

func TestRegistryForgetDevice(t *testing.T) {
	reg := NewRegistry()
	reg.RememberDevice("192.168.1.20:8060", "Living Room TV")
	reg.SetDefaultDevice("192.168.1.20:8060")

	if !reg.ForgetDevice("192.168.1.20:8060") {
		t.Fatal("ForgetDevice() = false for a remembered device")
	}
	if reg.GetDevice("192.168.1.20:8060") != nil {
		t.Error("device should be gone after ForgetDevice()")
	}
	if reg.DefaultDevice() != "" {
		t.Errorf("DefaultDevice() = %q, should be cleared", reg.DefaultDevice())
	}
	if reg.ForgetDevice("192.168.1.20:8060") {
		t.Error("ForgetDevice() = true for an unknown device")
	}
}

func TestRegistryResolveDevice(t *testing.T) {
	reg := NewRegistry()
	reg.RememberDevice("192.168.1.20:8060", "Living Room TV")
	reg.RememberDevice("192.168.1.21:8060", "Bedroom")

	tests := []struct {
		ref  string
		want string
	}{
		{"192.168.1.20:8060", "192.168.1.20:8060"},
		{"bedroom", "192.168.1.21:8060"},
		{"Living Room TV", "192.168.1.20:8060"},
		{"10.0.0.9", "10.0.0.9"},
	}

	for _, tt := range tests {
		if got := reg.ResolveDevice(tt.ref); got != tt.want {
			t.Errorf("ResolveDevice(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestRegistryAddresses_Sorted(t *testing.T) {
	reg := NewRegistry()
	reg.RememberDevice("192.168.1.30:8060", "")
	reg.RememberDevice("192.168.1.20:8060", "")

	got := reg.Addresses()
	if len(got) != 2 || got[0] != "192.168.1.20:8060" || got[1] != "192.168.1.30:8060" {
		t.Errorf("Addresses() = %v", got)
	}
}

func TestRegistryTimeouts_FallBackOnInvalid(t *testing.T) {
	reg := &Registry{Preferences: &Preferences{DiscoverTimeout: 0, RequestTimeout: -1}}

	if reg.DiscoverTimeout() != 3*time.Second {
		t.Errorf("DiscoverTimeout() = %v, want 3s", reg.DiscoverTimeout())
	}
	if reg.RequestTimeout() != 5*time.Second {
		t.Errorf("RequestTimeout() = %v, want 5s", reg.RequestTimeout())
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	reg.RememberDevice("192.168.1.20:8060", "Living Room TV")
	reg.EnsureDevice("192.168.1.20:8060").Model = "TCL Roku TV"
	reg.SetDefaultDevice("192.168.1.20:8060")
	reg.Preferences.DiscoverTimeout = 7

	if err := reg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if !strings.HasPrefix(string(data), "# controku configuration file") {
		t.Error("saved config should start with the header comment")
	}
	if _, err := os.Stat(configPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after save")
	}

	loaded, err := LoadRegistryFrom(configPath)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}

	device := loaded.GetDevice("192.168.1.20:8060")
	if device == nil {
		t.Fatal("Device should exist in loaded registry")
	}
	if device.Name != "Living Room TV" || device.Model != "TCL Roku TV" {
		t.Errorf("loaded device = %+v", device)
	}
	if loaded.DefaultDevice() != "192.168.1.20:8060" {
		t.Errorf("DefaultDevice() = %q", loaded.DefaultDevice())
	}
	if loaded.DiscoverTimeout() != 7*time.Second {
		t.Errorf("DiscoverTimeout() = %v, want 7s", loaded.DiscoverTimeout())
	}
}

func TestLoadRegistryFrom_Missing(t *testing.T) {
	reg, err := LoadRegistryFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	if reg.Version != 1 || reg.Devices == nil {
		t.Errorf("missing file should yield a default registry, got %+v", reg)
	}
}

func TestLoadRegistryFrom_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unsupported version", "version: 2\n", "unsupported config version"},
		{"invalid yaml", "version: [1\n", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("write: %v", err)
			}

			_, err := LoadRegistryFrom(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadRegistryFrom() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadRegistryFrom_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 1\n"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	reg, err := LoadRegistryFrom(path)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	if reg.Devices == nil || reg.Preferences == nil {
		t.Errorf("defaults not filled: %+v", reg)
	}
}

func BenchmarkResolveDevice(b *testing.B) {
	reg := NewRegistry()
	for i := 0; i < 20; i++ {
		reg.RememberDevice("192.168.1."+string(rune('a'+i))+":8060", "Device")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.ResolveDevice("device")
	}
}
