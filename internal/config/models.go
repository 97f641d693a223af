package config

import (
	"sort"
	"strings"
	"time"
)

// Registry represents the entire user configuration file.
// It is the caller-side cache of devices found by discovery plus preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by device address (host:port)
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device is a remembered device.
// This is keyed by the device's address in the Registry.
type Device struct {
	Name     string    `yaml:"name,omitempty"`      // Display name from device-info
	Model    string    `yaml:"model,omitempty"`     // Model name, when an info query has been made
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last discovery/connection time
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultDevice   string `yaml:"default_device,omitempty"` // Address used when --device is not given
	DiscoverTimeout int    `yaml:"discover_timeout"`         // SSDP collection window in seconds
	RequestTimeout  int    `yaml:"request_timeout"`          // Per-request timeout in seconds
}

const (
	defaultDiscoverTimeout = 3
	defaultRequestTimeout  = 5
)

func defaultPreferences() *Preferences {
	return &Preferences{
		DiscoverTimeout: defaultDiscoverTimeout,
		RequestTimeout:  defaultRequestTimeout,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Devices:     make(map[string]*Device),
		Preferences: defaultPreferences(),
	}
}

// GetDevice retrieves a remembered device by address.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(address string) *Device {
	return r.Devices[address]
}

// EnsureDevice ensures a device entry exists in the registry.
// Returns the device entry (existing or newly created).
func (r *Registry) EnsureDevice(address string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	if device, exists := r.Devices[address]; exists {
		return device
	}

	device := &Device{}
	r.Devices[address] = device
	return device
}

// RememberDevice records a device seen by discovery or a successful query.
func (r *Registry) RememberDevice(address, name string) {
	device := r.EnsureDevice(address)
	if name != "" {
		device.Name = name
	}
	device.LastSeen = time.Now()
}

// ForgetDevice removes a device, clearing the default if it pointed there.
func (r *Registry) ForgetDevice(address string) bool {
	if _, ok := r.Devices[address]; !ok {
		return false
	}
	delete(r.Devices, address)
	if r.Preferences != nil && r.Preferences.DefaultDevice == address {
		r.Preferences.DefaultDevice = ""
	}
	return true
}

// SetDefaultDevice sets the device used when no --device flag is given.
func (r *Registry) SetDefaultDevice(address string) {
	if r.Preferences == nil {
		r.Preferences = defaultPreferences()
	}
	r.Preferences.DefaultDevice = address
}

// DefaultDevice returns the default device address, or "" if none is set.
func (r *Registry) DefaultDevice() string {
	if r.Preferences == nil {
		return ""
	}
	return r.Preferences.DefaultDevice
}

// ResolveDevice maps a user-supplied device reference to an address. The
// reference may be an address, or the name of a remembered device (matched
// case-insensitively). Unknown references are returned unchanged so that
// plain hosts work without prior discovery.
func (r *Registry) ResolveDevice(ref string) string {
	if _, ok := r.Devices[ref]; ok {
		return ref
	}
	for _, address := range r.Addresses() {
		if strings.EqualFold(r.Devices[address].Name, ref) {
			return address
		}
	}
	return ref
}

// Addresses returns remembered device addresses in sorted order.
func (r *Registry) Addresses() []string {
	addresses := make([]string, 0, len(r.Devices))
	for address := range r.Devices {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)
	return addresses
}

// DiscoverTimeout returns the discovery window preference.
func (r *Registry) DiscoverTimeout() time.Duration {
	if r.Preferences == nil || r.Preferences.DiscoverTimeout <= 0 {
		return defaultDiscoverTimeout * time.Second
	}
	return time.Duration(r.Preferences.DiscoverTimeout) * time.Second
}

// RequestTimeout returns the per-request timeout preference.
func (r *Registry) RequestTimeout() time.Duration {
	if r.Preferences == nil || r.Preferences.RequestTimeout <= 0 {
		return defaultRequestTimeout * time.Second
	}
	return time.Duration(r.Preferences.RequestTimeout) * time.Second
}
