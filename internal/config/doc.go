// Package config provides user configuration management for controku.
//
// This package manages a YAML-based configuration file that remembers devices
// found by discovery (keyed by address), the default device, and timeout
// preferences. The configuration follows OS-specific conventions for storage
// location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/controku/config.yaml or $HOME/.config/controku/config.yaml
//   - macOS: $HOME/.config/controku/config.yaml
//   - Windows: %LOCALAPPDATA%\controku\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.RememberDevice("192.168.1.20:8060", "Living Room TV")
//	registry.SetDefaultDevice("192.168.1.20:8060")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// Power state is never stored here; it is always read from the device.
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
