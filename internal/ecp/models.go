package ecp

import (
	"fmt"
	"time"
)

const (
	// DefaultPort is the fixed ECP port every device listens on
	DefaultPort = 8060

	// ServiceType is the SSDP search target advertised by ECP devices
	ServiceType = "roku:ecp"

	// DefaultTimeout bounds every request made to a device
	DefaultTimeout = 5 * time.Second
)

// Request paths defined by the protocol
const (
	PathDeviceInfo      = "/query/device-info"
	PathTVChannels      = "/query/tv-channels"
	PathTVActiveChannel = "/query/tv-active-channel"
	PathKeypress        = "/keypress/"
	PathSearchBrowse    = "/search/browse"
)

// Power mode strings as reported in <power-mode>
const (
	PowerModeReady   = "Ready"
	PowerModePowerOn = "PowerOn"
)

// PowerState is the two-valued power state of a device.
type PowerState int

const (
	// PowerStandby is reported by the device as "Ready"
	PowerStandby PowerState = iota
	// PowerOn is reported by the device as "PowerOn"
	PowerOn
)

// ParsePowerMode maps a <power-mode> value onto a PowerState. Anything other
// than the two known modes is an unsupported state.
func ParsePowerMode(mode string) (PowerState, error) {
	switch mode {
	case PowerModeReady:
		return PowerStandby, nil
	case PowerModePowerOn:
		return PowerOn, nil
	default:
		return PowerStandby, NewUnsupportedStateError(mode)
	}
}

// IsOn reports whether the device is powered on
func (p PowerState) IsOn() bool {
	return p == PowerOn
}

// ToggleKey returns the command that moves the device to the other state
func (p PowerState) ToggleKey() Key {
	if p == PowerOn {
		return KeyPowerOff
	}
	return KeyPowerOn
}

// String returns "on" or "standby"
func (p PowerState) String() string {
	switch p {
	case PowerOn:
		return "on"
	case PowerStandby:
		return "standby"
	default:
		return fmt.Sprintf("PowerState(%d)", int(p))
	}
}

// MarshalText encodes the state as its String form
func (p PowerState) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// DeviceInfo is the parsed result of the device-info query
type DeviceInfo struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Location    string `json:"location,omitempty"`
	Model       string `json:"model,omitempty"`
	ModelNumber string `json:"model_number,omitempty"`
	Vendor      string `json:"vendor,omitempty"`
	Serial      string `json:"serial,omitempty"`
	DeviceID    string `json:"device_id,omitempty"`
	UDN         string `json:"udn,omitempty"`
	MAC         string `json:"mac,omitempty"`
	NetworkType string `json:"network_type,omitempty"`
	Software    string `json:"software,omitempty"`
	Resolution  string `json:"resolution,omitempty"`

	TV               bool `json:"tv"`
	Stick            bool `json:"stick"`
	DeveloperMode    bool `json:"developer_mode"`
	PrivateListening bool `json:"private_listening"`
	// Headphones is only meaningful when PrivateListening is true
	Headphones bool `json:"headphones"`

	Power PowerState `json:"power"`
}

// Channel is a live TV channel as configured on the device
type Channel struct {
	Name     string `json:"name"`
	Number   string `json:"number"`
	Physical string `json:"physical_channel,omitempty"`
	Type     string `json:"type,omitempty"`
	Hidden   bool   `json:"hidden"`
	Favorite bool   `json:"favorite"`
}

// ActiveChannel is the channel currently tuned (or last tuned) by the
// device's live TV input. Program fields are empty when nothing is airing.
type ActiveChannel struct {
	Channel

	Active bool `json:"active"`
	// Signal is nil when the device reports neither "valid" nor "none"
	Signal      *bool  `json:"signal,omitempty"`
	SignalMode  string `json:"signal_mode,omitempty"`
	Title       string `json:"program_title,omitempty"`
	Description string `json:"program_description,omitempty"`
	Rating      string `json:"program_rating,omitempty"`
	Captions    bool   `json:"captions"`
}
