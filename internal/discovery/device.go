package discovery

import (
	"fmt"
	"time"
)

// Device is a device that answered the SSDP search and whose info query succeeded
type Device struct {
	// Name is the display name from device-info (e.g., "Living Room TV")
	Name string `json:"name"`

	// Address is host:port of the ECP endpoint (e.g., "192.168.1.20:8060")
	Address string `json:"address"`

	// Location is the raw LOCATION header of the SSDP response
	Location string `json:"location,omitempty"`

	// DiscoveredAt is when the SSDP response was processed
	DiscoveredAt time.Time `json:"discovered_at"`
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("%s at %s", d.Name, d.Address)
}

// BaseURL returns the HTTP base URL for the device
func (d *Device) BaseURL() string {
	return "http://" + d.Address
}
