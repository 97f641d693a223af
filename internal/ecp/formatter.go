package ecp

import (
	"fmt"
	"strings"
)

// Summary returns a one-line summary of the device
func (d *DeviceInfo) Summary() string {
	return fmt.Sprintf("%s @ %s (%s, %s)", d.Name, d.Address, d.Kind(), d.Power)
}

// Kind names the device class for display
func (d *DeviceInfo) Kind() string {
	switch {
	case d.TV:
		return "TV"
	case d.Stick:
		return "Stick"
	default:
		return "Player"
	}
}

// FormatIdentity returns a formatted string with device identification information
func (d *DeviceInfo) FormatIdentity() string {
	var b strings.Builder

	b.WriteString("=== Device Information ===\n")
	b.WriteString(fmt.Sprintf("Name:          %s\n", d.Name))
	b.WriteString(fmt.Sprintf("Address:       %s\n", d.Address))
	b.WriteString(fmt.Sprintf("Model:         %s %s\n", d.Model, d.ModelNumber))
	b.WriteString(fmt.Sprintf("Vendor:        %s\n", orNone(d.Vendor)))
	b.WriteString(fmt.Sprintf("Serial Number: %s\n", orNone(d.Serial)))
	b.WriteString(fmt.Sprintf("Device ID:     %s\n", orNone(d.DeviceID)))
	b.WriteString(fmt.Sprintf("Software:      %s\n", orNone(d.Software)))

	return b.String()
}

// FormatNetwork returns a formatted string with network details
func (d *DeviceInfo) FormatNetwork() string {
	var b strings.Builder

	b.WriteString("=== Network ===\n")
	b.WriteString(fmt.Sprintf("Connection:  %s\n", orNone(d.NetworkType)))
	b.WriteString(fmt.Sprintf("MAC Address: %s\n", orNone(d.MAC)))
	b.WriteString(fmt.Sprintf("ECP URL:     http://%s/\n", d.Address))

	return b.String()
}

// FormatCapabilities returns a formatted string with capability flags and power state
func (d *DeviceInfo) FormatCapabilities() string {
	var b strings.Builder

	b.WriteString("=== Capabilities ===\n")
	b.WriteString(fmt.Sprintf("Power:             %s\n", d.Power))
	b.WriteString(fmt.Sprintf("Television:        %s\n", yesNo(d.TV)))
	b.WriteString(fmt.Sprintf("Streaming Stick:   %s\n", yesNo(d.Stick)))
	b.WriteString(fmt.Sprintf("Developer Mode:    %s\n", yesNo(d.DeveloperMode)))
	b.WriteString(fmt.Sprintf("Private Listening: %s\n", yesNo(d.PrivateListening)))
	if d.PrivateListening {
		b.WriteString(fmt.Sprintf("Headphones:        %s\n", yesNo(d.Headphones)))
	}
	if d.Resolution != "" {
		b.WriteString(fmt.Sprintf("UI Resolution:     %s\n", d.Resolution))
	}

	return b.String()
}

// FormatCompact returns a compact multi-line format suitable for terminal display
func (d *DeviceInfo) FormatCompact() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Device: %s (%s)\n", d.Name, d.Address))
	b.WriteString(fmt.Sprintf("Model:  %s %s\n", d.Model, d.ModelNumber))
	b.WriteString(fmt.Sprintf("Power:  %s\n", d.Power))
	b.WriteString(fmt.Sprintf("Kind:   %s\n", d.Kind()))

	return b.String()
}

// FormatDetailed returns every parsed field grouped into sections
func (d *DeviceInfo) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(d.FormatIdentity())
	b.WriteString("\n")
	b.WriteString(d.FormatNetwork())
	b.WriteString("\n")
	b.WriteString(d.FormatCapabilities())

	return b.String()
}

// FormatChannelTable renders a channel list as a fixed-width table
func FormatChannelTable(channels []Channel) string {
	if len(channels) == 0 {
		return "(no channels)\n"
	}

	nameWidth := len("Name")
	for _, ch := range channels {
		if len(ch.Name) > nameWidth {
			nameWidth = len(ch.Name)
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-8s %-*s %-14s %s\n", "Number", nameWidth, "Name", "Type", "Flags"))
	b.WriteString(fmt.Sprintf("%s %s %s %s\n",
		strings.Repeat("-", 8), strings.Repeat("-", nameWidth), strings.Repeat("-", 14), strings.Repeat("-", 5)))

	for _, ch := range channels {
		var flags []string
		if ch.Favorite {
			flags = append(flags, "fav")
		}
		if ch.Hidden {
			flags = append(flags, "hidden")
		}
		b.WriteString(fmt.Sprintf("%-8s %-*s %-14s %s\n", ch.Number, nameWidth, ch.Name, ch.Type, strings.Join(flags, ",")))
	}

	return b.String()
}

// FormatActive returns the tuned channel and its current program
func (a *ActiveChannel) FormatActive() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Channel: %s %s\n", a.Number, a.Name))
	b.WriteString(fmt.Sprintf("Active:  %s\n", yesNo(a.Active)))

	signal := "unknown"
	if a.Signal != nil {
		signal = map[bool]string{true: "valid", false: "none"}[*a.Signal]
	}
	if a.SignalMode != "" {
		signal += " (" + a.SignalMode + ")"
	}
	b.WriteString(fmt.Sprintf("Signal:  %s\n", signal))

	if a.Title != "" {
		b.WriteString(fmt.Sprintf("Program: %s\n", a.Title))
		if a.Rating != "" {
			b.WriteString(fmt.Sprintf("Rating:  %s\n", a.Rating))
		}
		if a.Description != "" {
			b.WriteString(fmt.Sprintf("\n%s\n", a.Description))
		}
	}

	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
