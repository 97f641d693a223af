package ecp

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// deviceInfoXML mirrors the <device-info> body. Required fields are pointers
// so that an omitted element can be told apart from an empty one.
type deviceInfoXML struct {
	UserDeviceName     string  `xml:"user-device-name"`
	FriendlyDeviceName string  `xml:"friendly-device-name"`
	UserDeviceLocation string  `xml:"user-device-location"`
	FriendlyModelName  string  `xml:"friendly-model-name"`
	ModelNumber        string  `xml:"model-number"`
	VendorName         string  `xml:"vendor-name"`
	SerialNumber       string  `xml:"serial-number"`
	DeviceID           string  `xml:"device-id"`
	UDN                string  `xml:"udn"`
	WifiMAC            string  `xml:"wifi-mac"`
	EthernetMAC        string  `xml:"ethernet-mac"`
	NetworkType        string  `xml:"network-type"`
	SoftwareVersion    string  `xml:"software-version"`
	UIResolution       string  `xml:"ui-resolution"`
	IsTV               *string `xml:"is-tv"`
	IsStick            string  `xml:"is-stick"`
	DeveloperEnabled   string  `xml:"developer-enabled"`
	PrivateListening   string  `xml:"supports-private-listening"`
	HeadphonesConnect  string  `xml:"headphones-connected"`
	PowerMode          *string `xml:"power-mode"`
}

type channelXML struct {
	Name            string `xml:"name"`
	Number          string `xml:"number"`
	Type            string `xml:"type"`
	PhysicalChannel string `xml:"physical-channel"`
	UserHidden      string `xml:"user-hidden"`
	UserFavorite    string `xml:"user-favorite"`

	// Only present in the active-channel body
	ActiveInput        string `xml:"active-input"`
	SignalState        string `xml:"signal-state"`
	SignalMode         string `xml:"signal-mode"`
	ProgramTitle       string `xml:"program-title"`
	ProgramDescription string `xml:"program-description"`
	ProgramRatings     string `xml:"program-ratings"`
	ProgramHasCC       string `xml:"program-has-cc"`
}

type channelListXML struct {
	Channels []channelXML `xml:"channel"`
}

// ParseBool applies the protocol's boolean encoding: only the literal
// "true" is true. Surrounding whitespace makes the value false.
func ParseBool(s string) bool {
	return s == "true"
}

func decode(raw []byte, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return NewMalformedResponseError("empty response body", nil)
	}
	if err := xml.Unmarshal(raw, v); err != nil {
		return NewMalformedResponseError("failed to parse XML response", err)
	}
	return nil
}

// ParseDeviceInfo decodes a device-info body. The power-mode and is-tv
// elements are required; every other element is optional.
func ParseDeviceInfo(raw []byte) (*DeviceInfo, error) {
	var x deviceInfoXML
	if err := decode(raw, &x); err != nil {
		return nil, err
	}

	if x.PowerMode == nil {
		return nil, NewMalformedResponseError("device-info is missing <power-mode>", nil)
	}
	if x.IsTV == nil {
		return nil, NewMalformedResponseError("device-info is missing <is-tv>", nil)
	}

	power, err := ParsePowerMode(strings.TrimSpace(*x.PowerMode))
	if err != nil {
		return nil, err
	}

	mac := strings.TrimSpace(x.WifiMAC)
	if mac == "" {
		mac = strings.TrimSpace(x.EthernetMAC)
	}

	info := &DeviceInfo{
		Name:             deviceName(&x),
		Location:         strings.TrimSpace(x.UserDeviceLocation),
		Model:            strings.TrimSpace(x.FriendlyModelName),
		ModelNumber:      strings.TrimSpace(x.ModelNumber),
		Vendor:           strings.TrimSpace(x.VendorName),
		Serial:           strings.TrimSpace(x.SerialNumber),
		DeviceID:         strings.TrimSpace(x.DeviceID),
		UDN:              strings.TrimSpace(x.UDN),
		MAC:              mac,
		NetworkType:      strings.TrimSpace(x.NetworkType),
		Software:         strings.TrimSpace(x.SoftwareVersion),
		Resolution:       strings.TrimSpace(x.UIResolution),
		TV:               ParseBool(*x.IsTV),
		Stick:            ParseBool(x.IsStick),
		DeveloperMode:    ParseBool(x.DeveloperEnabled),
		PrivateListening: ParseBool(x.PrivateListening),
		Power:            power,
	}
	if info.PrivateListening {
		info.Headphones = ParseBool(x.HeadphonesConnect)
	}

	return info, nil
}

// ParseDeviceName extracts only the display name from a device-info body.
// Unlike ParseDeviceInfo it does not require the power or capability fields.
func ParseDeviceName(raw []byte) (string, error) {
	var x deviceInfoXML
	if err := decode(raw, &x); err != nil {
		return "", err
	}
	return deviceName(&x), nil
}

// deviceName prefers the user-set name and falls back to the names the
// device generates for itself.
func deviceName(x *deviceInfoXML) string {
	for _, name := range []string{x.UserDeviceName, x.FriendlyDeviceName, x.FriendlyModelName} {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return ""
}

func (c *channelXML) channel() Channel {
	return Channel{
		Name:     strings.TrimSpace(c.Name),
		Number:   strings.TrimSpace(c.Number),
		Physical: strings.TrimSpace(c.PhysicalChannel),
		Type:     strings.TrimSpace(c.Type),
		Hidden:   ParseBool(c.UserHidden),
		Favorite: ParseBool(c.UserFavorite),
	}
}

// ParseChannelList decodes a tv-channels body
func ParseChannelList(raw []byte) ([]Channel, error) {
	var x channelListXML
	if err := decode(raw, &x); err != nil {
		return nil, err
	}

	channels := make([]Channel, 0, len(x.Channels))
	for i := range x.Channels {
		channels = append(channels, x.Channels[i].channel())
	}
	return channels, nil
}

// ParseActiveChannel decodes a tv-active-channel body, which wraps exactly
// one channel record.
func ParseActiveChannel(raw []byte) (*ActiveChannel, error) {
	var x channelListXML
	if err := decode(raw, &x); err != nil {
		return nil, err
	}
	if len(x.Channels) == 0 {
		return nil, NewMalformedResponseError("tv-active-channel has no <channel> record", nil)
	}

	c := &x.Channels[0]
	active := &ActiveChannel{
		Channel:     c.channel(),
		Active:      ParseBool(c.ActiveInput),
		SignalMode:  strings.TrimSpace(c.SignalMode),
		Title:       strings.TrimSpace(c.ProgramTitle),
		Description: strings.TrimSpace(c.ProgramDescription),
		Rating:      strings.TrimSpace(c.ProgramRatings),
		Captions:    ParseBool(c.ProgramHasCC),
	}

	switch strings.TrimSpace(c.SignalState) {
	case "valid":
		v := true
		active.Signal = &v
	case "none":
		v := false
		active.Signal = &v
	}

	return active, nil
}
