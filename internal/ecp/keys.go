package ecp

import (
	"fmt"
	"net/url"
	"regexp"
	"unicode/utf8"
)

// Key names a keypress command. The key namespace is open and
// vendor-extensible, so Key is a validated string rather than a closed set;
// the constants below are the commonly supported keys.
type Key string

const (
	KeyHome          Key = "Home"
	KeyRev           Key = "Rev"
	KeyFwd           Key = "Fwd"
	KeyPlay          Key = "Play"
	KeySelect        Key = "Select"
	KeyLeft          Key = "Left"
	KeyRight         Key = "Right"
	KeyDown          Key = "Down"
	KeyUp            Key = "Up"
	KeyBack          Key = "Back"
	KeyInstantReplay Key = "InstantReplay"
	KeyInfo          Key = "Info"
	KeyBackspace     Key = "Backspace"
	KeySearch        Key = "Search"
	KeyEnter         Key = "Enter"
	KeyVolumeDown    Key = "VolumeDown"
	KeyVolumeMute    Key = "VolumeMute"
	KeyVolumeUp      Key = "VolumeUp"
	KeyPowerOff      Key = "PowerOff"
	KeyPowerOn       Key = "PowerOn"
	KeyChannelUp     Key = "ChannelUp"
	KeyChannelDown   Key = "ChannelDown"
	KeyInputTuner    Key = "InputTuner"
	KeyFindRemote    Key = "FindRemote"
)

// LiteralPrefix marks a key that types a single character
const LiteralPrefix = "Lit_"

var namedKeyPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Literal returns the key that types r
func Literal(r rune) Key {
	return Key(LiteralPrefix + string(r))
}

// IsLiteral reports whether k types a character rather than naming a button
func (k Key) IsLiteral() bool {
	return len(k) > len(LiteralPrefix) && string(k[:len(LiteralPrefix)]) == LiteralPrefix
}

// Validate checks that k is either a named key or a literal key carrying
// exactly one character.
func (k Key) Validate() error {
	if k == "" {
		return NewInvalidParameterError("key must not be empty")
	}
	if k == LiteralPrefix {
		return NewInvalidParameterError(fmt.Sprintf("literal key %q must carry exactly one character", string(k)))
	}
	if k.IsLiteral() {
		rest := string(k[len(LiteralPrefix):])
		if !utf8.ValidString(rest) || utf8.RuneCountInString(rest) != 1 {
			return NewInvalidParameterError(fmt.Sprintf("literal key %q must carry exactly one character", string(k)))
		}
		return nil
	}
	if !namedKeyPattern.MatchString(string(k)) {
		return NewInvalidParameterError(fmt.Sprintf("invalid key name %q", string(k)))
	}
	return nil
}

// Path returns the keypress path for k with the key segment escaped
func (k Key) Path() string {
	return PathKeypress + url.PathEscape(string(k))
}
