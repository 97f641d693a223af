// Package ecp implements the data side of the External Control Protocol (ECP)
// spoken by networked media players on port 8060.
//
// It has no network dependency. It decodes the XML bodies returned by the
// query endpoints, validates keypress names, and builds the query string of
// the search command.
//
// # Response Bodies
//
//	GET /query/device-info        -> ParseDeviceInfo
//	GET /query/tv-channels        -> ParseChannelList
//	GET /query/tv-active-channel  -> ParseActiveChannel
//
// The protocol is permissive about omitted elements: a streaming stick leaves
// out TV-only fields, a tuner with no guide data leaves out program fields.
// Missing elements decode to zero values. Only <power-mode> and <is-tv> are
// required, because power toggling and capability gating depend on them.
//
// Boolean elements use the literal string "true"; any other value is false.
//
// # Power State
//
// <power-mode> carries "Ready" (standby) or "PowerOn". These map onto the two
// values of PowerState. Any other mode (for example while the device reboots)
// is reported as an ErrTypeUnsupportedState error rather than a third state.
//
// # Errors
//
// Every failure is an *Error whose Type is one of ErrTypeUnreachable,
// ErrTypeMalformedResponse, ErrTypeInvalidParameter, ErrTypeUnsupportedState
// or ErrTypeNotATelevision. Nothing in this package or its callers retries;
// the protocol cannot tell a lost command from an applied one.
//
// # Search
//
//	q, err := ecp.BuildSearchQuery("batman", ecp.WithContentType(ecp.ContentMovie))
//	// q == "keyword=batman&type=movie"
package ecp
