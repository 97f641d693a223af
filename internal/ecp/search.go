package ecp

import (
	"fmt"
	"strconv"
	"strings"
)

// Content types accepted by the search command
const (
	ContentMovie   = "movie"
	ContentTVShow  = "tv-show"
	ContentPerson  = "person"
	ContentChannel = "channel"
	ContentGame    = "game"
)

// ContentTypes lists the closed set of valid content types
var ContentTypes = []string{ContentMovie, ContentTVShow, ContentPerson, ContentChannel, ContentGame}

// Parameter names in the order they are serialized
const (
	paramKeyword         = "keyword"
	paramTitle           = "title"
	paramType            = "type"
	paramTMSID           = "tmsid"
	paramSeason          = "season"
	paramShowUnavailable = "show-unavailable"
	paramMatchAny        = "match-any"
	paramProviderID      = "provider-id"
	paramProvider        = "provider"
	paramLaunch          = "launch"
)

var searchParamOrder = []string{
	paramKeyword,
	paramTitle,
	paramType,
	paramTMSID,
	paramSeason,
	paramShowUnavailable,
	paramMatchAny,
	paramProviderID,
	paramProvider,
	paramLaunch,
}

// SearchQuery collects the parameters of one search command. It is filled
// by SearchOptions and serialized once by Encode.
type SearchQuery struct {
	Keyword string
	params  map[string]string
}

// SearchOption sets one optional search parameter
type SearchOption func(*SearchQuery)

func (q *SearchQuery) set(name, value string) {
	if q.params == nil {
		q.params = make(map[string]string)
	}
	q.params[name] = value
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// WithTitle matches the exact content title or channel/person name
func WithTitle(title string) SearchOption {
	return func(q *SearchQuery) { q.set(paramTitle, title) }
}

// WithContentType restricts results to one of ContentTypes
func WithContentType(contentType string) SearchOption {
	return func(q *SearchQuery) { q.set(paramType, contentType) }
}

// WithTMSID selects a movie, show or person by TMS ID
func WithTMSID(tmsid string) SearchOption {
	return func(q *SearchQuery) { q.set(paramTMSID, tmsid) }
}

// WithSeason selects a season of a TV show
func WithSeason(season int) SearchOption {
	return func(q *SearchQuery) { q.set(paramSeason, strconv.Itoa(season)) }
}

// WithAllowUnavailable includes upcoming content that is not yet available
func WithAllowUnavailable(allow bool) SearchOption {
	return func(q *SearchQuery) { q.set(paramShowUnavailable, formatBool(allow)) }
}

// WithMatchAny selects the first result when several match
func WithMatchAny(matchAny bool) SearchOption {
	return func(q *SearchQuery) { q.set(paramMatchAny, formatBool(matchAny)) }
}

// WithProviderID prefers the given channel ID(s) as content provider
func WithProviderID(id string) SearchOption {
	return func(q *SearchQuery) { q.set(paramProviderID, id) }
}

// WithProviderName prefers the given channel title(s) as content provider
func WithProviderName(name string) SearchOption {
	return func(q *SearchQuery) { q.set(paramProvider, name) }
}

// WithAutoLaunch launches the channel in which content was found
func WithAutoLaunch(launch bool) SearchOption {
	return func(q *SearchQuery) { q.set(paramLaunch, formatBool(launch)) }
}

// NewSearchQuery applies opts to a query for keyword
func NewSearchQuery(keyword string, opts ...SearchOption) *SearchQuery {
	q := &SearchQuery{Keyword: keyword}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Validate enforces the required keyword and the closed content type set
func (q *SearchQuery) Validate() error {
	if q.Keyword == "" {
		return NewInvalidParameterError("keyword is required")
	}
	if t, ok := q.params[paramType]; ok && !IsContentType(t) {
		return NewInvalidParameterError(fmt.Sprintf("type must be one of %s, got %q",
			strings.Join(ContentTypes, ", "), t))
	}
	return nil
}

// Encode validates q and returns the percent-encoded query string
func (q *SearchQuery) Encode() (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}

	parts := make([]string, 0, len(searchParamOrder))
	for _, name := range searchParamOrder {
		value, ok := q.params[name]
		if name == paramKeyword {
			value, ok = q.Keyword, true
		}
		if ok {
			parts = append(parts, name+"="+QueryEscape(value))
		}
	}

	return strings.Join(parts, "&"), nil
}

// BuildSearchQuery builds and encodes a search query in one step
func BuildSearchQuery(keyword string, opts ...SearchOption) (string, error) {
	return NewSearchQuery(keyword, opts...).Encode()
}

// IsContentType reports whether t is exactly one of ContentTypes
func IsContentType(t string) bool {
	for _, ct := range ContentTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// QueryEscape percent-encodes a single parameter value, leaving unreserved
// characters and '/' as they are. '=' and '&' are encoded so a value can
// never introduce another parameter.
func QueryEscape(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || c == '/' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}
