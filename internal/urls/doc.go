// Package urls provides centralized constants for all documentation URLs used
// throughout the application.
//
// Usage:
//
//	import "github.com/muurk/controku/internal/urls"
//
//	fmt.Printf("Valid key names: %s\n", urls.ECPKeypressKeys)
package urls
