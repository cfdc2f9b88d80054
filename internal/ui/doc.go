// Package ui provides semantic text formatting for CLI output.
//
// Formatters colorize content when the terminal supports it. When NO_COLOR
// is set or color is unavailable, they fall back to text decorations:
//
//	ui.Code.Sprint("envelope keys generate")  // `envelope keys generate`
//	ui.Path.Sprint("keys/private.pem")        // keys/private.pem
//	ui.Highlight.Sprint("256")                // '256'
//	ui.Fingerprint.Sprint("SHA256:abc")       // [SHA256:abc]
//	ui.Muted.Sprint("dry run")                // (dry run)
//
// Success, Error, Warning, Info, Path and Flag carry no decoration.
package ui
