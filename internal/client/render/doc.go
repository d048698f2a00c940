// Package render turns entries into terminal fragments and appends them to
// a Container. Entry bodies are stored as HTML by the blog editor; they are
// converted to markdown and rendered with glamour.
package render
