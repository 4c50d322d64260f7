// Package bookops turns a delivery ID into a file on disk: it resolves the
// license, streams the binary through a .partial file, renames it into place
// and, for encrypted EPUB containers, embeds the rights manifest.
package bookops
