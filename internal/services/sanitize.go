package services

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// Control characters and anything that would break a zip entry
	// name or a Content-Disposition header.
	controlCharsRegex = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	unsafeCharsRegex  = regexp.MustCompile(`[\\/:*?"<>|]`)
	multiSpaceRegex   = regexp.MustCompile(`\s{2,}`)
)

// sanitizeFileName makes a client-supplied filename safe to reuse as an
// archive entry name or download filename. Uploaded names may carry
// full paths, control bytes or header-breaking characters.
func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = controlCharsRegex.ReplaceAllString(name, "")
	name = unsafeCharsRegex.ReplaceAllString(name, "_")
	name = multiSpaceRegex.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == ".." {
		return "image"
	}
	return name
}

// baseName returns the sanitized filename without its extension.
func baseName(name string) string {
	name = sanitizeFileName(name)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	if name == "" {
		return "image"
	}
	return name
}
