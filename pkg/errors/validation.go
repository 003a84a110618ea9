package errors

import (
	"strings"
	"unicode"
)

const maxNameLength = 128

// ValidateProjectName validates a project name before it is used as a folder
// and file name on disk. It rejects names that could escape the target
// directory or that most filesystems cannot store:
//   - No empty or whitespace-only names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - No leading dot (hidden files)
//   - Maximum length of 128 characters
func ValidateProjectName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "project name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "project name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "project name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, `/\:*?"<>|`) {
		return New(ErrCodeInvalidName, "project name cannot contain path separators or reserved characters: %q", name)
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "project name cannot contain path traversal sequences (..)")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidName, "project name cannot start with a dot")
	}

	return nil
}

// ValidateClassName validates a class name used as a catalog key. Class
// names are case-sensitive identifiers, optionally followed by a single
// "::Variant" suffix (for example "Association::Composition").
func ValidateClassName(name string) error {
	if name == "" {
		return New(ErrCodeUnknownClass, "class name cannot be empty")
	}
	parts := strings.Split(name, "::")
	if len(parts) > 2 {
		return New(ErrCodeUnknownClass, "class name has more than one variant separator: %q", name)
	}
	for _, part := range parts {
		if part == "" {
			return New(ErrCodeUnknownClass, "class name has an empty segment: %q", name)
		}
		for i, r := range part {
			if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
				continue
			}
			return New(ErrCodeUnknownClass, "class name contains invalid character %q: %q", r, name)
		}
	}
	return nil
}
