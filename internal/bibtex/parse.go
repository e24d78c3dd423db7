package bibtex

import (
	"regexp"
	"strings"
)

// Entry is a parsed BibTeX entry. Fields holds raw values with one level of
// surrounding braces removed.
type Entry struct {
	Type   string
	Key    string
	Fields map[string]string
}

var (
	// Match entry start: @type{key,
	entryStartRegex = regexp.MustCompile(`@(\w+)\{([^,]+),`)
	// Match a field line: name = {value}
	fieldRegex = regexp.MustCompile(`(?m)^\s*([A-Za-z]+)\s*=\s*\{(.*)\},?\s*$`)
)

// Parse is a best-effort inverse of Format. Unknown or malformed input
// yields an entry with an empty field map rather than an error.
func Parse(input string) Entry {
	entry := Entry{Fields: map[string]string{}}

	if m := entryStartRegex.FindStringSubmatch(input); len(m) == 3 {
		entry.Type = strings.ToLower(m[1])
		entry.Key = strings.TrimSpace(m[2])
	}

	for _, m := range fieldRegex.FindAllStringSubmatch(input, -1) {
		name := strings.ToLower(m[1])
		value := strings.TrimSpace(m[2])
		// The title is emitted double-braced; strip the inner pair.
		if strings.HasPrefix(value, "{") && strings.HasSuffix(value, "}") {
			value = value[1 : len(value)-1]
		}
		entry.Fields[name] = value
	}

	return entry
}
