package reference

import "strings"

// Author represents a single contributor with an optional ORCID identifier.
type Author struct {
	FullName string `json:"full_name"`
	Given    string `json:"given,omitempty"`
	Family   string `json:"family,omitempty"`
	ORCID    string `json:"orcid,omitempty"` // Without URL prefix
}

// FamilyName returns the structured family name, deriving it from the full
// name when no structured form is present. It is empty only when the author
// has no name at all.
func (a Author) FamilyName() string {
	if a.Family != "" {
		return a.Family
	}
	_, family := ParseFullName(a.FullName)
	return family
}

// GivenName returns the structured given name, deriving it from the full
// name when no structured form is present.
func (a Author) GivenName() string {
	if a.Given != "" {
		return a.Given
	}
	given, _ := ParseFullName(a.FullName)
	return given
}

// DisplayName renders the author as "Family, Given" when both parts are
// known, falling back to the family name or the raw full name.
func (a Author) DisplayName() string {
	if a.Family != "" && a.Given != "" {
		return a.Family + ", " + a.Given
	}
	if a.Family != "" {
		return a.Family
	}
	return a.FullName
}

// particles are lowercase connector words conventionally attached to a
// family name ("van Beethoven", "de la Cruz", "Ibn Sina").
var particles = map[string]bool{
	"di": true, "de": true, "van": true, "von": true, "del": true,
	"da": true, "la": true, "le": true, "el": true, "al": true,
	"bin": true, "ibn": true, "mac": true, "mc": true, "o": true,
	"san": true, "santa": true, "dos": true, "das": true, "du": true,
	"der": true, "den": true, "ter": true, "ten": true,
}

// ParseFullName splits a full personal name into given and family parts.
//
// For names of three or more tokens it scans backward from the second-to-last
// token, pulling compound-surname particles (and period-terminated tokens)
// into the family span until the first ordinary token. This approximates
// common Western compound-surname conventions; it is a best-effort heuristic,
// not a grammar.
func ParseFullName(fullName string) (given, family string) {
	tokens := strings.Fields(fullName)
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return "", tokens[0]
	case 2:
		return tokens[0], tokens[1]
	}

	// Family starts at the last token; pull preceding particles into it.
	boundary := len(tokens) - 1
	for i := len(tokens) - 2; i > 0; i-- {
		tok := tokens[i]
		if !particles[strings.ToLower(tok)] && !strings.HasSuffix(tok, ".") {
			break
		}
		boundary = i
	}

	return strings.Join(tokens[:boundary], " "), strings.Join(tokens[boundary:], " ")
}
