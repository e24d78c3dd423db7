package bibtex

import (
	"fmt"
	"strings"

	"github.com/alberto/anybib/internal/reference"
)

// entryType maps record kinds to BibTeX entry types.
func entryType(kind reference.Kind) string {
	switch kind {
	case reference.KindArticle:
		return "article"
	case reference.KindBook:
		return "book"
	case reference.KindChapter:
		return "incollection"
	}
	return "misc"
}

// Format renders a record as a BibTeX entry. Absent fields are omitted
// entirely, never emitted empty. The title is double-braced to defeat
// case-folding by downstream renderers.
func Format(rec *reference.Record) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType(rec.Kind), CiteKey(rec)))

	if rec.Title != "" {
		b.WriteString(fmt.Sprintf("  title = {{%s}},\n", escapeLatex(rec.Title)))
	}
	if len(rec.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", escapeLatex(formatAuthors(rec.Authors))))
	}
	if rec.Year != 0 {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", rec.Year))
	}
	if rec.Venue != "" {
		b.WriteString(fmt.Sprintf("  journal = {%s},\n", escapeLatex(rec.Venue)))
	}
	if rec.Publisher != "" {
		b.WriteString(fmt.Sprintf("  publisher = {%s},\n", escapeLatex(rec.Publisher)))
	}
	if rec.Volume != "" {
		b.WriteString(fmt.Sprintf("  volume = {%s},\n", rec.Volume))
	}
	if rec.Issue != "" {
		b.WriteString(fmt.Sprintf("  number = {%s},\n", rec.Issue))
	}
	if rec.Pages != "" {
		b.WriteString(fmt.Sprintf("  pages = {%s},\n", rec.Pages))
	}
	if rec.Identifier != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", reference.NormalizeIdentifier(rec.Identifier)))
	}
	if rec.URL != "" {
		b.WriteString(fmt.Sprintf("  url = {%s},\n", rec.URL))
	}

	b.WriteString("}\n")
	return b.String()
}

// formatAuthors renders authors in BibTeX style: "Last, First and Last, First".
func formatAuthors(authors []reference.Author) string {
	formatted := make([]string, 0, len(authors))
	for _, a := range authors {
		formatted = append(formatted, formatAuthor(a))
	}
	return strings.Join(formatted, " and ")
}

func formatAuthor(a reference.Author) string {
	if a.Family != "" && a.Given != "" {
		return fmt.Sprintf("%s, %s", a.Family, a.Given)
	}
	if a.Family != "" {
		return a.Family
	}

	// Raw full name: split on the last space so "Jean van Dam" becomes
	// "Dam, Jean van". Crude, but only reached for unstructured names.
	full := strings.TrimSpace(a.FullName)
	if idx := strings.LastIndex(full, " "); idx > 0 {
		return full[idx+1:] + ", " + full[:idx]
	}
	return full
}

// escapeLatex escapes LaTeX special characters in one pass over the input,
// so the braces and backslashes introduced by a replacement are never
// themselves re-escaped.
func escapeLatex(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\textbackslash{}`)
		case '&', '%', '$', '#', '_', '{', '}':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '~':
			b.WriteString(`\textasciitilde{}`)
		case '^':
			b.WriteString(`\textasciicircum{}`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
