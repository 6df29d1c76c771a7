package core

import "strings"

// CompileFinalReport joins the completed content of every planned section in
// planned order, separated by a blank line, and escapes dollar signs for
// Markdown renderers.
func CompileFinalReport(sections, completed []Section) (string, error) {
	content := make(map[string]string, len(completed))
	for _, s := range completed {
		if _, dup := content[s.Name]; dup {
			return "", &DuplicateSectionError{Name: s.Name}
		}
		content[s.Name] = s.Content
	}

	parts := make([]string, len(sections))
	for i, s := range sections {
		c, ok := content[s.Name]
		if !ok {
			return "", &MissingSectionError{Name: s.Name}
		}
		parts[i] = c
	}
	return EscapeDollars(strings.Join(parts, "\n\n")), nil
}

// EscapeDollars turns every "$" not already preceded by a backslash into
// "\$". Applying it twice equals applying it once.
func EscapeDollars(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		if s[i] == '$' && (i == 0 || s[i-1] != '\\') {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
