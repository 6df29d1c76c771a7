package core

import (
	"fmt"
	"strings"
)

const notYetWritten = "[Not yet written]"

var sectionRule = strings.Repeat("=", 60)

// FormatSections renders sections as numbered blocks used as LLM context.
func FormatSections(sections []Section) string {
	var b strings.Builder
	for i, s := range sections {
		content := s.Content
		if content == "" {
			content = notYetWritten
		}
		fmt.Fprintf(&b, "\n%s\nSection %d: %s\n%s\n", sectionRule, i+1, s.Name, sectionRule)
		fmt.Fprintf(&b, "Description:\n%s\nRequires Research:\n%s\n\n", s.Description, titleBool(s.Research))
		fmt.Fprintf(&b, "Content:\n%s\n\n", content)
	}
	return b.String()
}

func titleBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
