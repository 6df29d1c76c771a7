package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// UrlQuery escapes s for use as a query parameter value.
func UrlQuery(s string) string { return url.QueryEscape(strings.TrimSpace(s)) }

func Str(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
