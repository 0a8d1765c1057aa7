// Package automation matches configurable rules against lead lifecycle
// events and fires templated notification emails without blocking the
// event producer.
package automation

import (
	"fmt"
	"regexp"
	"strconv"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.-]+)\s*\}\}`)

// nameAliases and emailAliases are the common field-name variants resolved
// into the canonical "name" and "email" substitution keys. First non-empty
// match wins.
var (
	nameAliases  = []string{"name", "Name", "full_name", "fullName"}
	emailAliases = []string{"email", "Email"}
)

// BuildSubstitutions flattens a lead event into the template substitution
// map: every submitted field stringified (null becomes empty), plus
// formName, stageName, and the canonical name/email aliases.
func BuildSubstitutions(leadData map[string]any, formName, stageName string) map[string]string {
	subs := make(map[string]string, len(leadData)+4)
	for k, v := range leadData {
		subs[k] = stringify(v)
	}

	subs["formName"] = formName
	subs["stageName"] = stageName
	subs["name"] = firstNonEmpty(leadData, nameAliases)
	subs["email"] = firstNonEmpty(leadData, emailAliases)

	return subs
}

// Render substitutes {{key}} placeholders from subs. Unknown keys render
// as empty strings; rendering never fails.
func Render(template string, subs map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		return subs[key]
	})
}

func firstNonEmpty(leadData map[string]any, keys []string) string {
	for _, k := range keys {
		if v := stringify(leadData[k]); v != "" {
			return v
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; render integral values without
		// the trailing ".0" noise.
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
