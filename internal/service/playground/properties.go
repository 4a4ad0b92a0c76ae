package playground

import (
	"fmt"
	"regexp"
	"strings"
)

// Properties are the typed, editable attributes of the selected element.
type Properties struct {
	Text       string `json:"text"`
	Color      string `json:"color"`
	Background string `json:"background"`
	FontSizePx int    `json:"fontSize"`
	RadiusPx   int    `json:"radius"`
}

var (
	inlineStylePattern = regexp.MustCompile(`style=\{\{[^}]*\}\}`)
	firstTextPattern   = regexp.MustCompile(`>[^<]*<`)
)

// Apply rewrites the generated JSX and stylesheet with the given element
// properties and returns the new pair. Edits target the first element of the
// component, the same element the editor selects. The JSX inline style block
// and first text node are replaced textually; stylesheet declarations are
// located through a declaration parser so only matching property values are
// touched. Declarations absent from the stylesheet are left absent.
func Apply(code, css string, p Properties) (string, string) {
	newCode := replaceFirst(inlineStylePattern, code, fmt.Sprintf(
		"style={{ background: '%s', color: '%s', fontSize: '%dpx', borderRadius: '%dpx' }}",
		p.Background, p.Color, p.FontSizePx, p.RadiusPx,
	))
	newCode = replaceFirst(firstTextPattern, newCode, ">"+p.Text+"<")

	newCSS := css
	newCSS = overrideDeclaration(newCSS, "background", p.Background)
	newCSS = overrideDeclaration(newCSS, "color", p.Color)
	newCSS = overrideDeclaration(newCSS, "font-size", fmt.Sprintf("%dpx", p.FontSizePx))
	newCSS = overrideDeclaration(newCSS, "border-radius", fmt.Sprintf("%dpx", p.RadiusPx))

	return newCode, newCSS
}

// replaceFirst substitutes only the first match of re in s.
func replaceFirst(re *regexp.Regexp, s, replacement string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + replacement + s[loc[1]:]
}

// declaration records where one property's value sits inside a stylesheet.
type declaration struct {
	property   string
	valueStart int
	valueEnd   int
}

// parseDeclarations walks the stylesheet and indexes every property: value
// pair inside rule blocks. Selectors and at-rule preludes sit at brace depth
// zero and are skipped.
func parseDeclarations(css string) []declaration {
	var decls []declaration
	depth := 0

	i := 0
	for i < len(css) {
		switch css[i] {
		case '{':
			depth++
			i++
		case '}':
			if depth > 0 {
				depth--
			}
			i++
		default:
			if depth == 0 {
				i++
				continue
			}
			start := i
			j := i
			for j < len(css) && css[j] != ':' && css[j] != ';' && css[j] != '}' {
				j++
			}
			if j >= len(css) || css[j] != ':' {
				i = j
				if i < len(css) && css[i] == ';' {
					i++
				}
				continue
			}
			property := strings.ToLower(strings.TrimSpace(css[start:j]))
			valueStart := j + 1
			k := valueStart
			for k < len(css) && css[k] != ';' && css[k] != '}' {
				k++
			}
			if property != "" {
				decls = append(decls, declaration{property: property, valueStart: valueStart, valueEnd: k})
			}
			i = k
			if i < len(css) && css[i] == ';' {
				i++
			}
		}
	}
	return decls
}

// overrideDeclaration sets the value of the first occurrence of property in
// the stylesheet. Stylesheets without that property are returned unchanged.
func overrideDeclaration(css, property, value string) string {
	for _, d := range parseDeclarations(css) {
		if d.property == property {
			return css[:d.valueStart] + " " + value + css[d.valueEnd:]
		}
	}
	return css
}
