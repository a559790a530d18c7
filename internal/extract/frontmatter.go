package extract

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/milestones/internal/model"
)

// DateFields are the header keys read as milestone dates, in emission order
var DateFields = []string{"date", "created", "modified", "milestone", "deadline", "due"}

const (
	formatField    = "dateformat"
	uncertainField = "dateuncertain"
)

var headerLineRe = regexp.MustCompile(`^\s*([A-Za-z_][\w-]*)\s*:\s*(.*?)\s*$`)

type headerField struct {
	value string
	line  int // 1-based source line
}

// frontMatter holds the scalar fields of a header block, keyed by lowercase name
type frontMatter struct {
	fields map[string]headerField
}

// parseFrontMatter decodes the header lines. Header line i sits on source
// line i+2 because of the opening fence. Malformed YAML falls back to a
// plain key: value scan so one bad field does not hide the rest.
func parseFrontMatter(lines []string) frontMatter {
	fm := frontMatter{fields: make(map[string]headerField)}
	if len(lines) == 0 {
		return fm
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(strings.Join(lines, "\n")), &doc); err == nil {
		if len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
			m := doc.Content[0]
			for i := 0; i+1 < len(m.Content); i += 2 {
				key, val := m.Content[i], m.Content[i+1]
				if val.Kind != yaml.ScalarNode {
					continue
				}
				fm.set(key.Value, val.Value, val.Line+1)
			}
			return fm
		}
	}

	for i, line := range lines {
		m := headerLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		fm.set(m[1], unquote(m[2]), i+2)
	}
	return fm
}

func (fm frontMatter) set(key, value string, line int) {
	key = strings.ToLower(strings.TrimSpace(key))
	if _, dup := fm.fields[key]; dup {
		return
	}
	fm.fields[key] = headerField{value: strings.TrimSpace(value), line: line}
}

func (fm frontMatter) get(key string) (headerField, bool) {
	f, ok := fm.fields[key]
	if !ok || f.value == "" {
		return headerField{}, false
	}
	return f, true
}

// dateFormat returns the note's format override, or def
func (fm frontMatter) dateFormat(def model.DateFormat) model.DateFormat {
	if f, ok := fm.get(formatField); ok {
		if df, ok := model.ParseDateFormat(f.value); ok {
			return df
		}
	}
	return def
}

// uncertain reports the note-level uncertainty flag
func (fm frontMatter) uncertain() bool {
	f, ok := fm.get(uncertainField)
	if !ok {
		return false
	}
	switch strings.ToLower(f.value) {
	case "true", "yes":
		return true
	}
	return false
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
