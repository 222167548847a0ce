package console

import (
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// tokenRe splits on whitespace but keeps "double quoted" runs together.
	tokenRe = regexp.MustCompile(`[^"\s]+|"[^"]*"`)
	// literalRe finds a list, dict or tuple literal embedded in a line.
	literalRe = regexp.MustCompile(`\[(.*?)\]\s*|(\{.*?\})\s*|(\(.+?\))`)
	// dottedRe matches <Class>.<command>(<args>).
	dottedRe = regexp.MustCompile(`^(\w*)\.(\w+)\((.*)\)$`)
)

// token is one argument of a command line.
type token struct {
	text   string
	quoted bool
}

// splitLine tokenizes a command line, stripping the quotes of quoted tokens.
func splitLine(line string) []token {
	parts := tokenRe.FindAllString(line, -1)
	out := make([]token, 0, len(parts))
	for _, p := range parts {
		if len(p) >= 2 && strings.HasPrefix(p, `"`) && strings.HasSuffix(p, `"`) {
			out = append(out, token{text: p[1 : len(p)-1], quoted: true})
			continue
		}
		out = append(out, token{text: p})
	}
	return out
}

// dictLiteral returns the dictionary embedded in line, if any. Lists,
// tuples, empty dicts and malformed literals yield ok == false.
func dictLiteral(line string) (map[string]any, bool) {
	m := literalRe.FindStringSubmatch(line)
	if m == nil || m[2] == "" {
		return nil, false
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(m[2]), &doc); err != nil {
		return nil, false
	}
	noneToNull(&doc)
	var dict map[string]any
	if err := doc.Decode(&dict); err != nil || len(dict) == 0 {
		return nil, false
	}
	return dict, true
}

// noneToNull turns bare None values into YAML nulls. Keys are left alone.
func noneToNull(n *yaml.Node) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Style == 0 && n.Value == "None" {
			n.Tag = "!!null"
			n.Value = "null"
		}
	case yaml.MappingNode:
		for i := 1; i < len(n.Content); i += 2 {
			noneToNull(n.Content[i])
		}
	default:
		for _, c := range n.Content {
			noneToNull(c)
		}
	}
}

// splitCommand separates the command word from its arguments.
func splitCommand(line string) (string, string) {
	i := 0
	for i < len(line) && isIdentChar(line[i]) {
		i++
	}
	return line[:i], strings.TrimSpace(line[i:])
}

func isIdentChar(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// dottedCall is <Class>.<command>(<args>).
type dottedCall struct {
	class   string
	command string
	args    string
}

func parseDotted(line string) (dottedCall, bool) {
	m := dottedRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return dottedCall{}, false
	}
	return dottedCall{class: m[1], command: m[2], args: strings.TrimSpace(m[3])}, true
}

// classicArgs rewrites the argument list of a dotted call into the argument
// string of the equivalent classic command.
func (d dottedCall) classicArgs() string {
	if d.args == "" {
		return d.class
	}
	if loc := literalRe.FindStringIndex(d.args); loc != nil {
		id := unquote(strings.TrimSpace(strings.SplitN(d.args, ",", 2)[0]))
		return strings.Join([]string{d.class, id, strings.TrimSpace(d.args[loc[0]:loc[1]])}, " ")
	}
	parts := []string{d.class}
	for _, arg := range splitArgs(d.args) {
		v := unquote(arg)
		if strings.ContainsAny(v, " \t") {
			v = `"` + v + `"`
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, " ")
}

// splitArgs splits on commas that are not inside quotes.
func splitArgs(s string) []string {
	var (
		out   []string
		cur   strings.Builder
		quote byte
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			cur.WriteByte(c)
		case c == '"' || c == '\'':
			quote = c
			cur.WriteByte(c)
		case c == ',':
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if last := strings.TrimSpace(cur.String()); last != "" || len(out) > 0 {
		out = append(out, last)
	}
	return out
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// parseValue converts an unquoted token to int or float when it looks like one.
func parseValue(t token) any {
	if t.quoted {
		return t.text
	}
	if i, err := strconv.Atoi(t.text); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(t.text, 64); err == nil {
		return f
	}
	return t.text
}

// parseParam parses a create parameter key=value. String values are double
// quoted, use _ for spaces and \" for quotes. ok is false for anything else.
func parseParam(param string) (string, any, bool) {
	key, raw, found := strings.Cut(param, "=")
	if !found || key == "" || raw == "" {
		return "", nil, false
	}
	if strings.HasPrefix(raw, `"`) {
		if len(raw) < 2 || !strings.HasSuffix(raw, `"`) {
			return "", nil, false
		}
		inner := raw[1 : len(raw)-1]
		if strings.Contains(strings.ReplaceAll(inner, `\"`, ""), `"`) {
			return "", nil, false
		}
		inner = strings.ReplaceAll(inner, `\"`, `"`)
		return key, strings.ReplaceAll(inner, "_", " "), true
	}
	if strings.Contains(raw, ".") {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return "", nil, false
		}
		return key, f, true
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return "", nil, false
	}
	return key, i, true
}

// reprString quotes s the way a list of strings has always been printed.
func reprString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
