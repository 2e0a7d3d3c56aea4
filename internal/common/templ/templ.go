package templ

import (
	"bytes"
	"strings"
	"text/template"
)

// BuiltInFuncs is a limited set of useful funcs, mostly string handling, added to the Go built-ins.
var BuiltInFuncs = template.FuncMap{
	"upper": func(s string) string {
		return strings.ToUpper(s)
	},
	"lower": func(s string) string {
		return strings.ToLower(s)
	},
	"replace": strings.ReplaceAll,
	"trimPrefix": func(prefix, s string) string {
		return strings.TrimPrefix(s, prefix)
	},
	"trimSuffix": func(suffix, s string) string {
		return strings.TrimSuffix(s, suffix)
	},
}

// Parse parses t with BuiltInFuncs available.
func Parse(t string) (*template.Template, error) {
	return template.New("").Funcs(BuiltInFuncs).Option("missingkey=error").Parse(t)
}

// Sprintt renders the Go template t with the given data in ctx.
func Sprintt(t string, ctx any) (string, error) {
	tmpl, err := Parse(t)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MustSprintt is like Sprintt, but panics on error.
func MustSprintt(t string, ctx any) string {
	s, err := Sprintt(t, ctx)
	if err != nil {
		panic(err)
	}
	return s
}
