//go:build ignore

// gen writes queries_gen.go: one method per standard query name.
package main

import (
	"bytes"
	"go/format"
	"log"
	"os"
	"strings"
	"text/template"

	"github.com/stolasapp/rodtl/internal/query"
)

var tmpl = template.Must(template.New("queries").Parse(`// Code generated by gen.go; DO NOT EDIT.

package locator

import "github.com/stolasapp/rodtl/internal/query"
{{ range .Sync }}
// {{ .Method }} runs {{ .Name }}.
func (q *Queries) {{ .Method }}(args ...any) *Locator {
	return q.Run(query.Name("{{ .Name }}"), args...)
}
{{ end }}{{ range .Find }}
// {{ .Method }} runs {{ .Name }}.
func (q *Queries) {{ .Method }}(args ...any) *Deferred {
	return q.Find(query.Name("{{ .Name }}"), args...)
}
{{ end }}{{ range .Find }}
// {{ .Method }} runs {{ .Name }} within the root.
func (f *FindQueries) {{ .Method }}(args ...any) *Deferred {
	return f.Find(query.Name("{{ .Name }}"), args...)
}
{{ end }}`))

type method struct {
	Name   query.Name
	Method string
}

func methodName(name query.Name) string {
	s := string(name)
	s = strings.ToUpper(s[:1]) + s[1:]
	if strings.HasSuffix(s, "TestId") {
		s = strings.TrimSuffix(s, "TestId") + "TestID"
	}
	return s
}

func main() {
	data := struct{ Sync, Find []method }{}
	for _, name := range query.Default().All() {
		m := method{Name: name, Method: methodName(name)}
		if name.IsFind() {
			data.Find = append(data.Find, m)
		} else {
			data.Sync = append(data.Sync, m)
		}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Fatal(err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile("queries_gen.go", src, 0o644); err != nil {
		log.Fatal(err)
	}
}
