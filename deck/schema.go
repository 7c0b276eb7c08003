package deck

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"text/template/parse"
)

// ErrPlaceholder is returned when a template and its data disagree with the
// template's declared placeholder set.
var ErrPlaceholder = errors.New("placeholder mismatch")

// Fields is the substitution data for one page, keyed by placeholder name
type Fields map[string]any

// Template is a parsed page template bound to an explicit placeholder schema.
type Template struct {
	name   string
	tmpl   *template.Template
	schema map[string]struct{}
}

// Parse compiles text together with the shared partials and verifies every
// top-level placeholder it references is listed in schema.
func Parse(name, text string, schema []string) (*Template, error) {
	t := template.New(name).Option("missingkey=error")
	if _, err := t.Parse(partials); err != nil {
		return nil, fmt.Errorf("parse partials: %w", err)
	}
	if _, err := t.Parse(text); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	allowed := make(map[string]struct{}, len(schema))
	for _, s := range schema {
		allowed[s] = struct{}{}
	}

	used := map[string]struct{}{}
	if t.Tree != nil {
		collectFields(t.Tree.Root, used)
	}
	var unknown []string
	for f := range used {
		if _, ok := allowed[f]; !ok {
			unknown = append(unknown, f)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s references unknown %s", ErrPlaceholder, name, strings.Join(unknown, ", "))
	}
	return &Template{name: name, tmpl: t, schema: allowed}, nil
}

func (t *Template) Name() string { return t.name }

// Fill executes the template. The key set of data must equal the schema.
func (t *Template) Fill(data Fields) (string, error) {
	var missing, extra []string
	for k := range t.schema {
		if _, ok := data[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k := range data {
		if _, ok := t.schema[k]; !ok {
			extra = append(extra, k)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		sort.Strings(missing)
		sort.Strings(extra)
		return "", fmt.Errorf("%w: %s missing [%s] extra [%s]", ErrPlaceholder, t.name,
			strings.Join(missing, ", "), strings.Join(extra, ", "))
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, map[string]any(data)); err != nil {
		return "", fmt.Errorf("execute %s: %w", t.name, err)
	}
	return buf.String(), nil
}

// collectFields records the first identifier of every field reference made
// against the root data. Range and with bodies rebind dot, so only their
// pipelines are inspected.
func collectFields(node parse.Node, out map[string]struct{}) {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			collectFields(c, out)
		}
	case *parse.ActionNode:
		collectPipe(n.Pipe, out)
	case *parse.IfNode:
		collectPipe(n.Pipe, out)
		collectFields(n.List, out)
		collectFields(n.ElseList, out)
	case *parse.RangeNode:
		collectPipe(n.Pipe, out)
		collectFields(n.ElseList, out)
	case *parse.WithNode:
		collectPipe(n.Pipe, out)
		collectFields(n.ElseList, out)
	case *parse.TemplateNode:
		collectPipe(n.Pipe, out)
	}
}

func collectPipe(p *parse.PipeNode, out map[string]struct{}) {
	if p == nil {
		return
	}
	for _, cmd := range p.Cmds {
		for _, arg := range cmd.Args {
			switch a := arg.(type) {
			case *parse.FieldNode:
				out[a.Ident[0]] = struct{}{}
			case *parse.PipeNode:
				collectPipe(a, out)
			}
		}
	}
}
