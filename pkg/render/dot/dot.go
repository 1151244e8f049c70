package dot

import (
	"fmt"
	"io"
	"strings"
)

// attrs is an ordered attribute list so the emitted DOT is stable.
type attrs []struct{ k, v string }

func (a *attrs) set(k, v string) {
	for i := range *a {
		if (*a)[i].k == k {
			(*a)[i].v = v
			return
		}
	}
	*a = append(*a, struct{ k, v string }{k, v})
}

func (a attrs) String() string {
	if len(a) == 0 {
		return ""
	}
	parts := make([]string, len(a))
	for i, kv := range a {
		parts[i] = fmt.Sprintf("%s=%s", kv.k, quote(kv.v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// quote escapes a DOT attribute value. Backslashes pass through untouched so
// pre-escaped tooltip URLs survive.
func quote(v string) string {
	v = strings.ReplaceAll(v, `"`, `\"`)
	v = strings.ReplaceAll(v, "\n", `\n`)
	return `"` + v + `"`
}

// writer emits indented DOT lines, remembering the first write error.
type writer struct {
	w      io.Writer
	indent int
	err    error
}

func (d *writer) line(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("\t", d.indent), fmt.Sprintf(format, args...))
}

func (d *writer) open(format string, args ...any) {
	d.line(format+" {", args...)
	d.indent++
}

func (d *writer) close() {
	d.indent--
	d.line("}")
}

func (d *writer) node(name string, a attrs) {
	d.line("%s %s;", quote(name), a.String())
}

func (d *writer) edge(op, from, to string, a attrs) {
	d.line("%s %s %s %s;", quote(from), op, quote(to), a.String())
}

// jsAlert builds the javascript tooltip URL used on SVG output.
func jsAlert(msg string) string {
	if msg == "" {
		return ""
	}
	msg = strings.ReplaceAll(msg, "\n", `\n`)
	msg = strings.ReplaceAll(msg, "'", `\'`)
	return fmt.Sprintf("javascript:alert('%s');", msg)
}
