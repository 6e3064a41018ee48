// ABOUTME: Generates typed Go wrappers for prompt schemas from an embedded template
// ABOUTME: Identifiers come from slugs via x/text; output is gofmt'ed before it is returned

// Package codegen turns prompt schemas into a Go file with one typed vars
// struct plus Invoke and Stream helpers per prompt.
package codegen

import (
	"bytes"
	"cmp"
	"embed"
	"fmt"
	"go/format"
	"go/token"
	"slices"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/mauromedda/betterprompt-go/pkg/betterprompt"
)

//go:embed templates/*.go.tpl
var templateFS embed.FS

var wrappersTmpl = template.Must(
	template.New("wrappers.go.tpl").
		Funcs(template.FuncMap{"comment": comment}).
		ParseFS(templateFS, "templates/wrappers.go.tpl"),
)

// initialisms are rendered upper case, as golint expects.
var initialisms = map[string]bool{
	"API": true, "HTML": true, "HTTP": true, "ID": true, "JSON": true,
	"LLM": true, "SQL": true, "URL": true, "UUID": true, "XML": true,
}

type fileData struct {
	Package string
	Prompts []promptData
}

type promptData struct {
	Name        string
	Slug        string
	Title       string
	Description string
	Fields      []fieldData
}

type fieldData struct {
	Name        string
	Key         string
	Description string
	Required    bool
}

// Generate renders wrappers for schemas into a formatted Go source file of
// package pkg. Prompts are emitted in slug order.
func Generate(pkg string, schemas []betterprompt.PromptSchema) ([]byte, error) {
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("invalid package name %q", pkg)
	}

	sorted := slices.Clone(schemas)
	slices.SortFunc(sorted, func(a, b betterprompt.PromptSchema) int {
		return strings.Compare(a.Slug, b.Slug)
	})

	data := fileData{Package: pkg}
	names := newNamer("Prompt")
	for _, s := range sorted {
		if s.Slug == "" {
			return nil, fmt.Errorf("prompt schema without slug")
		}
		p := promptData{
			Name:        names.unique(GoName(s.Slug)),
			Slug:        s.Slug,
			Title:       oneLine(cmp.Or(s.Name, s.Slug)),
			Description: strings.TrimSpace(s.Description),
		}

		fields := newNamer("Var")
		fields.used["ContextVariables"] = 1 // method on the vars struct
		seen := make(map[string]bool)
		add := func(v betterprompt.Variable, required bool) {
			if v.Name == "" || seen[v.Name] {
				return
			}
			seen[v.Name] = true
			p.Fields = append(p.Fields, fieldData{
				Name:        fields.unique(GoName(v.Name)),
				Key:         v.Name,
				Description: strings.TrimSpace(v.Description),
				Required:    required,
			})
		}
		for _, v := range s.RequiredContextVariables {
			add(v, true)
		}
		for _, v := range s.OptionalContextVariables {
			add(v, false)
		}
		data.Prompts = append(data.Prompts, p)
	}

	var buf bytes.Buffer
	if err := wrappersTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering wrappers: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w", err)
	}
	return src, nil
}

// GoName converts a slug or variable name to an exported Go identifier:
// "summarize-text" -> "SummarizeText", "user_id" -> "UserID", "résumé" -> "Resume".
// It returns "" when s has no letters or digits.
func GoName(s string) string {
	words := strings.FieldsFunc(stripMarks(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range words {
		if upper := strings.ToUpper(w); initialisms[upper] {
			b.WriteString(upper)
			continue
		}
		b.WriteString(title.String(w))
	}

	name := b.String()
	if name != "" && !unicode.IsLetter([]rune(name)[0]) {
		name = "X" + name
	}
	return name
}

// stripMarks removes combining marks so accented letters become ASCII where
// a plain form exists.
func stripMarks(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// namer hands out identifiers that are unique within one scope.
type namer struct {
	fallback string
	used     map[string]int
}

func newNamer(fallback string) *namer {
	return &namer{fallback: fallback, used: make(map[string]int)}
}

func (n *namer) unique(name string) string {
	if name == "" {
		name = n.fallback
	}
	n.used[name]++
	if c := n.used[name]; c > 1 {
		candidate := name + strconv.Itoa(c)
		for n.used[candidate] > 0 {
			c++
			candidate = name + strconv.Itoa(c)
		}
		n.used[candidate]++
		return candidate
	}
	return name
}

// comment renders s as // lines.
func comment(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, l := range lines {
		l = strings.TrimRight(l, " \t")
		if l == "" {
			lines[i] = "//"
			continue
		}
		lines[i] = "// " + l
	}
	return strings.Join(lines, "\n")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
