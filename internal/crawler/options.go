package crawler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Section é uma aba do site com o código usado em "opcao".
type Section struct {
	Name        string
	Code        string
	Subsections []string
}

var (
	subsProcessamento = []string{"Viníferas", "Americanas e híbridas", "Uvas de mesa", "Sem classificação"}
	subsImportacao    = []string{"Vinhos de mesa", "Espumantes", "Uvas frescas", "Uvas passas", "Suco de uva"}
	subsExportacao    = []string{"Vinhos de mesa", "Espumantes", "Uvas frescas", "Suco de uva"}
)

var sections = []Section{
	{Name: "Produção", Code: "opt_02"},
	{Name: "Processamento", Code: "opt_03", Subsections: subsProcessamento},
	{Name: "Comercialização", Code: "opt_04"},
	{Name: "Importação", Code: "opt_05", Subsections: subsImportacao},
	{Name: "Exportação", Code: "opt_06", Subsections: subsExportacao},
}

// Selection é uma aba (e subaba, quando exigida) já validada.
type Selection struct {
	Section    string
	Subsection string
	Option     string
	Suboption  string
}

// InvalidSelectionError descreve uma aba ou subaba fora do catálogo.
type InvalidSelectionError struct {
	Field   string // "aba" ou "sub_aba"
	Value   string
	Section string
	Options []string
}

func (e *InvalidSelectionError) Error() string {
	opts := strings.Join(e.Options, ", ")
	switch {
	case e.Field == "aba":
		return fmt.Sprintf("a aba `%s` não faz parte das opções disponíveis de raspagem. Selecione uma das opções: %s", e.Value, opts)
	case e.Value == "":
		return fmt.Sprintf("a aba %s exige uma das seguintes subabas: %s", e.Section, opts)
	default:
		return fmt.Sprintf("a subaba `%s` não faz parte das opções da aba `%s`. Selecione uma das opções: %s", e.Value, e.Section, opts)
	}
}

// Sections devolve os nomes das abas na ordem do site.
func Sections() []string {
	names := make([]string, 0, len(sections))
	for _, s := range sections {
		names = append(names, s.Name)
	}
	return names
}

// Subsections devolve as subabas de uma aba; nil quando não há.
func Subsections(section string) []string {
	if s, ok := findSection(Canonical(section)); ok {
		return append([]string(nil), s.Subsections...)
	}
	return nil
}

// Resolve valida aba e subaba e devolve os códigos usados na URL. Para abas
// sem subaba o valor informado é ignorado, como faz o próprio site.
func Resolve(section, subsection string) (Selection, error) {
	name := Canonical(section)
	sec, ok := findSection(name)
	if !ok {
		return Selection{}, &InvalidSelectionError{Field: "aba", Value: name, Options: Sections()}
	}

	sel := Selection{Section: sec.Name, Option: sec.Code}
	if len(sec.Subsections) == 0 {
		return sel, nil
	}

	sub := Canonical(subsection)
	for i, s := range sec.Subsections {
		if s == sub {
			sel.Subsection = s
			sel.Suboption = fmt.Sprintf("subopt_%02d", i+1)
			return sel, nil
		}
	}
	return Selection{}, &InvalidSelectionError{
		Field:   "sub_aba",
		Value:   sub,
		Section: sec.Name,
		Options: append([]string(nil), sec.Subsections...),
	}
}

// URL monta o endereço da página para o ano informado.
func (s Selection) URL(base string, year int) string {
	q := url.Values{}
	q.Set("ano", strconv.Itoa(year))
	q.Set("opcao", s.Option)
	if s.Suboption != "" {
		q.Set("subopcao", s.Suboption)
	}

	u, err := url.Parse(base)
	if err != nil {
		return base + "?" + q.Encode()
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Canonical normaliza um nome de aba: NFC, sem espaços nas pontas, primeira
// letra maiúscula e o resto minúsculo.
func Canonical(s string) string {
	s = strings.TrimSpace(norm.NFC.String(s))
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func findSection(name string) (Section, bool) {
	for _, s := range sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// AllSelections enumera todas as combinações válidas de aba e subaba.
func AllSelections() []Selection {
	var out []Selection
	for _, s := range sections {
		if len(s.Subsections) == 0 {
			out = append(out, Selection{Section: s.Name, Option: s.Code})
			continue
		}
		for i, sub := range s.Subsections {
			out = append(out, Selection{
				Section:    s.Name,
				Subsection: sub,
				Option:     s.Code,
				Suboption:  fmt.Sprintf("subopt_%02d", i+1),
			})
		}
	}
	return out
}
