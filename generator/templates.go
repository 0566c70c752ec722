package generator

import (
	"bytes"
	"embed"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/tools/imports"

	"github.com/castrlabs/castr/castrerrors"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates *template.Template

func init() {
	var err error
	templates, err = template.New("").
		Funcs(templateFuncs()).
		ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		panic(err)
	}
}

// templateFuncs builds the template function map: the sprig base set plus
// local naming helpers. The sprig title function is replaced with a real
// title caser; strings.Title is deprecated.
func templateFuncs() template.FuncMap {
	funcs := template.FuncMap{}
	for name, fn := range sprig.FuncMap() {
		funcs[name] = fn
	}
	titleCaser := cases.Title(language.English)
	funcs["title"] = titleCaser.String
	funcs["cleanDesc"] = cleanDescription
	funcs["toTypeName"] = toTypeName
	funcs["toFieldName"] = toFieldName
	return funcs
}

// executeTemplate executes a template by name and returns the formatted
// bytes. Output that fails to execute or format is a GenerateError; raw
// unformatted source is never returned.
func executeTemplate(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, &castrerrors.GenerateError{
			Template: name,
			Message:  "template execution failed",
			Cause:    err,
		}
	}

	formatted, err := formatAndFixImports("generated.go", buf.Bytes())
	if err != nil {
		return nil, &castrerrors.GenerateError{
			Template: name,
			Message:  "generated source does not format",
			Cause:    err,
		}
	}
	return formatted, nil
}

// formatAndFixImports formats Go source and fixes its import block using
// goimports-equivalent processing, adding stdlib imports the templates
// reference (time, encoding/json, fmt).
func formatAndFixImports(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, nil)
}
