package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"recipe-finder/internal/recipe"
)

// Icons is the sprite sheet every <use> element points into.
const Icons = "img/icons.svg"

// UploadIngredientFields is the number of ingredient inputs on the upload form.
const UploadIngredientFields = 6

//go:embed templates/*.html
var tmplFS embed.FS

var tmpl = template.Must(template.New("views").Funcs(template.FuncMap{
	"icon":             func(name string) string { return Icons + "#icon-" + name },
	"quantity":         recipe.FormatQuantity,
	"add":              func(a, b int) int { return a + b },
	"ingredientFields": ingredientFields,
}).ParseFS(tmplFS, "templates/*.html"))

func ingredientFields() []string {
	fields := make([]string, UploadIngredientFields)
	for i := range fields {
		fields[i] = fmt.Sprintf("ingredient-%d", i+1)
	}
	return fields
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

func spinnerMarkup() (string, error) {
	return execute("spinner", nil)
}

func errorMarkup(msg string) (string, error) {
	return execute("error", msg)
}

func messageMarkup(msg string) (string, error) {
	return execute("message", msg)
}
