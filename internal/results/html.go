package results

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed grid.html
var gridTemplate string

// Templates holds the parsed results grid template. Other templates that
// embed the grid can be added to it with Clone.
var Templates = template.Must(template.New("results").Parse(gridTemplate))

// RenderGrid writes the inner markup of the results grid for v.
func RenderGrid(w io.Writer, v View) error {
	if err := Templates.ExecuteTemplate(w, "grid", v); err != nil {
		return fmt.Errorf("failed to execute grid template: %w", err)
	}
	return nil
}
