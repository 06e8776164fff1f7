package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/rdcalc/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"date":     FormatDate,
	"rules":    FormatRules,
	"describe": DescribeDateType,
	"tracks":   formatTracks,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(out *domain.CalculationOutput) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.CalculationOutput
		Dates []domain.ReleaseDate
	}{out, out.SortedDates()}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
