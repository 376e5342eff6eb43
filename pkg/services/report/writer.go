package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/fleximart/pkg/models/domain"
	"github.com/spf13/afero"
)

const lineTemplate = `{{.Title}}: {{range $i, $c := .Counters}}{{if $i}}, {{end}}{{$c.Name}}={{$c.Value}}{{end}}`

var line = template.Must(template.New("line").Parse(lineTemplate))

// Lines renders one "<Table>: Key=n, ..." line per section.
func Lines(rep domain.QualityReport) ([]string, error) {
	lines := make([]string, 0, len(rep.Sections))
	for _, section := range rep.Sections {
		var buf bytes.Buffer
		if err := line.Execute(&buf, section); err != nil {
			return nil, fmt.Errorf("failed to render %s report line: %w", section.Title, err)
		}
		lines = append(lines, buf.String())
	}
	return lines, nil
}

// Writer outputs the report as newline-terminated UTF-8 lines.
type Writer struct {
	writer io.Writer
}

func NewWriter(writer io.Writer) *Writer {
	if writer == nil {
		writer = os.Stdout
	}
	return &Writer{writer: writer}
}

func (w *Writer) Handle(rep domain.QualityReport) error {
	lines, err := Lines(rep)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	_, err = io.WriteString(w.writer, strings.Join(lines, "\n")+"\n")
	return err
}

// WriteFile replaces path on fs with the rendered report.
func WriteFile(fs afero.Fs, path string, rep domain.QualityReport) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file %s: %w", path, err)
	}

	if err := NewWriter(f).Handle(rep); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write report file %s: %w", path, err)
	}
	return f.Close()
}
