package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/rdcalc/internal/domain"
)

// Formatter renders a calculation result.
type Formatter interface {
	Name() string
	Format(out *domain.CalculationOutput) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc struct {
	ID string
	F  func(out *domain.CalculationOutput) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(out *domain.CalculationOutput) ([]byte, error) {
	return f.F(out)
}

var formatters = []Formatter{
	ConsoleFormatter{},
	ConsoleVerboseFormatter{},
	CSVSummarizer{},
	DetailedCSVFormatter{},
	JSONFormatter{},
	YAMLFormatter{},
	HTMLFormatter{},
}

var formatAliases = map[string]string{
	"verbose":         "console",
	"console-verbose": "console",
	"summary":         "console-lite",
	"table":           "console-lite",
	"yml":             "yaml",
}

// GetFormatterByName returns the formatter registered under name or one of
// its aliases. Unknown names return nil.
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := formatAliases[name]; ok {
		name = target
	}
	for _, f := range formatters {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// AvailableFormatterNames lists the registered formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for _, f := range formatters {
		names = append(names, f.Name())
	}
	return names
}

// AvailableFormatAliases lists the accepted alternative names, sorted.
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// WriteFormatted formats out and writes it to a timestamped file in the
// working directory, returning the file name.
func WriteFormatted(f Formatter, out *domain.CalculationOutput, ext string) (string, error) {
	data, err := f.Format(out)
	if err != nil {
		return "", err
	}
	booking := "booking"
	if out != nil && out.BookingID != "" {
		booking = out.BookingID
	}
	filename := fmt.Sprintf("release_dates_%s_%s.%s", booking, time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
