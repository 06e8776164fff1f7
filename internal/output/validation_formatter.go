package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/rdcalc/internal/domain"
)

// FormatValidationMessages renders validation messages for the console or,
// when format is "json", as a JSON array.
func FormatValidationMessages(messages []domain.ValidationMessage, format string) ([]byte, error) {
	if strings.EqualFold(format, "json") {
		if messages == nil {
			messages = []domain.ValidationMessage{}
		}
		return json.MarshalIndent(messages, "", "  ")
	}

	var buf bytes.Buffer
	if len(messages) == 0 {
		fmt.Fprintln(&buf, "No validation problems found.")
		return buf.Bytes(), nil
	}
	fmt.Fprintf(&buf, "VALIDATION PROBLEMS (%d)\n", len(messages))
	fmt.Fprintln(&buf, strings.Repeat("=", 40))
	for _, m := range messages {
		fmt.Fprintf(&buf, "%-24s %s\n", m.Category, m)
		if len(m.Arguments) > 0 {
			fmt.Fprintf(&buf, "%-24s arguments: %s\n", "", strings.Join(m.Arguments, ", "))
		}
	}
	return buf.Bytes(), nil
}
