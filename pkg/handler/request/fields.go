package request

import "fmt"

// Format selects how sequence routes render their payload.
type Format int

const (
	FormatJSON Format = iota
	FormatFasta
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatFasta:
		return "fasta"
	default:
		return "unknown"
	}
}

// NewFormat maps the format query value. Empty means JSON.
func NewFormat(field string) (Format, error) {
	switch field {
	case "", "json":
		return FormatJSON, nil
	case "fasta":
		return FormatFasta, nil
	default:
		return FormatJSON, fmt.Errorf("format must be json or fasta, got %q", field)
	}
}
