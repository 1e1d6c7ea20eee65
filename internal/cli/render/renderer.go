package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/wighawag/rocketh-go/internal/domain/config"
	"gopkg.in/yaml.v3"
)

type Renderer[T any] interface {
	Render(result T) error
}

// Structured writes v as JSON or YAML. It returns false for text output so the
// caller falls through to its human renderer.
func Structured(out io.Writer, format string, v any) (bool, error) {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case config.OutputYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	case config.OutputText:
		return false, nil
	default:
		return false, fmt.Errorf("unsupported output format %q", format)
	}
}
