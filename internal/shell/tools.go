package shell

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrToolMissing is returned when a required executable is not on PATH.
var ErrToolMissing = errors.New("required tool not found")

// Tool is an executable a pipeline needs before it starts.
type Tool struct {
	Name    string
	Purpose string
}

// LookPath resolves an executable; replaced in tests.
type LookPath func(file string) (string, error)

// CheckTools verifies every tool resolves and names all missing ones in a single error.
func CheckTools(lookPath LookPath, tools ...Tool) error {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	var missing []string

	for _, tool := range tools {
		if _, err := lookPath(tool.Name); err != nil {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.Purpose))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrToolMissing, strings.Join(missing, ", "))
	}

	return nil
}
