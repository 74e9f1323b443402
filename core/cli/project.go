package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emenda-labs/apigen/pkg/pyproject"
)

// DefaultBuildTemp is the build directory used when neither --build-temp nor
// pyproject.toml sets one.
const DefaultBuildTemp = "build"

func loadProject(global *GlobalOptions) (pyproject.Project, error) {
	dir := global.Project
	if dir == "" {
		dir = "."
	}
	return pyproject.Load(dir)
}

// fromProject sets *dst to value when the flag was not given on the command
// line and value is not empty.
func fromProject(cmd *cobra.Command, flag string, dst *string, value string) {
	if value != "" && !cmd.Flags().Changed(flag) {
		*dst = value
	}
}

func requireDir(flag, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("--%s path does not exist: %s", flag, path)
		}
		return fmt.Errorf("cannot access --%s path: %w", flag, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("--%s path is not a directory: %s", flag, path)
	}
	return nil
}
