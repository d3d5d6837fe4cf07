package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rio-labs/rioterm/pkg/scene"
)

// scenesCommand creates the scenes command for listing built-ins and
// validating scene files.
func (c *CLI) scenesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes [file...]",
		Short: "List built-in scenes or validate scene files",
		Long: `List built-in scenes or validate scene files.

Without arguments the built-in catalog is printed. With file arguments
each file is loaded and validated against the built-in component set;
the command fails if any file is invalid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScenes(args)
		},
	}
}

func (c *CLI) runScenes(paths []string) error {
	tags, err := catalogTags()
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		for _, sc := range scene.Builtin() {
			printKeyValue(sc.Name, fmt.Sprintf("%s (%d nodes)", sc.Description, len(sc.Nodes)))
		}
		printKeyValue("scripts", strings.Join(scene.ScriptNames(), ", "))
		return nil
	}

	var failed int
	for _, path := range paths {
		sc, err := scene.Load(path)
		if err == nil {
			err = sc.Validate(tags)
		}
		if err != nil {
			failed++
			printError("%s: %v", path, err)
			continue
		}
		printSuccess("%s: scene %q valid (%d nodes)", path, sc.Name, len(sc.Nodes))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scene files invalid", failed, len(paths))
	}
	return nil
}
