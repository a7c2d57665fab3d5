package activity

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Cmd is the activity command group
var Cmd = &cobra.Command{
	Use:   "activity",
	Short: "Manage activities and their habit links",
	Long: `Activities are the concrete things you log time against. Link an
activity to one or more habits with a weight between 0 and 1 to decide how
much of each session each habit receives.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(linkCmd)
	Cmd.AddCommand(unlinkCmd)
	Cmd.AddCommand(linksCmd)
}

func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s ID: %w", kind, err)
	}
	return id, nil
}
