package cli

import (
	"fmt"
	"io"
)

// CommandInfo represents information about a CLI command
type CommandInfo struct {
	Name        string
	Usage       string
	Description string
	Examples    []string
	Flags       []FlagInfo
}

// FlagInfo represents information about a command flag
type FlagInfo struct {
	Name    string
	Usage   string
	Default string
}

// PrintCommandUsage prints usage for a specific command
func PrintCommandUsage(w io.Writer, cmd CommandInfo) {
	fmt.Fprintf(w, "%s - %s\n\n", cmd.Name, cmd.Description)
	fmt.Fprintf(w, "USAGE:\n")
	fmt.Fprintf(w, "    %s\n\n", cmd.Usage)

	if len(cmd.Flags) > 0 {
		fmt.Fprintf(w, "OPTIONS:\n")
		for _, flag := range cmd.Flags {
			flagStr := fmt.Sprintf("    -%s", flag.Name)
			fmt.Fprintf(w, "%-22s %s\n", flagStr, flag.Usage)
			if flag.Default != "" {
				fmt.Fprintf(w, "%-22s Default: %s\n", "", flag.Default)
			}
		}
		fmt.Fprintf(w, "\n")
	}

	if len(cmd.Examples) > 0 {
		fmt.Fprintf(w, "EXAMPLES:\n")
		for _, example := range cmd.Examples {
			fmt.Fprintf(w, "    %s\n", example)
		}
		fmt.Fprintf(w, "\n")
	}
}

// ValidateArgs validates command line arguments
func ValidateArgs(args []string, minArgs int, usage string) error {
	if len(args) < minArgs {
		return fmt.Errorf("insufficient arguments\nUsage: %s", usage)
	}
	return nil
}
