// Package cli wires the deepwiki-mcp commands.
package cli

import (
	"github.com/spf13/cobra"
)

// version is the build version, overridable via ldflags.
var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "deepwiki-mcp",
	Short: "Remote MCP server for documentation search",
	Long: `deepwiki-mcp serves a documentation corpus and GitHub repository
tools over the Model Context Protocol, gated by GitHub OAuth.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
