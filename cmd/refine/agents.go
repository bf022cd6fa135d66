package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/refinehq/refine/pkg/domain"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the supervisor and specialist agents",
	Run: func(cmd *cobra.Command, args []string) {
		catalog := domain.AgentCatalog()

		ids := make([]string, 0, len(catalog))
		for id := range catalog {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			agent := catalog[id]
			fmt.Printf("%s (%s)\n", agent.Name, id)
			fmt.Printf("  %s\n", agent.Description)
			fmt.Printf("  Expertise: %s\n\n", strings.Join(agent.Expertise, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}
