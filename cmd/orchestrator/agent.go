package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Create, list, and bootstrap agents",
}

var agentCreateCmd = &cobra.Command{
	Use:   "create <id> <name>",
	Short: "Register an agent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := newApp(cmd, "cli.agent")
		if err != nil {
			return err
		}
		defer closeApp()

		ag, err := a.db.CreateAgent(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("created agent %s: %s\n", ag.ID, ag.Name)
		return nil
	},
}

var agentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := newApp(cmd, "cli.agent")
		if err != nil {
			return err
		}
		defer closeApp()

		agents, err := a.db.ListAgents()
		if err != nil {
			return err
		}
		for _, ag := range agents {
			fmt.Printf("%s\t%s\t%s\n", ag.ID, ag.Status, ag.Name)
		}
		return nil
	},
}

// seedFile is the teams.yaml-style bootstrap document: a flat list of
// agents, each with an optional set of specialization keywords.
type seedFile struct {
	Agents []seedAgent `yaml:"agents"`
}

type seedAgent struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Specializations []string `yaml:"specializations"`
}

var agentSeedCmd = &cobra.Command{
	Use:   "seed <teams.yaml>",
	Short: "Bootstrap agents and specialization keywords from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := newApp(cmd, "cli.agent")
		if err != nil {
			return err
		}
		defer closeApp()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}

		var seed seedFile
		if err := yaml.Unmarshal(data, &seed); err != nil {
			return fmt.Errorf("parse seed file: %w", err)
		}

		for _, sa := range seed.Agents {
			if _, err := a.db.CreateAgent(sa.ID, sa.Name); err != nil {
				return fmt.Errorf("seed agent %s: %w", sa.ID, err)
			}
			for _, kw := range sa.Specializations {
				if err := a.db.AddSpecialization(sa.ID, kw); err != nil {
					return fmt.Errorf("seed specialization %s/%s: %w", sa.ID, kw, err)
				}
			}
			fmt.Printf("seeded agent %s (%d specializations)\n", sa.ID, len(sa.Specializations))
		}
		return nil
	},
}

func init() {
	agentCmd.AddCommand(agentCreateCmd, agentListCmd, agentSeedCmd)
}
