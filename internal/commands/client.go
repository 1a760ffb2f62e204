package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corebank-dev/corebank/internal/model"
)

func newClientCommand(configPath *string) *cobra.Command {
	clientCmd := &cobra.Command{
		Use:   "client",
		Short: "Client registry operations",
	}
	clientCmd.AddCommand(newClientAddCommand(configPath))
	clientCmd.AddCommand(newClientRemoveCommand(configPath))
	clientCmd.AddCommand(newClientListCommand(configPath))
	return clientCmd
}

func newClientAddCommand(configPath *string) *cobra.Command {
	var name string
	var category string

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Register a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := model.Category(category)
			if cat != model.CategoryIndividual && cat != model.CategoryOrganization {
				return fmt.Errorf("category must be individual or organization")
			}

			b, _, cleanup, err := openBank(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			c := model.Client{ID: args[0], Name: name, Category: cat}
			if err := b.RegisterClient(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Printf("Registered client %s (%s)\n", c.ID, c.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&category, "category", string(model.CategoryIndividual), "individual or organization")

	return cmd
}

func newClientRemoveCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a client that owns no accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, cleanup, err := openBank(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := b.RemoveClient(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed client %s\n", args[0])
			return nil
		},
	}
}

func newClientListCommand(configPath *string) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, cleanup, err := openBank(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			var clients []model.Client
			if category != "" {
				clients = b.ClientsByCategory(model.Category(category))
			} else {
				clients = b.Clients()
			}
			for _, c := range clients {
				fmt.Printf("%s\t%s\t%s\n", c.ID, c.Name, c.Category)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category")

	return cmd
}
