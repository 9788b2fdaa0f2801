package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tryanzu/gomarket/core/shell"
	"github.com/tryanzu/gomarket/modules/cart"
	"github.com/tryanzu/gomarket/modules/helpers"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cart lines",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			items := cart.MustFromContext(cmd.Context()).Products()
			shell.List(cmd.OutOrStdout(), items)
			fmt.Fprintln(cmd.OutOrStdout(), shell.Summary(items))
		},
	}
}

func addCmd() *cobra.Command {
	var product cart.Product
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product, or one more unit of it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if product.ID == "" {
				product.ID = helpers.StrSlug(product.Title)
			}
			res, err := cart.MustFromContext(cmd.Context()).Add(product)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), shell.Describe(product.ID, res))
			return nil
		},
	}
	cmd.Flags().StringVar(&product.ID, "id", "", "product id (defaults to the title slug)")
	cmd.Flags().StringVar(&product.Title, "title", "", "product title")
	cmd.Flags().StringVar(&product.ImageURL, "image", "", "product image url")
	cmd.Flags().Float64Var(&product.Price, "price", 0, "unit price")
	return cmd
}

func incCmd() *cobra.Command {
	return mutationCmd("inc <id>", "Add one unit of a cart line", shell.Increment)
}

func decCmd() *cobra.Command {
	return mutationCmd("dec <id>", "Remove one unit of a cart line", shell.Decrement)
}

func mutationCmd(use, short string, op func(*cart.Cart, []string) (cart.Result, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := op(cart.MustFromContext(cmd.Context()), args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), shell.Describe(args[0], res))
			return nil
		},
	}
}

func totalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "total",
		Short: "Show units and cart value",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), shell.Summary(cart.MustFromContext(cmd.Context()).Products()))
		},
	}
}
