package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/andy/beatbooks/internal/domain"
	"github.com/andy/beatbooks/internal/repository"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the product catalog",
	Long:  `List, add, edit, and remove licenses and services offered to clients.`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		includeInactive, _ := cmd.Flags().GetBool("all")

		products, err := appInstance.CatalogService.ListProducts(ctx, !includeInactive)
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}

		if len(products) == 0 {
			fmt.Println("No products found")
			return nil
		}

		// Print table header
		fmt.Printf("%-5s %-30s %-10s %-12s %-8s\n", "ID", "Title", "Type", "Price", "Active")
		fmt.Println("----------------------------------------------------------------------")

		for _, product := range products {
			active := "yes"
			if !product.IsActive {
				active = "no"
			}
			fmt.Printf("%-5d %-30s %-10s $%-11.2f %-8s\n",
				product.ID,
				truncate(product.Title, 30),
				product.Kind,
				product.Price,
				active,
			)
		}

		fmt.Printf("\nTotal: %d product(s)\n", len(products))
		return nil
	},
}

var catalogAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		kindStr, _ := cmd.Flags().GetString("type")
		price, _ := cmd.Flags().GetFloat64("price")
		description, _ := cmd.Flags().GetString("description")

		product, err := appInstance.CatalogService.AddProduct(ctx, args[0], domain.ProductKind(kindStr), price, description)
		if err != nil {
			return fmt.Errorf("failed to add product: %w", err)
		}

		fmt.Printf("✓ Product added: %s ($%.2f)\n", product.Title, product.Price)
		return nil
	},
}

var catalogEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product ID: %w", err)
		}

		var patch repository.ProductPatch
		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			patch.Title = &title
		}
		if cmd.Flags().Changed("price") {
			price, _ := cmd.Flags().GetFloat64("price")
			patch.Price = &price
		}
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			patch.Description = &description
		}

		if err := appInstance.CatalogService.UpdateProduct(ctx, id, patch); err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		fmt.Printf("✓ Product #%d updated\n", id)
		return nil
	},
}

var catalogRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a product from the active catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product ID: %w", err)
		}

		if err := appInstance.CatalogService.RemoveProduct(ctx, id); err != nil {
			return fmt.Errorf("failed to remove product: %w", err)
		}

		fmt.Printf("✓ Product #%d removed (existing invoices keep their line items)\n", id)
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogAddCmd)
	catalogCmd.AddCommand(catalogEditCmd)
	catalogCmd.AddCommand(catalogRemoveCmd)

	catalogListCmd.Flags().Bool("all", false, "Include inactive products")

	catalogAddCmd.Flags().String("type", "license", "Product type (license or service)")
	catalogAddCmd.Flags().Float64("price", 0, "Price (required)")
	catalogAddCmd.Flags().String("description", "", "Product description")
	catalogAddCmd.MarkFlagRequired("price")

	catalogEditCmd.Flags().String("title", "", "New title")
	catalogEditCmd.Flags().Float64("price", 0, "New price")
	catalogEditCmd.Flags().String("description", "", "New description")
}
