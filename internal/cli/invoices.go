package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/andy/beatbooks/internal/domain"
	"github.com/andy/beatbooks/internal/render"
	"github.com/andy/beatbooks/internal/repository"
	"github.com/spf13/cobra"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage invoices",
	Long:  `Create, list, and manage invoices and their line items.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		// Parse filters
		var clientID *int64
		if cmd.Flags().Changed("client") {
			id, _ := cmd.Flags().GetInt64("client")
			clientID = &id
		}

		var status *domain.InvoiceStatus
		if cmd.Flags().Changed("status") {
			statusStr, _ := cmd.Flags().GetString("status")
			s := domain.InvoiceStatus(statusStr)
			status = &s
		}

		invoices, err := appInstance.InvoiceService.ListInvoices(ctx, status, clientID)
		if err != nil {
			return fmt.Errorf("failed to list invoices: %w", err)
		}

		if len(invoices) == 0 {
			fmt.Println("No invoices found")
			return nil
		}

		// Print table header
		now := time.Now()
		fmt.Printf("%-5s %-15s %-22s %-12s %-12s %-10s\n", "ID", "Number", "Client", "Due", "Total", "Status")
		fmt.Println("----------------------------------------------------------------------------------")

		for _, invoice := range invoices {
			due := "-"
			if invoice.DueDate != nil {
				due = invoice.DueDate.Format("2006-01-02")
			}

			// Overdue is display-only, the stored status stays sent
			statusLabel := string(invoice.Status)
			if invoice.IsOverdue(now) {
				statusLabel = "overdue"
			}

			fmt.Printf("%-5d %-15s %-22s %-12s $%-11.2f %-10s\n",
				invoice.ID,
				invoice.InvoiceNumber,
				truncate(invoice.ClientName, 22),
				due,
				invoice.Total,
				statusLabel,
			)
		}

		fmt.Printf("\nTotal: %d invoice(s)\n", len(invoices))
		return nil
	},
}

var invoicesCreateCmd = &cobra.Command{
	Use:   "create [client_id]",
	Short: "Create a new draft invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		clientID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid client ID: %w", err)
		}

		// Due date defaults from config
		var dueDate *time.Time
		if cmd.Flags().Changed("due") {
			dueStr, _ := cmd.Flags().GetString("due")
			due, err := parseDate(dueStr)
			if err != nil {
				return fmt.Errorf("invalid due date: %w", err)
			}
			dueDate = &due
		} else if days := appInstance.Config.Invoice.DefaultDueDays; days > 0 {
			due := time.Now().AddDate(0, 0, days)
			dueDate = &due
		}

		taxRate := appInstance.Config.Invoice.DefaultTaxRate
		if cmd.Flags().Changed("tax") {
			taxRate, _ = cmd.Flags().GetFloat64("tax")
		}

		notes, _ := cmd.Flags().GetString("notes")
		terms, _ := cmd.Flags().GetString("terms")

		invoice, err := appInstance.InvoiceService.CreateDraft(ctx, clientID, dueDate, taxRate, notes, terms)
		if err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		fmt.Printf("✓ Draft invoice created: %s\n", invoice.InvoiceNumber)
		fmt.Printf("  Client: %s\n", invoice.ClientName)
		if invoice.DueDate != nil {
			fmt.Printf("  Due: %s\n", invoice.DueDate.Format("2006-01-02"))
		}
		return nil
	},
}

var invoicesAddItemCmd = &cobra.Command{
	Use:   "add-item [invoice_id] [description]",
	Short: "Add a custom line item to an invoice",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		invoiceID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid invoice ID: %w", err)
		}

		qty, _ := cmd.Flags().GetInt64("qty")
		price, _ := cmd.Flags().GetFloat64("price")

		if _, err := appInstance.InvoiceService.AddItem(ctx, invoiceID, args[1], qty, price); err != nil {
			return fmt.Errorf("failed to add item: %w", err)
		}

		fmt.Printf("✓ Added item to invoice #%d\n", invoiceID)
		printTotals(ctx, invoiceID)
		return nil
	},
}

var invoicesAddProductCmd = &cobra.Command{
	Use:   "add-product [invoice_id] [product_id]",
	Short: "Add a catalog product to an invoice",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		invoiceID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid invoice ID: %w", err)
		}
		productID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product ID: %w", err)
		}

		qty, _ := cmd.Flags().GetInt64("qty")

		item, err := appInstance.InvoiceService.AddProductItem(ctx, invoiceID, productID, qty)
		if err != nil {
			return fmt.Errorf("failed to add product: %w", err)
		}

		fmt.Printf("✓ Added %s to invoice #%d\n", item.Description, invoiceID)
		printTotals(ctx, invoiceID)
		return nil
	},
}

var invoicesRemoveItemCmd = &cobra.Command{
	Use:   "remove-item [item_id]",
	Short: "Remove a line item from an invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		itemID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid item ID: %w", err)
		}

		if err := appInstance.InvoiceService.RemoveItem(ctx, itemID); err != nil {
			return fmt.Errorf("failed to remove item: %w", err)
		}

		fmt.Printf("✓ Removed item #%d\n", itemID)
		return nil
	},
}

var invoicesSetStatusCmd = &cobra.Command{
	Use:   "set-status [id] [status]",
	Short: "Set invoice status (draft, sent, paid, cancelled)",
	Long: `Set invoice status. Marking an invoice paid records a matching income
transaction in the ledger; moving it out of paid removes that transaction.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid invoice ID: %w", err)
		}

		status := domain.InvoiceStatus(args[1])
		if err := appInstance.InvoiceService.SetStatus(ctx, id, status); err != nil {
			return fmt.Errorf("failed to set status: %w", err)
		}

		fmt.Printf("✓ Invoice #%d is now %s\n", id, status)
		return nil
	},
}

var invoicesEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit invoice fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid invoice ID: %w", err)
		}

		var patch repository.InvoicePatch
		if cmd.Flags().Changed("due") {
			dueStr, _ := cmd.Flags().GetString("due")
			due, err := parseDate(dueStr)
			if err != nil {
				return fmt.Errorf("invalid due date: %w", err)
			}
			patch.DueDate = &due
		}
		if cmd.Flags().Changed("tax") {
			tax, _ := cmd.Flags().GetFloat64("tax")
			patch.TaxRate = &tax
		}
		if cmd.Flags().Changed("notes") {
			notes, _ := cmd.Flags().GetString("notes")
			patch.Notes = &notes
		}
		if cmd.Flags().Changed("terms") {
			terms, _ := cmd.Flags().GetString("terms")
			patch.Terms = &terms
		}

		if err := appInstance.InvoiceService.UpdateInvoice(ctx, id, patch); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}

		fmt.Printf("✓ Invoice #%d updated\n", id)
		printTotals(ctx, id)
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show invoice details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid invoice ID: %w", err)
		}

		invoice, err := appInstance.InvoiceService.GetInvoice(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}
		if invoice == nil {
			return fmt.Errorf("invoice not found")
		}

		// Print invoice details
		fmt.Println(strings.Repeat("=", 80))
		fmt.Printf("Invoice: %s\n", invoice.InvoiceNumber)
		fmt.Println(strings.Repeat("=", 80))
		fmt.Printf("Client: %s\n", invoice.ClientName)
		fmt.Printf("Created: %s\n", invoice.CreatedDate.Format("2006-01-02"))
		if invoice.DueDate != nil {
			fmt.Printf("Due: %s\n", invoice.DueDate.Format("2006-01-02"))
		}
		fmt.Printf("Status: %s\n", invoice.Status)
		if invoice.IsOverdue(time.Now()) {
			fmt.Println("** OVERDUE **")
		}
		if invoice.PaidAt != nil {
			fmt.Printf("Paid: %s\n", invoice.PaidAt.Format("2006-01-02"))
		}
		fmt.Println()

		// Print line items
		if len(invoice.Items) > 0 {
			fmt.Println("Line Items:")
			fmt.Println(strings.Repeat("-", 80))
			fmt.Printf("%-5s %-45s %-6s %-10s %s\n", "ID", "Description", "Qty", "Price", "Amount")
			fmt.Println(strings.Repeat("-", 80))

			for _, item := range invoice.Items {
				fmt.Printf("%-5d %-45s %6d $%9.2f $%9.2f\n",
					item.ID,
					truncate(item.Description, 45),
					item.Quantity,
					item.UnitPrice,
					item.Total,
				)
			}
			fmt.Println(strings.Repeat("-", 80))
		}

		// Print totals
		fmt.Printf("\n")
		fmt.Printf("Subtotal: $%.2f\n", invoice.Subtotal)
		fmt.Printf("Tax (%.2f%%): $%.2f\n", invoice.TaxRate, invoice.TaxAmount)
		fmt.Printf("Total: $%.2f\n", invoice.Total)
		if invoice.Notes != "" {
			fmt.Printf("\nNotes: %s\n", invoice.Notes)
		}
		if invoice.Terms != "" {
			fmt.Printf("Terms: %s\n", invoice.Terms)
		}
		fmt.Println(strings.Repeat("=", 80))

		return nil
	},
}

var invoicesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an invoice and its items",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if len(args) != 1 {
			return fmt.Errorf("expected exactly one invoice ID")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid invoice ID: %w", err)
		}

		if !confirmPrompt(fmt.Sprintf("Delete invoice #%d and any linked ledger entries?", id)) {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.InvoiceService.DeleteInvoice(ctx, id); err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}

		fmt.Printf("✓ Invoice #%d deleted\n", id)
		return nil
	},
}

var invoicesRenderCmd = &cobra.Command{
	Use:   "render [id]",
	Short: "Render an invoice to PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid invoice ID: %w", err)
		}

		invoice, err := appInstance.InvoiceService.GetInvoice(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}
		if invoice == nil {
			return fmt.Errorf("invoice not found")
		}

		path, err := appInstance.Renderer.SaveInvoicePDF(ctx, invoice)
		if err != nil {
			if errors.Is(err, render.ErrUnavailable) {
				return fmt.Errorf("renderer unavailable: configure renderer.gotenberg_url and make sure the service is running")
			}
			return fmt.Errorf("failed to render invoice: %w", err)
		}

		fmt.Printf("✓ Invoice rendered: %s\n", path)
		return nil
	},
}

func printTotals(ctx context.Context, invoiceID int64) {
	invoice, _ := appInstance.InvoiceService.GetInvoice(ctx, invoiceID)
	if invoice != nil {
		fmt.Printf("  Subtotal: $%.2f\n", invoice.Subtotal)
		fmt.Printf("  Tax: $%.2f\n", invoice.TaxAmount)
		fmt.Printf("  Total: $%.2f\n", invoice.Total)
	}
}

func init() {
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesCreateCmd)
	invoicesCmd.AddCommand(invoicesAddItemCmd)
	invoicesCmd.AddCommand(invoicesAddProductCmd)
	invoicesCmd.AddCommand(invoicesRemoveItemCmd)
	invoicesCmd.AddCommand(invoicesSetStatusCmd)
	invoicesCmd.AddCommand(invoicesEditCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesDeleteCmd)
	invoicesCmd.AddCommand(invoicesRenderCmd)

	// List flags
	invoicesListCmd.Flags().Int64("client", 0, "Filter by client ID")
	invoicesListCmd.Flags().String("status", "", "Filter by status (draft, sent, paid, cancelled)")

	// Create flags
	invoicesCreateCmd.Flags().String("due", "", "Due date (defaults from config)")
	invoicesCreateCmd.Flags().Float64("tax", 0, "Tax rate percentage (defaults from config)")
	invoicesCreateCmd.Flags().String("notes", "", "Invoice notes")
	invoicesCreateCmd.Flags().String("terms", "", "Payment terms")

	// Item flags
	invoicesAddItemCmd.Flags().Int64("qty", 1, "Quantity")
	invoicesAddItemCmd.Flags().Float64("price", 0, "Unit price (required)")
	invoicesAddItemCmd.MarkFlagRequired("price")
	invoicesAddProductCmd.Flags().Int64("qty", 1, "Quantity")

	// Edit flags
	invoicesEditCmd.Flags().String("due", "", "New due date")
	invoicesEditCmd.Flags().Float64("tax", 0, "New tax rate percentage")
	invoicesEditCmd.Flags().String("notes", "", "New notes")
	invoicesEditCmd.Flags().String("terms", "", "New terms")
}
