package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"go-storefront/models"
	"go-storefront/storefront"
)

func newProductsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"p"},
		Short:   "Browse and manage the catalog",
	}

	filter := models.DefaultFilter()
	var category, sortBy string
	list := &cobra.Command{
		Use:   "list",
		Short: "List products matching the filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			filter.Category = models.Category(category)
			printProducts(cmd.OutOrStdout(), a.Catalog.View(filter, models.SortOption(sortBy)))
			return nil
		},
	}
	list.Flags().StringVarP(&filter.Query, "query", "q", "", "text to look for in title or description")
	list.Flags().StringVar(&category, "category", "", "only this category")
	list.Flags().Float64Var(&filter.MinPrice, "min-price", filter.MinPrice, "lowest price")
	list.Flags().Float64Var(&filter.MaxPrice, "max-price", filter.MaxPrice, "highest price")
	list.Flags().StringVar(&sortBy, "sort", string(models.SortNewest), "price-asc, price-desc, rating or newest")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			p, ok := a.Catalog.Get(args[0])
			if !ok {
				return fmt.Errorf("product %s: %w", args[0], storefront.ErrNotFound)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n%s\n\n", p.Title, p.Description)
			fmt.Fprintf(out, "id:       %s\ncategory: %s\nprice:    $%.2f\nstock:    %d\nrating:   %.1f\nimage:    %s\n",
				p.ID, p.Category, p.Price, p.Stock, p.Rating, p.Image)
			return nil
		},
	}

	var draft models.Product
	var draftCategory string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a product (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			draft.Category = models.Category(draftCategory)
			p, err := a.Catalog.Add(a.ctx, draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", p.ID, a.Catalog.SyncStatus())
			return nil
		},
	}
	productFlags(add, &draft, &draftCategory)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a product (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			p, ok := a.Catalog.Get(args[0])
			if !ok {
				return fmt.Errorf("product %s: %w", args[0], storefront.ErrNotFound)
			}
			applyChangedFlags(cmd, &p, draft, draftCategory)
			if err := a.Catalog.Update(a.ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s (%s)\n", p.ID, a.Catalog.SyncStatus())
			return nil
		},
	}
	productFlags(update, &draft, &draftCategory)

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a product (admin)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.Catalog.Remove(a.ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s (%s)\n", args[0], a.Catalog.SyncStatus())
			return nil
		},
	}

	cmd.AddCommand(list, get, add, update, del)
	return cmd
}

func productFlags(cmd *cobra.Command, p *models.Product, category *string) {
	f := cmd.Flags()
	f.StringVar(&p.Title, "title", "", "product title")
	f.Float64Var(&p.Price, "price", 0, "price in dollars")
	f.StringVar(&p.Description, "description", "", "description")
	f.StringVar(category, "category", "", "Electronics, Fashion, Home, Sports or Books")
	f.IntVar(&p.Stock, "stock", 0, "units in stock")
	f.StringVar(&p.Image, "image", "", "image URL")
	f.Float64Var(&p.Rating, "rating", 0, "rating from 0 to 5")
}

// applyChangedFlags copies only the flags the user actually passed onto p
func applyChangedFlags(cmd *cobra.Command, p *models.Product, draft models.Product, category string) {
	f := cmd.Flags()
	if f.Changed("title") {
		p.Title = draft.Title
	}
	if f.Changed("price") {
		p.Price = draft.Price
	}
	if f.Changed("description") {
		p.Description = draft.Description
	}
	if f.Changed("category") {
		p.Category = models.Category(category)
	}
	if f.Changed("stock") {
		p.Stock = draft.Stock
	}
	if f.Changed("image") {
		p.Image = draft.Image
	}
	if f.Changed("rating") {
		p.Rating = draft.Rating
	}
}

func newCartCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			printCart(cmd.OutOrStdout(), a.Cart)
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <id>",
		Short: "Add one unit of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			p, ok := a.Catalog.Get(args[0])
			if !ok {
				return fmt.Errorf("product %s: %w", args[0], storefront.ErrNotFound)
			}
			a.Cart.AddItem(a.ctx, p)
			printCart(cmd.OutOrStdout(), a.Cart)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <id> <quantity>",
		Short: "Set the quantity of a line; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := cast.ToIntE(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			a, err := open(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			a.Cart.SetQuantity(a.ctx, args[0], q)
			printCart(cmd.OutOrStdout(), a.Cart)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a line",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			a.Cart.RemoveItem(a.ctx, args[0])
			printCart(cmd.OutOrStdout(), a.Cart)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			a.Cart.Clear(a.ctx)
			printCart(cmd.OutOrStdout(), a.Cart)
			return nil
		},
	}

	cmd.AddCommand(add, set, remove, clearCmd)
	return cmd
}

func newLoginCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			id, err := a.Session.Login(a.ctx, args[0], args[1])
			if err != nil {
				return authError(err)
			}
			printIdentity(cmd.OutOrStdout(), id, a.Session.Token() == "")
			return nil
		},
	}
}

func newRegisterCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "register <email> <password> <name>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			id, err := a.Session.Register(a.ctx, args[0], args[1], args[2])
			if err != nil {
				return authError(err)
			}
			printIdentity(cmd.OutOrStdout(), id, a.Session.Token() == "")
			return nil
		},
	}
}

func newGoogleCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "google <id-token>",
		Short: "Sign in with a Google ID token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			id, err := a.Session.GoogleLogin(a.ctx, args[0])
			if err != nil {
				return authError(err)
			}
			printIdentity(cmd.OutOrStdout(), id, a.Session.Token() == "")
			return nil
		},
	}
}

func newLogoutCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			a.Session.Logout(a.ctx)
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newWhoamiCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			id, ok := a.Session.Current()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "anonymous")
				return nil
			}
			printIdentity(cmd.OutOrStdout(), id, a.Session.Token() == "")
			return nil
		},
	}
}

func newCheckoutCmd(opts *globalOptions) *cobra.Command {
	var details storefront.CheckoutDetails
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			details.PaymentMethod = models.PaymentCard
			if details.TxHash != "" {
				details.PaymentMethod = models.PaymentCrypto
			}
			a, err := open(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			order, err := a.Checkout(a.ctx, details)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "order %s placed\n", order.ID)
			fmt.Fprintf(out, "subtotal $%.2f  tax $%.2f  total $%.2f\n", order.Subtotal, order.Tax, order.Total)
			fmt.Fprintf(out, "payment %s (%s), delivery by %s\n", order.PaymentMethod, order.PaymentStatus, order.DeliveryDate)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&details.Shipping.Name, "name", "", "recipient name")
	f.StringVar(&details.Shipping.Email, "email", "", "contact email")
	f.StringVar(&details.Shipping.Address, "address", "", "delivery address")
	f.StringVar(&details.CardNumber, "card", "", "16 digit card number")
	f.StringVar(&details.TxHash, "tx", "", "crypto transaction hash; pays with crypto instead of card")
	return cmd
}

func newSyncCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push queued catalog changes to the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			status, err := a.Catalog.Sync(a.ctx)
			fmt.Fprintln(cmd.OutOrStdout(), status)
			return err
		},
	}
}

func authError(err error) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr
	case errors.Is(err, storefront.ErrInvalidCredentials):
		return errors.New("invalid email or password")
	case errors.Is(err, storefront.ErrAlreadyExists):
		return errors.New("an account with this email already exists")
	case errors.Is(err, storefront.ErrNetworkUnavailable):
		return errors.New("backend unavailable, try again later")
	}
	return err
}

func printProducts(w io.Writer, products []models.Product) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRICE\tSTOCK\tRATING")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t$%.2f\t%d\t%.1f\n", p.ID, p.Title, p.Category, p.Price, p.Stock, p.Rating)
	}
	tw.Flush()
}

func printCart(w io.Writer, c *storefront.CartStore) {
	lines := c.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(w, "cart is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tQTY\tPRICE\tSUBTOTAL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t$%.2f\t$%.2f\n", l.ID, l.Title, l.Quantity, l.Price, l.Subtotal())
	}
	tw.Flush()
	q := c.Quote()
	fmt.Fprintf(w, "%d items  subtotal $%.2f  tax $%.2f  total $%.2f\n", c.ItemCount(), q.Subtotal, q.Tax, q.Total)
}

func printIdentity(w io.Writer, id models.Identity, offline bool) {
	role := "customer"
	if id.IsAdmin {
		role = "admin"
	}
	suffix := ""
	if offline {
		suffix = " (offline session)"
	}
	fmt.Fprintf(w, "%s <%s> %s%s\n", id.Name, id.Email, role, suffix)
}
