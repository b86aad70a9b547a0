package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/forms"
	"ledger/internal/logger"
	"ledger/pkg/models"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List, add, edit and delete users",
	Long: `Manage the users (clients) stored on the ledger API.

Every invoice belongs to a user, so users must exist before invoices can be
recorded against them.`,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Example: `  # Show every user
  ledger users list

  # Search by name, mobile, estate, id or invoice count
  ledger users list --search ali

  # Machine-readable output
  ledger users list --json`,
	Args: cobra.NoArgs,
	RunE: runUsersList,
}

var usersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a user",
	Example: `  ledger users add --name "Ali Raza" --mobile 03001234567 --estate "Green Acres"`,
	Args:    cobra.NoArgs,
	RunE:    runUsersAdd,
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit a user",
	Long: `Edit a user. Flags that are not given keep the user's current values,
which are fetched first.`,
	Example: `  ledger users update 65a1f0b2c3d4e5 --mobile 03111234567`,
	Args:    cobra.ExactArgs(1),
	RunE:    runUsersUpdate,
}

var usersDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete a user",
	Example: `  ledger users delete 65a1f0b2c3d4e5`,
	Args:    cobra.ExactArgs(1),
	RunE:    runUsersDelete,
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd, usersAddCmd, usersUpdateCmd, usersDeleteCmd)

	usersListCmd.Flags().StringP("search", "s", "", "Case-insensitive search across user fields")
	usersListCmd.Flags().Bool("json", false, "Print users as JSON")

	for _, c := range []*cobra.Command{usersAddCmd, usersUpdateCmd} {
		c.Flags().String("name", "", "User name")
		c.Flags().String("mobile", "", "Mobile number (11 digits)")
		c.Flags().String("estate", "", "Estate name")
	}
}

func runUsersList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("users")

	// Get flags
	query, _ := cmd.Flags().GetString("search")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx, cancel := createCommandContext(0, log)
	defer cancel()

	users, _, err := newStores(cmd)
	if err != nil {
		return err
	}

	if err := users.Refresh(ctx); err != nil {
		return handleCommandError(err, log)
	}

	list := users.Search(query)
	log.Debug().Int("total", len(users.Items())).Int("matched", len(list)).Msg("Users listed")

	if asJSON {
		return outputJSON(list, "", log)
	}

	if len(list) == 0 {
		fmt.Println(mutedStyle.Render("No users found."))
		return nil
	}
	fmt.Println(renderUsers(list))
	return nil
}

func runUsersAdd(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("users")

	form := forms.UserForm{}
	form.Name, _ = cmd.Flags().GetString("name")
	form.Mobile, _ = cmd.Flags().GetString("mobile")
	form.Estate, _ = cmd.Flags().GetString("estate")

	ctx, cancel := createCommandContext(0, log)
	defer cancel()

	users, _, err := newStores(cmd)
	if err != nil {
		return err
	}

	res, err := users.Create(ctx, form)
	if err != nil {
		return handleCommandError(err, log)
	}

	if res.User != nil {
		fmt.Println(renderUsers([]models.User{*res.User}))
	}
	return nil
}

func runUsersUpdate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("users")
	id := args[0]

	ctx, cancel := createCommandContext(0, log)
	defer cancel()

	users, _, err := newStores(cmd)
	if err != nil {
		return err
	}

	// Prefill from the current record
	if err := users.Refresh(ctx); err != nil {
		return handleCommandError(err, log)
	}
	current, ok := users.Find(id)
	if !ok {
		return fmt.Errorf("no user with id %q", id)
	}

	form := forms.UserFormFrom(current)
	if cmd.Flags().Changed("name") {
		form.Name, _ = cmd.Flags().GetString("name")
	}
	if cmd.Flags().Changed("mobile") {
		form.Mobile, _ = cmd.Flags().GetString("mobile")
	}
	if cmd.Flags().Changed("estate") {
		form.Estate, _ = cmd.Flags().GetString("estate")
	}

	if _, err := users.Update(ctx, id, form); err != nil {
		return handleCommandError(err, log)
	}

	if updated, ok := users.Find(id); ok {
		fmt.Println(renderUsers([]models.User{updated}))
	}
	return nil
}

func runUsersDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("users")

	ctx, cancel := createCommandContext(0, log)
	defer cancel()

	users, _, err := newStores(cmd)
	if err != nil {
		return err
	}

	if _, err := users.Delete(ctx, args[0]); err != nil {
		return handleCommandError(err, log)
	}
	return nil
}
