package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"smartfinance/internal/core"
	"smartfinance/internal/identity"
	"smartfinance/internal/services"
)

func newUserCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "user",
		Aliases: []string{"profile"},
		Short:   "Manage the local user profile",
	}
	cmd.AddCommand(
		newSignupCommand(rt),
		newLoginCommand(rt),
		newShowUserCommand(rt),
		newUpdateUserCommand(rt),
	)
	return cmd
}

func newSignupCommand(rt *runtime) *cobra.Command {
	var form identity.SignupForm
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create the profile, replacing any existing one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("confirm-password") {
				form.ConfirmPassword = form.Password
			}
			return rt.withApp(cmd.Context(), func(app *services.App) error {
				u, err := app.Identity.Signup(cmd.Context(), form)
				if err != nil {
					return err
				}
				if rt.asJSON {
					return rt.printJSON(profileView(u))
				}
				fmt.Fprintf(rt.out, "Profile created for %s <%s>\n", u.Name, u.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "full name")
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.Contact, "contact", "", "phone number (at least 10 characters)")
	cmd.Flags().StringVar(&form.BankAccount, "bank-account", "", "bank account number")
	cmd.Flags().StringVar(&form.Password, "password", "", "password (at least 6 characters)")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "password confirmation (default --password)")
	return cmd
}

func newLoginCommand(rt *runtime) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check credentials against the stored profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd.Context(), func(app *services.App) error {
				u, err := app.Identity.Login(cmd.Context(), email, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(rt.out, "Credentials valid for %s\n", u.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newShowUserCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored profile without the password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd.Context(), func(app *services.App) error {
				u, ok := app.Identity.Current()
				if !ok {
					return identity.ErrNoProfile
				}
				view := profileView(u)
				if rt.asJSON {
					return rt.printJSON(view)
				}
				keys := make([]string, 0, len(view))
				for k := range view {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(rt.out, "%s: %v\n", k, view[k])
				}
				return nil
			})
		},
	}
}

func newUpdateUserCommand(rt *runtime) *cobra.Command {
	var name, email, contact, bank, password string
	var extra map[string]string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd identity.ProfileUpdate
			set := func(flag string, v *string, dst **string) {
				if cmd.Flags().Changed(flag) {
					*dst = v
				}
			}
			set("name", &name, &upd.Name)
			set("email", &email, &upd.Email)
			set("contact", &contact, &upd.Contact)
			set("bank-account", &bank, &upd.BankAccount)
			set("password", &password, &upd.Password)
			if len(extra) > 0 {
				upd.Extra = make(map[string]any, len(extra))
				for k, v := range extra {
					if v == "" {
						upd.Extra[k] = nil
					} else {
						upd.Extra[k] = v
					}
				}
			}

			return rt.withApp(cmd.Context(), func(app *services.App) error {
				u, err := app.Identity.UpdateProfile(cmd.Context(), upd)
				if err != nil {
					return err
				}
				if rt.asJSON {
					return rt.printJSON(profileView(u))
				}
				fmt.Fprintf(rt.out, "Profile updated for %s <%s>\n", u.Name, u.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&contact, "contact", "", "phone number")
	cmd.Flags().StringVar(&bank, "bank-account", "", "bank account number")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().StringToStringVar(&extra, "set", nil, "extra profile fields as key=value; an empty value removes the field")
	return cmd
}

// profileView renders the profile for display without its password.
func profileView(u core.User) map[string]interface{} {
	out := make(map[string]interface{}, len(u.Extra)+5)
	for k, v := range u.Extra {
		out[k] = v
	}
	out["id"] = u.ID
	out["name"] = u.Name
	out["email"] = u.Email
	out["contact"] = u.Contact
	out["bankAccount"] = u.BankAccount
	return out
}
