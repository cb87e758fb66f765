package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, authCtx, err := setup()
			if err != nil {
				return err
			}
			username, password, err = resolveCredentials(username, password)
			if err != nil {
				return err
			}
			res := authCtx.Login(cmd.Context(), username, password)
			if !res.Success {
				return errors.New(res.Error)
			}
			fmt.Printf("Logged in as %s\n", username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Account name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, authCtx, err := setup()
			if err != nil {
				return err
			}
			username, password, err = resolveCredentials(username, password)
			if err != nil {
				return err
			}
			res := authCtx.Register(cmd.Context(), username, password)
			if !res.Success {
				return errors.New(res.Error)
			}
			fmt.Printf("Registered and logged in as %s\n", username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Account name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, authCtx, err := setup()
			if err != nil {
				return err
			}
			authCtx.Logout()
			fmt.Println("Logged out")
			return nil
		},
	}
}

func resolveCredentials(username, password string) (string, string, error) {
	reader := bufio.NewReader(os.Stdin)
	var err error
	if username == "" {
		fmt.Print("Username: ")
		username, err = reader.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		username = strings.TrimSpace(username)
	}
	if password == "" {
		fmt.Print("Password: ")
		password, err = reader.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		password = strings.TrimRight(password, "\r\n")
	}
	if username == "" || password == "" {
		return "", "", errors.New("username and password are required")
	}
	return username, password, nil
}
