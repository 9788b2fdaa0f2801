package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tryanzu/gomarket/modules/cart"
	"github.com/tryanzu/gomarket/modules/exceptions"
)

func main() {
	root, closeApp := newRootCmd()
	err := root.ExecuteContext(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if cerr := closeApp(ctx); cerr != nil {
		fmt.Fprintln(os.Stderr, cerr)
		if err == nil {
			err = cerr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The returned func saves the cart and
// releases storage once the command is done; it is a no-op when no command
// booted the app.
func newRootCmd() (*cobra.Command, func(context.Context) error) {
	var a *app

	// Run with the specified env file
	envfile := os.Getenv("ENV_FILE")
	if envfile == "" {
		envfile = "./env.json"
	}

	rootCmd := &cobra.Command{
		Use:          "gomarket",
		Short:        "Shopping cart kept in a local key-value store",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			file, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			a, err = boot(cmd.Context(), file)
			if err != nil {
				return err
			}
			cmd.SetContext(cart.NewContext(cmd.Context(), a.cart))
			return nil
		},
	}
	rootCmd.PersistentFlags().String("config", envfile, "config file (json, yaml or toml)")

	rootCmd.AddCommand(
		listCmd(),
		addCmd(),
		incCmd(),
		decCmd(),
		totalCmd(),
		&cobra.Command{
			Use:   "shell",
			Short: "Starts interactive shell",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				a.shell.Run()
			},
		},
	)

	for _, sub := range rootCmd.Commands() {
		guard(sub, func() *exceptions.ExceptionsModule {
			if a == nil {
				return nil
			}
			return a.errors
		})
	}

	return rootCmd, func(ctx context.Context) error {
		if a == nil {
			return nil
		}
		defer func() { a = nil }()
		return a.close(ctx)
	}
}

// guard makes cmd report panics through the module returned by errs.
func guard(cmd *cobra.Command, errs func() *exceptions.ExceptionsModule) {
	if run := cmd.Run; run != nil {
		cmd.Run = func(cmd *cobra.Command, args []string) {
			defer errs().Recover()
			run(cmd, args)
		}
	}
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			defer errs().Recover()
			return run(cmd, args)
		}
	}
}
