package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"cetaksoal/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	appConfig, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:          "cetaksoal",
		Short:        "Convert exam-question workbooks into printable HTML",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newConvertCmd(appConfig),
		newInspectCmd(appConfig),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
