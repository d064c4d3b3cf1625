package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"cetaksoal/internal/layout"
	"cetaksoal/internal/migration"
	"cetaksoal/internal/testkit"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cetaksoal-dev",
		Short: "cetaksoal development tools",
	}

	rootCmd.AddCommand(
		newSampleCmd(),
		newSmokeTestCmd(),
		newMigrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSampleCmd() *cobra.Command {
	config := testkit.DefaultBankConfig()
	out := "bank_soal.xlsx"

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a sample question bank workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeSample(config, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", out, "Workbook path")
	cmd.Flags().IntVar(&config.QuestionCount, "count", config.QuestionCount, "Number of questions")
	cmd.Flags().Int64Var(&config.Seed, "seed", config.Seed, "Generator seed")
	cmd.Flags().BoolVar(&config.Images, "images", false, "Add image URLs to some questions")
	return cmd
}

func writeSample(config testkit.BankConfig, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := testkit.NewBankGenerator(config).WriteWorkbook(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote %d questions to %s\n", config.QuestionCount, path)
	return nil
}

func newSmokeTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "Run smoke tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmokeTests(cmd.Context())
		},
	}
}

func runSmokeTests(ctx context.Context) error {
	fmt.Println("Running smoke tests...")

	kit, err := testkit.NewTestKit()
	if err != nil {
		return fmt.Errorf("failed to initialize test kit: %w", err)
	}

	tests := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"workbook_import", func(ctx context.Context) error {
			result, err := kit.ImportBank(ctx, testkit.DefaultBankConfig())
			if err != nil {
				return err
			}
			if result.Count == 0 {
				return fmt.Errorf("no questions imported")
			}
			return nil
		}},
		{"layout_selection", func(ctx context.Context) error {
			seen := map[layout.Mode]bool{}
			for _, q := range kit.Store.Snapshot().Questions {
				seen[layout.Select(q).Mode] = true
			}
			for _, mode := range []layout.Mode{layout.ModeLettered, layout.ModeChecklist, layout.ModeStatementTable} {
				if !seen[mode] {
					return fmt.Errorf("no question uses %s", mode)
				}
			}
			return nil
		}},
		{"document_render", func(ctx context.Context) error {
			page, err := kit.RenderDocument()
			if err != nil {
				return err
			}
			if !strings.Contains(string(page), "window.print()") {
				return fmt.Errorf("print trigger missing from document")
			}
			return nil
		}},
		{"failed_import_keeps_document", func(ctx context.Context) error {
			before := kit.Store.Snapshot()
			if _, err := kit.Importer.Import(ctx, "rusak.xlsx", bytes.NewReader([]byte("bukan workbook"))); err == nil {
				return fmt.Errorf("corrupt workbook was accepted")
			}
			after := kit.Store.Snapshot()
			if after.Generation != before.Generation || len(after.Questions) != len(before.Questions) {
				return fmt.Errorf("document changed after failed import")
			}
			return nil
		}},
	}

	passed := 0
	for _, test := range tests {
		fmt.Printf("  Running %s...", test.name)
		if err := test.fn(ctx); err != nil {
			fmt.Printf(" FAILED: %v\n", err)
		} else {
			fmt.Println(" PASSED")
			passed++
		}
	}

	fmt.Printf("\nSmoke tests: %d/%d passed\n", passed, len(tests))
	if passed < len(tests) {
		return fmt.Errorf("some smoke tests failed")
	}
	return nil
}

func newMigrateCmd() *cobra.Command {
	path := "./dev_migrations.db"
	cmd := &cobra.Command{
		Use:   "migrate [up|status]",
		Short: "Run import ledger migrations against a local SQLite file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), path, args[0])
		},
	}
	cmd.Flags().StringVar(&path, "db", path, "SQLite database file")
	return cmd
}

func runMigrations(ctx context.Context, path, action string) error {
	fmt.Printf("Running migrations: %s\n", action)

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	runner := migration.NewRunner()
	switch action {
	case "up":
		if err := runner.Run(ctx, db); err != nil {
			return err
		}
		fmt.Printf("Schema at version %s\n", runner.Version())
		return nil
	case "status":
		pending, err := runner.Pending(ctx, db)
		if err != nil {
			return err
		}
		for _, m := range pending {
			fmt.Printf("  pending %d %s\n", m.Version, m.Name)
		}
		fmt.Printf("%d pending, target version %s\n", len(pending), runner.Version())
		return nil
	default:
		return fmt.Errorf("unknown migration action: %s", action)
	}
}
