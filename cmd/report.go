package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"yathra/db/pg"
	"yathra/report"
)

var reportContractID string
var reportUserID string
var reportStart string
var reportEnd string
var reportOutputPath string

func reportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report",
		Short:   "write a contract billing statement to a PDF file",
		Long:    `Generates the billing statement for one contract straight from the database, without going through the API server.`,
		Example: `yathra report --contract 6b0a... --user 9f2c... --start 2026-01-01 --end 2026-01-31 --output statement.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			contractID, err := uuid.Parse(reportContractID)
			if err != nil {
				return fmt.Errorf("invalid contract id: %w", err)
			}
			userID, err := uuid.Parse(reportUserID)
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}

			params := report.Params{
				Tenant:     userID,
				ContractID: contractID,
			}
			if reportStart != "" {
				t, err := time.Parse("2006-01-02", reportStart)
				if err != nil {
					return fmt.Errorf("invalid start date: %w", err)
				}
				params.StartDate = &t
			}
			if reportEnd != "" {
				t, err := time.Parse("2006-01-02", reportEnd)
				if err != nil {
					return fmt.Errorf("invalid end date: %w", err)
				}
				params.EndDate = &t
			}

			gormDB, err := pg.InitPostgresGORM(pg.CreateDSN())
			if err != nil {
				return fmt.Errorf("failed to connect to postgres: %w", err)
			}
			defer pg.CloseGORM(gormDB)

			renderer := report.NewPDFRenderer()
			builder := report.NewBuilder(pg.NewGORMStore(gormDB))
			if err := builder.Build(context.Background(), params, renderer); err != nil {
				return fmt.Errorf("failed to build statement: %w", err)
			}

			outputFile, err := os.Create(reportOutputPath)
			if err != nil {
				return err
			}
			defer func(outputFile *os.File) {
				err := outputFile.Close()
				if err != nil {
					log.Fatalf("Failed to close output file: %v", err)
				}
			}(outputFile)

			return renderer.Output(outputFile)
		},
	}

	cmd.Flags().StringVarP(&reportContractID, "contract", "c", "", "contract id (required)")
	err := cmd.MarkFlagRequired("contract")
	if err != nil {
		log.Fatal(err)
		return nil
	}
	cmd.Flags().StringVarP(&reportUserID, "user", "U", "", "owning user id (required)")
	err = cmd.MarkFlagRequired("user")
	if err != nil {
		log.Fatal(err)
		return nil
	}
	cmd.Flags().StringVarP(&reportOutputPath, "output", "o", "", "pdf output file path (required)")
	err = cmd.MarkFlagRequired("output")
	if err != nil {
		log.Fatal(err)
		return nil
	}
	cmd.Flags().StringVar(&reportStart, "start", "", "statement period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&reportEnd, "end", "", "statement period end (YYYY-MM-DD)")

	return cmd
}
