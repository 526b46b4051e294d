package cmd

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "yathra",
	Short: "vehicle and trip record keeping",
	Long:  `yathra keeps a fleet owner's vehicles, drivers, contracts and trips and produces contract billing statements`,
}

func init() {
	RootCmd.AddCommand(serverCommand())
	RootCmd.AddCommand(migrateCommand())
	RootCmd.AddCommand(reportCommand())
}
