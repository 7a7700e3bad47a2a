package cmd

import (
	"context"
	"os"

	"github.com/crateworks/typegen/internal/util"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "fetch the server schema and save it as a snapshot file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger(cmd)
		defer util.RecoverPanic(log)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		config := loadConfig(cmd, log)
		out := mustFlagString(cmd, "out", true)

		// snapshots are for pinning a schema, always fetch fresh
		reg := newRegistry(ctx, cmd, log, config, false)
		defer reg.Close()

		if err := reg.Save(out); err != nil {
			log.Error("error saving snapshot: %s", err)
			os.Exit(1)
		}
		log.Info("saved schema snapshot to %s", out)
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().String("out", "schema-snapshot.json", "the snapshot filename")
}
