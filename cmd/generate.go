package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/crateworks/typegen/internal"
	"github.com/crateworks/typegen/internal/generator"
	"github.com/crateworks/typegen/internal/registry"
	"github.com/crateworks/typegen/internal/tracker"
	"github.com/crateworks/typegen/internal/util"
	"github.com/fatih/color"
	"github.com/shopmonkeyus/go-common/logger"
	csys "github.com/shopmonkeyus/go-common/sys"
	"github.com/spf13/cobra"
)

const defaultOutFile = "api-collections.d.ts"

// cacheDir returns the snapshot cache directory, creating it if needed.
func cacheDir(cmd *cobra.Command) (string, error) {
	dir := mustFlagString(cmd, "cache-dir", false)
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("error locating user cache dir: %w", err)
		}
		dir = filepath.Join(base, "typegen")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating cache dir %s: %w", dir, err)
	}
	return dir, nil
}

// newRegistry builds the schema source for a command: a snapshot file when
// requested, otherwise the server API with optional tracker caching.
func newRegistry(ctx context.Context, cmd *cobra.Command, log logger.Logger, config *internal.Config, cached bool) internal.SchemaRegistry {
	if cmd.Flags().Lookup("from-file") != nil {
		if fromFile := mustFlagString(cmd, "from-file", false); fromFile != "" {
			reg, err := registry.NewFileRegistry(fromFile)
			if err != nil {
				log.Error("%s", err)
				os.Exit(1)
			}
			return reg
		}
	}
	url, token := resolveAPI(cmd, config)
	if url == "" && token != "" && util.IsJWT(token) {
		u, err := util.GetAPIURLFromJWT(token)
		if err != nil {
			log.Debug("could not derive the server url from the token: %s", err)
		} else {
			log.Info("using server url from token: %s", u)
			url = u
		}
	}
	if url == "" {
		log.Error("required flag --url missing")
		os.Exit(1)
	}
	var tr *tracker.Tracker
	if cached {
		dir, err := cacheDir(cmd)
		if err != nil {
			log.Error("%s", err)
			os.Exit(1)
		}
		tr, err = tracker.New(tracker.Config{Context: ctx, Logger: log, Dir: dir})
		if err != nil {
			log.Error("error opening snapshot cache: %s", err)
			os.Exit(1)
		}
	}
	var reg internal.SchemaRegistry
	var err error
	util.RunTaskWithSpinner("Fetching schema...", func() {
		reg, err = registry.NewAPIRegistry(ctx, log, url, token, tr)
	})
	if tr != nil {
		tr.Close()
	}
	if err != nil {
		log.Error("error fetching schema: %s", err)
		os.Exit(1)
	}
	return reg
}

// confirmOverwrite asks before replacing an existing output file.
func confirmOverwrite(log logger.Logger, filename string) bool {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s already exists, overwrite it?", filename)).
				Affirmative("Overwrite").
				Negative("Cancel").
				Value(&confirmed),
		),
	)
	form.WithTheme(huh.ThemeBase())
	if err := form.Run(); err != nil {
		if !errors.Is(err, huh.ErrUserAborted) {
			log.Error("error running form: %s", err)
			log.Info("You may use --force to skip this prompt")
			os.Exit(1)
		}
		return false
	}
	return confirmed
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "generate a TypeScript declaration file from the server schema",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger(cmd)
		defer util.RecoverPanic(log)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			select {
			case <-ctx.Done():
				return
			case <-csys.CreateShutdownChannel():
				cancel()
				return
			}
		}()

		config := loadConfig(cmd, log)

		out := mustFlagString(cmd, "out", false)
		if out == "" {
			out = config.Generate.Out
		}
		if out == "" {
			out = defaultOutFile
		}
		typeName := mustFlagString(cmd, "type-name", false)
		if typeName == "" {
			typeName = config.Generate.TypeName
		}
		legacy := mustFlagBool(cmd, "legacy", false) || config.Generate.Legacy
		force := mustFlagBool(cmd, "force", false)
		noCache := mustFlagBool(cmd, "no-cache", false)

		reg := newRegistry(ctx, cmd, log, config, !noCache)
		defer reg.Close()

		snapshot, err := reg.GetSnapshot()
		if err != nil {
			log.Error("error getting schema snapshot: %s", err)
			os.Exit(1)
		}

		gen := generator.New(log, generator.Options{
			TypeName:      typeName,
			Legacy:        legacy,
			TypeOverrides: config.Types,
		})
		result, err := gen.Generate(snapshot)
		if err != nil {
			log.Error("error generating types: %s", err)
			os.Exit(1)
		}

		if util.Exists(out) {
			existing, err := os.ReadFile(out)
			if err != nil {
				log.Error("error reading %s: %s", out, err)
				os.Exit(1)
			}
			if util.Hash(string(existing)) == util.Hash(result.Output) {
				log.Info("%s is up to date", out)
				return
			}
			if !force && !confirmOverwrite(log, out) {
				os.Exit(0)
			}
		}

		if err := os.WriteFile(out, []byte(result.Output), 0644); err != nil {
			log.Error("error writing %s: %s", out, err)
			os.Exit(1)
		}

		fmt.Println(color.GreenString("✔ wrote %d collection types to %s", result.Collections, out))
		if len(result.Warnings) > 0 {
			fmt.Println(color.YellowString("⚠ %d schema warnings", len(result.Warnings)))
		}
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().String("out", "", "the output filename (default "+defaultOutFile+")")
	generateCmd.Flags().String("type-name", "", "the name of the registry type")
	generateCmd.Flags().Bool("legacy", false, "generate legacy output without array wrapping or the name union")
	generateCmd.Flags().String("from-file", "", "generate from a snapshot file instead of the server")
	generateCmd.Flags().Bool("force", false, "overwrite the output file without confirmation")
	generateCmd.Flags().Bool("no-cache", false, "always fetch a fresh schema from the server")
	generateCmd.Flags().String("cache-dir", "", "directory for the snapshot cache")
}
