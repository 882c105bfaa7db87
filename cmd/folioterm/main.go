// Command folioterm runs the bilingual portfolio terminal and its
// development API.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"folioterm/internal/app"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "folioterm:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := app.DefaultConfig()
	envErr := app.LoadEnv(&cfg)

	root := &cobra.Command{
		Use:           "folioterm",
		Short:         "Interactive bilingual portfolio terminal",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return envErr
			}
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Run(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfg.Lang, "lang", cfg.Lang, "interface language (en or fr)")
	pf.StringVar(&cfg.SnapshotPath, "snapshot", cfg.SnapshotPath, "portfolio content file (YAML or JSON); defaults to the built-in sample")
	pf.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for the local database and logs")
	pf.StringVar(&cfg.LogPath, "log", cfg.LogPath, "append session events as JSON lines to this file")
	pf.BoolVar(&cfg.Debug, "debug", cfg.Debug, "verbose console logging")

	f := root.Flags()
	f.StringVar(&cfg.APIURL, "api", cfg.APIURL, "backend API base URL; empty uses the local database")
	f.StringVar(&cfg.AnonKey, "anon-key", cfg.AnonKey, "public API key sent with every request")
	f.StringVar(&cfg.DownloadDir, "download-dir", cfg.DownloadDir, "where download-resume saves files")
	f.StringVar(&cfg.UI.Theme, "theme", cfg.UI.Theme, "color theme: midnight, paper or phosphor")
	f.StringVar(&cfg.UI.MotionLevel, "motion", cfg.UI.MotionLevel, "animation level: off, reduced or full")
	f.BoolVar(&cfg.UI.Mouse, "mouse", cfg.UI.Mouse, "hover and click suggestions with the mouse")
	f.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "labyrinth random seed; 0 picks one per run")
	f.IntVar(&cfg.Maze.Width, "maze-width", cfg.Maze.Width, "labyrinth width in cells")
	f.IntVar(&cfg.Maze.Height, "maze-height", cfg.Maze.Height, "labyrinth height in cells")
	f.BoolVar(&cfg.Dev, "dev", cfg.Dev, "serve the /__dev hooks")
	f.StringVar(&cfg.DevHTTP, "dev-http", cfg.DevHTTP, "listen address for the /__dev hooks")
	f.StringVar(&cfg.DemoScenario, "demo", cfg.DemoScenario, "replay a demo scenario after boot")
	root.Flags().Bool("reduced-motion", false, "shorthand for --motion=off")
	root.PreRunE = func(cmd *cobra.Command, args []string) error {
		if on, _ := cmd.Flags().GetBool("reduced-motion"); on {
			cfg.UI.MotionLevel = "off"
		}
		return nil
	}

	root.AddCommand(newExecCmd(&cfg), newServeCmd(&cfg), newAdminCmd(&cfg))
	return root
}

func newExecCmd(cfg *app.Config) *cobra.Command {
	var script, file string
	cmd := &cobra.Command{
		Use:   "exec [command]...",
		Short: "Run terminal commands headlessly and print the output",
		Example: `  folioterm exec help "cd skills" ls
  folioterm exec --script "cd about; cat about"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			commands := append([]string(nil), args...)
			commands = append(commands, app.SplitScript(script)...)
			if file != "" {
				b, err := readScript(file, cmd.InOrStdin())
				if err != nil {
					return err
				}
				commands = append(commands, app.SplitScript(string(b))...)
			}
			if len(commands) == 0 {
				return errors.New("no commands given")
			}
			return app.RunScript(cmd.Context(), *cfg, commands, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&script, "script", "", "semicolon separated commands")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read commands from a file, one per line (- for stdin)")
	cmd.Flags().StringVar(&cfg.APIURL, "api", cfg.APIURL, "backend API base URL; empty uses the local database")
	cmd.Flags().StringVar(&cfg.AnonKey, "anon-key", cfg.AnonKey, "public API key sent with every request")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "labyrinth random seed")
	return cmd
}

func newServeCmd(cfg *app.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development API backed by SQLite",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Serve(cmd.Context(), *cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.Server.Addr, "addr", cfg.Server.Addr, "listen address")
	cmd.Flags().StringVar(&cfg.Server.DBPath, "db", cfg.Server.DBPath, "SQLite database path; defaults inside --data-dir")
	cmd.Flags().StringVar(&cfg.Server.APIKey, "api-key", cfg.Server.APIKey, "require this value in the apikey header")
	return cmd
}

func newAdminCmd(cfg *app.Config) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage dashboard administrators",
	}
	var fromStdin bool
	add := &cobra.Command{
		Use:   "add <email>",
		Short: "Create an administrator or reset its password",
		Long: "Create an administrator or reset its password. The password is read from " +
			app.EnvPrefix + "ADMIN_PASSWORD, or from the first line of stdin with --password-stdin.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv(app.EnvPrefix + "ADMIN_PASSWORD")
			if fromStdin {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("no password given")
			}
			if err := app.AddAdmin(cmd.Context(), *cfg, args[0], password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s saved\n", strings.ToLower(strings.TrimSpace(args[0])))
			return nil
		},
	}
	add.Flags().BoolVar(&fromStdin, "password-stdin", false, "read the password from stdin")
	add.Flags().StringVar(&cfg.Server.DBPath, "db", cfg.Server.DBPath, "SQLite database path; defaults inside --data-dir")
	admin.AddCommand(add)
	return admin
}

func readScript(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
