package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hangman/internal/app"
	"hangman/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg := config.Load()
	cfg.ConfigureLogging()

	cliApp := &cli.App{
		Name:  "hangmanctl",
		Usage: "operate a hangman database",
		Description: "Connection settings come from the same environment as the server:\n" +
			"DB_TYPE, DB_PATH, DATABASE_URL, REDIS_URL and the SES_* variables.",
		Commands: []*cli.Command{
			exportCommand(cfg),
			importCommand(cfg),
			averageCommand(cfg),
			remindCommand(cfg),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

// withApp builds the services for a single command and closes them after
func withApp(cfg *config.Config, fn func(c *cli.Context, a *app.App) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		a, err := app.New(c.Context, cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(c, a)
	}
}

func exportCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "export users, games and scores to a JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file path (default: backup_YYYYMMDD_HHMMSS.json)",
			},
		},
		Action: withApp(cfg, func(c *cli.Context, a *app.App) error {
			output := c.String("output")
			if output == "" {
				output = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
			}

			if dir := filepath.Dir(output); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			if err := a.Backup.Export(c.Context, output); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			info, err := os.Stat(output)
			if err != nil {
				return err
			}
			log.Info().Str("file", output).Int64("bytes", info.Size()).Msg("export complete")
			return nil
		}),
	}
}

func importCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "restore a JSON backup into an empty database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "backup file to read",
				Required: true,
			},
		},
		Action: withApp(cfg, func(c *cli.Context, a *app.App) error {
			input := c.String("input")
			if _, err := os.Stat(input); err != nil {
				return fmt.Errorf("cannot read input: %w", err)
			}

			if err := a.Backup.Import(c.Context, input); err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			log.Info().Str("file", input).Msg("import complete")
			return nil
		}),
	}
}

func averageCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "recompute-average",
		Usage: "recompute the cached average attempts remaining",
		Action: withApp(cfg, func(c *cli.Context, a *app.App) error {
			if err := a.Average.Refresh(c.Context); err != nil {
				return err
			}
			avg, err := a.Games.AverageAttempts(c.Context)
			if err != nil {
				return err
			}
			if avg == "" {
				avg = "no active games"
			}
			fmt.Fprintln(c.App.Writer, avg)
			return nil
		}),
	}
}

func remindCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "send-reminders",
		Usage: "email every user with an unfinished game once",
		Action: withApp(cfg, func(c *cli.Context, a *app.App) error {
			sent, err := a.Reminders.SendReminders(c.Context)
			fmt.Fprintf(c.App.Writer, "%d reminder(s) sent\n", sent)
			return err
		}),
	}
}
