package main

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"collectivecanvas/pkg/canvas/aging"
	"collectivecanvas/pkg/canvas/i18n"
	"collectivecanvas/pkg/canvas/particles"
	"collectivecanvas/pkg/canvas/submission"
)

var canvasIDPattern = regexp.MustCompile(`^[a-z0-9]{1,32}$`)

type Config struct {
	ambient     bool
	bind        string
	canvasID    string
	commands    bool
	cooldown    time.Duration
	fullscreen  bool
	height      int
	historyDB   string
	hud         bool
	lang        string
	particles   int
	poolSize    int
	port        int
	publicURL   string
	retention   time.Duration
	snapshotDir string
	verbose     bool
	version     bool
	width       int
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.width < 320 || c.height < 240 {
		return fmt.Errorf("window too small (minimum 320x240): %dx%d", c.width, c.height)
	}
	if c.canvasID != "" && !canvasIDPattern.MatchString(c.canvasID) {
		return fmt.Errorf("invalid canvas id (lowercase letters and digits only): %q", c.canvasID)
	}
	if c.particles < 0 {
		return fmt.Errorf("invalid particle count (must be 0 or more): %d", c.particles)
	}
	if c.poolSize < 1 {
		return fmt.Errorf("invalid pool size (must be 1 or more): %d", c.poolSize)
	}
	if c.retention <= 0 {
		return errors.New("--retention must be positive")
	}
	if c.cooldown < 0 {
		return errors.New("--cooldown must not be negative")
	}
	if c.publicURL != "" && !strings.HasPrefix(c.publicURL, "http://") && !strings.HasPrefix(c.publicURL, "https://") {
		return fmt.Errorf("invalid public url (must start with http:// or https://): %q", c.publicURL)
	}
	if _, err := i18n.Load(c.lang); err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(i18n.Languages(), ", "))
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CANVAS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "collectivecanvas",
		Short:         "A shared generative canvas: participants send words from their phones, the host window turns them into light.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	defaults := aging.DefaultConfig()

	fs.BoolVar(&cfg.ambient, "ambient", true, "draw the ambient particle layer (env: CANVAS_AMBIENT)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: CANVAS_BIND)")
	fs.StringVar(&cfg.canvasID, "canvas-id", "", "canvas id participants join; random when empty (env: CANVAS_CANVAS_ID)")
	fs.BoolVar(&cfg.commands, "commands", false, "read host commands (pause, resume, clear, save, reset, quit) from stdin (env: CANVAS_COMMANDS)")
	fs.DurationVar(&cfg.cooldown, "cooldown", submission.CooldownPeriod, "time between submissions from one participant (env: CANVAS_COOLDOWN)")
	fs.BoolVar(&cfg.fullscreen, "fullscreen", false, "start in fullscreen (env: CANVAS_FULLSCREEN)")
	fs.IntVar(&cfg.height, "height", 720, "initial window height (env: CANVAS_HEIGHT)")
	fs.StringVar(&cfg.historyDB, "history-db", "", "path to a sqlite database for submission history; in memory when empty (env: CANVAS_HISTORY_DB)")
	fs.BoolVar(&cfg.hud, "hud", true, "show the HUD with join QR code (env: CANVAS_HUD)")
	fs.StringVar(&cfg.lang, "lang", i18n.DefaultLanguage, "language of the HUD and join page (env: CANVAS_LANG)")
	fs.IntVar(&cfg.particles, "particles", particles.DefaultCount, "number of ambient particles (env: CANVAS_PARTICLES)")
	fs.IntVar(&cfg.poolSize, "pool-size", defaults.MaxMembers, "maximum completed effects kept on the aging layer (env: CANVAS_POOL_SIZE)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: CANVAS_PORT)")
	fs.StringVar(&cfg.publicURL, "public-url", "", "base url advertised in the QR code, for use behind a reverse proxy (env: CANVAS_PUBLIC_URL)")
	fs.DurationVar(&cfg.retention, "retention", defaults.Retention, "time a completed effect stays on the canvas (env: CANVAS_RETENTION)")
	fs.StringVar(&cfg.snapshotDir, "snapshot-dir", ".", "directory PNG snapshots are saved to (env: CANVAS_SNAPSHOT_DIR)")
	fs.IntVar(&cfg.width, "width", 1280, "initial window width (env: CANVAS_WIDTH)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: CANVAS_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: CANVAS_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("collective-canvas v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

// languageList is shown in the startup banner.
func languageList() string {
	return strings.Join(i18n.Languages(), ", ")
}
