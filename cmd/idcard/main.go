package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youruser/idcardapp/internal/card"
	"github.com/youruser/idcardapp/internal/config"
	imagepkg "github.com/youruser/idcardapp/internal/image"
	"github.com/youruser/idcardapp/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "idcard",
	Short: "Compose ID card images from templates and holder records",
	Long: `idcard renders ID cards: a cover-scaled background, a feathered profile
photo, a QR code and text layers composited onto a fixed-size canvas.

Run "idcard serve" for the HTTP API or "idcard render" to write cards to disk.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Logging, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "idcard.yaml", "Config file (missing file means defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(qrCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRenderer wires the compositor from cfg. allowFiles enables local
// image paths on top of what the config allows.
func newRenderer(cfg *config.Config, allowFiles bool) (*card.Renderer, error) {
	fonts := imagepkg.NewFontRegistry()
	if dir := cfg.Render.FontDir; dir != "" {
		n, err := fonts.LoadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to load fonts: %w", err)
		}
		logger.Debug("fonts loaded", zap.String("dir", dir), zap.Int("count", n))
	}

	loader := cfg.Loader()
	loader.AllowFiles = loader.AllowFiles || allowFiles

	timeout, err := cfg.GetFetchTimeout()
	if err != nil {
		return nil, err
	}
	c := imagepkg.New(imagepkg.WithLoader(loader), imagepkg.WithFontRegistry(fonts))
	return card.NewRenderer(c, cfg.LayerPolicy(), timeout), nil
}
