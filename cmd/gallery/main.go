package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gallery-go/internal/app"
	"gallery-go/internal/config"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file from the default location.
func loadConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// newApp creates a GalleryApp from cfg and loads the gallery, prompting for
// the passphrase when encrypted photos have to be read. The caller must
// defer app.Close().
// operation identifies the CLI command being run (e.g. "TakePhoto", "List").
func newApp(ctx context.Context, cfg *config.Config, operation string, needsRead bool) (*app.GalleryApp, error) {
	a, err := app.NewGalleryApp(ctx, cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	if a.NeedsUnlockToLoad() || (needsRead && a.NeedsUnlock()) {
		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			a.Close()
			return nil, err
		}
		if err := a.Unlock(passphrase); err != nil {
			a.Close()
			return nil, err
		}
	}

	if err := a.Load(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("loading gallery: %w", err)
	}
	return a, nil
}

// readPassphrase reads a passphrase from GALLERY_PASSPHRASE or, failing
// that, from the terminal without echo.
func readPassphrase(prompt string) (string, error) {
	if p := os.Getenv("GALLERY_PASSPHRASE"); p != "" {
		return p, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("passphrase required: set GALLERY_PASSPHRASE or run from a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

var rootCmd = &cobra.Command{
	Use:          "gallery",
	Short:        "Photo gallery",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		deviceID := uuid.New().String()
		cfg := config.NewConfig(deviceID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Device ID: %s\n", deviceID)
		fmt.Printf("Base Dir:  %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Device ID:  %s\n", cfg.DeviceID)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Host:       %s\n", cfg.Host.Type)
		fmt.Printf("Camera:     %s\n", cfg.Camera.Type)
		fmt.Printf("File Store: %s (%s, encrypted=%t)\n", cfg.FileStore.Name, cfg.FileStore.Type, cfg.FileStore.Encrypted)
		fmt.Printf("Database:   %s\n", cfg.Database.Type)
		fmt.Printf("Server:     %s\n", cfg.Server.Addr)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the key pair for encrypted photo storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		passphrase, err := readPassphrase("New passphrase: ")
		if err != nil {
			return err
		}
		if os.Getenv("GALLERY_PASSPHRASE") == "" {
			confirm, err := readPassphrase("Repeat passphrase: ")
			if err != nil {
				return err
			}
			if confirm != passphrase {
				return fmt.Errorf("passphrases do not match")
			}
		}

		if err := app.SetupKeys(cfg, passphrase); err != nil {
			return fmt.Errorf("setting up keys: %w", err)
		}

		fmt.Printf("Public key:  %s\n", cfg.Encryption.PublicKeyPath)
		fmt.Printf("Private key: %s\n", cfg.Encryption.PrivateKeyPath)
		fmt.Println("Set encrypted = true under [filestore] to encrypt new photos.")
		return nil
	},
}

// init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or upgrade the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := app.InitDatabase(cfg); err != nil {
			return err
		}
		fmt.Println("Database is up to date.")
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List photos, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), cfg, "List", false)
		if err != nil {
			return err
		}
		defer a.Close()

		photos := a.Photos()
		if len(photos) == 0 {
			fmt.Println("No photos.")
			return nil
		}
		for _, p := range photos {
			fmt.Printf("%s\t%s\n", p.FileName(), p.Filepath)
		}
		return nil
	},
}

// take command
var takeCmd = &cobra.Command{
	Use:   "take",
	Short: "Take a photo",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if from != "" {
			cfg.Camera = config.CameraConfig{Type: "file", SourcePath: from}
		}

		a, err := newApp(cmd.Context(), cfg, "TakePhoto", false)
		if err != nil {
			return err
		}
		defer a.Close()

		photo, err := a.TakePhoto(cmd.Context())
		if err != nil {
			return fmt.Errorf("taking photo: %w", err)
		}

		fmt.Printf("Saved %s\n", photo.Filepath)
		return nil
	},
}

// delete command
var deleteCmd = &cobra.Command{
	Use:   "delete FILEPATH",
	Short: "Delete a photo by file path or file name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), cfg, "DeletePhoto", false)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeletePhoto(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("deleting photo: %w", err)
		}

		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

// reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all photos and clear the gallery",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("reset deletes every photo; pass --yes to confirm")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), cfg, "Reset", false)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.Reset(cmd.Context())
		if err != nil {
			return fmt.Errorf("resetting gallery: %w", err)
		}

		fmt.Printf("Deleted %d photo(s)\n", n)
		return nil
	},
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the gallery over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Serving stored files means reading them.
		a, err := newApp(ctx, cfg, "Serve", true)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Serve(ctx, addr)
	},
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database",
}

var dbBackupCmd = &cobra.Command{
	Use:   "backup PATH",
	Short: "Write a copy of the database to PATH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := app.NewGalleryApp(cmd.Context(), cfg, "BackupDatabase")
		if err != nil {
			return fmt.Errorf("initializing app: %w", err)
		}
		defer a.Close()

		if err := a.BackupDatabase(args[0]); err != nil {
			return err
		}
		fmt.Printf("Database copied to %s\n", args[0])
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// keys subcommands
	keysCmd.AddCommand(keysInitCmd)

	// db subcommands
	dbCmd.AddCommand(dbBackupCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(takeCmd)
	takeCmd.Flags().String("from", "", "Import an existing image file instead of using the camera")
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().Bool("yes", false, "Confirm deleting every photo")
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from config)")
}
