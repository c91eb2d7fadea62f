// Package cli provides the cobra command tree driving the page mutation
// engine. Commands talk to the core through the driving ports; wiring of
// stores and services happens once in Execute.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagevault/internal/adapters/driven/blob/filesystem"
	"github.com/custodia-labs/pagevault/internal/adapters/driven/codec/pdfcpu"
	"github.com/custodia-labs/pagevault/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pagevault/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pagevault/internal/core/ports/driven"
	"github.com/custodia-labs/pagevault/internal/core/ports/driving"
	"github.com/custodia-labs/pagevault/internal/core/services"
	"github.com/custodia-labs/pagevault/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services used by the commands. Populated in Execute; tests swap in fakes.
var (
	documentService driving.DocumentService
	pageService     driving.PageMutator
	configStore     driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "pagevault",
	Short: "Versioned page edits for PDF documents",
	Long: `pagevault stores documents as immutable version histories and applies
structural page edits (delete, reorder, rotate, move) by producing a new
version, never by touching an old one.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// Execute wires the adapters into the core services and runs the command
// tree.
func Execute() {
	if err := initServices(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initServices builds the production service graph: SQLite metadata,
// filesystem blobs, pdfcpu page codec.
func initServices() error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = cfg

	store, err := sqlite.NewStore(cfg.GetString(file.KeyDataDir))
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	docStore := store.DocumentStore()

	blobRoot := cfg.GetString(file.KeyBlobDir)
	if blobRoot == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		blobRoot = home + "/.pagevault/blobs"
	}
	blobs, err := filesystem.NewBlobStore(blobRoot)
	if err != nil {
		return fmt.Errorf("opening blob store: %w", err)
	}

	codec := pdfcpu.New()
	versions := services.NewVersionManager(docStore)

	documentService = services.NewDocumentService(docStore, blobs, codec, versions)
	pageService = services.NewPageService(
		docStore,
		versions,
		services.NewPageEditor(blobs, codec),
		services.NewReplicator(docStore, blobs),
	)
	return nil
}
