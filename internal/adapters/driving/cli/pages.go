package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagevault/internal/core/ports/driving"
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Apply structural page edits",
	Long: `Delete, reorder, rotate, or move pages of a document's current version.
Every edit produces a new version; old versions stay readable forever.`,
}

var pageDeleteCmd = &cobra.Command{
	Use:   "delete [page-id]...",
	Short: "Delete pages from their document",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPageDelete,
}

var pageReorderCmd = &cobra.Command{
	Use:   "reorder [page-id:old:new]...",
	Short: "Reorder all pages of a document",
	Long: `Each argument assigns one page to its new position, as
page-id:old-number:new-number. All pages of the current version must be
listed and the new numbers must form a permutation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPageReorder,
}

var pageRotateCmd = &cobra.Command{
	Use:   "rotate [page-id:angle]...",
	Short: "Rotate pages by multiples of 90 degrees",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPageRotate,
}

var pageMoveFolderCmd = &cobra.Command{
	Use:   "move-folder [folder-id] [page-id]...",
	Short: "Extract pages into new document(s) in a folder",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runPageMoveFolder,
}

var pageMoveDocumentCmd = &cobra.Command{
	Use:   "move-document [doc-id] [page-id]...",
	Short: "Move pages into another document",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runPageMoveDocument,
}

// Flags for the move commands.
var (
	moveSinglePage bool
	movePosition   int
)

func init() {
	pageMoveFolderCmd.Flags().BoolVar(&moveSinglePage, "single-page", false,
		"Create one single-page document per moved page")
	pageMoveDocumentCmd.Flags().IntVarP(&movePosition, "position", "p", 0,
		"Insert after this page of the destination (0 = before the first page)")

	pageCmd.AddCommand(pageDeleteCmd)
	pageCmd.AddCommand(pageReorderCmd)
	pageCmd.AddCommand(pageRotateCmd)
	pageCmd.AddCommand(pageMoveFolderCmd)
	pageCmd.AddCommand(pageMoveDocumentCmd)
	rootCmd.AddCommand(pageCmd)
}

func runPageDelete(cmd *cobra.Command, args []string) error {
	if pageService == nil {
		return errors.New("page service not configured")
	}

	version, err := pageService.Delete(context.Background(), args)
	if err != nil {
		return fmt.Errorf("failed to delete pages: %w", err)
	}

	cmd.Printf("Deleted %d pages, new version %d has %d pages\n",
		len(args), version.Number, version.PageCount)
	return nil
}

func runPageReorder(cmd *cobra.Command, args []string) error {
	if pageService == nil {
		return errors.New("page service not configured")
	}

	orders := make([]driving.PageReorder, len(args))
	for i, arg := range args {
		parts := strings.Split(arg, ":")
		if len(parts) != 3 {
			return fmt.Errorf("invalid reorder %q, expected page-id:old:new", arg)
		}
		oldNumber, err := strconv.Atoi(parts[1])
		if err != nil {
			return fmt.Errorf("invalid old number in %q: %w", arg, err)
		}
		newNumber, err := strconv.Atoi(parts[2])
		if err != nil {
			return fmt.Errorf("invalid new number in %q: %w", arg, err)
		}
		orders[i] = driving.PageReorder{PageID: parts[0], OldNumber: oldNumber, NewNumber: newNumber}
	}

	version, err := pageService.Reorder(context.Background(), orders)
	if err != nil {
		return fmt.Errorf("failed to reorder pages: %w", err)
	}

	cmd.Printf("Reordered %d pages, new version %d\n", len(orders), version.Number)
	return nil
}

func runPageRotate(cmd *cobra.Command, args []string) error {
	if pageService == nil {
		return errors.New("page service not configured")
	}

	rotations := make([]driving.PageRotation, len(args))
	for i, arg := range args {
		idx := strings.LastIndex(arg, ":")
		if idx < 1 {
			return fmt.Errorf("invalid rotation %q, expected page-id:angle", arg)
		}
		angle, err := strconv.Atoi(arg[idx+1:])
		if err != nil {
			return fmt.Errorf("invalid angle in %q: %w", arg, err)
		}
		rotations[i] = driving.PageRotation{PageID: arg[:idx], Angle: angle}
	}

	version, err := pageService.Rotate(context.Background(), rotations)
	if err != nil {
		return fmt.Errorf("failed to rotate pages: %w", err)
	}

	cmd.Printf("Rotated %d pages, new version %d\n", len(rotations), version.Number)
	return nil
}

func runPageMoveFolder(cmd *cobra.Command, args []string) error {
	if pageService == nil {
		return errors.New("page service not configured")
	}

	folderID := args[0]
	pageIDs := args[1:]

	docs, err := pageService.MoveToFolder(context.Background(), pageIDs, folderID, moveSinglePage)
	if err != nil {
		return fmt.Errorf("failed to move pages: %w", err)
	}

	cmd.Printf("Moved %d pages into %d new document(s):\n", len(pageIDs), len(docs))
	for i := range docs {
		cmd.Printf("  %s (%s)\n", docs[i].Title, docs[i].ID)
	}
	return nil
}

func runPageMoveDocument(cmd *cobra.Command, args []string) error {
	if pageService == nil {
		return errors.New("page service not configured")
	}

	docID := args[0]
	pageIDs := args[1:]

	version, err := pageService.MoveToDocument(context.Background(), pageIDs, docID, movePosition)
	if err != nil {
		return fmt.Errorf("failed to move pages: %w", err)
	}

	cmd.Printf("Moved %d pages into %s, new version %d has %d pages\n",
		len(pageIDs), docID, version.Number, version.PageCount)
	return nil
}
