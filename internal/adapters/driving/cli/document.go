package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage folders",
}

var folderCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runFolderCreate,
}

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage documents and their versions",
	Long:  `Create documents, import payloads, and inspect version history.`,
}

var documentCreateCmd = &cobra.Command{
	Use:   "create [folder-id] [title]",
	Short: "Create an empty document in a folder",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentCreate,
}

var documentImportCmd = &cobra.Command{
	Use:   "import [doc-id] [file]",
	Short: "Upload a document's first payload",
	Long:  `Reads a PDF file and stores it as version 1 of the document.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentImport,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show document info and current version",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

var documentListCmd = &cobra.Command{
	Use:   "list [folder-id]",
	Short: "List documents in a folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentList,
}

var documentPagesCmd = &cobra.Command{
	Use:   "pages [doc-id]",
	Short: "List pages of the current version",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentPages,
}

var documentVersionsCmd = &cobra.Command{
	Use:   "versions [doc-id]",
	Short: "List a document's version history",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentVersions,
}

var documentSetTextCmd = &cobra.Command{
	Use:   "set-text [page-id] [text]",
	Short: "Store extracted text for a page",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentSetText,
}

// documentLang is a flag for the create command.
var documentLang string

func init() {
	documentCreateCmd.Flags().StringVarP(&documentLang, "lang", "l", "eng", "Default text extraction language")

	folderCmd.AddCommand(folderCreateCmd)
	rootCmd.AddCommand(folderCmd)

	documentCmd.AddCommand(documentCreateCmd)
	documentCmd.AddCommand(documentImportCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentPagesCmd)
	documentCmd.AddCommand(documentVersionsCmd)
	documentCmd.AddCommand(documentSetTextCmd)
	rootCmd.AddCommand(documentCmd)
}

func runFolderCreate(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	folder, err := documentService.CreateFolder(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	cmd.Printf("Created folder %s (%s)\n", folder.Name, folder.ID)
	return nil
}

func runDocumentCreate(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Create(context.Background(), args[0], args[1], documentLang)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	cmd.Printf("Created document %s (%s)\n", doc.Title, doc.ID)
	return nil
}

func runDocumentImport(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	payload, err := os.ReadFile(filepath.Clean(args[1]))
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	version, err := documentService.Upload(context.Background(), docID, payload)
	if err != nil {
		return fmt.Errorf("failed to import document: %w", err)
	}

	cmd.Printf("Imported version %d (%d pages) for document %s\n",
		version.Number, version.PageCount, docID)
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	ctx := context.Background()

	doc, err := documentService.Get(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n", doc.ID)
	cmd.Printf("  Title: %s\n", doc.Title)
	cmd.Printf("  Folder: %s\n", doc.FolderID)
	cmd.Printf("  Language: %s\n", doc.Lang)

	version, err := documentService.CurrentVersion(ctx, docID)
	if err != nil {
		cmd.Println("  No version yet")
		return nil
	}

	cmd.Printf("  Current version: %d (%s)\n", version.Number, version.ID)
	cmd.Printf("  Pages: %d\n", version.PageCount)
	return nil
}

func runDocumentList(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	folderID := args[0]
	docs, err := documentService.ListByFolder(context.Background(), folderID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Printf("No documents found in folder: %s\n", folderID)
		return nil
	}

	cmd.Printf("Documents in folder %s:\n\n", folderID)
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title: %s\n", docs[i].Title)
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentPages(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	pages, err := documentService.ListPages(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}

	for i := range pages {
		cmd.Printf("  %3d  %s", pages[i].Number, pages[i].ID)
		if pages[i].Text != "" {
			cmd.Printf("  %q", pages[i].Text)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d pages\n", len(pages))
	return nil
}

func runDocumentVersions(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	versions, err := documentService.ListVersions(context.Background(), docID)
	if err != nil {
		return fmt.Errorf("failed to list versions: %w", err)
	}

	if len(versions) == 0 {
		cmd.Printf("Document %s has no version yet\n", docID)
		return nil
	}

	cmd.Printf("Versions of %s:\n", docID)
	for i := range versions {
		marker := " "
		if versions[i].IsCurrent {
			marker = "*"
		}
		cmd.Printf("  %s v%d  %s  %d pages\n", marker, versions[i].Number, versions[i].ID, versions[i].PageCount)
	}
	return nil
}

func runDocumentSetText(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.SetPageText(context.Background(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set page text: %w", err)
	}

	cmd.Printf("Stored text for page %s\n", args[0])
	return nil
}
