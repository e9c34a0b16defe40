package cli

import (
	"context"
	"fmt"
	"os"
)

func (a *App) history(ctx context.Context) {
	uploads, err := a.uploads.History(ctx)
	if err != nil {
		fmt.Println("Failed to load upload history:", err.Error())
		return
	}

	if len(uploads) == 0 {
		fmt.Println("No uploads yet. Upload your first file to get started!")
		return
	}

	for _, u := range uploads {
		fmt.Printf("%s  %-30s %s  %d rows  %s\n",
			u.UploadID, u.Filename, u.UploadDateFormatted, u.Rows, u.Status)
	}
}

func (a *App) downloadReport(ctx context.Context, uploadID string) {
	path, err := a.uploads.SaveReport(ctx, uploadID)
	if err != nil {
		fmt.Println("Failed to download report:", err.Error())
		return
	}
	fmt.Println("Report saved to", path)
}

func (a *App) deleteUploads(ctx context.Context, uploadIDs []string) {
	var err error
	if len(uploadIDs) == 1 {
		err = a.uploads.Delete(ctx, uploadIDs[0])
	} else {
		err = a.uploads.BulkDelete(ctx, uploadIDs)
	}
	if err != nil {
		fmt.Println("Delete failed:", err.Error())
		return
	}
	fmt.Printf("Deleted %d upload(s).\n", len(uploadIDs))
}

func (a *App) exportAllData(ctx context.Context) {
	path, err := a.uploads.ExportAllData(ctx)
	if err != nil {
		fmt.Println("Export failed:", err.Error())
		return
	}
	fmt.Println("Data export saved to", path)
}

func (a *App) deleteAllData(ctx context.Context) {
	confirm, err := getSimpleText(a.reader, "Delete ALL uploaded data? This cannot be undone. Type 'yes' to confirm", os.Stdout)
	if err != nil || confirm != "yes" {
		fmt.Println("Cancelled.")
		return
	}

	if err := a.uploads.DeleteAllData(ctx); err != nil {
		fmt.Println("Failed to delete data:", err.Error())
		return
	}
	fmt.Println("All uploaded data deleted.")
}
