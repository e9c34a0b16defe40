package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chemizer/analytics-cli/internal/client/services"
)

// upload validates, submits and reports progress for one file, then shows
// the analysis after the success hold.
func (a *App) upload(ctx context.Context, path string) {
	filename := filepath.Base(path)

	if err := a.uploader.Select(filename, services.MIMETypeForFile(filename)); err != nil {
		fmt.Println(a.uploader.Message())
		return
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Println("Cannot open file:", err.Error())
		a.uploader.Reset()
		return
	}
	defer f.Close()

	a.uploader.SetProgressFunc(func(percent int) {
		fmt.Printf("\r%-30s %3d%%", services.PhaseLabel(percent), percent)
	})

	res, err := a.uploader.Upload(ctx, f)
	fmt.Println()

	if err != nil {
		fmt.Println("Upload failed:", a.uploader.Message())
		return
	}

	fmt.Println("Analysis completed!")
	a.uploader.Hold()
	a.printAnalysis(res, false)
	a.uploader.Reset()
}
