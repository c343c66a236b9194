package cli

import (
	"fmt"
	"path/filepath"

	"github.com/klauern/rcstrings/internal/model"
	"github.com/klauern/rcstrings/internal/resource"
	"github.com/klauern/rcstrings/internal/ui"
	"github.com/klauern/rcstrings/internal/validation"
)

// printWriteResult reports the outcome of each file of an update and
// returns the joined error.
func printWriteResult(res resource.WriteResult) error {
	rc := displayPath(res.RC.Path)
	switch {
	case res.RC.Err != nil:
		fmt.Println(ui.StatusError(fmt.Sprintf("%s: %v", rc, res.RC.Err)))
	case res.RC.Written:
		fmt.Println(ui.StatusSuccess("wrote " + rc + backupNote(res.RC)))
	default:
		fmt.Println(ui.StatusSkipped(rc + " unchanged"))
	}

	switch {
	case res.Header.Path == "":
		fmt.Println(ui.StatusWarning("no paired header found, defines were not written"))
	case res.Header.Err != nil:
		fmt.Println(ui.StatusError(fmt.Sprintf("%s: %v", displayPath(res.Header.Path), res.Header.Err)))
	case res.Header.Changed:
		added := res.Defines.Inserted + res.Defines.Appended
		fmt.Println(ui.StatusSuccess(fmt.Sprintf("wrote %s (%d define(s) added)%s",
			displayPath(res.Header.Path), added, backupNote(res.Header))))
	default:
		fmt.Println(ui.StatusSkipped(displayPath(res.Header.Path) + " already up to date"))
	}

	return res.Err()
}

func backupNote(r resource.FileResult) string {
	if r.BackupID == "" {
		return ""
	}
	return ui.Dim(" [backup " + r.BackupID + "]")
}

// printWarnings shows validation warnings.
func printWarnings(result *validation.Result) {
	for _, w := range result.Warnings {
		fmt.Println(ui.StatusWarning(w))
	}
}

func describeFile(f model.ResourceFile) string {
	header := "no header"
	if f.HeaderPath() != "" {
		header = filepath.Base(f.HeaderPath())
	}
	if f.ProjectName() == "" {
		return fmt.Sprintf("%s (%s)", displayPath(f.Path()), header)
	}
	return fmt.Sprintf("%s [%s] (%s)", displayPath(f.Path()), f.ProjectName(), header)
}
