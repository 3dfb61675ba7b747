package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// statementsDir is the subdirectory for incoming statement workbooks.
const statementsDir = "statements"

// processedDir is the subdirectory for processed workbooks.
const processedDir = "statements/processed"

// FileInfo describes a statement workbook in the workspace.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Scan returns workbook files (.xlsx or .xls) in <workspace>/statements/.
func Scan(workspace string) ([]FileInfo, error) {
	dir := filepath.Join(workspace, statementsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading statements dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".xlsx" && ext != ".xls" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from statements/ to statements/processed/.
func MarkProcessed(workspace, fileName string) error {
	src := filepath.Join(workspace, statementsDir, fileName)
	dstDir := filepath.Join(workspace, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
