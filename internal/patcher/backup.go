package patcher

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// BackupSuffix is appended to the target path when Options.Backup is set
const BackupSuffix = ".bak"

// backup copies the file at path to path+BackupSuffix, overwriting an older backup
func (a *Applier) backup(path string) error {
	if err := a.copyFile(path, path+BackupSuffix); err != nil {
		return fmt.Errorf("failed to back up: %w", err)
	}
	a.log.Debug("backed up %s to %s", path, path+BackupSuffix)
	return nil
}

// copyFile copies a file from source to destination, preserving attributes
func (a *Applier) copyFile(sourcePath, destPath string) error {
	srcFile, err := a.fs.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to get source file info: %w", err)
	}

	destFile, err := a.fs.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	if err := destFile.Close(); err != nil {
		return fmt.Errorf("failed to close destination file: %w", err)
	}

	if err := a.fs.Chmod(destPath, srcInfo.Mode().Perm()); err != nil {
		a.log.Warning("failed to preserve permissions on %s: %v", destPath, err)
	}

	// Chtimes is a no-op on some afero backends
	if _, ok := a.fs.(*afero.OsFs); ok {
		if err := a.fs.Chtimes(destPath, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
			a.log.Warning("failed to preserve timestamps on %s: %v", destPath, err)
		}
	}

	return nil
}
