package site

import (
	"io"
	"os"
	"path/filepath"

	"github.com/adnsv/insta485generator/logging"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const StaticDirectory = "static"

// CopyStatic overlays the contents of <inputDir>/static onto outputDir.
// Existing directories are merged, files with the same relative path are
// overwritten. A missing static directory is not an error.
func CopyStatic(fsys afero.Fs, inputDir, outputDir string, log *zap.SugaredLogger) error {
	if log == nil {
		log = logging.Nop()
	}
	staticDir := filepath.Join(inputDir, StaticDirectory)
	ok, err := afero.DirExists(fsys, staticDir)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := copyTree(fsys, staticDir, outputDir); err != nil {
		return err
	}

	log.Infof("Copied %s -> %s", staticDir, outputDir)
	return nil
}

// copyTree copies the tree below src into dst. Symbolic links are followed:
// a link to a directory is copied as a directory with its contents.
func copyTree(fsys afero.Fs, src, dst string) error {
	return afero.Walk(fsys, src, func(fn string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, fn)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.Mode()&os.ModeSymlink != 0 {
			// afero.Walk lstats, Stat resolves the link
			if info, err = fsys.Stat(fn); err != nil {
				return err
			}
			if info.IsDir() {
				// the trailing separator makes the walk root resolve
				// to the link target
				return copyTree(fsys, fn+string(filepath.Separator), target)
			}
		}

		if info.IsDir() {
			return fsys.MkdirAll(target, info.Mode().Perm()|0700)
		}
		return copyFile(fsys, fn, target, info.Mode().Perm())
	})
}

func copyFile(fsys afero.Fs, src, dst string, perm os.FileMode) (err error) {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
