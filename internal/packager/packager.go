// Package packager bundles a render directory into a zip archive.
package packager

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// File is an in-memory file added to the archive root.
type File struct {
	Name     string
	Data     []byte
	Modified time.Time
}

// Archive zips srcDir into dest. Every entry lives under the rootName folder;
// extra files are added at the root of that folder. Entries are written in
// name order.
//
// The archive is written to a temp file next to dest and renamed into place.
// On failure dest is left untouched.
func Archive(srcDir, rootName string, extra []File, dest string) (err error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("packager: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("packager: create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp, srcDir, rootName, extra); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("packager: close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("packager: replace %s: %w", dest, err)
	}
	return nil
}

func write(w io.Writer, srcDir, rootName string, extra []File) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	if _, err := zw.CreateHeader(&zip.FileHeader{Name: rootName + "/", Method: zip.Store, Modified: rootModTime(srcDir)}); err != nil {
		return fmt.Errorf("packager: add %s: %w", rootName, err)
	}

	err := filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, p)
		if err != nil || rel == "." {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return addFile(zw, p, path.Join(rootName, filepath.ToSlash(rel)), info)
	})
	if err != nil {
		return fmt.Errorf("packager: walk %s: %w", srcDir, err)
	}

	sorted := append([]File(nil), extra...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for _, f := range sorted {
		hdr := &zip.FileHeader{Name: path.Join(rootName, f.Name), Method: zip.Deflate, Modified: f.Modified}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("packager: add %s: %w", f.Name, err)
		}
		if _, err := fw.Write(f.Data); err != nil {
			return fmt.Errorf("packager: write %s: %w", f.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("packager: finish archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, src, name string, info fs.FileInfo) error {
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	if info.IsDir() {
		hdr.Name += "/"
		hdr.Method = zip.Store
		_, err := zw.CreateHeader(hdr)
		return err
	}
	hdr.Method = zip.Deflate

	fw, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(fw, f)
	return err
}

func rootModTime(dir string) time.Time {
	if info, err := os.Stat(dir); err == nil {
		return info.ModTime()
	}
	return time.Time{}
}
