// Package epub adds the vendor rights manifest to downloaded EPUB containers
// so external decryption tools can find it next to encryption.xml.
package epub

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Archive member names.
const (
	EncryptionMember = "META-INF/encryption.xml"
	RightsMember     = "META-INF/rights.xml"
)

// ErrRightsPresent is returned by InjectRights when the archive already holds
// a rights member. Appending a second one would leave readers to pick either.
var ErrRightsPresent = errors.New("epub: archive already contains " + RightsMember)

// InjectRights adds manifest, byte for byte, as META-INF/rights.xml to the
// EPUB at path when the archive is encrypted. Unencrypted archives are left
// alone and (false, nil) is returned. Existing members are copied raw, without
// recompression, into a temp file that then replaces the original.
func InjectRights(path string, manifest []byte) (bool, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return false, fmt.Errorf("epub: opening %s: %w", path, err)
	}
	defer zr.Close()

	if !hasMember(&zr.Reader, EncryptionMember) {
		return false, nil
	}

	if hasMember(&zr.Reader, RightsMember) {
		return false, ErrRightsPresent
	}

	if err := rewriteWithMember(path, &zr.Reader, RightsMember, manifest); err != nil {
		return false, err
	}

	return true, nil
}

func hasMember(zr *zip.Reader, name string) bool {
	for _, f := range zr.File {
		if f.Name == name {
			return true
		}
	}

	return false
}

// rewriteWithMember writes every member of src plus one new member to a temp
// file next to path, then renames it over path.
func rewriteWithMember(path string, src *zip.Reader, name string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".epub-*.tmp")
	if err != nil {
		return fmt.Errorf("epub: creating temp file: %w", err)
	}

	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	zw := zip.NewWriter(tmp)

	if err := zw.SetComment(src.Comment); err != nil {
		tmp.Close()
		return fmt.Errorf("epub: copying archive comment: %w", err)
	}

	for _, f := range src.File {
		if err := zw.Copy(f); err != nil {
			tmp.Close()
			return fmt.Errorf("epub: copying member %s: %w", f.Name, err)
		}
	}

	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		tmp.Close()
		return fmt.Errorf("epub: adding %s: %w", name, err)
	}

	if _, err := w.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("epub: writing %s: %w", name, err)
	}

	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("epub: finalizing archive: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("epub: syncing: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("epub: closing: %w", err)
	}

	if fi, statErr := os.Stat(path); statErr == nil {
		_ = os.Chmod(tmpPath, fi.Mode().Perm())
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("epub: replacing %s: %w", path, err)
	}

	success = true

	return nil
}
