// Package cookiefile persists vendor session cookies in the Netscape cookie
// file layout used by curl, wget and most browser export tools: one cookie per
// line with tab-separated domain, include-subdomains flag, path, secure flag,
// expiry, name and value. Session cookies (expiry 0) are written too, so a
// login survives process restarts.
package cookiefile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FilePerms restricts cookie files to owner-only read/write.
const FilePerms = 0o600

// DirPerms is used when creating the cookie file's directory.
const DirPerms = 0o700

const (
	fileHeader     = "# Netscape HTTP Cookie File"
	httpOnlyPrefix = "#HttpOnly_"
	fieldCount     = 7

	// maxLineLength bounds a single cookie line. Vendor session tokens run
	// well past bufio's 64 KiB default.
	maxLineLength = 1 << 20
)

// Load reads a cookie file from disk. Returns (nil, nil) if the file does not
// exist. Cookies already expired at load time are dropped.
func Load(path string) (*Jar, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil //nolint:nilnil // sentinel for "not found"
	}

	if err != nil {
		return nil, fmt.Errorf("cookiefile: reading %s: %w", path, err)
	}
	defer f.Close()

	jar, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("cookiefile: decoding %s: %w", path, err)
	}

	return jar, nil
}

// Decode parses Netscape cookie file content.
func Decode(r io.Reader) (*Jar, error) {
	jar := New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineLength)
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")

		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = strings.TrimPrefix(line, httpOnlyPrefix)
		}

		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		c, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		c.HTTPOnly = httpOnly
		jar.add(c)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning: %w", err)
	}

	return jar, nil
}

func parseLine(line string) (Cookie, error) {
	fields := strings.Split(line, "\t")

	// A trailing empty value is sometimes written without its tab.
	if len(fields) == fieldCount-1 {
		fields = append(fields, "")
	}

	if len(fields) != fieldCount {
		return Cookie{}, fmt.Errorf("expected %d tab-separated fields, got %d", fieldCount, len(fields))
	}

	domain := strings.ToLower(fields[0])
	if domain == "" {
		return Cookie{}, errors.New("empty domain")
	}

	// Discard-flagged session cookies are written with an empty expiry.
	var expiry int64

	if f := strings.TrimSpace(fields[4]); f != "" {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return Cookie{}, fmt.Errorf("invalid expiry %q: %w", fields[4], err)
		}

		expiry = n
	}

	c := Cookie{
		Domain:   strings.TrimPrefix(domain, "."),
		HostOnly: !strings.EqualFold(fields[1], "TRUE") && !strings.HasPrefix(domain, "."),
		Path:     fields[2],
		Secure:   strings.EqualFold(fields[3], "TRUE"),
		Name:     fields[5],
		Value:    fields[6],
	}

	if c.Path == "" {
		c.Path = "/"
	}

	if expiry > 0 {
		c.Expires = time.Unix(expiry, 0)
	}

	return c, nil
}

// Encode writes every cookie in jar in Netscape layout.
func Encode(w io.Writer, jar *Jar) error {
	var buf bytes.Buffer

	buf.WriteString(fileHeader + "\n")
	buf.WriteString("# Written by nookvault. Holds your vendor session; keep it private.\n\n")

	for _, c := range jar.All() {
		domain, flag := c.Domain, "FALSE"
		if !c.HostOnly {
			domain, flag = "."+c.Domain, "TRUE"
		}

		if c.HTTPOnly {
			domain = httpOnlyPrefix + domain
		}

		var expiry int64
		if !c.Session() {
			expiry = c.Expires.Unix()
		}

		fmt.Fprintf(&buf, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			domain, flag, c.Path, boolField(c.Secure), expiry, c.Name, c.Value)
	}

	_, err := w.Write(buf.Bytes())

	return err
}

func boolField(b bool) string {
	if b {
		return "TRUE"
	}

	return "FALSE"
}

// Save writes jar to disk atomically (write-to-temp + rename) with 0600
// permissions. Never logs cookie values.
func Save(path string, jar *Jar) error {
	var buf bytes.Buffer
	if err := Encode(&buf, jar); err != nil {
		return fmt.Errorf("cookiefile: encoding: %w", err)
	}

	dir := filepath.Dir(path)
	if mkErr := os.MkdirAll(dir, DirPerms); mkErr != nil {
		return fmt.Errorf("cookiefile: creating directory %s: %w", dir, mkErr)
	}

	// Same directory guarantees same filesystem for rename(2).
	tmp, err := os.CreateTemp(dir, ".cookies-*.tmp")
	if err != nil {
		return fmt.Errorf("cookiefile: creating temp file: %w", err)
	}

	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := os.Chmod(tmpPath, FilePerms); err != nil {
		tmp.Close()
		return fmt.Errorf("cookiefile: setting permissions: %w", err)
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("cookiefile: writing: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("cookiefile: syncing: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cookiefile: closing: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("cookiefile: renaming: %w", err)
	}

	success = true

	return nil
}
