package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

// UpdateInput selects the release to install. An empty TargetVersion
// installs the latest release.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

// UpdateProgress is reported once per stage: check, download, verify,
// extract, apply, done.
type UpdateProgress struct {
	Stage   string
	Message string
}

// asset is one release archive as published by the release pipeline:
// cookiz_<OS>_<arch>.tar.gz, or .zip on Windows.
type asset struct {
	name   string
	binary string // file inside the archive
	zipped bool
}

var releaseArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "i386",
}

// assetFor names the archive for a platform. macOS ships one universal
// archive.
func assetFor(goos, goarch string) (asset, error) {
	if goos == "darwin" {
		return asset{name: binaryName + "_Darwin_all.tar.gz", binary: binaryName}, nil
	}
	arch, ok := releaseArch[goarch]
	if !ok {
		return asset{}, fmt.Errorf("unsupported architecture: %s", goarch)
	}
	switch goos {
	case "linux":
		return asset{name: fmt.Sprintf("%s_Linux_%s.tar.gz", binaryName, arch), binary: binaryName}, nil
	case "windows":
		return asset{name: fmt.Sprintf("%s_Windows_%s.zip", binaryName, arch), binary: binaryName + ".exe", zipped: true}, nil
	}
	return asset{}, fmt.Errorf("unsupported operating system: %s", goos)
}

// Update downloads, verifies and swaps in the release binary in place of
// the running executable.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	if isDevBuild(input.CurrentVersion) {
		return ErrDevBuild
	}
	report := func(stage, format string, args ...any) {
		if progress != nil {
			progress(UpdateProgress{Stage: stage, Message: fmt.Sprintf(format, args...)})
		}
	}

	tag, err := c.targetTag(ctx, input, report)
	if err != nil {
		return err
	}
	a, err := assetFor(c.goos, c.goarch)
	if err != nil {
		return err
	}

	report("download", "Downloading %s...", a.name)
	archive, err := c.fetch(ctx, c.downloadURL(tag, a.name))
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	report("verify", "Verifying checksum...")
	sums, err := c.fetch(ctx, c.downloadURL(tag, "checksums.txt"))
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	want, ok := parseChecksums(sums)[a.name]
	if !ok {
		return fmt.Errorf("%w: %s is not listed in checksums.txt", ErrChecksum, a.name)
	}
	if err := verifyChecksum(archive, want); err != nil {
		return err
	}

	report("extract", "Extracting %s...", a.binary)
	bin, err := a.extract(archive)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	report("apply", "Replacing the running binary...")
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	if err := replaceFile(target, bin); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	c.log.Info().Str("from", input.CurrentVersion).Str("to", tag).Str("path", target).Msg("binary updated")
	report("done", "Updated to %s", tag)
	return nil
}

// targetTag resolves the release to install. A pinned version is used as
// given, with a "v" prefix added when missing.
func (c *Checker) targetTag(ctx context.Context, input *UpdateInput, report func(string, string, ...any)) (string, error) {
	if input.TargetVersion != "" {
		tag := input.TargetVersion
		if canonical(tag) == "" {
			return "", fmt.Errorf("target version %q is not a semantic version", tag)
		}
		if !strings.HasPrefix(tag, "v") {
			tag = "v" + tag
		}
		return tag, nil
	}

	report("check", "Checking for the latest release...")
	result, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
	if err != nil {
		return "", fmt.Errorf("check for updates: %w", err)
	}
	if !result.UpdateAvailable {
		return "", ErrAlreadyLatest
	}
	return result.LatestVersion, nil
}

func (c *Checker) downloadURL(tag, file string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s", strings.TrimRight(c.downloadBaseURL, "/"), c.owner, c.repo, tag, file)
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// parseChecksums reads "<sha256>  <file>" lines; anything else is skipped.
func parseChecksums(data []byte) map[string]string {
	sums := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 2 {
			sums[fields[1]] = strings.ToLower(fields[0])
		}
	}
	return sums
}

func verifyChecksum(data []byte, wantHex string) error {
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != wantHex {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksum, wantHex, got)
	}
	return nil
}

func (a asset) extract(archive []byte) ([]byte, error) {
	if a.zipped {
		return extractZip(archive, a.binary)
	}
	return extractTarGz(archive, a.binary)
}

func extractTarGz(data []byte, name string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s not found in archive", name)
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == name {
			return io.ReadAll(tr)
		}
	}
}

func extractZip(data []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || filepath.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}

// replaceFile writes bin next to target and renames it over target,
// keeping target's mode. The staged copy is re-read and hashed before the
// rename.
func replaceFile(target string, bin []byte) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}

	staging, err := os.MkdirTemp(filepath.Dir(target), "."+binaryName+"-update-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	staged := filepath.Join(staging, binaryName)
	if err := os.WriteFile(staged, bin, 0o600); err != nil {
		return fmt.Errorf("write staged binary: %w", err)
	}
	written, err := os.ReadFile(staged)
	if err != nil {
		return fmt.Errorf("re-read staged binary: %w", err)
	}
	if sha256.Sum256(written) != sha256.Sum256(bin) {
		return fmt.Errorf("%w: staged binary changed after write", ErrChecksum)
	}
	if err := os.Chmod(staged, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(staged, target); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
