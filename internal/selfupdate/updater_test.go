package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// releaseHost serves the latest-release API and the download tree for the
// cookiz repository. files maps "<tag>/<file>" to content.
type releaseHost struct {
	latest string
	files  map[string][]byte

	mu   sync.Mutex
	hits []string
}

func (h *releaseHost) start(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.hits = append(h.hits, r.URL.Path)
		h.mu.Unlock()
		if r.URL.Path == "/repos/abhisek/cookiz/releases/latest" {
			fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://github.com/abhisek/cookiz/releases/tag/%s"}`, h.latest, h.latest)
			return
		}
		key, ok := strings.CutPrefix(r.URL.Path, "/abhisek/cookiz/releases/download/")
		if body, found := h.files[key]; ok && found {
			_, _ = w.Write(body)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	return server
}

// publish adds an archive and a checksums.txt listing it.
func (h *releaseHost) publish(tag, name string, archive []byte) {
	if h.files == nil {
		h.files = map[string][]byte{}
	}
	sum := sha256.Sum256(archive)
	h.files[tag+"/"+name] = archive
	h.files[tag+"/checksums.txt"] = append(h.files[tag+"/checksums.txt"],
		fmt.Sprintf("%s  %s\n", hex.EncodeToString(sum[:]), name)...)
}

func installedBinary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cookiz")
	require.NoError(t, os.WriteFile(path, []byte("cookiz v1.0.0"), 0o755))
	return path
}

func checkerFor(server *httptest.Server, exe, goos, goarch string) *Checker {
	return NewChecker(
		WithBaseURL(server.URL),
		WithDownloadBaseURL(server.URL),
		withExecPath(func() (string, error) { return exe, nil }),
		withPlatform(goos, goarch),
	)
}

func TestAssetFor(t *testing.T) {
	tests := []struct {
		goos, goarch string
		name, binary string
		zipped       bool
		wantErr      string
	}{
		{goos: "darwin", goarch: "arm64", name: "cookiz_Darwin_all.tar.gz", binary: "cookiz"},
		{goos: "darwin", goarch: "amd64", name: "cookiz_Darwin_all.tar.gz", binary: "cookiz"},
		{goos: "linux", goarch: "amd64", name: "cookiz_Linux_x86_64.tar.gz", binary: "cookiz"},
		{goos: "linux", goarch: "386", name: "cookiz_Linux_i386.tar.gz", binary: "cookiz"},
		{goos: "windows", goarch: "arm64", name: "cookiz_Windows_arm64.zip", binary: "cookiz.exe", zipped: true},
		{goos: "linux", goarch: "riscv64", wantErr: "unsupported architecture: riscv64"},
		{goos: "plan9", goarch: "amd64", wantErr: "unsupported operating system: plan9"},
	}
	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			a, err := assetFor(tt.goos, tt.goarch)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, asset{name: tt.name, binary: tt.binary, zipped: tt.zipped}, a)
		})
	}
}

func TestUpdate_LatestLinuxRelease(t *testing.T) {
	host := &releaseHost{latest: "v1.4.0"}
	host.publish("v1.4.0", "cookiz_Linux_x86_64.tar.gz", tarGz(t, "cookiz", []byte("cookiz v1.4.0")))
	host.publish("v1.4.0", "cookiz_Linux_arm64.tar.gz", tarGz(t, "cookiz", []byte("wrong arch")))
	exe := installedBinary(t)

	var stages []string
	err := checkerFor(host.start(t), exe, "linux", "amd64").Update(context.Background(),
		&UpdateInput{CurrentVersion: "v1.0.0"},
		func(p UpdateProgress) { stages = append(stages, p.Stage) })
	require.NoError(t, err)

	got, err := os.ReadFile(exe)
	require.NoError(t, err)
	assert.Equal(t, "cookiz v1.4.0", string(got))

	info, err := os.Stat(exe)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	assert.Equal(t, []string{"check", "download", "verify", "extract", "apply", "done"}, stages)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(exe), ".cookiz-update-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestUpdate_PinnedWindowsRelease(t *testing.T) {
	host := &releaseHost{latest: "v2.0.0"}
	host.publish("v1.2.0", "cookiz_Windows_x86_64.zip", zipped(t, "cookiz.exe", []byte("cookiz v1.2.0")))
	exe := installedBinary(t)

	var stages []string
	err := checkerFor(host.start(t), exe, "windows", "amd64").Update(context.Background(),
		&UpdateInput{CurrentVersion: "v1.0.0", TargetVersion: "1.2.0"},
		func(p UpdateProgress) { stages = append(stages, p.Stage) })
	require.NoError(t, err)

	got, err := os.ReadFile(exe)
	require.NoError(t, err)
	assert.Equal(t, "cookiz v1.2.0", string(got))
	assert.NotContains(t, stages, "check", "a pinned version skips the release lookup")
	host.mu.Lock()
	defer host.mu.Unlock()
	assert.NotContains(t, host.hits, "/repos/abhisek/cookiz/releases/latest")
}

func TestUpdate_Refusals(t *testing.T) {
	host := &releaseHost{latest: "v1.0.0"}
	server := host.start(t)

	t.Run("dev build", func(t *testing.T) {
		err := checkerFor(server, "", "linux", "amd64").Update(context.Background(), &UpdateInput{CurrentVersion: "(devel)"}, nil)
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		err := checkerFor(server, "", "linux", "amd64").Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("pinned version not semver", func(t *testing.T) {
		err := checkerFor(server, "", "linux", "amd64").Update(context.Background(),
			&UpdateInput{CurrentVersion: "v1.0.0", TargetVersion: "latest"}, nil)
		assert.EqualError(t, err, `target version "latest" is not a semantic version`)
	})

	t.Run("unsupported platform", func(t *testing.T) {
		err := checkerFor(server, "", "linux", "mips").Update(context.Background(),
			&UpdateInput{CurrentVersion: "v1.0.0", TargetVersion: "v1.0.0"}, nil)
		assert.EqualError(t, err, "unsupported architecture: mips")
	})
}

func TestUpdate_BadRelease(t *testing.T) {
	good := tarGz(t, "cookiz", []byte("cookiz v1.1.0"))

	tests := []struct {
		name    string
		setup   func(h *releaseHost)
		wantIs  error
		wantMsg string
	}{
		{
			name: "checksum mismatch",
			setup: func(h *releaseHost) {
				h.publish("v1.1.0", "cookiz_Linux_x86_64.tar.gz", good)
				h.files["v1.1.0/cookiz_Linux_x86_64.tar.gz"] = tarGz(t, "cookiz", []byte("tampered"))
			},
			wantIs: ErrChecksum,
		},
		{
			name: "asset missing from checksums",
			setup: func(h *releaseHost) {
				h.publish("v1.1.0", "cookiz_Linux_arm64.tar.gz", good)
				h.files["v1.1.0/cookiz_Linux_x86_64.tar.gz"] = good
			},
			wantIs:  ErrChecksum,
			wantMsg: "cookiz_Linux_x86_64.tar.gz is not listed",
		},
		{
			name:    "archive not published",
			setup:   func(h *releaseHost) {},
			wantMsg: "download archive: HTTP 404",
		},
		{
			name: "binary missing from archive",
			setup: func(h *releaseHost) {
				h.publish("v1.1.0", "cookiz_Linux_x86_64.tar.gz", tarGz(t, "README.md", []byte("docs")))
			},
			wantMsg: "extract binary: cookiz not found in archive",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &releaseHost{latest: "v1.1.0", files: map[string][]byte{}}
			tt.setup(host)
			exe := installedBinary(t)

			err := checkerFor(host.start(t), exe, "linux", "amd64").Update(context.Background(),
				&UpdateInput{CurrentVersion: "v1.0.0"}, nil)

			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
			got, readErr := os.ReadFile(exe)
			require.NoError(t, readErr)
			assert.Equal(t, "cookiz v1.0.0", string(got), "installed binary untouched")
		})
	}
}

func TestParseChecksums(t *testing.T) {
	sums := parseChecksums([]byte(
		"ABC123  cookiz_Darwin_all.tar.gz\n" +
			"\n" +
			"def456  cookiz_Linux_x86_64.tar.gz\n" +
			"garbage\n" +
			"a b c\n",
	))

	assert.Equal(t, map[string]string{
		"cookiz_Darwin_all.tar.gz":   "abc123",
		"cookiz_Linux_x86_64.tar.gz": "def456",
	}, sums)
}

func TestReplaceFile_MissingTarget(t *testing.T) {
	err := replaceFile(filepath.Join(t.TempDir(), "cookiz"), []byte("new"))
	assert.ErrorContains(t, err, "stat target")
}

func tarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "cookiz_1/" + name, Size: int64(len(content)), Mode: 0o755, Typeflag: tar.TypeReg}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func zipped(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
