// Package update checks GitHub releases for a newer lakedash binary and
// installs it in place.
package update

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/lakedash/lakedash/internal/config"
	"golang.org/x/mod/semver"
)

const (
	releaseURL    = "https://api.github.com/repos/lakedash/lakedash/releases/latest"
	cacheFileName = "update_check.json"
	cacheDuration = 1 * time.Hour
)

// Release is the subset of a GitHub release the checker needs.
type Release struct {
	TagName string  `json:"tag_name"`
	Body    string  `json:"body"`
	Assets  []Asset `json:"assets"`
}

// Asset is one downloadable file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Info describes an available update.
type Info struct {
	CurrentVersion string
	LatestVersion  string
	DownloadURL    string
	AssetName      string
	Size           int64
	Checksum       string
}

// cachedCheck records the last release lookup so repeated invocations
// within the cache window skip the GitHub API.
type cachedCheck struct {
	CheckedAt time.Time `json:"checked_at"`
	Version   string    `json:"version"`
}

// Check reports whether a newer release exists. A nil Info with a nil
// error means the current build is up to date. forceCheck bypasses the
// one-hour cache.
func Check(currentVersion string, forceCheck bool) (*Info, error) {
	current := normalize(currentVersion)
	if current == "" {
		// Dev builds (commit hashes, "dev") have no comparable version;
		// always report the latest release.
		forceCheck = true
	}

	if !forceCheck {
		if cached, err := loadCache(); err == nil && time.Since(cached.CheckedAt) < cacheDuration {
			if current != "" && semver.Compare(normalize(cached.Version), current) <= 0 {
				return nil, nil
			}
			// Cache says an update exists but asset details are stale;
			// fall through to a fresh lookup.
		}
	}

	release, err := fetchLatestRelease()
	if err != nil {
		return nil, fmt.Errorf("check for updates: %w", err)
	}
	saveCache(release.TagName)

	latest := normalize(release.TagName)
	if current != "" && semver.Compare(latest, current) <= 0 {
		return nil, nil
	}

	assetName := fmt.Sprintf("lakedash_%s_%s_%s.tar.gz",
		strings.TrimPrefix(release.TagName, "v"), runtime.GOOS, runtime.GOARCH)

	var asset, sums *Asset
	for i := range release.Assets {
		switch release.Assets[i].Name {
		case assetName:
			asset = &release.Assets[i]
		case "SHA256SUMS", "checksums.txt":
			sums = &release.Assets[i]
		}
	}
	if asset == nil {
		return nil, fmt.Errorf("no release asset found for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	var checksum string
	if sums != nil {
		checksum, _ = fetchChecksum(sums.BrowserDownloadURL, assetName)
	}
	if checksum == "" {
		checksum = extractChecksum(release.Body, assetName)
	}

	return &Info{
		CurrentVersion: currentVersion,
		LatestVersion:  release.TagName,
		DownloadURL:    asset.BrowserDownloadURL,
		AssetName:      asset.Name,
		Size:           asset.Size,
		Checksum:       checksum,
	}, nil
}

// Install downloads, verifies, and installs the release over the current
// executable. progressFn, when non-nil, receives download progress.
func Install(info *Info, progressFn func(downloaded, total int64)) error {
	if info.Checksum == "" {
		return fmt.Errorf("no checksum available for %s - refusing to install unverified binary", info.AssetName)
	}

	tempDir, err := os.MkdirTemp("", "lakedash-update-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	archivePath := filepath.Join(tempDir, info.AssetName)
	sum, err := downloadFile(info.DownloadURL, archivePath, info.Size, progressFn)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	if !strings.EqualFold(sum, info.Checksum) {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", info.Checksum, sum)
	}

	extractDir := filepath.Join(tempDir, "extracted")
	if err := extractTarGz(archivePath, extractDir); err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	srcPath := filepath.Join(extractDir, "lakedash")
	if _, err := os.Stat(srcPath); os.IsNotExist(err) {
		return fmt.Errorf("binary not found in archive")
	}

	currentExe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("find current executable: %w", err)
	}
	currentExe, err = filepath.EvalSymlinks(currentExe)
	if err != nil {
		return fmt.Errorf("resolve symlinks: %w", err)
	}

	return installBinaryTo(srcPath, filepath.Join(filepath.Dir(currentExe), "lakedash"))
}

// installBinaryTo swaps dstPath for the binary at srcPath, keeping a
// backup until the copy succeeds.
func installBinaryTo(srcPath, dstPath string) error {
	backupPath := dstPath + ".old"
	os.Remove(backupPath)

	if _, err := os.Stat(dstPath); err == nil {
		if err := os.Rename(dstPath, backupPath); err != nil {
			return fmt.Errorf("backup: %w", err)
		}
	}

	if err := copyFile(srcPath, dstPath); err != nil {
		_ = os.Rename(backupPath, dstPath)
		return fmt.Errorf("install: %w", err)
	}
	if err := os.Chmod(dstPath, 0755); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}

	os.Remove(backupPath)
	return nil
}

func fetchLatestRelease() (*Release, error) {
	req, err := http.NewRequest("GET", releaseURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "lakedash-update")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned %s", resp.Status)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}
	return &release, nil
}

func downloadFile(url, dest string, totalSize int64, progressFn func(downloaded, total int64)) (string, error) {
	resp, err := http.Get(url) //nolint:gosec
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: %s", resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer out.Close()

	hasher := sha256.New()
	writer := io.MultiWriter(out, hasher)

	var downloaded int64
	buf := make([]byte, 32*1024)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := writer.Write(buf[:n]); werr != nil {
				return "", werr
			}
			downloaded += int64(n)
			if progressFn != nil {
				progressFn(downloaded, totalSize)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func extractTarGz(archivePath, destDir string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}
	absDestDir, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("resolve dest dir: %w", err)
	}

	file, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer file.Close()

	gzr, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		target, err := sanitizeTarPath(absDestDir, header.Name)
		if err != nil {
			return fmt.Errorf("invalid tar entry %q: %w", header.Name, err)
		}

		// Links could point outside the extraction dir.
		if header.Typeflag == tar.TypeSymlink || header.Typeflag == tar.TypeLink {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			outFile, err := os.Create(target)
			if err != nil {
				return err
			}
			if _, err := io.Copy(outFile, tr); err != nil {
				outFile.Close()
				return err
			}
			outFile.Close()
			if err := os.Chmod(target, os.FileMode(header.Mode)); err != nil {
				return err
			}
		}
	}
	return nil
}

// sanitizeTarPath rejects tar entry names that would escape destDir.
func sanitizeTarPath(destDir, name string) (string, error) {
	if strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("absolute path not allowed")
	}

	cleanName := filepath.Clean(name)
	if filepath.IsAbs(cleanName) {
		return "", fmt.Errorf("absolute path not allowed")
	}
	if cleanName == ".." || strings.HasPrefix(cleanName, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal not allowed")
	}

	target := filepath.Join(destDir, cleanName)
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	absDestDir, err := filepath.Abs(destDir)
	if err != nil {
		return "", err
	}
	if absTarget != absDestDir && !strings.HasPrefix(absTarget, absDestDir+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes destination directory")
	}
	return target, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func fetchChecksum(url, assetName string) (string, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url) //nolint:gosec
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch checksums: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return extractChecksum(string(body), assetName), nil
}

var checksumPattern = regexp.MustCompile(`(?i)^[a-f0-9]{64}$`)

// extractChecksum scans "checksum  filename" lines (sha256sum format,
// optionally with the binary-mode * prefix) for the named asset.
func extractChecksum(text, assetName string) string {
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 2 {
			continue
		}
		if strings.TrimPrefix(fields[1], "*") != assetName {
			continue
		}
		if checksumPattern.MatchString(fields[0]) {
			return strings.ToLower(fields[0])
		}
	}
	return ""
}

func loadCache() (*cachedCheck, error) {
	data, err := os.ReadFile(filepath.Join(config.DefaultHome(), cacheFileName))
	if err != nil {
		return nil, err
	}
	var cached cachedCheck
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

func saveCache(version string) {
	data, err := json.Marshal(cachedCheck{CheckedAt: time.Now(), Version: version})
	if err != nil {
		return
	}
	cachePath := filepath.Join(config.DefaultHome(), cacheFileName)
	os.MkdirAll(filepath.Dir(cachePath), 0755) //nolint:errcheck
	os.WriteFile(cachePath, data, 0600)        //nolint:errcheck
}

// normalize converts a version string to canonical semver with a "v"
// prefix, or "" when the string is not a release version (dev builds,
// git describe output, bare commit hashes).
func normalize(v string) string {
	v = "v" + strings.TrimPrefix(v, "v")
	if !semver.IsValid(v) {
		return ""
	}
	// Git-describe suffixes (v0.3.0-5-gabcdef) parse as prerelease but
	// describe a build after the tag, not before it.
	if gitDescribePattern.MatchString(v) {
		return ""
	}
	return semver.Canonical(v)
}

var gitDescribePattern = regexp.MustCompile(`-\d+-g[0-9a-f]+(-dirty)?$`)

// FormatSize formats bytes as a human-readable string.
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
