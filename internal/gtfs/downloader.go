package gtfs

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
)

// Downloader fetches a GTFS feed zip and extracts the schedule tables into a
// local directory, for deployments that don't ship the .txt files directly.
type Downloader struct {
	client *http.Client
	url    string
	dir    string
	logger *slog.Logger
}

// NewDownloader creates a Downloader for the given feed URL.
func NewDownloader(url, dir string, logger *slog.Logger) *Downloader {
	return &Downloader{
		client: &http.Client{},
		url:    url,
		dir:    dir,
		logger: logger,
	}
}

// EnsureData downloads and extracts the feed if the tables are not already
// present. Presence of stops.txt is the marker for an extracted feed.
func (d *Downloader) EnsureData(ctx context.Context) error {
	if _, err := os.Stat(filepath.Join(d.dir, "stops.txt")); err == nil {
		d.logger.Info("GTFS tables already present", "dir", d.dir)
		return nil
	}
	d.logger.Info("no GTFS tables found, performing initial download")
	return d.Download(ctx)
}

// Download fetches the feed zip and extracts the schedule tables into dir.
func (d *Downloader) Download(ctx context.Context) error {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", d.url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	d.logger.Info("downloading GTFS feed", "url", d.url)
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp(d.dir, "gtfs-*.zip")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	written, err := io.Copy(tmpFile, resp.Body)
	tmpFile.Close()
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	d.logger.Info("GTFS feed downloaded",
		"size_mb", fmt.Sprintf("%.1f", float64(written)/(1024*1024)),
	)
	return d.extract(tmpFile.Name())
}

// extract unpacks the schedule tables from the zip into dir.
func (d *Downloader) extract(zipPath string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	wanted := make(map[string]bool, len(tableFiles))
	for _, name := range tableFiles {
		wanted[name] = true
	}

	extracted := 0
	for _, f := range r.File {
		if !wanted[f.Name] {
			continue
		}
		if err := d.extractFile(f); err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
		extracted++
	}
	if extracted < len(tableFiles) {
		return fmt.Errorf("feed zip is missing tables: %d of %d found", extracted, len(tableFiles))
	}

	d.logger.Info("GTFS tables extracted", "dir", d.dir, "files", extracted)
	return nil
}

func (d *Downloader) extractFile(f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(filepath.Join(d.dir, f.Name))
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}
