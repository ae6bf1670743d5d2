package inventory

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// Manifest lists the base names of an archive's member files without
// extracting it. Supports zip and gzipped tar deliveries.
func Manifest(archivePath string) ([]string, error) {
	lower := strings.ToLower(archivePath)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return zipManifest(archivePath)
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"), strings.HasSuffix(lower, ".gz"):
		return tarGzManifest(archivePath)
	}
	return nil, fmt.Errorf("unrecognized archive format: %s", archivePath)
}

func zipManifest(archivePath string) ([]string, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("could not read zip manifest of %s: %v", archivePath, err)
	}
	defer reader.Close()

	names := make([]string, 0, len(reader.File))
	for _, member := range reader.File {
		if member.FileInfo().IsDir() {
			continue
		}
		names = append(names, path.Base(member.Name))
	}
	return names, nil
}

func tarGzManifest(archivePath string) ([]string, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %v", archivePath, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("could not read gzip archive %s: %v", archivePath, err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)
	var names []string
	for {
		header, readErr := tarReader.Next()
		switch readErr {
		case nil:
			if header.Typeflag == tar.TypeReg {
				names = append(names, path.Base(header.Name))
			}
		case io.EOF:
			return names, nil
		default:
			return nil, fmt.Errorf("corrupt tar archive %s: %v", archivePath, readErr)
		}
	}
}
