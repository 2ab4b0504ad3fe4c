package sandbox

import (
	"archive/tar"
	"bytes"
	"fmt"
	"sort"
)

// packArchive serializes a mapping of in-container paths to text content into
// a single tar archive. Entries are written in sorted path order so the same
// mapping always produces the same archive. An empty mapping yields a valid
// empty archive.
func packArchive(files map[string]string) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	tw := tar.NewWriter(buf)

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		content := []byte(files[p])
		hdr := &tar.Header{
			Name: p,
			Mode: 0o644,
			Size: int64(len(content)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, fmt.Errorf("failed to write archive header for %s: %w", p, err)
		}
		if _, err := tw.Write(content); err != nil {
			return nil, fmt.Errorf("failed to write archive entry for %s: %w", p, err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf, nil
}
