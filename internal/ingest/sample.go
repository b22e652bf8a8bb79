package ingest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SampleName derives a readable sample identity from an export file name
// like "9.30_tga_mek_5%_fabric_930.csv". Recognized tokens (formulation,
// loading percentage, substrate) are joined; files without any fall back to
// the bare stem. Grouping by the returned name is a caller decision; the
// analysis engine itself never infers grouping.
func SampleName(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	var parts []string
	for _, tok := range strings.Split(stem, "_") {
		lower := strings.ToLower(tok)
		switch {
		case strings.Contains(lower, "mek"):
			parts = append(parts, "MEK")
		case strings.Contains(tok, "%"):
			parts = append(parts, tok)
		case strings.Contains(lower, "fabric"):
			parts = append(parts, "Fabric")
		case strings.Contains(lower, "bulk"):
			parts = append(parts, "Bulk")
		}
	}
	if len(parts) == 0 {
		return stem
	}
	return strings.Join(parts, "-")
}

// ScanFolder lists the data files under dir with any of the given
// extensions (e.g. ".csv", ".txt"), sorted for deterministic trial order.
func ScanFolder(dir string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range exts {
			if ext == want {
				files = append(files, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
