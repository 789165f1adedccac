package dataprocessing

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/linq-rag/linq-scoring-agent/pkg/contracts/domain"
)

// Quarter names one quarterly dataset directory, e.g. 2021_4Q.
type Quarter struct {
	Name string
	Dir  string
}

// ThemeFile is one theme's JSONL source within a quarter, with the theme name
// and extraction variant already resolved from the file name. Downstream code
// never inspects file names again.
type ThemeFile struct {
	Path  string
	Theme string
	Kind  domain.ThemeKind
}

// quarterPattern matches quarter directory names such as 2021_4Q.
const quarterPattern = "*_*Q"

// DiscoverQuarters lists the quarter directories under dataDir in sorted
// order. A data directory without a single quarter is an error; anything else
// in the directory is ignored.
func DiscoverQuarters(dataDir string) ([]Quarter, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("read data directory: %w", err)
	}

	quarters := make([]Quarter, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		matched, err := filepath.Match(quarterPattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("match quarter pattern: %w", err)
		}
		if !matched {
			continue
		}
		quarters = append(quarters, Quarter{
			Name: entry.Name(),
			Dir:  filepath.Join(dataDir, entry.Name()),
		})
	}

	if len(quarters) == 0 {
		return nil, fmt.Errorf("no quarter directories matching %q under %s", quarterPattern, dataDir)
	}

	sort.Slice(quarters, func(i, j int) bool {
		return quarters[i].Name < quarters[j].Name
	})

	return quarters, nil
}

// PriceFile returns the path of the quarter's stock price file. The file is
// not guaranteed to exist; a missing price file fails the quarter, not the
// run.
func (q Quarter) PriceFile() string {
	return filepath.Join(q.Dir, q.Name+"_stock_prices.jsonl")
}

// ThemeFiles lists the quarter's theme sources in sorted order. Theme files
// match *theme*.jsonl; the price file is excluded even when its name happens
// to match. A file name containing "overall" selects the transcript-wide
// extraction variant.
func (q Quarter) ThemeFiles() ([]ThemeFile, error) {
	matches, err := filepath.Glob(filepath.Join(q.Dir, "*theme*.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("glob theme files: %w", err)
	}
	sort.Strings(matches)

	files := make([]ThemeFile, 0, len(matches))
	for _, path := range matches {
		base := filepath.Base(path)
		if strings.Contains(base, "stock_prices") {
			continue
		}

		name := themeNameFromFile(base, q.Name)
		kind := domain.KindTheme
		if strings.Contains(base, "overall") {
			kind = domain.KindOverall
		}

		files = append(files, ThemeFile{Path: path, Theme: name, Kind: kind})
	}

	return files, nil
}

// themeNameFromFile strips the quarter prefix and extension from a theme file
// name: 2021_4q_theme_ai_adoption.jsonl in quarter 2021_4Q yields
// ai_adoption.
func themeNameFromFile(base, quarter string) string {
	name := strings.TrimSuffix(base, ".jsonl")
	name = strings.TrimPrefix(name, strings.ToLower(quarter)+"_theme_")
	return name
}
