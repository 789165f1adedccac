package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linq-rag/linq-scoring-agent/internal/config"
)

// testPaths builds a Paths value rooted in a per-test temp directory.
func testPaths(t *testing.T) *config.Paths {
	t.Helper()

	tempDir := t.TempDir()
	return &config.Paths{
		DataDir:   filepath.Join(tempDir, "data"),
		OutputDir: filepath.Join(tempDir, "output"),
		LogsDir:   filepath.Join(tempDir, "logs"),
	}
}

func TestNewCSVWriter(t *testing.T) {
	paths := &config.Paths{}
	writer := NewCSVWriter(paths)

	assert.NotNil(t, writer)
	assert.Equal(t, paths, writer.paths)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	tests := []struct {
		name        string
		filePath    string
		options     WriteOptions
		expectError bool
		validate    func(t *testing.T, filePath string)
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"Theme", "Correlation"},
				Records: [][]string{
					{"ai_adoption", "0.42"},
					{"supply_chain", "-0.31"},
				},
				Append:    false,
				BOMPrefix: false,
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 3) // header + 2 records
				assert.Equal(t, "Theme,Correlation", lines[0])
				assert.Equal(t, "ai_adoption,0.42", lines[1])
				assert.Equal(t, "supply_chain,-0.31", lines[2])
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "test_bom.csv",
			options: WriteOptions{
				Headers: []string{"Theme", "N"},
				Records: [][]string{
					{"margins", "12"},
				},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				assert.True(t, len(content) >= 3)
				assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, content[:3])
				assert.Contains(t, string(content[3:]), "Theme,N")
			},
		},
		{
			name:     "write with comment line",
			filePath: "test_comment.csv",
			options: WriteOptions{
				Comment: "cohorts: overall n=4 positive n=3 negative n=1",
				Headers: []string{"Day", "Overall"},
				Records: [][]string{
					{"0", "0.010000"},
				},
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Equal(t, "# cohorts: overall n=4 positive n=3 negative n=1", lines[0])
				assert.Equal(t, "Day,Overall", lines[1])
				assert.Equal(t, "0,0.010000", lines[2])
			},
		},
		{
			name:     "empty records writes header only",
			filePath: "test_empty.csv",
			options: WriteOptions{
				Headers: []string{"Theme", "Correlation"},
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 1)
				assert.Equal(t, "Theme,Correlation", lines[0])
			},
		},
		{
			name:     "nested relative path creates directories",
			filePath: filepath.Join("2021_4Q", "nested.csv"),
			options: WriteOptions{
				Headers: []string{"Day"},
				Records: [][]string{{"0"}},
			},
			validate: func(t *testing.T, filePath string) {
				assert.FileExists(t, filePath)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writer.WriteCSV(tt.filePath, tt.options)

			if tt.expectError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			tt.validate(t, filepath.Join(paths.OutputDir, tt.filePath))
		})
	}
}

func TestCSVWriter_Append(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	require.NoError(t, writer.WriteSimpleCSV("append.csv", []string{"Theme", "N"}, [][]string{
		{"ai_adoption", "12"},
	}))

	require.NoError(t, writer.AppendToCSV("append.csv", [][]string{
		{"supply_chain", "8"},
	}))

	content, err := os.ReadFile(filepath.Join(paths.OutputDir, "append.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[2], "supply_chain,8")
}

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	err := writer.WriteSimpleCSV("simple.csv", []string{"A", "B"}, [][]string{{"1", "2"}})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(paths.OutputDir, "simple.csv"))
	require.NoError(t, err)

	// Simple writes are Excel-friendly and carry the BOM
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, content[:3])
}

func TestCSVWriter_ResolvePath(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	absolute := filepath.Join(t.TempDir(), "direct.csv")
	assert.Equal(t, absolute, writer.resolvePath(absolute))

	assert.Equal(t,
		filepath.Join(paths.OutputDir, "table.csv"),
		writer.resolvePath("table.csv"))

	// A writer without paths leaves relative paths alone
	bare := NewCSVWriter(nil)
	assert.Equal(t, "table.csv", bare.resolvePath("table.csv"))
}
