package dataprocessing

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/linq-rag/linq-scoring-agent/internal/car"
	"github.com/linq-rag/linq-scoring-agent/pkg/contracts/domain"
)

// Scanner buffer sizes for JSONL files. Theme lines carry whole quote lists
// and routinely exceed bufio's default token limit.
const (
	initialScanBuffer = 64 * 1024
	maxScanBuffer     = 16 * 1024 * 1024
)

// themeLine is the wire shape of one theme JSONL line: one scored extraction
// task for one earnings call. Only the field matching the file's extraction
// variant is read.
type themeLine struct {
	CustomID string        `json:"custom_id"`
	Theme    *scoredQuotes `json:"filtered_theme_output"`
	Overall  *scoredQuotes `json:"filtered_overall_output"`
}

// scoredQuotes pairs extracted quote texts with their sentiment scores by
// position.
type scoredQuotes struct {
	Quotes          []string  `json:"quotes"`
	SentimentScores []float64 `json:"sentiment_scores"`
}

// ThemeLoader reads theme JSONL files into ThemeRecords. Malformed lines are
// skipped with a warning; only file-level failures surface as errors.
type ThemeLoader struct {
	validator *RecordValidator
	logger    *slog.Logger
}

// NewThemeLoader creates a theme loader.
func NewThemeLoader(logger *slog.Logger) *ThemeLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &ThemeLoader{
		validator: NewRecordValidator(),
		logger:    logger,
	}
}

// LoadThemeFile reads one theme file into a single ThemeRecord, flattening
// the per-call quote lists across lines. Every quote inherits the ticker and
// event date parsed from its line's task identifier. Lines without quotes for
// the file's variant are skipped silently; lines that cannot be used are
// skipped with a warning and do not interrupt the load.
func (l *ThemeLoader) LoadThemeFile(ctx context.Context, file ThemeFile, quarter string) (domain.ThemeRecord, error) {
	record := domain.ThemeRecord{
		Quarter: quarter,
		Name:    file.Theme,
		Kind:    file.Kind,
	}

	f, err := os.Open(file.Path)
	if err != nil {
		return record, fmt.Errorf("open theme file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, initialScanBuffer), maxScanBuffer)

	lineNo := 0
	skipped := 0
	for scanner.Scan() {
		lineNo++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var entry themeLine
		if err := json.Unmarshal(raw, &entry); err != nil {
			skipped++
			l.logger.WarnContext(ctx, "skipping theme line",
				"theme", file.Theme,
				"error", car.NewMalformedRecordError(file.Path, lineNo, err),
			)
			continue
		}

		quotes, err := l.lineQuotes(entry, file.Kind)
		if err != nil {
			skipped++
			l.logger.WarnContext(ctx, "skipping theme line",
				"theme", file.Theme,
				"error", car.NewMalformedRecordError(file.Path, lineNo, err),
			)
			continue
		}

		record.Quotes = append(record.Quotes, quotes...)
	}
	if err := scanner.Err(); err != nil {
		return record, fmt.Errorf("scan theme file: %w", err)
	}

	if err := l.validator.ValidateStruct(record); err != nil {
		return record, fmt.Errorf("theme record from %s: %w", file.Path, err)
	}

	l.logger.DebugContext(ctx, "loaded theme file",
		"quarter", quarter,
		"theme", file.Theme,
		"kind", string(file.Kind),
		"quotes", len(record.Quotes),
		"lines_skipped", skipped,
	)

	return record, nil
}

// lineQuotes extracts the scored quotes of one line for the given extraction
// variant. A nil slice with a nil error means the line holds nothing for this
// variant, which is not a defect.
func (l *ThemeLoader) lineQuotes(entry themeLine, kind domain.ThemeKind) ([]domain.Quote, error) {
	output := entry.Theme
	if kind == domain.KindOverall {
		output = entry.Overall
	}
	if output == nil || len(output.Quotes) == 0 {
		return nil, nil
	}

	if len(output.SentimentScores) != len(output.Quotes) {
		return nil, fmt.Errorf("%d sentiment scores for %d quotes", len(output.SentimentScores), len(output.Quotes))
	}

	ticker, eventDate, err := ParseCustomID(entry.CustomID)
	if err != nil {
		return nil, err
	}

	quotes := make([]domain.Quote, 0, len(output.Quotes))
	for i, text := range output.Quotes {
		quote := domain.Quote{
			Text:      text,
			Score:     output.SentimentScores[i],
			Ticker:    ticker,
			EventDate: eventDate,
		}
		if err := l.validator.ValidateStruct(quote); err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}

	return quotes, nil
}

// ParseCustomID extracts the ticker and event date from a task identifier of
// the form task-TICKER-YY-MM-DD_suffix. Two-digit years map to 20YY.
func ParseCustomID(customID string) (ticker, eventDate string, err error) {
	if !strings.HasPrefix(customID, "task-") {
		return "", "", fmt.Errorf("custom_id %q does not start with task-", customID)
	}

	parts := strings.Split(customID, "-")
	if len(parts) < 5 {
		return "", "", fmt.Errorf("custom_id %q has %d segments, need at least 5", customID, len(parts))
	}

	ticker = strings.ToUpper(strings.TrimSpace(parts[1]))
	if ticker == "" {
		return "", "", fmt.Errorf("custom_id %q has an empty ticker segment", customID)
	}

	day, _, _ := strings.Cut(parts[4], "_")
	eventDate = fmt.Sprintf("20%s-%s-%s", parts[2], parts[3], day)

	return ticker, eventDate, nil
}
