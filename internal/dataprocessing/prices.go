package dataprocessing

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/linq-rag/linq-scoring-agent/internal/car"
	"github.com/linq-rag/linq-scoring-agent/pkg/contracts/domain"
)

// PriceLoader reads stock price JSONL files. Each line carries one ticker's
// full history for the quarter. Lines that cannot be used are skipped with a
// warning; a missing or unreadable file is the caller's quarter-level
// failure.
type PriceLoader struct {
	validator *RecordValidator
	logger    *slog.Logger
}

// NewPriceLoader creates a price loader.
func NewPriceLoader(logger *slog.Logger) *PriceLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &PriceLoader{
		validator: NewRecordValidator(),
		logger:    logger,
	}
}

// LoadPriceFile reads every usable price history from the file, each sorted
// by date ascending. The result may be empty; deciding whether an empty
// quarter is fatal stays with the caller.
func (l *PriceLoader) LoadPriceFile(ctx context.Context, path string) ([]domain.PriceHistory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open price file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, initialScanBuffer), maxScanBuffer)

	var histories []domain.PriceHistory
	lineNo := 0
	skipped := 0
	for scanner.Scan() {
		lineNo++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var history domain.PriceHistory
		if err := json.Unmarshal(raw, &history); err != nil {
			skipped++
			l.logger.WarnContext(ctx, "skipping price line",
				"error", car.NewMalformedRecordError(path, lineNo, err),
			)
			continue
		}

		if err := l.validator.ValidateStruct(history); err != nil {
			skipped++
			l.logger.WarnContext(ctx, "skipping price line",
				"error", car.NewMalformedRecordError(path, lineNo, err),
			)
			continue
		}

		history.SortByDate()
		histories = append(histories, history)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan price file: %w", err)
	}

	l.logger.DebugContext(ctx, "loaded price file",
		"path", path,
		"tickers", len(histories),
		"lines_skipped", skipped,
	)

	return histories, nil
}
