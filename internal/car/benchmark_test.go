package car

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/linq-rag/linq-scoring-agent/pkg/contracts/domain"
)

// Benchmark tests for the hot paths of the quarter analysis
// These measure performance at realistic quarterly data volumes

// BenchmarkBuildSeries benchmarks event-anchored series construction
func BenchmarkBuildSeries(b *testing.B) {
	benchmarks := []struct {
		name   string
		window Window
		days   int
	}{
		{"window_20_days", Window20, 90},
		{"window_60_days", Window60, 150},
		{"window_120_days", Window120, 250},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			index := generateBenchmarkIndex(1, bm.days)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				BuildSeries(index, "TICK000", benchmarkDate(5), bm.window)
			}
		})
	}
}

// BenchmarkCompound benchmarks curve construction
func BenchmarkCompound(b *testing.B) {
	benchmarks := []struct {
		name string
		size int
	}{
		{"short_series_21_points", 21},
		{"standard_series_61_points", 61},
		{"long_series_121_points", 121},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			series := make(ReturnSeries, bm.size)
			for i := range series {
				series[i] = 0.001 * float64(i%7-3)
			}

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				Compound(series)
			}
		})
	}
}

// BenchmarkCorrelate benchmarks the correlation computation
func BenchmarkCorrelate(b *testing.B) {
	benchmarks := []struct {
		name string
		size int
	}{
		{"small_theme_10_quotes", 10},
		{"medium_theme_100_quotes", 100},
		{"large_theme_1000_quotes", 1000},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			scores := make([]float64, bm.size)
			reactions := make([]float64, bm.size)
			for i := range scores {
				scores[i] = float64(i%21-10) / 10
				reactions[i] = float64((i*7)%19-9) / 300
			}

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				if _, _, err := Correlate(scores, reactions); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkAnalyze benchmarks the full quarter pass
func BenchmarkAnalyze(b *testing.B) {
	benchmarks := []struct {
		name    string
		themes  int
		quotes  int
		tickers int
	}{
		{"small_quarter", 10, 20, 20},
		{"medium_quarter", 50, 40, 100},
		{"large_quarter", 200, 60, 300},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			index := generateBenchmarkIndex(bm.tickers, 150)
			themes := generateBenchmarkThemes(bm.themes, bm.quotes, bm.tickers)
			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			analyzer := NewAnalyzer(Window60, logger)
			ctx := context.Background()

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				if _, err := analyzer.Analyze(ctx, "2021_1Q", themes, index); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// generateBenchmarkIndex builds a price index with the given number of
// tickers, each carrying days of consecutive observations.
func generateBenchmarkIndex(tickers, days int) *PriceIndex {
	histories := make([]domain.PriceHistory, tickers)
	for i := range histories {
		records := make([]domain.PriceRecord, days)
		for d := range records {
			ret := 0.0005 * float64((i+d)%9-4)
			records[d] = domain.PriceRecord{
				Date:           benchmarkDate(d),
				AbnormalReturn: &ret,
				Close:          100 + float64(d),
			}
		}
		histories[i] = domain.PriceHistory{
			Ticker:  fmt.Sprintf("TICK%03d", i),
			Records: records,
		}
	}
	return NewPriceIndex(histories)
}

// generateBenchmarkThemes spreads quotes across the benchmark tickers with
// event dates inside the generated price coverage.
func generateBenchmarkThemes(themes, quotes, tickers int) []domain.ThemeRecord {
	records := make([]domain.ThemeRecord, themes)
	for i := range records {
		qs := make([]domain.Quote, quotes)
		for j := range qs {
			qs[j] = domain.Quote{
				Text:      "benchmark quote",
				Score:     float64((i+j)%21-10) / 10,
				Ticker:    fmt.Sprintf("TICK%03d", (i*7+j)%tickers),
				EventDate: benchmarkDate((i + j) % 30),
			}
		}
		records[i] = domain.ThemeRecord{
			Quarter: "2021_1Q",
			Name:    fmt.Sprintf("theme_%03d", i),
			Kind:    domain.KindTheme,
			Quotes:  qs,
		}
	}
	return records
}

// benchmarkDate maps a day offset to a synthetic ISO date. Offsets stay
// below 28 per month to avoid calendar arithmetic.
func benchmarkDate(offset int) string {
	return fmt.Sprintf("2021-%02d-%02d", 1+offset/28, 1+offset%28)
}
