package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileSink writes events as JSON lines through slog, so telemetry stays
// greppable and machine-readable after the run ends.
type FileSink struct {
	logger *slog.Logger
	file   *os.File
}

// NewFileSink opens (or creates) the telemetry log at path.
func NewFileSink(path string) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening telemetry log: %w", err)
	}

	return &FileSink{
		logger: slog.New(slog.NewJSONHandler(f, nil)),
		file:   f,
	}, nil
}

func (s *FileSink) Emit(e Event) {
	attrs := []any{slog.String("kind", string(e.Kind))}
	if e.Template != "" {
		attrs = append(attrs, slog.String("template", e.Template))
	}
	if e.Unit != "" {
		attrs = append(attrs, slog.String("unit", e.Unit))
	}
	if e.Framework != "" {
		attrs = append(attrs, slog.String("framework", e.Framework))
	}
	if e.Kind == KindProjectGen {
		attrs = append(attrs, slog.Int("pagesAdded", e.PagesAdded))
	}
	if e.ElapsedSeconds > 0 {
		attrs = append(attrs, slog.Float64("elapsedSeconds", e.ElapsedSeconds))
	}
	if e.Message != "" {
		attrs = append(attrs, slog.String("message", e.Message))
	}
	s.logger.Info("telemetry", attrs...)
}

// Close releases the log file handle.
func (s *FileSink) Close() error {
	return s.file.Close()
}
