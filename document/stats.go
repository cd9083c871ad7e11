package document

import (
	"context"

	"github.com/lexandro/docserver-mcp/docerr"
	"github.com/lexandro/docserver-mcp/language"
)

// Stats summarizes the documents directory.
type Stats struct {
	Root           string         `json:"docs_dir"`
	DocumentCount  int            `json:"documents"`
	TotalSizeBytes int64          `json:"total_size_bytes"`
	Formats        map[string]int `json:"formats"`
}

// Stats walks every document below the root and totals sizes per format.
// Documents that vanish between listing and stat are skipped.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	files, err := s.accessor.ListFiles(ctx, ".", "*")
	if err != nil {
		s.logger.Error("collecting stats failed", "error", err)
		return nil, err
	}

	stats := &Stats{
		Root:    s.accessor.Root(),
		Formats: make(map[string]int),
	}
	for _, file := range files {
		info, err := s.accessor.Stat(ctx, file)
		if err != nil {
			if docerr.KindOf(err) == docerr.KindNotFound {
				continue
			}
			return nil, err
		}
		stats.DocumentCount++
		stats.TotalSizeBytes += info.Size()
		stats.Formats[language.DetectFormat(file)]++
	}

	s.logger.Info("collected stats", "documents", stats.DocumentCount, "totalSize", stats.TotalSizeBytes)
	return stats, nil
}
