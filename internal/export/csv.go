// Package export writes ranked results to local files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"jobhunter/internal/types"
)

var csvHeader = []string{
	"rank", "score", "title", "company", "location", "site",
	"tier", "seniority", "salary", "work_type", "work_arrangement",
	"is_remote", "date_posted", "job_url",
}

// WriteCSV writes the ranked postings to a timestamped file in dir and
// returns the written path.
func WriteCSV(dir string, postings []types.Posting, now time.Time) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("ranked-jobs_%s.csv", now.Format("2006-01-02_15-04-05")))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("writing export header: %w", err)
	}

	for i, p := range postings {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(p.Score, 'f', 1, 64),
			p.Title,
			p.Company,
			p.Location,
			p.Site,
			p.Tier,
			p.Seniority,
			p.Salary,
			p.WorkType,
			p.WorkArrangement,
			strconv.FormatBool(p.IsRemote),
			p.DatePosted,
			p.JobURL,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing export row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing export: %w", err)
	}

	return path, nil
}
