package pmcdata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PageRow is one sampled page.
type PageRow struct {
	ID       string
	SpaceKey string
}

func (r PageRow) String() string {
	return r.ID + "," + r.SpaceKey
}

type CommentMode string

const (
	Resolved   CommentMode = "resolved"
	Unresolved CommentMode = "unresolved"
)

type CommentAggregationRow struct {
	PageRow
	Mode CommentMode
}

func (r CommentAggregationRow) String() string {
	return r.PageRow.String() + "," + string(r.Mode)
}

// MacroDataset is everything harvested by one run.
type MacroDataset struct {
	Pages              [macroCount][]PageRow
	CommentAggregation []CommentAggregationRow
}

// PagesFor returns the sampled pages of m.
func (d *MacroDataset) PagesFor(m Macro) []PageRow {
	if m < 0 || m >= macroCount {
		return nil
	}
	return d.Pages[m]
}

// WriteDataset replaces the dataset files in dir.  Every file is staged next to its target first
// and only renamed into place once all of them were written, so a failed write leaves the old
// dataset alone.
func WriteDataset(dir string, d *MacroDataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("pmcdata: couldn't create dataset directory: %w", err)
	}

	files := map[string][]string{}
	for _, m := range Macros() {
		lines := []string{}
		for _, row := range d.PagesFor(m) {
			lines = append(lines, row.String())
		}
		files[m.DatasetFile()] = lines
	}
	lines := []string{}
	for _, row := range d.CommentAggregation {
		lines = append(lines, row.String())
	}
	files[CommentAggregationFile] = lines

	staged := map[string]string{}
	cleanup := func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}

	for name, lines := range files {
		tmp, err := os.CreateTemp(dir, "."+name+".*")
		if err != nil {
			cleanup()
			return fmt.Errorf("pmcdata: couldn't stage %s: %w", name, err)
		}
		staged[name] = tmp.Name()

		_, err = tmp.WriteString(joinLines(lines))
		if cerr := tmp.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			cleanup()
			return fmt.Errorf("pmcdata: couldn't write %s: %w", name, err)
		}
	}

	for name, tmp := range staged {
		if err := os.Chmod(tmp, 0o644); err != nil {
			cleanup()
			return fmt.Errorf("pmcdata: couldn't write %s: %w", name, err)
		}
		if err := os.Rename(tmp, filepath.Join(dir, name)); err != nil {
			cleanup()
			return fmt.Errorf("pmcdata: couldn't write %s: %w", name, err)
		}
		delete(staged, name)
	}

	return nil
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
