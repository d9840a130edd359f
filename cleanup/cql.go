package cleanup

import (
	"fmt"
	"strings"
	"time"

	"github.com/toothbrush/confluence-pmc-data/confluence"
)

// DateLayout is the format of the --date flag and of dates inside CQL.
const DateLayout = "2006-01-02"

// BuildCQL returns the query selecting deletion candidates: everything of the given type, newest
// first.  Pages are narrowed to titles matching titleToken.  A non-zero after keeps only items
// created on or after that day.
func BuildCQL(contentType confluence.ContentType, titleToken string, after time.Time) string {
	parts := []string{fmt.Sprintf("type = %s", contentType)}

	// only delete the pages created by the load test
	if contentType == confluence.PageContent && titleToken != "" {
		parts = append(parts, fmt.Sprintf("title ~ %s", titleToken))
	}

	if !after.IsZero() {
		parts = append(parts, fmt.Sprintf(`created >= "%s"`, after.Format(DateLayout)))
	}

	return strings.Join(parts, " AND ") + " order by created desc"
}

// ParseDate parses a yyyy-mm-dd date.  The empty string means "no lower bound".
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("cleanup: date %q is not in yyyy-mm-dd format", s)
	}
	return t, nil
}
