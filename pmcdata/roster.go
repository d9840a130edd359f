package pmcdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadUsers reads the usernames from a users.csv as produced by the toolkit's user preparation:
// one username,password row per user, no header.
func LoadUsers(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pmcdata: couldn't open user roster: %w", err)
	}
	defer f.Close()

	return readUsers(f)
}

func readUsers(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	users := []string{}
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("pmcdata: user roster line %d: %w", line, err)
		}

		username := strings.TrimSpace(record[0])
		if username == "" {
			continue
		}
		users = append(users, username)
	}

	return users, nil
}
