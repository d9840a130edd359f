package pmcdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskListXHTML(t *testing.T) {
	t.Parallel()

	xhtml := taskListXHTML("alice", 33, 1990, "2025-12")

	assert.True(t, strings.HasPrefix(xhtml, "<ac:task-list><ac:task><ac:task-id>1990</ac:task-id>"))
	assert.True(t, strings.HasSuffix(xhtml, "</ac:task-list>"))
	assert.Equal(t, 33, strings.Count(xhtml, "<ac:task-status>incomplete</ac:task-status>"))
	assert.Contains(t, xhtml, "<ac:task-id>2022</ac:task-id>")
	assert.Contains(t, xhtml, `<ac:task-body>Task 32&nbsp;<ac:link><ri:user ri:username="alice" /></ac:link>`)

	// days cycle through 1..31
	assert.Equal(t, 2, strings.Count(xhtml, `<time datetime="2025-12-1" />`))
	assert.Equal(t, 1, strings.Count(xhtml, `<time datetime="2025-12-31" />`))

	assert.Equal(t, "<ac:task-list></ac:task-list>", taskListXHTML("alice", 0, 1990, "2025-12"))
}

func TestCommentMode(t *testing.T) {
	t.Parallel()

	marker := DefaultSettings().UnresolvedMarker

	assert.Equal(t, Unresolved, commentMode("<p>showing unresolved comments</p>", marker))
	assert.Equal(t, Unresolved, commentMode("<p>showing <em>unresolved</em>\n comments</p>", marker))
	assert.Equal(t, Resolved, commentMode("<p>showing resolved comments</p>", marker))
	assert.Equal(t, Resolved, commentMode("", marker))
}

func TestPagesWithMacroCQL(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()

	assert.Equal(t,
		`type=page and title ~ PMC and macro = "no-print" and space != PMCBLUEPRINT and space.title !~ PMCMassData`,
		s.pagesWithMacroCQL("no-print", ""))
	assert.Equal(t,
		`type=page and title ~ PMC and macro = "display-process-comments" and space = PDCCAM`,
		s.pagesWithMacroCQL("display-process-comments", "PDCCAM"))
}

func TestReadUsers(t *testing.T) {
	t.Parallel()

	users, err := readUsers(strings.NewReader("u1,pw\n u2 , pw\n,pw\nu3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2", "u3"}, users)

	_, err = readUsers(strings.NewReader("\"broken,pw\n"))
	require.Error(t, err)
}
