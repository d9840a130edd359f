package pmcdata

import (
	"context"
	"fmt"
	"strings"

	"github.com/toothbrush/confluence-pmc-data/confluence"
)

// createTaskPages gives every user a page full of tasks assigned to them, for the my tasks
// report.  Users who already have their page are skipped.
func (p *Preparer) createTaskPages(ctx context.Context, users []string) error {
	key := p.Settings.TaskSpaceKey
	err := p.assertSpaceExists(ctx, "task pages", key,
		fmt.Sprintf("Space with key %s does not exist. Please import the space export.", key))
	if err != nil {
		return err
	}

	existing, err := p.existingTaskPageTitles(ctx)
	if err != nil {
		return err
	}

	created := 0
	for _, user := range users {
		title := p.taskPageTitle(user)
		if _, ok := existing[title]; ok {
			continue
		}

		if err := p.createTaskPage(ctx, user); err != nil {
			return err
		}
		// the roster may list a user twice
		existing[title] = struct{}{}
		created++
	}

	p.logf("Created %d task pages, %d already existed\n", created, len(users)-created)
	return nil
}

func (p *Preparer) existingTaskPageTitles(ctx context.Context) (map[string]struct{}, error) {
	cql := fmt.Sprintf(`type=page and space=%s and title ~ "%s"`, p.Settings.TaskSpaceKey, p.Settings.TaskPageTitlePrefix)

	pages, err := confluence.SearchAllContent(ctx, p.API, cql, p.Settings.TaskPageBatchSize)
	if err != nil {
		return nil, fmt.Errorf("pmcdata: couldn't list existing task pages: %w", err)
	}

	titles := make(map[string]struct{}, len(pages))
	for _, page := range pages {
		titles[page.Title] = struct{}{}
	}
	return titles, nil
}

func (p *Preparer) taskPageTitle(user string) string {
	return p.Settings.TaskPageTitlePrefix + user
}

func (p *Preparer) createTaskPage(ctx context.Context, user string) error {
	p.logf("Creating page with tasks for user %s\n", user)

	count := p.faker().Number(p.Settings.MinTasks, p.Settings.MaxTasks)
	body := fmt.Sprintf("<p><strong>Additional tasks for %s:</strong></p><p><br /></p>%s<p><br /></p>",
		user, taskListXHTML(user, count, p.Settings.FirstTaskID, p.Settings.TaskDueMonth))

	_, err := p.API.CreateContent(ctx, confluence.NewPage(p.Settings.TaskSpaceKey, p.taskPageTitle(user), body))
	if err != nil {
		return fmt.Errorf("pmcdata: couldn't create task page for %s: %w", user, err)
	}
	return nil
}

// taskListXHTML renders count incomplete tasks in storage format, all mentioning user.  Task ids
// count up from firstID, due days cycle through 1 to 31 of dueMonth.
func taskListXHTML(user string, count int, firstID int, dueMonth string) string {
	var b strings.Builder

	b.WriteString("<ac:task-list>")
	for i := 0; i < count; i++ {
		fmt.Fprintf(&b, "<ac:task><ac:task-id>%d</ac:task-id><ac:task-status>incomplete</ac:task-status>"+
			`<ac:task-body>Task %d&nbsp;<ac:link><ri:user ri:username="%s" /></ac:link>`+
			`<time datetime="%s-%d" /></ac:task-body></ac:task> `,
			firstID+i, i, user, dueMonth, (i%31)+1)
	}
	b.WriteString("</ac:task-list>")

	return b.String()
}
