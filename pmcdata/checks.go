package pmcdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/toothbrush/confluence-pmc-data/confluence"
)

// checkBlueprintSpace makes sure the space the blueprint scenarios write into was imported.
func (p *Preparer) checkBlueprintSpace(ctx context.Context) error {
	key := p.Settings.BlueprintSpaceKey

	space, err := p.API.GetSpace(ctx, key)
	if errors.Is(err, confluence.ErrNotFound) {
		return preconditionf("blueprint space",
			"Space with key %s does not exist. Please import the prepared space export.", key)
	}
	if err != nil {
		return fmt.Errorf("pmcdata: couldn't look up space %s: %w", key, err)
	}

	if space.Name != p.Settings.BlueprintSpaceTitle {
		return preconditionf("blueprint space",
			"Space with key %s does not have the expected title (expected: %s, actual: %s). Please import the prepared space export.",
			key, p.Settings.BlueprintSpaceTitle, space.Name)
	}

	p.logf("Blueprint space %s is in place\n", key)
	return nil
}

// checkMassDataSpace makes sure at least one space carries the mass data token.  Without one the
// exclusion in pagesWithMacroCQL makes CQL return nothing at all.
func (p *Preparer) checkMassDataSpace(ctx context.Context) error {
	token := p.Settings.MassDataTitleToken

	res, err := p.API.Search(ctx, confluence.SearchQuery{
		CQL:   fmt.Sprintf("type = space and title ~ %s", token),
		Limit: 1,
	})
	if err != nil {
		return fmt.Errorf("pmcdata: mass data space search failed: %w", err)
	}

	if len(res.Results) == 0 {
		return preconditionf("mass data space",
			"Space containing the PMC mass data does not exist. For development it might be enough to just create "+
				"a space whose title contains '%s'. For real test runs you have to use the modified PMC app to "+
				"generate the mass data.", token)
	}

	return nil
}

// checkProcessSearchData needs enough process types, each with processes, and at least one of
// those with a sub-process, as the process search macro would display them.
func (p *Preparer) checkProcessSearchData(ctx context.Context) error {
	minimum := p.Settings.MinProcessTypes

	res, err := p.API.SearchContent(ctx, confluence.ContentSearchQuery{
		CQL: fmt.Sprintf(`type=page and metadataset = "%s" and space != %s order by title`,
			confluence.MetadataSetProcessType, p.Settings.BlueprintSpaceKey),
		Start: 0,
		Limit: minimum,
	})
	if err != nil {
		return fmt.Errorf("pmcdata: process type search failed: %w", err)
	}

	if len(res.Results) < minimum {
		return preconditionf("process types",
			"There are not enough Process Type pages in Confluence (minimum: %d, actual: %d). Please use the mass "+
				"data generator. For your development environment you can also add the missing process types "+
				"manually. In that case please also add at least 1 process for the type and at least 1 sub process "+
				"to the process.", minimum, len(res.Results))
	}

	for _, processType := range res.Results {
		if err := p.checkProcessType(ctx, processType); err != nil {
			return err
		}
	}

	p.logf("Found %d process types with processes and sub-processes\n", len(res.Results))
	return nil
}

func (p *Preparer) checkProcessType(ctx context.Context, processType confluence.Content) error {
	res, err := p.API.GetProcessPages(ctx, confluence.NewProcessPagesQuery(processType.ID))
	if err != nil {
		return fmt.Errorf("pmcdata: getting processes of process type '%s' (%s) failed: %w", processType.Title, processType.ID, err)
	}

	if len(res.Results) == 0 {
		return preconditionf("process types",
			"The process type '%s' (%s) has no processes. Use the mass data generator to prepare Confluence. For "+
				"your development environment you can also prepare data manually by creating a process for the type "+
				"and adding a sub process to the process.", processType.Title, processType.ID)
	}

	for _, process := range res.Results {
		if process.HasChildren {
			return nil
		}
	}

	return preconditionf("process types",
		"The process type '%s' (%s) has processes but none of the first %d processes (ordered by title) has "+
			"sub-processes. Use the mass data generator to prepare Confluence. For your development environment you "+
			"can also add a sub process manually to any of the first %d processes.",
		processType.Title, processType.ID, confluence.ProcessSearchPageSize, confluence.ProcessSearchPageSize)
}

// assertSpaceExists turns a missing space into a precondition failure carrying message.
func (p *Preparer) assertSpaceExists(ctx context.Context, check string, key string, message string) error {
	_, err := p.API.GetSpace(ctx, key)
	if errors.Is(err, confluence.ErrNotFound) {
		return preconditionf(check, "%s", message)
	}
	if err != nil {
		return fmt.Errorf("pmcdata: couldn't look up space %s: %w", key, err)
	}
	return nil
}
