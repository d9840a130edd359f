package pmcdata

import (
	"context"
	"fmt"

	"github.com/toothbrush/confluence-pmc-data/confluence"
)

// prepareContactPerson needs the contact person user, and its metadata imported into the contact
// person space.  The metadata import refers to the user, so a fresh instance takes two runs: the
// first creates the user and stops with ErrManualStepRequired.
func (p *Preparer) prepareContactPerson(ctx context.Context) error {
	username := p.Settings.ContactPersonUsername
	key := p.Settings.ContactPersonSpaceKey

	exists, err := p.userExists(ctx, username)
	if err != nil {
		return err
	}
	if !exists {
		err := p.API.CreateUser(ctx, confluence.NewUser{
			UserName: username,
			FullName: username,
			Email:    username + "@example.com",
			Password: p.faker().Password(true, true, true, false, false, 16),
		})
		if err != nil {
			return fmt.Errorf("pmcdata: couldn't create user %s: %w", username, err)
		}
		return &manualStepError{
			msg: fmt.Sprintf("User %s has been created. Metadata can now be imported into space %s.", username, key),
		}
	}

	err = p.assertSpaceExists(ctx, "contact person", key, fmt.Sprintf(
		"Space with key %s does not exist but is required for contact person macro tests. Please import the "+
			"prepared space export and the Metadata for that space.", key))
	if err != nil {
		return err
	}

	res, err := p.API.SearchContent(ctx, confluence.ContentSearchQuery{
		CQL:   fmt.Sprintf(`type=page and space = %s and metadataset = "%s"`, key, p.Settings.ContactPersonMetadataset),
		Start: 0,
		Limit: 1,
	})
	if err != nil {
		return fmt.Errorf("pmcdata: metadata search in space %s failed: %w", key, err)
	}
	if len(res.Results) == 0 {
		return preconditionf("contact person",
			"Expected Metadata of space %s is missing. Please import it into the space.", key)
	}

	return nil
}

// userExists searches by full name, then insists on an exact username.
func (p *Preparer) userExists(ctx context.Context, username string) (bool, error) {
	res, err := p.API.SearchUsers(ctx, confluence.UserSearchQuery{
		CQL:   fmt.Sprintf(`type = user and user.fullname ~ "%s"`, username),
		Limit: 25,
	})
	if err != nil {
		return false, fmt.Errorf("pmcdata: user search for %s failed: %w", username, err)
	}

	for _, r := range res.Results {
		if r.User != nil && r.User.Username == username {
			return true, nil
		}
	}
	return false, nil
}
