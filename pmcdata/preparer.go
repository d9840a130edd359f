package pmcdata

import (
	"context"
	"log"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
)

type Preparer struct {
	API      Client
	Settings Settings

	Logger   *log.Logger
	loggerMu sync.Mutex

	// Source of the random task counts.  Nil means a randomly seeded faker.
	Faker *gofakeit.Faker

	fakerOnce sync.Once
}

func NewPreparer(api Client, settings Settings, logger *log.Logger) *Preparer {
	return &Preparer{
		API:      api,
		Settings: settings,
		Logger:   logger,
	}
}

// Prepare checks that the instance holds the content the load test needs, creates what it can
// create itself and samples the pages the scenarios will visit.  Steps run strictly in order and
// the first failure ends the run; nothing is written to disk here.
func (p *Preparer) Prepare(ctx context.Context, users []string) (*MacroDataset, error) {
	steps := []func(context.Context) error{
		p.checkBlueprintSpace,
		p.checkMassDataSpace,
		p.checkProcessSearchData,
		func(ctx context.Context) error { return p.createTaskPages(ctx, users) },
		p.prepareContactPerson,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return nil, err
		}
	}

	dataset := &MacroDataset{}
	for _, m := range Macros() {
		rows, err := p.harvestMacroPages(ctx, m)
		if err != nil {
			return nil, err
		}
		dataset.Pages[m] = rows
	}

	comments, err := p.harvestCommentAggregation(ctx)
	if err != nil {
		return nil, err
	}
	dataset.CommentAggregation = comments

	return dataset, nil
}

func (p *Preparer) faker() *gofakeit.Faker {
	p.fakerOnce.Do(func() {
		if p.Faker == nil {
			p.Faker = gofakeit.New(0)
		}
	})
	return p.Faker
}

func (p *Preparer) logf(format string, a ...any) {
	if p.Logger == nil {
		return
	}
	p.loggerMu.Lock()
	defer p.loggerMu.Unlock()
	p.Logger.Printf(format, a...)
}
