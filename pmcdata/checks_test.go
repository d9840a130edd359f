package pmcdata_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/toothbrush/confluence-pmc-data/confluence"
	"github.com/toothbrush/confluence-pmc-data/pmcdata"
	"github.com/toothbrush/confluence-pmc-data/pmcdata/mock"
)

func blueprintSpace() *confluence.Space {
	return &confluence.Space{Key: "PMCBLUEPRINT", Name: "PMCBlueprintDataCenterSpace"}
}

func massDataFound() *confluence.SearchResponse {
	return &confluence.SearchResponse{Results: []confluence.SearchResult{{Title: "PMCMassData 1", EntityType: "space"}}}
}

func processTypes(n int) *confluence.ContentSearchResponse {
	res := &confluence.ContentSearchResponse{}
	for i := 0; i < n; i++ {
		res.Results = append(res.Results, confluence.Content{ID: fmt.Sprintf("%d", 100+i), Title: fmt.Sprintf("Type %d", i)})
	}
	return res
}

func withSubProcess() *confluence.ProcessPagesResponse {
	return &confluence.ProcessPagesResponse{Results: []confluence.ProcessPage{{ID: "1"}, {ID: "2", HasChildren: true}}}
}

// TestBlueprintSpaceMissing ensures nothing else is attempted once the first check failed.
func TestBlueprintSpaceMissing(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	api := mock.NewMockClient(c)
	api.EXPECT().GetSpace(gomock.Any(), "PMCBLUEPRINT").Return(nil, fmt.Errorf("wrapped: %w", confluence.ErrNotFound))

	p := pmcdata.NewPreparer(api, pmcdata.DefaultSettings(), nil)

	_, err := p.Prepare(t.Context(), []string{"alice"})
	var precondition *pmcdata.PreconditionError
	require.ErrorAs(t, err, &precondition)
	assert.Equal(t, "Space with key PMCBLUEPRINT does not exist. Please import the prepared space export.", precondition.Message)
}

func TestBlueprintSpaceWrongTitle(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	api := mock.NewMockClient(c)
	api.EXPECT().GetSpace(gomock.Any(), "PMCBLUEPRINT").Return(&confluence.Space{Key: "PMCBLUEPRINT", Name: "Something else"}, nil)

	p := pmcdata.NewPreparer(api, pmcdata.DefaultSettings(), nil)

	_, err := p.Prepare(t.Context(), nil)
	var precondition *pmcdata.PreconditionError
	require.ErrorAs(t, err, &precondition)
	assert.Contains(t, precondition.Message, "expected: PMCBlueprintDataCenterSpace, actual: Something else")
}

// TestTransportErrorsAreNotPreconditions ensures a broken connection isn't reported as missing
// content.
func TestTransportErrorsAreNotPreconditions(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	boom := errors.New("connection reset")
	api := mock.NewMockClient(c)
	api.EXPECT().GetSpace(gomock.Any(), "PMCBLUEPRINT").Return(nil, boom)

	p := pmcdata.NewPreparer(api, pmcdata.DefaultSettings(), nil)

	_, err := p.Prepare(t.Context(), nil)
	require.ErrorIs(t, err, boom)
	var precondition *pmcdata.PreconditionError
	assert.False(t, errors.As(err, &precondition))
}

func TestMassDataSpaceMissing(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	api := mock.NewMockClient(c)
	api.EXPECT().GetSpace(gomock.Any(), "PMCBLUEPRINT").Return(blueprintSpace(), nil)
	api.EXPECT().Search(gomock.Any(), confluence.SearchQuery{CQL: "type = space and title ~ PMCMassData", Limit: 1}).
		Return(&confluence.SearchResponse{}, nil)

	p := pmcdata.NewPreparer(api, pmcdata.DefaultSettings(), nil)

	_, err := p.Prepare(t.Context(), nil)
	var precondition *pmcdata.PreconditionError
	require.ErrorAs(t, err, &precondition)
	assert.Equal(t, "mass data space", precondition.Check)
	assert.Contains(t, precondition.Message, "'PMCMassData'")
}

func TestProcessTypeChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		types     int
		processes []*confluence.ProcessPagesResponse
		message   string
	}{
		{
			name:    "too few process types",
			types:   4,
			message: "minimum: 5, actual: 4",
		},
		{
			name:  "process type without processes",
			types: 5,
			processes: []*confluence.ProcessPagesResponse{
				withSubProcess(),
				withSubProcess(),
				{Results: []confluence.ProcessPage{}},
			},
			message: "The process type 'Type 2' (102) has no processes.",
		},
		{
			name:  "no sub-processes",
			types: 5,
			processes: []*confluence.ProcessPagesResponse{
				{Results: []confluence.ProcessPage{{ID: "1"}, {ID: "2"}}},
			},
			message: "The process type 'Type 0' (100) has processes but none of the first 12 processes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := gomock.NewController(t)
			defer c.Finish()

			api := mock.NewMockClient(c)
			api.EXPECT().GetSpace(gomock.Any(), "PMCBLUEPRINT").Return(blueprintSpace(), nil)
			api.EXPECT().Search(gomock.Any(), gomock.Any()).Return(massDataFound(), nil)
			api.EXPECT().SearchContent(gomock.Any(), confluence.ContentSearchQuery{
				CQL:   `type=page and metadataset = "global.metadataset.communardoqmsprocesstype" and space != PMCBLUEPRINT order by title`,
				Limit: 5,
			}).Return(processTypes(tt.types), nil)

			for i, res := range tt.processes {
				id := fmt.Sprintf("%d", 100+i)
				api.EXPECT().GetProcessPages(gomock.Any(), confluence.NewProcessPagesQuery(id)).Return(res, nil)
			}

			p := pmcdata.NewPreparer(api, pmcdata.DefaultSettings(), nil)

			dataset, err := p.Prepare(t.Context(), nil)
			assert.Nil(t, dataset)
			var precondition *pmcdata.PreconditionError
			require.ErrorAs(t, err, &precondition)
			assert.Equal(t, "process types", precondition.Check)
			assert.Contains(t, precondition.Message, tt.message)
		})
	}
}

// TestTaskSpaceMissing ensures no page is created when the task space wasn't imported.
func TestTaskSpaceMissing(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	api := mock.NewMockClient(c)
	api.EXPECT().GetSpace(gomock.Any(), "PMCBLUEPRINT").Return(blueprintSpace(), nil)
	api.EXPECT().Search(gomock.Any(), gomock.Any()).Return(massDataFound(), nil)
	api.EXPECT().SearchContent(gomock.Any(), gomock.Any()).Return(processTypes(5), nil)
	api.EXPECT().GetProcessPages(gomock.Any(), gomock.Any()).Return(withSubProcess(), nil).Times(5)
	api.EXPECT().GetSpace(gomock.Any(), "PMSADCCS").Return(nil, confluence.ErrNotFound)

	p := pmcdata.NewPreparer(api, pmcdata.DefaultSettings(), nil)

	_, err := p.Prepare(t.Context(), []string{"alice"})
	var precondition *pmcdata.PreconditionError
	require.ErrorAs(t, err, &precondition)
	assert.Contains(t, precondition.Message, "Space with key PMSADCCS does not exist")
}
