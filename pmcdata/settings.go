// Package pmcdata prepares a Confluence instance running the Process Management Suite apps for a
// load test and harvests the datasets the test scenarios read: pages known to contain exactly one
// PMC macro, plus the comment aggregation pages together with the mode they are rendered in.
package pmcdata

// Settings is everything the pipeline needs to know about the prepared content.  It is passed by
// value; the zero value is not useful, start from DefaultSettings.
type Settings struct {
	// Space the blueprint scenarios create content in.  It is excluded from harvesting.
	BlueprintSpaceKey   string
	BlueprintSpaceTitle string

	// Spaces generated by the modified PMC app carry this token in their title.
	MassDataTitleToken string

	// Every page of the prepared PMC content has this token in its title.
	PageTitleToken string

	TaskSpaceKey        string
	TaskPageTitlePrefix string
	TaskPageBatchSize   int
	FirstTaskID         int
	MinTasks            int
	MaxTasks            int
	TaskDueMonth        string // yyyy-mm

	CommentAggregationSpaceKey string
	CommentAggregationMacro    string
	UnresolvedMarker           string

	ContactPersonSpaceKey    string
	ContactPersonUsername    string
	ContactPersonMetadataset string

	// Pages sampled per macro.
	SampleSize      int
	MinProcessTypes int
}

const (
	DefaultSampleSize        = 20
	DefaultMinProcessTypes   = 5
	DefaultTaskPageBatchSize = 500
)

func DefaultSettings() Settings {
	return Settings{
		BlueprintSpaceKey:   "PMCBLUEPRINT",
		BlueprintSpaceTitle: "PMCBlueprintDataCenterSpace",
		MassDataTitleToken:  "PMCMassData",
		PageTitleToken:      "PMC",

		TaskSpaceKey:        "PMSADCCS",
		TaskPageTitlePrefix: "PMC loadtest data tasks for ",
		TaskPageBatchSize:   DefaultTaskPageBatchSize,
		FirstTaskID:         1990,
		MinTasks:            10,
		MaxTasks:            30,
		TaskDueMonth:        "2025-12",

		CommentAggregationSpaceKey: "PDCCAM",
		CommentAggregationMacro:    "display-process-comments",
		UnresolvedMarker:           "showing unresolved comments",

		ContactPersonSpaceKey:    "PPTSO",
		ContactPersonUsername:    "contact_person",
		ContactPersonMetadataset: "metadataset.spacelocaldemosetone",

		SampleSize:      DefaultSampleSize,
		MinProcessTypes: DefaultMinProcessTypes,
	}
}
