package pmcdata

import "fmt"

// Macro is one of the PMC macros the load test renders.
type Macro int

const (
	ExportWorkflowInformationMacro Macro = iota
	NoPrintMacro
	MyTasksMacro
	ApplicableDocumentsMacro
	ContactPersonMacro
	ProcessSearchMacro

	macroCount
)

var macroNames = [macroCount]string{
	ExportWorkflowInformationMacro: "approval-print-metadata",
	NoPrintMacro:                   "no-print",
	MyTasksMacro:                   "my-tasks-report-macro",
	ApplicableDocumentsMacro:       "qms-applicable-documents-macro",
	ContactPersonMacro:             "qms-contact-person-macro",
	ProcessSearchMacro:             "qms-process-search-macro",
}

// Macros lists every macro, in the order they are harvested.
func Macros() []Macro {
	out := make([]Macro, 0, macroCount)
	for m := Macro(0); m < macroCount; m++ {
		out = append(out, m)
	}
	return out
}

// String is the macro's name as used in CQL and in the dataset file name.
func (m Macro) String() string {
	if m < 0 || m >= macroCount {
		return fmt.Sprintf("Macro(%d)", int(m))
	}
	return macroNames[m]
}

func ParseMacro(s string) (Macro, error) {
	for m := Macro(0); m < macroCount; m++ {
		if macroNames[m] == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("pmcdata: unknown macro %q", s)
}

// DatasetFile is the name of the file holding the sampled pages of m.
func (m Macro) DatasetFile() string {
	return "pmc_macro-pages-" + m.String() + ".csv"
}

// CommentAggregationFile holds the comment aggregation pages; its rows carry the mode as well.
const CommentAggregationFile = "pmc_comment_aggregation_macro_data.csv"
