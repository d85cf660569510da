package types

// WorkflowItem is one labelled result of a guided workflow. Value holds
// numeric results and is nil when the number could not be resolved; Text
// holds categorical results.
type WorkflowItem struct {
	Label string   `json:"label"`
	Value *float64 `json:"value,omitempty"`
	Text  string   `json:"text,omitempty"`
	Unit  string   `json:"unit,omitempty"`
	Desc  string   `json:"desc,omitempty"`
}

// Number returns the numeric value of the item.
func (i WorkflowItem) Number() (float64, bool) {
	if i.Value == nil {
		return 0, false
	}
	return *i.Value, true
}

// WorkflowResult is the output of a guided workflow.
type WorkflowResult struct {
	Workflow string         `json:"workflow"`
	Status   string         `json:"status"`
	Items    []WorkflowItem `json:"items"`
	Steps    []string       `json:"steps"`
	Warnings []string       `json:"warnings"`
}

// Item returns the first item with the given label.
func (r WorkflowResult) Item(label string) (WorkflowItem, bool) {
	for _, it := range r.Items {
		if it.Label == label {
			return it, true
		}
	}
	return WorkflowItem{}, false
}
