package render

import "github.com/rubiojr/cari/pkg/search"

// Option is one entry of the category selector.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// CategoryOptions rebuilds the selector: the All sentinel first, then each
// non-empty category in the order received. previous stays selected when it
// is still offered, otherwise All is selected.
func CategoryOptions(categories []string, previous string) []Option {
	opts := make([]Option, 0, len(categories)+1)
	opts = append(opts, Option{Value: search.AllCategories, Label: LabelAllCategories})
	selected := 0
	for _, c := range categories {
		if c == "" || c == search.AllCategories {
			continue
		}
		if c == previous {
			selected = len(opts)
		}
		opts = append(opts, Option{Value: c, Label: c})
	}
	opts[selected].Selected = true
	return opts
}

// SelectedValue returns the value of the selected option, or All.
func SelectedValue(opts []Option) string {
	for _, o := range opts {
		if o.Selected {
			return o.Value
		}
	}
	return search.AllCategories
}
