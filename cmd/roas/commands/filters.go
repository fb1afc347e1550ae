package commands

import (
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

// filterFlags maps CLI flags onto the query keys understood by
// metrics.Selection. A flag that is not given selects every value.
var filterFlags = []struct {
	flag, key, usage string
}{
	{"platform", "platform", "platforms to include (comma separated)"},
	{"campaign", "campaign", "campaigns to include"},
	{"category", "category", "influencer categories to include"},
	{"brand", "brand", "brands to include"},
	{"product", "product", "products to include"},
}

func addFilterFlags(cmd *cobra.Command) {
	for _, f := range filterFlags {
		cmd.Flags().StringSlice(f.flag, nil, f.usage)
	}
}

func filterValues(cmd *cobra.Command) url.Values {
	v := url.Values{}
	for _, f := range filterFlags {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		vals, _ := cmd.Flags().GetStringSlice(f.flag)
		v.Set(f.key, strings.Join(vals, ","))
	}
	return v
}
