package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/agri-dcp-console/internal/entity"
	"github.com/noah-isme/agri-dcp-console/internal/query"
	appErrors "github.com/noah-isme/agri-dcp-console/pkg/errors"
)

var (
	listFilters []string
	listPage    string
	listFarmer  string
)

var listCmd = &cobra.Command{
	Use:   "list <kind>",
	Short: "List records with filters and pagination",
	Long: `List one page of records. Filters are key=value pairs matched
against the kind's filter fields; empty values are ignored. Tri-state
flags take 1 or 0.

Examples:
  agri-console list farmer --filter district=Kurunegala --filter gender=F
  agri-console list home-garden --farmer F-001 --filter isCsaConducted=1
  agri-console list equipment --page 3`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringArrayVarP(&listFilters, "filter", "f", nil, "filter as field=value (repeatable)")
	listCmd.Flags().StringVar(&listPage, "page", "", "page number (clamped into range)")
	listCmd.Flags().StringVar(&listFarmer, "farmer", "", "scope the list to one farmer id")
}

func runList(cmd *cobra.Command, args []string) error {
	kind, err := entity.Lookup(args[0])
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	ctrl := newController(kind)

	raw, err := parseFilterArgs(kind, listFilters)
	if err != nil {
		return err
	}

	if err := ctrl.Search(cmd.Context(), ctrl.BuildFilters(raw)); err != nil {
		return err
	}

	if listPage != "" {
		// Free-text page input is corrected, never rejected.
		requested, err := strconv.Atoi(strings.TrimSpace(listPage))
		if err != nil {
			requested = 1
		}
		if _, err := ctrl.ChangePage(cmd.Context(), requested); err != nil {
			return err
		}
	}

	renderList(cmd, ctrl)
	return nil
}

func newController(kind entity.Descriptor) *query.Controller {
	if listFarmer != "" {
		return query.NewScoped(kind, listFarmer, app.API, app.Logger)
	}
	return query.New(kind, app.API, app.Logger)
}

// parseFilterArgs turns repeated field=value flags into the raw mapping
// BuildFilters normalises. Unknown field names are an input error; silent
// typos would otherwise read as "no filter set".
func parseFilterArgs(kind entity.Descriptor, pairs []string) (map[string]string, error) {
	raw := map[string]string{}
	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("filter %q is not field=value", pair))
		}
		field, ok := kind.FilterField(strings.TrimSpace(name))
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown filter field %q for %s", name, kind.Name))
		}
		raw[field.Name] = value
	}
	return raw, nil
}

func renderList(cmd *cobra.Command, ctrl *query.Controller) {
	kind := ctrl.Kind()
	out := cmd.OutOrStdout()

	items := ctrl.Items()
	if len(items) == 0 {
		fmt.Fprintf(out, "No %s records found\n", kind.Name)
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	headers := make([]string, 0, len(kind.Columns)+1)
	headers = append(headers, "ID")
	for _, col := range kind.Columns {
		headers = append(headers, col.Header)
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))

	for _, item := range items {
		cells := make([]string, 0, len(headers))
		cells = append(cells, item.StringField(kind.IDField))
		for _, col := range kind.Columns {
			cells = append(cells, item.StringField(col.Field))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()

	pages := ctrl.TotalPages()
	if pages < 1 {
		pages = 1
	}
	fmt.Fprintf(out, "\nPage %d of %d (%d records)\n", ctrl.Page(), pages, ctrl.TotalCount())
}
