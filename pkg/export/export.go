// Package export renders a page of list results into portable files.
package export

import (
	"github.com/noah-isme/agri-dcp-console/internal/entity"
	"github.com/noah-isme/agri-dcp-console/internal/models"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// FromList flattens a page of records into a Dataset using the kind's
// display columns, with the identifying key prepended.
func FromList(kind entity.Descriptor, items []models.Record) Dataset {
	headers := make([]string, 0, len(kind.Columns)+1)
	headers = append(headers, "ID")
	for _, col := range kind.Columns {
		headers = append(headers, col.Header)
	}

	rows := make([]map[string]string, 0, len(items))
	for _, item := range items {
		row := map[string]string{"ID": item.StringField(kind.IDField)}
		for _, col := range kind.Columns {
			row[col.Header] = item.StringField(col.Field)
		}
		rows = append(rows, row)
	}

	return Dataset{Headers: headers, Rows: rows}
}
