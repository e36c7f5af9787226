package query

import (
	"strconv"
	"strings"

	"github.com/noah-isme/agri-dcp-console/internal/entity"
)

// BuildFilters normalises raw user-entered filter values into the mapping
// sent to the server. Only recognised fields are kept, values are trimmed,
// and empty values are omitted entirely: the server treats an explicitly
// empty string as "match empty string", which would wrongly exclude every
// record that has a value in that field.
func BuildFilters(raw map[string]string, fields []entity.Field) map[string]any {
	out := map[string]any{}
	for _, field := range fields {
		value := strings.TrimSpace(rawValue(raw, field.Name))
		if value == "" {
			continue
		}
		switch field.Type {
		case entity.FieldString:
			out[field.Name] = value
		case entity.FieldInt:
			n, err := strconv.Atoi(value)
			if err != nil {
				continue
			}
			out[field.Name] = n
		case entity.FieldBool01:
			switch value {
			case "1":
				out[field.Name] = 1
			case "0":
				out[field.Name] = 0
			}
		}
	}
	return out
}

func rawValue(raw map[string]string, name string) string {
	if v, ok := raw[name]; ok {
		return v
	}
	for k, v := range raw {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
