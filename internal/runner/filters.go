package runner

import (
	"fmt"
	"strings"
)

// ParseList resolves a comma-separated selection against the valid
// option names. The literal "all" selects everything.
func ParseList(value string, valid []string, name string) ([]string, error) {
	if strings.EqualFold(value, "all") {
		return append([]string(nil), valid...), nil
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		found := false
		for _, candidate := range valid {
			if candidate == item {
				result = append(result, candidate)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("invalid %s: %s. Valid options: %s", name, item, strings.Join(valid, ", "))
		}
	}
	return result, nil
}
