package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tags is a comma separated tag list. In JSON it may be sent either as one
// string ("go, web") or as an array of strings (["go", "web"]).
type Tags string

func (t *Tags) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Tags(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tags must be a string or an array of strings")
	}
	*t = Tags(strings.Join(list, ","))
	return nil
}
