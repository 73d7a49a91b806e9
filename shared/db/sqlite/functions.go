package sqlite

import (
	"database/sql/driver"
	"fmt"
	"strings"

	msqlite "modernc.org/sqlite"
)

// FoldFunc is a SQL function that lowercases text with Go's Unicode tables.
// The built-in lower() only folds ASCII, so queries comparing against a
// search term lowercased in Go must use this on the column side.
const FoldFunc = "unicode_lower"

func init() {
	if err := msqlite.RegisterDeterministicScalarFunction(FoldFunc, 1, unicodeLower); err != nil {
		panic(fmt.Sprintf("register %s: %v", FoldFunc, err))
	}
}

func unicodeLower(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return strings.ToLower(fmt.Sprint(v)), nil
	}
}
