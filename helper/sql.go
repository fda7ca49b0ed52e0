package helper

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// QuoteLiteral wraps s in single quotes, doubling any single quotes inside it,
// so it can be embedded in a SQL statement as a string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteIdentifier wraps s in double quotes, doubling any double quotes inside it.
func QuoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Terminate appends a statement terminator if the statement does not already end with one.
func Terminate(stmt string) string {
	s := strings.TrimRight(stmt, " \t\r\n")
	if strings.HasSuffix(s, ";") {
		return s
	}
	return s + ";"
}

// InterfaceToString converts a row of database values into strings for CSV output.
func InterfaceToString(src []interface{}) []string {
	retval := make([]string, len(src))
	for i, v := range src {
		switch x := v.(type) {
		case nil:
			retval[i] = ""
		case float64:
			if x == float64(int64(x)) { // if we can treat this as an integer...
				retval[i] = strconv.FormatInt(int64(x), 10)
			} else {
				retval[i] = strconv.FormatFloat(x, 'g', -1, 64)
			}
		case []uint8: // lib/pq returns numeric and text columns as bytes.
			retval[i] = string(x)
		case time.Time:
			retval[i] = x.Format(time.RFC3339)
		default:
			retval[i] = fmt.Sprint(v)
		}
	}
	return retval
}
