package steps

import (
	"fmt"
	"strings"
)

// checkExpectedError compares the outcome of an action with the "error"
// column of its row. An empty column means the action must succeed.
func checkExpectedError(row RowWrapper, err error) error {
	expected := row.Str("error")
	if expected == "" {
		return err
	}
	if err == nil {
		return fmt.Errorf("expected error %q, got none", expected)
	}
	if !strings.HasSuffix(err.Error(), expected) {
		return fmt.Errorf("expected error %q, got %q", expected, err.Error())
	}
	return nil
}
