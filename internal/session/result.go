package session

import "fmt"

// Result is a named value produced by one evaluation. Key is either the
// user-chosen binding name or a generated sequential key (res0, res1, ...).
// The value is carried in its rendered form as reported by the runner.
type Result struct {
	Key   string
	Value string
}

func (r Result) String() string {
	return fmt.Sprintf("%s = %s", r.Key, r.Value)
}
