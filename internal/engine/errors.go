package engine

import "fmt"

// RedefinitionError reports an attempt to redeclare a guest type name that is
// already loaded in the session. Redefining types is never permitted; there is
// no versioning and no shadowing.
type RedefinitionError struct {
	Name string
}

func (e *RedefinitionError) Error() string {
	return fmt.Sprintf("redefining type %s is not supported", e.Name)
}
