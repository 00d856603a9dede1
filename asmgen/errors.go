package asmgen

import "fmt"

// UnknownNameError is raised (via panic, recovered at Generate's boundary)
// when a Var or Fcall references a name with no local, global, or function
// table entry.
type UnknownNameError struct {
	Message string
}

func (e UnknownNameError) Error() string {
	return fmt.Sprintf("💥 unknown name: %s", e.Message)
}
