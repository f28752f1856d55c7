package domain

import "fmt"

// PassKey identifies a pass by the content hash of its generated source,
// engine and optimize flag.
type PassKey uint64

func (k PassKey) String() string {
	return fmt.Sprintf("%016x", uint64(k))
}
