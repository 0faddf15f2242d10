// Package ids generates the primary keys for users, organizations and roles.
package ids

import "github.com/oklog/ulid/v2"

// New returns a fresh ULID. The default entropy source is monotonic and
// safe for concurrent use, so ids issued within the same millisecond still
// sort in issue order.
func New() string {
	return ulid.Make().String()
}
