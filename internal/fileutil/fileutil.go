// Package fileutil holds the file permission modes castr uses when
// writing output.
package fileutil

import "os"

// OwnerReadWrite is the file permission mode for serialized IR output,
// which carries the source document's API surface (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for generated source code
// files intended to be read by build tools and other users.
const ReadableByAll os.FileMode = 0o644
