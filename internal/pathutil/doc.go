// Package pathutil provides efficient path building utilities for schema
// and document traversal.
//
// The primary type is [PathBuilder], which uses push/pop semantics to build
// diagnostic paths incrementally without allocating intermediate strings.
// This is particularly useful in recursive traversal where paths are built
// on each recursive call but only used when reporting errors.
//
// # PathBuilder Usage
//
// Use [Get] to obtain a pooled PathBuilder, and [Put] to return it:
//
//	path := pathutil.Get()
//	defer pathutil.Put(path)
//
//	path.Push("properties")
//	path.Push(propName)
//	// ... recurse ...
//	path.Pop()
//	path.Pop()
//
//	// Only call String() when needed (e.g., reporting an error)
//	if hasError {
//	    return fmt.Errorf("error at %s", path.String())
//	}
//
// Array indices are supported via [PathBuilder.PushIndex]:
//
//	path.Push("items")
//	path.PushIndex(0)  // produces "items[0]"
//
// # Output Path Sanitization
//
// [SanitizeOutputPath] validates and cleans output file paths for security.
// It rejects directory traversal ("..") and symlinks:
//
//	safe, err := pathutil.SanitizeOutputPath(userProvidedPath)
//	if err != nil {
//	    return err // path traversal or symlink detected
//	}
package pathutil
