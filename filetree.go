// Package filetree contains core domain types and interfaces for an in-memory
// hierarchical namespace of directories and files.
//
// The tree itself lives in the filesystem package; server wraps it for
// concurrent callers and manifest loading.
package filetree
