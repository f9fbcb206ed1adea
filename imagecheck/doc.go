// Package imagecheck guards image pushes: a build may only push a tag
// that the target repository does not hold yet.
package imagecheck
