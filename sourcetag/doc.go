// Package sourcetag looks up release tags in the producer repository
// on GitLab, so a pipeline can resolve images for the latest tag when
// it was not started from one.
package sourcetag
