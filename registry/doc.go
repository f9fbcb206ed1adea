// Package registry adapts Amazon ECR to the tools: the public registry
// lists repository tags for the tag resolver, and both the public and
// the private registry describe single images for the image check.
package registry
