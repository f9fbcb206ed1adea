// Package logdelivery checks that container logs are shipped to
// CloudWatch Logs. It derives the log group and stream of a container
// from name templates, verifies they exist and compares the latest
// CloudWatch events with the tail of the pod's own log.
package logdelivery
