// Package clusterhealth provides the checks integration tests run
// against a live cluster: finding ingress routes, triggering a cron
// job once and waiting for its pod, asserting pods and their
// container outcome, and reading the aggregated health endpoint.
package clusterhealth
