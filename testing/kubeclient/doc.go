// Package kubeclient builds Kubernetes clients for the integration
// checks from a kubeconfig path, the in-cluster environment or the
// user's default kubeconfig.
package kubeclient
