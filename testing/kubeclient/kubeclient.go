package kubeclient

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// KubeconfigPath returns explicit when set. Otherwise it
// returns an empty path inside a cluster, so the in-cluster
// config is used, and ~/.kube/config elsewhere.
func KubeconfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if _, ok := os.LookupEnv("KUBERNETES_SERVICE_HOST"); ok {
		return ""
	}

	return filepath.Join(homedir.HomeDir(), ".kube", "config")
}

// RESTConfig loads the client configuration for kubeconfig.
func RESTConfig(kubeconfig string) (*rest.Config, error) {
	const errCtx = "building kubeconfig"

	restConfig, err := clientcmd.BuildConfigFromFlags(
		"", KubeconfigPath(kubeconfig),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return restConfig, nil
}

// New returns a clientset for kubeconfig.
func New(kubeconfig string) (kubernetes.Interface, error) {
	const errCtx = "creating clientset"

	restConfig, err := RESTConfig(kubeconfig)
	if err != nil {
		return nil, err
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return clientset, nil
}
