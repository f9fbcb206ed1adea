package logdelivery

import (
	"context"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"
)

// PodLogs returns the last n lines logged by the container
// of t.
func PodLogs(
	ctx context.Context,
	client kubernetes.Interface,
	t Target,
	n int64,
) ([]string, error) {
	const errCtx = "reading pod logs"

	raw, err := client.CoreV1().Pods(t.Namespace).GetLogs(
		t.Pod,
		&corev1.PodLogOptions{
			Container: t.Container,
			TailLines: &n,
		},
	).DoRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %s/%s: %w", errCtx, t.Namespace, t.Pod, err,
		)
	}

	return splitLines(string(raw)), nil
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	return lines
}
