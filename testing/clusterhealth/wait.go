package clusterhealth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/informers"
	"k8s.io/client-go/tools/cache"
)

// FinishedPod returns the name of the first pod in list,
// as returned from the pod informer store, whose name
// starts with prefix and whose phase is Succeeded or
// Failed.
func FinishedPod(
	list []interface{},
	prefix string,
) (string, bool) {
	for _, it := range list {
		pod, ok := it.(*corev1.Pod)
		if !ok {
			continue
		}

		if !strings.HasPrefix(pod.Name, prefix) {
			continue
		}

		switch pod.Status.Phase {
		case corev1.PodSucceeded, corev1.PodFailed:
			return pod.Name, true
		}
	}

	return "", false
}

// WaitForJobPods uses a shared informer to wait until a pod
// in namespace whose name starts with prefix has finished.
// It gives up when ctx is done.
func (c *Checker) WaitForJobPods(
	ctx context.Context,
	namespace string,
	prefix string,
) error {
	const errCtx = "waiting for job pod"

	ctx, cancel := context.WithCancel(ctx)

	events := make(chan struct{}, 1)
	fn := func(interface{}) {
		select {
		case events <- struct{}{}:
		default:
		}
	}

	handler := &cache.ResourceEventHandlerFuncs{
		AddFunc:    fn,
		DeleteFunc: fn,
		UpdateFunc: func(_, newObj interface{}) {
			fn(newObj)
		},
	}

	factory := informers.NewSharedInformerFactoryWithOptions(
		c.client, 30*time.Second,
		informers.WithNamespace(namespace),
	)
	podsInformer := factory.Core().V1().Pods().Informer()

	if _, err := podsInformer.AddEventHandler(handler); err != nil {
		cancel()

		return fmt.Errorf(
			"%s: registering pod handler: %w", errCtx, err,
		)
	}

	factory.Start(ctx.Done())

	defer func() {
		cancel()
		factory.Shutdown()
	}()

	for {
		select {
		case <-events:
			name, done := FinishedPod(
				podsInformer.GetStore().List(), prefix,
			)
			if done {
				slog.Info("job pod finished", "pod", name)

				return nil
			}

			slog.Info("waiting for job pod", "prefix", prefix)
		case <-ctx.Done():
			return fmt.Errorf(
				"%s %s: %w", errCtx, prefix, ctx.Err(),
			)
		}
	}
}
