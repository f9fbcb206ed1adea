package clusterhealth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	batchv1 "k8s.io/api/batch/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

var (
	// ErrIngressNotFound is returned when no ingress host
	// contains the requested substring.
	ErrIngressNotFound = errors.New("ingress not found")
	// ErrCronJobNotFound is returned when no cron job has
	// the requested name.
	ErrCronJobNotFound = errors.New("cron job not found")
	// ErrPodNotFound is returned when no pod name starts
	// with the requested prefix.
	ErrPodNotFound = errors.New("pod not found")
)

// jobSuffixLayout stamps the name of jobs started from a
// cron job.
const jobSuffixLayout = "20060102150405.000000"

// Checker runs cluster checks through a Kubernetes client.
type Checker struct {
	client kubernetes.Interface
	now    func() time.Time
}

// NewChecker returns a Checker using client.
func NewChecker(client kubernetes.Interface) *Checker {
	return &Checker{client: client, now: time.Now}
}

// IngressHost returns "http://<host>" for the first ingress,
// across all namespaces, whose first rule host contains
// substring.
func (c *Checker) IngressHost(
	ctx context.Context,
	substring string,
) (string, error) {
	const errCtx = "finding ingress host"

	list, err := c.client.NetworkingV1().Ingresses("").
		List(ctx, metav1.ListOptions{})
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	for _, ing := range list.Items {
		if len(ing.Spec.Rules) == 0 {
			continue
		}

		host := ing.Spec.Rules[0].Host
		if strings.Contains(host, substring) {
			return "http://" + host, nil
		}
	}

	return "", fmt.Errorf(
		"%s %q: %w", errCtx, substring, ErrIngressNotFound,
	)
}

// CronJobExists reports whether a cron job called name
// exists in any namespace.
func (c *Checker) CronJobExists(
	ctx context.Context,
	name string,
) (bool, error) {
	_, err := c.findCronJob(ctx, name)
	if errors.Is(err, ErrCronJobNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

func (c *Checker) findCronJob(
	ctx context.Context,
	name string,
) (*batchv1.CronJob, error) {
	const errCtx = "finding cron job"

	list, err := c.client.BatchV1().CronJobs("").
		List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	for i := range list.Items {
		if list.Items[i].Name == name {
			return &list.Items[i], nil
		}
	}

	return nil, fmt.Errorf(
		"%s %q: %w", errCtx, name, ErrCronJobNotFound,
	)
}

// RunCronJob starts a one-off job from the template of the
// cron job called name, in the cron job's namespace. The
// job is named "<name>-test-<timestamp>". When wait is set
// it blocks until a pod of the job finishes.
func (c *Checker) RunCronJob(
	ctx context.Context,
	name string,
	wait bool,
) (*batchv1.Job, error) {
	const errCtx = "running cron job"

	cron, err := c.findCronJob(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	tpl := cron.Spec.JobTemplate.DeepCopy()
	meta := tpl.ObjectMeta
	meta.Name = fmt.Sprintf(
		"%s-test-%s", name, c.now().Format(jobSuffixLayout),
	)
	meta.Namespace = cron.Namespace

	job, err := c.client.BatchV1().Jobs(cron.Namespace).Create(
		ctx,
		&batchv1.Job{ObjectMeta: meta, Spec: tpl.Spec},
		metav1.CreateOptions{},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: creating job: %w", errCtx, err)
	}

	slog.Info(
		"started job",
		"job", job.Name,
		"namespace", job.Namespace,
	)

	if wait {
		if err := c.WaitForJobPods(
			ctx, job.Namespace, job.Name,
		); err != nil {
			return job, fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	return job, nil
}

// PodExists reports whether a pod whose name starts with
// prefix exists in any namespace.
func (c *Checker) PodExists(
	ctx context.Context,
	prefix string,
) (bool, error) {
	const errCtx = "listing pods"

	list, err := c.client.CoreV1().Pods("").
		List(ctx, metav1.ListOptions{})
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	for _, pod := range list.Items {
		if strings.HasPrefix(pod.Name, prefix) {
			return true, nil
		}
	}

	return false, nil
}

// ContainerTerminationReason returns the termination reason
// (e.g. "Completed") of the first container starting with
// containerPrefix in the first pod starting with podPrefix.
// It returns an empty reason while the container has not
// terminated.
func (c *Checker) ContainerTerminationReason(
	ctx context.Context,
	podPrefix string,
	containerPrefix string,
) (string, error) {
	const errCtx = "reading container state"

	list, err := c.client.CoreV1().Pods("").
		List(ctx, metav1.ListOptions{})
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	for _, pod := range list.Items {
		if !strings.HasPrefix(pod.Name, podPrefix) {
			continue
		}

		for _, st := range pod.Status.ContainerStatuses {
			if !strings.HasPrefix(st.Name, containerPrefix) {
				continue
			}

			if st.State.Terminated == nil {
				return "", nil
			}

			return st.State.Terminated.Reason, nil
		}

		return "", nil
	}

	return "", fmt.Errorf(
		"%s %q: %w", errCtx, podPrefix, ErrPodNotFound,
	)
}
