package tagresolver

import (
	"context"
	"log/slog"
)

// TagRecord is one tag entry returned by a registry. Tag is
// nil when the registry entry carries no tag.
type TagRecord struct {
	Tag *string
}

// Lister lists the tags of a registry repository.
type Lister interface {
	ListTags(
		ctx context.Context,
		repository string,
	) ([]TagRecord, error)
}

// Resolver resolves source tags against a registry
// repository using one policy.
type Resolver struct {
	lister Lister
	policy Policy
}

// New returns a Resolver backed by lister.
func New(lister Lister, policy Policy) *Resolver {
	return &Resolver{lister: lister, policy: policy}
}

// Policy returns the resolver's selection policy.
func (r *Resolver) Policy() Policy {
	return r.policy
}

// Resolve returns the latest tag in repository for the
// release line of sourceTag. The source tag is validated
// before the registry is queried. Lister errors are
// returned as-is.
func (r *Resolver) Resolve(
	ctx context.Context,
	repository string,
	sourceTag string,
) (string, error) {
	source, err := Normalize(sourceTag)
	if err != nil {
		return "", err
	}

	records, err := r.lister.ListTags(ctx, repository)
	if err != nil {
		return "", err
	}

	tags := make([]string, 0, len(records))

	for _, rec := range records {
		if rec.Tag == nil {
			continue
		}

		tags = append(tags, *rec.Tag)
	}

	slog.Info(
		"listed tags",
		"repository", repository,
		"count", len(tags),
		"line", source.Line().String(),
	)

	selected, err := Select(tags, source, r.policy)
	if err != nil {
		return "", err
	}

	slog.Info(
		"selected tag",
		"source", sourceTag,
		"policy", r.policy.String(),
		"tag", selected,
	)

	return selected, nil
}
