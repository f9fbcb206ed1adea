package sourcetag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/beluga-ci/release-tools/tagresolver"
)

// ErrNoReleaseTag is returned when the project has no tag
// carrying an N.N.N.N version.
var ErrNoReleaseTag = errors.New("no release tag found")

// DefaultBaseURL is used when Config.BaseURL is empty.
const DefaultBaseURL = "https://gitlab.com"

// Config locates the producer project whose tags name the
// releases.
type Config struct {
	// BaseURL of the GitLab instance, http or https.
	BaseURL string
	// Project is a "namespace/name" path or a numeric id.
	Project string
	// Token is optional; public projects list tags
	// anonymously.
	Token string
}

// Provider reads tags of one GitLab project.
type Provider struct {
	client  *gl.Client
	project string
}

func validProject(project string) bool {
	if project == "" {
		return false
	}

	if strings.Trim(project, "0123456789") == "" {
		return true
	}

	ns, name, ok := strings.Cut(project, "/")

	return ok && ns != "" && name != "" &&
		!strings.HasSuffix(name, "/")
}

// NewProvider returns a Provider for the tags of
// cfg.Project.
func NewProvider(cfg Config) (*Provider, error) {
	const errCtx = "creating source tag provider"

	if !validProject(cfg.Project) {
		return nil, fmt.Errorf(
			"%s: project %q must be a namespace/name path or numeric id",
			errCtx, cfg.Project,
		)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if !strings.HasPrefix(baseURL, "https://") &&
		!strings.HasPrefix(baseURL, "http://") {
		return nil, fmt.Errorf(
			"%s: base url %q must be http or https",
			errCtx, baseURL,
		)
	}

	if cfg.Token == "" {
		slog.Debug("listing source tags anonymously", "project", cfg.Project)
	}

	client, err := gl.NewClient(cfg.Token, gl.WithBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &Provider{client: client, project: cfg.Project}, nil
}

// Latest returns the most recently updated tag whose name
// carries an N.N.N.N version.
func (p *Provider) Latest(ctx context.Context) (string, error) {
	const errCtx = "finding latest gitlab tag"

	tags, _, err := p.client.Tags.ListTags(
		p.project,
		&gl.ListTagsOptions{
			OrderBy: gl.Ptr("updated"),
			Sort:    gl.Ptr("desc"),
		},
		gl.WithContext(ctx),
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	for _, tag := range tags {
		if _, err := tagresolver.Normalize(tag.Name); err != nil {
			slog.Debug("skipping tag", "tag", tag.Name)

			continue
		}

		slog.Info(
			"latest source tag",
			"project", p.project,
			"tag", tag.Name,
		)

		return tag.Name, nil
	}

	return "", fmt.Errorf(
		"%s in %s: %w", errCtx, p.project, ErrNoReleaseTag,
	)
}

// Exists reports whether the project has a tag called name.
func (p *Provider) Exists(
	ctx context.Context,
	name string,
) (bool, error) {
	const errCtx = "getting gitlab tag"

	_, resp, err := p.client.Tags.GetTag(
		p.project, name, gl.WithContext(ctx),
	)
	if err == nil {
		return true, nil
	}

	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return false, nil
	}

	return false, fmt.Errorf("%s %s: %w", errCtx, name, err)
}
