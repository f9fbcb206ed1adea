package logdelivery

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	json "github.com/goccy/go-json"
)

// LogsAPI is the subset of the CloudWatch Logs client used
// by CloudWatch.
type LogsAPI interface {
	DescribeLogGroups(
		ctx context.Context,
		params *cloudwatchlogs.DescribeLogGroupsInput,
		optFns ...func(*cloudwatchlogs.Options),
	) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
	DescribeLogStreams(
		ctx context.Context,
		params *cloudwatchlogs.DescribeLogStreamsInput,
		optFns ...func(*cloudwatchlogs.Options),
	) (*cloudwatchlogs.DescribeLogStreamsOutput, error)
	GetLogEvents(
		ctx context.Context,
		params *cloudwatchlogs.GetLogEventsInput,
		optFns ...func(*cloudwatchlogs.Options),
	) (*cloudwatchlogs.GetLogEventsOutput, error)
}

// CloudWatch reads log groups, streams and events.
type CloudWatch struct {
	api LogsAPI
}

// NewCloudWatch wraps api.
func NewCloudWatch(api LogsAPI) *CloudWatch {
	return &CloudWatch{api: api}
}

// NewCloudWatchForRegion builds a CloudWatch client for
// region from the default AWS credential chain.
func NewCloudWatchForRegion(
	ctx context.Context,
	region string,
) (*CloudWatch, error) {
	const errCtx = "creating cloudwatch logs client"

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx, awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return NewCloudWatch(cloudwatchlogs.NewFromConfig(awsCfg)), nil
}

// LogGroupExists reports whether a log group name starts
// with group.
func (c *CloudWatch) LogGroupExists(
	ctx context.Context,
	group string,
) (bool, error) {
	const errCtx = "describing log groups"

	out, err := c.api.DescribeLogGroups(
		ctx,
		&cloudwatchlogs.DescribeLogGroupsInput{
			LogGroupNamePrefix: aws.String(group),
		},
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	return len(out.LogGroups) > 0, nil
}

// LogStreamExists reports whether a stream of group has a
// name starting with stream.
func (c *CloudWatch) LogStreamExists(
	ctx context.Context,
	group string,
	stream string,
) (bool, error) {
	const errCtx = "describing log streams"

	out, err := c.api.DescribeLogStreams(
		ctx,
		&cloudwatchlogs.DescribeLogStreamsInput{
			LogGroupName:        aws.String(group),
			LogStreamNamePrefix: aws.String(stream),
		},
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	return len(out.LogStreams) > 0, nil
}

type shippedLine struct {
	Log string `json:"log"`
}

// LatestEvents returns the log lines of the n most recent
// events of stream, oldest first. Each event message is
// the JSON record written by the log shipper; its "log"
// field, without newlines, is the line.
func (c *CloudWatch) LatestEvents(
	ctx context.Context,
	group string,
	stream string,
	n int32,
) ([]string, error) {
	const errCtx = "reading log events"

	out, err := c.api.GetLogEvents(
		ctx,
		&cloudwatchlogs.GetLogEventsInput{
			LogGroupName:  aws.String(group),
			LogStreamName: aws.String(stream),
			Limit:         aws.Int32(n),
			StartFromHead: aws.Bool(false),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	lines := make([]string, 0, len(out.Events))

	for i, ev := range out.Events {
		var rec shippedLine
		if err := json.Unmarshal(
			[]byte(aws.ToString(ev.Message)), &rec,
		); err != nil {
			return nil, fmt.Errorf(
				"%s: decoding event %d: %w", errCtx, i, err,
			)
		}

		lines = append(lines, strings.ReplaceAll(rec.Log, "\n", ""))
	}

	return lines, nil
}
