package exporter

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yourusername/s3-file-exporter/errs"
	"github.com/yourusername/s3-file-exporter/logger"
	"github.com/yourusername/s3-file-exporter/types"
)

const namespace = "s3"

// Options holds the immutable settings of a Collector
type Options struct {
	Bucket           string
	Folders          []string
	Patterns         []string
	SmartFolderDate  bool
	SmartPatternDate bool
	BaseDate         string
	Location         *time.Location
	PageSize         int32
}

// Collector lists the configured folders on every scrape and exports
// the newest and oldest matching object per folder and pattern.
type Collector struct {
	lister types.Lister
	opts   Options
	log    *logger.Logger
	now    func() time.Time

	latestTimestamp *prometheus.Desc
	oldestTimestamp *prometheus.Desc
	latestSize      *prometheus.Desc
	oldestSize      *prometheus.Desc
	fileCount       *prometheus.Desc
	success         *prometheus.Desc
}

// NewCollector validates opts and creates a collector backed by lister
func NewCollector(lister types.Lister, opts Options, log *logger.Logger) (*Collector, error) {
	if lister == nil {
		return nil, fmt.Errorf("lister cannot be nil")
	}
	if opts.Bucket == "" {
		return nil, fmt.Errorf("bucket name cannot be empty")
	}
	if len(opts.Folders) == 0 {
		return nil, fmt.Errorf("at least one folder is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if len(opts.Patterns) == 0 {
		opts.Patterns = []string{"*"}
	}

	opts.Folders = unique(opts.Folders)
	opts.Patterns = unique(opts.Patterns)

	if opts.SmartFolderDate {
		for _, folder := range opts.Folders {
			if err := ValidateTemplate(folder); err != nil {
				return nil, err
			}
		}
	}
	for _, pattern := range opts.Patterns {
		if opts.SmartPatternDate {
			if err := ValidateTemplate(pattern); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := CompilePattern(pattern); err != nil {
			return nil, err
		}
	}

	c := &Collector{
		lister: lister,
		opts:   opts,
		log:    log.With().Str("bucket", opts.Bucket).Logger(),
		now:    time.Now,
	}

	if _, err := ResolveBaseDate(opts.BaseDate, c.now().In(opts.Location)); err != nil {
		return nil, err
	}

	fileLabels := []string{"folder", "file", "pattern", "bucket"}
	c.latestTimestamp = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "latest_file_timestamp"),
		"Last modified timestamp (seconds since epoch) of the newest matching file in the folder",
		fileLabels, nil,
	)
	c.oldestTimestamp = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "oldest_file_timestamp"),
		"Last modified timestamp (seconds since epoch) of the oldest matching file in the folder",
		fileLabels, nil,
	)
	c.latestSize = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "latest_file_size"),
		"Size in bytes of the newest matching file in the folder",
		fileLabels, nil,
	)
	c.oldestSize = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "oldest_file_size"),
		"Size in bytes of the oldest matching file in the folder",
		fileLabels, nil,
	)
	c.fileCount = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "file_count"),
		"Number of files in the folder matching the pattern",
		fileLabels, nil,
	)
	c.success = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "success"),
		"Whether the listing of the folder succeeded (1) or not (0)",
		[]string{"folder", "bucket"}, nil,
	)

	return c, nil
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.latestTimestamp
	ch <- c.oldestTimestamp
	ch <- c.latestSize
	ch <- c.oldestSize
	ch <- c.fileCount
	ch <- c.success
}

// Collect implements prometheus.Collector. Each call runs a full listing pass.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	bucket := c.opts.Bucket

	for _, status := range c.Snapshot(context.Background()) {
		for _, r := range status.Results {
			newest, oldest := r.Newest.Key, r.Oldest.Key

			ch <- prometheus.MustNewConstMetric(c.latestTimestamp, prometheus.GaugeValue,
				types.Timestamp(r.Newest.LastModified), r.Folder, newest, r.Pattern, bucket)
			ch <- prometheus.MustNewConstMetric(c.oldestTimestamp, prometheus.GaugeValue,
				types.Timestamp(r.Oldest.LastModified), r.Folder, newest, r.Pattern, bucket)
			ch <- prometheus.MustNewConstMetric(c.latestSize, prometheus.GaugeValue,
				float64(r.Newest.Size), r.Folder, newest, r.Pattern, bucket)
			ch <- prometheus.MustNewConstMetric(c.oldestSize, prometheus.GaugeValue,
				float64(r.Oldest.Size), r.Folder, oldest, r.Pattern, bucket)
			ch <- prometheus.MustNewConstMetric(c.fileCount, prometheus.GaugeValue,
				float64(r.Count), r.Folder, newest, r.Pattern, bucket)
		}

		value := 0.0
		if status.Success {
			value = 1
		}
		ch <- prometheus.MustNewConstMetric(c.success, prometheus.GaugeValue, value, status.Folder, bucket)
	}
}

// Snapshot runs one collection pass and returns the per-folder outcome in configuration order
func (c *Collector) Snapshot(ctx context.Context) []types.FolderStatus {
	now := c.now().In(c.opts.Location)
	base, err := ResolveBaseDate(c.opts.BaseDate, now)
	if err != nil {
		c.log.ErrorWith("Error resolving base date, using current time", err, nil)
		base = now
	}

	matchers := c.compilePatterns(base)

	statuses := make([]types.FolderStatus, 0, len(c.opts.Folders))
	for _, folder := range c.opts.Folders {
		statuses = append(statuses, c.collectFolder(ctx, folder, base, matchers))
	}
	return statuses
}

// collectFolder lists one folder and aggregates it for every pattern
func (c *Collector) collectFolder(ctx context.Context, folder string, base time.Time, matchers []*Matcher) types.FolderStatus {
	prefix, hasPrefix := ResolvePrefix(folder, c.opts.SmartFolderDate, base)
	status := types.FolderStatus{Folder: folder, Prefix: prefix}

	c.log.DebugWith("Listing contents of bucket", map[string]interface{}{
		"folder": folder,
		"prefix": prefix,
	})

	result := ListFolder(ctx, c.lister, types.ListRequest{
		Bucket:    c.opts.Bucket,
		Prefix:    prefix,
		HasPrefix: hasPrefix,
		MaxKeys:   c.opts.PageSize,
	})
	if !result.Success() {
		fields := map[string]interface{}{
			"folder": folder,
			"prefix": prefix,
			"pages":  result.Pages,
			"kind":   errs.KindOf(result.Err).String(),
		}
		if errs.IsEmpty(result.Err) {
			c.log.WarnWith("No content found in bucket", fields)
		} else {
			c.log.ErrorWith("Error listing contents of bucket", result.Err, fields)
		}
		return status
	}
	status.Success = true

	for i, m := range matchers {
		matched := MatchObjects(result.Objects, m)
		if r, ok := Aggregate(folder, prefix, c.opts.Patterns[i], matched); ok {
			status.Results = append(status.Results, r)
		}
	}

	c.log.DebugWith("Listed folder", map[string]interface{}{
		"folder":  folder,
		"pages":   result.Pages,
		"objects": len(result.Objects),
		"results": len(status.Results),
	})

	return status
}

// compilePatterns expands and compiles the configured patterns for one pass.
// The returned slice is index-aligned with opts.Patterns; a pattern that fails
// to compile gets a matcher that never matches.
func (c *Collector) compilePatterns(base time.Time) []*Matcher {
	matchers := make([]*Matcher, len(c.opts.Patterns))
	for i, pattern := range c.opts.Patterns {
		expanded := pattern
		if c.opts.SmartPatternDate {
			expanded = Expand(pattern, base)
		}

		m, err := CompilePattern(expanded)
		if err != nil {
			c.log.ErrorWith("Error compiling pattern", err, map[string]interface{}{"pattern": pattern})
			m = neverMatch(expanded)
		}
		matchers[i] = m
	}
	return matchers
}

func neverMatch(pattern string) *Matcher {
	return &Matcher{Pattern: pattern, glob: nothing{}}
}

type nothing struct{}

func (nothing) Match(string) bool { return false }

func unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
