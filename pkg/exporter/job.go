package exporter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/promhippie/jenkins_client/pkg/config"
	"github.com/promhippie/jenkins_client/pkg/jenkins"
)

// JobCollector collects metrics about the jobs of the controller.
type JobCollector struct {
	client   *jenkins.Client
	logger   *slog.Logger
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	config   config.Target

	Buildable             *prometheus.Desc
	Building              *prometheus.Desc
	InQueue               *prometheus.Desc
	HealthScore           *prometheus.Desc
	LastBuild             *prometheus.Desc
	LastCompletedBuild    *prometheus.Desc
	LastFailedBuild       *prometheus.Desc
	LastStableBuild       *prometheus.Desc
	LastSuccessfulBuild   *prometheus.Desc
	LastUnstableBuild     *prometheus.Desc
	LastUnsuccessfulBuild *prometheus.Desc
	NextBuild             *prometheus.Desc
}

// NewJobCollector returns a new JobCollector.
func NewJobCollector(logger *slog.Logger, client *jenkins.Client, failures *prometheus.CounterVec, duration *prometheus.HistogramVec, cfg config.Target) *JobCollector {
	if failures != nil {
		failures.WithLabelValues("job").Add(0)
	}

	labels := []string{"name", "class"}
	return &JobCollector{
		client:   client,
		logger:   logger.With("collector", "job"),
		failures: failures,
		duration: duration,
		config:   cfg,

		Buildable: prometheus.NewDesc(
			"jenkins_job_buildable",
			"1 if the job is buildable, 0 otherwise",
			labels,
			nil,
		),
		Building: prometheus.NewDesc(
			"jenkins_job_building",
			"1 if the job is currently building, 0 otherwise",
			labels,
			nil,
		),
		InQueue: prometheus.NewDesc(
			"jenkins_job_in_queue",
			"1 if the job is waiting in the queue, 0 otherwise",
			labels,
			nil,
		),
		HealthScore: prometheus.NewDesc(
			"jenkins_job_health_score",
			"Health score of the job",
			labels,
			nil,
		),
		LastBuild: prometheus.NewDesc(
			"jenkins_job_last_build",
			"Build number of the last build",
			labels,
			nil,
		),
		LastCompletedBuild: prometheus.NewDesc(
			"jenkins_job_last_completed_build",
			"Build number of the last completed build",
			labels,
			nil,
		),
		LastFailedBuild: prometheus.NewDesc(
			"jenkins_job_last_failed_build",
			"Build number of the last failed build",
			labels,
			nil,
		),
		LastStableBuild: prometheus.NewDesc(
			"jenkins_job_last_stable_build",
			"Build number of the last stable build",
			labels,
			nil,
		),
		LastSuccessfulBuild: prometheus.NewDesc(
			"jenkins_job_last_successful_build",
			"Build number of the last successful build",
			labels,
			nil,
		),
		LastUnstableBuild: prometheus.NewDesc(
			"jenkins_job_last_unstable_build",
			"Build number of the last unstable build",
			labels,
			nil,
		),
		LastUnsuccessfulBuild: prometheus.NewDesc(
			"jenkins_job_last_unsuccessful_build",
			"Build number of the last unsuccessful build",
			labels,
			nil,
		),
		NextBuild: prometheus.NewDesc(
			"jenkins_job_next_build_number",
			"Number the next build of the job will get",
			labels,
			nil,
		),
	}
}

// Metrics simply returns the list metric descriptors for generating a documentation.
func (c *JobCollector) Metrics() []*prometheus.Desc {
	return []*prometheus.Desc{
		c.Buildable,
		c.Building,
		c.InQueue,
		c.HealthScore,
		c.LastBuild,
		c.LastCompletedBuild,
		c.LastFailedBuild,
		c.LastStableBuild,
		c.LastSuccessfulBuild,
		c.LastUnstableBuild,
		c.LastUnsuccessfulBuild,
		c.NextBuild,
	}
}

// Describe sends the super-set of all possible descriptors of metrics collected by this Collector.
func (c *JobCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, metric := range c.Metrics() {
		ch <- metric
	}
}

// Collect is called by the Prometheus registry when collecting metrics.
func (c *JobCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.Timeout)
	defer cancel()

	now := time.Now()
	home, err := c.client.Root(ctx)
	c.duration.WithLabelValues("job").Observe(time.Since(now).Seconds())

	if err != nil {
		c.logger.Error("Failed to fetch jobs",
			"err", err,
		)

		c.failures.WithLabelValues("job").Inc()
		return
	}

	c.logger.Debug("Fetched jobs",
		"count", len(home.Jobs),
	)

	for _, short := range home.Jobs {
		job, err := short.GetFull(ctx, c.client)

		if err != nil {
			c.logger.Error("Failed to fetch job",
				"name", short.Name,
				"err", err,
			)

			c.failures.WithLabelValues("job").Inc()
			continue
		}

		name, err := job.Name()

		if err != nil {
			// Folders and other unmodeled classes carry no job fields.
			var unsupported *jenkins.UnsupportedVariantError

			if errors.As(err, &unsupported) {
				c.logger.Debug("Skipping unsupported job",
					"name", short.Name,
					"class", job.Class(),
				)

				continue
			}

			c.logger.Error("Failed to read job",
				"name", short.Name,
				"err", err,
			)

			c.failures.WithLabelValues("job").Inc()
			continue
		}

		labels := []string{
			name,
			job.Class(),
		}

		var (
			buildable float64
			building  float64
			inQueue   float64
		)

		if value, err := job.Buildable(); err == nil && value {
			buildable = 1.0
		}

		if color, err := job.Color(); err == nil && color.IsBuilding() {
			building = 1.0
		}

		if value, err := job.InQueue(); err == nil && value {
			inQueue = 1.0
		}

		ch <- prometheus.MustNewConstMetric(
			c.Buildable,
			prometheus.GaugeValue,
			buildable,
			labels...,
		)

		ch <- prometheus.MustNewConstMetric(
			c.Building,
			prometheus.GaugeValue,
			building,
			labels...,
		)

		ch <- prometheus.MustNewConstMetric(
			c.InQueue,
			prometheus.GaugeValue,
			inQueue,
			labels...,
		)

		if reports, err := job.HealthReport(); err == nil && len(reports) > 0 {
			ch <- prometheus.MustNewConstMetric(
				c.HealthScore,
				prometheus.GaugeValue,
				float64(reports[0].Score),
				labels...,
			)
		}

		c.collectBuildNumber(ch, c.LastBuild, job.LastBuild, labels)
		c.collectBuildNumber(ch, c.LastCompletedBuild, job.LastCompletedBuild, labels)
		c.collectBuildNumber(ch, c.LastFailedBuild, job.LastFailedBuild, labels)
		c.collectBuildNumber(ch, c.LastStableBuild, job.LastStableBuild, labels)
		c.collectBuildNumber(ch, c.LastSuccessfulBuild, job.LastSuccessfulBuild, labels)
		c.collectBuildNumber(ch, c.LastUnstableBuild, job.LastUnstableBuild, labels)
		c.collectBuildNumber(ch, c.LastUnsuccessfulBuild, job.LastUnsuccessfulBuild, labels)

		if next, err := job.NextBuildNumber(); err == nil {
			ch <- prometheus.MustNewConstMetric(
				c.NextBuild,
				prometheus.GaugeValue,
				float64(next),
				labels...,
			)
		}
	}
}

func (c *JobCollector) collectBuildNumber(ch chan<- prometheus.Metric, desc *prometheus.Desc, get func() (*jenkins.ShortBuild, error), labels []string) {
	build, err := get()

	if err != nil || build == nil {
		return
	}

	ch <- prometheus.MustNewConstMetric(
		desc,
		prometheus.GaugeValue,
		float64(build.Number),
		labels...,
	)
}
