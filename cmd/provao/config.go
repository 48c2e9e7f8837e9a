package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	miniogo "github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/pflag"

	"github.com/CiroJunio/provao"
	"github.com/CiroJunio/provao/blobstore"
	blobminio "github.com/CiroJunio/provao/blobstore/minio"
	blobs3 "github.com/CiroJunio/provao/blobstore/s3"
	"github.com/CiroJunio/provao/recordstore"
	"github.com/CiroJunio/provao/resource"
)

// config holds the flags shared by every command.
type config struct {
	data      string
	file      string
	memory    int
	threshold int

	logLevel  string
	logFormat string

	memLimit int64
	workers  int64
	ioLimit  int64

	source    string
	bucket    string
	prefix    string
	endpoint  string
	region    string
	accessKey string
	secretKey string
	insecure  bool
	partSize  int64
}

func (c *config) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&c.data, "data", "d", ".", "working directory (and local source root)")
	fs.StringVarP(&c.file, "file", "f", "PROVAO.bin", "name of the binary export in the source store")
	fs.IntVarP(&c.memory, "memory", "m", provao.DefaultMemory, "records held in memory by run generation")
	fs.IntVarP(&c.threshold, "threshold", "t", provao.DefaultThreshold, "quicksort in-memory threshold")

	fs.StringVar(&c.logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	fs.StringVar(&c.logFormat, "log-format", "text", "log format: text|json")

	fs.Int64Var(&c.memLimit, "mem-limit", 0, "working memory budget in bytes (0 = unlimited)")
	fs.Int64Var(&c.workers, "workers", 1, "concurrent sorts (bench)")
	fs.Int64Var(&c.ioLimit, "io-limit", 0, "record file throughput in bytes/s (0 = unlimited)")

	fs.StringVar(&c.source, "source", "local", "source store: local|minio|s3")
	fs.StringVar(&c.bucket, "bucket", "", "bucket of the minio or s3 source")
	fs.StringVar(&c.prefix, "prefix", "", "key prefix in the bucket")
	fs.StringVar(&c.endpoint, "endpoint", "", "object store endpoint (minio host:port, s3 URL)")
	fs.StringVar(&c.region, "region", "", "s3 region (default from the AWS environment)")
	fs.StringVar(&c.accessKey, "access-key", "", "access key of the object store")
	fs.StringVar(&c.secretKey, "secret-key", "", "secret key of the object store")
	fs.BoolVar(&c.insecure, "insecure", false, "use plain HTTP for minio")
	fs.Int64Var(&c.partSize, "part-size", 0, "s3 multipart upload part size in bytes")
}

func (c *config) logger(w io.Writer) (*provao.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
		return nil, usagef("invalid --log-level %q", c.logLevel)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch c.logFormat {
	case "text":
		return provao.NewLogger(slog.NewTextHandler(w, opts)), nil
	case "json":
		return provao.NewLogger(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, usagef("invalid --log-format %q", c.logFormat)
	}
}

func (c *config) controller() *resource.Controller {
	return resource.NewController(resource.Config{
		MemoryLimitBytes:   c.memLimit,
		MaxWorkers:         c.workers,
		IOLimitBytesPerSec: c.ioLimit,
	})
}

// blobStore opens the source store selected by --source.
func (c *config) blobStore(ctx context.Context) (blobstore.BlobStore, error) {
	switch c.source {
	case "local":
		return blobstore.NewLocalStore(c.data), nil
	case "minio":
		if c.bucket == "" || c.endpoint == "" {
			return nil, usagef("--source minio needs --bucket and --endpoint")
		}
		client, err := miniogo.New(c.endpoint, &miniogo.Options{
			Creds:  miniocreds.NewStaticV4(c.accessKey, c.secretKey, ""),
			Secure: !c.insecure,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return blobminio.NewStore(client, c.bucket, c.prefix), nil
	case "s3":
		if c.bucket == "" {
			return nil, usagef("--source s3 needs --bucket")
		}
		var loadOpts []func(*awsconfig.LoadOptions) error
		if c.region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(c.region))
		}
		if c.accessKey != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(c.accessKey, c.secretKey, "")))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("aws config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if c.endpoint != "" {
				o.BaseEndpoint = aws.String(c.endpoint)
				o.UsePathStyle = true
			}
		})
		var opts []blobs3.Option
		if c.partSize > 0 {
			up := blobs3.DefaultUploadConfig()
			up.PartSize = c.partSize
			opts = append(opts, blobs3.WithUploadConfig(up))
		}
		return blobs3.NewStore(client, c.bucket, c.prefix, opts...), nil
	default:
		return nil, usagef("unknown --source %q", c.source)
	}
}

// env is the wired sorter of one command invocation.
type env struct {
	sorter    *provao.Sorter
	work      *recordstore.LocalStore
	rc        *resource.Controller
	logger    *provao.Logger
	collector *provao.BasicMetricsCollector
}

func (c *config) open(ctx context.Context, stderr io.Writer) (*env, error) {
	logger, err := c.logger(stderr)
	if err != nil {
		return nil, err
	}
	src, err := c.blobStore(ctx)
	if err != nil {
		return nil, err
	}

	rc := c.controller()
	work, err := recordstore.NewLocalStore(c.data, recordstore.WithController(rc))
	if err != nil {
		return nil, err
	}

	collector := &provao.BasicMetricsCollector{}
	sorter, err := provao.New(work,
		provao.WithMemory(c.memory),
		provao.WithThreshold(c.threshold),
		provao.WithLogger(logger),
		provao.WithResourceController(rc),
		provao.WithSource(src),
		provao.WithMetricsCollector(collector),
	)
	if err != nil {
		return nil, err
	}

	return &env{sorter: sorter, work: work, rc: rc, logger: logger, collector: collector}, nil
}
