package s3deploy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultConcurrency = 8

	cacheNoStore   = "no-cache"
	cacheLongLived = "public, max-age=31536000"
	cacheDefault   = "public, max-age=3600"
)

var ErrNoBucket = errors.New("s3deploy: bucket name is required")

// Uploader is the part of manager.Uploader the deployer uses.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// CloudFrontAPI is the part of the CloudFront client the deployer uses.
type CloudFrontAPI interface {
	ListDistributions(ctx context.Context, params *cloudfront.ListDistributionsInput, optFns ...func(*cloudfront.Options)) (*cloudfront.ListDistributionsOutput, error)
	CreateDistribution(ctx context.Context, params *cloudfront.CreateDistributionInput, optFns ...func(*cloudfront.Options)) (*cloudfront.CreateDistributionOutput, error)
	CreateInvalidation(ctx context.Context, params *cloudfront.CreateInvalidationInput, optFns ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error)
}

// Deployer publishes a generated site to an S3 bucket fronted by CloudFront.
type Deployer struct {
	Bucket      string
	Uploader    Uploader
	CloudFront  CloudFrontAPI
	Concurrency int
	Log         *zap.Logger
}

// New builds a Deployer from the default AWS credential chain.
func New(ctx context.Context, bucket string, log *zap.Logger) (*Deployer, error) {
	if bucket == "" {
		return nil, ErrNoBucket
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}
	return &Deployer{
		Bucket:     bucket,
		Uploader:   manager.NewUploader(s3.NewFromConfig(cfg)),
		CloudFront: cloudfront.NewFromConfig(cfg),
		Log:        log,
	}, nil
}

// Result describes a finished deployment.
type Result struct {
	Uploaded       int
	DistributionID string
	InvalidationID string
}

// Deploy uploads outputDir, makes sure a distribution serves the bucket and
// invalidates its cache.
func (d *Deployer) Deploy(ctx context.Context, outputDir string) (Result, error) {
	var res Result

	n, err := d.Upload(ctx, outputDir)
	res.Uploaded = n
	if err != nil {
		return res, err
	}

	if res.DistributionID, err = d.EnsureDistribution(ctx); err != nil {
		return res, err
	}
	if res.InvalidationID, err = d.Invalidate(ctx, res.DistributionID); err != nil {
		return res, err
	}
	return res, nil
}

// Upload copies every file under outputDir to the bucket and returns how
// many were uploaded.
func (d *Deployer) Upload(ctx context.Context, outputDir string) (int, error) {
	if d.Bucket == "" {
		return 0, ErrNoBucket
	}
	log := d.logger()
	log.Info("starting deployment", zap.String("bucket", d.Bucket), zap.String("dir", outputDir))

	files, err := collectFiles(outputDir)
	if err != nil {
		return 0, err
	}

	limit := d.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, rel := range files {
		rel := rel
		g.Go(func() error {
			return d.uploadFile(gctx, outputDir, rel)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("deployment failed: %w", err)
	}

	log.Info("deployment complete", zap.Int("files", len(files)))
	return len(files), nil
}

func (d *Deployer) uploadFile(ctx context.Context, outputDir, rel string) error {
	path := filepath.Join(outputDir, rel)
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	key := objectKey(rel)
	_, err = d.Uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(d.Bucket),
		Key:          aws.String(key),
		Body:         file,
		ContentType:  aws.String(contentType(key)),
		CacheControl: aws.String(cacheControl(key)),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}

	d.logger().Debug("uploaded", zap.String("key", key), zap.String("uri", fmt.Sprintf("s3://%s/%s", d.Bucket, key)))
	return nil
}

// EnsureDistribution returns the distribution serving the bucket, creating
// one if none exists.
func (d *Deployer) EnsureDistribution(ctx context.Context) (string, error) {
	distID, err := d.FindDistribution(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to check for existing CloudFront distribution: %w", err)
	}
	if distID != "" {
		d.logger().Info("using existing CloudFront distribution", zap.String("id", distID))
		return distID, nil
	}

	resp, err := d.CloudFront.CreateDistribution(ctx, &cloudfront.CreateDistributionInput{
		DistributionConfig: distributionConfig(d.Bucket),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create CloudFront distribution: %w", err)
	}

	id := aws.ToString(resp.Distribution.Id)
	d.logger().Info("created CloudFront distribution",
		zap.String("id", id),
		zap.String("domain", aws.ToString(resp.Distribution.DomainName)),
	)
	return id, nil
}

// FindDistribution returns the id of the distribution whose origin is the
// bucket, or "" if there is none.
func (d *Deployer) FindDistribution(ctx context.Context) (string, error) {
	origin := originDomain(d.Bucket)
	paginator := cloudfront.NewListDistributionsPaginator(d.CloudFront, &cloudfront.ListDistributionsInput{})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to list CloudFront distributions: %w", err)
		}
		if page.DistributionList == nil {
			continue
		}
		for _, dist := range page.DistributionList.Items {
			if dist.Origins == nil {
				continue
			}
			for _, o := range dist.Origins.Items {
				if aws.ToString(o.DomainName) == origin {
					return aws.ToString(dist.Id), nil
				}
			}
		}
	}
	return "", nil
}

// Invalidate clears every cached path of the distribution.
func (d *Deployer) Invalidate(ctx context.Context, distID string) (string, error) {
	resp, err := d.CloudFront.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(distID),
		InvalidationBatch: &types.InvalidationBatch{
			CallerReference: aws.String(callerReference()),
			Paths: &types.Paths{
				Quantity: aws.Int32(1),
				Items:    []string{"/*"},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to invalidate distribution %s: %w", distID, err)
	}

	id := aws.ToString(resp.Invalidation.Id)
	d.logger().Info("invalidation created", zap.String("distribution", distID), zap.String("id", id))
	return id, nil
}

func (d *Deployer) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// cachingOptimized is the id of CloudFront's managed CachingOptimized policy.
const cachingOptimized = "658327ea-f89d-4fab-a63d-7e88639e58f6"

func distributionConfig(bucket string) *types.DistributionConfig {
	return &types.DistributionConfig{
		CallerReference:      aws.String(callerReference()),
		Comment:              aws.String("ccs website: " + bucket),
		Enabled:              aws.Bool(true),
		DefaultRootObject:    aws.String("index.html"),
		HttpVersion:          types.HttpVersionHttp2and3,
		IsIPV6Enabled:        aws.Bool(true),
		PriceClass:           types.PriceClassPriceClassAll,
		Origins:              bucketOrigin(bucket),
		DefaultCacheBehavior: siteBehavior(bucket),
		CustomErrorResponses: errorPages("/error.html", 403, 404),
		Restrictions: &types.Restrictions{
			GeoRestriction: &types.GeoRestriction{
				RestrictionType: types.GeoRestrictionTypeNone,
				Quantity:        aws.Int32(0),
			},
		},
		ViewerCertificate: &types.ViewerCertificate{
			CloudFrontDefaultCertificate: aws.Bool(true),
		},
	}
}

func bucketOrigin(bucket string) *types.Origins {
	return &types.Origins{
		Quantity: aws.Int32(1),
		Items: []types.Origin{{
			Id:             aws.String(bucket),
			DomainName:     aws.String(originDomain(bucket)),
			S3OriginConfig: &types.S3OriginConfig{OriginAccessIdentity: aws.String("")},
		}},
	}
}

// siteBehavior serves GET and HEAD only; the forms post to a third-party endpoint.
func siteBehavior(bucket string) *types.DefaultCacheBehavior {
	return &types.DefaultCacheBehavior{
		TargetOriginId:       aws.String(bucket),
		ViewerProtocolPolicy: types.ViewerProtocolPolicyRedirectToHttps,
		CachePolicyId:        aws.String(cachingOptimized),
		Compress:             aws.Bool(true),
		AllowedMethods: &types.AllowedMethods{
			Quantity: aws.Int32(2),
			Items:    []types.Method{types.MethodGet, types.MethodHead},
		},
	}
}

// errorPages maps each S3 error code to page with a 404 status. S3 answers
// 403 rather than 404 for missing keys when listing is not allowed.
func errorPages(page string, codes ...int32) *types.CustomErrorResponses {
	items := make([]types.CustomErrorResponse, len(codes))
	for i, code := range codes {
		items[i] = types.CustomErrorResponse{
			ErrorCode:          aws.Int32(code),
			ResponseCode:       aws.String("404"),
			ResponsePagePath:   aws.String(page),
			ErrorCachingMinTTL: aws.Int64(60),
		}
	}
	return &types.CustomErrorResponses{Quantity: aws.Int32(int32(len(items))), Items: items}
}

func originDomain(bucket string) string {
	return bucket + ".s3.amazonaws.com"
}

func callerReference() string {
	return "ccs-website-" + uuid.NewString()
}

func collectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return files, nil
}

func objectKey(rel string) string {
	return filepath.ToSlash(rel)
}

func contentType(key string) string {
	ct := mime.TypeByExtension(filepath.Ext(key))
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}

// cacheControl keeps pages fresh and lets fingerprint-free static files
// cache for an hour. Anything under assets/ is long-lived.
func cacheControl(key string) string {
	switch {
	case strings.HasSuffix(key, ".html"):
		return cacheNoStore
	case strings.HasPrefix(key, "assets/"):
		return cacheLongLived
	default:
		return cacheDefault
	}
}
