package s3deploy

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type uploaded struct {
	body         string
	contentType  string
	cacheControl string
}

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string]uploaded
	failKey string
}

func (f *fakeUploader) Upload(_ context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	key := aws.ToString(in.Key)
	if key == f.failKey {
		return nil, errors.New("access denied")
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = map[string]uploaded{}
	}
	f.objects[key] = uploaded{
		body:         string(body),
		contentType:  aws.ToString(in.ContentType),
		cacheControl: aws.ToString(in.CacheControl),
	}
	return &manager.UploadOutput{}, nil
}

type fakeCloudFront struct {
	distributions []types.DistributionSummary
	created       []*cloudfront.CreateDistributionInput
	invalidated   []*cloudfront.CreateInvalidationInput
}

func (f *fakeCloudFront) ListDistributions(_ context.Context, _ *cloudfront.ListDistributionsInput, _ ...func(*cloudfront.Options)) (*cloudfront.ListDistributionsOutput, error) {
	return &cloudfront.ListDistributionsOutput{
		DistributionList: &types.DistributionList{Items: f.distributions},
	}, nil
}

func (f *fakeCloudFront) CreateDistribution(_ context.Context, in *cloudfront.CreateDistributionInput, _ ...func(*cloudfront.Options)) (*cloudfront.CreateDistributionOutput, error) {
	f.created = append(f.created, in)
	return &cloudfront.CreateDistributionOutput{
		Distribution: &types.Distribution{Id: aws.String("ENEW"), DomainName: aws.String("dnew.cloudfront.net")},
	}, nil
}

func (f *fakeCloudFront) CreateInvalidation(_ context.Context, in *cloudfront.CreateInvalidationInput, _ ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error) {
	f.invalidated = append(f.invalidated, in)
	return &cloudfront.CreateInvalidationOutput{
		Invalidation: &types.Invalidation{Id: aws.String("I1")},
	}, nil
}

func summary(id, bucket string) types.DistributionSummary {
	return types.DistributionSummary{
		Id: aws.String(id),
		Origins: &types.Origins{
			Quantity: aws.Int32(1),
			Items:    []types.Origin{{Id: aws.String(bucket), DomainName: aws.String(originDomain(bucket))}},
		},
	}
}

func site(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html":          "<h1>home</h1>",
		"error.html":          "<h1>404</h1>",
		"css/style.css":       "body{}",
		"js/site.js":          "//",
		"assets/logo.png":     "png",
		"assets/img/hero.svg": "<svg/>",
	}
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}
	return dir
}

func TestUpload(t *testing.T) {
	up := &fakeUploader{}
	d := &Deployer{Bucket: "ccs-site", Uploader: up, Concurrency: 2, Log: zaptest.NewLogger(t)}

	n, err := d.Upload(context.Background(), site(t))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	keys := make([]string, 0, len(up.objects))
	for k := range up.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"assets/img/hero.svg", "assets/logo.png", "css/style.css", "error.html", "index.html", "js/site.js"}, keys)

	index := up.objects["index.html"]
	assert.Equal(t, "<h1>home</h1>", index.body)
	assert.Equal(t, "text/html; charset=utf-8", index.contentType)
	assert.Equal(t, "no-cache", index.cacheControl)

	assert.Equal(t, "public, max-age=31536000", up.objects["assets/logo.png"].cacheControl)
	assert.Equal(t, "public, max-age=3600", up.objects["css/style.css"].cacheControl)
}

func TestUpload_Errors(t *testing.T) {
	_, err := (&Deployer{Uploader: &fakeUploader{}}).Upload(context.Background(), site(t))
	assert.ErrorIs(t, err, ErrNoBucket)

	d := &Deployer{Bucket: "ccs-site", Uploader: &fakeUploader{failKey: "css/style.css"}}
	_, err = d.Upload(context.Background(), site(t))
	assert.ErrorContains(t, err, "failed to upload css/style.css")

	_, err = d.Upload(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestFindDistribution(t *testing.T) {
	cf := &fakeCloudFront{distributions: []types.DistributionSummary{
		summary("EOTHER", "other-bucket"),
		summary("ESITE", "ccs-site"),
		{Id: aws.String("ENOORIGINS")},
	}}
	d := &Deployer{Bucket: "ccs-site", CloudFront: cf}

	id, err := d.FindDistribution(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ESITE", id)

	d.Bucket = "unknown"
	id, err = d.FindDistribution(context.Background())
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestEnsureDistribution(t *testing.T) {
	cf := &fakeCloudFront{distributions: []types.DistributionSummary{summary("ESITE", "ccs-site")}}
	d := &Deployer{Bucket: "ccs-site", CloudFront: cf}

	id, err := d.EnsureDistribution(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ESITE", id)
	assert.Empty(t, cf.created)

	d.Bucket = "new-bucket"
	id, err = d.EnsureDistribution(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ENEW", id)
	require.Len(t, cf.created, 1)

	cfg := cf.created[0].DistributionConfig
	assert.Equal(t, "index.html", aws.ToString(cfg.DefaultRootObject))
	assert.Equal(t, "new-bucket.s3.amazonaws.com", aws.ToString(cfg.Origins.Items[0].DomainName))
	assert.Equal(t, types.HttpVersionHttp2and3, cfg.HttpVersion)
	assert.Equal(t, cachingOptimized, aws.ToString(cfg.DefaultCacheBehavior.CachePolicyId))
	assert.True(t, aws.ToBool(cfg.DefaultCacheBehavior.Compress))
	assert.Equal(t, []types.Method{types.MethodGet, types.MethodHead}, cfg.DefaultCacheBehavior.AllowedMethods.Items)

	require.Len(t, cfg.CustomErrorResponses.Items, 2)
	for _, page := range cfg.CustomErrorResponses.Items {
		assert.Equal(t, "/error.html", aws.ToString(page.ResponsePagePath))
		assert.Equal(t, "404", aws.ToString(page.ResponseCode))
	}
	assert.Equal(t, int32(403), aws.ToInt32(cfg.CustomErrorResponses.Items[0].ErrorCode))
}

func TestDeploy(t *testing.T) {
	up := &fakeUploader{}
	cf := &fakeCloudFront{distributions: []types.DistributionSummary{summary("ESITE", "ccs-site")}}
	d := &Deployer{Bucket: "ccs-site", Uploader: up, CloudFront: cf}

	res, err := d.Deploy(context.Background(), site(t))
	require.NoError(t, err)
	assert.Equal(t, Result{Uploaded: 6, DistributionID: "ESITE", InvalidationID: "I1"}, res)

	require.Len(t, cf.invalidated, 1)
	batch := cf.invalidated[0].InvalidationBatch
	assert.Equal(t, "ESITE", aws.ToString(cf.invalidated[0].DistributionId))
	assert.Equal(t, []string{"/*"}, batch.Paths.Items)
	assert.NotEmpty(t, aws.ToString(batch.CallerReference))
}

func TestCacheControl(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"index.html", "no-cache"},
		{"blog/post.html", "no-cache"},
		{"assets/logo.png", "public, max-age=31536000"},
		{"css/style.css", "public, max-age=3600"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, cacheControl(tt.key))
		})
	}
	assert.Equal(t, "application/octet-stream", contentType("LICENSE"))
}
