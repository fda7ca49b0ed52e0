package s3

import (
	"context"
	"io/ioutil"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// NewBasicClient uses the default AWS credential chain.
func NewBasicClient(bucket, region string) BasicClient {
	awsConfig := aws.NewConfig()
	awsConfig.Region = aws.String(region)
	sess := session.Must(session.NewSession(awsConfig))
	return NewBasicClientWithAPI(bucket, s3.New(sess))
}

func NewBasicClientWithAPI(bucket string, api s3iface.S3API) BasicClient {
	return &basicClient{
		bucket: bucket,
		api:    api,
	}
}

type basicClient struct {
	bucket string
	api    s3iface.S3API
}

func (s *basicClient) List(ctx context.Context, prefix string) (keys []string, err error) {
	keys = make([]string, 0, 1000)
	params := &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		MaxKeys: aws.Int64(1000),
		Prefix:  aws.String(prefix),
	}
	err = s.api.ListObjectsV2PagesWithContext(ctx, params, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, v := range page.Contents {
			keys = append(keys, aws.StringValue(v.Key))
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return
}

func (s *basicClient) Get(ctx context.Context, key string) ([]byte, error) {
	res, err := s.api.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if awsErr, ok := err.(awserr.Error); ok && awsErr.Code() == s3.ErrCodeNoSuchKey {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	defer res.Body.Close()
	return ioutil.ReadAll(res.Body)
}
