package s3

import (
	"fmt"
	"net/url"
	"strings"
)

const scheme = "s3"

// Location is a bucket plus an optional key or key prefix.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	if l.Key == "" {
		return fmt.Sprintf("%v://%v", scheme, l.Bucket)
	}
	return fmt.Sprintf("%v://%v/%v", scheme, l.Bucket, l.Key)
}

// IsURL returns true if s uses the s3:// scheme.
func IsURL(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), scheme+"://")
}

// ParseURL expects s to be of the form s3://<bucket>[/<key>].
// Leading slashes are removed from the key; trailing slashes are kept since they are part of a prefix.
func ParseURL(s string) (retval Location, err error) {
	u, err := url.Parse(s)
	if err != nil {
		return retval, fmt.Errorf("error parsing S3 URL: %v", err)
	}
	if u.Scheme != scheme {
		return retval, fmt.Errorf("expected S3 URL scheme %q but got %q", scheme, u.Scheme)
	}
	retval.Bucket = u.Host
	if retval.Bucket == "" {
		return retval, fmt.Errorf("S3 URL %q is missing a bucket name", s)
	}
	retval.Key = strings.TrimLeft(u.Path, "/")
	return
}
