package wordfs

import (
	"fmt"
	"io"
	"io/ioutil"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	lru "github.com/hashicorp/golang-lru"
	"github.com/mattetti/filebuffer"
)

// objectCacheSize bounds the number of whole objects kept in memory to
// avoid re-fetching intermediate files that several tasks read.
const objectCacheSize = 32

// S3FileSystem abstracts AWS S3 as a filesystem. Paths are of the form
// "s3://bucket/key".
type S3FileSystem struct {
	s3Client    *s3.S3
	objectCache *lru.Cache
}

func parseS3URI(uri string) (*url.URL, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme != "s3" {
		return nil, fmt.Errorf("invalid s3 URI scheme: %s", uri)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("s3 URI missing bucket: %s", uri)
	}
	parsed.Path = strings.TrimPrefix(parsed.Path, "/")
	return parsed, nil
}

// globToPrefix returns the key prefix of keyGlob up to its first glob
// metacharacter.
func globToPrefix(keyGlob string) string {
	if idx := strings.IndexAny(keyGlob, "*?["); idx != -1 {
		return keyGlob[:idx]
	}
	return keyGlob
}

// ListFiles lists objects that match pathGlob. A glob without
// metacharacters is treated as a key or key prefix, mirroring how a local
// directory is walked.
func (s *S3FileSystem) ListFiles(pathGlob string) ([]FileInfo, error) {
	parsed, err := parseS3URI(pathGlob)
	if err != nil {
		return nil, err
	}

	files := make([]FileInfo, 0)
	params := &s3.ListObjectsV2Input{
		Bucket: aws.String(parsed.Host),
		Prefix: aws.String(globToPrefix(parsed.Path)),
	}

	var matchErr error
	err = s.s3Client.ListObjectsV2Pages(params,
		func(page *s3.ListObjectsV2Output, _ bool) bool {
			for _, object := range page.Contents {
				matched, err := path.Match(parsed.Path, *object.Key)
				if err != nil {
					matchErr = err
					return false
				}
				if matched || strings.HasPrefix(*object.Key, parsed.Path) {
					files = append(files, FileInfo{
						Name: fmt.Sprintf("s3://%s/%s", parsed.Host, *object.Key),
						Size: *object.Size,
					})
				}
			}
			return true
		})
	if matchErr != nil {
		return nil, matchErr
	}
	return files, err
}

// ReadFile reads the object at filePath skipping startAt bytes at the
// beginning. Whole-object reads are served from an LRU cache when possible.
func (s *S3FileSystem) ReadFile(filePath string, startAt int64) ([]byte, error) {
	if startAt == 0 {
		if cached, ok := s.objectCache.Get(filePath); ok {
			return cached.([]byte), nil
		}
	}

	parsed, err := parseS3URI(filePath)
	if err != nil {
		return nil, err
	}

	params := &s3.GetObjectInput{
		Bucket: aws.String(parsed.Host),
		Key:    aws.String(parsed.Path),
	}
	if startAt > 0 {
		params.Range = aws.String(fmt.Sprintf("bytes=%d-", startAt))
	}

	result, err := s.s3Client.GetObject(params)
	if err != nil {
		return nil, err
	}
	defer result.Body.Close()

	data, err := ioutil.ReadAll(result.Body)
	if err != nil {
		return nil, err
	}
	if startAt == 0 {
		s.objectCache.Add(filePath, data)
	}
	return data, nil
}

// s3Writer buffers writes in memory and uploads the object on Close.
type s3Writer struct {
	client *s3.S3
	cache  *lru.Cache
	bucket string
	key    string
	buf    *filebuffer.Buffer
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *s3Writer) Close() error {
	if _, err := w.buf.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err := w.client.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.key),
		Body:   w.buf,
	})
	if err == nil {
		w.cache.Remove(fmt.Sprintf("s3://%s/%s", w.bucket, w.key))
	}
	return err
}

// OpenWriter opens a writer to the object at filePath. The object is
// uploaded when the writer is closed.
func (s *S3FileSystem) OpenWriter(filePath string) (io.WriteCloser, error) {
	parsed, err := parseS3URI(filePath)
	if err != nil {
		return nil, err
	}
	return &s3Writer{
		client: s.s3Client,
		cache:  s.objectCache,
		bucket: parsed.Host,
		key:    parsed.Path,
		buf:    filebuffer.New(nil),
	}, nil
}

// WriteFile writes data to the object at filePath.
func (s *S3FileSystem) WriteFile(filePath string, data []byte) error {
	writer, err := s.OpenWriter(filePath)
	if err != nil {
		return err
	}
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

// Delete deletes the object at filePath.
func (s *S3FileSystem) Delete(filePath string) error {
	parsed, err := parseS3URI(filePath)
	if err != nil {
		return err
	}
	_, err = s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(parsed.Host),
		Key:    aws.String(parsed.Path),
	})
	if err == nil {
		s.objectCache.Remove(filePath)
	}
	return err
}

// Init initializes the filesystem from the ambient AWS configuration.
func (s *S3FileSystem) Init() error {
	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return err
	}
	s.s3Client = s3.New(sess)

	s.objectCache, err = lru.New(objectCacheSize)
	return err
}

// Join joins file path elements
func (s *S3FileSystem) Join(elem ...string) string {
	stripped := make([]string, 0, len(elem))
	for i, e := range elem {
		if i > 0 {
			e = strings.TrimLeft(e, "/")
		}
		stripped = append(stripped, strings.TrimRight(e, "/"))
	}
	return strings.Join(stripped, "/")
}
