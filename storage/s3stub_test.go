package storage

import (
	"bufio"
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// s3Stub is an in-memory S3 endpoint covering the calls MinioBackend makes:
// bucket HEAD/PUT, object HEAD/GET/PUT/DELETE and ListObjectsV2, path style.
type s3Stub struct {
	mu          sync.Mutex
	buckets     map[string]bool
	objects     map[string][]byte // "<bucket>/<key>"
	modTime     time.Time
	bucketPuts  int
	objectPuts  int
	objectReads int
}

func newS3Stub() *s3Stub {
	return &s3Stub{
		buckets: map[string]bool{},
		objects: map[string][]byte{},
		modTime: time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC),
	}
}

func (s *s3Stub) object(bucket, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[bucket+"/"+key]
	return data, ok
}

func (s *s3Stub) hasBucket(bucket string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buckets[bucket]
}

func (s *s3Stub) counts() (bucketPuts, objectPuts, objectReads int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bucketPuts, s.objectPuts, s.objectReads
}

func (s *s3Stub) seed(bucket, key, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[bucket] = true
	s.objects[bucket+"/"+key] = []byte(body)
}

func (s *s3Stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if key == "" {
		s.serveBucket(w, r, bucket)
		return
	}
	if !s.buckets[bucket] {
		s3Error(w, r, http.StatusNotFound, "NoSuchBucket")
		return
	}

	id := bucket + "/" + key
	switch r.Method {
	case http.MethodHead, http.MethodGet:
		data, ok := s.objects[id]
		if !ok {
			s3Error(w, r, http.StatusNotFound, "NoSuchKey")
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Last-Modified", s.modTime.Format(http.TimeFormat))
		w.Header().Set("ETag", etag(data))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			s.objectReads++
			_, _ = w.Write(data)
		}
	case http.MethodPut:
		data, err := readPayload(r)
		if err != nil {
			s3Error(w, r, http.StatusBadRequest, "IncompleteBody")
			return
		}
		s.objects[id] = data
		s.objectPuts++
		w.Header().Set("ETag", etag(data))
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(s.objects, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		s3Error(w, r, http.StatusMethodNotAllowed, "MethodNotAllowed")
	}
}

func (s *s3Stub) serveBucket(w http.ResponseWriter, r *http.Request, bucket string) {
	switch r.Method {
	case http.MethodHead:
		if !s.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		if s.buckets[bucket] {
			s3Error(w, r, http.StatusConflict, "BucketAlreadyOwnedByYou")
			return
		}
		s.buckets[bucket] = true
		s.bucketPuts++
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		if !s.buckets[bucket] {
			s3Error(w, r, http.StatusNotFound, "NoSuchBucket")
			return
		}
		if _, ok := r.URL.Query()["location"]; ok {
			writeXML(w, struct {
				XMLName xml.Name `xml:"LocationConstraint"`
			}{})
			return
		}
		s.list(w, bucket, r.URL.Query().Get("prefix"))
	default:
		s3Error(w, r, http.StatusMethodNotAllowed, "MethodNotAllowed")
	}
}

type listEntry struct {
	Key          string
	LastModified string
	ETag         string
	Size         int64
	StorageClass string
}

type listResult struct {
	XMLName     xml.Name `xml:"ListBucketResult"`
	Name        string
	Prefix      string
	KeyCount    int
	MaxKeys     int
	IsTruncated bool
	Contents    []listEntry
}

func (s *s3Stub) list(w http.ResponseWriter, bucket, prefix string) {
	res := listResult{Name: bucket, Prefix: prefix, MaxKeys: 1000}
	for id, data := range s.objects {
		key, ok := strings.CutPrefix(id, bucket+"/")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		res.Contents = append(res.Contents, listEntry{
			Key:          key,
			LastModified: s.modTime.Format("2006-01-02T15:04:05.000Z"),
			ETag:         etag(data),
			Size:         int64(len(data)),
			StorageClass: "STANDARD",
		})
	}
	sort.Slice(res.Contents, func(i, j int) bool { return res.Contents[i].Key < res.Contents[j].Key })
	res.KeyCount = len(res.Contents)
	writeXML(w, res)
}

func etag(data []byte) string {
	sum := md5.Sum(data)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

func writeXML(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, xml.Header)
	_ = xml.NewEncoder(w).Encode(v)
}

// s3Error answers HEAD with a bare status, like S3 does, and everything else
// with an XML error document.
func s3Error(w http.ResponseWriter, r *http.Request, status int, code string) {
	if r.Method == http.MethodHead {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	fmt.Fprintf(w, `%s<Error><Code>%s</Code><Message>%s</Message><Resource>%s</Resource><RequestId>stub</RequestId></Error>`,
		xml.Header, code, code, r.URL.Path)
}

// readPayload returns the object bytes, undoing aws-chunked framing when the
// client streams a signed or trailing-checksum payload.
func readPayload(r *http.Request) ([]byte, error) {
	if !strings.HasPrefix(r.Header.Get("X-Amz-Content-Sha256"), "STREAMING-") {
		return io.ReadAll(r.Body)
	}
	br := bufio.NewReader(r.Body)
	var out bytes.Buffer
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, err
		}
		sizeHex, _, _ := strings.Cut(strings.TrimSpace(line), ";")
		n, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return out.Bytes(), nil
		}
		if _, err := io.CopyN(&out, br, n); err != nil {
			return nil, err
		}
		if _, err := br.Discard(2); err != nil {
			return nil, err
		}
	}
}
