package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// DiskStore keeps objects as plain files under BasePath. Used for local
// development and tests; presigned uploads require S3.
type DiskStore struct {
	BasePath  string
	dirs      map[string]bool
	dirsMutex sync.Mutex
}

func NewDiskStore(basePath string) (*DiskStore, error) {
	if err := os.MkdirAll(basePath, 0777); err != nil {
		return nil, err
	}
	return &DiskStore{
		BasePath: basePath,
		dirs:     make(map[string]bool, 10),
	}, nil
}

func (s *DiskStore) createDir(dir string) error {
	s.dirsMutex.Lock()
	defer s.dirsMutex.Unlock()

	if ok := s.dirs[dir]; ok {
		return nil
	}
	s.dirs[dir] = true
	return os.MkdirAll(dir, 0777)
}

func (s *DiskStore) fullPath(key string) string {
	return filepath.Join(s.BasePath, filepath.FromSlash(key))
}

func (s *DiskStore) Put(key string, data []byte, contentType string) error {
	fileName := s.fullPath(key)
	if err := s.createDir(filepath.Dir(fileName)); err != nil {
		return err
	}
	return os.WriteFile(fileName, data, 0666)
}

func (s *DiskStore) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(s.fullPath(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *DiskStore) DeleteMany(keys []string) error {
	for _, key := range keys {
		err := os.Remove(s.fullPath(key))
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (s *DiskStore) PresignPut(key, contentType string, size int64) (string, error) {
	return "", ErrPresignUnsupported
}

// List walks the whole tree under prefix. Disk listings are small enough that
// no pagination is done - NextToken is always empty.
func (s *DiskStore) List(prefix, continuationToken string) (ListResult, error) {
	result := ListResult{Objects: []Object{}}
	err := filepath.WalkDir(s.BasePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(s.BasePath, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		result.Objects = append(result.Objects, Object{Key: key, LastModified: info.ModTime()})
		return nil
	})
	if os.IsNotExist(err) {
		err = nil
	}
	return result, err
}

// FreeSpace reports the bytes available on the file system holding BasePath.
func (s *DiskStore) FreeSpace() uint64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(s.BasePath, &stat); err != nil {
		return 0
	}
	return stat.Bavail * uint64(stat.Bsize)
}
