// Package registry keeps the known subjects of a dataset bucket. It is
// rebuilt from the bucket index file and the per-subject annotation sidecars
// on Load, and written back one save at a time through Commit.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/menta2k/image-acquisition/internal/utils"
	"github.com/menta2k/image-acquisition/pkg/types"
)

// SidecarName is the per-subject annotation file
const SidecarName = "annotations.json"

// Registry is the in-memory store of subjects for one bucket
type Registry struct {
	dataDir  string
	bucket   string
	subjects map[string]*types.Subject
	maxDir   int
}

// New creates an empty registry rooted at dataDir. Call Load to read the index.
func New(dataDir, bucket string) *Registry {
	return &Registry{
		dataDir:  dataDir,
		bucket:   bucket,
		subjects: make(map[string]*types.Subject),
	}
}

// DataDir returns the dataset root directory
func (r *Registry) DataDir() string {
	return r.dataDir
}

// IndexPath returns the path of the bucket index file
func (r *Registry) IndexPath() string {
	return filepath.Join(r.dataDir, r.bucket+"-info.csv")
}

// SidecarPath returns the annotation file of a subject directory
func (r *Registry) SidecarPath(dir string) string {
	return filepath.Join(r.dataDir, dir, SidecarName)
}

// ImagePath returns the absolute location of a data-relative image path
func (r *Registry) ImagePath(rel string) string {
	return filepath.Join(r.dataDir, filepath.FromSlash(rel))
}

// Load creates the data directory if needed and rebuilds the subjects from
// the index file and sidecars. Any parse error aborts the load.
func (r *Registry) Load() error {
	if !utils.DirExists(r.dataDir) {
		if err := os.MkdirAll(r.dataDir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		log.WithField("data_dir", r.dataDir).Info("created data directory")
	}

	r.subjects = make(map[string]*types.Subject)
	r.maxDir = 0

	records, err := r.Records()
	if err != nil {
		return err
	}

	for _, rec := range records {
		dir, seq, err := SplitPath(rec.Path)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", r.IndexPath(), err)
		}

		s, ok := r.subjects[rec.Name]
		if ok {
			s.MaxSeq = max(s.MaxSeq, seq)
			continue
		}

		s = &types.Subject{Name: rec.Name, Dir: dir, MaxSeq: seq}
		if err := r.mergeSidecar(s); err != nil {
			return err
		}
		r.subjects[rec.Name] = s
		r.trackDir(dir)
	}

	log.WithFields(log.Fields{
		"index":    r.IndexPath(),
		"records":  len(records),
		"subjects": len(r.subjects),
		"max_dir":  r.maxDir,
	}).Debug("registry loaded")
	return nil
}

// Records re-reads the index file. A missing index yields no records.
func (r *Registry) Records() ([]types.IndexRecord, error) {
	f, err := os.Open(r.IndexPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open index file: %w", err)
	}
	defer f.Close()

	records, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", r.IndexPath(), err)
	}
	return records, nil
}

func (r *Registry) mergeSidecar(s *types.Subject) error {
	path := r.SidecarPath(s.Dir)
	if !utils.FileExists(path) {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read sidecar: %w", err)
	}
	var ann types.Annotation
	if err := json.Unmarshal(data, &ann); err != nil {
		return fmt.Errorf("failed to parse sidecar %s: %w", path, err)
	}
	s.Gender = ann.Gender
	s.Ethnicity = ann.Ethnicity
	return nil
}

func (r *Registry) trackDir(dir string) {
	if n, err := strconv.Atoi(dir); err == nil && n > r.maxDir {
		r.maxDir = n
	}
}

// MaxDir returns the highest numeric subject directory seen so far
func (r *Registry) MaxDir() int {
	return r.maxDir
}

// Lookup returns the subject with exactly this name
func (r *Registry) Lookup(name string) (types.Subject, bool) {
	s, ok := r.subjects[name]
	if !ok {
		return types.Subject{}, false
	}
	return *s, true
}

// Ensure returns the subject for name, registering a default record when the
// name is unknown. A default record owns no directory until its first save.
func (r *Registry) Ensure(name string) types.Subject {
	if s, ok := r.subjects[name]; ok {
		return *s
	}
	s := types.NewSubject(name)
	r.subjects[name] = &s
	return s
}

// Reserve returns the subject record as it will be after its next save: a
// freshly allocated directory for a first save and the next sequence number.
// Nothing is stored until Commit.
func (r *Registry) Reserve(name string) types.Subject {
	s := r.Ensure(name)
	if s.Dir == "" {
		s.Dir = FormatDir(r.maxDir + 1)
	}
	s.MaxSeq++
	return s
}

// Commit persists one saved image of s: the sidecar is overwritten, rec is
// appended to the index and the in-memory record is replaced by s. When the
// index cannot be appended the previous sidecar is restored.
func (r *Registry) Commit(s types.Subject, rec types.IndexRecord) error {
	if err := ValidateRecord(rec); err != nil {
		return err
	}

	path := r.SidecarPath(s.Dir)
	previous, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read sidecar: %w", err)
	}
	hadSidecar := err == nil

	if err := r.writeSidecar(s); err != nil {
		return err
	}
	if err := r.appendRecord(rec); err != nil {
		r.restoreSidecar(path, previous, hadSidecar)
		return err
	}

	stored := s
	r.subjects[s.Name] = &stored
	r.trackDir(s.Dir)

	log.WithFields(log.Fields{
		"subject": s.Name,
		"dir":     s.Dir,
		"seq":     s.MaxSeq,
	}).Info("subject updated")
	return nil
}

func (r *Registry) writeSidecar(s types.Subject) error {
	path := r.SidecarPath(s.Dir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create subject directory: %w", err)
	}
	data, err := json.Marshal(s.Annotation())
	if err != nil {
		return fmt.Errorf("failed to marshal annotations: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write sidecar: %w", err)
	}
	return nil
}

func (r *Registry) restoreSidecar(path string, previous []byte, existed bool) {
	var err error
	if existed {
		err = os.WriteFile(path, previous, 0o644)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		log.WithError(err).WithField("sidecar", path).Warn("failed to restore sidecar")
	}
}

func (r *Registry) appendRecord(rec types.IndexRecord) error {
	f, err := os.OpenFile(r.IndexPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open index file: %w", err)
	}
	if _, err := f.WriteString(FormatRecord(rec)); err != nil {
		f.Close()
		return fmt.Errorf("failed to append index record: %w", err)
	}
	return f.Close()
}

// Subjects returns every known subject ordered by directory, then name.
// Subjects without a saved image sort last.
func (r *Registry) Subjects() []types.Subject {
	out := make([]types.Subject, 0, len(r.subjects))
	for _, s := range r.subjects {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Dir == "") != (b.Dir == "") {
			return b.Dir == ""
		}
		if a.Dir != b.Dir {
			return a.Dir < b.Dir
		}
		return a.Name < b.Name
	})
	return out
}
