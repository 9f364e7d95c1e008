package utm

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"howett.net/plist"
)

// PackageExt is the directory extension UTM recognizes as one VM
const PackageExt = ".utm"

// configFileName is the metadata file inside each package
const configFileName = "config.plist"

// ListPackages returns the set of .utm packages directly under dir
func ListPackages(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	out := map[string]struct{}{}
	for _, e := range entries {
		if strings.EqualFold(filepath.Ext(e.Name()), PackageExt) {
			out[filepath.Join(dir, e.Name())] = struct{}{}
		}
	}
	return out, nil
}

// NewPackages returns the packages present under dir but absent from the
// before snapshot, newest modification first
func NewPackages(dir string, before map[string]struct{}) ([]string, error) {
	after, err := ListPackages(dir)
	if err != nil {
		return nil, err
	}

	mtimes := map[string]time.Time{}
	var created []string
	for p := range after {
		if _, ok := before[p]; ok {
			continue
		}
		created = append(created, p)
		if info, err := os.Stat(p); err == nil {
			mtimes[p] = info.ModTime()
		}
	}

	sort.Slice(created, func(i, j int) bool {
		ti, tj := mtimes[created[i]], mtimes[created[j]]
		if ti.Equal(tj) {
			return created[i] < created[j]
		}
		return ti.After(tj)
	})
	return created, nil
}

// UniquePath returns path unchanged when free, else the first of path-2,
// path-3, ... (suffix inserted before the extension) that does not exist
func UniquePath(path string) string {
	if !exists(path) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", base, i, ext)
		if !exists(candidate) {
			return candidate
		}
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// SetDisplayName rewrites the name field of the package's config.plist,
// preserving every other field. A package without a config.plist is left
// untouched.
func SetDisplayName(pkgPath, name string) error {
	cfgPath := filepath.Join(pkgPath, configFileName)
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return goerr.Wrap(err, "failed to read package config", goerr.V("path", cfgPath))
	}

	var cfg map[string]any
	if _, err := plist.Unmarshal(data, &cfg); err != nil {
		return goerr.Wrap(err, "failed to parse package config", goerr.V("path", cfgPath))
	}

	cfg["name"] = name

	out, err := plist.MarshalIndent(cfg, plist.XMLFormat, "\t")
	if err != nil {
		return goerr.Wrap(err, "failed to encode package config", goerr.V("path", cfgPath))
	}
	if err := os.WriteFile(cfgPath, out, 0644); err != nil {
		return goerr.Wrap(err, "failed to write package config", goerr.V("path", cfgPath))
	}
	return nil
}

// CopyDir recursively copies the package directory at src to dst
func CopyDir(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm()|0700)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(p, target, info.Mode().Perm())
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
