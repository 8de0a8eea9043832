package gen

import (
	"bufio"
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
)

// CheckResult compares generated output against files on disk.
type CheckResult struct {
	// Missing files are generated but absent on disk.
	Missing []string
	// Changed files differ from the generated content.
	Changed []string
	// Stale files carry the generated marker but are no longer produced.
	Stale []string
}

// UpToDate reports whether the directory matches the output exactly.
func (c *CheckResult) UpToDate() bool {
	return len(c.Missing) == 0 && len(c.Changed) == 0 && len(c.Stale) == 0
}

// Check compares o with the contents of dir without modifying it. A missing
// dir reports every file as missing.
func (o *Output) Check(dir string) (*CheckResult, error) {
	res := &CheckResult{}
	for _, p := range o.Paths() {
		got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(p)))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			res.Missing = append(res.Missing, p)
		case err != nil:
			return nil, errors.Wrapf(err, "read %s", p)
		case !bytes.Equal(got, o.Files[p]):
			res.Changed = append(res.Changed, p)
		}
	}
	stale, err := o.stale(dir)
	if err != nil {
		return nil, err
	}
	res.Stale = stale
	return res, nil
}

// stale lists .ts files below dir that start with GeneratedLine and are not
// part of o.
func (o *Output) stale(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == dir {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ".ts" {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if _, ok := o.Files[rel]; ok {
			return nil
		}
		generated, err := isGenerated(p)
		if err != nil {
			return err
		}
		if generated {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scan %s", dir)
	}
	sort.Strings(out)
	return out, nil
}

func isGenerated(file string) (bool, error) {
	f, err := os.Open(file)
	if err != nil {
		return false, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return false, sc.Err()
	}
	return sc.Text() == GeneratedLine, nil
}
