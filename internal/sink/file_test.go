package sink

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestNewFileSink(t *testing.T) {
	t.Run("default path", func(t *testing.T) {
		s := NewFileSink(Config{})

		assert.Equal(t, DefaultTargetPath, s.Path())
	})

	t.Run("configured path", func(t *testing.T) {
		s := NewFileSink(Config{TargetPath: "/tmp/out.csv"})

		assert.Equal(t, "/tmp/out.csv", s.Path())
	})

	t.Run("file is not created eagerly", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reports.csv")
		_ = NewFileSink(Config{TargetPath: path})

		_, err := os.Stat(path)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestFileSink_Append(t *testing.T) {
	t.Run("creates missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reports.csv")
		s := NewFileSink(Config{TargetPath: path})

		require.NoError(t, s.Append("first\n"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "first\n", string(data))
	})

	t.Run("keeps existing content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reports.csv")
		require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o644))

		s := NewFileSink(Config{TargetPath: path})

		for i := 0; i < 3; i++ {
			require.NoError(t, s.Append(fmt.Sprintf("line %d\n", i)))
		}

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "existing\nline 0\nline 1\nline 2\n", string(data))
	})

	t.Run("parent is not a directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0o644))

		s := NewFileSink(Config{TargetPath: filepath.Join(file, "reports.csv")})

		err := s.Append("line\n")
		require.Error(t, err)

		var pathErr *fs.PathError
		assert.True(t, errors.As(err, &pathErr))
	})

	t.Run("missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "reports.csv")
		s := NewFileSink(Config{TargetPath: path})

		err := s.Append("line\n")

		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		const writers = 64

		path := filepath.Join(t.TempDir(), "reports.csv")
		s := NewFileSink(Config{TargetPath: path})

		// Long lines make torn writes visible if the lock were missing.
		payload := strings.Repeat("x", 4096)

		var g errgroup.Group
		for i := 0; i < writers; i++ {
			g.Go(func() error {
				return s.Append(fmt.Sprintf("\"%d-%s\",%d\n", i, payload, i))
			})
		}
		require.NoError(t, g.Wait())

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()

		r := csv.NewReader(f)
		r.FieldsPerRecord = 2

		records, err := r.ReadAll()
		require.NoError(t, err)
		assert.Len(t, records, writers)

		seen := make(map[string]bool, writers)
		for _, rec := range records {
			assert.Equal(t, rec[1]+"-"+payload, rec[0])
			seen[rec[1]] = true
		}
		assert.Len(t, seen, writers)
	})
}
