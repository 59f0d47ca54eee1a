package registry

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/menta2k/image-acquisition/pkg/types"
)

// ErrLineBreak rejects index fields that would split a record over two lines
var ErrLineBreak = errors.New("index fields must not contain line breaks")

// FormatRecord renders an index line: path;"name";url
func FormatRecord(rec types.IndexRecord) string {
	name := `"` + strings.ReplaceAll(rec.Name, `"`, `""`) + `"`
	return rec.Path + ";" + name + ";" + rec.URL + "\n"
}

// ValidateRecord reports whether rec can be written as a single index line
func ValidateRecord(rec types.IndexRecord) error {
	fields := []struct{ name, value string }{
		{"path", rec.Path},
		{"name", rec.Name},
		{"url", rec.URL},
	}
	for _, f := range fields {
		if strings.ContainsAny(f.value, "\r\n") {
			return fmt.Errorf("%s %q: %w", f.name, f.value, ErrLineBreak)
		}
	}
	if strings.Contains(rec.Path, ";") {
		return fmt.Errorf("path %q must not contain ';'", rec.Path)
	}
	return nil
}

// ReadRecords parses every line of an index file. Blank lines are skipped.
func ReadRecords(r io.Reader) ([]types.IndexRecord, error) {
	br := bufio.NewReader(r)

	var out []types.IndexRecord
	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		text := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if text != "" {
			rec, perr := ParseRecord(text)
			if perr != nil {
				return nil, fmt.Errorf("line %d: %w", n, perr)
			}
			out = append(out, rec)
		}
		if err != nil {
			return out, nil
		}
	}
}

// ParseRecord parses one index line. The path ends at the first ';', the name
// is double quoted with "" as an escaped quote and the rest of the line is the
// URL as written.
func ParseRecord(line string) (types.IndexRecord, error) {
	path, rest, ok := strings.Cut(line, ";")
	if !ok {
		return types.IndexRecord{}, errors.New("expected 3 fields, got 1")
	}
	if !strings.HasPrefix(rest, `"`) {
		return types.IndexRecord{}, errors.New("subject name must be quoted")
	}

	var name strings.Builder
	i := 1
	for {
		q := strings.IndexByte(rest[i:], '"')
		if q < 0 {
			return types.IndexRecord{}, errors.New("unterminated subject name")
		}
		name.WriteString(rest[i : i+q])
		i += q + 1
		if strings.HasPrefix(rest[i:], `"`) {
			name.WriteByte('"')
			i++
			continue
		}
		break
	}

	url, ok := strings.CutPrefix(rest[i:], ";")
	if !ok {
		if rest[i:] == "" {
			return types.IndexRecord{}, errors.New("expected 3 fields, got 2")
		}
		return types.IndexRecord{}, fmt.Errorf("unexpected text after subject name: %q", rest[i:])
	}
	return types.IndexRecord{Path: path, Name: name.String(), URL: url}, nil
}

// SplitPath extracts the subject directory and image sequence number from a
// data-relative image path such as "003/02.png"
func SplitPath(p string) (string, int, error) {
	slash := strings.Index(p, "/")
	if slash <= 0 {
		return "", 0, fmt.Errorf("invalid image path %q: missing subject directory", p)
	}
	dot := strings.LastIndex(p, ".")
	if dot <= slash {
		dot = len(p)
	}
	seq, err := strconv.Atoi(p[slash+1 : dot])
	if err != nil {
		return "", 0, fmt.Errorf("invalid image path %q: %w", p, err)
	}
	return p[:slash], seq, nil
}

// FormatDir renders a subject directory number
func FormatDir(n int) string {
	return fmt.Sprintf("%03d", n)
}
